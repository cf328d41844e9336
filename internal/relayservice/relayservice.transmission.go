// FilePath: internal/relayservice/relayservice.transmission.go
package relayservice

import (
	"context"
	"strings"
	"time"

	"github.com/itsatony/struccy"
	"github.com/sarlink/relayhub/internal/errors"
	"github.com/sarlink/relayhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// TransmissionReceivedEvent is the reduced payload emitted after a durable
// append. It deliberately omits the raw detection contents; those travel
// through the detection relay only.
type TransmissionReceivedEvent struct {
	SlaveID         string             `json:"slave_id"`
	MasterID        string             `json:"master_id"`
	Location        models.Location    `json:"location"`
	BatteryLevel    *float64           `json:"battery_level"`
	LinkMetrics     models.LinkMetrics `json:"link_metrics"`
	DetectionsCount int                `json:"detections_count"`
	ReceivedAt      time.Time          `json:"received_at"`
}

// ReportTransmission validates and appends an inbound slave report, fans
// its detections out through the relay, and acknowledges the reporter.
// The report succeeds as long as its own required fields are valid, even
// if every attached detection fails to relay.
func (s *RelayService) ReportTransmission(ctx context.Context, tx *models.Transmission) (*models.TransmissionAck, error) {
	tx.SlaveID = strings.TrimSpace(tx.SlaveID)
	tx.MasterID = strings.TrimSpace(tx.MasterID)
	if tx.SlaveID == "" {
		return nil, errors.NewValidationError("slave id is required", nil)
	}
	if tx.MasterID == "" {
		return nil, errors.NewValidationError("master id is required", nil)
	}

	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now().UTC()
	}
	tx.DetectionsCount = len(tx.Detections)

	stored, err := s.Log.Append(ctx, tx)
	if err != nil {
		return nil, err
	}

	if tx.DetectionsCount > 0 {
		relayed := s.RelayDetections(ctx, stored, tx.Detections)
		if relayed < tx.DetectionsCount {
			nuts.L.Warnf("[RelayService] Partial detection relay for %s: %d/%d forwarded",
				tx.SlaveID, relayed, tx.DetectionsCount)
		}
	}

	s.emit(EventTransmissionReceived, TransmissionReceivedEvent{
		SlaveID:      stored.SlaveID,
		MasterID:     stored.MasterID,
		Location:     stored.Location,
		BatteryLevel: stored.BatteryLevel,
		LinkMetrics: models.LinkMetrics{
			IsacMode:       stored.IsacMode,
			SignalStrength: stored.SignalStrength,
			DataRate:       stored.DataRate,
		},
		DetectionsCount: stored.DetectionsCount,
		ReceivedAt:      stored.ReceivedAt,
	})

	return &models.TransmissionAck{
		SlaveID:         stored.SlaveID,
		MasterID:        stored.MasterID,
		Timestamp:       stored.Timestamp,
		DetectionsCount: stored.DetectionsCount,
	}, nil
}

// ListTransmissions returns the raw query window for a master with
// role-based read filtering applied per record.
func (s *RelayService) ListTransmissions(ctx context.Context, masterID string, limit int) ([]*models.StoredTransmission, error) {
	masterID = strings.TrimSpace(masterID)
	if masterID == "" {
		return nil, errors.NewValidationError("master id is required", nil)
	}

	window, err := s.Log.QueryByMaster(ctx, masterID, limit)
	if err != nil {
		return nil, err
	}

	roles := GetUserRoles(ctx)
	filtered := make([]*models.StoredTransmission, 0, len(window))
	for i := range window {
		filteredMap, err := struccy.StructToMapFieldsWithReadXS(&window[i], roles)
		if err != nil {
			nuts.L.Warnf("[RelayService] Failed to filter transmission %s: %v", window[i].ID, err)
			continue
		}
		filteredTx := &models.StoredTransmission{}
		_, err = struccy.MergeMapStringFieldsToStruct(filteredTx, filteredMap, roles)
		if err != nil {
			nuts.L.Warnf("[RelayService] Failed to map filtered transmission %s: %v", window[i].ID, err)
			continue
		}
		filtered = append(filtered, filteredTx)
	}

	return filtered, nil
}

// ListSlaves returns the distinct slave ids seen for a master, most
// recently active first on a best-effort basis.
func (s *RelayService) ListSlaves(ctx context.Context, masterID string) ([]string, error) {
	masterID = strings.TrimSpace(masterID)
	if masterID == "" {
		return nil, errors.NewValidationError("master id is required", nil)
	}
	return s.Log.DistinctSlaves(ctx, masterID)
}
