// FilePath: internal/relayservice/relayservice.aggregate.go
package relayservice

import (
	"context"
	"strings"

	"github.com/sarlink/relayhub/internal/errors"
	"github.com/sarlink/relayhub/internal/models"
)

// AggregateProducedEvent summarizes a snapshot computation.
type AggregateProducedEvent struct {
	MasterID           string `json:"master_id"`
	TotalSlaves        int    `json:"total_slaves"`
	TotalTransmissions int    `json:"total_transmissions"`
	TotalDetections    int    `json:"total_detections"`
}

// Aggregate recomputes the consolidated per-master picture from the latest
// query window. Pure read side: it never mutates the log or the registry,
// and repeated calls over unchanged data yield identical snapshots.
func (s *RelayService) Aggregate(ctx context.Context, masterID string, limit int) (*models.AggregateSnapshot, error) {
	masterID = strings.TrimSpace(masterID)
	if masterID == "" {
		return nil, errors.NewValidationError("master id is required", nil)
	}

	window, err := s.Log.QueryByMaster(ctx, masterID, limit)
	if err != nil {
		return nil, err
	}

	snapshot := BuildSnapshot(masterID, window)

	s.emit(EventAggregateProduced, AggregateProducedEvent{
		MasterID:           snapshot.MasterID,
		TotalSlaves:        snapshot.TotalSlaves,
		TotalTransmissions: snapshot.TotalTransmissions,
		TotalDetections:    snapshot.TotalDetections,
	})
	return snapshot, nil
}

// BuildSnapshot folds a query window into per-slave summaries. "Latest"
// fields follow the caller-supplied timestamp, not arrival order: they are
// overwritten only when a strictly greater timestamp is seen, so on equal
// timestamps the summary already accumulated stays in place. The invariant
// holds regardless of the window's iteration order.
func BuildSnapshot(masterID string, window []models.StoredTransmission) *models.AggregateSnapshot {
	snapshot := &models.AggregateSnapshot{
		MasterID: masterID,
		Slaves:   make(map[string]*models.SlaveSummary),
	}

	for i := range window {
		tx := window[i]

		summary, ok := snapshot.Slaves[tx.SlaveID]
		if !ok {
			summary = &models.SlaveSummary{SlaveID: tx.SlaveID}
			snapshot.Slaves[tx.SlaveID] = summary
		}

		summary.Transmissions = append(summary.Transmissions, tx)
		summary.TotalDetections += tx.DetectionsCount
		snapshot.TotalTransmissions++
		snapshot.TotalDetections += tx.DetectionsCount

		if summary.LastUpdate.IsZero() || tx.Timestamp.After(summary.LastUpdate) {
			summary.LatestLocation = tx.Location
			summary.LatestBattery = tx.BatteryLevel
			summary.LatestLinkMetrics = models.LinkMetrics{
				IsacMode:       tx.IsacMode,
				SignalStrength: tx.SignalStrength,
				DataRate:       tx.DataRate,
			}
			summary.LastUpdate = tx.Timestamp
		}
	}

	snapshot.TotalSlaves = len(snapshot.Slaves)
	return snapshot
}
