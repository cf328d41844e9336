// FilePath: internal/relayservice/relayservice.detection.go
package relayservice

import (
	"context"

	"github.com/sarlink/relayhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// SourceSlave tags slave-originated detections, distinguishing them from
// any future master-originated relay path.
const SourceSlave = "slave"

// SurvivorDetectedEvent carries a relayed detection plus the reporting
// unit's context at the time of the transmission.
type SurvivorDetectedEvent struct {
	Detection      models.DetectionRecord `json:"detection"`
	UnitID         string                 `json:"unit_id"`
	Location       models.Location        `json:"location"`
	IsacMode       string                 `json:"isac_mode"`
	SignalStrength *float64               `json:"signal_strength"`
	Source         string                 `json:"source"`
}

// RelayDetections forwards each detection of a transmission to the
// detection store, one at a time and in list order. A failing detection is
// logged and skipped; it never blocks or rolls back the others. Returns the
// number successfully relayed.
func (s *RelayService) RelayDetections(ctx context.Context, tx *models.StoredTransmission, detections []models.DetectionInput) int {
	relayed := 0
	for i := range detections {
		record := buildDetectionRecord(tx, &detections[i])

		if err := s.Detections.Insert(ctx, record); err != nil {
			nuts.L.Warnf("[DetectionRelay] Failed to relay detection %s from %s: %v",
				record.ID, tx.SlaveID, err)
			continue
		}
		relayed++

		s.emit(EventDetectionRelayed, SurvivorDetectedEvent{
			Detection:      *record,
			UnitID:         tx.SlaveID,
			Location:       tx.Location,
			IsacMode:       tx.IsacMode,
			SignalStrength: tx.SignalStrength,
			Source:         SourceSlave,
		})
	}
	return relayed
}

// buildDetectionRecord canonicalizes a raw detection. ReportingUnitID is
// pinned to the originating slave, never rewritten to the master.
func buildDetectionRecord(tx *models.StoredTransmission, input *models.DetectionInput) *models.DetectionRecord {
	record := &models.DetectionRecord{
		ID:              input.ID,
		Coordinates:     input.Coordinates,
		Confidence:      input.Confidence,
		DetectionType:   input.DetectionType,
		ReportingUnitID: tx.SlaveID,
		Timestamp:       tx.Timestamp,
		Status:          models.DetectionStatusDetected,
		AdditionalInfo:  input.AdditionalInfo,
	}
	if record.ID == "" {
		record.ID = nuts.NID("det", 12)
	}
	if record.DetectionType == "" {
		record.DetectionType = models.DetectionTypeDefault
	}
	if input.Timestamp != nil {
		record.Timestamp = *input.Timestamp
	}
	return record
}
