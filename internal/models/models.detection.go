// FilePath: internal/models/models.detection.go
package models

import "time"

// DetectionInput is the raw detection payload attached to a transmission.
// Everything except coordinates is optional; defaults are applied on relay.
type DetectionInput struct {
	ID             string     `json:"id,omitempty"`
	Coordinates    Location   `json:"coordinates"`
	Confidence     float64    `json:"confidence"`
	DetectionType  string     `json:"detection_type,omitempty"`
	Timestamp      *time.Time `json:"timestamp,omitempty"`
	AdditionalInfo string     `json:"additional_info,omitempty"`
}

// DetectionRecord is the canonical record forwarded to the detection store.
// ReportingUnitID is always the originating slave id, never the master's:
// the relay hierarchy must not obscure which physical unit saw the survivor.
type DetectionRecord struct {
	ID              string    `json:"id" db:"id"`
	Coordinates     Location  `json:"coordinates"`
	Confidence      float64   `json:"confidence" db:"confidence"`
	DetectionType   string    `json:"detection_type" db:"detection_type"`
	ReportingUnitID string    `json:"reporting_unit_id" db:"reporting_unit_id"`
	Timestamp       time.Time `json:"timestamp" db:"timestamp"`
	Status          string    `json:"status" db:"status"`
	AdditionalInfo  string    `json:"additional_info,omitempty" db:"additional_info"`
}

const (
	// DetectionTypeDefault is applied when a detection carries no type tag.
	DetectionTypeDefault = "human"
	// DetectionStatusDetected is the initial status of every relayed record.
	DetectionStatusDetected = "detected"
)
