// FilePath: internal/models/models.transmission.go
package models

import "time"

// Location is a unit position fix. Missing components default to zero.
type Location struct {
	Lat      float64 `json:"lat" db:"lat"`
	Lng      float64 `json:"lng" db:"lng"`
	Altitude float64 `json:"altitude" db:"altitude"`
}

// LinkMetrics describes the current channel quality of a reporting unit.
type LinkMetrics struct {
	IsacMode       string   `json:"isac_mode"`
	SignalStrength *float64 `json:"signal_strength"`
	DataRate       *float64 `json:"data_rate"`
}

// Transmission is a single inbound report from a slave unit to its master.
// Timestamp is caller-supplied and may be unordered relative to arrival.
type Transmission struct {
	SlaveID         string           `json:"slave_id" db:"slave_id"`
	MasterID        string           `json:"master_id" db:"master_id"`
	Location        Location         `json:"location"`
	BatteryLevel    *float64         `json:"battery_level" db:"battery_level"`
	IsacMode        string           `json:"isac_mode" db:"isac_mode"`
	SignalStrength  *float64         `json:"signal_strength" db:"signal_strength"`
	DataRate        *float64         `json:"data_rate" db:"data_rate"`
	Detections      []DetectionInput `json:"detections,omitempty" readxs:"operator,system,superadmin"`
	DetectionsCount int              `json:"detections_count" db:"detections_count"`
	Timestamp       time.Time        `json:"timestamp" db:"timestamp"`
}

// StoredTransmission is a Transmission after a durable append, carrying the
// server-assigned identifiers. ReceivedAt is monotonic in arrival order and
// used for audit only, never for aggregation ordering.
type StoredTransmission struct {
	Transmission
	ID         string    `json:"id" db:"id"`
	ReceivedAt time.Time `json:"received_at" db:"received_at"`
}

// TransmissionAck is the reduced acknowledgement returned to the reporter.
type TransmissionAck struct {
	SlaveID         string    `json:"slave_id"`
	MasterID        string    `json:"master_id"`
	Timestamp       time.Time `json:"timestamp"`
	DetectionsCount int       `json:"detections_count"`
}
