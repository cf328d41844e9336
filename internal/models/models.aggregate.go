// FilePath: internal/models/models.aggregate.go
package models

import "time"

// SlaveSummary is the merged per-slave view within an aggregate window.
// Latest* fields reflect the transmission with the greatest caller-supplied
// timestamp in the window, which is not necessarily the last one appended.
type SlaveSummary struct {
	SlaveID           string               `json:"slave_id"`
	Transmissions     []StoredTransmission `json:"transmissions"`
	TotalDetections   int                  `json:"total_detections"`
	LatestLocation    Location             `json:"latest_location"`
	LatestBattery     *float64             `json:"latest_battery"`
	LatestLinkMetrics LinkMetrics          `json:"latest_link_metrics"`
	LastUpdate        time.Time            `json:"last_update"`
}

// AggregateSnapshot is the consolidated per-master picture, recomputed fresh
// on every request.
type AggregateSnapshot struct {
	MasterID           string                   `json:"master_id"`
	TotalSlaves        int                      `json:"total_slaves"`
	TotalTransmissions int                      `json:"total_transmissions"`
	TotalDetections    int                      `json:"total_detections"`
	Slaves             map[string]*SlaveSummary `json:"slaves"`
}
