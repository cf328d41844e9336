// FilePath: internal/models/models.master.go
package models

import "time"

// MasterAssignment is the single currently-designated master unit.
// Reassignment overwrites it in place; no history is kept.
type MasterAssignment struct {
	MasterID   string    `json:"master_id" db:"master_id"`
	AssignedAt time.Time `json:"assigned_at" db:"assigned_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
