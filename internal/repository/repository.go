// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/sarlink/relayhub/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// DefaultQueryLimit bounds transmission-window queries when the caller
// passes no limit or a non-positive one.
const DefaultQueryLimit = 100

// MasterRegistry holds the single currently-designated master unit.
// Set unconditionally replaces the prior assignment; Get returns
// (nil, nil) when no assignment has ever been made.
type MasterRegistry interface {
	Set(ctx context.Context, masterID string) (*models.MasterAssignment, error)
	Get(ctx context.Context) (*models.MasterAssignment, error)
}

// TransmissionLog is the append-only ordered store of slave transmissions.
// QueryByMaster orders by the caller-supplied timestamp descending with
// arrival order as tie-break; DistinctSlaves is most-recently-active first.
type TransmissionLog interface {
	Append(ctx context.Context, tx *models.Transmission) (*models.StoredTransmission, error)
	QueryByMaster(ctx context.Context, masterID string, limit int) ([]models.StoredTransmission, error)
	DistinctSlaves(ctx context.Context, masterID string) ([]string, error)
}

// DetectionStore is the external canonical store for detection records.
// The core forwards records one at a time and tolerates per-record failure.
type DetectionStore interface {
	Insert(ctx context.Context, record *models.DetectionRecord) error
}
