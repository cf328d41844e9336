// FilePath: internal/repository/postgres/postgres.masterregistry.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/sarlink/relayhub/internal/database"
	"github.com/sarlink/relayhub/internal/errors"
	"github.com/sarlink/relayhub/internal/models"
	"github.com/sarlink/relayhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// MasterRegistryRepo keeps the single active master assignment in a
// one-row table. The singleton column enforces at-most-one assignment.
type MasterRegistryRepo struct {
	PostgresBaseRepo
}

// NewMasterRegistryRepository creates a new PostgreSQL-backed master registry
func NewMasterRegistryRepository(db database.DB) repository.MasterRegistry {
	repo := &MasterRegistryRepo{PostgresBaseRepo{db: db}}
	if err := repo.InitSchema(context.Background()); err != nil {
		nuts.L.Warnf("[MasterRegistry] Schema initialization deferred: %v", err)
	}
	return repo
}

// InitSchema creates the assignment table. Idempotent; runs at startup and
// again from the defensive write-path retry.
func (r *MasterRegistryRepo) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS master_assignment (
			singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
			master_id TEXT NOT NULL,
			assigned_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`

	if _, err := r.db.GetDB().ExecContext(ctx, query); err != nil {
		return errors.NewUnavailableError("failed to initialize master_assignment schema", err)
	}
	return nil
}

// Set overwrites the active assignment. Re-assigning the same unit still
// touches updated_at; assigned_at survives only while the master id is
// unchanged.
func (r *MasterRegistryRepo) Set(ctx context.Context, masterID string) (*models.MasterAssignment, error) {
	var assignment *models.MasterAssignment
	err := retryAfterInit(ctx, r.InitSchema, func() error {
		var opErr error
		assignment, opErr = r.set(ctx, masterID)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

func (r *MasterRegistryRepo) set(ctx context.Context, masterID string) (*models.MasterAssignment, error) {
	query := `
		INSERT INTO master_assignment (singleton, master_id, assigned_at, updated_at)
		VALUES (TRUE, $1, $2, $2)
		ON CONFLICT (singleton) DO UPDATE SET
			master_id = EXCLUDED.master_id,
			assigned_at = CASE
				WHEN master_assignment.master_id = EXCLUDED.master_id THEN master_assignment.assigned_at
				ELSE EXCLUDED.assigned_at
			END,
			updated_at = EXCLUDED.updated_at
		RETURNING master_id, assigned_at, updated_at`

	assignment := &models.MasterAssignment{}
	now := time.Now().UTC()
	err := r.db.GetDB().GetContext(ctx, assignment, query, masterID, now)
	if err != nil {
		nuts.L.Errorf("[MasterRegistry] Failed to set master %s: %v", masterID, err)
		return nil, wrapStorageError("failed to set master assignment", err)
	}
	return assignment, nil
}

// Get returns the active assignment, or (nil, nil) when none was ever made.
// An uninitialized table reads as absent, not as an error.
func (r *MasterRegistryRepo) Get(ctx context.Context) (*models.MasterAssignment, error) {
	query := `
		SELECT master_id, assigned_at, updated_at
		FROM master_assignment
		WHERE singleton = TRUE`

	assignment := &models.MasterAssignment{}
	err := r.db.GetDB().GetContext(ctx, assignment, query)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		wrapped := wrapStorageError("failed to get master assignment", err)
		if errors.IsNotInitialized(wrapped) {
			return nil, nil
		}
		nuts.L.Errorf("[MasterRegistry] Failed to get master assignment: %v", err)
		return nil, wrapped
	}
	return assignment, nil
}
