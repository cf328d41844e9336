// FilePath: internal/repository/postgres/postgres.detectionstore.go
package postgres

import (
	"context"

	"github.com/sarlink/relayhub/internal/database"
	"github.com/sarlink/relayhub/internal/errors"
	"github.com/sarlink/relayhub/internal/models"
	"github.com/sarlink/relayhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// DetectionStoreRepo is the canonical detection store on the telemetry
// database. The relay core only depends on the repository.DetectionStore
// interface; this is the default collaborator behind it.
type DetectionStoreRepo struct {
	PostgresBaseRepo
}

// NewDetectionStoreRepository creates a new PostgreSQL-backed detection store
func NewDetectionStoreRepository(db database.DB) repository.DetectionStore {
	repo := &DetectionStoreRepo{PostgresBaseRepo{db: db}}
	if err := repo.InitSchema(context.Background()); err != nil {
		nuts.L.Warnf("[DetectionStore] Schema initialization deferred: %v", err)
	}
	return repo
}

// InitSchema creates the detections table. Idempotent.
func (r *DetectionStoreRepo) InitSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS detections (
			id TEXT PRIMARY KEY,
			lat DOUBLE PRECISION NOT NULL DEFAULT 0,
			lng DOUBLE PRECISION NOT NULL DEFAULT 0,
			altitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
			detection_type TEXT NOT NULL,
			reporting_unit_id TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL,
			additional_info TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_detections_unit_timestamp
			ON detections(reporting_unit_id, timestamp DESC)`,
	}

	for _, query := range queries {
		if _, err := r.db.GetDB().ExecContext(ctx, query); err != nil {
			return errors.NewUnavailableError("failed to initialize detections schema", err)
		}
	}
	return nil
}

// Insert stores a single canonical detection record, initializing the
// schema and retrying once if the table is missing.
func (r *DetectionStoreRepo) Insert(ctx context.Context, record *models.DetectionRecord) error {
	return retryAfterInit(ctx, r.InitSchema, func() error {
		return r.insert(ctx, record)
	})
}

func (r *DetectionStoreRepo) insert(ctx context.Context, record *models.DetectionRecord) error {
	query := `
		INSERT INTO detections (
			id, lat, lng, altitude, confidence, detection_type,
			reporting_unit_id, timestamp, status, additional_info
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)`

	_, err := r.db.GetDB().ExecContext(ctx, query,
		record.ID,
		record.Coordinates.Lat,
		record.Coordinates.Lng,
		record.Coordinates.Altitude,
		record.Confidence,
		record.DetectionType,
		record.ReportingUnitID,
		record.Timestamp,
		record.Status,
		record.AdditionalInfo,
	)
	if err != nil {
		nuts.L.Errorf("[DetectionStore] Failed to insert detection %s: %v", record.ID, err)
		return wrapStorageError("failed to insert detection", err)
	}
	return nil
}
