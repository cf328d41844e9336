// FilePath: internal/repository/postgres/postgres.transmissionlog.go
package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sarlink/relayhub/internal/database"
	"github.com/sarlink/relayhub/internal/errors"
	"github.com/sarlink/relayhub/internal/models"
	"github.com/sarlink/relayhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// TransmissionLogRepo is the append-only transmission store on the
// telemetry database.
type TransmissionLogRepo struct {
	PostgresBaseRepo
}

// NewTransmissionLogRepository creates a new PostgreSQL-backed transmission log
func NewTransmissionLogRepository(db database.DB) repository.TransmissionLog {
	repo := &TransmissionLogRepo{PostgresBaseRepo{db: db}}
	if err := repo.InitSchema(context.Background()); err != nil {
		nuts.L.Warnf("[TransmissionLog] Schema initialization deferred: %v", err)
	}
	return repo
}

// InitSchema creates the transmissions table and its query index. When the
// TimescaleDB extension is active the table becomes a hypertable chunked by
// arrival time.
func (r *TransmissionLogRepo) InitSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS transmissions (
			id TEXT NOT NULL,
			slave_id TEXT NOT NULL,
			master_id TEXT NOT NULL,
			lat DOUBLE PRECISION NOT NULL DEFAULT 0,
			lng DOUBLE PRECISION NOT NULL DEFAULT 0,
			altitude DOUBLE PRECISION NOT NULL DEFAULT 0,
			battery_level DOUBLE PRECISION,
			isac_mode TEXT NOT NULL DEFAULT '',
			signal_strength DOUBLE PRECISION,
			data_rate DOUBLE PRECISION,
			detections JSONB,
			detections_count INTEGER NOT NULL DEFAULT 0,
			timestamp TIMESTAMPTZ NOT NULL,
			received_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transmissions_master_timestamp
			ON transmissions(master_id, timestamp DESC, received_at DESC)`,
	}

	if telemetry, ok := r.db.(*database.TelemetryDB); ok && telemetry.Hypertables() {
		queries = append(queries,
			`SELECT create_hypertable('transmissions', 'received_at',
				chunk_time_interval => INTERVAL '1 day',
				if_not_exists => TRUE
			)`)
	}

	for _, query := range queries {
		if _, err := r.db.GetDB().ExecContext(ctx, query); err != nil {
			return errors.NewUnavailableError("failed to initialize transmissions schema", err)
		}
	}
	return nil
}

// txRow is the flat scan target for the transmissions table.
type txRow struct {
	ID              string    `db:"id"`
	SlaveID         string    `db:"slave_id"`
	MasterID        string    `db:"master_id"`
	Lat             float64   `db:"lat"`
	Lng             float64   `db:"lng"`
	Altitude        float64   `db:"altitude"`
	BatteryLevel    *float64  `db:"battery_level"`
	IsacMode        string    `db:"isac_mode"`
	SignalStrength  *float64  `db:"signal_strength"`
	DataRate        *float64  `db:"data_rate"`
	Detections      []byte    `db:"detections"`
	DetectionsCount int       `db:"detections_count"`
	Timestamp       time.Time `db:"timestamp"`
	ReceivedAt      time.Time `db:"received_at"`
}

func (row *txRow) toStored() (models.StoredTransmission, error) {
	stored := models.StoredTransmission{
		Transmission: models.Transmission{
			SlaveID:         row.SlaveID,
			MasterID:        row.MasterID,
			Location:        models.Location{Lat: row.Lat, Lng: row.Lng, Altitude: row.Altitude},
			BatteryLevel:    row.BatteryLevel,
			IsacMode:        row.IsacMode,
			SignalStrength:  row.SignalStrength,
			DataRate:        row.DataRate,
			DetectionsCount: row.DetectionsCount,
			Timestamp:       row.Timestamp,
		},
		ID:         row.ID,
		ReceivedAt: row.ReceivedAt,
	}
	if len(row.Detections) > 0 {
		if err := json.Unmarshal(row.Detections, &stored.Detections); err != nil {
			return stored, err
		}
	}
	return stored, nil
}

// Append durably stores a transmission, assigning id and receive stamp.
// On the typed missing-schema signal it initializes once and retries once.
func (r *TransmissionLogRepo) Append(ctx context.Context, tx *models.Transmission) (*models.StoredTransmission, error) {
	var stored *models.StoredTransmission
	err := retryAfterInit(ctx, r.InitSchema, func() error {
		var opErr error
		stored, opErr = r.append(ctx, tx)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func (r *TransmissionLogRepo) append(ctx context.Context, tx *models.Transmission) (*models.StoredTransmission, error) {
	query := `
		INSERT INTO transmissions (
			id, slave_id, master_id, lat, lng, altitude,
			battery_level, isac_mode, signal_strength, data_rate,
			detections, detections_count, timestamp, received_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)`

	detections, err := json.Marshal(tx.Detections)
	if err != nil {
		return nil, errors.NewInternalError("failed to encode detections", err)
	}

	stored := &models.StoredTransmission{
		Transmission: *tx,
		ID:           nuts.NID("tx", 12),
		ReceivedAt:   time.Now().UTC(),
	}

	_, err = r.db.GetDB().ExecContext(ctx, query,
		stored.ID,
		stored.SlaveID,
		stored.MasterID,
		stored.Location.Lat,
		stored.Location.Lng,
		stored.Location.Altitude,
		stored.BatteryLevel,
		stored.IsacMode,
		stored.SignalStrength,
		stored.DataRate,
		detections,
		stored.DetectionsCount,
		stored.Timestamp,
		stored.ReceivedAt,
	)
	if err != nil {
		nuts.L.Errorf("[TransmissionLog] Failed to append transmission from %s: %v", tx.SlaveID, err)
		return nil, wrapStorageError("failed to append transmission", err)
	}

	return stored, nil
}

// QueryByMaster returns up to limit most-recently-arrived transmissions for
// the master, presented in caller-timestamp-descending order with arrival
// order breaking ties. An uninitialized log reads as empty.
func (r *TransmissionLogRepo) QueryByMaster(ctx context.Context, masterID string, limit int) ([]models.StoredTransmission, error) {
	if limit <= 0 {
		limit = repository.DefaultQueryLimit
	}

	query := `
		SELECT id, slave_id, master_id, lat, lng, altitude,
			battery_level, isac_mode, signal_strength, data_rate,
			detections, detections_count, timestamp, received_at
		FROM (
			SELECT * FROM transmissions
			WHERE master_id = $1
			ORDER BY received_at DESC
			LIMIT $2
		) recent
		ORDER BY timestamp DESC, received_at ASC`

	rows := []txRow{}
	err := r.db.GetDB().SelectContext(ctx, &rows, query, masterID, limit)
	if err != nil {
		wrapped := wrapStorageError("failed to query transmissions", err)
		if errors.IsNotInitialized(wrapped) {
			return []models.StoredTransmission{}, nil
		}
		nuts.L.Errorf("[TransmissionLog] Failed to query transmissions for master %s: %v", masterID, err)
		return nil, wrapped
	}

	transmissions := make([]models.StoredTransmission, 0, len(rows))
	for i := range rows {
		stored, err := rows[i].toStored()
		if err != nil {
			return nil, errors.NewInternalError("failed to decode stored detections", err)
		}
		transmissions = append(transmissions, stored)
	}
	return transmissions, nil
}

// DistinctSlaves lists slave ids that have transmitted to the master,
// most recently active first. An uninitialized log reads as empty.
func (r *TransmissionLogRepo) DistinctSlaves(ctx context.Context, masterID string) ([]string, error) {
	query := `
		SELECT slave_id FROM transmissions
		WHERE master_id = $1
		GROUP BY slave_id
		ORDER BY MAX(received_at) DESC`

	slaves := []string{}
	err := r.db.GetDB().SelectContext(ctx, &slaves, query, masterID)
	if err != nil {
		wrapped := wrapStorageError("failed to list distinct slaves", err)
		if errors.IsNotInitialized(wrapped) {
			return []string{}, nil
		}
		nuts.L.Errorf("[TransmissionLog] Failed to list slaves for master %s: %v", masterID, err)
		return nil, wrapped
	}
	return slaves, nil
}
