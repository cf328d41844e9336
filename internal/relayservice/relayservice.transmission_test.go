// FilePath: internal/relayservice/relayservice.transmission_test.go
package relayservice

import (
	"context"
	"testing"
	"time"

	"github.com/sarlink/relayhub/internal/errors"
	"github.com/sarlink/relayhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportTransmissionValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tx   models.Transmission
	}{
		{name: "missing slave id", tx: models.Transmission{MasterID: "M1"}},
		{name: "missing master id", tx: models.Transmission{SlaveID: "S1"}},
		{name: "whitespace slave id", tx: models.Transmission{SlaveID: "  ", MasterID: "M1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, _, _, _ := newTestService()
			tx := tt.tx
			_, err := svc.ReportTransmission(context.Background(), &tx)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestReportTransmissionDefaultsAndAck(t *testing.T) {
	t.Parallel()

	svc, _, log, _ := newTestService()
	ctx := context.Background()

	before := time.Now().UTC()
	ack, err := svc.ReportTransmission(ctx, &models.Transmission{
		SlaveID:  "S1",
		MasterID: "M1",
		Detections: []models.DetectionInput{
			{ID: "d1"},
			{ID: "d2"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "S1", ack.SlaveID)
	assert.Equal(t, "M1", ack.MasterID)
	assert.Equal(t, 2, ack.DetectionsCount)
	assert.False(t, ack.Timestamp.Before(before))

	window, err := log.QueryByMaster(ctx, "M1", 10)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, 2, window[0].DetectionsCount)
	assert.False(t, window[0].ReceivedAt.IsZero())
}

func TestReportTransmissionSucceedsWhenEveryRelayFails(t *testing.T) {
	t.Parallel()

	svc, _, _, store := newTestService()
	store.failCall = map[int]error{
		1: errors.NewUnavailableError("store down", nil),
		2: errors.NewUnavailableError("store down", nil),
	}

	ack, err := svc.ReportTransmission(context.Background(), &models.Transmission{
		SlaveID:  "S1",
		MasterID: "M1",
		Detections: []models.DetectionInput{
			{ID: "d1"},
			{ID: "d2"},
		},
	})

	// Relay failure is contained per detection; the report still succeeds.
	require.NoError(t, err)
	assert.Equal(t, 2, ack.DetectionsCount)
	assert.Empty(t, store.stored())
}

func TestReportTransmissionPropagatesStorageError(t *testing.T) {
	t.Parallel()

	svc, _, log, _ := newTestService()
	log.appendErr = errors.NewUnavailableError("log unreachable", nil)

	_, err := svc.ReportTransmission(context.Background(), &models.Transmission{
		SlaveID:  "S1",
		MasterID: "M1",
	})
	require.Error(t, err)
	assert.False(t, errors.IsValidation(err))
}

func TestListSlavesMostRecentFirst(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestService()
	ctx := context.Background()

	base := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	for i, slave := range []string{"S1", "S2", "S1", "S3"} {
		_, err := svc.ReportTransmission(ctx, &models.Transmission{
			SlaveID:   slave,
			MasterID:  "M1",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	slaves, err := svc.ListSlaves(ctx, "M1")
	require.NoError(t, err)
	assert.Equal(t, []string{"S3", "S1", "S2"}, slaves)
}
