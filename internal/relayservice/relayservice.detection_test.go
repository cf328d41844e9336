// FilePath: internal/relayservice/relayservice.detection_test.go
package relayservice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sarlink/relayhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStoredTransmission() *models.StoredTransmission {
	return &models.StoredTransmission{
		Transmission: models.Transmission{
			SlaveID:        "S1",
			MasterID:       "M1",
			Location:       models.Location{Lat: 48.2, Lng: 16.3, Altitude: 120},
			IsacMode:       "sensing",
			SignalStrength: floatPtr(-62),
			Timestamp:      time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC),
		},
		ID:         "tx-1",
		ReceivedAt: time.Date(2026, 8, 15, 12, 0, 1, 0, time.UTC),
	}
}

func TestRelayDetectionsAppliesDefaults(t *testing.T) {
	t.Parallel()

	svc, _, _, store := newTestService()
	tx := testStoredTransmission()

	custom := time.Date(2026, 8, 15, 11, 58, 0, 0, time.UTC)
	relayed := svc.RelayDetections(context.Background(), tx, []models.DetectionInput{
		{Coordinates: models.Location{Lat: 48.21}},
		{ID: "d2", DetectionType: "animal", Timestamp: &custom},
	})

	require.Equal(t, 2, relayed)
	records := store.stored()
	require.Len(t, records, 2)

	assert.NotEmpty(t, records[0].ID)
	assert.Equal(t, "human", records[0].DetectionType)
	assert.True(t, records[0].Timestamp.Equal(tx.Timestamp))
	assert.Equal(t, "detected", records[0].Status)
	assert.Equal(t, "S1", records[0].ReportingUnitID)

	assert.Equal(t, "d2", records[1].ID)
	assert.Equal(t, "animal", records[1].DetectionType)
	assert.True(t, records[1].Timestamp.Equal(custom))
	assert.Equal(t, "S1", records[1].ReportingUnitID)
}

func TestRelayDetectionsPartialFailure(t *testing.T) {
	t.Parallel()

	svc, _, _, store := newTestService()
	store.failCall = map[int]error{2: errors.New("store down")}
	tx := testStoredTransmission()

	relayed := svc.RelayDetections(context.Background(), tx, []models.DetectionInput{
		{ID: "d1"},
		{ID: "d2"},
		{ID: "d3"},
	})

	// The failing second detection must not block the first or third.
	assert.Equal(t, 2, relayed)
	records := store.stored()
	require.Len(t, records, 2)
	assert.Equal(t, "d1", records[0].ID)
	assert.Equal(t, "d3", records[1].ID)
}

func TestRelayDetectionsEmitsSurvivorEvents(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestService()
	tx := testStoredTransmission()

	var mu sync.Mutex
	var got []SurvivorDetectedEvent
	svc.OnEvent(EventDetectionRelayed, func(payload any) {
		event, ok := payload.(SurvivorDetectedEvent)
		if !ok {
			return
		}
		mu.Lock()
		got = append(got, event)
		mu.Unlock()
	})

	relayed := svc.RelayDetections(context.Background(), tx, []models.DetectionInput{{ID: "d1"}})
	require.Equal(t, 1, relayed)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "d1", got[0].Detection.ID)
	assert.Equal(t, "S1", got[0].UnitID)
	assert.Equal(t, "slave", got[0].Source)
	assert.Equal(t, "sensing", got[0].IsacMode)
	assert.Equal(t, tx.Location, got[0].Location)
}
