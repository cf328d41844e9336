// FilePath: internal/relayservice/fakes_test.go
package relayservice

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sarlink/relayhub/internal/models"
	"github.com/sarlink/relayhub/internal/repository"
)

// fakeMasterRegistry is an in-memory MasterRegistry.
type fakeMasterRegistry struct {
	mu         sync.Mutex
	assignment *models.MasterAssignment
	setCalls   int
	setErr     error
}

func (f *fakeMasterRegistry) Set(_ context.Context, masterID string) (*models.MasterAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return nil, f.setErr
	}
	now := time.Now().UTC()
	if f.assignment == nil || f.assignment.MasterID != masterID {
		f.assignment = &models.MasterAssignment{MasterID: masterID, AssignedAt: now}
	}
	f.assignment.UpdatedAt = now
	copy := *f.assignment
	return &copy, nil
}

func (f *fakeMasterRegistry) Get(_ context.Context) (*models.MasterAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assignment == nil {
		return nil, nil
	}
	copy := *f.assignment
	return &copy, nil
}

// fakeTransmissionLog is an in-memory TransmissionLog honoring the query
// contract: selection window by arrival, presentation order by caller
// timestamp descending with arrival order breaking ties.
type fakeTransmissionLog struct {
	mu        sync.Mutex
	records   []models.StoredTransmission
	appendErr error
	queryErr  error
}

func (f *fakeTransmissionLog) Append(_ context.Context, tx *models.Transmission) (*models.StoredTransmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	stored := models.StoredTransmission{
		Transmission: *tx,
		ID:           fmt.Sprintf("tx-%d", len(f.records)+1),
		ReceivedAt:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(len(f.records)) * time.Second),
	}
	f.records = append(f.records, stored)
	copy := stored
	return &copy, nil
}

func (f *fakeTransmissionLog) QueryByMaster(_ context.Context, masterID string, limit int) ([]models.StoredTransmission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if limit <= 0 {
		limit = repository.DefaultQueryLimit
	}

	matched := []models.StoredTransmission{}
	for _, rec := range f.records {
		if rec.MasterID == masterID {
			matched = append(matched, rec)
		}
	}
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}

	window := make([]models.StoredTransmission, len(matched))
	copy(window, matched)
	sort.SliceStable(window, func(i, j int) bool {
		if !window[i].Timestamp.Equal(window[j].Timestamp) {
			return window[i].Timestamp.After(window[j].Timestamp)
		}
		return window[i].ReceivedAt.Before(window[j].ReceivedAt)
	})
	return window, nil
}

func (f *fakeTransmissionLog) DistinctSlaves(_ context.Context, masterID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	lastSeen := map[string]time.Time{}
	for _, rec := range f.records {
		if rec.MasterID != masterID {
			continue
		}
		if rec.ReceivedAt.After(lastSeen[rec.SlaveID]) {
			lastSeen[rec.SlaveID] = rec.ReceivedAt
		}
	}
	slaves := make([]string, 0, len(lastSeen))
	for id := range lastSeen {
		slaves = append(slaves, id)
	}
	sort.Slice(slaves, func(i, j int) bool {
		return lastSeen[slaves[i]].After(lastSeen[slaves[j]])
	})
	return slaves, nil
}

// fakeDetectionStore records inserts and can fail selected calls.
type fakeDetectionStore struct {
	mu       sync.Mutex
	records  []models.DetectionRecord
	calls    int
	failCall map[int]error // 1-based call index -> error
}

func (f *fakeDetectionStore) Insert(_ context.Context, record *models.DetectionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.failCall[f.calls]; ok {
		return err
	}
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeDetectionStore) stored() []models.DetectionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.DetectionRecord, len(f.records))
	copy(out, f.records)
	return out
}

func newTestService() (*RelayService, *fakeMasterRegistry, *fakeTransmissionLog, *fakeDetectionStore) {
	masters := &fakeMasterRegistry{}
	log := &fakeTransmissionLog{}
	detections := &fakeDetectionStore{}
	return New(masters, log, detections), masters, log, detections
}

func floatPtr(v float64) *float64 {
	return &v
}
