// FilePath: internal/relayservice/relayservice.master.go
package relayservice

import (
	"context"
	"strings"
	"time"

	"github.com/sarlink/relayhub/internal/errors"
	"github.com/sarlink/relayhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// AssignmentChangedEvent is the payload emitted on every SetMaster call.
type AssignmentChangedEvent struct {
	MasterID  string    `json:"master_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SetMaster designates the given unit as the active master, replacing any
// prior assignment. Re-assigning the same unit is not short-circuited: it
// still touches updated_at and still emits the event.
func (s *RelayService) SetMaster(ctx context.Context, masterID string) (*models.MasterAssignment, error) {
	masterID = strings.TrimSpace(masterID)
	if masterID == "" {
		return nil, errors.NewValidationError("master id is required", nil)
	}

	assignment, err := s.Masters.Set(ctx, masterID)
	if err != nil {
		return nil, err
	}

	nuts.L.Infof("[RelayService] Master assignment set to %s", masterID)
	s.emit(EventAssignmentChanged, AssignmentChangedEvent{
		MasterID:  assignment.MasterID,
		UpdatedAt: assignment.UpdatedAt,
	})
	return assignment, nil
}

// GetMaster returns the active assignment, or (nil, nil) when no unit has
// ever been designated. Absence is not an error.
func (s *RelayService) GetMaster(ctx context.Context) (*models.MasterAssignment, error) {
	return s.Masters.Get(ctx)
}
