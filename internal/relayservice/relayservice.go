// FilePath: internal/relayservice/relayservice.go
package relayservice

import (
	"context"

	"github.com/sarlink/relayhub/internal/errors"
	"github.com/sarlink/relayhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Event names emitted on the notifier boundary after mutating operations.
const (
	EventAssignmentChanged    = "assignment_changed"
	EventTransmissionReceived = "transmission_received"
	EventDetectionRelayed     = "detection_relayed"
	EventAggregateProduced    = "aggregate_produced"
)

// RelayService contains all repositories and service-wide dependencies.
// It is the fan-in core: inbound transmissions are validated, appended,
// their detections relayed, and consolidated snapshots computed on demand.
type RelayService struct {
	Masters    repository.MasterRegistry
	Log        repository.TransmissionLog
	Detections repository.DetectionStore
	events     *nuts.EventEmitter
}

// New creates a new RelayService instance
func New(
	masters repository.MasterRegistry,
	log repository.TransmissionLog,
	detections repository.DetectionStore,
) *RelayService {
	return &RelayService{
		Masters:    masters,
		Log:        log,
		Detections: detections,
		events:     nuts.NewEventEmitter(),
	}
}

// Validate checks if all required repositories are initialized
func (s *RelayService) Validate() error {
	if s.Masters == nil {
		return ErrMissingRepository("masters")
	}
	if s.Log == nil {
		return ErrMissingRepository("log")
	}
	if s.Detections == nil {
		return ErrMissingRepository("detections")
	}
	return nil
}

// OnEvent registers a callback for an outbound event. Delivery is
// fire-and-forget: handler outcomes never affect the originating operation.
func (s *RelayService) OnEvent(event string, handler func(payload any)) {
	s.events.On(event, "relay_handler", func(payload any) {
		handler(payload)
	})
}

func (s *RelayService) emit(event string, payload any) {
	s.events.Emit(event, payload)
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}

// GetUserRoles retrieves user roles from context, defaulting to guest.
func GetUserRoles(ctx context.Context) []string {
	if roles := ctx.Value("user_roles"); roles != nil {
		if r, ok := roles.([]string); ok {
			return r
		}
	}
	return []string{"guest"}
}
