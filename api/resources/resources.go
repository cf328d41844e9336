// FilePath: api/resources/resources.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/sarlink/relayhub/internal/errors"
	"github.com/sarlink/relayhub/internal/relayservice"
	nuts "github.com/vaudience/go-nuts"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Master        *MasterHandlers
	Transmissions *TransmissionHandlers
	Aggregates    *AggregateHandlers
}

// NewResources creates a new Resources instance
func NewResources(svc *relayservice.RelayService) *Resources {
	return &Resources{
		Master:        &MasterHandlers{relay: svc},
		Transmissions: &TransmissionHandlers{relay: svc},
		Aggregates:    &AggregateHandlers{relay: svc},
	}
}

// Helper functions

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondServiceError maps service-layer errors onto the wire, preserving
// the typed taxonomy when present
func respondServiceError(w http.ResponseWriter, requestID string, err error, fallback string) {
	if apiErr, ok := err.(*errors.APIError); ok {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}
	respondWithError(w, errors.NewInternalError(fallback, err).WithRequestID(requestID))
}
