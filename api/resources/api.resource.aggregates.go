// FilePath: api/resources/api.resource.aggregates.go
package resources

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sarlink/relayhub/internal/errors"
	"github.com/sarlink/relayhub/internal/relayservice"
	nuts "github.com/vaudience/go-nuts"
)

// AggregateHandlers encapsulates the aggregate HTTP handlers
type AggregateHandlers struct {
	relay *relayservice.RelayService
}

// @Summary Get the aggregate snapshot for a master
// @Description Recompute the consolidated per-slave picture for a master unit
// @Tags aggregates
// @Produce json
// @Param id path string true "Master unit id"
// @Param limit query int false "Window size (default 100)"
// @Success 200 {object} models.AggregateSnapshot
// @Failure 400 {object} errors.APIError
// @Router /masters/{id}/aggregate [get]
// @Security BearerAuth
func (h *AggregateHandlers) GetAggregate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID := nuts.NID("req", 12)

	var query windowQuery
	if err := queryDecoder.Decode(&query, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	snapshot, err := h.relay.Aggregate(r.Context(), vars["id"], query.Limit)
	if err != nil {
		respondServiceError(w, requestID, err, "failed to compute aggregate")
		return
	}

	respondWithJSON(w, http.StatusOK, snapshot)
}
