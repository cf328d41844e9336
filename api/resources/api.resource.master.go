// FilePath: api/resources/api.resource.master.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/sarlink/relayhub/internal/errors"
	"github.com/sarlink/relayhub/internal/relayservice"
	nuts "github.com/vaudience/go-nuts"
)

// MasterHandlers encapsulates the master-assignment HTTP handlers
type MasterHandlers struct {
	relay *relayservice.RelayService
}

type setMasterRequest struct {
	MasterID string `json:"master_id"`
}

// @Summary Designate the master unit
// @Description Assign the active master unit, replacing any prior assignment
// @Tags master
// @Accept json
// @Produce json
// @Param assignment body setMasterRequest true "Master unit id"
// @Success 200 {object} models.MasterAssignment
// @Failure 400 {object} errors.APIError
// @Router /master [put]
// @Security BearerAuth
func (h *MasterHandlers) SetMaster(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var req setMasterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	assignment, err := h.relay.SetMaster(r.Context(), req.MasterID)
	if err != nil {
		respondServiceError(w, requestID, err, "failed to set master")
		return
	}

	respondWithJSON(w, http.StatusOK, assignment)
}

// @Summary Get the master assignment
// @Description Get the currently designated master unit
// @Tags master
// @Produce json
// @Success 200 {object} models.MasterAssignment
// @Success 204 "No assignment has ever been made"
// @Router /master [get]
func (h *MasterHandlers) GetMaster(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	assignment, err := h.relay.GetMaster(r.Context())
	if err != nil {
		respondServiceError(w, requestID, err, "failed to get master")
		return
	}
	if assignment == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	respondWithJSON(w, http.StatusOK, assignment)
}
