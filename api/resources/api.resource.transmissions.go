// FilePath: api/resources/api.resource.transmissions.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/sarlink/relayhub/internal/errors"
	"github.com/sarlink/relayhub/internal/models"
	"github.com/sarlink/relayhub/internal/relayservice"
	nuts "github.com/vaudience/go-nuts"
)

// TransmissionHandlers encapsulates the transmission HTTP handlers
type TransmissionHandlers struct {
	relay *relayservice.RelayService
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

type windowQuery struct {
	Limit int `schema:"limit"`
}

// @Summary Report a transmission
// @Description Ingest a slave unit report and fan out its detections
// @Tags transmissions
// @Accept json
// @Produce json
// @Param transmission body models.Transmission true "Slave transmission"
// @Success 201 {object} models.TransmissionAck
// @Failure 400 {object} errors.APIError
// @Router /transmissions [post]
// @Security BearerAuth
func (h *TransmissionHandlers) ReportTransmission(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	var tx models.Transmission
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	ack, err := h.relay.ReportTransmission(r.Context(), &tx)
	if err != nil {
		respondServiceError(w, requestID, err, "failed to report transmission")
		return
	}

	respondWithJSON(w, http.StatusCreated, ack)
}

// @Summary List transmissions for a master
// @Description Get the raw transmission window for a master unit
// @Tags transmissions
// @Produce json
// @Param id path string true "Master unit id"
// @Param limit query int false "Window size (default 100)"
// @Success 200 {array} models.StoredTransmission
// @Failure 400 {object} errors.APIError
// @Router /masters/{id}/transmissions [get]
// @Security BearerAuth
func (h *TransmissionHandlers) ListTransmissions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID := nuts.NID("req", 12)

	var query windowQuery
	if err := queryDecoder.Decode(&query, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("invalid query parameters", err).WithRequestID(requestID))
		return
	}

	transmissions, err := h.relay.ListTransmissions(r.Context(), vars["id"], query.Limit)
	if err != nil {
		respondServiceError(w, requestID, err, "failed to list transmissions")
		return
	}

	respondWithJSON(w, http.StatusOK, transmissions)
}

// @Summary List slaves for a master
// @Description Get the distinct slave unit ids that have reported to a master
// @Tags transmissions
// @Produce json
// @Param id path string true "Master unit id"
// @Success 200 {array} string
// @Failure 400 {object} errors.APIError
// @Router /masters/{id}/slaves [get]
// @Security BearerAuth
func (h *TransmissionHandlers) ListSlaves(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	requestID := nuts.NID("req", 12)

	slaves, err := h.relay.ListSlaves(r.Context(), vars["id"])
	if err != nil {
		respondServiceError(w, requestID, err, "failed to list slaves")
		return
	}

	respondWithJSON(w, http.StatusOK, slaves)
}
