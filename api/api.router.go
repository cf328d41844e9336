// FilePath: api/api.router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sarlink/relayhub/api/middleware"
	"github.com/sarlink/relayhub/api/resources"
	"github.com/sarlink/relayhub/internal/relayservice"
	nuts "github.com/vaudience/go-nuts"
)

type Router struct {
	router    *mux.Router
	auth      *middleware.KeycloakMiddleware
	resources *resources.Resources
}

func NewRouter(svc *relayservice.RelayService, keycloakConfig middleware.KeycloakConfig) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      middleware.NewKeycloakMiddleware(keycloakConfig),
		resources: resources.NewResources(svc),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// API version prefix
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/health", handleHealth).Methods(http.MethodGet)

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)

	// Master assignment
	protected.HandleFunc("/master", r.resources.Master.GetMaster).Methods(http.MethodGet)
	protected.HandleFunc("/master", r.resources.Master.SetMaster).Methods(http.MethodPut)

	// Transmissions
	protected.HandleFunc("/transmissions", r.resources.Transmissions.ReportTransmission).Methods(http.MethodPost)

	// Per-master views
	masters := protected.PathPrefix("/masters").Subrouter()
	masters.HandleFunc("/{id}/aggregate", r.resources.Aggregates.GetAggregate).Methods(http.MethodGet)
	masters.HandleFunc("/{id}/slaves", r.resources.Transmissions.ListSlaves).Methods(http.MethodGet)
	masters.HandleFunc("/{id}/transmissions", r.resources.Transmissions.ListTransmissions).Methods(http.MethodGet)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","version":"` + nuts.GetVersion() + `"}`))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
