// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/sarlink/relayhub/api"
	"github.com/sarlink/relayhub/api/middleware"
	"github.com/sarlink/relayhub/internal/config"
	"github.com/sarlink/relayhub/internal/database"
	"github.com/sarlink/relayhub/internal/events"
	"github.com/sarlink/relayhub/internal/monitoring"
	"github.com/sarlink/relayhub/internal/mqtt"
	"github.com/sarlink/relayhub/internal/relayservice"
	"github.com/sarlink/relayhub/internal/repository/postgres"
	nuts "github.com/vaudience/go-nuts"
)

// Server represents our HTTP server
type Server struct {
	config     *config.Config
	srv        *http.Server
	relay      *relayservice.RelayService
	publisher  *events.Publisher
	monitoring *monitoring.Service
	ingest     *mqtt.IngestBridge
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
	}
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Initialize services
	s.relay = initializeRelayService(s.config)
	s.publisher = events.NewPublisher(s.config.Redis)
	s.monitoring = monitoring.NewService(monitoring.Config{
		PrometheusEndpoint: s.config.Monitoring.PrometheusEndpoint,
		LokiEndpoint:       s.config.Monitoring.LokiEndpoint,
	})

	// Forward core events to the notifier boundary
	s.setupEventHandlers()

	// Setup router with CORS
	router := api.NewRouter(s.relay, middleware.KeycloakConfig{
		URL:          s.config.Keycloak.URL,
		Realm:        s.config.Keycloak.Realm,
		ClientID:     s.config.Keycloak.ClientID,
		ClientSecret: s.config.Keycloak.ClientSecret,
	})
	cors := handlers.CORS(
		handlers.AllowedOrigins(s.config.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:      cors(router),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	// Start MQTT ingest bridge if configured
	if s.config.MQTT.Enabled {
		s.ingest = mqtt.NewIngestBridge(s.config.MQTT, s.relay)
		if err := s.ingest.Start(); err != nil {
			nuts.L.Errorf("[Server] Failed to start MQTT ingest bridge: %v", err)
			os.Exit(1)
		}
	}

	// Start server
	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	if s.ingest != nil {
		s.ingest.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	if err := s.publisher.Close(); err != nil {
		nuts.L.Warnf("[Server] Error closing event publisher: %v", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}

// setupEventHandlers forwards every core event to the redis publisher and
// to monitoring. Delivery failure never reaches the originating operation.
func (s *Server) setupEventHandlers() {
	forward := func(event string) {
		s.relay.OnEvent(event, func(payload any) {
			s.publisher.Publish(event, payload)
			s.monitoring.RecordEvent(event, nil)
		})
	}

	forward(relayservice.EventAssignmentChanged)
	forward(relayservice.EventTransmissionReceived)
	forward(relayservice.EventDetectionRelayed)
	forward(relayservice.EventAggregateProduced)
}

// initializeRelayService creates and configures the relay service
func initializeRelayService(cfg *config.Config) *relayservice.RelayService {
	// Initialize database connections
	telemetryDB := initTelemetryDB(cfg.Database.TelemetryDB)
	appDB := initAppDB(cfg.Database.AppDB)

	// Initialize repositories
	masters := postgres.NewMasterRegistryRepository(appDB)
	log := postgres.NewTransmissionLogRepository(telemetryDB)
	detections := postgres.NewDetectionStoreRepository(telemetryDB)

	svc := relayservice.New(masters, log, detections)
	if err := svc.Validate(); err != nil {
		nuts.L.Fatalf("[Server] Invalid relay service wiring: %v", err)
	}
	return svc
}

func initTelemetryDB(cfg config.PostgresConfig) database.DB {
	wrappedDB, err := database.NewTelemetryDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to telemetry database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wrappedDB.Ping(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping telemetry database: %v", err)
	}
	return wrappedDB
}

func initAppDB(cfg config.PostgresConfig) database.DB {
	wrappedDB, err := database.NewPostgresDB(cfg)
	if err != nil {
		nuts.L.Fatalf("[Server] Failed to connect to AppDB: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := wrappedDB.Ping(ctx); err != nil {
		nuts.L.Fatalf("[Server] Failed to ping AppDB: %v", err)
	}
	return wrappedDB
}
