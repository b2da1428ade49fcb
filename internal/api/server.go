package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/nerrad567/plant-core/internal/audit"
	"github.com/nerrad567/plant-core/internal/infrastructure/config"
	"github.com/nerrad567/plant-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/plant-core/internal/infrastructure/logging"
	"github.com/nerrad567/plant-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/plant-core/internal/plant"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// EventPublisher publishes plant change events. Satisfied by *mqtt.Client.
type EventPublisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// InventoryRecorder writes plant inventory history. Satisfied by *influxdb.Client.
type InventoryRecorder interface {
	WritePlantInventory(s influxdb.InventorySample)
	WritePlantRemoved(plantID int64)
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  config.APIConfig
	Logger  *logging.Logger
	Plants  plant.Repository
	Version string

	// Optional. A nil field disables the matching side effect.
	AuditRepo audit.Repository
	Events    EventPublisher
	Inventory InventoryRecorder
	DB        *sql.DB // connection pool statistics for /metrics

	// EventTopics and EventQoS apply when Events is set.
	EventTopics mqtt.Topics
	EventQoS    byte
}

// Server is the HTTP API server for Plant Core.
//
// The server is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	logger    *logging.Logger
	plants    plant.Repository
	auditRepo audit.Repository
	events    EventPublisher
	topics    mqtt.Topics
	qos       byte
	inventory InventoryRecorder
	metrics   *metrics
	version   string
	startTime time.Time

	auditCh chan *audit.AuditLog
	auditWG sync.WaitGroup

	server *http.Server
	cancel context.CancelFunc
}

// New creates a new API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Plants == nil {
		return nil, fmt.Errorf("plant repository is required")
	}

	s := &Server{
		cfg:       deps.Config,
		logger:    deps.Logger,
		plants:    deps.Plants,
		auditRepo: deps.AuditRepo,
		events:    deps.Events,
		topics:    deps.EventTopics,
		qos:       deps.EventQoS,
		inventory: deps.Inventory,
		metrics:   newMetrics(deps.DB),
		version:   deps.Version,
		startTime: time.Now(),
	}
	if s.auditRepo != nil {
		s.auditCh = make(chan *audit.AuditLog, auditChanSize)
	}

	return s, nil
}

// Start launches the audit writer and begins listening for HTTP connections
// in the background. The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	// The audit writer outlives ctx so entries queued during Shutdown are
	// still written; only Close stops it.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))

	if s.auditCh != nil {
		s.auditWG.Add(1)
		go func() {
			defer s.auditWG.Done()
			s.drainAuditLog(srvCtx)
		}()
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete, then flushes
// queued audit entries.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	err := s.server.Shutdown(ctx)

	// Stop the audit writer only after handlers have finished queueing.
	if s.cancel != nil {
		s.cancel()
	}
	s.auditWG.Wait()

	if err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
