package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sanjibani/cardiology-ai-agent/agent"
	"github.com/sanjibani/cardiology-ai-agent/api/handlers"
	"github.com/sanjibani/cardiology-ai-agent/config"
	"github.com/sanjibani/cardiology-ai-agent/internal/metrics"
	"github.com/sanjibani/cardiology-ai-agent/internal/server"
	"github.com/sanjibani/cardiology-ai-agent/llm"
	"github.com/sanjibani/cardiology-ai-agent/store"
	"github.com/sanjibani/cardiology-ai-agent/workflow"
)

// Server wires the stores, the oracle provider, the routing engine and the
// HTTP surface together.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	httpManager    *server.Manager
	metricsManager *server.Manager

	healthHandler  *handlers.HealthHandler
	chatHandler    *handlers.ChatHandler
	patientHandler *handlers.PatientHandler

	collector   *metrics.Collector
	redisClient *redis.Client

	rateLimiterCancel context.CancelFunc
}

// NewServer creates the server from a loaded configuration.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{cfg: cfg, logger: logger}
}

// Start builds all components and starts the HTTP and metrics listeners.
func (s *Server) Start() error {
	s.collector = metrics.NewCollector(s.cfg.Metrics.Namespace, s.logger)

	if err := s.initHandlers(); err != nil {
		return fmt.Errorf("failed to init handlers: %w", err)
	}

	g := new(errgroup.Group)
	g.Go(s.startHTTPServer)
	if s.cfg.Metrics.Enabled {
		g.Go(s.startMetricsServer)
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info("all servers started",
		zap.String("http_addr", s.cfg.Server.Addr),
		zap.Bool("metrics_enabled", s.cfg.Metrics.Enabled),
	)
	return nil
}

func (s *Server) initHandlers() error {
	s.healthHandler = handlers.NewHealthHandler(s.logger)

	patients, err := s.openPatientStore()
	if err != nil {
		return err
	}
	calendar, err := s.openCalendar()
	if err != nil {
		return err
	}
	calendar = metrics.InstrumentCalendar(calendar, s.collector)
	knowledge := store.NewKnowledgeStore()
	sessions := s.openSessions()

	oracle := metrics.InstrumentProvider(llm.NewOpenAIProvider(s.cfg.LLM, s.logger), s.collector)
	engine := workflow.NewEngine([]agent.Handler{
		agent.NewSupervisor(oracle, s.logger),
		agent.NewTriage(oracle, patients, s.logger),
		agent.NewAppointment(oracle, calendar, s.logger),
		agent.NewEducation(knowledge, patients, s.logger),
		agent.NewClinicalDocs(s.logger),
	}, s.collector, s.logger)

	s.chatHandler = handlers.NewChatHandler(engine, sessions, s.collector, s.logger)
	s.patientHandler = handlers.NewPatientHandler(patients, calendar, s.logger)

	s.healthHandler.RegisterCheck(handlers.NewProbe("oracle", func(ctx context.Context) error {
		_, err := oracle.HealthCheck(ctx)
		return err
	}))
	s.healthHandler.RegisterCheck(handlers.NewProbe("calendar", func(ctx context.Context) error {
		_, err := calendar.CheckAvailability(ctx, time.Now().Format("2006-01-02"), "routine")
		return err
	}))
	if s.redisClient != nil {
		s.healthHandler.RegisterCheck(handlers.NewProbe("redis", func(ctx context.Context) error {
			return s.redisClient.Ping(ctx).Err()
		}))
	}

	s.logger.Info("handlers initialized",
		zap.String("calendar_driver", s.cfg.Database.Driver),
		zap.Bool("sessions_enabled", sessions != nil))
	return nil
}

func (s *Server) openPatientStore() (*store.PatientStore, error) {
	if s.cfg.Database.PatientsFile != "" {
		return store.LoadPatientStore(s.cfg.Database.PatientsFile, s.logger)
	}
	return store.NewPatientStore(s.logger), nil
}

func (s *Server) openCalendar() (store.AppointmentStore, error) {
	switch s.cfg.Database.Driver {
	case "sqlite":
		return store.OpenSQLAppointmentStore(s.cfg.Database.Path, s.logger)
	default:
		return store.NewMemoryAppointmentStore(s.logger), nil
	}
}

func (s *Server) openSessions() *store.SessionContextStore {
	if !s.cfg.Redis.Enabled {
		return nil
	}
	s.redisClient = redis.NewClient(&redis.Options{
		Addr:     s.cfg.Redis.Addr,
		Password: s.cfg.Redis.Password,
		DB:       s.cfg.Redis.DB,
	})
	return store.NewSessionContextStore(s.redisClient, s.cfg.Redis.SessionTTL, s.logger)
}

func (s *Server) startHTTPServer() error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler.HandleHealth)
	mux.HandleFunc("GET /healthz", s.healthHandler.HandleHealthz)
	mux.HandleFunc("GET /ready", s.healthHandler.HandleReady)
	mux.HandleFunc("GET /readyz", s.healthHandler.HandleReady)
	mux.HandleFunc("GET /version", s.healthHandler.HandleVersion(Version, BuildTime, GitCommit))

	mux.HandleFunc("POST /chat", s.chatHandler.HandleChat)
	mux.HandleFunc("POST /triage", s.chatHandler.HandleTriage)
	mux.HandleFunc("POST /appointment", s.chatHandler.HandleAppointment)

	mux.HandleFunc("GET /patients/{id}", s.patientHandler.HandleGet)
	mux.HandleFunc("GET /patients/{id}/appointments", s.patientHandler.HandleAppointments)

	skipAuthPaths := []string{"/health", "/healthz", "/ready", "/readyz", "/version"}
	rateLimiterCtx, cancel := context.WithCancel(context.Background())
	s.rateLimiterCancel = cancel

	handler := Chain(mux,
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		RequestLogger(s.logger),
		MetricsMiddleware(s.collector),
		CORS(s.cfg.API.CORSOrigins),
		RateLimiter(rateLimiterCtx, s.cfg.API.RequestsPerSecond, s.cfg.API.Burst, s.logger),
		APIKeyAuth(s.cfg.API.APIKey, skipAuthPaths, s.logger),
	)

	s.httpManager = server.NewManager(handler, s.cfg.Server, s.logger)
	return s.httpManager.Start()
}

func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	cfg := s.cfg.Server
	cfg.Addr = s.cfg.Metrics.Addr
	s.metricsManager = server.NewManager(mux, cfg, s.logger)
	return s.metricsManager.Start()
}

// WaitForShutdown blocks until a termination signal, then shuts everything
// down in order.
func (s *Server) WaitForShutdown() {
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}
	s.Shutdown()
}

// Shutdown stops the metrics listener and releases auxiliary resources.
func (s *Server) Shutdown() {
	s.logger.Info("starting graceful shutdown")

	if s.rateLimiterCancel != nil {
		s.rateLimiterCancel()
	}
	if s.metricsManager != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := s.metricsManager.Shutdown(ctx); err != nil {
			s.logger.Error("metrics server shutdown failed", zap.Error(err))
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Warn("redis close failed", zap.Error(err))
		}
	}
}
