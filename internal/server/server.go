package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Hameed1117/User-Management/config"
	"github.com/Hameed1117/User-Management/internal/auth"
	"github.com/Hameed1117/User-Management/internal/db"
	"github.com/Hameed1117/User-Management/internal/handlers"
	"github.com/Hameed1117/User-Management/internal/mailer"
	"github.com/Hameed1117/User-Management/internal/mq"
	"github.com/Hameed1117/User-Management/internal/services"
	"github.com/Hameed1117/User-Management/internal/storage"
	"github.com/Hameed1117/User-Management/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server, router, and background workers.
type Server struct {
	httpServer   *http.Server
	router       *chi.Mux
	db           *sql.DB
	queue        *mq.MQ
	worker       *services.EmailWorker
	workerCancel context.CancelFunc
	logger       *slog.Logger
}

// New wires the application together: database, object storage, email
// transport, services, and routes.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	objectStorage, err := buildStorage(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	if objectStorage != nil {
		if err := objectStorage.Bootstrap(ctx); err != nil {
			_ = dbConn.Close()
			return nil, fmt.Errorf("object storage bootstrap: %w", err)
		}
	}

	smtpMailer, err := mailer.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	queue, err := buildQueue(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	var notifier services.Notifier
	if queue != nil {
		notifier = services.NewQueueNotifier(queue, cfg.Auth.BaseURL)
	} else {
		notifier = services.NewMailNotifier(smtpMailer, cfg.Auth.BaseURL)
	}

	userRepo := store.NewUserRepository(dbConn)
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	userService := services.NewUserService(userRepo, tokens, notifier, services.Policy{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		VerificationTTL:  cfg.Auth.VerificationTTL,
	}, logger)
	var profileStorage services.ProfileStorage
	if objectStorage != nil {
		profileStorage = objectStorage
	}
	profileService := services.NewProfileService(userRepo, profileStorage)

	authMiddleware := handlers.RequireAuth(tokens)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	handlers.AuthRouter(router, userService, tokens)
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, userService, authMiddleware)
	})
	router.Route("/profile", func(r chi.Router) {
		handlers.ProfileRouter(r, profileService, authMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	srv := &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		queue:      queue,
		logger:     logger,
	}
	if queue != nil {
		srv.worker = services.NewEmailWorker(queue, smtpMailer, logger)
	}
	return srv, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the email worker, if configured, and the HTTP server.
func (s *Server) Start() error {
	if s.worker != nil {
		ctx, cancel := context.WithCancel(context.Background())
		s.workerCancel = cancel
		go func() {
			if err := s.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("email worker stopped", "error", err)
			}
		}()
	}
	s.logger.Info("server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.workerCancel != nil {
		s.workerCancel()
	}
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func buildStorage(ctx context.Context, cfg config.Config) (*storage.Storage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Backend)) {
	case "minio":
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return storage.NewStorage(client), nil
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		return storage.NewStorage(client), nil
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (*mq.MQ, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.MQ.Backend)) {
	case "rabbitmq":
		client, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	case "pubsub":
		client, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQ.Backend)
	}
}
