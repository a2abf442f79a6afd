package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/melih/fotokutu/internal/config"
	"github.com/melih/fotokutu/internal/handlers"
	"github.com/melih/fotokutu/internal/intake"
	"github.com/melih/fotokutu/internal/notify"
	"github.com/melih/fotokutu/internal/storage"
	"github.com/melih/fotokutu/internal/tracing"
	"github.com/melih/fotokutu/internal/uploader"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Info().Msg("starting fotokutu service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	log.Info().Str("service", cfg.ServiceName).Str("port", cfg.ServicePort).Msg("configuration loaded")

	// Initialize OpenTelemetry tracing
	shutdownTracer, err := tracing.InitTracer(cfg.ServiceName, handlers.Version, cfg.JaegerEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer")
		}
	}()

	// Initialize MinIO-backed storage
	log.Info().Str("endpoint", cfg.MinIOEndpoint).Msg("connecting to MinIO")
	store, err := storage.NewMinioClient(
		cfg.MinIOEndpoint,
		cfg.MinIOAccessKey,
		cfg.MinIOSecretKey,
		cfg.MinIOBucketName,
		cfg.MinIOUseSSL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize MinIO client")
	}

	// Initialize mailer
	mailer := notify.NewMailer(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.MailFrom,
		cfg.MailTo,
	)

	// Assemble the orchestrator; the Redis folder cache is optional
	opts := []uploader.Option{
		uploader.WithRemoteTimeout(cfg.GetRemoteTimeout()),
	}
	if addr := cfg.GetRedisAddr(); addr != "" {
		log.Info().Str("addr", addr).Msg("connecting to Redis")
		redisClient, err := storage.NewRedisClient(addr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Redis client")
		}
		defer redisClient.Close()
		opts = append(opts, uploader.WithFolderCache(redisClient))
	}

	up := uploader.New(store, mailer, cfg.FolderPrefix, opts...)

	// Intake limits follow the configured ceilings
	limits := intake.Limits{
		MaxFiles:      cfg.MaxPhotoCount,
		MaxFileBytes:  cfg.GetMaxFileSizeBytes(),
		MaxAudioCount: 1,
	}
	uploadHandler := handlers.NewUploadHandler(up, limits, cfg.ExposeErrorDetail)

	// Setup HTTP router
	router := mux.NewRouter()
	router.HandleFunc("/", handlers.Info).Methods("GET")
	router.HandleFunc("/health", handlers.Health).Methods("GET")
	router.Handle("/upload", otelhttp.NewHandler(uploadHandler, "POST /upload")).Methods("POST")

	srv := &http.Server{
		Addr:         ":" + cfg.ServicePort,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.ServicePort).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
