package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gamify-hexad/internal/affinity"
	"gamify-hexad/internal/config"
	"gamify-hexad/internal/db"
	"gamify-hexad/internal/event"
	apihttp "gamify-hexad/internal/http"
	"gamify-hexad/internal/repository"
	"gamify-hexad/internal/service"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	matrix, err := affinity.NewFileSource(cfg.AffinityMatrixPath).Load()
	if err != nil {
		logger.Fatal("load affinity matrix", zap.Error(err))
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if cfg.DBAutoMigrate {
		if err := db.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("db schema", zap.Error(err))
		}
	}

	answerRepo := repository.NewPgAnswerRepository(pool)
	profileRepo := repository.NewPgProfileRepository(pool)
	elementRepo := repository.NewPgGameElementRepository(pool)
	attributionRepo := repository.NewPgAttributionRepository(pool)

	window := time.Duration(cfg.SubmitWindowSecs) * time.Second
	limiter := service.NewSubmissionLimiter(window, cfg.SubmitMaxPerWindow)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory limiter", zap.Error(err))
		} else {
			limiter = service.NewRedisSubmissionLimiter(redisClient, window, cfg.SubmitMaxPerWindow)
		}
		cancel()
	}

	publisher, err := event.NewAMQPPublisher(cfg.RabbitMQURI, logger)
	if err != nil {
		logger.Warn("rabbitmq unavailable, event publishing disabled", zap.Error(err))
		publisher, _ = event.NewAMQPPublisher("", logger)
	}
	defer publisher.Close()

	observer, err := service.NewPrometheusObserver(cfg.MetricsNamespace, prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("metrics", zap.Error(err))
	}

	scoringSvc := service.NewScoringService(answerRepo, logger)
	suggestionSvc := service.NewSuggestionService(
		scoringSvc,
		matrix,
		profileRepo,
		elementRepo,
		attributionRepo,
		publisher,
		observer,
		logger,
	)
	questionnaireSvc := service.NewQuestionnaireService(answerRepo, suggestionSvc, limiter, logger)

	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTAccessTTLMin)*time.Minute)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	hexadHandler := apihttp.NewHexadHandler(logger, questionnaireSvc, suggestionSvc)
	router := apihttp.NewRouter(logger, jwtSvc, hexadHandler, prometheus.DefaultGatherer, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.Int("matrix_elements", len(matrix)))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
