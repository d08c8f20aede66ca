package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/hoyyChoi/yeonseubpun/internal/cache"
	"github.com/hoyyChoi/yeonseubpun/internal/config"
	"github.com/hoyyChoi/yeonseubpun/internal/repository"
	"github.com/hoyyChoi/yeonseubpun/internal/service"
	"github.com/hoyyChoi/yeonseubpun/internal/transport/rest"
	"github.com/hoyyChoi/yeonseubpun/internal/transport/ws"
	"github.com/hoyyChoi/yeonseubpun/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.InitLogger(cfg.Mode)
	defer logger.Log.Sync()

	logger.Log.Info("server starting", zap.String("mode", cfg.Mode))
	ctx := context.Background()

	aiConfig := config.DefaultAIConfig()
	if aiConfig.IsEnabled() {
		logger.Log.Info("gemini feedback enabled", zap.String("model", aiConfig.Model))
	} else {
		logger.Log.Warn("GEMINI_API_KEY not set, feedback uses local heuristics only")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Log.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Log.Fatal("failed to ping mongodb", zap.Error(err))
	}
	logger.Log.Info("connected to mongodb")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Log.Fatal("failed to ping redis", zap.Error(err))
	}
	logger.Log.Info("connected to redis")

	// Media storage (MinIO when configured, local disk otherwise)
	mediaStore, err := service.NewMediaStore(cfg.Storage)
	if err != nil {
		logger.Log.Fatal("failed to initialize media storage", zap.Error(err))
	}

	// WebSocket hub
	wsHub := ws.NewHub()

	// Repositories and caches
	questionRepo := repository.NewQuestionRepo(db)
	draftStore := cache.NewDraftStore(rdb)

	// Services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	feedbackSvc := service.NewFeedbackService(aiConfig)
	sessionSvc := service.NewSessionService(questionRepo, draftStore, mediaStore, feedbackSvc, wsHub, cfg.Session)

	router := rest.NewRouter(&rest.Container{
		AuthService:    authSvc,
		SessionService: sessionSvc,
		Questions:      questionRepo,
		WSHub:          wsHub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen and serve", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("server exited")
}
