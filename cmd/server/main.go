package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Yashshukla011/quizegame/config"
	"github.com/Yashshukla011/quizegame/internal/cache"
	"github.com/Yashshukla011/quizegame/internal/quiz"
	"github.com/Yashshukla011/quizegame/internal/repository"
	"github.com/Yashshukla011/quizegame/internal/service"
	"github.com/Yashshukla011/quizegame/internal/transport/rest"
	"github.com/Yashshukla011/quizegame/internal/transport/ws"
	"github.com/Yashshukla011/quizegame/internal/trivia"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis is an optional live-leaderboard mirror.
	var leaderboard cache.LeaderboardCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			logger.Warn("redis disabled", zap.Error(err))
		} else {
			leaderboard = cache.NewLeaderboardCache(rdb)
			logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
		}
	}

	// Mongo is an optional finished-match archive.
	var matches repository.MatchRepo
	if cfg.MongoURI != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		mongoClient, err := mongo.Connect(pingCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err == nil {
			err = mongoClient.Ping(pingCtx, nil)
		}
		cancel()
		if err != nil {
			logger.Warn("mongo disabled", zap.Error(err))
		} else {
			defer mongoClient.Disconnect(context.Background())
			matches = repository.NewMatchRepo(mongoClient.Database(cfg.MongoDatabase))
			logger.Info("connected to mongo")
		}
	}

	hub := ws.NewHub(logger)
	fanout := service.NewEventFanout(hub, leaderboard, matches, logger)

	registry := quiz.NewRegistry(fanout, logger, cfg.RoomIdleTimeout)
	defer registry.Close()

	source := trivia.NewClient(logger)
	if cfg.TriviaBaseURL != "" {
		source.BaseURL = cfg.TriviaBaseURL
	}

	authSvc := service.NewAuthService()
	roomSvc := service.NewRoomService(registry, source, authSvc, leaderboard, logger)

	router := rest.NewRouter(&rest.Container{
		AuthService: authSvc,
		RoomService: roomSvc,
		MatchRepo:   matches,
		WSHub:       hub,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
