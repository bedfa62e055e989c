package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"quizbank/internal/cache"
	"quizbank/internal/config"
	"quizbank/internal/logger"
	"quizbank/internal/repository"
	"quizbank/internal/service"
	"quizbank/internal/transport/rest"
	"quizbank/internal/transport/ws"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	questionRepo, resultRepo, closeStorage, err := openStorage(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to open storage", zap.Error(err))
	}
	defer closeStorage()

	sessions, closeSessions, err := openSessions(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to open session cache", zap.Error(err))
	}
	defer closeSessions()

	// Initialize WebSocket hub
	wsHub := ws.NewHub(zl)
	defer wsHub.Close()

	// Initialize services
	questionSvc := service.NewQuestionService(questionRepo)
	quizSvc := service.NewQuizService(questionRepo, resultRepo, sessions, zl)
	quizSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		QuestionService: questionSvc,
		QuizService:     quizSvc,
		WSHub:           wsHub,
		CORS:            cfg.CORS,
		Logger:          zl,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("sessions", cfg.Session.Driver),
		)
		zl.Info("endpoints",
			zap.Strings("routes", []string{
				"GET/POST /questions",
				"PUT/DELETE /questions/{index}",
				"POST /getQuestions",
				"POST /finalist",
				"GET /results/{date}",
				"WS /ws/results",
			}),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	zl.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}

	zl.Info("server exited")
}

func openStorage(ctx context.Context, cfg *config.Config, zl *zap.Logger) (repository.QuestionRepo, repository.ResultRepo, func(), error) {
	if cfg.Storage.Driver != config.DriverMongo {
		zl.Info("using file storage",
			zap.String("questions", cfg.Storage.QuestionsPath),
			zap.String("results", cfg.Storage.ResultsDir),
		)
		return repository.NewFileQuestionRepo(cfg.Storage.QuestionsPath),
			repository.NewFileResultRepo(cfg.Storage.ResultsDir),
			func() {}, nil
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, nil, nil, err
	}

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		mongoClient.Disconnect(context.Background())
		return nil, nil, nil, err
	}
	zl.Info("connected to MongoDB", zap.String("database", cfg.Mongo.Database))

	db := mongoClient.Database(cfg.Mongo.Database)
	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			zl.Warn("mongo disconnect", zap.Error(err))
		}
	}
	return repository.NewMongoQuestionRepo(db), repository.NewMongoResultRepo(db), closeFn, nil
}

func openSessions(ctx context.Context, cfg *config.Config, zl *zap.Logger) (cache.SessionCache, func(), error) {
	if cfg.Session.Driver != config.DriverRedis {
		sessions := cache.NewMemorySessionCache(cfg.Session.TTL)
		go sessions.Run(ctx, cfg.Session.SweepInterval, func(removed int) {
			zl.Debug("expired sessions swept", zap.Int("removed", removed))
		})
		return sessions, func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, nil, err
	}
	zl.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	return cache.NewRedisSessionCache(rdb, cfg.Session.TTL), func() { rdb.Close() }, nil
}
