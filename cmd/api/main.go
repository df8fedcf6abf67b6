// @title           Blog API
// @version         1.0
// @description     Blog publishing backend with token-generation session revocation.
// @BasePath        /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/blogsphere/blog-api/internal/api"
	"github.com/blogsphere/blog-api/internal/api/handler"
	"github.com/blogsphere/blog-api/internal/core/auth"
	"github.com/blogsphere/blog-api/internal/core/service"
	"github.com/blogsphere/blog-api/internal/infrastructure/config"
	mongodb "github.com/blogsphere/blog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/blogsphere/blog-api/internal/infrastructure/db/redis"
	"github.com/blogsphere/blog-api/internal/infrastructure/queue"
	"github.com/blogsphere/blog-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		log := logger.Get()
		log.Error().Err(err).Msg("invalid configuration")
		return err
	}

	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})
	log := logger.Get()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to mongodb")
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to redis")
		return err
	}
	defer rdb.Close()

	accountRepo := mongodb.NewAccountRepository(db)
	blogRepo := mongodb.NewBlogRepository(db)
	if err := mongodb.EnsureIndexes(ctx, accountRepo, blogRepo); err != nil {
		log.Error().Err(err).Msg("failed to ensure indexes")
		return err
	}

	codec, err := auth.NewTokenCodec([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		log.Error().Err(err).Msg("failed to build token codec")
		return err
	}

	poolCtx, stopPool := context.WithCancel(context.Background())
	defer stopPool()
	hashPool := queue.NewHashPool(cfg.Auth.HashWorkers, auth.NewBcryptHasher(cfg.Auth.BcryptCost), logger.Component("hash_pool"))
	hashPool.Start(poolCtx)
	defer hashPool.Stop()

	authService := service.NewAuthService(
		accountRepo, hashPool, auth.NewSessionIssuer(codec), cfg.Auth.AccessTokenTTL(), logger.Component("auth"),
	)
	accountService := service.NewAccountService(
		accountRepo, hashPool, cfg.Auth.RevokeOnPasswordChange, logger.Component("accounts"),
	)
	blogService := service.NewBlogService(
		blogRepo, redisdb.NewCategoryCache(rdb, cfg.Redis.CategoryCacheTTL), logger.Component("blogs"),
	)

	e := api.NewRouter(api.Dependencies{
		Gate:     auth.NewGate(codec, accountRepo, logger.Component("gate")),
		Auth:     authService,
		Accounts: accountService,
		Blogs:    blogService,
		Health: map[string]handler.Pinger{
			"mongodb": mongodb.NewPinger(mongoClient),
			"redis":   redisdb.NewPinger(rdb),
		},
		Logger:       logger.Component("http"),
		AllowOrigins: cfg.HTTP.AllowOrigins,
		Metrics:      true,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
