// Command casting-agency runs the casting agency HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/extra/bundebug"

	authgin "github.com/shenry/casting-agency/adapters/gin"
	"github.com/shenry/casting-agency/adapters/ginutil"
	"github.com/shenry/casting-agency/auth"
	"github.com/shenry/casting-agency/casting"
	"github.com/shenry/casting-agency/config"
	migrations "github.com/shenry/casting-agency/migrations/postgres"
	memorylimiter "github.com/shenry/casting-agency/ratelimit/memory"
	redislimiter "github.com/shenry/casting-agency/ratelimit/redis"
	memorystore "github.com/shenry/casting-agency/storage/memory"
	redisstore "github.com/shenry/casting-agency/storage/redis"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("parse log level")
	}
	log.SetLevel(level)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Migrate(ctx, db); err != nil {
		return err
	}

	var (
		keysetCache auth.KeySetCache
		limiter     ginutil.RateLimiter
	)
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return err
		}
		rdb := redis.NewClient(opt)
		defer rdb.Close()
		keysetCache = redisstore.NewKeySetCache(rdb, "auth:jwks", cfg.Auth.KeySetTTL)
		limiter = redislimiter.New(rdb, nil)
	} else {
		keysetCache = memorystore.NewKeySetCache(cfg.Auth.KeySetTTL)
		limiter = memorylimiter.New(nil)
	}

	provider, err := auth.NewJWKSProvider(auth.JWKSProviderConfig{
		URL:          cfg.Auth.JWKSURL,
		TTL:          cfg.Auth.KeySetTTL,
		FetchTimeout: cfg.Auth.FetchTimeout,
		Cache:        keysetCache,
		Logger:       log,
	})
	if err != nil {
		return err
	}
	verifier := auth.NewVerifier(cfg.Auth.Issuer, cfg.Auth.Audience, provider,
		auth.WithAlgorithms(cfg.Auth.Algorithms...),
		auth.WithLogger(log),
	)

	if cfg.Auth.RefreshSchedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.Auth.RefreshSchedule, func() {
			if err := provider.Refresh(context.Background()); err != nil {
				log.WithError(err).Warn("scheduled key set refresh failed")
			}
		}); err != nil {
			return err
		}
		c.Start()
		defer c.Stop()
	}

	if !log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginutil.RequestID(), ginutil.RequestLogger(log), ginutil.Recovery(), ginutil.CORS())
	authgin.Register(router, verifier, casting.NewStore(db), limiter)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// openDB connects a pgx pool and wraps it with bun. Queries are echoed at
// debug level.
func openDB(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*bun.DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	db := bun.NewDB(stdlib.OpenDBFromPool(pool), pgdialect.New())
	if log.IsLevelEnabled(logrus.DebugLevel) {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db, nil
}
