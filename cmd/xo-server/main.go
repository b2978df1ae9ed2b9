package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/xo-arena/internal/auth"
	"github.com/park285/xo-arena/internal/cache"
	appcfg "github.com/park285/xo-arena/internal/config"
	"github.com/park285/xo-arena/internal/game"
	"github.com/park285/xo-arena/internal/httpapi"
	"github.com/park285/xo-arena/internal/obslog"
	"github.com/park285/xo-arena/internal/score"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer logger.Sync()

	// Score ledger: Postgres when configured, in-memory otherwise.
	var repo score.Repository
	if cfg.DatabaseURL != "" {
		repo, err = score.NewPostgresRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres init error: %v", err)
		}
	} else {
		logger.Warn("db_disabled", zap.String("reason", "DATABASE_URL not set, scores will not survive restarts"))
		repo = score.NewMemoryRepository()
	}
	defer repo.Close()

	// Redis backs login sessions and the leaderboard cache.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis url error: %v", err)
		}
		rdb = redis.NewClient(opt)
		pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pctx).Err(); err != nil {
			cancel()
			log.Fatalf("redis connect error: %v", err)
		}
		cancel()
		defer rdb.Close()
	} else {
		logger.Warn("redis_disabled", zap.String("reason", "REDIS_URL not set, sessions are in-memory"))
	}

	var sessions auth.SessionStore
	if rdb != nil {
		sessions = auth.NewRedisSessionStore(rdb, cfg.SessionTTL)
	} else {
		sessions = auth.NewMemorySessionStore(cfg.SessionTTL)
	}

	scores := score.NewService(repo, cache.New(rdb, cfg.ScoreboardTTL), logger)

	// Login providers are optional: skip any with missing credentials so the
	// game stays playable without them.
	var providers []*auth.Provider
	if cfg.GoogleEnabled() {
		p, err := auth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
		if err != nil {
			log.Fatalf("google provider error: %v", err)
		}
		providers = append(providers, p)
	} else {
		logger.Warn("provider_skipped", zap.String("provider", "google"))
	}
	if cfg.FacebookEnabled() {
		p, err := auth.NewFacebook(cfg.FacebookAppID, cfg.FacebookAppSecret, cfg.FacebookCallback)
		if err != nil {
			log.Fatalf("facebook provider error: %v", err)
		}
		providers = append(providers, p)
	} else {
		logger.Warn("provider_skipped", zap.String("provider", "facebook"))
	}

	presets, err := game.LoadPresets(cfg.BotPresetFile)
	if err != nil {
		log.Fatalf("bot presets error: %v", err)
	}
	behavior, err := game.PresetBehavior(presets, cfg.BotPreset)
	if err != nil {
		log.Fatalf("bot preset error: %v", err)
	}

	api := httpapi.New(httpapi.Config{
		Sessions:  sessions,
		Providers: providers,
		Scores:    scores,
		Logger:    logger,
		StaticDir: cfg.StaticDir,
		Bot: httpapi.BotConfig{
			Behavior:  behavior,
			MoveDelay: cfg.BotMoveDelay,
			OpenDelay: cfg.BotOpenDelay,
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_start", zap.Int("port", cfg.Port), zap.String("preset", cfg.BotPreset))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("server_stop", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error("server_shutdown", zap.Error(err))
	}
}
