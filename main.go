package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/kkeutmal/assets"
	"github.com/robalobadob/kkeutmal/internal/cache"
	"github.com/robalobadob/kkeutmal/internal/config"
	"github.com/robalobadob/kkeutmal/internal/dict"
	"github.com/robalobadob/kkeutmal/internal/game"
	"github.com/robalobadob/kkeutmal/internal/httpserver"
	"github.com/robalobadob/kkeutmal/internal/store"
)

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = time.RFC3339

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var lookups dict.Client = dict.NewKRDict(cfg.DictAPIKey, cfg.DictTimeout, dict.WithBaseURL(cfg.DictBaseURL))
	lookupCache, err := openCache(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.CacheBackend).Msg("failed to open lookup cache")
	}
	if lookupCache != nil {
		defer lookupCache.Close()
		lookups = dict.NewCached(lookups, lookupCache, cfg.CacheTTL)
	}

	engine := game.NewEngine(lookups,
		game.WithCandidateLimit(cfg.DictCandidateLimit),
		game.WithHintLimit(cfg.HintLimit),
		game.WithLookupTimeout(cfg.DictTimeout),
	)
	sessions := store.NewMemoryStore()
	srv := httpserver.New(sessions, engine, httpserver.Options{
		ClientOrigin:   cfg.ClientOrigin,
		SessionSecret:  cfg.SessionSecret,
		SessionTTL:     cfg.SessionTTL,
		Secure:         cfg.Production,
		RequestTimeout: cfg.RequestTimeout(),
	})

	p, _ := lookupCache.(purger)
	go sweep(ctx, sessions, p, cfg.SessionIdleTTL)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Msg("starting kkeutmal server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

// openCache returns the configured lookup cache, or nil for "none".
func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.CacheBackend {
	case config.CacheMemory:
		return cache.NewMemory(), nil
	case config.CacheSQLite:
		return cache.OpenSQLite(cfg.SQLitePath, assets.Migrations())
	case config.CacheRedis:
		return cache.OpenRedis(ctx, cfg.RedisURL)
	}
	return nil, nil
}

// purger is implemented by caches that keep expired rows around.
type purger interface {
	Purge(ctx context.Context) (int64, error)
}

// sweep drops idle sessions, and expired cache rows when p is set, until
// ctx is cancelled.
func sweep(ctx context.Context, st store.Store, p purger, idle time.Duration) {
	t := time.NewTicker(idle / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := st.Prune(ctx, idle); n > 0 {
				log.Info().Int("pruned", n).Msg("idle sessions removed")
			}
			if p == nil {
				continue
			}
			if n, err := p.Purge(ctx); err != nil {
				log.Warn().Err(err).Msg("cache purge")
			} else if n > 0 {
				log.Debug().Int64("purged", n).Msg("expired cache rows removed")
			}
		}
	}
}
