package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/moviechat/moviechat/internal/cache"
	"github.com/moviechat/moviechat/internal/config"
	"github.com/moviechat/moviechat/internal/intent/semantic"
	"github.com/moviechat/moviechat/internal/logger"
	"github.com/moviechat/moviechat/internal/metadata/tmdb"
	"github.com/moviechat/moviechat/internal/metadata/watchmode"
	"github.com/moviechat/moviechat/internal/metrics"
	"github.com/moviechat/moviechat/internal/recommend"
)

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "moviechat",
	Short: "Natural-language movie and series recommendations",
	Long: `moviechat turns free-text prompts such as "hindi comedy movies after 2015"
into catalog queries, enriches the results with trailers and streaming
availability, and returns a ranked list.`,
	Version:       config.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file loaded before the environment is read")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
}

// app holds the wired components shared by the subcommands.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	service   *recommend.Service
	providers []provider
	closers   []io.Closer
}

func newApp(logOutput io.Writer) (*app, error) {
	// A missing .env file is normal outside development.
	_ = godotenv.Load(envFile)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Logging, logOutput)
	a := &app{cfg: cfg, log: log, closers: []io.Closer{log}}

	store, err := a.newStore()
	if err != nil {
		a.Close()
		return nil, err
	}

	catalog := tmdb.NewClient(cfg.Metadata.TMDB, log.Logger)
	availability := watchmode.NewClient(cfg.Metadata.Watchmode, log.Logger)
	oracle := semantic.New(cfg.Intent.LLM, log.Logger)

	appLog := log.WithComponent("app")
	if !catalog.IsConfigured() {
		appLog.Warn().Msg("TMDB API key not configured, recommendations unavailable")
	}
	if !availability.IsConfigured() {
		appLog.Warn().Msg("Watchmode API key not configured, recommendations unavailable")
	}

	a.providers = []provider{catalog, availability}
	a.service = recommend.NewService(catalog, availability, oracle, store, cfg.Recommend, log.Logger)

	appLog.Info().
		Str("version", config.Version).
		Str("cache", cfg.Cache.Backend).
		Bool("semantic", oracle.IsConfigured()).
		Msg("moviechat initialized")

	return a, nil
}

func (a *app) newStore() (cache.Store, error) {
	switch a.cfg.Cache.Backend {
	case "", "memory":
		return cache.NewMemoryStore(), nil
	case "redis":
		store := cache.NewRedisStore(redis.NewClient(&redis.Options{Addr: a.cfg.Cache.RedisAddr}), a.cfg.Cache.RedisPrefix)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", a.cfg.Cache.RedisAddr, err)
		}
		a.closers = append(a.closers, store)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", a.cfg.Cache.Backend)
	}
}

func registerMetrics() {
	metrics.Register(prometheus.DefaultRegisterer)
}

// Close releases the cache connection and the log file, in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}
