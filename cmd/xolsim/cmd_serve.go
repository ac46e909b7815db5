package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/risklab/xolsim/internal/cache"
	"github.com/risklab/xolsim/internal/config"
	"github.com/risklab/xolsim/internal/httpapi"
	"github.com/risklab/xolsim/internal/persistence"
	"github.com/risklab/xolsim/internal/persistence/postgres"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis engine over HTTP",
		Long: `Expose POST /v1/analysis plus health and Prometheus endpoints.
Postgres run storage and the Redis result cache are enabled when their
addresses are configured.`,
		RunE: runServeCmd,
	}
	cmd.Flags().String("config", "", "Config file path")
	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	var cfg *config.File
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo persistence.RunsRepo
	if cfg.Server.PostgresDSN != "" {
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Server.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			return err
		}
		repo = postgres.NewRunsRepo(db, 5*time.Second)
		log.Info().Msg("runs store enabled")
	}

	var resultCache *cache.AnalysisCache
	if cfg.Server.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Server.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, result cache disabled")
		} else {
			resultCache = cache.New(client, cfg.Server.CacheTTL())
			log.Info().Dur("ttl", cfg.Server.CacheTTL()).Msg("result cache enabled")
		}
	}

	server := httpapi.NewServer(resultCache, repo, cfg.Server.RateRPS, cfg.Server.RateBurst)
	return server.ListenAndServe(ctx, cfg.Server.Addr)
}
