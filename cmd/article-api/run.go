package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apiserver "github.com/contentforge/article-engine/internal/api_server"
	"github.com/contentforge/article-engine/internal/config"
	"github.com/contentforge/article-engine/internal/llm"
	"github.com/contentforge/article-engine/internal/pipeline"
	"github.com/contentforge/article-engine/internal/seo"
	"github.com/contentforge/article-engine/internal/serp"
	"github.com/contentforge/article-engine/internal/service"
	"github.com/contentforge/article-engine/internal/store"
	"github.com/contentforge/article-engine/pkg/log"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the article api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalw("reading configuration", "error", err)
		}

		logger := log.InitLog(cfg.Service.LogLevel)
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := s.InitialMigration(); err != nil {
			zap.S().Fatalw("running initial migration", "error", err)
		}

		orchestrator := pipeline.NewOrchestrator(s, pipeline.Stages(
			serp.NewClient(cfg),
			llm.NewClient(cfg),
			seo.NewValidator(),
			seo.NewLinkPlanner(),
			cfg.Serp.ResultCount,
		))
		articleSrv := service.NewArticleService(s, orchestrator)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalw("creating listener", "error", err)
			}

			server := apiserver.New(cfg, s, articleSrv, listener)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalw("running api server", "error", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalw("creating metrics listener", "error", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalw("running metrics server", "error", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
