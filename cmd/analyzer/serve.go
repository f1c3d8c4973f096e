package main

import (
	"fmt"
	"log/slog"
	"snapchat-analyzer/internal/adapters/parser"
	"snapchat-analyzer/internal/cache"
	"snapchat-analyzer/internal/core/services"
	"snapchat-analyzer/internal/core/usecase"
	applog "snapchat-analyzer/internal/log"
	"snapchat-analyzer/internal/pkg/config"
	"snapchat-analyzer/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	var (
		logLevel string
		host     string
		port     int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for uploading exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 1. Загрузка конфигурации и переопределение флагами
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			// 2. Инициализация логгера
			logger := applog.NewLogger(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
			slog.SetDefault(logger)

			// 3. Валидация конфигурации (после инициализации логгера)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation failed: %w", err)
			}

			// 4. Инициализация зависимостей
			cacheStore := cache.NewCacheStore()
			analyzer := usecase.NewAnalyzeChatUseCase(
				parser.NewJsonParser(),
				services.NewAnalyzerService(logger),
				cacheStore,
				cfg.Cache.TTL,
				logger,
			)

			srv, err := server.New(cfg, analyzer, cacheStore, logger)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			// 5. Запуск до SIGINT/SIGTERM, затем graceful shutdown
			if err := srv.Run(cmd.Context()); err != nil {
				return err
			}
			logger.Info("HTTP server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (default from config)")
	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config)")

	return cmd
}
