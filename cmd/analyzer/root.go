package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"snapchat-analyzer/internal/adapters/exporter"
	"snapchat-analyzer/internal/adapters/parser"
	"snapchat-analyzer/internal/adapters/source"
	"snapchat-analyzer/internal/core/services"
	"snapchat-analyzer/internal/core/usecase"
	"snapchat-analyzer/internal/domain"
	applog "snapchat-analyzer/internal/log"
	"snapchat-analyzer/internal/pkg/config"
	"snapchat-analyzer/internal/ports"

	"github.com/spf13/cobra"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatXLSX = "xlsx"
)

// rootOptions содержит значения флагов команды анализа
type rootOptions struct {
	configPath     string
	input          string
	user           string
	fromDate       string
	toDate         string
	mediaType      string
	userFilterMode string
	format         string
	output         string
	logLevel       string
	detailed       bool
	savedOnly      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "analyzer",
		Short: "Statistics for Snapchat chat history exports",
		Long: "analyzer reads a Snapchat chat_history.json export, applies the requested filters\n" +
			"and prints message statistics. Use the serve subcommand to run the HTTP API.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultConfigFile, "path to the YAML config file")

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "path to the chat_history.json file")
	flags.StringVarP(&opts.user, "user", "u", "", "correspondent to filter by")
	flags.StringVar(&opts.fromDate, "from-date", "", "inclusive lower date bound (YYYY-MM-DD)")
	flags.StringVar(&opts.toDate, "to-date", "", "inclusive upper date bound (YYYY-MM-DD)")
	flags.BoolVarP(&opts.detailed, "detailed", "d", false, "print media type and user breakdowns")
	flags.BoolVar(&opts.savedOnly, "saved-only", false, "count only saved messages")
	flags.StringVar(&opts.mediaType, "media-type", "", "count only messages of this media type")
	flags.StringVar(&opts.userFilterMode, "user-filter-mode", "", "correspondent filter mode: literal or sender (default from config)")
	flags.StringVar(&opts.format, "format", formatText, "output format: text, json or xlsx")
	flags.StringVarP(&opts.output, "output", "o", "", "write the report to this file instead of stdout")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	_ = cmd.MarkFlagRequired("input")

	cmd.AddCommand(newServeCmd(&opts.configPath))

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *rootOptions) (err error) {
	switch opts.format {
	case formatText, formatJSON:
	case formatXLSX:
		if opts.output == "" {
			return errors.New("--format xlsx requires --output")
		}
	default:
		return fmt.Errorf("unknown format %q (want text, json or xlsx)", opts.format)
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	modeName := cfg.Analysis.UserFilterMode
	if opts.userFilterMode != "" {
		modeName = opts.userFilterMode
	}
	mode, err := domain.ParseCorrespondentMode(modeName)
	if err != nil {
		return err
	}

	logger := applog.NewLogger(cmd.ErrOrStderr(), opts.logLevel, cfg.Logging.Format)

	filter := domain.FilterConfig{
		User:      opts.user,
		UserMode:  mode,
		FromDate:  opts.fromDate,
		ToDate:    opts.toDate,
		SavedOnly: opts.savedOnly,
		MediaType: opts.mediaType,
	}

	// Для одного запуска кэш не нужен
	uc := usecase.NewAnalyzeChatUseCase(parser.NewJsonParser(), services.NewAnalyzerService(logger), nil, 0, logger)
	report, err := uc.Analyze(cmd.Context(), source.NewCliSource(opts.input), filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, createErr := os.Create(opts.output)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", closeErr)
			}
		}()
		out = f
	}

	if err := newExporter(opts.format, out, opts.detailed).Export(report); err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}
	logger.Info("report written", "format", opts.format, "output", opts.output)

	return nil
}

// newExporter возвращает экспортер для уже проверенного формата
func newExporter(format string, out io.Writer, detailed bool) ports.Exporter {
	switch format {
	case formatJSON:
		return exporter.NewJSONExporter(out)
	case formatXLSX:
		return exporter.NewExcelExporter(out)
	default:
		return exporter.NewConsoleExporter(out, detailed)
	}
}
