package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"snapchat-analyzer/internal/adapters/exporter"
	"snapchat-analyzer/internal/adapters/source"
	"snapchat-analyzer/internal/cache"
	"snapchat-analyzer/internal/domain"
	"snapchat-analyzer/internal/pkg/config"
	"snapchat-analyzer/internal/ports"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportAnalyzer определяет интерфейс варианта использования, который строит и хранит отчеты.
type ReportAnalyzer interface {
	Analyze(ctx context.Context, src ports.DataSource, filter domain.FilterConfig) (*domain.Report, error)
	Report(id string) (*domain.Report, bool)
}

// Server представляет HTTP-сервер
type Server struct {
	HTTPServer *http.Server
	cfg        *config.Config
	analyzer   ReportAnalyzer
	cacheStore *cache.CacheStore
	logger     *slog.Logger
}

// New создает новый экземпляр Server. cacheStore может быть nil.
func New(cfg *config.Config, analyzer ReportAnalyzer, cacheStore *cache.CacheStore, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if analyzer == nil {
		return nil, errors.New("analyzer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:        cfg,
		analyzer:   analyzer,
		cacheStore: cacheStore,
		logger:     logger,
	}

	chiRouter := chi.NewRouter()

	// Промежуточное ПО
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.Logger)
	chiRouter.Use(middleware.Recoverer)

	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	chiRouter.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/reports/{reportID}", s.handleGetReport)
		r.Get("/reports/{reportID}/xlsx", s.handleGetReportXLSX)
	})

	s.HTTPServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      chiRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// handleAnalyze принимает экспорт в поле "file" и возвращает отчет.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r.URL.Query(), s.cfg.Analysis.UserFilterMode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	maxBytes := s.cfg.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "uploaded file is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "form field \"file\" is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}
	s.logger.Debug("upload received", "bytes", len(data), "request_id", middleware.GetReqID(r.Context()))

	report, err := s.analyzer.Analyze(r.Context(), source.NewMemorySource(data), filter)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMalformedInput), errors.Is(err, domain.ErrInputNotFound):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("analysis failed", "error", err)
			writeError(w, http.StatusInternalServerError, "analysis failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.analyzer.Report(chi.URLParam(r, "reportID"))
	if !ok {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetReportXLSX(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	report, ok := s.analyzer.Report(reportID)
	if !ok {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}

	// Книга собирается в буфер, чтобы ошибка не оборвала уже начатый ответ
	var buf bytes.Buffer
	if err := exporter.NewExcelExporter(&buf).Export(report); err != nil {
		s.logger.Error("xlsx export failed", "report_id", reportID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build workbook")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report-"+reportID+".xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("failed to write xlsx response", "report_id", reportID, "error", err)
	}
}

// Run запускает сервер и тикер очистки кэша и блокируется до отмены ctx,
// после чего корректно завершает работу в пределах server.shutdown_timeout.
func (s *Server) Run(ctx context.Context) error {
	if s.cacheStore != nil {
		s.cacheStore.StartCleanupTicker(ctx, s.cfg.Cache.CleanupInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server started", "address", s.HTTPServer.Addr)
		if err := s.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown корректно завершает работу HTTP-сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.HTTPServer.Shutdown(ctx)
}

// filterFromQuery собирает FilterConfig из параметров запроса.
func filterFromQuery(q url.Values, defaultMode string) (domain.FilterConfig, error) {
	filter := domain.FilterConfig{
		User:      q.Get("user"),
		FromDate:  q.Get("from_date"),
		ToDate:    q.Get("to_date"),
		MediaType: q.Get("media_type"),
	}

	if v := q.Get("saved_only"); v != "" {
		saved, err := strconv.ParseBool(v)
		if err != nil {
			return domain.FilterConfig{}, fmt.Errorf("invalid saved_only value %q", v)
		}
		filter.SavedOnly = saved
	}

	modeName := defaultMode
	if v := q.Get("user_filter_mode"); v != "" {
		modeName = v
	}
	mode, err := domain.ParseCorrespondentMode(modeName)
	if err != nil {
		return domain.FilterConfig{}, err
	}
	filter.UserMode = mode

	return filter, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
