package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"snapchat-analyzer/internal/cache"
	"snapchat-analyzer/internal/domain"
	"snapchat-analyzer/internal/ports"
	"time"

	"github.com/google/uuid"
)

// Префиксы разделяют ключи по содержимому и по ID отчета в одном CacheStore.
const (
	inputKeyPrefix  = "input:"
	reportKeyPrefix = "report:"
)

// AnalyzeChatUseCase инкапсулирует полный цикл обработки экспорта:
// загрузка, разбор, анализ и кэширование отчета.
type AnalyzeChatUseCase struct {
	parser     ports.Parser
	analyzer   ports.Analyzer
	cacheStore *cache.CacheStore
	cacheTTL   time.Duration
	logger     *slog.Logger

	newID func() string
	now   func() time.Time
}

// NewAnalyzeChatUseCase создает новый экземпляр AnalyzeChatUseCase.
// cacheStore может быть nil, тогда отчеты не кэшируются.
func NewAnalyzeChatUseCase(
	parser ports.Parser,
	analyzer ports.Analyzer,
	cacheStore *cache.CacheStore,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *AnalyzeChatUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeChatUseCase{
		parser:     parser,
		analyzer:   analyzer,
		cacheStore: cacheStore,
		cacheTTL:   cacheTTL,
		logger:     logger,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

// Analyze загружает данные из src, применяет filter и возвращает отчет.
// Повторный запрос с тем же содержимым и фильтром отдается из кэша.
func (uc *AnalyzeChatUseCase) Analyze(ctx context.Context, src ports.DataSource, filter domain.FilterConfig) (*domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := src.Fetch()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch input: %w", err)
	}

	cacheKey := inputKeyPrefix + cache.CalculateHashFromString(cache.CalculateHash(data)+"|"+filter.Fingerprint())
	if uc.cacheStore != nil {
		if item, found := uc.cacheStore.Get(cacheKey); found {
			uc.logger.Info("cache hit", "key", cacheKey, "report_id", item.Report.ID)
			cached := *item.Report
			cached.Cached = true
			return &cached, nil
		}
	}

	chat, err := uc.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	uc.logger.Info("export parsed", "conversations", len(chat), "messages", chat.Len())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := uc.analyzer.Analyze(chat, filter)
	report := domain.NewReport(uc.newID(), stats, filter, uc.now())
	uc.logger.Info("analysis completed", "report_id", report.ID, "total_messages", stats.TotalMessages)

	if uc.cacheStore != nil {
		uc.cacheStore.Put(cacheKey, report, uc.cacheTTL)
		uc.cacheStore.Put(reportKeyPrefix+report.ID, report, uc.cacheTTL)
	}

	return report, nil
}

// Report возвращает ранее построенный отчет по его ID.
func (uc *AnalyzeChatUseCase) Report(id string) (*domain.Report, bool) {
	if uc.cacheStore == nil {
		return nil, false
	}
	item, found := uc.cacheStore.Get(reportKeyPrefix + id)
	if !found {
		return nil, false
	}
	return item.Report, true
}
