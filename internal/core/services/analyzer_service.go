package services

import (
	"log/slog"
	"snapchat-analyzer/internal/domain"
	"snapchat-analyzer/internal/ports"
)

// AnalyzerService реализует интерфейс Analyzer: один проход по всем сообщениям
// с фильтрацией и накоплением счетчиков.
type AnalyzerService struct {
	logger *slog.Logger
}

// NewAnalyzerService создает новый экземпляр AnalyzerService.
// Если logger равен nil, используется slog.Default().
func NewAnalyzerService(logger *slog.Logger) ports.Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzerService{logger: logger}
}

// Analyze считает статистику по сообщениям, прошедшим фильтр. data не изменяется.
func (s *AnalyzerService) Analyze(data domain.ChatData, filter domain.FilterConfig) *domain.Statistics {
	stats := domain.NewStatistics()

	if filter.User != "" && filter.Mode() == domain.CorrespondentLiteral {
		s.logger.Warn("user filter in literal mode excludes nothing; use user filter mode \"sender\" to keep only messages from this user",
			"user", filter.User)
	}

	var skippedNoDate, unparsed int
	for conversation, messages := range data {
		for i, msg := range messages {
			ok, err := accept(msg, filter)
			if err != nil {
				skippedNoDate++
				s.logger.Debug("message skipped", "conversation", conversation, "index", i, "created", msg.Created, "error", err)
				continue
			}
			if !ok {
				continue
			}
			if !fold(stats, msg) {
				unparsed++
				s.logger.Debug("timestamp not parsed, time range untouched", "conversation", conversation, "index", i, "created", msg.Created)
			}
		}
	}

	s.logger.Debug("analysis finished",
		"messages", data.Len(),
		"accepted", stats.TotalMessages,
		"skipped_no_date", skippedNoDate,
		"unparsed_timestamps", unparsed,
	)
	return stats
}

// accept применяет фильтр к сообщению. Ошибка означает, что при активной границе
// по дате у сообщения нет даты; такое сообщение пропускается.
func accept(msg domain.Message, f domain.FilterConfig) (bool, error) {
	if f.User != "" && excludedByCorrespondent(msg, f.User, f.Mode()) {
		return false, nil
	}

	if f.HasDateBounds() {
		date, ok := msg.Date()
		if !ok {
			return false, domain.ErrMissingDateDelimiter
		}
		// Сравнение строк: формат YYYY-MM-DD фиксированной ширины.
		if f.FromDate != "" && date < f.FromDate {
			return false, nil
		}
		if f.ToDate != "" && date > f.ToDate {
			return false, nil
		}
	}

	if f.SavedOnly && !msg.IsSaved {
		return false, nil
	}

	if f.MediaType != "" && msg.MediaType != f.MediaType {
		return false, nil
	}

	return true, nil
}

func excludedByCorrespondent(msg domain.Message, user string, mode domain.CorrespondentMode) bool {
	switch mode {
	case domain.CorrespondentSender:
		return msg.Sender != user
	default:
		// Обе половины условия требуют противоположных значений IsSender,
		// поэтому выражение всегда ложно и фильтр ничего не исключает.
		return (!msg.IsSender && msg.Sender != user) && (msg.IsSender && msg.Sender == user)
	}
}

// fold добавляет сообщение в статистику. Возвращает false, если Created
// не удалось разобрать и диапазон времени не обновлялся.
func fold(stats *domain.Statistics, msg domain.Message) bool {
	stats.TotalMessages++

	interaction := stats.UserInteractions[msg.Sender]
	if msg.Received() {
		stats.MessagesReceived++
		interaction.Received++
	} else {
		stats.MessagesSent++
		interaction.Sent++
	}
	stats.UserInteractions[msg.Sender] = interaction

	if msg.IsSaved {
		stats.SavedMessages++
	}

	stats.MediaTypeCounts[msg.MediaType]++

	created, err := msg.CreatedAt()
	if err != nil {
		return false
	}
	stats.UpdateTimeRange(created)
	return true
}
