package services

import (
	"bytes"
	"io"
	"log/slog"
	"snapchat-analyzer/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer() *AnalyzerService {
	return &AnalyzerService{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func msg(sender, media, created string, received, saved bool) domain.Message {
	return domain.Message{
		Sender:    sender,
		MediaType: media,
		Created:   created,
		IsSender:  received,
		IsSaved:   saved,
	}
}

// sampleChat - набор сообщений с разными направлениями, датами и типами.
func sampleChat() domain.ChatData {
	return domain.ChatData{
		"Alice & Bob": {
			msg("Bob", "TEXT", "2021-01-01 10:00:00 UTC", true, true),
			msg("Alice", "TEXT", "2021-01-02 11:00:00 UTC", false, false),
			msg("Bob", "MEDIA", "2021-01-05 09:30:00 UTC", true, false),
		},
		"Alice & Carol": {
			msg("Carol", "NOTE", "2021-02-10 08:00:00 UTC", true, true),
			msg("Alice", "TEXT", "2021-02-11 23:59:59 UTC", false, true),
			msg("Carol", "TEXT", "not-a-date", true, false),
		},
	}
}

func assertCountsConsistent(t *testing.T, stats *domain.Statistics) {
	t.Helper()
	assert.Equal(t, stats.TotalMessages, stats.MessagesSent+stats.MessagesReceived)

	mediaSum := 0
	for _, n := range stats.MediaTypeCounts {
		mediaSum += n
	}
	assert.Equal(t, stats.TotalMessages, mediaSum)

	userSum := 0
	for _, ui := range stats.UserInteractions {
		userSum += ui.Sent + ui.Received
	}
	assert.Equal(t, stats.TotalMessages, userSum)
}

func TestAnalyzerService(t *testing.T) {
	t.Run("NewAnalyzerService создает экземпляр с логгером по умолчанию", func(t *testing.T) {
		a := NewAnalyzerService(nil)
		require.NotNil(t, a)
		assert.NotNil(t, a.(*AnalyzerService).logger)
	})

	t.Run("одно сообщение без фильтров", func(t *testing.T) {
		content := "hi"
		data := domain.ChatData{"Alice & Bob": {{
			Sender:    "Bob",
			MediaType: "TEXT",
			Created:   "2021-01-01 10:00:00 UTC",
			Content:   &content,
			IsSender:  false,
			IsSaved:   true,
		}}}

		stats := newTestAnalyzer().Analyze(data, domain.FilterConfig{})

		assert.Equal(t, 1, stats.TotalMessages)
		assert.Equal(t, 1, stats.MessagesSent)
		assert.Equal(t, 0, stats.MessagesReceived)
		assert.Equal(t, 1, stats.SavedMessages)
		assert.Equal(t, map[string]int{"TEXT": 1}, stats.MediaTypeCounts)
		assert.Equal(t, map[string]domain.UserInteraction{"Bob": {Sent: 1}}, stats.UserInteractions)
		require.NotNil(t, stats.EarliestMessage)
		assert.Equal(t, time.Date(2021, 1, 1, 10, 0, 0, 0, time.UTC), *stats.EarliestMessage)
		assert.Equal(t, *stats.EarliestMessage, *stats.LatestMessage)
	})

	t.Run("saved_only оставляет только сохраненные", func(t *testing.T) {
		data := domain.ChatData{"Alice & Bob": {
			msg("Bob", "TEXT", "2021-01-01 10:00:00 UTC", false, true),
			msg("Bob", "TEXT", "2021-01-01 11:00:00 UTC", false, false),
		}}

		stats := newTestAnalyzer().Analyze(data, domain.FilterConfig{SavedOnly: true})

		assert.Equal(t, 1, stats.TotalMessages)
		assert.Equal(t, stats.TotalMessages, stats.SavedMessages)
	})

	t.Run("диапазон в два дня", func(t *testing.T) {
		data := domain.ChatData{"c": {
			msg("Bob", "TEXT", "2021-01-01 10:00:00 UTC", true, false),
			msg("Bob", "TEXT", "2021-01-03 10:00:00 UTC", true, false),
		}}

		stats := newTestAnalyzer().Analyze(data, domain.FilterConfig{})

		days, ok := stats.DaySpan()
		require.True(t, ok)
		assert.Equal(t, 2, days)
		avg, ok := stats.AveragePerDay()
		require.True(t, ok)
		assert.InDelta(t, 1.0, avg, 1e-9)
	})

	t.Run("неразобранная дата учитывается в счетчиках, но не в диапазоне", func(t *testing.T) {
		data := domain.ChatData{"c": {msg("Bob", "TEXT", "not-a-date", true, false)}}

		stats := newTestAnalyzer().Analyze(data, domain.FilterConfig{})

		assert.Equal(t, 1, stats.TotalMessages)
		assert.Equal(t, 1, stats.MessagesReceived)
		assert.Nil(t, stats.EarliestMessage)
		assert.Nil(t, stats.LatestMessage)
	})

	t.Run("инварианты счетчиков на общем наборе", func(t *testing.T) {
		stats := newTestAnalyzer().Analyze(sampleChat(), domain.FilterConfig{})

		assert.Equal(t, 6, stats.TotalMessages)
		assert.Equal(t, 2, stats.MessagesSent)
		assert.Equal(t, 4, stats.MessagesReceived)
		assert.Equal(t, 3, stats.SavedMessages)
		assert.Equal(t, map[string]int{"TEXT": 4, "MEDIA": 1, "NOTE": 1}, stats.MediaTypeCounts)
		assert.Equal(t, domain.UserInteraction{Received: 2}, stats.UserInteractions["Bob"])
		assert.Equal(t, domain.UserInteraction{Sent: 2}, stats.UserInteractions["Alice"])
		assert.Equal(t, domain.UserInteraction{Received: 2}, stats.UserInteractions["Carol"])
		assert.Equal(t, time.Date(2021, 1, 1, 10, 0, 0, 0, time.UTC), *stats.EarliestMessage)
		assert.Equal(t, time.Date(2021, 2, 11, 23, 59, 59, 0, time.UTC), *stats.LatestMessage)
		assertCountsConsistent(t, stats)
	})

	t.Run("Analyze не изменяет входные данные", func(t *testing.T) {
		data := sampleChat()
		before := sampleChat()

		newTestAnalyzer().Analyze(data, domain.FilterConfig{SavedOnly: true, MediaType: "TEXT"})

		assert.Equal(t, before, data)
	})
}

func TestAnalyzerFilters(t *testing.T) {
	a := newTestAnalyzer()
	unfiltered := a.Analyze(sampleChat(), domain.FilterConfig{})

	testCases := []struct {
		name   string
		filter domain.FilterConfig
		total  int
		check  func(t *testing.T, stats *domain.Statistics)
	}{
		{
			name:   "saved_only",
			filter: domain.FilterConfig{SavedOnly: true},
			total:  3,
			check: func(t *testing.T, stats *domain.Statistics) {
				assert.Equal(t, stats.TotalMessages, stats.SavedMessages)
			},
		},
		{
			name:   "media_type",
			filter: domain.FilterConfig{MediaType: "TEXT"},
			total:  4,
			check: func(t *testing.T, stats *domain.Statistics) {
				assert.Equal(t, []string{"TEXT"}, stats.MediaTypes())
			},
		},
		{
			name:   "media_type без совпадений",
			filter: domain.FilterConfig{MediaType: "text"},
			total:  0,
			check: func(t *testing.T, stats *domain.Statistics) {
				assert.Empty(t, stats.MediaTypeCounts)
				assert.Nil(t, stats.EarliestMessage)
				assert.Nil(t, stats.LatestMessage)
			},
		},
		{
			name:   "from_date включительно",
			filter: domain.FilterConfig{FromDate: "2021-01-05"},
			// "not-a-date" > "2021-01-05" лексически, поэтому сообщение проходит.
			total: 4,
		},
		{
			name:   "to_date включительно",
			filter: domain.FilterConfig{ToDate: "2021-01-02"},
			total:  2,
			check: func(t *testing.T, stats *domain.Statistics) {
				assert.Equal(t, time.Date(2021, 1, 2, 11, 0, 0, 0, time.UTC), *stats.LatestMessage)
			},
		},
		{
			name:   "from_date и to_date",
			filter: domain.FilterConfig{FromDate: "2021-01-02", ToDate: "2021-02-10"},
			total:  3,
		},
		{
			name:   "пустой интервал",
			filter: domain.FilterConfig{FromDate: "2021-03-01", ToDate: "2021-02-01"},
			total:  0,
		},
		{
			name:   "user в режиме literal ничего не исключает",
			filter: domain.FilterConfig{User: "Bob"},
			total:  6,
		},
		{
			name:   "user в режиме literal с неизвестным собеседником",
			filter: domain.FilterConfig{User: "nobody", UserMode: domain.CorrespondentLiteral},
			total:  6,
		},
		{
			name:   "user в режиме sender",
			filter: domain.FilterConfig{User: "Bob", UserMode: domain.CorrespondentSender},
			total:  2,
			check: func(t *testing.T, stats *domain.Statistics) {
				assert.Equal(t, []string{"Bob"}, stats.Users())
			},
		},
		{
			name:   "комбинация фильтров",
			filter: domain.FilterConfig{User: "Carol", UserMode: domain.CorrespondentSender, SavedOnly: true, MediaType: "NOTE"},
			total:  1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stats := a.Analyze(sampleChat(), tc.filter)

			assert.Equal(t, tc.total, stats.TotalMessages)
			assert.LessOrEqual(t, stats.TotalMessages, unfiltered.TotalMessages)
			assertCountsConsistent(t, stats)
			if tc.check != nil {
				tc.check(t, stats)
			}
		})
	}
}

func TestAnalyzerMissingDate(t *testing.T) {
	data := domain.ChatData{"c": {
		msg("Bob", "TEXT", "", true, false),
		msg("Bob", "TEXT", "   ", true, false),
		msg("Bob", "TEXT", "2021-01-01 10:00:00 UTC", true, false),
	}}

	t.Run("без границ по дате сообщение учитывается", func(t *testing.T) {
		stats := newTestAnalyzer().Analyze(data, domain.FilterConfig{})
		assert.Equal(t, 3, stats.TotalMessages)
	})

	t.Run("с границей по дате сообщение пропускается", func(t *testing.T) {
		stats := newTestAnalyzer().Analyze(data, domain.FilterConfig{FromDate: "2020-01-01"})
		assert.Equal(t, 1, stats.TotalMessages)
	})

	t.Run("accept возвращает ErrMissingDateDelimiter", func(t *testing.T) {
		_, err := accept(data["c"][0], domain.FilterConfig{ToDate: "2022-01-01"})
		assert.ErrorIs(t, err, domain.ErrMissingDateDelimiter)
	})
}

func TestAnalyzerLogging(t *testing.T) {
	var buf bytes.Buffer
	a := &AnalyzerService{logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))}

	a.Analyze(sampleChat(), domain.FilterConfig{User: "Bob"})
	assert.Contains(t, buf.String(), "literal mode excludes nothing")

	buf.Reset()
	a.Analyze(sampleChat(), domain.FilterConfig{User: "Bob", UserMode: domain.CorrespondentSender})
	assert.Empty(t, buf.String())
}
