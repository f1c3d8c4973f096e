package domain

import (
	"sort"
	"time"
)

// UserInteraction - счетчики переписки с одним собеседником.
type UserInteraction struct {
	Sent     int `json:"sent"`
	Received int `json:"received"`
}

// Statistics накапливает результаты одного прохода анализа.
type Statistics struct {
	TotalMessages    int                        `json:"total_messages"`
	MessagesSent     int                        `json:"messages_sent"`
	MessagesReceived int                        `json:"messages_received"`
	SavedMessages    int                        `json:"saved_messages"`
	MediaTypeCounts  map[string]int             `json:"media_type_counts"`
	UserInteractions map[string]UserInteraction `json:"user_interaction_counts"`
	EarliestMessage  *time.Time                 `json:"earliest_message,omitempty"`
	LatestMessage    *time.Time                 `json:"latest_message,omitempty"`
}

// NewStatistics создает пустой аккумулятор.
func NewStatistics() *Statistics {
	return &Statistics{
		MediaTypeCounts:  make(map[string]int),
		UserInteractions: make(map[string]UserInteraction),
	}
}

// UpdateTimeRange сдвигает границы диапазона времени.
// Первое значение задает обе границы.
func (s *Statistics) UpdateTimeRange(t time.Time) {
	t = t.UTC()
	if s.EarliestMessage == nil || t.Before(*s.EarliestMessage) {
		earliest := t
		s.EarliestMessage = &earliest
	}
	if s.LatestMessage == nil || t.After(*s.LatestMessage) {
		latest := t
		s.LatestMessage = &latest
	}
}

// DaySpan возвращает число календарных дней между датами (UTC) самого раннего
// и самого позднего сообщения. ok == false, если диапазон не определен.
func (s *Statistics) DaySpan() (int, bool) {
	if s.EarliestMessage == nil || s.LatestMessage == nil {
		return 0, false
	}
	from := truncateToDate(*s.EarliestMessage)
	to := truncateToDate(*s.LatestMessage)
	return int(to.Sub(from).Hours() / 24), true
}

// AveragePerDay возвращает среднее число сообщений в день.
// ok == false, если диапазон не определен или меньше одного дня.
func (s *Statistics) AveragePerDay() (float64, bool) {
	days, ok := s.DaySpan()
	if !ok || days <= 0 {
		return 0, false
	}
	return float64(s.TotalMessages) / float64(days), true
}

// MediaTypes возвращает типы медиа в алфавитном порядке.
func (s *Statistics) MediaTypes() []string {
	keys := make([]string, 0, len(s.MediaTypeCounts))
	for k := range s.MediaTypeCounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Users возвращает собеседников в алфавитном порядке.
func (s *Statistics) Users() []string {
	keys := make([]string, 0, len(s.UserInteractions))
	for k := range s.UserInteractions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
