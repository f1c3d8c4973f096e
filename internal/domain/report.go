package domain

import "time"

// Report - результат анализа, который отдают экспортеры и HTTP API.
type Report struct {
	ID            string       `json:"report_id"`
	GeneratedAt   time.Time    `json:"generated_at"`
	Cached        bool         `json:"cached"`
	Filter        FilterConfig `json:"filter"`
	Statistics    *Statistics  `json:"statistics"`
	DateRangeDays int          `json:"date_range_days,omitempty"`
	AveragePerDay float64      `json:"average_messages_per_day,omitempty"`
}

// NewReport собирает отчет и вычисляет производные поля.
func NewReport(id string, stats *Statistics, filter FilterConfig, generatedAt time.Time) *Report {
	r := &Report{
		ID:          id,
		GeneratedAt: generatedAt.UTC(),
		Filter:      filter,
		Statistics:  stats,
	}
	if avg, ok := stats.AveragePerDay(); ok {
		r.DateRangeDays, _ = stats.DaySpan()
		r.AveragePerDay = avg
	}
	return r
}
