package ports

import (
	"snapchat-analyzer/internal/domain"
)

// DataSource определяет интерфейс для получения исходных данных экспорта.
type DataSource interface {
	// Fetch загружает данные из источника и возвращает их в виде байтового среза.
	Fetch() ([]byte, error)
}

// Parser определяет интерфейс для разбора данных экспорта.
type Parser interface {
	// Parse преобразует сырые данные в модель ChatData.
	Parse(data []byte) (domain.ChatData, error)
}

// Analyzer определяет интерфейс для подсчета статистики по сообщениям.
type Analyzer interface {
	// Analyze выполняет один проход по всем сообщениям и не изменяет data.
	Analyze(data domain.ChatData, filter domain.FilterConfig) *domain.Statistics
}

// Exporter определяет интерфейс для вывода результата.
type Exporter interface {
	// Export выводит готовый отчет.
	Export(report *domain.Report) error
}
