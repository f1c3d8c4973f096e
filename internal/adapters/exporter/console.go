package exporter

import (
	"fmt"
	"io"
	"os"
	"snapchat-analyzer/internal/domain"
	"snapchat-analyzer/internal/ports"
)

// ConsoleExporter реализует интерфейс Exporter для вывода текстового отчета.
type ConsoleExporter struct {
	out      io.Writer
	detailed bool
}

// NewConsoleExporter создает новый экземпляр ConsoleExporter.
// Если out равен nil, отчет печатается в os.Stdout.
func NewConsoleExporter(out io.Writer, detailed bool) ports.Exporter {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleExporter{out: out, detailed: detailed}
}

// Export печатает счетчики, диапазон дат и, при detailed, разбивки по типам и собеседникам.
func (e *ConsoleExporter) Export(report *domain.Report) error {
	stats := report.Statistics
	w := &errWriter{w: e.out}

	w.printf("\nSnapchat Chat Statistics:\n")
	w.printf("-------------------------\n")
	w.printf("Total messages: %d\n", stats.TotalMessages)
	w.printf("Messages sent: %d\n", stats.MessagesSent)
	w.printf("Messages received: %d\n", stats.MessagesReceived)
	w.printf("Saved messages: %d\n", stats.SavedMessages)

	if avg, ok := stats.AveragePerDay(); ok {
		days, _ := stats.DaySpan()
		w.printf("\nDate range: %d days\n", days)
		w.printf("Average messages per day: %.2f\n", avg)
	}

	if e.detailed {
		w.printf("\nMedia Type Breakdown:\n")
		for _, mediaType := range stats.MediaTypes() {
			w.printf("  %s: %d\n", mediaType, stats.MediaTypeCounts[mediaType])
		}

		w.printf("\nUser Interaction Breakdown:\n")
		for _, user := range stats.Users() {
			ui := stats.UserInteractions[user]
			w.printf("  %s:\n", user)
			w.printf("    Sent: %d\n", ui.Sent)
			w.printf("    Received: %d\n", ui.Received)
		}
	}

	if w.err != nil {
		return fmt.Errorf("failed to write report: %w", w.err)
	}
	return nil
}

// errWriter запоминает первую ошибку записи и пропускает остальные вызовы.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
