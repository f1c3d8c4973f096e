package exporter

import (
	"fmt"
	"io"
	"math"
	"snapchat-analyzer/internal/domain"
	"snapchat-analyzer/internal/ports"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"
)

// Имена листов книги с отчетом.
const (
	SummarySheet    = "Summary"
	MediaTypesSheet = "Media Types"
	UsersSheet      = "Users"
)

const (
	minColumnWidth = 10
	maxColumnWidth = 60
)

// ExcelExporter записывает отчет в книгу XLSX: сводка, типы медиа и собеседники.
type ExcelExporter struct {
	out io.Writer
}

// NewExcelExporter создает новый экземпляр ExcelExporter.
func NewExcelExporter(out io.Writer) ports.Exporter {
	return &ExcelExporter{out: out}
}

// Export строит книгу и пишет ее в out.
func (e *ExcelExporter) Export(report *domain.Report) (err error) {
	if e.out == nil {
		return fmt.Errorf("excel export requires an output destination")
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	if err := fillWorkbook(f, report); err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}

	if err := f.Write(e.out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func fillWorkbook(f *excelize.File, report *domain.Report) error {
	stats := report.Statistics

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}

	summary := [][]any{
		{"Metric", "Value"},
		{"Report ID", report.ID},
		{"Generated at", report.GeneratedAt.Format(time.RFC3339)},
		{"Total messages", stats.TotalMessages},
		{"Messages sent", stats.MessagesSent},
		{"Messages received", stats.MessagesReceived},
		{"Saved messages", stats.SavedMessages},
	}
	if stats.EarliestMessage != nil && stats.LatestMessage != nil {
		summary = append(summary,
			[]any{"Earliest message", stats.EarliestMessage.Format(time.RFC3339)},
			[]any{"Latest message", stats.LatestMessage.Format(time.RFC3339)},
		)
	}
	if avg, ok := stats.AveragePerDay(); ok {
		days, _ := stats.DaySpan()
		summary = append(summary,
			[]any{"Date range (days)", days},
			[]any{"Average messages per day", math.Round(avg*100) / 100},
		)
	}
	if err := writeRows(f, SummarySheet, summary); err != nil {
		return err
	}

	if _, err := f.NewSheet(MediaTypesSheet); err != nil {
		return err
	}
	mediaRows := [][]any{{"Media type", "Count"}}
	for _, mediaType := range stats.MediaTypes() {
		mediaRows = append(mediaRows, []any{mediaType, stats.MediaTypeCounts[mediaType]})
	}
	if err := writeRows(f, MediaTypesSheet, mediaRows); err != nil {
		return err
	}

	if _, err := f.NewSheet(UsersSheet); err != nil {
		return err
	}
	userRows := [][]any{{"User", "Sent", "Received"}}
	for _, user := range stats.Users() {
		ui := stats.UserInteractions[user]
		userRows = append(userRows, []any{user, ui.Sent, ui.Received})
	}
	return writeRows(f, UsersSheet, userRows)
}

// writeRows записывает строки начиная с A1 и подгоняет ширину первой колонки.
func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	width := minColumnWidth
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
		if label, ok := row[0].(string); ok {
			width = max(width, runewidth.StringWidth(label)+2)
		}
	}
	return f.SetColWidth(sheet, "A", "A", float64(min(width, maxColumnWidth)))
}
