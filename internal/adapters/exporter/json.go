package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"snapchat-analyzer/internal/domain"
	"snapchat-analyzer/internal/ports"
)

// JSONExporter выводит отчет в виде JSON-документа.
type JSONExporter struct {
	out io.Writer
}

// NewJSONExporter создает новый экземпляр JSONExporter.
func NewJSONExporter(out io.Writer) ports.Exporter {
	if out == nil {
		out = os.Stdout
	}
	return &JSONExporter{out: out}
}

// Export сериализует отчет с отступами.
func (e *JSONExporter) Export(report *domain.Report) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
