package source

import (
	"errors"
	"fmt"
	"os"
	"snapchat-analyzer/internal/domain"
	"snapchat-analyzer/internal/ports"
)

// CliSource реализует интерфейс DataSource для чтения данных из файла,
// указанного в командной строке.
type CliSource struct {
	filePath string
}

// NewCliSource создает новый экземпляр CliSource.
func NewCliSource(filePath string) ports.DataSource {
	return &CliSource{filePath: filePath}
}

// Fetch читает файл по указанному пути и возвращает его содержимое.
func (s *CliSource) Fetch() ([]byte, error) {
	if s.filePath == "" {
		return nil, fmt.Errorf("file path is empty: %w", domain.ErrInputNotFound)
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInputNotFound, s.filePath)
		}
		return nil, fmt.Errorf("%w: failed to read file %s: %v", domain.ErrInputUnreadable, s.filePath, err)
	}

	return data, nil
}
