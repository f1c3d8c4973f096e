package source

import (
	"fmt"
	"snapchat-analyzer/internal/domain"
	"snapchat-analyzer/internal/ports"
)

// MemorySource реализует интерфейс DataSource для данных, уже загруженных в память
// (например, файл из multipart-запроса).
type MemorySource struct {
	data []byte
}

// NewMemorySource создает новый экземпляр MemorySource.
func NewMemorySource(data []byte) ports.DataSource {
	return &MemorySource{data: data}
}

// Fetch возвращает копию данных из памяти.
func (s *MemorySource) Fetch() ([]byte, error) {
	if s.data == nil {
		return nil, fmt.Errorf("data not set: %w", domain.ErrInputNotFound)
	}

	dataCopy := make([]byte, len(s.data))
	copy(dataCopy, s.data)

	return dataCopy, nil
}
