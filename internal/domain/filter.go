package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CorrespondentMode определяет, как применяется фильтр по собеседнику.
type CorrespondentMode string

const (
	// CorrespondentLiteral воспроизводит исходное условие исключения:
	// (!IsSender && From != user) && (IsSender && From == user).
	// Оно невыполнимо, поэтому фильтр ничего не отбрасывает.
	CorrespondentLiteral CorrespondentMode = "literal"
	// CorrespondentSender оставляет только сообщения, у которых From == user,
	// независимо от направления.
	CorrespondentSender CorrespondentMode = "sender"
)

// ParseCorrespondentMode разбирает имя режима; пустая строка означает literal.
func ParseCorrespondentMode(s string) (CorrespondentMode, error) {
	switch CorrespondentMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", CorrespondentLiteral:
		return CorrespondentLiteral, nil
	case CorrespondentSender:
		return CorrespondentSender, nil
	default:
		return "", fmt.Errorf("unknown user filter mode %q (want %q or %q)", s, CorrespondentLiteral, CorrespondentSender)
	}
}

// FilterConfig - неизменяемый набор критериев отбора сообщений.
// Пустая строка означает, что критерий не задан.
type FilterConfig struct {
	User      string            `json:"user,omitempty"`
	UserMode  CorrespondentMode `json:"user_filter_mode,omitempty"`
	FromDate  string            `json:"from_date,omitempty"`
	ToDate    string            `json:"to_date,omitempty"`
	SavedOnly bool              `json:"saved_only,omitempty"`
	MediaType string            `json:"media_type,omitempty"`
}

// HasDateBounds сообщает, задана ли хотя бы одна граница по дате.
func (f FilterConfig) HasDateBounds() bool {
	return f.FromDate != "" || f.ToDate != ""
}

// Mode возвращает режим фильтра по собеседнику с учетом значения по умолчанию.
func (f FilterConfig) Mode() CorrespondentMode {
	if f.UserMode == "" {
		return CorrespondentLiteral
	}
	return f.UserMode
}

// Fingerprint возвращает стабильное строковое представление фильтра для ключей кэша.
func (f FilterConfig) Fingerprint() string {
	return strings.Join([]string{
		"user=" + strconv.Quote(f.User),
		"mode=" + string(f.Mode()),
		"from=" + strconv.Quote(f.FromDate),
		"to=" + strconv.Quote(f.ToDate),
		"saved=" + strconv.FormatBool(f.SavedOnly),
		"media=" + strconv.Quote(f.MediaType),
	}, ";")
}
