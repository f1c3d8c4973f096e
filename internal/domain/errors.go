package domain

import "errors"

var (
	// ErrInputNotFound - файл экспорта не найден или путь не указан.
	ErrInputNotFound = errors.New("input not found")
	// ErrInputUnreadable - файл существует, но прочитать его нельзя.
	ErrInputUnreadable = errors.New("input unreadable")
	// ErrMalformedInput - ошибка разбора JSON или несоответствие схеме.
	ErrMalformedInput = errors.New("malformed input")
	// ErrMissingDateDelimiter - у поля Created нет даты перед пробелом.
	ErrMissingDateDelimiter = errors.New("created has no date portion")
)
