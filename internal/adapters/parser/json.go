package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"snapchat-analyzer/internal/domain"
	"snapchat-analyzer/internal/ports"
)

// Имена полей сообщения в экспорте. Сравнение точное, с учетом регистра.
const (
	fieldFrom              = "From"
	fieldMediaType         = "Media Type"
	fieldCreated           = "Created"
	fieldContent           = "Content"
	fieldConversationTitle = "Conversation Title"
	fieldIsSender          = "IsSender"
	fieldCreatedMicros     = "Created(microseconds)"
	fieldIsSaved           = "IsSaved"
)

var jsonNull = []byte("null")

// JsonParser реализует интерфейс Parser для разбора JSON экспорта.
type JsonParser struct{}

// NewJsonParser создает новый экземпляр JsonParser.
func NewJsonParser() ports.Parser {
	return &JsonParser{}
}

// Parse преобразует срез байт с JSON в ChatData.
// Любая ошибка синтаксиса или схемы оборачивает domain.ErrMalformedInput.
func (p *JsonParser) Parse(data []byte) (domain.ChatData, error) {
	var raw map[string][]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal json: %v", domain.ErrMalformedInput, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: top level must be an object", domain.ErrMalformedInput)
	}

	chat := make(domain.ChatData, len(raw))
	for conversation, items := range raw {
		if items == nil {
			return nil, fmt.Errorf("%w: conversation %q: expected an array of messages", domain.ErrMalformedInput, conversation)
		}
		messages := make([]domain.Message, 0, len(items))
		for i, obj := range items {
			msg, err := decodeMessage(obj)
			if err != nil {
				return nil, fmt.Errorf("%w: conversation %q, message %d: %v", domain.ErrMalformedInput, conversation, i, err)
			}
			messages = append(messages, msg)
		}
		chat[conversation] = messages
	}

	return chat, nil
}

func decodeMessage(obj map[string]json.RawMessage) (domain.Message, error) {
	var msg domain.Message
	if obj == nil {
		return msg, fmt.Errorf("expected an object")
	}

	required := []struct {
		name string
		dst  any
	}{
		{fieldFrom, &msg.Sender},
		{fieldMediaType, &msg.MediaType},
		{fieldCreated, &msg.Created},
		{fieldIsSender, &msg.IsSender},
		{fieldCreatedMicros, &msg.CreatedMicroseconds},
		{fieldIsSaved, &msg.IsSaved},
	}
	for _, f := range required {
		value, ok := obj[f.name]
		if !ok || bytes.Equal(bytes.TrimSpace(value), jsonNull) {
			return msg, fmt.Errorf("missing required field %q", f.name)
		}
		if err := json.Unmarshal(value, f.dst); err != nil {
			return msg, fmt.Errorf("field %q: %v", f.name, err)
		}
	}

	var err error
	if msg.Content, err = optionalString(obj, fieldContent); err != nil {
		return msg, err
	}
	if msg.ConversationTitle, err = optionalString(obj, fieldConversationTitle); err != nil {
		return msg, err
	}

	return msg, nil
}

// optionalString возвращает nil для отсутствующего поля или null.
func optionalString(obj map[string]json.RawMessage, name string) (*string, error) {
	value, ok := obj[name]
	if !ok || bytes.Equal(bytes.TrimSpace(value), jsonNull) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return nil, fmt.Errorf("field %q: %v", name, err)
	}
	return &s, nil
}
