package domain

import (
	"sort"
	"strings"
	"time"
)

// CreatedLayout - формат поля Created в экспорте ("2021-03-04 10:15:22 UTC").
const CreatedLayout = "2006-01-02 15:04:05 MST"

// Message представляет одно сообщение из экспорта чатов.
type Message struct {
	Sender            string  `json:"From"`
	MediaType         string  `json:"Media Type"`
	Created           string  `json:"Created"`
	Content           *string `json:"Content"`
	ConversationTitle *string `json:"Conversation Title"`
	// IsSender в экспорте инвертирован: true означает, что сообщение
	// получено владельцем аккаунта, false - что он его отправил.
	IsSender            bool  `json:"IsSender"`
	CreatedMicroseconds int64 `json:"Created(microseconds)"`
	IsSaved             bool  `json:"IsSaved"`
}

// Received сообщает, что сообщение получено владельцем аккаунта.
func (m Message) Received() bool {
	return m.IsSender
}

// Date возвращает дату сообщения (первое поле Created до пробела).
// ok == false, если Created пуст или состоит только из пробелов.
func (m Message) Date() (string, bool) {
	fields := strings.Fields(m.Created)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// CreatedAt разбирает Created и приводит время к UTC.
func (m Message) CreatedAt() (time.Time, error) {
	t, err := time.Parse(CreatedLayout, m.Created)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ChatData - корневая структура файла экспорта: беседа -> сообщения.
type ChatData map[string][]Message

// Messages возвращает все сообщения всех бесед одним срезом.
// Беседы обходятся в порядке имен, порядок сообщений внутри беседы сохраняется.
func (d ChatData) Messages() []Message {
	names := make([]string, 0, len(d))
	total := 0
	for name, msgs := range d {
		names = append(names, name)
		total += len(msgs)
	}
	sort.Strings(names)

	all := make([]Message, 0, total)
	for _, name := range names {
		all = append(all, d[name]...)
	}
	return all
}

// Len возвращает общее число сообщений.
func (d ChatData) Len() int {
	n := 0
	for _, msgs := range d {
		n += len(msgs)
	}
	return n
}
