package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessageLength максимальная длина текста сообщения в символах
const MaxMessageLength = 2000

// LastMessage краткие данные о последнем сообщении чата
type LastMessage struct {
	Text     string
	SenderID string
	SentAt   time.Time
}

// Chat переписка клиента и мастера. Participants отсортированы.
type Chat struct {
	ID           string
	Participants [2]string
	LastMessage  *LastMessage
	UnreadCount  int // Непрочитанные сообщения для запрашивающего пользователя
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewChat создает чат двух пользователей с детерминированным ID
func NewChat(a, b string) *Chat {
	if b < a {
		a, b = b, a
	}
	return &Chat{ID: ChatID(a, b), Participants: [2]string{a, b}}
}

// ChatID один и тот же для пары пользователей независимо от порядка
func ChatID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(a+"\x00"+b)).String()
}

// HasParticipant returns true if the user takes part in the chat
func (c *Chat) HasParticipant(userID string) bool {
	return c.Participants[0] == userID || c.Participants[1] == userID
}

// Other возвращает собеседника пользователя
func (c *Chat) Other(userID string) string {
	if c.Participants[0] == userID {
		return c.Participants[1]
	}
	return c.Participants[0]
}

// Message сообщение в чате
type Message struct {
	ID         string
	ChatID     string
	SenderID   string
	ReceiverID string
	Text       string
	IsRead     bool
	SentAt     time.Time
}

// ChatEventType тип события чата
type ChatEventType string

const (
	EventChatMessage ChatEventType = "chat.message"
	EventChatRead    ChatEventType = "chat.read"
)

// ChatEvent событие в чате: новое сообщение или прочтение
type ChatEvent struct {
	Type       ChatEventType `json:"type"`
	ChatID     string        `json:"chatId"`
	MessageID  string        `json:"messageId,omitempty"`
	SenderID   string        `json:"senderId,omitempty"`
	ReceiverID string        `json:"receiverId,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}
