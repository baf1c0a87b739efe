package models

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// Request модели

// OpenChatRequest запрос на открытие чата с собеседником
type OpenChatRequest struct {
	UserID        string `json:"-"`
	ParticipantID string `json:"participantId"`
}

// SendMessageRequest запрос на отправку сообщения
type SendMessageRequest struct {
	ChatID   string `json:"-"`
	SenderID string `json:"-"`
	Text     string `json:"text"`
}

// Response модели

// ParticipantResponse собеседник в чате
type ParticipantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// LastMessageResponse превью последнего сообщения
type LastMessageResponse struct {
	Text     string    `json:"text"`
	SenderID string    `json:"senderId"`
	SentAt   time.Time `json:"timestamp"`
}

// ChatResponse чат с точки зрения одного из участников
type ChatResponse struct {
	ID          string               `json:"id"`
	Participant ParticipantResponse  `json:"participant"`
	LastMessage *LastMessageResponse `json:"lastMessage,omitempty"`
	UnreadCount int                  `json:"unreadCount"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// ChatListResponse список чатов пользователя
type ChatListResponse struct {
	Chats []ChatResponse `json:"chats"`
}

// MessageResponse сообщение чата
type MessageResponse struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chatId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Text       string    `json:"text"`
	IsRead     bool      `json:"isRead"`
	SentAt     time.Time `json:"timestamp"`
}

// MessageListResponse сообщения чата в порядке отправки
type MessageListResponse struct {
	ChatID   string            `json:"chatId"`
	Messages []MessageResponse `json:"messages"`
}

// MarkReadResponse результат отметки о прочтении
type MarkReadResponse struct {
	ChatID  string `json:"chatId"`
	Updated int64  `json:"updated"`
}

// FromDomainChat конвертирует чат и профиль собеседника в DTO
func FromDomainChat(c *domain.Chat, other *domain.UserProfile) *ChatResponse {
	if c == nil {
		return nil
	}
	resp := &ChatResponse{
		ID:          c.ID,
		UnreadCount: c.UnreadCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if other != nil {
		resp.Participant = ParticipantResponse{ID: other.ID, Name: other.Name, Role: string(other.Role)}
	}
	if c.LastMessage != nil {
		resp.LastMessage = &LastMessageResponse{
			Text:     c.LastMessage.Text,
			SenderID: c.LastMessage.SenderID,
			SentAt:   c.LastMessage.SentAt,
		}
	}
	return resp
}

// FromDomainMessage конвертирует domain модель в DTO
func FromDomainMessage(m *domain.Message) *MessageResponse {
	if m == nil {
		return nil
	}
	return &MessageResponse{
		ID:         m.ID,
		ChatID:     m.ChatID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Text:       m.Text,
		IsRead:     m.IsRead,
		SentAt:     m.SentAt,
	}
}

// FromDomainMessageList конвертирует сообщения чата в DTO
func FromDomainMessageList(chatID string, messages []*domain.Message) *MessageListResponse {
	resp := &MessageListResponse{ChatID: chatID, Messages: make([]MessageResponse, 0, len(messages))}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, *FromDomainMessage(m))
	}
	return resp
}
