package list_chat_messages

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/service/chats/models"
)

type ChatService interface {
	ListMessages(ctx context.Context, chatID, userID string) (*models.MessageListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
