package mark_chat_read

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/service/chats/models"
)

type ChatService interface {
	MarkRead(ctx context.Context, chatID, userID string) (*models.MarkReadResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
