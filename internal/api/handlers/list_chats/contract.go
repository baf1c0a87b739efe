package list_chats

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/service/chats/models"
)

type ChatService interface {
	ListChats(ctx context.Context, userID string) (*models.ChatListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
