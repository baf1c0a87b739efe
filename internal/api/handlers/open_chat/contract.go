package open_chat

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/service/chats/models"
)

type ChatService interface {
	OpenChat(ctx context.Context, req *models.OpenChatRequest) (*models.ChatResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
