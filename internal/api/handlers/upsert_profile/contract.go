package upsert_profile

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/service/users/models"
)

type UserService interface {
	UpsertProfile(ctx context.Context, req *models.UpsertProfileRequest) (*models.ProfileResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
