package models

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// Request модели

// DayRequest рабочее окно на день недели
type DayRequest struct {
	IsEnabled bool   `json:"isEnabled"`
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "18:00"
}

// UpsertScheduleRequest запрос на сохранение шаблона расписания.
// Ключи Days: "sunday" ... "saturday"; пропущенные дни выключены.
type UpsertScheduleRequest struct {
	ProviderID          string                `json:"-"`
	Days                map[string]DayRequest `json:"schedule"`
	SlotDurationMinutes int                   `json:"slotDuration"`
}

// Response модели

// DayResponse рабочее окно на день недели
type DayResponse struct {
	IsEnabled bool   `json:"isEnabled"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ScheduleResponse шаблон расписания мастера
type ScheduleResponse struct {
	ProviderID          string                 `json:"providerId"`
	Days                map[string]DayResponse `json:"schedule"`
	SlotDurationMinutes int                    `json:"slotDuration"`
	CreatedAt           time.Time              `json:"createdAt"`
	UpdatedAt           time.Time              `json:"updatedAt"`
}

// FromDomainTemplate конвертирует domain модель в DTO
func FromDomainTemplate(t *domain.ScheduleTemplate) *ScheduleResponse {
	if t == nil {
		return nil
	}

	days := make(map[string]DayResponse, domain.DaysInWeek)
	for _, wd := range domain.AllWeekdays {
		d := t.Days[wd]
		days[wd.String()] = DayResponse{
			IsEnabled: d.Enabled,
			StartTime: d.StartTime.String(),
			EndTime:   d.EndTime.String(),
		}
	}

	return &ScheduleResponse{
		ProviderID:          t.ProviderID,
		Days:                days,
		SlotDurationMinutes: t.SlotDurationMinutes,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}
