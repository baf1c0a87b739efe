package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/psqlbuilder"
)

// DBExecutor интерфейс выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий шаблонов расписания мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает шаблон при первом сохранении и полностью заменяет его при последующих
func (r *Repository) Upsert(ctx context.Context, template *domain.ScheduleTemplate) (*domain.ScheduleTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	days, err := encodeDays(template.Days)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - encode days: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("schedule_templates").
		Columns("provider_id", "days", "slot_duration_minutes").
		Values(template.ProviderID, days, template.SlotDurationMinutes).
		Suffix(`ON CONFLICT (provider_id) DO UPDATE SET
			days = EXCLUDED.days,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	template.CreatedAt = createdAt.Time
	template.UpdatedAt = updatedAt.Time

	return template, nil
}

// GetByProviderID получает шаблон расписания мастера
func (r *Repository) GetByProviderID(ctx context.Context, providerID string) (*domain.ScheduleTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"provider_id",
		"days",
		"slot_duration_minutes",
		"created_at",
		"updated_at",
	).
		From("schedule_templates").
		Where(squirrel.Eq{"provider_id": providerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - build select query: %v", ErrBuildQuery, err)
	}

	var template domain.ScheduleTemplate
	var days []byte
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&template.ProviderID,
		&days,
		&template.SlotDurationMinutes,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - scan template: %v", ErrScanRow, err)
	}

	template.Days, err = decodeDays(days)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderID - decode days: %v", ErrScanRow, err)
	}
	template.CreatedAt = createdAt.Time
	template.UpdatedAt = updatedAt.Time

	return &template, nil
}
