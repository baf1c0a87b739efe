package user

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

var userColumns = []string{
	"id",
	"email",
	"name",
	"role",
	"phone",
	"address",
	"created_at",
	"updated_at",
}

// Repository репозиторий профилей пользователей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория пользователей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает или обновляет профиль
func (r *Repository) Upsert(ctx context.Context, profile *domain.UserProfile) (*domain.UserProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("users").
		Columns("id", "email", "name", "role", "phone", "address").
		Values(profile.ID, profile.Email, profile.Name, profile.Role, profile.Phone, profile.Address).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
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

	profile.CreatedAt = createdAt.Time
	profile.UpdatedAt = updatedAt.Time
	return profile, nil
}

// GetByID получает профиль по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	profile, err := scanUser(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan user: %v", ErrScanRow, err)
	}
	return profile, nil
}

// ListByRole получает пользователей с указанной ролью, отсортированных по имени
func (r *Repository) ListByRole(ctx context.Context, role domain.UserRole) ([]*domain.UserProfile, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"role": role}).
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByRole - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByRole - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	users := make([]*domain.UserProfile, 0)
	for rows.Next() {
		profile, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByRole - scan row: %v", ErrScanRow, err)
		}
		users = append(users, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByRole - rows error: %v", ErrScanRow, err)
	}
	return users, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	var phone, address sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&profile.ID,
		&profile.Email,
		&profile.Name,
		&profile.Role,
		&phone,
		&address,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		profile.Phone = &phone.String
	}
	if address.Valid {
		profile.Address = &address.String
	}
	profile.CreatedAt = createdAt.Time
	profile.UpdatedAt = updatedAt.Time
	return &profile, nil
}
