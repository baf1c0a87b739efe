package domain

import "time"

// UserRole роль пользователя
type UserRole string

const (
	RoleClient UserRole = "client"
	RoleBarber UserRole = "barber"
)

// IsValid returns true for known roles
func (r UserRole) IsValid() bool {
	return r == RoleClient || r == RoleBarber
}

// UserProfile профиль пользователя (клиента или мастера)
type UserProfile struct {
	ID        string
	Email     string
	Name      string
	Role      UserRole
	Phone     *string
	Address   *string // Только для мастеров
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsProvider returns true if the user offers services
func (u *UserProfile) IsProvider() bool {
	return u.Role == RoleBarber
}
