package identity

import "context"

type ctxKey struct{}

// Identity аутентифицированный пользователь запроса
type Identity struct {
	UserID      string
	DisplayName string
}

// WithIdentity кладёт пользователя в контекст
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext достаёт пользователя из контекста
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.UserID == "" {
		return Identity{}, false
	}
	return id, true
}
