package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
)

const (
	msgMissingAuthorization = "требуется авторизация"
	msgInvalidAuthorization = "некорректный заголовок Authorization"
	msgInvalidToken         = "недействительный токен"
)

var errEmptySubject = errors.New("token has no subject")

// Claims полезная нагрузка токена провайдера идентификации
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Auth проверяет Bearer JWT (HS256) и кладёт Identity в контекст запроса
type Auth struct {
	secret []byte
	leeway time.Duration
	logger Logger
}

// NewAuth создает middleware аутентификации
func NewAuth(secret string, leeway time.Duration, logger Logger) *Auth {
	return &Auth{
		secret: []byte(secret),
		leeway: leeway,
		logger: logger,
	}
}

// Middleware возвращает http middleware
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			handlers.RespondUnauthorized(w, msgMissingAuthorization)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			handlers.RespondUnauthorized(w, msgInvalidAuthorization)
			return
		}

		id, err := a.Verify(parts[1])
		if err != nil {
			a.logger.Warn("Auth: %s %s - token rejected: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(identity.WithIdentity(r.Context(), id)))
	})
}

// Verify проверяет подпись и срок действия токена
func (a *Auth) Verify(token string) (identity.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(a.leeway),
	)
	if err != nil {
		return identity.Identity{}, err
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return identity.Identity{}, errEmptySubject
	}

	return identity.Identity{
		UserID:      claims.Subject,
		DisplayName: strings.TrimSpace(claims.Name),
	}, nil
}
