package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTokenService accepts exactly one token string.
type stubTokenService struct {
	token  string
	userID uuid.UUID
	role   entity.Role
}

func (s *stubTokenService) SignAccessToken(userID uuid.UUID, role entity.Role) (string, error) {
	return s.token, nil
}

func (s *stubTokenService) ValidateAccessToken(tokenString string) (*service.AccessClaims, error) {
	if tokenString != s.token {
		return nil, errors.New("token signature invalid")
	}

	return &service.AccessClaims{UserID: s.userID, Role: s.role}, nil
}

func (s *stubTokenService) AccessTokenTTL() time.Duration {
	return 15 * time.Minute
}

func newAuthTestContext(t *testing.T, authHeader string) echo.Context {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	return echo.New().NewContext(req, httptest.NewRecorder())
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthenticateSetsUserAndRole(t *testing.T) {
	userID := uuid.New()
	m := NewAuthMiddleware(&stubTokenService{token: "good-token", userID: userID, role: entity.RoleUser})
	c := newAuthTestContext(t, "Bearer good-token")

	err := m.Authenticate(okHandler)(c)
	require.NoError(t, err)

	gotID, err := UserID(c)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, entity.RoleUser, c.Get(ContextKeyRole))
}

func TestAuthenticateRejectsMissingAndMalformedHeaders(t *testing.T) {
	m := NewAuthMiddleware(&stubTokenService{token: "good-token"})

	for _, header := range []string{"", "good-token", "Basic good-token"} {
		err := m.Authenticate(okHandler)(newAuthTestContext(t, header))
		assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	}
}

func TestAuthenticateRejectsInvalidToken(t *testing.T) {
	m := NewAuthMiddleware(&stubTokenService{token: "good-token"})

	err := m.Authenticate(okHandler)(newAuthTestContext(t, "Bearer forged-token"))
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestRequireRole(t *testing.T) {
	adminID := uuid.New()
	m := NewAuthMiddleware(&stubTokenService{token: "admin-token", userID: adminID, role: entity.RoleAdmin})
	guarded := m.Authenticate(m.RequireRole(entity.RoleAdmin)(okHandler))

	require.NoError(t, guarded(newAuthTestContext(t, "Bearer admin-token")))

	userSvc := &stubTokenService{token: "user-token", userID: uuid.New(), role: entity.RoleUser}
	guarded = NewAuthMiddleware(userSvc).Authenticate(NewAuthMiddleware(userSvc).RequireRole(entity.RoleAdmin)(okHandler))

	err := guarded(newAuthTestContext(t, "Bearer user-token"))
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestUserIDMissingFromContext(t *testing.T) {
	_, err := UserID(newAuthTestContext(t, ""))
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
