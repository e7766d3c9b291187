package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveAdmin(t *testing.T, auth *Auth, header string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/admin", func(c echo.Context) error {
		subject, err := GetSubject(c)
		require.NoError(t, err)
		return c.String(http.StatusOK, subject)
	}, auth.Middleware, AdminMiddleware)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuth_AdminToken(t *testing.T) {
	auth := NewAuth("test-secret")

	token, err := auth.GenerateJWT("ops", RoleAdmin, time.Hour)
	require.NoError(t, err)

	rec := serveAdmin(t, auth, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops", rec.Body.String())
}

func TestAuth_Rejections(t *testing.T) {
	auth := NewAuth("test-secret")

	userToken, err := auth.GenerateJWT("someone", "USER", time.Hour)
	require.NoError(t, err)
	expired, err := auth.GenerateJWT("ops", RoleAdmin, -time.Minute)
	require.NoError(t, err)
	foreign, err := NewAuth("other-secret").GenerateJWT("ops", RoleAdmin, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + userToken, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"not admin", "Bearer " + userToken, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serveAdmin(t, auth, tt.header).Code)
		})
	}
}
