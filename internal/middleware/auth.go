package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RoleAdmin grants access to catalogue and price management routes
const RoleAdmin = "ADMIN"

const devSecret = "default-secret-change-in-production"

// JWTClaims represents the JWT token claims
type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Auth issues and validates HMAC-signed tokens
type Auth struct {
	secret []byte
}

// NewAuth creates an Auth; an empty secret falls back to a development secret
func NewAuth(secret string) *Auth {
	if secret == "" {
		secret = devSecret
	}
	return &Auth{secret: []byte(secret)}
}

// GenerateJWT signs a token for subject with role, valid for ttl
func (a *Auth) GenerateJWT(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Middleware validates the bearer token and stores subject and role in the context
func (a *Auth) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication token")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.secret, nil
		})
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token claims")
		}

		c.Set("subject", claims.Subject)
		c.Set("role", claims.Role)
		c.Set("token_id", claims.ID)

		return next(c)
	}
}

// AdminMiddleware checks if the authenticated caller has the ADMIN role
func AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, ok := c.Get("role").(string)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Role not found in context")
		}

		if role != RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
		}

		return next(c)
	}
}

// GetSubject extracts the token subject from echo context
func GetSubject(c echo.Context) (string, error) {
	subject, ok := c.Get("subject").(string)
	if !ok {
		return "", fmt.Errorf("subject not found in context")
	}
	return subject, nil
}
