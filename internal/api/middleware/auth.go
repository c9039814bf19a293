package middleware

import (
	"errors"
	"slices"
	"strings"

	"github.com/Behyna/gem-services/internal/config"
	"github.com/Behyna/gem-services/internal/constants"
	"github.com/Behyna/gem-services/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	bearerPrefix = "Bearer "
	userIDKey    = "user_id"
	rolesKey     = "roles"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingRole  = errors.New("missing required role")
)

type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Auth verifies the HS256 bearer token and stores its subject as the caller's
// user id. Failures surface as UNAUTHENTICATED through the error handler.
func Auth(cfg config.Auth, logger *zap.Logger) fiber.Handler {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}
	parser := jwt.NewParser(options...)
	secret := []byte(cfg.JWTSecret)

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return service.NewServiceError(constants.ErrCodeUnauthenticated, ErrMissingToken)
		}

		claims := &Claims{}
		token, err := parser.ParseWithClaims(strings.TrimPrefix(header, bearerPrefix), claims,
			func(*jwt.Token) (interface{}, error) { return secret, nil })
		if err != nil || !token.Valid || claims.Subject == "" {
			logger.Debug("Rejected token", zap.Error(err), zap.String("path", c.Path()))
			return service.NewServiceError(constants.ErrCodeUnauthenticated, errors.Join(ErrInvalidToken, err))
		}

		c.Locals(userIDKey, claims.Subject)
		c.Locals(rolesKey, claims.Roles)
		return c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, _ := c.Locals(rolesKey).([]string)
		if !slices.Contains(roles, role) {
			return service.NewServiceError(constants.ErrCodeForbidden, ErrMissingRole)
		}
		return c.Next()
	}
}

func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
