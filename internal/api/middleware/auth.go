package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/feedbackbox/feedback-api/internal/api/metrics"
	"github.com/feedbackbox/feedback-api/internal/core/domain"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
	"github.com/feedbackbox/feedback-api/internal/core/service"
)

// TokenCookie is the cookie checked when no Authorization header is present.
const TokenCookie = "jwt"

const userContextKey = "current_user"

// UserLoader is the slice of the user repository session resolution needs.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// SessionResolver resolves a bearer token (header or cookie) to a loaded
// identity. The Required and Optional middlewares share its logic.
type SessionResolver struct {
	tokens ports.TokenVerifier
	users  UserLoader
	logger zerolog.Logger
}

func NewSessionResolver(tokens ports.TokenVerifier, users UserLoader, logger zerolog.Logger) *SessionResolver {
	return &SessionResolver{tokens: tokens, users: users, logger: logger}
}

// Required extracts and verifies the token, loads the identity, and attaches
// it to the request context. Every failure mode responds 401 with the same
// client-visible message; the sub-cause stays in the debug log.
func (s *SessionResolver) Required() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := s.resolve(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// Optional runs the same resolution but swallows every failure; the request
// proceeds without an attached identity.
func (s *SessionResolver) Optional() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, err := s.resolve(c); err == nil {
				c.Set(userContextKey, user)
			}
			return next(c)
		}
	}
}

func (s *SessionResolver) resolve(c echo.Context) (*domain.User, error) {
	token := extractToken(c)
	if token == "" {
		return nil, errors.New("no token")
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) {
			metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
		} else {
			metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
		}
		s.logger.Debug().Err(err).Msg("token verification failed")
		return nil, err
	}

	user, err := s.users.FindByID(c.Request().Context(), userID)
	if err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues("user_gone").Inc()
		s.logger.Debug().Err(err).Str("user_id", userID).Msg("token subject no longer exists")
		return nil, err
	}

	metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
	return user, nil
}

// extractToken prefers the Authorization header and falls back to the cookie
// set at login.
func extractToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	cookie, err := c.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// CurrentUser returns the identity attached by Required or Optional.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(userContextKey).(*domain.User)
	return user, ok && user != nil
}
