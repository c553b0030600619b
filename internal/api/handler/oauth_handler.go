package handler

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/feedbackbox/feedback-api/internal/api/metrics"
	appmw "github.com/feedbackbox/feedback-api/internal/api/middleware"
	"github.com/feedbackbox/feedback-api/internal/core/ports"
	"github.com/feedbackbox/feedback-api/internal/infrastructure/oauth"
)

// OAuthHandler drives the federated login flow: a redirect to the provider's
// consent page, then a callback that links the returned profile to a local
// identity and issues a token on the same path password login uses.
type OAuthHandler struct {
	providers   *oauth.Registry
	states      ports.StateStore
	linker      ports.IdentityLinker
	tokens      ports.TokenIssuer
	frontendURL string
	cookieTTL   time.Duration
	production  bool
	logger      zerolog.Logger
}

func NewOAuthHandler(providers *oauth.Registry, states ports.StateStore, linker ports.IdentityLinker, tokens ports.TokenIssuer, frontendURL string, cookieTTL time.Duration, production bool, logger zerolog.Logger) *OAuthHandler {
	return &OAuthHandler{
		providers:   providers,
		states:      states,
		linker:      linker,
		tokens:      tokens,
		frontendURL: frontendURL,
		cookieTTL:   cookieTTL,
		production:  production,
		logger:      logger,
	}
}

// Begin redirects to the provider's consent URL with a fresh one-shot state.
//
// @Summary      Start federated login
// @Tags         auth
// @Param        provider  path  string  true  "Provider name (google, github)"
// @Success      302
// @Failure      404  {object}  map[string]any
// @Router       /api/auth/{provider} [get]
func (h *OAuthHandler) Begin(c echo.Context) error {
	provider, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	state, err := randomState()
	if err != nil {
		return err
	}
	if err := h.states.Save(c.Request().Context(), state); err != nil {
		return err
	}

	return c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// Callback validates state, exchanges the code, links the profile, and
// finishes exactly like a password login: token plus cookie. The browser is
// redirected back to the frontend with the token in the fragment-free query
// so the SPA can store it.
//
// @Summary      Federated login callback
// @Tags         auth
// @Param        provider  path   string  true  "Provider name"
// @Param        code      query  string  true  "Authorization code"
// @Param        state     query  string  true  "State nonce"
// @Success      302
// @Failure      401  {object}  map[string]any
// @Router       /api/auth/{provider}/callback [get]
func (h *OAuthHandler) Callback(c echo.Context) error {
	name := c.Param("provider")
	provider, err := h.providers.Get(name)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	ok, err := h.states.Consume(c.Request().Context(), c.QueryParam("state"))
	if err != nil {
		return err
	}
	if !ok {
		metrics.OAuthLoginsTotal.WithLabelValues(name, "bad_state").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid oauth state")
	}

	code := c.QueryParam("code")
	if code == "" {
		metrics.OAuthLoginsTotal.WithLabelValues(name, "exchange_failed").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization code")
	}

	profile, err := provider.Exchange(c.Request().Context(), code)
	if err != nil {
		metrics.OAuthLoginsTotal.WithLabelValues(name, "exchange_failed").Inc()
		h.logger.Warn().Err(err).Str("provider", name).Msg("oauth code exchange failed")
		return echo.NewHTTPError(http.StatusUnauthorized, "provider login failed")
	}

	user, err := h.linker.Link(c.Request().Context(), provider.Name(), profile)
	if err != nil {
		metrics.OAuthLoginsTotal.WithLabelValues(name, "link_failed").Inc()
		return err
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		return err
	}

	metrics.OAuthLoginsTotal.WithLabelValues(name, "success").Inc()
	c.SetCookie(&http.Cookie{
		Name:     appmw.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookieTTL),
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteLaxMode,
	})

	redirect := fmt.Sprintf("%s/auth/callback?token=%s", h.frontendURL, url.QueryEscape(token))
	return c.Redirect(http.StatusFound, redirect)
}

func randomState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
