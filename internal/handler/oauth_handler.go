package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravyapp/gravy/internal/config"
	"github.com/gravyapp/gravy/internal/dto"
	"github.com/gravyapp/gravy/internal/provider"
	"github.com/gravyapp/gravy/internal/service"
)

const (
	stateCookieName   = "oauth_state"
	stateCookieMaxAge = 600
)

// OAuthHandler drives the redirect/callback halves of a provider login.
// The exchange mechanics live in internal/provider; this handler owns the
// CSRF state cookie and the session cookie.
type OAuthHandler struct {
	providers   provider.Registry
	authService service.AuthService
	session     config.SessionConfig
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(providers provider.Registry, authService service.AuthService, session config.SessionConfig) *OAuthHandler {
	return &OAuthHandler{
		providers:   providers,
		authService: authService,
		session:     session,
	}
}

// Redirect sends the user to the provider's authorization page with a
// fresh state value pinned in a short-lived cookie.
func (h *OAuthHandler) Redirect(c *gin.Context) {
	p, ok := h.providers[c.Param("provider")]
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not found",
			Message: "Unknown provider",
		})
		return
	}

	state := uuid.New().String()
	c.SetCookie(stateCookieName, state, stateCookieMaxAge, "/", h.session.CookieDomain, h.session.CookieSecure, true)

	c.Redirect(http.StatusFound, p.AuthURL(state))
}

// Callback verifies the state, runs the code-for-profile exchange, and
// hands the normalized profile to the strategy router. Every failure past
// validation collapses to the same generic response.
func (h *OAuthHandler) Callback(c *gin.Context) {
	p, ok := h.providers[c.Param("provider")]
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not found",
			Message: "Unknown provider",
		})
		return
	}

	state := c.Query("state")
	cookieState, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || state != cookieState {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad request",
			Message: "Invalid state",
		})
		return
	}
	c.SetCookie(stateCookieName, "", -1, "/", h.session.CookieDomain, h.session.CookieSecure, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad request",
			Message: "Missing authorization code",
		})
		return
	}

	profile, err := p.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Could not authenticate",
		})
		return
	}

	outcome, err := h.authService.Attempt(c.Request.Context(), service.ProviderCredential{
		Provider: p.Name(),
		Profile:  *profile,
	})
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Could not authenticate",
		})
		return
	}

	c.SetCookie(
		h.session.CookieName,
		outcome.SessionToken,
		int(h.session.TTL.Duration.Seconds()),
		"/",
		h.session.CookieDomain,
		h.session.CookieSecure,
		true,
	)

	c.Redirect(http.StatusFound, "/")
}
