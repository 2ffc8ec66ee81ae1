package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gravyapp/gravy/internal/config"
	"github.com/gravyapp/gravy/internal/domain"
	"github.com/gravyapp/gravy/internal/dto"
	"github.com/gravyapp/gravy/internal/repository"
	"github.com/gravyapp/gravy/internal/service"
)

// AuthHandler handles signup, login, logout and the current-user endpoint
type AuthHandler struct {
	authService service.AuthService
	session     config.SessionConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, session config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		session:     session,
	}
}

// Signup handles local account creation. Validation failures (short
// password, mismatched confirmation, duplicate email) are specific;
// they guide input rather than guard secrets. Signup does not log in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	user, err := h.authService.SignupLocal(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, dto.ErrorResponse{
				Error:   "Conflict",
				Message: "An account with this email already exists",
			})
		case errors.Is(err, service.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "Internal server error",
				Message: "Could not create account",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, userResponse(user))
}

// Login handles local email/password login. Failures are deliberately
// indistinguishable: the response never says whether the email exists.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	outcome, err := h.authService.Attempt(c.Request.Context(), service.LocalCredential{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Could not authenticate",
		})
		return
	}

	h.setSessionCookie(c, outcome.SessionToken)

	c.JSON(http.StatusOK, dto.LoginResponse{User: userResponse(outcome.User)})
}

// Logout destroys the current session and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	token := SessionToken(c)

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: "Could not log out",
		})
		return
	}

	h.clearSessionCookie(c)

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Logged out successfully",
	})
}

// Me returns the currently authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Not authenticated",
		})
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(
		h.session.CookieName,
		token,
		int(h.session.TTL.Duration.Seconds()),
		"/",
		h.session.CookieDomain,
		h.session.CookieSecure,
		true,
	)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.session.CookieName, "", -1, "/", h.session.CookieDomain, h.session.CookieSecure, true)
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		ImageURL:  user.ImageURL,
		Online:    user.Online,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}
