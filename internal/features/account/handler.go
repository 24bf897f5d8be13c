package account

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/coursehub-server-go/pkg/request"
	"github.com/mo-amir99/coursehub-server-go/pkg/response"
	"github.com/mo-amir99/coursehub-server-go/pkg/session"
)

// Handler processes authentication HTTP requests.
type Handler struct {
	service  *Service
	sessions *session.Manager
	google   *GoogleSignIn
	logger   *slog.Logger
}

// NewHandler constructs an auth handler.
func NewHandler(service *Service, sessions *session.Manager, google *GoogleSignIn, logger *slog.Logger) *Handler {
	return &Handler{service: service, sessions: sessions, google: google, logger: logger}
}

// Register creates a student account.
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		FullName string `json:"fullName" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid registration payload", err)
		return
	}

	result, err := h.service.Register(c.Request.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err, "registration failed")
		return
	}

	h.startSession(c, result.Account)
	response.Created(c, result, "Registration successful")
}

// Login authenticates with email and password.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid login payload", err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err, "login failed")
		return
	}

	h.startSession(c, result.Account)
	response.OK(c, result, "Login successful")
}

// Logout clears the session cookie. Bearer tokens expire on their own.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Writer, c.Request); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "logout failed", err)
		return
	}
	response.OK(c, nil, "Logged out")
}

// Me returns the signed-in account.
func (h *Handler) Me(c *gin.Context) {
	acc, err := h.service.Me(c.Request.Context(), request.Viewer(c).ID)
	if err != nil {
		h.respondError(c, err, "failed to load account")
		return
	}

	response.NoStore(c)
	response.OK(c, acc, "")
}

// GoogleStart redirects to the Google consent screen.
func (h *Handler) GoogleStart(c *gin.Context) {
	url, err := h.google.AuthURL(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "google sign-in failed")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback completes the OAuth flow and signs the account in.
func (h *Handler) GoogleCallback(c *gin.Context) {
	ctx := c.Request.Context()

	profile, err := h.google.Profile(ctx, c.Query("state"), c.Query("code"))
	if err != nil {
		h.respondError(c, err, "google sign-in failed")
		return
	}

	result, err := h.service.SignInWithGoogle(ctx, profile)
	if err != nil {
		h.respondError(c, err, "google sign-in failed")
		return
	}

	h.startSession(c, result.Account)
	response.OK(c, result, "Login successful")
}

func (h *Handler) startSession(c *gin.Context, acc Account) {
	identity := session.Identity{UserID: acc.ID, Role: acc.Role}
	if err := h.sessions.Login(c.Writer, c.Request, identity); err != nil {
		h.logger.Warn("failed to write session cookie",
			slog.String("accountId", acc.ID.String()),
			slog.String("error", err.Error()))
	}
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, ErrMissingFields), errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrWeakPassword):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, ErrEmailTaken):
		status = http.StatusConflict
		message = "Email is already registered."
	case errors.Is(err, ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "Invalid email or password."
	case errors.Is(err, ErrInvalidState):
		status = http.StatusUnauthorized
		message = "Sign-in session expired, please try again."
	case errors.Is(err, ErrInactiveAccount):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, ErrAccountNotFound):
		status = http.StatusNotFound
		message = "Account not found."
	case errors.Is(err, ErrGoogleDisabled):
		status = http.StatusNotImplemented
		message = "Google sign-in is not available."
	}

	response.ErrorWithLog(h.logger, c, status, message, err)
}
