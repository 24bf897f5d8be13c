package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/coursehub-server-go/internal/utils/jwt"
	"github.com/mo-amir99/coursehub-server-go/pkg/request"
	"github.com/mo-amir99/coursehub-server-go/pkg/response"
	"github.com/mo-amir99/coursehub-server-go/pkg/session"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

// Accounts resolves an account id to the current identity. ok is false for unknown
// or deactivated accounts.
type Accounts interface {
	Lookup(ctx context.Context, id uuid.UUID) (*types.Viewer, bool, error)
}

// Authenticator resolves the caller from a bearer token or the session cookie.
type Authenticator struct {
	accounts  Accounts
	sessions  *session.Manager
	jwtSecret string
	logger    *slog.Logger
}

// NewAuthenticator builds the authentication middleware set.
func NewAuthenticator(accounts Accounts, sessions *session.Manager, jwtSecret string, logger *slog.Logger) *Authenticator {
	return &Authenticator{accounts: accounts, sessions: sessions, jwtSecret: jwtSecret, logger: logger}
}

type authFailure struct {
	status  int
	message string
	err     error
}

// OptionalAuth attaches the viewer when credentials are present and valid, and lets
// guests through. Presented but invalid credentials are rejected.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, failure := a.resolve(c)
		if failure != nil {
			response.ErrorWithLog(a.logger, c, failure.status, failure.message, failure.err)
			c.Abort()
			return
		}
		if viewer != nil {
			request.SetViewer(c, viewer)
		}
		c.Next()
	}
}

// RequireAuth rejects guests with 401.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, failure := a.resolve(c)
		if failure == nil && viewer == nil {
			failure = &authFailure{status: http.StatusUnauthorized, message: "No token provided"}
		}
		if failure != nil {
			response.ErrorWithLog(a.logger, c, failure.status, failure.message, failure.err)
			c.Abort()
			return
		}
		request.SetViewer(c, viewer)
		c.Next()
	}
}

// AuthorizeRoles checks the viewer has one of the roles. Admins always pass.
func (a *Authenticator) AuthorizeRoles(roles ...types.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := request.Viewer(c)
		if viewer == nil {
			response.ErrorWithLog(a.logger, c, http.StatusUnauthorized, "User not authenticated", nil)
			c.Abort()
			return
		}
		if viewer.IsAdmin() {
			c.Next()
			return
		}
		for _, role := range roles {
			if viewer.Role == role {
				c.Next()
				return
			}
		}

		response.ErrorWithLog(a.logger, c, http.StatusForbidden, "Access denied: Insufficient permissions.", nil)
		c.Abort()
	}
}

// RequireRoles combines authentication and a role check.
func (a *Authenticator) RequireRoles(roles ...types.UserType) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		a.RequireAuth(),
		a.AuthorizeRoles(roles...),
	}
}

// resolve returns (nil, nil) for guests.
func (a *Authenticator) resolve(c *gin.Context) (*types.Viewer, *authFailure) {
	if viewer := request.Viewer(c); viewer != nil {
		return viewer, nil
	}

	accountID, failure := a.credentials(c)
	if failure != nil || accountID == uuid.Nil {
		return nil, failure
	}

	viewer, ok, err := a.accounts.Lookup(c.Request.Context(), accountID)
	if err != nil {
		return nil, &authFailure{status: http.StatusInternalServerError, message: "Internal Server Error", err: err}
	}
	if !ok {
		return nil, &authFailure{status: http.StatusUnauthorized, message: "Account not found or inactive"}
	}
	return viewer, nil
}

// credentials prefers the Authorization header over the session cookie.
func (a *Authenticator) credentials(c *gin.Context) (uuid.UUID, *authFailure) {
	header := c.GetHeader("Authorization")
	if header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return uuid.Nil, &authFailure{status: http.StatusUnauthorized, message: "Invalid authorization header"}
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			return uuid.Nil, &authFailure{status: http.StatusUnauthorized, message: "No token provided"}
		}

		claims, err := jwt.VerifyToken(token, a.jwtSecret)
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				message = "Token expired"
			}
			return uuid.Nil, &authFailure{status: http.StatusUnauthorized, message: message, err: err}
		}
		return claims.UserID, nil
	}

	if a.sessions != nil {
		if identity, ok := a.sessions.Identity(c.Request); ok {
			return identity.UserID, nil
		}
	}
	return uuid.Nil, nil
}
