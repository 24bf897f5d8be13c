package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/coursehub-server-go/pkg/apperrors"
)

// Envelope is the body shape of every API response, success or not.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      interface{} `json:"error,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
}

// Success writes a success response with optional message and data.
func Success(c *gin.Context, status int, data interface{}, message string, pagination interface{}) {
	c.JSON(status, Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	})
}

// OK is Success with status 200 and no pagination.
func OK(c *gin.Context, data interface{}, message string) {
	Success(c, http.StatusOK, data, message, nil)
}

// Created is a convenience helper for POST 201 responses.
func Created(c *gin.Context, data interface{}, message string) {
	Success(c, http.StatusCreated, data, message, nil)
}

// NoStore marks the response as per-viewer state that must not be cached.
func NoStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// Error writes a failure envelope. Internal error details are never serialized.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

// ErrorWithLog writes a failure envelope and logs the cause.
func ErrorWithLog(logger *slog.Logger, c *gin.Context, status int, message string, err error) {
	if logger != nil && err != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, message,
			slog.Int("status", status),
			slog.String("path", c.FullPath()),
			slog.String("requestId", c.GetString("requestId")),
			slog.String("error", err.Error()),
		)
	}

	Error(c, status, message)
}

// ErrorWithData writes a failure envelope that still carries a payload.
func ErrorWithData(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: false, Message: message, Data: data})
}

// FromError renders an AppError with its own status and message; anything else is a 500.
// Server errors and errors carrying a cause are logged.
func FromError(logger *slog.Logger, c *gin.Context, err error) {
	if err == nil {
		return
	}
	appErr := apperrors.Wrap(err, "Internal server error", http.StatusInternalServerError, apperrors.ErrInternal)
	if logger != nil && (appErr.StatusCode() >= http.StatusInternalServerError || appErr.Unwrap() != nil) {
		level := slog.LevelWarn
		if appErr.StatusCode() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, appErr.Message(),
			slog.Int("status", appErr.StatusCode()),
			slog.String("path", c.FullPath()),
			slog.String("requestId", c.GetString("requestId")),
			slog.String("error", err.Error()),
		)
	}
	c.JSON(appErr.StatusCode(), Envelope{
		Success: false,
		Message: appErr.Message(),
		Error:   appErr.Code(),
	})
}
