package access

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/coursehub-server-go/pkg/request"
	"github.com/mo-amir99/coursehub-server-go/pkg/response"
)

// Handler answers access queries without serving content.
type Handler struct {
	gate   *Gate
	logger *slog.Logger
}

// NewHandler constructs an access handler.
func NewHandler(gate *Gate, logger *slog.Logger) *Handler {
	return &Handler{gate: gate, logger: logger}
}

// Result is the body of an access query.
type Result struct {
	LectureID uuid.UUID `json:"lectureId"`
	Allowed   bool      `json:"allowed"`
	Decision  string    `json:"decision"`
	Message   string    `json:"message,omitempty"`
}

// Check reports whether the caller may open a lecture.
func (h *Handler) Check(c *gin.Context) {
	lectureID, err := request.ParamUUID(c, "lectureId")
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid lecture id", err)
		return
	}

	decision, err := h.gate.CanAccessLecture(c.Request.Context(), request.Viewer(c), lectureID)
	if err != nil {
		respondLookupError(h.logger, c, err)
		return
	}

	result := Result{LectureID: lectureID, Allowed: decision.Allowed(), Decision: decision.String()}
	switch decision {
	case DenyLogin:
		result.Message = MessageLogin
	case DenyEnroll:
		result.Message = MessageEnroll
	}

	response.NoStore(c)
	response.OK(c, result, "")
}
