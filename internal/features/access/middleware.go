package access

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/coursehub-server-go/internal/features/lecture"
	"github.com/mo-amir99/coursehub-server-go/pkg/apperrors"
	"github.com/mo-amir99/coursehub-server-go/pkg/request"
	"github.com/mo-amir99/coursehub-server-go/pkg/response"
)

const lectureKey = "accessLecture"

// RequireLectureAccess aborts with 401 or 403 unless the viewer may watch the lecture
// named by the path parameter. The resolved lecture is available via LectureFrom.
func RequireLectureAccess(gate *Gate, param string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		lectureID, err := request.ParamUUID(c, param)
		if err != nil {
			response.ErrorWithLog(logger, c, http.StatusBadRequest, "invalid lecture id", err)
			c.Abort()
			return
		}

		l, decision, err := gate.checkLecture(c.Request.Context(), request.Viewer(c), lectureID)
		if err != nil {
			respondLookupError(logger, c, err)
			c.Abort()
			return
		}
		if !decision.Allowed() {
			response.FromError(logger, c, decision.Err())
			c.Abort()
			return
		}

		c.Set(lectureKey, l)
		c.Next()
	}
}

// LectureFrom returns the lecture resolved by RequireLectureAccess.
func LectureFrom(c *gin.Context) (lecture.Lecture, bool) {
	value, ok := c.Get(lectureKey)
	if !ok {
		return lecture.Lecture{}, false
	}
	l, ok := value.(lecture.Lecture)
	return l, ok
}

func respondLookupError(logger *slog.Logger, c *gin.Context, err error) {
	if errors.Is(err, lecture.ErrLectureNotFound) {
		response.FromError(logger, c, apperrors.NotFound("Lecture not found.", err))
		return
	}
	response.ErrorWithLog(logger, c, http.StatusInternalServerError, "failed to check lecture access", err)
}
