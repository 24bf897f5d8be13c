package progress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/coursehub-server-go/internal/features/lecture"
	"github.com/mo-amir99/coursehub-server-go/pkg/apperrors"
	"github.com/mo-amir99/coursehub-server-go/pkg/logger"
	"github.com/mo-amir99/coursehub-server-go/pkg/request"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryRecorder struct {
	mu   sync.Mutex
	rows map[[2]uuid.UUID]VideoProgress
}

func newMemoryRecorder() *memoryRecorder {
	return &memoryRecorder{rows: map[[2]uuid.UUID]VideoProgress{}}
}

func (m *memoryRecorder) Save(_ context.Context, s, v uuid.UUID, p Payload) (VideoProgress, error) {
	if err := p.validate(); err != nil {
		return VideoProgress{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row := VideoProgress{StudentID: s, VideoID: v, CurrentTime: p.CurrentTime, Duration: p.Duration, IsCompleted: p.IsCompleted}
	m.rows[[2]uuid.UUID{s, v}] = row
	return row, nil
}

func (m *memoryRecorder) Get(_ context.Context, s, v uuid.UUID) (VideoProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[[2]uuid.UUID{s, v}]; ok {
		return row, nil
	}
	return VideoProgress{StudentID: s, VideoID: v}, nil
}

func (m *memoryRecorder) MarkCompleted(_ context.Context, s, v uuid.UUID) (VideoProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.rows[[2]uuid.UUID{s, v}]
	row.StudentID, row.VideoID, row.IsCompleted = s, v, true
	m.rows[[2]uuid.UUID{s, v}] = row
	return row, nil
}

func (m *memoryRecorder) CompletedVideoIDs(context.Context, uuid.UUID, uuid.UUID) ([]uuid.UUID, error) {
	return []uuid.UUID{}, nil
}

type stubGate struct{ err error }

func (g stubGate) AuthorizeVideo(_ context.Context, _ *types.Viewer, videoID uuid.UUID) (lecture.Video, error) {
	if g.err != nil {
		return lecture.Video{}, g.err
	}
	return lecture.Video{BaseModel: types.BaseModel{ID: videoID}}, nil
}

type recordingNotifier struct {
	events []string
	users  []uuid.UUID
}

func (n *recordingNotifier) NotifyUser(userID uuid.UUID, event string, _ any) {
	n.users = append(n.users, userID)
	n.events = append(n.events, event)
}

func newRouter(h *Handler, viewer *types.Viewer) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if viewer != nil {
			request.SetViewer(c, viewer)
		}
	})
	r.POST("/progress/videos/:videoId", h.Save)
	r.GET("/progress/videos/:videoId", h.Get)
	r.POST("/progress/videos/:videoId/complete", h.MarkCompleted)
	r.GET("/courses/:courseId/progress", h.CourseProgress)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestSaveAcceptsStringNumbersAndNotifies(t *testing.T) {
	viewer := &types.Viewer{ID: uuid.New(), Role: types.UserTypeStudent}
	notifier := &recordingNotifier{}
	h := NewHandler(newMemoryRecorder(), nil, stubGate{}, notifier, logger.Discard())
	r := newRouter(h, viewer)
	video := uuid.New()

	code, env := do(t, r, http.MethodPost, "/progress/videos/"+video.String(), `{"currentTime":"12.5","duration":120,"isCompleted":"false"}`)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("save status = %d %+v", code, env)
	}

	var saved VideoProgress
	if err := json.Unmarshal(env.Data, &saved); err != nil {
		t.Fatalf("decode progress: %v", err)
	}
	if saved.CurrentTime != 12.5 || saved.Duration != 120 || saved.IsCompleted {
		t.Fatalf("saved = %+v", saved)
	}
	if len(notifier.events) != 1 || notifier.users[0] != viewer.ID || notifier.events[0] != "progressUpdated" {
		t.Fatalf("notifications = %v %v", notifier.events, notifier.users)
	}

	code, env = do(t, r, http.MethodGet, "/progress/videos/"+video.String(), "")
	if code != http.StatusOK {
		t.Fatalf("get status = %d", code)
	}
	var loaded VideoProgress
	_ = json.Unmarshal(env.Data, &loaded)
	if loaded.CurrentTime != 12.5 {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestSaveRejectsNegativeTimes(t *testing.T) {
	h := NewHandler(newMemoryRecorder(), nil, stubGate{}, nil, logger.Discard())
	r := newRouter(h, &types.Viewer{ID: uuid.New(), Role: types.UserTypeStudent})

	code, env := do(t, r, http.MethodPost, "/progress/videos/"+uuid.NewString(), `{"currentTime":-3,"duration":10}`)
	if code != http.StatusBadRequest || env.Success {
		t.Fatalf("status = %d %+v", code, env)
	}
}

func TestGateDenialIsRendered(t *testing.T) {
	h := NewHandler(newMemoryRecorder(), nil, stubGate{err: apperrors.Forbidden("Please enroll in this course to access this lecture")}, nil, logger.Discard())
	r := newRouter(h, &types.Viewer{ID: uuid.New(), Role: types.UserTypeStudent})

	code, env := do(t, r, http.MethodPost, "/progress/videos/"+uuid.NewString()+"/complete", "")
	if code != http.StatusForbidden || env.Success || !strings.Contains(env.Message, "enroll") {
		t.Fatalf("status = %d %+v", code, env)
	}
}

func TestCourseProgressForGuest(t *testing.T) {
	f := newFixture()
	f.catalog.addLecture("a", 1)
	f.catalog.addLecture("b", 2)
	h := NewHandler(newMemoryRecorder(), f.agg, stubGate{}, nil, logger.Discard())
	r := newRouter(h, nil)

	code, env := do(t, r, http.MethodGet, "/courses/"+f.catalog.courseID.String()+"/progress", "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d %+v", code, env)
	}
	var got CourseProgress
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalLectures != 2 || got.ProgressPercentage != 0 || got.CompletedLectures != 0 {
		t.Fatalf("got %+v", got)
	}
}
