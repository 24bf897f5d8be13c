package feedback

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mo-amir99/coursehub-server-go/pkg/logger"
	"github.com/mo-amir99/coursehub-server-go/pkg/request"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandlerStatusCodes(t *testing.T) {
	svc, _ := newService()
	h := NewHandler(svc, logger.Discard())
	student := &types.Viewer{ID: uuid.New(), Role: types.UserTypeStudent}

	r := gin.New()
	r.Use(func(c *gin.Context) { request.SetViewer(c, student) })
	r.POST("/courses/:courseId/feedback", h.Add)
	r.GET("/courses/:courseId/feedback/stats", h.Stats)

	courseID := uuid.NewString()
	post := func(body string) (int, map[string]any) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/courses/"+courseID+"/feedback", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(rec, req)
		var env map[string]any
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
		return rec.Code, env
	}

	if code, env := post(`{"rating":5,"comment":"short"}`); code != http.StatusBadRequest || env["success"] != false {
		t.Fatalf("short comment = %d %v", code, env)
	}
	if code, _ := post(`{"rating":5,"comment":"` + goodComment + `"}`); code != http.StatusCreated {
		t.Fatalf("first review = %d", code)
	}
	if code, env := post(`{"rating":2,"comment":"` + goodComment + `"}`); code != http.StatusConflict || env["message"] != "You have already reviewed this course." {
		t.Fatalf("duplicate = %d %v", code, env)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/"+courseID+"/feedback/stats", nil))
	var env struct {
		Data RatingStats `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.TotalReviews != 1 || env.Data.AverageRating != 5 || env.Data.Histogram[5] != 1 {
		t.Fatalf("stats = %+v", env.Data)
	}
}
