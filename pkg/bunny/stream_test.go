package bunny

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mo-amir99/coursehub-server-go/pkg/config"
)

func TestSignedPlaybackURL(t *testing.T) {
	c := NewStreamClient(config.BunnyStreamConfig{
		SecurityKey: "secret",
		DeliveryURL: "vz-123.b-cdn.net/",
		ExpiresIn:   60,
	})
	c.now = func() time.Time { return time.Unix(1_000, 0) }

	got, err := c.SignedPlaybackURL("abc-guid")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	sum := sha256.Sum256([]byte("secret/abc-guid/playlist.m3u8" + "1060"))
	want := "https://vz-123.b-cdn.net/abc-guid/playlist.m3u8?token=" +
		base64.RawURLEncoding.EncodeToString(sum[:]) + "&expires=1060"
	if got != want {
		t.Fatalf("url = %s\nwant  %s", got, want)
	}
}

func TestSignedPlaybackURLRequiresConfig(t *testing.T) {
	c := NewStreamClient(config.BunnyStreamConfig{})
	if _, err := c.SignedPlaybackURL("abc"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v", err)
	}
}

func TestGetVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/library/42/videos/guid-1" || r.Header.Get("AccessKey") != "key" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"guid":"guid-1","title":"Intro","length":754,"status":4}`))
	}))
	defer srv.Close()

	c := NewStreamClient(config.BunnyStreamConfig{LibraryID: "42", APIKey: "key", BaseURL: srv.URL})
	video, err := c.GetVideo(context.Background(), "guid-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if video.Length != 754 || !video.Ready() || video.Title != "Intro" {
		t.Fatalf("video = %+v", video)
	}

	if _, err := c.GetVideo(context.Background(), "missing"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}
