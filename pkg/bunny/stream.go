package bunny

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mo-amir99/coursehub-server-go/pkg/config"
)

// ErrNotConfigured is returned when the Stream library or signing key is missing.
var ErrNotConfigured = errors.New("bunny stream is not configured")

// StreamClient reads video metadata from Bunny Stream and signs playback URLs.
type StreamClient struct {
	rest        *resty.Client
	libraryID   string
	securityKey string
	deliveryURL string
	expiresIn   time.Duration
	now         func() time.Time
}

// Video is the subset of the Stream video object the catalog uses.
type Video struct {
	GUID   string  `json:"guid"`
	Title  string  `json:"title"`
	Length float64 `json:"length"` // seconds
	Status int     `json:"status"`
}

// Ready reports whether encoding finished (status 4 in the Stream API).
func (v Video) Ready() bool { return v.Status == 4 }

// NewStreamClient builds a client from config.
func NewStreamClient(cfg config.BunnyStreamConfig) *StreamClient {
	expires := time.Duration(cfg.ExpiresIn) * time.Second
	if expires <= 0 {
		expires = time.Hour
	}

	rest := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("AccessKey", cfg.APIKey).
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(300 * time.Millisecond)

	return &StreamClient{
		rest:        rest,
		libraryID:   cfg.LibraryID,
		securityKey: cfg.SecurityKey,
		deliveryURL: cfg.DeliveryURL,
		expiresIn:   expires,
		now:         time.Now,
	}
}

// MetadataEnabled reports whether API calls can be made.
func (c *StreamClient) MetadataEnabled() bool {
	return c != nil && c.libraryID != ""
}

// GetVideo fetches one video by GUID.
func (c *StreamClient) GetVideo(ctx context.Context, videoID string) (*Video, error) {
	if !c.MetadataEnabled() {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(videoID) == "" {
		return nil, errors.New("bunny: video id is required")
	}

	var video Video
	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"library": c.libraryID, "video": videoID}).
		SetResult(&video).
		Get("/library/{library}/videos/{video}")
	if err != nil {
		return nil, fmt.Errorf("bunny get video: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("bunny get video: status=%d body=%s", resp.StatusCode(), resp.String())
	}

	return &video, nil
}

// SignedPlaybackURL returns a token-authenticated HLS playlist URL:
// token = base64url(sha256(securityKey + path + expires)).
func (c *StreamClient) SignedPlaybackURL(videoID string) (string, error) {
	videoID = strings.Trim(strings.TrimSpace(videoID), "/")
	if videoID == "" {
		return "", errors.New("bunny: video id is required")
	}
	if c == nil || c.securityKey == "" || c.deliveryURL == "" {
		return "", ErrNotConfigured
	}

	delivery := strings.TrimRight(strings.TrimSpace(c.deliveryURL), "/")
	if !strings.HasPrefix(delivery, "http://") && !strings.HasPrefix(delivery, "https://") {
		delivery = "https://" + delivery
	}

	expires := c.now().Add(c.expiresIn).Unix()
	path := "/" + videoID + "/playlist.m3u8"

	sum := sha256.Sum256([]byte(fmt.Sprintf("%s%s%d", c.securityKey, path, expires)))
	token := base64.RawURLEncoding.EncodeToString(sum[:])

	return fmt.Sprintf("%s%s?token=%s&expires=%d", delivery, path, token, expires), nil
}
