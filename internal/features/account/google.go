package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/mo-amir99/coursehub-server-go/pkg/cache"
	"github.com/mo-amir99/coursehub-server-go/pkg/config"
)

const (
	stateTTL    = 10 * time.Minute
	statePrefix = "oauth:state:"
)

// GoogleProfile is the subset of Google userinfo used for sign-in.
type GoogleProfile struct {
	ID    string
	Email string
	Name  string
}

// ProfileFetcher exchanges an authorization code for the user's profile.
type ProfileFetcher func(ctx context.Context, code string) (GoogleProfile, error)

// GoogleSignIn drives the OAuth authorization code flow. States are single use and
// live in the shared cache so any instance can complete the callback.
type GoogleSignIn struct {
	oauth   *oauth2.Config
	states  cache.Client
	fetch   ProfileFetcher
	enabled bool
}

// NewGoogleSignIn builds the flow from config.
func NewGoogleSignIn(cfg config.GoogleConfig, states cache.Client) *GoogleSignIn {
	g := &GoogleSignIn{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{googleoauth.UserinfoEmailScope, googleoauth.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
		states:  states,
		enabled: cfg.Enabled(),
	}
	g.fetch = g.fetchProfile
	return g
}

// WithFetcher replaces the code exchange, used by tests.
func (g *GoogleSignIn) WithFetcher(fetch ProfileFetcher) *GoogleSignIn {
	g.fetch = fetch
	return g
}

// Enabled reports whether client credentials are configured.
func (g *GoogleSignIn) Enabled() bool { return g.enabled }

// AuthURL stores a fresh state and returns the consent screen URL.
func (g *GoogleSignIn) AuthURL(ctx context.Context) (string, error) {
	if !g.enabled {
		return "", ErrGoogleDisabled
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	state := hex.EncodeToString(buf)

	if err := g.states.Set(ctx, statePrefix+state, "1", stateTTL); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// Profile consumes the state and resolves the code into a Google profile.
func (g *GoogleSignIn) Profile(ctx context.Context, state, code string) (GoogleProfile, error) {
	if !g.enabled {
		return GoogleProfile{}, ErrGoogleDisabled
	}
	if state == "" || code == "" {
		return GoogleProfile{}, ErrInvalidState
	}

	if _, err := g.states.Take(ctx, statePrefix+state); err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return GoogleProfile{}, ErrInvalidState
		}
		return GoogleProfile{}, fmt.Errorf("read oauth state: %w", err)
	}

	return g.fetch(ctx, code)
}

func (g *GoogleSignIn) fetchProfile(ctx context.Context, code string) (GoogleProfile, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("exchange code: %w", err)
	}

	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(g.oauth.TokenSource(ctx, token)))
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("userinfo client: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("fetch userinfo: %w", err)
	}

	return GoogleProfile{ID: info.Id, Email: info.Email, Name: info.Name}, nil
}
