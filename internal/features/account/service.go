package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/coursehub-server-go/internal/utils/jwt"
	"github.com/mo-amir99/coursehub-server-go/pkg/config"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

// TokenConfig controls access token issuing.
type TokenConfig struct {
	Secret string
	Expiry time.Duration
}

// AuthResult is returned by every sign-in path.
type AuthResult struct {
	Account     Account `json:"account"`
	AccessToken string  `json:"accessToken"`
}

// Service implements registration, sign-in and identity lookups.
type Service struct {
	db     *gorm.DB
	tokens TokenConfig
	logger *slog.Logger
}

// NewService constructs an account service.
func NewService(db *gorm.DB, tokens TokenConfig, logger *slog.Logger) *Service {
	return &Service{db: db, tokens: tokens, logger: logger}
}

// Register creates a student account and signs it in.
func (s *Service) Register(ctx context.Context, fullName, email, password string) (AuthResult, error) {
	if strings.TrimSpace(password) == "" {
		return AuthResult{}, ErrMissingFields
	}

	acc, err := Create(ctx, s.db, CreateInput{
		FullName: fullName,
		Email:    email,
		Password: password,
		Role:     types.UserTypeStudent,
	})
	if err != nil {
		return AuthResult{}, err
	}

	return s.issue(acc)
}

// Login checks the password and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return AuthResult{}, ErrMissingFields
	}

	acc, err := GetByEmail(ctx, s.db, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if !acc.ComparePassword(password) {
		return AuthResult{}, ErrInvalidCredentials
	}
	if !acc.Active {
		return AuthResult{}, ErrInactiveAccount
	}

	return s.issue(acc)
}

// SignInWithGoogle finds the account by Google id, then by email (linking it), and
// creates a student account when neither exists.
func (s *Service) SignInWithGoogle(ctx context.Context, profile GoogleProfile) (AuthResult, error) {
	if profile.ID == "" || profile.Email == "" {
		return AuthResult{}, ErrMissingFields
	}

	acc, err := GetByGoogleID(ctx, s.db, profile.ID)
	switch {
	case err == nil:
	case errors.Is(err, ErrAccountNotFound):
		acc, err = s.linkOrCreate(ctx, profile)
		if err != nil {
			return AuthResult{}, err
		}
	default:
		return AuthResult{}, err
	}

	if !acc.Active {
		return AuthResult{}, ErrInactiveAccount
	}
	return s.issue(acc)
}

func (s *Service) linkOrCreate(ctx context.Context, profile GoogleProfile) (Account, error) {
	googleID := profile.ID

	acc, err := GetByEmail(ctx, s.db, profile.Email)
	switch {
	case err == nil:
		if err := s.db.WithContext(ctx).Model(&acc).Update("google_id", googleID).Error; err != nil {
			return Account{}, fmt.Errorf("link google account: %w", err)
		}
		acc.GoogleID = &googleID
		s.logger.Info("google account linked", slog.String("accountId", acc.ID.String()))
		return acc, nil
	case errors.Is(err, ErrAccountNotFound):
		name := profile.Name
		if strings.TrimSpace(name) == "" {
			name = strings.SplitN(profile.Email, "@", 2)[0]
		}
		return Create(ctx, s.db, CreateInput{
			FullName: name,
			Email:    profile.Email,
			GoogleID: &googleID,
			Role:     types.UserTypeStudent,
		})
	default:
		return Account{}, err
	}
}

// Lookup resolves an account id to a request identity. ok is false for unknown or
// inactive accounts.
func (s *Service) Lookup(ctx context.Context, id uuid.UUID) (*types.Viewer, bool, error) {
	acc, err := Get(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if !acc.Active {
		return nil, false, nil
	}
	return acc.Viewer(), true, nil
}

// Me returns the caller's account.
func (s *Service) Me(ctx context.Context, id uuid.UUID) (Account, error) {
	return Get(ctx, s.db, id)
}

// EnsureAdmin creates or synchronizes the configured administrator account. It is a
// no-op when no admin email is configured.
func (s *Service) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	email := normalizeEmail(cfg.Email)
	if email == "" {
		s.logger.Info("default admin skipped, ADMIN_EMAIL not set")
		return nil
	}

	existing, err := GetByEmail(ctx, s.db, email)
	switch {
	case errors.Is(err, ErrAccountNotFound):
		if _, err := Create(ctx, s.db, CreateInput{
			FullName: cfg.FullName,
			Email:    email,
			Password: cfg.Password,
			Role:     types.UserTypeAdmin,
		}); err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		s.logger.Info("default admin created", slog.String("email", email))
		return nil
	case err != nil:
		return fmt.Errorf("get admin: %w", err)
	}

	updates := map[string]interface{}{}
	if cfg.Password != "" && !existing.ComparePassword(cfg.Password) {
		hashed, err := hashPassword(cfg.Password)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		updates["password"] = hashed
	}
	if existing.Role != types.UserTypeAdmin {
		updates["role"] = types.UserTypeAdmin
	}
	if !existing.Active {
		updates["is_active"] = true
	}

	if len(updates) == 0 {
		s.logger.Info("default admin already up to date", slog.String("email", email))
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&existing).Updates(updates).Error; err != nil {
		return fmt.Errorf("update admin: %w", err)
	}
	s.logger.Info("default admin synchronized", slog.String("email", email))
	return nil
}

func (s *Service) issue(acc Account) (AuthResult, error) {
	token, err := jwt.GenerateAccessToken(acc.ID, acc.Role, s.tokens.Secret, s.tokens.Expiry)
	if err != nil {
		return AuthResult{}, fmt.Errorf("sign access token: %w", err)
	}
	return AuthResult{Account: acc, AccessToken: token}, nil
}
