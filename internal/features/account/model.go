package account

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mo-amir99/coursehub-server-go/pkg/database"
	"github.com/mo-amir99/coursehub-server-go/pkg/types"
)

const (
	minPasswordLength = 8
	bcryptCost        = 10
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Account is a person who can sign in.
type Account struct {
	types.BaseModel

	FullName string         `gorm:"type:varchar(100);not null;column:full_name" json:"fullName"`
	Email    string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password string         `gorm:"type:varchar(255)" json:"-"`
	GoogleID *string        `gorm:"type:varchar(64);uniqueIndex;column:google_id" json:"-"`
	Role     types.UserType `gorm:"type:varchar(20);not null;default:'student';index" json:"role"`
	Active   bool           `gorm:"type:boolean;not null;default:true;column:is_active" json:"isActive"`
}

// TableName overrides the default table name.
func (Account) TableName() string { return "accounts" }

// ComparePassword checks a plain password against the stored hash.
func (a *Account) ComparePassword(password string) bool {
	if a.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) == nil
}

// Viewer projects the account onto the request identity.
func (a *Account) Viewer() *types.Viewer {
	return &types.Viewer{ID: a.ID, Role: a.Role}
}

// CreateInput carries data for a new account. Password may be empty for Google-only
// accounts when GoogleID is set.
type CreateInput struct {
	FullName string
	Email    string
	Password string
	GoogleID *string
	Role     types.UserType
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Create inserts a new account with a hashed password.
func Create(ctx context.Context, db *gorm.DB, input CreateInput) (Account, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := normalizeEmail(input.Email)
	if fullName == "" || email == "" {
		return Account{}, ErrMissingFields
	}
	if !emailRegex.MatchString(email) {
		return Account{}, ErrInvalidEmail
	}

	role := input.Role
	if !role.Valid() {
		role = types.UserTypeStudent
	}

	acc := Account{
		FullName: fullName,
		Email:    email,
		GoogleID: input.GoogleID,
		Role:     role,
		Active:   true,
	}

	if input.GoogleID == nil || input.Password != "" {
		hashed, err := hashPassword(input.Password)
		if err != nil {
			return Account{}, err
		}
		acc.Password = hashed
	}

	if err := db.WithContext(ctx).Create(&acc).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return Account{}, ErrEmailTaken
		}
		return Account{}, err
	}
	return acc, nil
}

// Get retrieves an account by id.
func Get(ctx context.Context, db *gorm.DB, id uuid.UUID) (Account, error) {
	var acc Account
	if err := db.WithContext(ctx).First(&acc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return acc, ErrAccountNotFound
		}
		return acc, err
	}
	return acc, nil
}

// GetByEmail retrieves an account by case-insensitive email.
func GetByEmail(ctx context.Context, db *gorm.DB, email string) (Account, error) {
	var acc Account
	if err := db.WithContext(ctx).First(&acc, "LOWER(email) = ?", normalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return acc, ErrAccountNotFound
		}
		return acc, err
	}
	return acc, nil
}

// GetByGoogleID retrieves an account linked to a Google subject.
func GetByGoogleID(ctx context.Context, db *gorm.DB, googleID string) (Account, error) {
	var acc Account
	if err := db.WithContext(ctx).First(&acc, "google_id = ?", googleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return acc, ErrAccountNotFound
		}
		return acc, err
	}
	return acc, nil
}
