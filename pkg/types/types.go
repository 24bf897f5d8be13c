package types

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserType is the role an account acts under.
type UserType string

const (
	UserTypeStudent    UserType = "student"
	UserTypeInstructor UserType = "instructor"
	UserTypeAdmin      UserType = "admin"
)

// Valid reports whether t is a known role.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeStudent, UserTypeInstructor, UserTypeAdmin:
		return true
	}
	return false
}

// BaseModel contains common fields for all models.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// Money is a decimal amount stored as numeric.
type Money decimal.Decimal

// NewMoneyFromString parses a decimal amount.
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money(d), nil
}

// Decimal exposes the underlying decimal.
func (m Money) Decimal() decimal.Decimal { return decimal.Decimal(m) }

func (m Money) String() string { return decimal.Decimal(m).StringFixed(2) }

// IsNegative reports m < 0.
func (m Money) IsNegative() bool { return decimal.Decimal(m).IsNegative() }

// IsZero reports m == 0. Free courses have a zero price.
func (m Money) IsZero() bool { return decimal.Decimal(m).IsZero() }

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return decimal.Decimal(m).Value()
}

// Scan implements sql.Scanner.
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	*m = Money(d)
	return nil
}

// MarshalJSON renders the amount as a quoted fixed-point string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts numbers and numeric strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = Money(d)
	return nil
}

// Viewer is the authenticated caller of a request.
type Viewer struct {
	ID   uuid.UUID
	Role UserType
}

// IDPtr returns the viewer id, or nil for guests.
func (v *Viewer) IDPtr() *uuid.UUID {
	if v == nil {
		return nil
	}
	id := v.ID
	return &id
}

// IsAdmin reports whether the viewer is an administrator.
func (v *Viewer) IsAdmin() bool {
	return v != nil && v.Role == UserTypeAdmin
}
