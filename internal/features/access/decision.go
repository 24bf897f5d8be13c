package access

import (
	"github.com/google/uuid"

	"github.com/mo-amir99/coursehub-server-go/pkg/apperrors"
)

// Decision is the outcome of a content access check.
type Decision int

const (
	Allow Decision = iota
	DenyLogin
	DenyEnroll
)

const (
	MessageLogin  = "Please log in to access this lecture"
	MessageEnroll = "Please enroll in this course to access this lecture"
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyLogin:
		return "deny_login"
	case DenyEnroll:
		return "deny_enroll"
	default:
		return "unknown"
	}
}

// Allowed reports d == Allow.
func (d Decision) Allowed() bool { return d == Allow }

// Err maps a denial to its client error; Allow yields nil.
func (d Decision) Err() error {
	switch d {
	case DenyLogin:
		return apperrors.Unauthorized(MessageLogin)
	case DenyEnroll:
		return apperrors.Forbidden(MessageEnroll)
	default:
		return nil
	}
}

// Decide evaluates, in order: preview lectures are open to everyone, then a
// student must be logged in, then enrolled.
func Decide(isPreview bool, studentID *uuid.UUID, enrolled bool) Decision {
	switch {
	case isPreview:
		return Allow
	case studentID == nil:
		return DenyLogin
	case !enrolled:
		return DenyEnroll
	default:
		return Allow
	}
}
