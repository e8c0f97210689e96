// Package access holds the authorization guards for every mutating operation.
//
// Guards never fail: they return a Decision that callers inspect. A denial is
// an expected outcome, not an error, until the service boundary converts it
// with Decision.Err.
package access

import (
	"github.com/listenupapp/pressroom/internal/domain"
	domainerrors "github.com/listenupapp/pressroom/internal/errors"
)

// Reason explains a denial.
type Reason string

const (
	// ReasonUnauthenticated means no user was resolved for the request.
	ReasonUnauthenticated Reason = "unauthenticated"
	// ReasonForbidden means the user is known but lacks the privilege.
	ReasonForbidden Reason = "forbidden"
)

// Decision is the tagged result of a guard: Allowed, or Denied with a Reason.
type Decision struct {
	Allowed bool
	Reason  Reason
	Message string
}

// Allow returns an allowing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision.
func Deny(reason Reason, message string) Decision {
	return Decision{Reason: reason, Message: message}
}

// Denied reports whether the decision refuses the action.
func (d Decision) Denied() bool {
	return !d.Allowed
}

// Err converts a denial into the matching domain error. It returns nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonUnauthenticated:
		return domainerrors.Unauthorized(d.Message)
	default:
		return domainerrors.Forbidden(d.Message)
	}
}

// RequireAuthenticated allows any resolved user.
func RequireAuthenticated(user *domain.User) Decision {
	if user == nil {
		return Deny(ReasonUnauthenticated, "Authentication required")
	}
	return Allow()
}

// RequireAdmin allows only administrators.
func RequireAdmin(user *domain.User) Decision {
	if d := RequireAuthenticated(user); d.Denied() {
		return d
	}
	if !user.IsAdmin() {
		return Deny(ReasonForbidden, "Admin access required")
	}
	return Allow()
}

// CanModifyPost allows the post's author or an administrator.
// The author check only runs for authenticated users.
func CanModifyPost(user *domain.User, post *domain.Post) Decision {
	if d := RequireAuthenticated(user); d.Denied() {
		return d
	}
	if user.IsAdmin() || post.AuthoredBy(user.ID) {
		return Allow()
	}
	return Deny(ReasonForbidden, "Only the author or an admin can modify this post")
}
