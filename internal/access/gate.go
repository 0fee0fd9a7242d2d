// Package access decides whether the current actor may open a dashboard.
// It is a convenience for the UI, not a security boundary: every mutating
// booking operation checks the actor's role again.
package access

import "eventpro/internal/account"

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonWrongRole       Reason = "wrong_role"
)

type Decision struct {
	Allowed  bool
	Reason   Reason
	Redirect string
}

// Authorize allows u when it holds required; anything else redirects to loginPath.
func Authorize(u *account.User, required account.Role, loginPath string) Decision {
	switch {
	case u == nil:
		return Decision{Reason: ReasonUnauthenticated, Redirect: loginPath}
	case u.Role != required:
		return Decision{Reason: ReasonWrongRole, Redirect: loginPath}
	default:
		return Decision{Allowed: true}
	}
}
