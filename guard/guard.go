// Package guard evaluates page access for a session as a pure, declarative
// decision: wait while the session resolves, allow, or redirect. It is a UX
// convenience only; the server middleware independently authorizes every
// call from the bearer token.
package guard

const (
	LoginPath          = "/pages/login"
	AdminDashboardPath = "/pages/admin/dashboard-admin"
	UserDashboardPath  = "/pages/users/dashboard-user"
)

// SessionStatus mirrors the auth provider's three-valued status.
type SessionStatus string

const (
	StatusLoading         SessionStatus = "loading"
	StatusAuthenticated   SessionStatus = "authenticated"
	StatusUnauthenticated SessionStatus = "unauthenticated"
)

// Session is the read-only view handed down from the auth boundary.
type Session struct {
	Status SessionStatus
	Role   string // "Super Admin", "Admin" or "User" when authenticated
}

func IsAdmin(s Session) bool {
	return s.Status == StatusAuthenticated && (s.Role == "Admin" || s.Role == "Super Admin")
}

func IsUser(s Session) bool {
	return s.Status == StatusAuthenticated && s.Role == "User"
}

// Kind tags the outcome of a guard evaluation.
type Kind int

const (
	Wait Kind = iota // session still resolving, render nothing
	Allow
	Redirect
)

type Decision struct {
	Kind   Kind
	Target string // set when Kind == Redirect
}

// RequireAdmin gates admin pages: unauthenticated sessions go to login,
// plain users to their own dashboard.
func RequireAdmin(s Session) Decision {
	switch {
	case s.Status == StatusLoading:
		return Decision{Kind: Wait}
	case s.Status != StatusAuthenticated:
		return Decision{Kind: Redirect, Target: LoginPath}
	case !IsAdmin(s):
		return Decision{Kind: Redirect, Target: UserDashboardPath}
	}
	return Decision{Kind: Allow}
}

// RequireUser gates user pages; admins are sent to the admin dashboard.
func RequireUser(s Session) Decision {
	switch {
	case s.Status == StatusLoading:
		return Decision{Kind: Wait}
	case s.Status != StatusAuthenticated:
		return Decision{Kind: Redirect, Target: LoginPath}
	case !IsUser(s):
		return Decision{Kind: Redirect, Target: AdminDashboardPath}
	}
	return Decision{Kind: Allow}
}
