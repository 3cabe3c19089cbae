package domain

import "time"

const TokenKey = "token"

type SessionStatus string

const (
	StatusResolving     SessionStatus = "resolving"
	StatusAuthenticated SessionStatus = "authenticated"
	StatusAnonymous     SessionStatus = "anonymous"
)

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// DisplayName prefers the full name, the way the dashboard greets users.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// Session is replaced as a whole on every transition; holders of an old value
// keep a consistent view.
type Session struct {
	Token  string        `json:"-"`
	User   *User         `json:"user,omitempty"`
	Status SessionStatus `json:"status"`
}

func AnonymousSession() Session {
	return Session{Status: StatusAnonymous}
}

func ResolvingSession(token string) Session {
	return Session{Token: token, Status: StatusResolving}
}

func AuthenticatedSession(token string, user User) Session {
	return Session{Token: token, User: &user, Status: StatusAuthenticated}
}

func (s Session) Authenticated() bool { return s.Status == StatusAuthenticated }

// Consistent reports whether the token/user/status triple satisfies the
// session invariants.
func (s Session) Consistent() bool {
	switch s.Status {
	case StatusAuthenticated:
		return s.User != nil && s.Token != ""
	case StatusResolving:
		return s.User == nil && s.Token != ""
	case StatusAnonymous:
		return s.User == nil && s.Token == ""
	default:
		return false
	}
}
