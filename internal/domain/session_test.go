package domain

import "testing"

func TestSessionConsistent(t *testing.T) {
	u := User{ID: "u1", Username: "ada"}
	cases := []struct {
		name string
		s    Session
		want bool
	}{
		{name: "anonymous", s: AnonymousSession(), want: true},
		{name: "resolving", s: ResolvingSession("t"), want: true},
		{name: "authenticated", s: AuthenticatedSession("t", u), want: true},
		{name: "anonymous with token", s: Session{Token: "t", Status: StatusAnonymous}, want: false},
		{name: "anonymous with user", s: Session{User: &u, Status: StatusAnonymous}, want: false},
		{name: "resolving without token", s: Session{Status: StatusResolving}, want: false},
		{name: "resolving with user", s: Session{Token: "t", User: &u, Status: StatusResolving}, want: false},
		{name: "authenticated without user", s: Session{Token: "t", Status: StatusAuthenticated}, want: false},
		{name: "unknown status", s: Session{Status: "weird"}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.s.Consistent(); got != tc.want {
				t.Fatalf("Consistent()=%v want %v for %+v", got, tc.want, tc.s)
			}
		})
	}
}

func TestAuthenticatedSessionCopiesUser(t *testing.T) {
	u := User{ID: "u1", Username: "ada"}
	s := AuthenticatedSession("t", u)
	u.Username = "changed"
	if s.User.Username != "ada" {
		t.Fatalf("expected session to hold its own user copy, got %q", s.User.Username)
	}
}

func TestUserDisplayName(t *testing.T) {
	if got := (User{Username: "ada", FullName: "Ada Lovelace"}).DisplayName(); got != "Ada Lovelace" {
		t.Fatalf("expected full name, got %q", got)
	}
	if got := (User{Username: "ada"}).DisplayName(); got != "ada" {
		t.Fatalf("expected username fallback, got %q", got)
	}
}
