package view

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
	"github.com/sandeepkv93/dexnote-client/internal/guard"
	"github.com/sandeepkv93/dexnote-client/internal/nav"
	"github.com/sandeepkv93/dexnote-client/internal/service"
)

type stubCatalog struct {
	courseID string
}

func (c *stubCatalog) Courses(_ context.Context, category string) ([]domain.Course, bool) {
	return domain.FilterCourses(domain.BuiltinCourses(), category), false
}

func (c *stubCatalog) CourseDetail(_ context.Context, _ domain.Session, courseID string) (service.CourseDetail, error) {
	c.courseID = courseID
	if courseID == "missing" {
		return service.CourseDetail{}, errors.New("not found")
	}
	return service.CourseDetail{Course: domain.Course{ID: courseID, Title: "Course " + courseID}}, nil
}

type stubNotes struct{ notes []domain.Note }

func (n stubNotes) List(context.Context) ([]domain.Note, error) { return n.notes, nil }

type staticSessions struct{ s domain.Session }

func (s staticSessions) Snapshot() domain.Session { return s.s }

func (s staticSessions) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func renderPath(t *testing.T, pages *Pages, s domain.Session, path string, opts Options) (string, error) {
	t.Helper()
	n := nav.NewNavigator(guard.New(), staticSessions{s: s}, nil)
	return pages.Render(context.Background(), n.Navigate(context.Background(), path), opts)
}

func TestPagesRenderEveryRoute(t *testing.T) {
	catalog := &stubCatalog{}
	pages := NewPages(NewRenderer(100), catalog, stubNotes{notes: []domain.Note{{ID: "n1", Title: "Hooks"}}})
	authed := domain.AuthenticatedSession("t", domain.User{ID: "u1", Username: "ada", Email: "ada@example.com"})

	tests := []struct {
		path    string
		session domain.Session
		want    string
	}{
		{path: "/", session: domain.AnonymousSession(), want: "Learn smarter"},
		{path: "/login", session: domain.AnonymousSession(), want: "Welcome back"},
		{path: "/signup", session: domain.AnonymousSession(), want: "Create your account"},
		{path: "/login", session: authed, want: "Welcome back, ada!"},
		{path: "/dashboard", session: domain.AnonymousSession(), want: "Sign in with your email"},
		{path: "/courses", session: authed, want: "Machine Learning Basics"},
		{path: "/courses/ml-basics", session: authed, want: "Course ml-basics"},
		{path: "/ai-tools", session: authed, want: "GitHub Copilot"},
		{path: "/profile", session: authed, want: "Username: ada"},
		{path: "/notes", session: authed, want: "Hooks"},
		{path: "/roadmaps", session: authed, want: "Nothing lives at /roadmaps."},
		{path: "/notes", session: domain.ResolvingSession("t"), want: "Loading..."},
	}
	for _, tc := range tests {
		t.Run(string(tc.session.Status)+tc.path, func(t *testing.T) {
			out, err := renderPath(t, pages, tc.session, tc.path, Options{})
			if err != nil {
				t.Fatalf("render %s: %v", tc.path, err)
			}
			requireContains(t, out, tc.want)
		})
	}
	if catalog.courseID != "ml-basics" {
		t.Fatalf("expected course id from route params, got %q", catalog.courseID)
	}
}

func TestPagesCategoryFilterAndErrors(t *testing.T) {
	pages := NewPages(NewRenderer(100), &stubCatalog{}, stubNotes{})
	authed := domain.AuthenticatedSession("t", domain.User{ID: "u1", Username: "ada"})

	out, err := renderPath(t, pages, authed, "/courses", Options{Category: "design"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	requireContains(t, out, "UI/UX Design Principles")
	if strings.Contains(out, "Advanced JavaScript") {
		t.Fatal("category filter leaked a coding course")
	}

	if _, err := renderPath(t, pages, authed, "/courses/missing", Options{}); err == nil {
		t.Fatal("expected course load error")
	}
}
