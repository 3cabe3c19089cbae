package view

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
	"github.com/sandeepkv93/dexnote-client/internal/guard"
	"github.com/sandeepkv93/dexnote-client/internal/nav"
	"github.com/sandeepkv93/dexnote-client/internal/service"
)

type CatalogLoader interface {
	Courses(ctx context.Context, category string) ([]domain.Course, bool)
	CourseDetail(ctx context.Context, session domain.Session, courseID string) (service.CourseDetail, error)
}

type NoteLister interface {
	List(ctx context.Context) ([]domain.Note, error)
}

// Pages turns a navigation result into screen content.
type Pages struct {
	renderer *Renderer
	catalog  CatalogLoader
	notes    NoteLister
}

func NewPages(renderer *Renderer, catalog CatalogLoader, notes NoteLister) *Pages {
	return &Pages{renderer: renderer, catalog: catalog, notes: notes}
}

type Options struct {
	Category string
}

func (p *Pages) Render(ctx context.Context, res nav.Result, opts Options) (string, error) {
	d := res.Decision
	switch d.Action {
	case guard.ActionDefer:
		return p.renderer.Loading(), nil
	case guard.ActionRedirect:
		return "", fmt.Errorf("unresolved redirect to %s", d.Path)
	}

	s := res.Session
	switch d.Path {
	case guard.LandingPath:
		return p.renderer.Landing(s), nil
	case guard.LoginPath:
		return p.renderer.Login(), nil
	case guard.SignupPath:
		return p.renderer.Signup(), nil
	case guard.DashboardPath:
		return p.renderer.Dashboard(*s.User), nil
	case guard.CoursesPath:
		courses, fallback := p.catalog.Courses(ctx, opts.Category)
		return p.renderer.Courses(courses, opts.Category, fallback), nil
	case guard.AIToolsPath:
		return p.renderer.AITools(domain.AITools()), nil
	case guard.ProfilePath:
		return p.renderer.Profile(*s.User), nil
	case guard.NotesPath:
		notes, err := p.notes.List(ctx)
		if err != nil {
			return "", fmt.Errorf("load notes: %w", err)
		}
		return p.renderer.Notes(notes), nil
	}
	if d.Pattern == guard.CourseDetailPattern {
		detail, err := p.catalog.CourseDetail(ctx, s, d.Params[guard.CourseIDParam])
		if err != nil {
			return "", fmt.Errorf("load course: %w", err)
		}
		return p.renderer.CourseDetail(detail), nil
	}
	return p.renderer.NotFound(d.Path), nil
}
