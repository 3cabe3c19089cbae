package service

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
)

type CourseDetail struct {
	Course   domain.Course
	Modules  []domain.CourseModule
	Enrolled bool
	Progress map[string]bool
}

func (d CourseDetail) CompletedCount() int {
	n := 0
	for _, m := range d.Modules {
		if d.Progress[m.ID] {
			n++
		}
	}
	return n
}

type CatalogService struct {
	backend CatalogBackend
	logger  *slog.Logger
}

func NewCatalogService(backend CatalogBackend, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{backend: backend, logger: logger}
}

// Courses returns the backend catalog filtered by category, or the built-in
// catalog when the backend has nothing to offer. The bool reports the fallback.
func (s *CatalogService) Courses(ctx context.Context, category string) ([]domain.Course, bool) {
	courses, err := s.backend.ListCourses(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "course catalog unavailable, using built-in catalog", "error", err)
	}
	fallback := err != nil || len(courses) == 0
	if fallback {
		courses = domain.BuiltinCourses()
	}
	return domain.FilterCourses(courses, category), fallback
}

// CourseDetail loads the course page. Enrollment and progress are only
// fetched for an authenticated session.
func (s *CatalogService) CourseDetail(ctx context.Context, session domain.Session, courseID string) (CourseDetail, error) {
	var (
		detail      CourseDetail
		enrollments []domain.Enrollment
		progress    []domain.ModuleProgress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.backend.GetCourse(gctx, courseID)
		if err != nil {
			builtin, ok := builtinCourse(courseID)
			if !ok {
				return err
			}
			c = builtin
		}
		detail.Course = c
		return nil
	})
	g.Go(func() error {
		mods, err := s.backend.ListModules(gctx, courseID)
		if err != nil {
			s.logger.WarnContext(gctx, "course modules unavailable", "course_id", courseID, "error", err)
			return nil
		}
		detail.Modules = mods
		return nil
	})
	if session.Authenticated() {
		g.Go(func() error {
			var err error
			enrollments, err = s.backend.MyEnrollments(gctx, session.Token)
			return err
		})
		g.Go(func() error {
			var err error
			progress, err = s.backend.CourseProgress(gctx, session.Token, courseID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return CourseDetail{}, err
	}

	sort.SliceStable(detail.Modules, func(i, j int) bool { return detail.Modules[i].Order < detail.Modules[j].Order })
	for _, e := range enrollments {
		if e.CourseID == courseID {
			detail.Enrolled = true
			break
		}
	}
	detail.Progress = make(map[string]bool, len(progress))
	for _, p := range progress {
		detail.Progress[p.ModuleID] = p.Completed
	}
	return detail, nil
}

func builtinCourse(id string) (domain.Course, bool) {
	for _, c := range domain.BuiltinCourses() {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Course{}, false
}
