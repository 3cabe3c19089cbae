package service

import (
	"context"

	"github.com/sandeepkv93/dexnote-client/internal/api"
	"github.com/sandeepkv93/dexnote-client/internal/domain"
)

// IdentityResolver answers GET /api/auth/me for a bearer token.
type IdentityResolver interface {
	Me(ctx context.Context, token string) (domain.User, error)
}

type AuthBackend interface {
	Login(ctx context.Context, email, password string) (api.AuthResult, error)
	Signup(ctx context.Context, username, email, password string) (api.AuthResult, error)
	UpdateProfile(ctx context.Context, token string, update api.ProfileUpdate) (domain.User, error)
}

type CatalogBackend interface {
	ListCourses(ctx context.Context) ([]domain.Course, error)
	GetCourse(ctx context.Context, id string) (domain.Course, error)
	ListModules(ctx context.Context, courseID string) ([]domain.CourseModule, error)
	MyEnrollments(ctx context.Context, token string) ([]domain.Enrollment, error)
	CourseProgress(ctx context.Context, token, courseID string) ([]domain.ModuleProgress, error)
}

type LearningBackend interface {
	Enroll(ctx context.Context, token, courseID string, termsAccepted bool) (domain.Enrollment, error)
	UpdateProgress(ctx context.Context, token string, p domain.ModuleProgress) error
	SolveMath(ctx context.Context, token, expression string) (string, error)
}
