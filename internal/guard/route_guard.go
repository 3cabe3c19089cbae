// Package guard decides whether a navigation target may be shown for a
// session status. Decisions are pure: no I/O and no session access.
package guard

import (
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
)

type Action string

const (
	ActionRender   Action = "render"
	ActionRedirect Action = "redirect"
	ActionDefer    Action = "defer"
)

const (
	LandingPath         = "/"
	LoginPath           = "/login"
	SignupPath          = "/signup"
	DashboardPath       = "/dashboard"
	CoursesPath         = "/courses"
	CourseDetailPattern = "/courses/{courseID}"
	AIToolsPath         = "/ai-tools"
	ProfilePath         = "/profile"
	NotesPath           = "/notes"
	CourseIDParam       = "courseID"
)

var (
	PublicOnlyPatterns = []string{LoginPath, SignupPath}
	ProtectedPatterns  = []string{DashboardPath, CoursesPath, CourseDetailPattern, AIToolsPath, ProfilePath, NotesPath}
)

// Decision is the outcome for one path. Path is the normalized path for
// render, the target for redirect and the requested path for defer.
type Decision struct {
	Action  Action
	Path    string
	Pattern string
	Params  map[string]string
}

type RouteGuard struct {
	publicOnly *chi.Mux
	protected  *chi.Mux
}

var nopHandler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

func New() *RouteGuard {
	g := &RouteGuard{publicOnly: chi.NewMux(), protected: chi.NewMux()}
	for _, p := range PublicOnlyPatterns {
		g.publicOnly.Get(p, nopHandler)
	}
	for _, p := range ProtectedPatterns {
		g.protected.Get(p, nopHandler)
	}
	return g
}

var defaultGuard = New()

// Authorize applies the default route table.
func Authorize(p string, status domain.SessionStatus) Decision {
	return defaultGuard.Authorize(p, status)
}

// Authorize is total: unknown statuses are treated as not authenticated and
// unknown paths are rendered.
func (g *RouteGuard) Authorize(p string, status domain.SessionStatus) Decision {
	p = Normalize(p)
	if status == domain.StatusResolving {
		return Decision{Action: ActionDefer, Path: p}
	}
	if r, ok := match(g.publicOnly, p); ok && status == domain.StatusAuthenticated {
		return Decision{Action: ActionRedirect, Path: DashboardPath, Pattern: r.pattern}
	}
	r, ok := match(g.protected, p)
	if ok && status != domain.StatusAuthenticated {
		return Decision{Action: ActionRedirect, Path: LoginPath, Pattern: r.pattern}
	}
	if !ok {
		r, ok = match(g.publicOnly, p)
	}
	if !ok {
		return Decision{Action: ActionRender, Path: p}
	}
	return Decision{Action: ActionRender, Path: r.path, Pattern: r.pattern, Params: r.params}
}

// IsProtected reports whether p requires an authenticated session.
func (g *RouteGuard) IsProtected(p string) bool {
	_, ok := match(g.protected, Normalize(p))
	return ok
}

type route struct {
	pattern string
	path    string
	params  map[string]string
}

// match looks p up in mux. Static segments compare case-insensitively the way
// the browser router did; parameter values keep their case. path is p with
// static segments in canonical form.
func match(mux *chi.Mux, p string) (route, bool) {
	rctx := chi.NewRouteContext()
	if !mux.Match(rctx, http.MethodGet, p) {
		rctx = chi.NewRouteContext()
		if !mux.Match(rctx, http.MethodGet, strings.ToLower(p)) {
			return route{}, false
		}
	}
	r := route{pattern: rctx.RoutePattern()}
	segs := strings.Split(p, "/")
	canonical := strings.Split(r.pattern, "/")
	for i, seg := range canonical {
		if !strings.HasPrefix(seg, "{") || i >= len(segs) {
			continue
		}
		if r.params == nil {
			r.params = make(map[string]string)
		}
		r.params[strings.Trim(seg, "{}")] = segs[i]
		canonical[i] = segs[i]
	}
	r.path = strings.Join(canonical, "/")
	return r, true
}

// Normalize drops query and fragment, cleans dot segments and strips the
// trailing slash so "/courses/" and "/courses?tab=all" both mean "/courses".
func Normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
