package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
)

type userRecord struct {
	user         domain.User
	passwordHash []byte
}

type Server struct {
	*httptest.Server

	jwt *JWTManager

	mu          sync.Mutex
	usersByID   map[string]*userRecord
	idsByEmail  map[string]string
	courses     []domain.Course
	modules     map[string][]domain.CourseModule
	enrollments map[string][]domain.Enrollment
	progress    map[string]map[string]domain.ModuleProgress

	meCalls    atomic.Int64
	meOverride atomic.Int64
	meDelay    atomic.Int64
}

// New starts a backend seeded with the catalog and registers cleanup on t.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		jwt:         NewJWTManager("dexnote-apitest", "dexnote-client", "apitest-secret-0123456789abcdef"),
		usersByID:   map[string]*userRecord{},
		idsByEmail:  map[string]string{},
		courses:     SeedCourses(),
		modules:     SeedModules(),
		enrollments: map[string][]domain.Enrollment{},
		progress:    map[string]map[string]domain.ModuleProgress{},
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)
		r.With(s.meFaults, s.requireBearer).Get("/auth/me", s.handleMe)
		r.Get("/courses", s.handleListCourses)
		r.Get("/courses/{courseID}", s.handleGetCourse)
		r.Get("/courses/{courseID}/modules", s.handleListModules)
		r.Group(func(r chi.Router) {
			r.Use(s.requireBearer)
			r.Get("/enrollments/my", s.handleMyEnrollments)
			r.Post("/enrollments", s.handleEnroll)
			r.Get("/progress/course/{courseID}", s.handleCourseProgress)
			r.Put("/progress", s.handleUpdateProgress)
			r.Put("/profile", s.handleUpdateProfile)
			r.Post("/ai/solve-math", s.handleSolveMath)
		})
	})
	return r
}

// RegisterUser creates an account directly and returns a valid token for it.
func (s *Server) RegisterUser(t testing.TB, username, email, password string) (string, domain.User) {
	t.Helper()
	u, err := s.createUser(username, email, password)
	if err != nil {
		t.Fatalf("register user: %v", err)
	}
	token, err := s.jwt.Sign(u.ID, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token, u
}

// ExpiredToken returns a correctly signed token that fails validation.
func (s *Server) ExpiredToken(t testing.TB, userID string) string {
	t.Helper()
	token, err := s.jwt.Sign(userID, -time.Minute)
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}
	return token
}

// FailMe forces /api/auth/me to answer with status until reset with 0.
func (s *Server) FailMe(status int) { s.meOverride.Store(int64(status)) }

// DelayMe holds /api/auth/me responses for d.
func (s *Server) DelayMe(d time.Duration) { s.meDelay.Store(int64(d)) }

func (s *Server) MeCalls() int64 { return s.meCalls.Load() }

func (s *Server) meFaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.meCalls.Add(1)
		if d := time.Duration(s.meDelay.Load()); d > 0 {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
		}
		if status := int(s.meOverride.Load()); status != 0 {
			writeDetail(w, status, "forced failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createUser(username, email, password string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return domain.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := domain.User{ID: uuid.NewString(), Username: username, Email: strings.ToLower(email), CreatedAt: time.Now().UTC()}
	s.usersByID[u.ID] = &userRecord{user: u, passwordHash: hash}
	s.idsByEmail[u.Email] = u.ID
	return u, nil
}

func (s *Server) userByID(id string) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.usersByID[id]
	if !ok {
		return domain.User{}, false
	}
	return rec.user, true
}

func (s *Server) issue(w http.ResponseWriter, status int, u domain.User) {
	token, err := s.jwt.Sign(u.ID, time.Hour)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "token signing failed")
		return
	}
	writeJSON(w, status, map[string]any{"token": token, "user": u})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" || req.Username == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "username, email and password are required")
		return
	}
	s.mu.Lock()
	_, taken := s.idsByEmail[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if taken {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	u, err := s.createUser(req.Username, req.Email, req.Password)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "could not create user")
		return
	}
	s.issue(w, http.StatusOK, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	var rec *userRecord
	if id, ok := s.idsByEmail[strings.ToLower(req.Email)]; ok {
		rec = s.usersByID[id]
	}
	s.mu.Unlock()
	if rec == nil || bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(req.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	s.issue(w, http.StatusOK, rec.user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, _ := s.userByID(userIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleListCourses(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	out := append([]domain.Course(nil), s.courses...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) findCourse(id string) (domain.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.courses {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Course{}, false
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	c, ok := s.findCourse(chi.URLParam(r, "courseID"))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Course not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleListModules(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "courseID")
	s.mu.Lock()
	mods := append([]domain.CourseModule{}, s.modules[id]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, mods)
}

func (s *Server) handleMyEnrollments(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r.Context())
	s.mu.Lock()
	out := append([]domain.Enrollment{}, s.enrollments[uid]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r.Context())
	var req struct {
		CourseID      string `json:"course_id"`
		TermsAccepted bool   `json:"terms_accepted"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	course, ok := s.findCourse(req.CourseID)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Course not found")
		return
	}
	if course.RequiresTerms && !req.TermsAccepted {
		writeDetail(w, http.StatusBadRequest, "Terms and conditions must be accepted")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.enrollments[uid] {
		if e.CourseID == req.CourseID {
			writeDetail(w, http.StatusBadRequest, "Already enrolled")
			return
		}
	}
	e := domain.Enrollment{ID: uuid.NewString(), UserID: uid, CourseID: req.CourseID, TermsAccepted: req.TermsAccepted, EnrolledAt: time.Now().UTC()}
	s.enrollments[uid] = append(s.enrollments[uid], e)
	writeJSON(w, http.StatusOK, e)
}

func progressKey(uid, courseID string) string { return uid + "/" + courseID }

func (s *Server) handleCourseProgress(w http.ResponseWriter, r *http.Request) {
	key := progressKey(userIDFromContext(r.Context()), chi.URLParam(r, "courseID"))
	s.mu.Lock()
	out := make([]domain.ModuleProgress, 0, len(s.progress[key]))
	for _, p := range s.progress[key] {
		out = append(out, p)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ModuleID < out[j].ModuleID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r.Context())
	var p domain.ModuleProgress
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.CourseID == "" || p.ModuleID == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "course_id and module_id are required")
		return
	}
	now := time.Now().UTC()
	p.UserID = uid
	p.UpdatedAt = &now
	key := progressKey(uid, p.CourseID)
	s.mu.Lock()
	if s.progress[key] == nil {
		s.progress[key] = map[string]domain.ModuleProgress{}
	}
	s.progress[key][p.ModuleID] = p
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r.Context())
	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.usersByID[uid]
	if req.Username != nil {
		for id, other := range s.usersByID {
			if id != uid && other.user.Username == *req.Username {
				writeDetail(w, http.StatusBadRequest, "Username already taken")
				return
			}
		}
		rec.user.Username = *req.Username
	}
	if req.Email != nil {
		email := strings.ToLower(*req.Email)
		if id, ok := s.idsByEmail[email]; ok && id != uid {
			writeDetail(w, http.StatusBadRequest, "Email already registered")
			return
		}
		delete(s.idsByEmail, rec.user.Email)
		rec.user.Email = email
		s.idsByEmail[email] = uid
	}
	writeJSON(w, http.StatusOK, rec.user)
}

func (s *Server) handleSolveMath(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Expression string `json:"expression"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Expression) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "expression is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"solution": "solved: " + req.Expression})
}
