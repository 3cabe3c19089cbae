// Package api is the HTTP client for the DexNote backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
)

const (
	userAgent       = "dexnote-client/1.0"
	maxResponseBody = 1 << 20
)

type Client struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
	anonymous *http.Client
}

type Option func(*Client)

// WithTransport replaces the base transport. It is still wrapped by otelhttp.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/") + "/api",
		timeout:   timeout,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.transport = otelhttp.NewTransport(c.transport)
	c.anonymous = &http.Client{Transport: c.transport, Timeout: c.timeout}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// authorized attaches the bearer token through an oauth2 transport so the
// token never passes through request-building code.
func (c *Client) authorized(token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return &http.Client{
		Transport: &oauth2.Transport{Base: c.transport, Source: src},
		Timeout:   c.timeout,
	}
}

type AuthResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/auth/login", body)
}

func (c *Client) Signup(ctx context.Context, username, email, password string) (AuthResult, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.authenticate(ctx, "/auth/signup", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (AuthResult, error) {
	var payload struct {
		AuthResult
		AccessToken string `json:"access_token"`
	}
	if _, err := c.do(ctx, c.anonymous, http.MethodPost, path, body, &payload); err != nil {
		return AuthResult{}, err
	}
	res := payload.AuthResult
	if res.Token == "" {
		res.Token = payload.AccessToken
	}
	if res.Token == "" {
		return AuthResult{}, fmt.Errorf("%s: %w: missing token", path, ErrInvalidPayload)
	}
	return res, nil
}

// Me resolves the identity behind token. Only a 200 counts as a valid session.
func (c *Client) Me(ctx context.Context, token string) (domain.User, error) {
	var u domain.User
	status, err := c.do(ctx, c.authorized(token), http.MethodGet, "/auth/me", nil, &u)
	if err != nil {
		return domain.User{}, err
	}
	if status != http.StatusOK {
		return domain.User{}, &Error{StatusCode: status}
	}
	if u.ID == "" && u.Username == "" && u.Email == "" {
		return domain.User{}, fmt.Errorf("/auth/me: %w: empty profile", ErrInvalidPayload)
	}
	return u, nil
}

func (c *Client) ListCourses(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	if _, err := c.do(ctx, c.anonymous, http.MethodGet, "/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) GetCourse(ctx context.Context, id string) (domain.Course, error) {
	var course domain.Course
	if _, err := c.do(ctx, c.anonymous, http.MethodGet, "/courses/"+url.PathEscape(id), nil, &course); err != nil {
		return domain.Course{}, err
	}
	return course, nil
}

func (c *Client) ListModules(ctx context.Context, courseID string) ([]domain.CourseModule, error) {
	var modules []domain.CourseModule
	path := "/courses/" + url.PathEscape(courseID) + "/modules"
	if _, err := c.do(ctx, c.anonymous, http.MethodGet, path, nil, &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

func (c *Client) MyEnrollments(ctx context.Context, token string) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	if _, err := c.do(ctx, c.authorized(token), http.MethodGet, "/enrollments/my", nil, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (c *Client) Enroll(ctx context.Context, token, courseID string, termsAccepted bool) (domain.Enrollment, error) {
	body := map[string]any{"course_id": courseID, "terms_accepted": termsAccepted}
	var enrollment domain.Enrollment
	if _, err := c.do(ctx, c.authorized(token), http.MethodPost, "/enrollments", body, &enrollment); err != nil {
		return domain.Enrollment{}, err
	}
	return enrollment, nil
}

func (c *Client) CourseProgress(ctx context.Context, token, courseID string) ([]domain.ModuleProgress, error) {
	var progress []domain.ModuleProgress
	path := "/progress/course/" + url.PathEscape(courseID)
	if _, err := c.do(ctx, c.authorized(token), http.MethodGet, path, nil, &progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func (c *Client) UpdateProgress(ctx context.Context, token string, p domain.ModuleProgress) error {
	body := map[string]any{"module_id": p.ModuleID, "course_id": p.CourseID, "completed": p.Completed}
	_, err := c.do(ctx, c.authorized(token), http.MethodPut, "/progress", body, nil)
	return err
}

// ProfileUpdate sends only the fields that are set.
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

func (p ProfileUpdate) Empty() bool { return p.Username == nil && p.Email == nil }

func (c *Client) UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (domain.User, error) {
	var u domain.User
	if _, err := c.do(ctx, c.authorized(token), http.MethodPut, "/profile", update, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (c *Client) SolveMath(ctx context.Context, token, expression string) (string, error) {
	var out struct {
		Solution string `json:"solution"`
	}
	body := map[string]string{"expression": expression}
	if _, err := c.do(ctx, c.authorized(token), http.MethodPost, "/ai/solve-math", body, &out); err != nil {
		return "", err
	}
	return out.Solution, nil
}

func (c *Client) do(ctx context.Context, client *http.Client, method, path string, body, out any) (int, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, decodeError(resp.StatusCode, data)
	}
	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("%s: %w: %v", path, ErrInvalidPayload, err)
		}
	}
	return resp.StatusCode, nil
}
