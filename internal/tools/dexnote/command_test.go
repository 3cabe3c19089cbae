package dexnote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandeepkv93/dexnote-client/internal/apitest"
	"github.com/sandeepkv93/dexnote-client/internal/tools/common"
)

type cliEnv struct {
	srv       *apitest.Server
	tokenFile string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	srv := apitest.New(t)
	dir := t.TempDir()
	env := &cliEnv{srv: srv, tokenFile: filepath.Join(dir, "token")}
	t.Setenv("DEXNOTE_API_URL", srv.URL)
	t.Setenv("DEXNOTE_TOKEN_STORE", "file")
	t.Setenv("DEXNOTE_TOKEN_FILE", env.tokenFile)
	t.Setenv("DEXNOTE_DATABASE_URL", "file:"+filepath.Join(dir, "dexnote.db"))
	t.Setenv("DEXNOTE_LOG_LEVEL", "error")
	for _, k := range []string{"OTEL_METRICS_ENABLED", "OTEL_TRACING_ENABLED", "OTEL_LOGS_ENABLED"} {
		t.Setenv(k, "false")
	}
	return env
}

func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (common.CIResult, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--ci", "--env-file", ""))
	err := cmd.ExecuteContext(context.Background())

	var res common.CIResult
	if jErr := json.Unmarshal(bytes.TrimSpace(out.Bytes()), &res); jErr != nil {
		t.Fatalf("decode ci output %q (stderr %q): %v", out.String(), errOut.String(), jErr)
	}
	return res, err
}

func (e *cliEnv) mustRun(t *testing.T, stdin string, args ...string) common.CIResult {
	t.Helper()
	res, err := e.run(t, stdin, args...)
	if err != nil || !res.OK {
		t.Fatalf("%v: expected success, got %+v err=%v", args, res, err)
	}
	return res
}

func hasDetail(res common.CIResult, want string) bool {
	for _, d := range res.Details {
		if strings.Contains(d, want) {
			return true
		}
	}
	return false
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != code {
		t.Fatalf("expected exit code %d, got %v", code, err)
	}
}

func TestLoginWhoamiOpenLogout(t *testing.T) {
	env := newCLIEnv(t)
	env.srv.RegisterUser(t, "ada", "ada@example.com", "secret123")

	res := env.mustRun(t, "secret123\n", "login", "--email", "ada@example.com")
	if !hasDetail(res, "status=authenticated") || !hasDetail(res, "user=ada") {
		t.Fatalf("unexpected login details %v", res.Details)
	}
	if b, err := os.ReadFile(env.tokenFile); err != nil || strings.TrimSpace(string(b)) == "" {
		t.Fatalf("expected token to be persisted, err=%v", err)
	}

	res = env.mustRun(t, "", "whoami")
	if !hasDetail(res, "email=ada@example.com") {
		t.Fatalf("unexpected whoami details %v", res.Details)
	}

	res = env.mustRun(t, "", "open", "/login")
	if !hasDetail(res, "path=/dashboard") || !hasDetail(res, "redirected_from=/login") {
		t.Fatalf("expected redirect to dashboard, got %v", res.Details)
	}
	if !hasDetail(res, "Welcome back, ada!") {
		t.Fatalf("expected dashboard greeting, got %v", res.Details)
	}

	env.mustRun(t, "", "logout")
	if _, err := os.Stat(env.tokenFile); !os.IsNotExist(err) {
		t.Fatalf("expected token file removed, stat err=%v", err)
	}

	res = env.mustRun(t, "", "open", "/dashboard")
	if !hasDetail(res, "path=/login") || !hasDetail(res, "session=anonymous") {
		t.Fatalf("expected redirect to login, got %v", res.Details)
	}
}

func TestLoginFailureReportsBackendDetail(t *testing.T) {
	env := newCLIEnv(t)
	env.srv.RegisterUser(t, "ada", "ada@example.com", "secret123")

	res, err := env.run(t, "", "login", "--email", "ada@example.com", "--password", "wrong")
	requireExitCode(t, err, exitFailure)
	if res.OK || res.Error != "Invalid email or password" {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, statErr := os.Stat(env.tokenFile); !os.IsNotExist(statErr) {
		t.Fatalf("failed login must not persist a token, stat err=%v", statErr)
	}
}

func TestSignupConflictReportsBackendDetail(t *testing.T) {
	env := newCLIEnv(t)
	env.srv.RegisterUser(t, "ada", "ada@example.com", "secret123")

	res, err := env.run(t, "", "signup", "--username", "ada2", "--email", "ada@example.com", "--password", "pw")
	requireExitCode(t, err, exitFailure)
	if res.Error != "Email already registered" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRejectedTokenDemotesQuietly(t *testing.T) {
	env := newCLIEnv(t)
	if err := os.WriteFile(env.tokenFile, []byte("not-a-jwt\n"), 0o600); err != nil {
		t.Fatalf("seed token: %v", err)
	}

	res := env.mustRun(t, "", "open", "/courses/react-basics")
	if !hasDetail(res, "path=/login") || !hasDetail(res, "session=anonymous") {
		t.Fatalf("expected demotion and redirect, got %v", res.Details)
	}
	if _, err := os.Stat(env.tokenFile); !os.IsNotExist(err) {
		t.Fatalf("expected rejected token erased, stat err=%v", err)
	}
	if calls := env.srv.MeCalls(); calls != 1 {
		t.Fatalf("expected one identity lookup, got %d", calls)
	}
}

func TestWhoamiWithoutSessionFails(t *testing.T) {
	env := newCLIEnv(t)

	res, err := env.run(t, "", "whoami")
	requireExitCode(t, err, exitFailure)
	if res.OK || !hasDetail(res, "status=anonymous") {
		t.Fatalf("unexpected result %+v", res)
	}
	if env.srv.MeCalls() != 0 {
		t.Fatal("no identity lookup expected without a token")
	}
}

func TestPublicPagesRenderAnonymously(t *testing.T) {
	env := newCLIEnv(t)

	res := env.mustRun(t, "", "open", "/")
	if !hasDetail(res, "action=render") || !hasDetail(res, "dexnote signup") {
		t.Fatalf("unexpected landing details %v", res.Details)
	}
	res = env.mustRun(t, "", "open", "/signup")
	if !hasDetail(res, "path=/signup") || hasDetail(res, "redirected_from") {
		t.Fatalf("unexpected signup details %v", res.Details)
	}
}

func TestNotesRoundTrip(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "", "signup", "--username", "grace", "--email", "grace@example.com", "--password", "pw")

	res := env.mustRun(t, "loops and\nrecursion\n", "notes", "add", "--title", "Week 1", "--content", "-")
	var id string
	for _, d := range res.Details {
		if strings.HasPrefix(d, "id=") {
			id = strings.TrimPrefix(d, "id=")
		}
	}
	if id == "" {
		t.Fatalf("expected note id, got %v", res.Details)
	}

	res = env.mustRun(t, "", "notes", "list")
	if !hasDetail(res, id) || !hasDetail(res, "Week 1") {
		t.Fatalf("unexpected list %v", res.Details)
	}
	res = env.mustRun(t, "", "notes", "show", id)
	if !hasDetail(res, "recursion") {
		t.Fatalf("unexpected note %v", res.Details)
	}
	env.mustRun(t, "", "notes", "delete", id)
	_, err := env.run(t, "", "notes", "show", id)
	requireExitCode(t, err, exitFailure)
}

func TestNotesRequireSession(t *testing.T) {
	env := newCLIEnv(t)

	res, err := env.run(t, "", "notes", "list")
	requireExitCode(t, err, exitFailure)
	if res.Error != "not authenticated" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestEnrollProgressAndSolve(t *testing.T) {
	env := newCLIEnv(t)
	env.srv.RegisterUser(t, "ada", "ada@example.com", "secret123")
	env.mustRun(t, "", "login", "--email", "ada@example.com", "--password", "secret123")

	res, err := env.run(t, "", "enroll", "python-advanced")
	requireExitCode(t, err, exitFailure)
	if res.Error != "Terms and conditions must be accepted" {
		t.Fatalf("unexpected result %+v", res)
	}
	env.mustRun(t, "", "enroll", "python-advanced", "--accept-terms")
	env.mustRun(t, "", "enroll", "react-basics")
	env.mustRun(t, "", "progress", "react-basics", "m1")

	res = env.mustRun(t, "", "open", "/courses/react-basics")
	if !hasDetail(res, "1/4 modules completed") {
		t.Fatalf("expected progress on course page, got %v", res.Details)
	}

	res = env.mustRun(t, "", "solve", "2x", "+", "3", "=", "7")
	if !hasDetail(res, "solved: 2x + 3 = 7") {
		t.Fatalf("unexpected solver output %v", res.Details)
	}
}

func TestProfileUpdate(t *testing.T) {
	env := newCLIEnv(t)
	env.srv.RegisterUser(t, "ada", "ada@example.com", "secret123")
	env.srv.RegisterUser(t, "grace", "grace@example.com", "pw")
	env.mustRun(t, "", "login", "--email", "ada@example.com", "--password", "secret123")

	res, err := env.run(t, "", "profile", "update", "--username", "ada")
	requireExitCode(t, err, exitFailure)
	if res.Error != "no changes to save" {
		t.Fatalf("unexpected result %+v", res)
	}
	res, err = env.run(t, "", "profile", "update", "--username", "grace")
	requireExitCode(t, err, exitFailure)
	if res.Error != "Username already taken" {
		t.Fatalf("unexpected result %+v", res)
	}
	env.mustRun(t, "", "profile", "update", "--username", "lovelace")

	res = env.mustRun(t, "", "whoami")
	if !hasDetail(res, "user=lovelace") {
		t.Fatalf("expected refreshed profile, got %v", res.Details)
	}
}

func TestDoctor(t *testing.T) {
	env := newCLIEnv(t)

	res := env.mustRun(t, "", "doctor")
	for _, want := range []string{"api_url=" + env.srv.URL, "token_store=file token=absent", "backend=ok courses=3", "session=anonymous"} {
		if !hasDetail(res, want) {
			t.Fatalf("missing %q in %v", want, res.Details)
		}
	}
}

func TestDoctorReportsUnreachableBackend(t *testing.T) {
	env := newCLIEnv(t)
	env.srv.Close()

	res, err := env.run(t, "", "doctor")
	requireExitCode(t, err, exitFailure)
	if !hasDetail(res, "backend=unreachable") {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestShellRefusesCIMode(t *testing.T) {
	env := newCLIEnv(t)

	res, err := env.run(t, "", "shell")
	requireExitCode(t, err, exitFailure)
	if res.OK {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestExecuteExitCodes(t *testing.T) {
	newCLIEnv(t)

	if code := Execute(context.Background(), []string{"no-such-command"}); code != exitUsage {
		t.Fatalf("expected usage exit code, got %d", code)
	}
	t.Setenv("DEXNOTE_TOKEN_STORE", "carrier-pigeon")
	if code := Execute(context.Background(), []string{"doctor", "--ci", "--env-file", ""}); code != exitFailure {
		t.Fatalf("expected failure exit code, got %d", code)
	}
}
