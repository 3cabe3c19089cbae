package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/sandeepkv93/dexnote-client/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q)=%v want %v", raw, got, want)
		}
	}
}

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&config.Config{LogLevel: "info", LogFormat: "json"}, &buf)
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record should be filtered at info level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Fatalf("expected json record, got %s", out)
	}
}

func TestFanoutHandlerWritesToEveryEnabledHandler(t *testing.T) {
	var a, b bytes.Buffer
	h := fanoutHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}
	logger := slog.New(h).With("component", "session")
	logger.Info("resolved")
	logger.Warn("demoted")

	if !strings.Contains(a.String(), "resolved") || !strings.Contains(a.String(), "demoted") {
		t.Fatalf("debug handler should see both records: %s", a.String())
	}
	if strings.Contains(b.String(), "resolved") || !strings.Contains(b.String(), "demoted") {
		t.Fatalf("warn handler should only see warn record: %s", b.String())
	}
	if !strings.Contains(b.String(), "component=session") {
		t.Fatalf("expected attrs to propagate: %s", b.String())
	}
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected fanout enabled when any handler is enabled")
	}
}

func TestAuditIncludesEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	Audit(context.Background(), logger, "session.logout", "user_id", "u1")
	if !strings.Contains(buf.String(), "event=session.logout") || !strings.Contains(buf.String(), "user_id=u1") {
		t.Fatalf("unexpected audit record: %s", buf.String())
	}
}
