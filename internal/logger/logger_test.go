package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedactAttr(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		want string
	}{
		{
			name: "password key",
			attr: slog.String("password", "hunter2hunter2"),
			want: redactedValue,
		},
		{
			name: "authorization header",
			attr: slog.String("Authorization", "Bearer abc.def.ghi"),
			want: redactedValue,
		},
		{
			name: "bearer value under neutral key",
			attr: slog.String("value", "Bearer abc.def.ghi"),
			want: "Bearer " + redactedValue,
		},
		{
			name: "session token key",
			attr: slog.String("session_token", "abc"),
			want: redactedValue,
		},
		{
			name: "empty sensitive value kept",
			attr: slog.String("token", ""),
			want: "",
		},
		{
			name: "ordinary attribute kept",
			attr: slog.String("path", "/users/me"),
			want: "/users/me",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RedactAttr(nil, tt.attr)
			if got.Value.String() != tt.want {
				t.Errorf("RedactAttr() = %q, want %q", got.Value.String(), tt.want)
			}
		})
	}
}

func TestRedactToken(t *testing.T) {
	if got := RedactToken("abc"); got != "****" {
		t.Errorf("RedactToken(short) = %q", got)
	}
	if got := RedactToken("eyJhbGciOiJIUzI1NiJ9.payload.sig1234"); got != "****1234" {
		t.Errorf("RedactToken(long) = %q", got)
	}
}

func TestContextWithLogAttrs(t *testing.T) {
	parent := ContextWithLogAttrs(context.Background(), slog.String("operation", "login"))
	child := ContextWithLogAttrs(parent, slog.String("game_id", "g1"))

	if got := len(ContextLogAttrs(parent)); got != 1 {
		t.Errorf("parent attrs = %d, want 1 (parent must not be modified)", got)
	}
	if got := len(ContextLogAttrs(child)); got != 2 {
		t.Errorf("child attrs = %d, want 2", got)
	}
	if ContextLogAttrs(context.Background()) != nil {
		t.Error("expected no attrs on a bare context")
	}
}

func TestRequestLogging(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{"success", http.StatusOK, "INFO"},
		{"client error", http.StatusNotFound, "WARN"},
		{"server error", http.StatusBadGateway, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			var buf bytes.Buffer
			logger := NewLogger(&buf, slog.LevelDebug, "test")

			client := &http.Client{Transport: RequestLogging(logger)(http.DefaultTransport)}

			ctx := ContextWithLogAttrs(context.Background(), slog.String("operation", "get_game"))
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/games/1", nil)
			if err != nil {
				t.Fatal(err)
			}
			req.Header.Set("Authorization", "Bearer secret-token-value")
			req.Header.Set(RequestIDHeader, "req-1")

			res, err := client.Do(req)
			if err != nil {
				t.Fatalf("Do() error = %v", err)
			}
			res.Body.Close()

			out := buf.String()
			if strings.Contains(out, "secret-token-value") {
				t.Fatalf("log output leaked the bearer token: %s", out)
			}

			var completed map[string]any
			for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
				var entry map[string]any
				if err := json.Unmarshal([]byte(line), &entry); err != nil {
					t.Fatalf("invalid log line %q: %v", line, err)
				}
				if entry["msg"] == "request completed" {
					completed = entry
				}
			}
			if completed == nil {
				t.Fatalf("no request completed entry in %s", out)
			}
			if completed["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", completed["level"], tt.wantLevel)
			}
			if completed["operation"] != "get_game" {
				t.Errorf("operation = %v, want get_game", completed["operation"])
			}
			if completed["request_id"] != "req-1" {
				t.Errorf("request_id = %v, want req-1", completed["request_id"])
			}
			if int(completed["status"].(float64)) != tt.status {
				t.Errorf("status = %v, want %d", completed["status"], tt.status)
			}
		})
	}
}

func TestRequestLoggingTransportFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, "test")

	failing := RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errDial
	})
	client := &http.Client{Transport: RequestLogging(logger)(failing)}

	_, err := client.Get("http://fulboost.invalid/games")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(buf.String(), "request failed") {
		t.Errorf("expected a request failed entry, got %s", buf.String())
	}
}

var errDial = &dialError{}

type dialError struct{}

func (*dialError) Error() string { return "dial tcp: connection refused" }
