package shared

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestSetLogLevel(t *testing.T) {
	tc := []struct {
		name    string
		level   string
		want    log.Level
		wantErr bool
	}{
		{name: "debug", level: "debug", want: log.DebugLevel},
		{name: "mixed case", level: "WARN", want: log.WarnLevel},
		{name: "empty keeps current", level: "", want: log.InfoLevel},
		{name: "unknown", level: "loud", want: log.InfoLevel, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLogger(&bytes.Buffer{})
			l.SetLevel(log.InfoLevel)

			err := SetLogLevel(l, tt.level)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}

			if l.GetLevel() != tt.want {
				t.Errorf("expected level %v, got %v", tt.want, l.GetLevel())
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := WithLogger(NewLogger(&buf), "component", "test")
	l.Info("hello")

	if !strings.Contains(buf.String(), "component=test") {
		t.Errorf("expected child logger fields in output, got %q", buf.String())
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique ids")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("expected a valid uuid, got %q", a)
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]int{"a": 1}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(compact) != `{"a":1}` {
		t.Errorf("unexpected compact output %s", compact)
	}

	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(string(pretty), "\n  \"a\": 1") {
		t.Errorf("unexpected pretty output %s", pretty)
	}
}

func TestBrowserCommand(t *testing.T) {
	tc := []struct {
		name    string
		goos    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "darwin", goos: "darwin", url: "http://localhost:3001/", want: "open"},
		{name: "linux", goos: "linux", url: "http://localhost:3001/", want: "xdg-open"},
		{name: "windows", goos: "windows", url: "https://example.com", want: "rundll32"},
		{name: "unsupported", goos: "plan9", url: "http://localhost:3001/", wantErr: true},
		{name: "non-http scheme", goos: "linux", url: "file:///etc/passwd", wantErr: true},
		{name: "relative", goos: "linux", url: "/callback", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			name, args, err := browserCommand(tt.goos, tt.url)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %s %v", name, args)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if name != tt.want || args[len(args)-1] != tt.url {
				t.Errorf("unexpected command %s %v", name, args)
			}
		})
	}
}
