package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		verbose, quiet bool
		want           hclog.Level
	}{
		{false, false, hclog.Info},
		{true, false, hclog.Debug},
		{false, true, hclog.Off},
		{true, true, hclog.Off},
	}

	for _, tt := range tests {
		if got := LevelFor(tt.verbose, tt.quiet); got != tt.want {
			t.Errorf("LevelFor(%v, %v) = %s, want %s", tt.verbose, tt.quiet, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	quiet := New("audit", &buf, false)
	quiet.Debug("hidden")
	quiet.Info("palette generated", "base", "#1a365d")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line logged without verbose:\n%s", out)
	}
	if !strings.Contains(out, "audit: palette generated") || !strings.Contains(out, "base=#1a365d") {
		t.Errorf("unexpected output:\n%s", out)
	}

	buf.Reset()
	loud := New("audit", &buf, true)
	loud.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug line missing with verbose:\n%s", buf.String())
	}
}

func TestNewWithLevelOff(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel("serve", &buf, hclog.Off)
	l.Error("boom")
	if buf.Len() != 0 {
		t.Errorf("Off logger wrote %q", buf.String())
	}
}
