package render

import (
	"strings"
	"testing"

	"github.com/user/logtree/internal/config"
	"github.com/user/logtree/internal/document"
)

func TestLinePlain(t *testing.T) {
	r := New(config.DefaultConfig())
	line := document.NewLine(1, "", "plain text")

	out := r.Line(line, false)
	if !strings.Contains(out, "plain text") {
		t.Fatalf("rendered %q, want content present", out)
	}
}

func TestLineGroupChevron(t *testing.T) {
	r := New(config.DefaultConfig())
	line := document.NewLine(1, "", "##[group]Build")
	line.StartGroup()

	collapsed := r.Line(line, false)
	if !strings.Contains(collapsed, "▸") {
		t.Fatalf("collapsed group missing chevron: %q", collapsed)
	}

	expanded := r.Line(line, true)
	if !strings.Contains(expanded, "▾") {
		t.Fatalf("expanded group missing chevron: %q", expanded)
	}
}

func TestLineLinkHyperlink(t *testing.T) {
	r := New(config.DefaultConfig())
	line := document.NewLine(1, "", "see https://example.com now")

	out := r.Line(line, false)
	// OSC 8 hyperlink envelope around the href
	if !strings.Contains(out, "https://example.com") {
		t.Fatalf("rendered %q, want href present", out)
	}
	if !strings.Contains(out, "\x1b]8;") {
		t.Fatalf("rendered %q, want OSC 8 sequence", out)
	}
}

func TestLineTimestamps(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.ShowTimestamps = true
	r := New(cfg)

	line := document.NewLine(1, "", "2024-01-15T10:30:45.0000000Z hello")
	out := r.Line(line, false)
	if !strings.Contains(out, "10:30:45") {
		t.Fatalf("rendered %q, want timestamp present", out)
	}
}

func TestColorizeFallback(t *testing.T) {
	c := NewColorizer("no-such-lexer")
	if got := c.Colorize(""); got != "" {
		t.Fatalf("empty input should stay empty, got %q", got)
	}
	out := c.Colorize("plain words")
	if !strings.Contains(out, "plain words") {
		t.Fatalf("colorized output lost content: %q", out)
	}
}

func TestColorizeEmitsSGR(t *testing.T) {
	c := NewColorizer("go")
	out := c.Colorize(`func main() {}`)
	if !strings.Contains(out, "\x1b[") {
		t.Fatalf("expected escape sequences in %q", out)
	}
	if strings.Contains(out, "\n") {
		t.Fatalf("colorized line must stay single-line: %q", out)
	}
}
