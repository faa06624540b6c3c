package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
)

// Colorizer pushes raw lines through a syntax highlighter before parsing.
// The highlighter emits plain SGR escape sequences, so its output flows
// through the decoder exactly like ANSI already present in the log.
type Colorizer struct {
	lexerName   string
	syntaxTheme string
}

// NewColorizer creates a colorizer for the named chroma lexer; an unknown
// name falls back to plaintext.
func NewColorizer(lexerName string) *Colorizer {
	lexer := lexers.Get(lexerName)
	name := "plaintext"
	if lexer != nil {
		name = lexer.Config().Name
	}

	return &Colorizer{
		lexerName:   name,
		syntaxTheme: "monokai",
	}
}

// Colorize highlights one raw line. On any failure the line comes back
// unmodified.
func (c *Colorizer) Colorize(raw string) string {
	if raw == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, raw, c.lexerName, "terminal16m", c.syntaxTheme); err != nil {
		return raw
	}

	// quick.Highlight appends line breaks of its own
	out := buf.String()
	out = strings.ReplaceAll(out, "\n", "")
	out = strings.ReplaceAll(out, "\r", "")
	return out
}
