package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/user/logtree/internal/config"
	"github.com/user/logtree/internal/document"
	"github.com/user/logtree/internal/style"
)

// Renderer turns parsed lines and their element trees back into styled
// terminal output.
type Renderer struct {
	cfg *config.Config

	timestampStyle lipgloss.Style
	groupStyle     lipgloss.Style
	linkStyle      lipgloss.Style
	highlightStyle lipgloss.Style
	commandStyles  map[document.Command]lipgloss.Style
}

// New creates a renderer from config.
func New(cfg *config.Config) *Renderer {
	theme := cfg.Theme
	return &Renderer{
		cfg:            cfg,
		timestampStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Timestamp)),
		groupStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color(theme.GroupHeader)).Bold(true),
		linkStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Link)).Underline(true),
		highlightStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.HighlightFg)).Background(lipgloss.Color(theme.HighlightBg)),
		commandStyles: map[document.Command]lipgloss.Style{
			document.CmdDebug:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Commands.Debug)),
			document.CmdError:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Commands.Error)),
			document.CmdInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Commands.Info)),
			document.CmdNotice:  lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Commands.Notice)),
			document.CmdWarning: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Commands.Warning)),
		},
	}
}

// Line renders a single line's element tree. Group headers get a chevron
// reflecting their expanded state; command-tagged lines are tinted per
// theme when their elements carry no styling of their own.
func (r *Renderer) Line(line *document.Line, expanded bool) string {
	var b strings.Builder

	if r.cfg.Display.ShowTimestamps {
		ts := time.UnixMilli(line.TS).UTC().Format("15:04:05")
		b.WriteString(r.timestampStyle.Render(ts + " "))
	}

	if line.Group != nil {
		chevron := "▸ "
		if expanded {
			chevron = "▾ "
		}
		b.WriteString(r.groupStyle.Render(chevron + line.Content))
		return b.String()
	}

	base, tinted := r.commandStyles[line.Cmd]
	for _, el := range line.Elements {
		if el.IsLink() {
			b.WriteString(r.link(el))
			continue
		}
		b.WriteString(r.text(el, base, tinted))
	}
	return b.String()
}

// link renders a hyperlink node: styled children wrapped in an OSC 8
// reference so capable terminals make it clickable.
func (r *Renderer) link(el document.Element) string {
	var b strings.Builder
	for _, child := range el.Children {
		if child.Styles.IsEmpty() && !child.Styles.Highlight {
			b.WriteString(r.linkStyle.Render(child.Text))
		} else {
			b.WriteString(r.text(child, r.linkStyle, true))
		}
	}
	return termenv.Hyperlink(el.Href, b.String())
}

func (r *Renderer) text(el document.Element, base lipgloss.Style, tinted bool) string {
	s := el.Styles
	switch {
	case s.Highlight:
		// search highlight wins over everything else
		return r.highlightStyle.Render(el.Text)
	case s.IsEmpty() && tinted:
		return base.Render(el.Text)
	case s.IsEmpty():
		return el.Text
	default:
		return styleFor(s).Render(el.Text)
	}
}

// styleFor maps resolved document styles onto a lipgloss style.
func styleFor(s style.Styles) lipgloss.Style {
	out := lipgloss.NewStyle().
		Bold(s.Bold).
		Italic(s.Italic).
		Underline(s.Underline)
	if c, ok := terminalColor(s.Fg); ok {
		out = out.Foreground(c)
	}
	if c, ok := terminalColor(s.Bg); ok {
		out = out.Background(c)
	}
	return out
}

func terminalColor(c style.Color) (lipgloss.Color, bool) {
	if n, ok := c.Index(); ok {
		return lipgloss.Color(strconv.Itoa(int(n))), true
	}
	if r, g, b, ok := c.RGB(); ok {
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b)), true
	}
	return "", false
}
