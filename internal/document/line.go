// Package document models parsed CI log lines and the styled element trees
// derived from them.
package document

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"mvdan.cc/xurls/v2"

	"github.com/user/logtree/internal/ansi"
)

// tsPrefixLen is the byte length of the RFC3339-like prefix emitted by
// completed workflow logs, e.g. "2024-01-15T00:14:43.5805748Z".
const tsPrefixLen = 28

var urlPattern = func() *regexp.Regexp {
	re, err := xurls.StrictMatchingScheme("https?://")
	if err != nil {
		panic(err)
	}
	return re
}()

// Line is one parsed input record. Content, links, ansis and highlights are
// internal working state; only the derived elements are serialized.
type Line struct {
	TS         int64
	Number     int
	Cmd        Command
	Content    string
	Links      map[int]int
	ANSIs      map[int][]ansi.Sequence
	Highlights map[int]int
	Group      *Group
	Elements   []Element
}

// Group holds the children of a line that opened a `##[group]` section.
// Only one level of nesting exists: children never carry groups.
type Group struct {
	Children []*Line
	Ended    bool
}

// NewLine parses one raw input line. id, when non-empty, is an externally
// assigned token of the form "<unix-millis>-<sequence>" used for streamed
// lines that lack an embedded timestamp prefix.
func NewLine(number int, id, raw string) *Line {
	ts, content := parseTimestamp(id, raw)
	cmd, content := parseCommand(content)
	content, ansis := ansi.Decode(content)

	links := make(map[int]int)
	for _, loc := range urlPattern.FindAllStringIndex(content, -1) {
		links[loc[0]] = loc[1]
	}

	l := &Line{
		TS:         ts,
		Number:     number,
		Cmd:        cmd,
		Content:    content,
		Links:      links,
		ANSIs:      ansis,
		Highlights: make(map[int]int),
	}
	l.Elements = buildElements(l)
	return l
}

// parseTimestamp resolves the line's instant, in priority order: a leading
// RFC3339-like prefix (stripped along with its separator), the unix-millis
// half of the id, then the current wall clock. Never fails.
func parseTimestamp(id, raw string) (int64, string) {
	if len(raw) >= tsPrefixLen {
		if ts, err := time.Parse(time.RFC3339Nano, raw[:tsPrefixLen]); err == nil {
			content := ""
			if len(raw) > tsPrefixLen {
				// skip the timestamp and the separator after it
				content = raw[tsPrefixLen+1:]
			}
			return ts.UnixMilli(), content
		}
	}

	if millis, _, found := strings.Cut(id, "-"); found {
		if ts, err := strconv.ParseInt(millis, 10, 64); err == nil {
			return ts, raw
		}
	}

	return time.Now().UnixMilli(), raw
}

// parseCommand strips a recognized `##[name]` or `[name]` prefix. An
// unrecognized name leaves the content untouched, bracket text included.
func parseCommand(raw string) (Command, string) {
	var start int
	switch {
	case strings.HasPrefix(raw, "##["):
		start = 3
	case strings.HasPrefix(raw, "["):
		start = 1
	default:
		return CmdNone, raw
	}

	end := strings.Index(raw[start:], "]")
	if end < 0 {
		return CmdNone, raw
	}

	cmd := ParseCommand(raw[start : start+end])
	if cmd == CmdNone {
		return CmdNone, raw
	}
	return cmd, raw[start+end+1:]
}

// Highlight recomputes the line's highlight spans for a search term and
// rebuilds its elements, cascading into any children. Matching is
// case-insensitive and non-overlapping, left to right. An empty term clears.
func (l *Line) Highlight(term string) {
	if term == "" {
		had := len(l.Highlights) > 0
		l.Highlights = make(map[int]int)
		if had {
			l.Elements = buildElements(l)
		}
		if l.Group != nil {
			for _, child := range l.Group.Children {
				child.Highlight(term)
			}
		}
		return
	}

	needle := strings.ToLower(term)
	haystack := strings.ToLower(l.Content)

	l.Highlights = make(map[int]int)
	for from := 0; ; {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			break
		}
		start := from + i
		l.Highlights[start] = start + len(needle)
		from = start + len(needle)
	}

	l.Elements = buildElements(l)

	if l.Group != nil {
		for _, child := range l.Group.Children {
			child.Highlight(term)
		}
	}
}

// Matches returns the line's highlight span count plus its children's.
func (l *Line) Matches() int {
	n := len(l.Highlights)
	if l.Group != nil {
		for _, child := range l.Group.Children {
			n += len(child.Highlights)
		}
	}
	return n
}

// StartGroup marks the line as an open group.
func (l *Line) StartGroup() {
	if l.Group == nil {
		l.Group = &Group{}
	}
}

// EndGroup closes the line's group, if any.
func (l *Line) EndGroup() {
	if l.Group != nil {
		l.Group.Ended = true
	}
}

// AddChild appends a child line, opening a group if none exists.
func (l *Line) AddChild(child *Line) {
	if l.Group == nil {
		l.Group = &Group{}
	}
	l.Group.Children = append(l.Group.Children, child)
}

// MarshalJSON keeps a freshly opened group's children as [] rather than null.
func (g *Group) MarshalJSON() ([]byte, error) {
	children := g.Children
	if children == nil {
		children = []*Line{}
	}
	return json.Marshal(struct {
		Children []*Line `json:"children"`
		Ended    bool    `json:"ended"`
	}{children, g.Ended})
}

type lineJSON struct {
	TS       int64     `json:"ts"`
	N        int       `json:"n"`
	Cmd      Command   `json:"cmd,omitempty"`
	Group    *Group    `json:"group,omitempty"`
	Elements []Element `json:"elements"`
}

// MarshalJSON emits the external form: {ts, n, cmd?, group?, elements}.
// Working state (content and the offset maps) stays internal.
func (l *Line) MarshalJSON() ([]byte, error) {
	elements := l.Elements
	if elements == nil {
		elements = []Element{}
	}
	return json.Marshal(lineJSON{
		TS:       l.TS,
		N:        l.Number,
		Cmd:      l.Cmd,
		Group:    l.Group,
		Elements: elements,
	})
}
