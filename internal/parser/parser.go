// Package parser ingests raw CI log lines into an ordered, group-aware
// document tree with incremental search.
package parser

import (
	"bufio"
	"encoding/json"
	"strings"

	"github.com/user/logtree/internal/document"
)

// Session is the top-level mutable parse state: the ordered top-level lines
// (some carrying group children), the next line number, and the active
// search term. It assumes a single logical writer; callers serialize access.
type Session struct {
	next   int
	lines  []*document.Line
	search string
}

// New returns an empty session. Line numbering starts at 1.
func New() *Session {
	return &Session{next: 1}
}

// Lines returns the top-level lines in ingest order. The slice is owned by
// the session; treat it as read-only.
func (s *Session) Lines() []*document.Line {
	return s.lines
}

// Reset discards all buffered lines and restarts numbering.
func (s *Session) Reset() {
	s.lines = nil
	s.next = 1
}

// inGroup reports whether the most recent top-level line is an open group.
func (s *Session) inGroup() bool {
	if len(s.lines) == 0 {
		return false
	}
	last := s.lines[len(s.lines)-1]
	return last.Group != nil && !last.Group.Ended
}

func (s *Session) endGroup() {
	if len(s.lines) > 0 {
		s.lines[len(s.lines)-1].EndGroup()
	}
}

// AddLine parses and stores one raw line. id, when non-empty, carries the
// streaming sequence token used for timestamp recovery.
//
// Group commands drive the one-level tree: a Group line implicitly closes
// any prior open group and becomes a new top-level entry; an EndGroup that
// matches an open group closes it and is itself discarded; an unmatched
// EndGroup is kept as an ordinary visible line.
func (s *Session) AddLine(id, raw string) {
	line := document.NewLine(s.next, id, raw)
	s.next++

	if s.search != "" {
		line.Highlight(s.search)
	}

	switch line.Cmd {
	case document.CmdEndGroup:
		if s.inGroup() {
			s.endGroup()
			return
		}
		s.lines = append(s.lines, line)
	case document.CmdGroup:
		s.endGroup()
		line.StartGroup()
		s.lines = append(s.lines, line)
	default:
		if s.inGroup() {
			s.lines[len(s.lines)-1].AddChild(line)
		} else {
			s.lines = append(s.lines, line)
		}
	}
}

// SetRaw replaces the session contents with a complete log buffer, ingesting
// it line by line.
func (s *Session) SetRaw(raw string) {
	s.Reset()
	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		s.AddLine("", scanner.Text())
	}
}

// SetSearch stores the lowercased term and re-highlights every buffered
// line, cascading into group children.
func (s *Session) SetSearch(term string) {
	s.search = strings.ToLower(term)
	for _, line := range s.lines {
		line.Highlight(s.search)
	}
}

// Search returns the active lowercased search term.
func (s *Session) Search() string {
	return s.search
}

// Matches returns the total highlight count across all lines and children.
func (s *Session) Matches() int {
	n := 0
	for _, line := range s.lines {
		n += line.Matches()
	}
	return n
}

// Serialize dumps the top-level lines as JSON. Only derived elements and
// group structure are externally visible; an encoding fault is the sole
// error the core surfaces.
func (s *Session) Serialize(pretty bool) (string, error) {
	lines := s.lines
	if lines == nil {
		lines = []*document.Line{}
	}

	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(lines, "", "  ")
	} else {
		out, err = json.Marshal(lines)
	}
	if err != nil {
		return "", err
	}
	return string(out), nil
}
