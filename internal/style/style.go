// Package style tracks the cumulative rendering state of log text.
package style

import (
	"encoding/json"
	"fmt"

	"github.com/user/logtree/internal/ansi"
)

type colorKind uint8

const (
	colorNone colorKind = iota
	colorBit8
	colorBit24
)

// Color is an optional terminal color: unset, an 8-bit palette index, or a
// 24-bit RGB triple. The zero value is unset. Comparable by value.
type Color struct {
	kind    colorKind
	index   uint8
	r, g, b uint8
}

// Bit8 returns an 8-bit palette color.
func Bit8(n uint8) Color { return Color{kind: colorBit8, index: n} }

// Bit24 returns a 24-bit RGB color.
func Bit24(r, g, b uint8) Color { return Color{kind: colorBit24, r: r, g: g, b: b} }

// IsSet reports whether the color is set.
func (c Color) IsSet() bool { return c.kind != colorNone }

// Index returns the palette index for an 8-bit color.
func (c Color) Index() (uint8, bool) { return c.index, c.kind == colorBit8 }

// RGB returns the components of a 24-bit color.
func (c Color) RGB() (r, g, b uint8, ok bool) { return c.r, c.g, c.b, c.kind == colorBit24 }

// MarshalJSON encodes 8-bit colors as a bare integer and 24-bit colors as a
// 3-element array.
func (c Color) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case colorBit8:
		return []byte(fmt.Sprintf("%d", c.index)), nil
	case colorBit24:
		return []byte(fmt.Sprintf("[%d,%d,%d]", c.r, c.g, c.b)), nil
	default:
		return []byte("null"), nil
	}
}

// Styles is the resolved rendering state at a content offset: the fold of
// every decoder event seen so far plus the current search-highlight state.
// Comparable by value; adjacent text runs with equal Styles coalesce.
type Styles struct {
	Bold      bool
	Italic    bool
	Underline bool
	Highlight bool
	Fg        Color
	Bg        Color
}

// IsEmpty reports whether no ANSI-derived styling is active. Highlight is a
// search concern and does not count.
func (s Styles) IsEmpty() bool {
	return !s.Bold && !s.Italic && !s.Underline && !s.Fg.IsSet() && !s.Bg.IsSet()
}

// Apply folds one decoder event into the state. Reset clears every
// ANSI-derived field but leaves Highlight alone: a terminal reset must not
// wipe search highlighting layered on top.
func (s *Styles) Apply(seq ansi.Sequence) {
	switch seq.Kind {
	case ansi.KindReset:
		s.Bold = false
		s.Italic = false
		s.Underline = false
		s.Fg = Color{}
		s.Bg = Color{}
	case ansi.KindBold:
		s.Bold = true
	case ansi.KindItalic:
		s.Italic = true
	case ansi.KindUnderline:
		s.Underline = true
	case ansi.KindNotBold:
		s.Bold = false
	case ansi.KindNotItalic:
		s.Italic = false
	case ansi.KindNotUnderline:
		s.Underline = false
	case ansi.KindSetFG8:
		s.Fg = Bit8(seq.N)
	case ansi.KindDefaultFG:
		s.Fg = Color{}
	case ansi.KindSetBG8:
		s.Bg = Bit8(seq.N)
	case ansi.KindDefaultBG:
		s.Bg = Color{}
	case ansi.KindSetFG24:
		s.Fg = Bit24(seq.R, seq.G, seq.B)
	case ansi.KindSetBG24:
		s.Bg = Bit24(seq.R, seq.G, seq.B)
	}
}

// ApplyAll folds a slice of events in order.
func (s *Styles) ApplyAll(seqs []ansi.Sequence) {
	for _, seq := range seqs {
		s.Apply(seq)
	}
}

type stylesJSON struct {
	Bold      bool            `json:"bold,omitempty"`
	Italic    bool            `json:"italic,omitempty"`
	Underline bool            `json:"underline,omitempty"`
	Highlight bool            `json:"highlight,omitempty"`
	Fg        json.RawMessage `json:"fg,omitempty"`
	Bg        json.RawMessage `json:"bg,omitempty"`
}

// MarshalJSON emits the compact form: boolean fields only when true, colors
// only when set.
func (s Styles) MarshalJSON() ([]byte, error) {
	out := stylesJSON{
		Bold:      s.Bold,
		Italic:    s.Italic,
		Underline: s.Underline,
		Highlight: s.Highlight,
	}
	if s.Fg.IsSet() {
		raw, err := s.Fg.MarshalJSON()
		if err != nil {
			return nil, err
		}
		out.Fg = raw
	}
	if s.Bg.IsSet() {
		raw, err := s.Bg.MarshalJSON()
		if err != nil {
			return nil, err
		}
		out.Bg = raw
	}
	return json.Marshal(out)
}
