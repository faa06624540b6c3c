// Package ansi extracts SGR escape sequences from raw log text.
//
// Only the `ESC [ <params> m` family is recognized. Recognized sequences are
// removed from the text and reported as typed events keyed by the byte offset
// they apply to in the scrubbed output; anything malformed is passed through
// verbatim.
package ansi

import (
	"strconv"
	"strings"
)

// Kind identifies the style change a Sequence carries.
type Kind uint8

const (
	KindReset Kind = iota + 1
	KindBold
	KindItalic
	KindUnderline
	KindNotBold
	KindNotItalic
	KindNotUnderline
	KindSetFG8
	KindDefaultFG
	KindSetBG8
	KindDefaultBG
	KindSetFG24
	KindSetBG24
)

// Sequence is a single decoded style change. Comparable by value.
type Sequence struct {
	Kind    Kind
	N       uint8 // palette index for KindSetFG8/KindSetBG8
	R, G, B uint8 // components for KindSetFG24/KindSetBG24
}

// Parameterless sequences.
var (
	Reset        = Sequence{Kind: KindReset}
	Bold         = Sequence{Kind: KindBold}
	Italic       = Sequence{Kind: KindItalic}
	Underline    = Sequence{Kind: KindUnderline}
	NotBold      = Sequence{Kind: KindNotBold}
	NotItalic    = Sequence{Kind: KindNotItalic}
	NotUnderline = Sequence{Kind: KindNotUnderline}
	DefaultFG    = Sequence{Kind: KindDefaultFG}
	DefaultBG    = Sequence{Kind: KindDefaultBG}
)

// SetFG8 sets the foreground to an 8-bit palette index.
func SetFG8(n uint8) Sequence { return Sequence{Kind: KindSetFG8, N: n} }

// SetBG8 sets the background to an 8-bit palette index.
func SetBG8(n uint8) Sequence { return Sequence{Kind: KindSetBG8, N: n} }

// SetFG24 sets the foreground to a 24-bit color.
func SetFG24(r, g, b uint8) Sequence { return Sequence{Kind: KindSetFG24, R: r, G: g, B: b} }

// SetBG24 sets the background to a 24-bit color.
func SetBG24(r, g, b uint8) Sequence { return Sequence{Kind: KindSetBG24, R: r, G: g, B: b} }

const esc = 0x1b

// Decode scans raw text for SGR escape sequences. It returns the text with
// all recognized sequences removed, and the decoded events keyed by the byte
// offset in the scrubbed text where each takes effect. Events landing on the
// same offset are appended in input order.
//
// A sequence is valid only if every parameter classifies; one bad code
// invalidates the whole group and the literal `ESC[<params>m` text is kept.
// An unterminated sequence (no 'm' before end of input) is kept as well.
func Decode(raw string) (string, map[int][]Sequence) {
	var scrubbed strings.Builder
	scrubbed.Grow(len(raw))
	events := make(map[int][]Sequence)

	for i := 0; i < len(raw); {
		if raw[i] != esc || i+1 >= len(raw) || raw[i+1] != '[' {
			// bare ESC and ordinary bytes pass through
			scrubbed.WriteByte(raw[i])
			i++
			continue
		}

		// consume until the terminating 'm'
		j := i + 2
		for j < len(raw) && raw[j] != 'm' {
			j++
		}
		if j == len(raw) {
			scrubbed.WriteString(raw[i:])
			break
		}

		if seqs := classify(raw[i+2 : j]); seqs != nil {
			// the escape itself emits no characters, so every event in
			// the group lands at the current scrubbed length
			off := scrubbed.Len()
			events[off] = append(events[off], seqs...)
		} else {
			scrubbed.WriteString(raw[i : j+1])
		}
		i = j + 1
	}

	return scrubbed.String(), events
}

// classify parses the parameter text between '[' and 'm' into sequences.
// Returns nil if any part fails to match.
func classify(params string) []Sequence {
	parts := strings.Split(params, ";")
	codes := make([]uint8, len(parts))
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return nil
		}
		codes[i] = uint8(n)
	}

	var seqs []Sequence
	for len(codes) > 0 {
		c := codes[0]
		switch {
		case c == 0:
			seqs = append(seqs, Reset)
			codes = codes[1:]
		case c == 1:
			seqs = append(seqs, Bold)
			codes = codes[1:]
		case c == 3:
			seqs = append(seqs, Italic)
			codes = codes[1:]
		case c == 4:
			seqs = append(seqs, Underline)
			codes = codes[1:]
		case c == 22:
			seqs = append(seqs, NotBold)
			codes = codes[1:]
		case c == 23:
			seqs = append(seqs, NotItalic)
			codes = codes[1:]
		case c == 24:
			seqs = append(seqs, NotUnderline)
			codes = codes[1:]
		case c >= 30 && c <= 37:
			seqs = append(seqs, SetFG8(c-30))
			codes = codes[1:]
		case c == 38:
			seq, n := extended(codes, SetFG8, SetFG24)
			if n == 0 {
				return nil
			}
			seqs = append(seqs, seq)
			codes = codes[n:]
		case c == 39:
			seqs = append(seqs, DefaultFG)
			codes = codes[1:]
		case c >= 40 && c <= 47:
			seqs = append(seqs, SetBG8(c-40))
			codes = codes[1:]
		case c == 48:
			seq, n := extended(codes, SetBG8, SetBG24)
			if n == 0 {
				return nil
			}
			seqs = append(seqs, seq)
			codes = codes[n:]
		case c == 49:
			seqs = append(seqs, DefaultBG)
			codes = codes[1:]
		case c >= 90 && c <= 97:
			// high intensity maps to palette indices 8-15
			seqs = append(seqs, SetFG8(c-90+8))
			codes = codes[1:]
		case c >= 100 && c <= 107:
			seqs = append(seqs, SetBG8(c-100+8))
			codes = codes[1:]
		default:
			return nil
		}
	}
	return seqs
}

// extended handles the 38/48 forms: `;5;<n>` (8-bit, consumes 3 codes) and
// `;2;<r>;<g>;<b>` (24-bit, consumes 5). Returns the consumed count, 0 on
// no match. Parameter range is already enforced by the uint8 parse.
func extended(codes []uint8, bit8 func(uint8) Sequence, bit24 func(r, g, b uint8) Sequence) (Sequence, int) {
	switch {
	case len(codes) >= 3 && codes[1] == 5:
		return bit8(codes[2]), 3
	case len(codes) >= 5 && codes[1] == 2:
		return bit24(codes[2], codes[3], codes[4]), 5
	default:
		return Sequence{}, 0
	}
}
