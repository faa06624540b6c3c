package style

import (
	"testing"

	"github.com/user/logtree/internal/ansi"
)

func TestApply(t *testing.T) {
	cases := []struct {
		name string
		seq  ansi.Sequence
		want Styles
	}{
		{"reset", ansi.Reset, Styles{}},
		{"bold", ansi.Bold, Styles{Bold: true}},
		{"italic", ansi.Italic, Styles{Italic: true}},
		{"underline", ansi.Underline, Styles{Underline: true}},
		{"not bold", ansi.NotBold, Styles{}},
		{"not italic", ansi.NotItalic, Styles{}},
		{"not underline", ansi.NotUnderline, Styles{}},
		{"fg 8bit", ansi.SetFG8(1), Styles{Fg: Bit8(1)}},
		{"default fg", ansi.DefaultFG, Styles{}},
		{"bg 8bit", ansi.SetBG8(1), Styles{Bg: Bit8(1)}},
		{"default bg", ansi.DefaultBG, Styles{}},
		{"fg 24bit", ansi.SetFG24(1, 2, 3), Styles{Fg: Bit24(1, 2, 3)}},
		{"bg 24bit", ansi.SetBG24(1, 2, 3), Styles{Bg: Bit24(1, 2, 3)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var s Styles
			s.Apply(tc.seq)
			if s != tc.want {
				t.Fatalf("Apply(%v) = %+v, want %+v", tc.seq, s, tc.want)
			}
		})
	}
}

func TestResetters(t *testing.T) {
	cases := []struct {
		name   string
		seq    ansi.Sequence
		before Styles
	}{
		{"reset clears everything", ansi.Reset, Styles{
			Bold: true, Italic: true, Underline: true,
			Fg: Bit8(1), Bg: Bit8(2),
		}},
		{"not bold", ansi.NotBold, Styles{Bold: true}},
		{"not italic", ansi.NotItalic, Styles{Italic: true}},
		{"not underline", ansi.NotUnderline, Styles{Underline: true}},
		{"default fg", ansi.DefaultFG, Styles{Fg: Bit8(1)}},
		{"default bg", ansi.DefaultBG, Styles{Bg: Bit8(1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.before
			s.Apply(tc.seq)
			if s != (Styles{}) {
				t.Fatalf("got %+v, want zero", s)
			}
		})
	}
}

func TestResetKeepsHighlight(t *testing.T) {
	s := Styles{Bold: true, Highlight: true}
	s.Apply(ansi.Reset)
	if s != (Styles{Highlight: true}) {
		t.Fatalf("got %+v, want highlight only", s)
	}
}

func TestIsEmpty(t *testing.T) {
	var s Styles
	if !s.IsEmpty() {
		t.Fatal("zero styles should be empty")
	}
	s.Bold = true
	if s.IsEmpty() {
		t.Fatal("bold styles should not be empty")
	}
	// highlight alone still counts as empty ANSI state
	if !(Styles{Highlight: true}).IsEmpty() {
		t.Fatal("highlight-only styles should be empty")
	}
}

func TestMarshalCompact(t *testing.T) {
	cases := []struct {
		name   string
		styles Styles
		want   string
	}{
		{"empty", Styles{}, `{}`},
		{"bold highlight", Styles{Bold: true, Highlight: true}, `{"bold":true,"highlight":true}`},
		{"palette fg", Styles{Fg: Bit8(6)}, `{"fg":6}`},
		{"truecolor bg", Styles{Bg: Bit24(1, 2, 3)}, `{"bg":[1,2,3]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.styles.MarshalJSON()
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}
