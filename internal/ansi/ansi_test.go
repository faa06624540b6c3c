package ansi

import (
	"fmt"
	"reflect"
	"testing"
)

func TestDecodeReset(t *testing.T) {
	scrubbed, events := Decode("\x1b[0mreset\x1b[0m")
	if scrubbed != "reset" {
		t.Fatalf("scrubbed = %q, want reset", scrubbed)
	}
	want := map[int][]Sequence{
		0: {Reset},
		5: {Reset},
	}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}

func TestDecodeAttributes(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		scrubbed string
		events   map[int][]Sequence
	}{
		{
			"bold", "\x1b[1mbold\x1b[22m", "bold",
			map[int][]Sequence{0: {Bold}, 4: {NotBold}},
		},
		{
			"italic", "\x1b[3mitalic\x1b[23m", "italic",
			map[int][]Sequence{0: {Italic}, 6: {NotItalic}},
		},
		{
			"underline", "\x1b[4munderline\x1b[24m", "underline",
			map[int][]Sequence{0: {Underline}, 9: {NotUnderline}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scrubbed, events := Decode(tc.raw)
			if scrubbed != tc.scrubbed {
				t.Fatalf("scrubbed = %q, want %q", scrubbed, tc.scrubbed)
			}
			if !reflect.DeepEqual(events, tc.events) {
				t.Fatalf("events = %v, want %v", events, tc.events)
			}
		})
	}
}

func TestDecodeSingleParamCodes(t *testing.T) {
	// every recognized single-parameter code yields exactly one event at
	// offset 0 and scrubs down to the bare content
	cases := []struct {
		code int
		want Sequence
	}{
		{0, Reset},
		{1, Bold},
		{3, Italic},
		{4, Underline},
		{22, NotBold},
		{23, NotItalic},
		{24, NotUnderline},
		{39, DefaultFG},
		{49, DefaultBG},
	}
	for c := 30; c <= 37; c++ {
		cases = append(cases, struct {
			code int
			want Sequence
		}{c, SetFG8(uint8(c - 30))})
	}
	for c := 40; c <= 47; c++ {
		cases = append(cases, struct {
			code int
			want Sequence
		}{c, SetBG8(uint8(c - 40))})
	}
	for c := 90; c <= 97; c++ {
		cases = append(cases, struct {
			code int
			want Sequence
		}{c, SetFG8(uint8(c - 90 + 8))})
	}
	for c := 100; c <= 107; c++ {
		cases = append(cases, struct {
			code int
			want Sequence
		}{c, SetBG8(uint8(c - 100 + 8))})
	}

	for _, tc := range cases {
		raw := fmt.Sprintf("\x1b[%dmX", tc.code)
		scrubbed, events := Decode(raw)
		if scrubbed != "X" {
			t.Fatalf("code %d: scrubbed = %q, want X", tc.code, scrubbed)
		}
		if len(events) != 1 || len(events[0]) != 1 || events[0][0] != tc.want {
			t.Fatalf("code %d: events = %v, want {0: [%v]}", tc.code, events, tc.want)
		}
	}
}

func TestDecode8Bit(t *testing.T) {
	scrubbed, events := Decode("\x1b[38;5;111m8-bit\x1b[0m")
	if scrubbed != "8-bit" {
		t.Fatalf("scrubbed = %q", scrubbed)
	}
	want := map[int][]Sequence{0: {SetFG8(111)}, 5: {Reset}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}

	scrubbed, events = Decode("\x1b[48;5;111m8-bit\x1b[0m")
	if scrubbed != "8-bit" {
		t.Fatalf("scrubbed = %q", scrubbed)
	}
	want = map[int][]Sequence{0: {SetBG8(111)}, 5: {Reset}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}

func TestDecode24Bit(t *testing.T) {
	scrubbed, events := Decode("\x1b[38;2;100;110;111m24-bit\x1b[0m")
	if scrubbed != "24-bit" {
		t.Fatalf("scrubbed = %q", scrubbed)
	}
	want := map[int][]Sequence{0: {SetFG24(100, 110, 111)}, 6: {Reset}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}

	scrubbed, events = Decode("\x1b[48;2;100;110;111m24-bit\x1b[0m")
	want = map[int][]Sequence{0: {SetBG24(100, 110, 111)}, 6: {Reset}}
	if scrubbed != "24-bit" || !reflect.DeepEqual(events, want) {
		t.Fatalf("scrubbed = %q events = %v", scrubbed, events)
	}
}

func TestDecodeInvalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"8bit out of range", "\x1b[38;5;256m\x1b[48;5;256minvalid"},
		{"24bit out of range", "\x1b[38;2;256;100;100m\x1b[48;2;256;100;100minvalid"},
		{"unknown codes", "\x1b[1337minvalid\x1b[1337;1337;1337;1337mwithout an m:\x1b[0"},
		{"empty params", "\x1b[mfoo"},
		{"trailing semicolon", "\x1b[0;mfoo"},
		{"bare escape", "\x1b foo \x1b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scrubbed, events := Decode(tc.raw)
			if scrubbed != tc.raw {
				t.Fatalf("scrubbed = %q, want input unchanged", scrubbed)
			}
			if len(events) != 0 {
				t.Fatalf("events = %v, want none", events)
			}
		})
	}
}

func TestDecodeMultiSeq(t *testing.T) {
	scrubbed, events := Decode("\x1b[36;1mbold cyan\x1b[0m")
	if scrubbed != "bold cyan" {
		t.Fatalf("scrubbed = %q", scrubbed)
	}
	want := map[int][]Sequence{
		0: {SetFG8(6), Bold},
		9: {Reset},
	}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}

func TestDecodeAdjacentGroupsShareOffset(t *testing.T) {
	// two valid escape groups with no text between them append at the
	// same offset instead of overwriting each other
	_, events := Decode("\x1b[1m\x1b[3mx")
	want := map[int][]Sequence{0: {Bold, Italic}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}

func TestDecodeExtendedThenMore(t *testing.T) {
	// an 8-bit color followed by further codes in the same group
	scrubbed, events := Decode("\x1b[38;5;111;1mx")
	if scrubbed != "x" {
		t.Fatalf("scrubbed = %q", scrubbed)
	}
	want := map[int][]Sequence{0: {SetFG8(111), Bold}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}
