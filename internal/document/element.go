package document

import (
	"encoding/json"

	"github.com/user/logtree/internal/style"
)

// Element is one node of a line's render tree: a styled text run, or a
// hyperlink wrapping styled text runs. Text and Href/Children are mutually
// exclusive.
type Element struct {
	Text     string
	Styles   style.Styles
	Href     string
	Children []Element
}

// IsLink reports whether the element is a hyperlink node.
func (e Element) IsLink() bool { return e.Href != "" }

// MarshalJSON emits {text, styles?} for text nodes and {href, children} for
// links. Styles are omitted entirely when empty and unhighlighted.
func (e Element) MarshalJSON() ([]byte, error) {
	if e.IsLink() {
		children := e.Children
		if children == nil {
			children = []Element{}
		}
		return json.Marshal(struct {
			Href     string    `json:"href"`
			Children []Element `json:"children"`
		}{e.Href, children})
	}

	out := struct {
		Text   string        `json:"text"`
		Styles *style.Styles `json:"styles,omitempty"`
	}{Text: e.Text}
	if !e.Styles.IsEmpty() || e.Styles.Highlight {
		out.Styles = &e.Styles
	}
	return json.Marshal(out)
}

// builder is the single-pass accumulator that folds the three independent
// span layers (ANSI styles, search highlights, link ranges) into a flat
// element list. At most one link is open at a time; links never nest.
type builder struct {
	elements  []Element
	linkElems []Element
	text      []byte
	styles    style.Styles

	// end offsets of the currently open highlight/link, -1 when closed
	endHighlight int
	endLink      int
	href         string
}

func newBuilder() *builder {
	return &builder{endHighlight: -1, endLink: -1}
}

// buildElements walks the line's scrubbed content once, splitting text
// exactly where the resolved styles change. Span boundaries are byte
// offsets, so events are checked per byte position while text accumulates
// rune by rune.
func buildElements(l *Line) []Element {
	b := newBuilder()

	for i, ch := range l.Content {
		newStyles := b.styles

		if end, ok := l.Links[i]; ok {
			b.flush()
			b.startLink(end, l.Content[i:end])
		}

		if b.endLink == i {
			b.flush()
			b.closeLink()
		}

		if end, ok := l.Highlights[i]; ok {
			newStyles.Highlight = true
			b.endHighlight = end
		}

		if b.endHighlight == i {
			newStyles.Highlight = false
			b.endHighlight = -1
		}

		if seqs, ok := l.ANSIs[i]; ok {
			newStyles.ApplyAll(seqs)
		}

		if newStyles != b.styles {
			b.flush()
			b.styles = newStyles
		}

		b.text = append(b.text, string(ch)...)
	}

	b.flush()
	if b.inLink() {
		b.closeLink()
	}

	return b.elements
}

// flush emits the pending text as an element under the current styles; a
// no-op when nothing is pending.
func (b *builder) flush() {
	if len(b.text) == 0 {
		return
	}

	el := Element{Text: string(b.text), Styles: b.styles}
	if b.inLink() {
		b.linkElems = append(b.linkElems, el)
	} else {
		b.elements = append(b.elements, el)
	}
	b.text = b.text[:0]
}

func (b *builder) inLink() bool { return b.endLink >= 0 }

func (b *builder) startLink(end int, href string) {
	b.endLink = end
	b.href = href
}

func (b *builder) closeLink() {
	b.elements = append(b.elements, Element{
		Href:     b.href,
		Children: b.linkElems,
	})
	b.linkElems = nil
	b.endLink = -1
	b.href = ""
}
