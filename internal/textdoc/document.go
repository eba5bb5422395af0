package textdoc

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Document is an immutable snapshot of a text document at one version.
type Document struct {
	URI        protocol.DocumentUri
	LanguageID string
	Version    protocol.Integer
	Text       string

	lineOffsets []int
}

func New(uri protocol.DocumentUri, languageID string, version protocol.Integer, text string) *Document {
	return &Document{
		URI:        uri,
		LanguageID: languageID,
		Version:    version,
		Text:       text,
	}
}

// LineCount returns the number of lines, counting a trailing empty line.
func (d *Document) LineCount() int {
	return len(d.lines())
}

// lines returns the byte offset of the start of every line.
func (d *Document) lines() []int {
	if d.lineOffsets != nil {
		return d.lineOffsets
	}
	offsets := []int{0}
	for i := 0; i < len(d.Text); i++ {
		if d.Text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	d.lineOffsets = offsets
	return offsets
}

// OffsetAt converts an LSP position (UTF-16 columns) to a byte offset.
// Lines past the end clamp to the end of the text, columns past the end of
// a line clamp to the line end.
func (d *Document) OffsetAt(pos protocol.Position) int {
	lines := d.lines()
	if int(pos.Line) >= len(lines) {
		return len(d.Text)
	}
	start := lines[pos.Line]
	end := len(d.Text)
	if int(pos.Line)+1 < len(lines) {
		end = lines[pos.Line+1] - 1
	}

	offset := start
	var units uint32
	for offset < end && units < pos.Character {
		r, w := utf8.DecodeRuneInString(d.Text[offset:])
		n := uint32(1)
		if r > 0xFFFF {
			n = 2
		}
		if units+n > pos.Character {
			break
		}
		units += n
		offset += w
	}
	return offset
}

// PositionAt converts a byte offset to an LSP position.
func (d *Document) PositionAt(offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.Text) {
		offset = len(d.Text)
	}
	lines := d.lines()
	line := sort.Search(len(lines), func(i int) bool { return lines[i] > offset }) - 1

	// Count UTF-16 code units in the line prefix
	var character uint32
	for _, r := range d.Text[lines[line]:offset] {
		if r > 0xFFFF {
			character += 2
		} else {
			character++
		}
	}
	return protocol.Position{Line: uint32(line), Character: character}
}

// Range builds the range enclosing the byte offsets [start, end).
func (d *Document) Range(start, end int) protocol.Range {
	return protocol.Range{Start: d.PositionAt(start), End: d.PositionAt(end)}
}

// Apply returns a new snapshot with the content changes applied in order.
func (d *Document) Apply(version protocol.Integer, changes []any) (*Document, error) {
	text := d.Text
	for _, raw := range changes {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEvent:
			if change.Range == nil {
				text = change.Text
				continue
			}
			text = ApplyTextEdit(text, *change.Range, change.Text)
		case protocol.TextDocumentContentChangeEventWhole:
			text = change.Text
		default:
			return nil, fmt.Errorf("unexpected change event type %T", raw)
		}
	}
	return New(d.URI, d.LanguageID, version, text), nil
}

// ApplyTextEdit splices newText into text over the given range.
func ApplyTextEdit(text string, r protocol.Range, newText string) string {
	doc := Document{Text: text}
	start := doc.OffsetAt(r.Start)
	end := doc.OffsetAt(r.End)
	if end < start {
		start, end = end, start
	}
	var b strings.Builder
	b.Grow(len(text) - (end - start) + len(newText))
	b.WriteString(text[:start])
	b.WriteString(newText)
	b.WriteString(text[end:])
	return b.String()
}
