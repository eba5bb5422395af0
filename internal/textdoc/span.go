package textdoc

import (
	"github.com/leijiancd/vetur/internal/engine"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SpanRange converts an engine span into an LSP range of this document.
func (d *Document) SpanRange(span engine.TextSpan) protocol.Range {
	return d.Range(span.Start, span.End())
}

// RangeSpan converts an LSP range of this document into an engine span.
func (d *Document) RangeSpan(r protocol.Range) engine.TextSpan {
	start := d.OffsetAt(r.Start)
	end := d.OffsetAt(r.End)
	return engine.TextSpan{Start: start, Length: end - start}
}
