package server

import (
	"github.com/leijiancd/vetur/internal/mode"
	"github.com/leijiancd/vetur/internal/textdoc"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentCompletion(
	context *glsp.Context,
	params *protocol.CompletionParams,
) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return s.modeAt(doc, params.Position).DoComplete(doc, params.Position), nil
}

func (s *Server) completionItemResolve(
	context *glsp.Context,
	item *protocol.CompletionItem,
) (*protocol.CompletionItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	corr, ok := mode.DecodeCorrelation(item.Data)
	if !ok {
		return item, nil
	}
	doc := s.document(corr.URI)
	if doc == nil {
		return item, nil
	}
	return s.mode.DoResolve(doc, item), nil
}

func (s *Server) textDocumentHover(
	context *glsp.Context,
	params *protocol.HoverParams,
) (*protocol.Hover, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return s.modeAt(doc, params.Position).DoHover(doc, params.Position), nil
}

func (s *Server) textDocumentSignatureHelp(
	context *glsp.Context,
	params *protocol.SignatureHelpParams,
) (*protocol.SignatureHelp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return s.modeAt(doc, params.Position).DoSignatureHelp(doc, params.Position), nil
}

func (s *Server) textDocumentDocumentHighlight(
	context *glsp.Context,
	params *protocol.DocumentHighlightParams,
) ([]protocol.DocumentHighlight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return s.modeAt(doc, params.Position).FindDocumentHighlight(doc, params.Position), nil
}

func (s *Server) textDocumentDocumentSymbol(
	context *glsp.Context,
	params *protocol.DocumentSymbolParams,
) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return s.mode.FindDocumentSymbols(doc), nil
}

func (s *Server) textDocumentDefinition(
	context *glsp.Context,
	params *protocol.DefinitionParams,
) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return s.modeAt(doc, params.Position).FindDefinition(doc, params.Position), nil
}

func (s *Server) textDocumentReferences(
	context *glsp.Context,
	params *protocol.ReferenceParams,
) ([]protocol.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.document(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return s.modeAt(doc, params.Position).FindReferences(doc, params.Position), nil
}

// textDocumentFormatting formats the whole script region.
func (s *Server) textDocumentFormatting(
	context *glsp.Context,
	params *protocol.DocumentFormattingParams,
) ([]protocol.TextEdit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.document(params.TextDocument.URI)
	if doc == nil || s.extractor == nil {
		return nil, nil
	}
	region, ok := s.extractor.FindRegion(doc.Text)
	if !ok {
		return []protocol.TextEdit{}, nil
	}
	return s.mode.Format(doc, doc.Range(region.Start, region.End), params.Options), nil
}

func (s *Server) textDocumentRangeFormatting(
	context *glsp.Context,
	params *protocol.DocumentRangeFormattingParams,
) ([]protocol.TextEdit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.document(params.TextDocument.URI)
	if doc == nil || s.extractor == nil {
		return nil, nil
	}
	region, ok := s.extractor.FindRegion(doc.Text)
	if !ok {
		return []protocol.TextEdit{}, nil
	}
	start := max(doc.OffsetAt(params.Range.Start), region.Start)
	end := min(doc.OffsetAt(params.Range.End), region.End)
	if start >= end {
		return []protocol.TextEdit{}, nil
	}
	return s.mode.Format(doc, doc.Range(start, end), params.Options), nil
}

// modeAt returns the script mode when pos lies inside the script region of
// doc, and the null mode otherwise.
func (s *Server) modeAt(doc *textdoc.Document, pos protocol.Position) mode.Mode {
	if s.extractor == nil {
		return s.mode
	}
	region, ok := s.extractor.FindRegion(doc.Text)
	if !ok {
		return mode.Null{}
	}
	offset := doc.OffsetAt(pos)
	if offset < region.Start || offset > region.End {
		return mode.Null{}
	}
	return s.mode
}
