package server

import (
	"github.com/leijiancd/vetur/internal/textdoc"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := params.TextDocument
	if !s.manages(item.URI) {
		log.Debugf("ignoring %s", item.URI)
		return nil
	}
	doc := s.manager.Open(item.URI, item.LanguageID, item.Version, item.Text)
	s.validate(context, doc)
	return nil
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uri := params.TextDocument.URI
	if !s.manages(uri) {
		return nil
	}
	doc, err := s.manager.Apply(uri, params.TextDocument.Version, params.ContentChanges)
	if err != nil {
		return err
	}
	s.validate(context, doc)
	return nil
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.manager.Release(params.TextDocument.URI)
	if !ok {
		return nil
	}
	s.mode.OnDocumentRemoved(doc)
	publishDiagnostics(context, doc.URI, []protocol.Diagnostic{})
	return nil
}

func (s *Server) validate(context *glsp.Context, doc *textdoc.Document) {
	publishDiagnostics(context, doc.URI, s.mode.DoValidation(doc))
}

func publishDiagnostics(
	context *glsp.Context,
	uri protocol.DocumentUri,
	diagnostics []protocol.Diagnostic,
) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	context.Notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}
