package server

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/leijiancd/vetur/internal/config"
	"github.com/leijiancd/vetur/internal/embedded"
	"github.com/leijiancd/vetur/internal/manager"
	"github.com/leijiancd/vetur/internal/mode"
	"github.com/leijiancd/vetur/internal/textdoc"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

var log = commonlog.GetLogger("vls.server")

const Name = "vls"

// FindComponentsCommand lists the components registered by a document.
const FindComponentsCommand = "vetur.findComponents"

type Server struct {
	// Handlers may be called from several goroutines, mu serializes them.
	mu        sync.Mutex
	version   string
	root      string
	handler   *protocol.Handler
	manager   *manager.DocumentManager
	extractor *embedded.Extractor
	mode      mode.Mode
	config    config.Config
}

func New(version string) *Server {
	ls := &Server{
		version: version,
		manager: manager.NewDocumentManager(),
		mode:    mode.Null{},
		config:  config.Default(),
	}
	ls.handler = &protocol.Handler{
		Initialize:                      ls.initialize,
		Initialized:                     ls.initialized,
		Shutdown:                        ls.shutdown,
		SetTrace:                        ls.setTrace,
		TextDocumentDidOpen:             ls.textDocumentDidOpen,
		TextDocumentDidChange:           ls.textDocumentDidChange,
		TextDocumentDidClose:            ls.textDocumentDidClose,
		TextDocumentCompletion:          ls.textDocumentCompletion,
		CompletionItemResolve:           ls.completionItemResolve,
		TextDocumentHover:               ls.textDocumentHover,
		TextDocumentSignatureHelp:       ls.textDocumentSignatureHelp,
		TextDocumentDocumentHighlight:   ls.textDocumentDocumentHighlight,
		TextDocumentDocumentSymbol:      ls.textDocumentDocumentSymbol,
		TextDocumentDefinition:          ls.textDocumentDefinition,
		TextDocumentReferences:          ls.textDocumentReferences,
		TextDocumentFormatting:          ls.textDocumentFormatting,
		TextDocumentRangeFormatting:     ls.textDocumentRangeFormatting,
		WorkspaceDidChangeConfiguration: ls.workspaceDidChangeConfiguration,
		WorkspaceExecuteCommand:         ls.workspaceExecuteCommand,
	}
	return ls
}

// NewServer wraps a fresh Server in a glsp server.
func NewServer(version string, debug bool) *server.Server {
	ls := New(version)
	return server.NewServer(ls.handler, Name, debug)
}

// Handler exposes the protocol handler.
func (s *Server) Handler() *protocol.Handler {
	return s.handler
}

// manages reports whether uri belongs to the workspace and matches the
// include globs.
func (s *Server) manages(uri protocol.DocumentUri) bool {
	if s.root == "" {
		return false
	}
	rel, err := filepath.Rel(s.root, textdoc.URIToPath(uri))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return s.config.Manages(rel)
}

// document returns the open snapshot of uri, or nil for documents the server
// does not track.
func (s *Server) document(uri protocol.DocumentUri) *textdoc.Document {
	doc, err := s.manager.Get(uri)
	if err != nil {
		log.Debugf("%s", err)
		return nil
	}
	return doc
}
