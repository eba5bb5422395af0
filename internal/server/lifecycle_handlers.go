package server

import (
	"errors"
	"fmt"

	"github.com/leijiancd/vetur/internal/analyzer"
	"github.com/leijiancd/vetur/internal/config"
	"github.com/leijiancd/vetur/internal/embedded"
	"github.com/leijiancd/vetur/internal/mode"
	"github.com/leijiancd/vetur/internal/parser"
	"github.com/leijiancd/vetur/internal/servicehost"
	"github.com/leijiancd/vetur/internal/textdoc"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Extractor parsers kept ready for concurrent extraction.
const extractorPoolSize = 4

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Root
	switch {
	case params.RootURI != nil && *params.RootURI != "":
		s.root = textdoc.URIToPath(*params.RootURI)
	case params.RootPath != nil && *params.RootPath != "":
		s.root = textdoc.URIToPath(*params.RootPath)
	}

	// Config
	cfg := config.Default()
	if s.root != "" {
		fileConfig, err := config.LoadFile(s.root)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}
	cfg, err := config.Merge(cfg, params.InitializationOptions)
	if err != nil {
		return nil, fmt.Errorf("invalid initialization options: %w", err)
	}
	s.config = cfg
	log.Infof("workspace %q, config %+v", s.root, cfg)

	// Mode
	if s.root == "" {
		log.Warning("no workspace root, language features are disabled")
		s.mode = mode.Null{}
	} else {
		extractor, err := embedded.NewExtractor(extractorPoolSize, parser.JavaScript)
		if err != nil {
			return nil, err
		}
		host, err := servicehost.New(s.root, analyzer.New(), extractor, cfg.Cache.Capacity, cfg.Cache.MaxAge())
		if err != nil {
			extractor.Close()
			return nil, err
		}
		s.extractor = extractor
		s.mode = mode.NewScriptMode(host, cfg)
	}

	syncKind := protocol.TextDocumentSyncKindIncremental

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
		ResolveProvider:   &protocol.True,
	}
	capabilities.SignatureHelpProvider = &protocol.SignatureHelpOptions{
		TriggerCharacters: []string{"(", ","},
	}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{FindComponentsCommand},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(
	context *glsp.Context,
	params *protocol.InitializedParams,
) error {
	log.Info("client initialized")
	return nil
}

func (s *Server) setTrace(
	context *glsp.Context,
	params *protocol.SetTraceParams,
) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// shutdown releases the engine, every open document and the extractor.
func (s *Server) shutdown(context *glsp.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.manager.CloseAll()
	log.Infof("shutting down with %d open documents", len(docs))

	err := s.mode.Dispose()
	s.mode = mode.Null{}
	if s.extractor != nil {
		err = errors.Join(err, s.extractor.Close())
		s.extractor = nil
	}
	return err
}

func (s *Server) workspaceDidChangeConfiguration(
	context *glsp.Context,
	params *protocol.DidChangeConfigurationParams,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := params.Settings
	if m, ok := settings.(map[string]any); ok {
		if nested, ok := m[Name]; ok {
			settings = nested
		}
	}
	cfg, err := config.Merge(s.config, settings)
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	s.config = cfg
	s.mode.Configure(cfg)
	return nil
}
