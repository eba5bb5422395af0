package server

import (
	"fmt"

	"github.com/leijiancd/vetur/internal/textdoc"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ComponentResult is one entry of the findComponents command result.
type ComponentResult struct {
	Name       string             `json:"name"`
	Definition *protocol.Location `json:"definition,omitempty"`
}

func (s *Server) workspaceExecuteCommand(
	context *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	if params.Command == FindComponentsCommand {
		return s.findComponents(params.Arguments)
	}
	return nil, fmt.Errorf("unknown command %q", params.Command)
}

// findComponents takes the document URI as its only argument.
func (s *Server) findComponents(arguments []any) ([]ComponentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(arguments) != 1 {
		return nil, fmt.Errorf("%s expects a document uri", FindComponentsCommand)
	}
	uri, ok := arguments[0].(string)
	if !ok {
		return nil, fmt.Errorf("%s expects a document uri, got %T", FindComponentsCommand, arguments[0])
	}
	doc := s.document(uri)
	if doc == nil {
		return []ComponentResult{}, nil
	}

	fileName := textdoc.URIToPath(doc.URI)
	results := []ComponentResult{}
	for _, info := range s.mode.FindComponents(doc) {
		result := ComponentResult{Name: info.Name}
		// Components bind through an import in the same script.
		if info.Definition != nil && info.FileName == fileName {
			result.Definition = &protocol.Location{URI: doc.URI, Range: doc.SpanRange(*info.Definition)}
		}
		results = append(results, result)
	}
	return results, nil
}
