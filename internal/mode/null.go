package mode

import (
	"github.com/leijiancd/vetur/internal/component"
	"github.com/leijiancd/vetur/internal/config"
	"github.com/leijiancd/vetur/internal/textdoc"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Null answers every request with an empty result. It serves clients that
// open a server without a workspace root.
type Null struct{}

var _ Mode = Null{}

func (Null) Configure(config.Config) {}

func (Null) DoValidation(*textdoc.Document) []protocol.Diagnostic {
	return []protocol.Diagnostic{}
}

func (Null) DoComplete(*textdoc.Document, protocol.Position) *protocol.CompletionList {
	return &protocol.CompletionList{IsIncomplete: false, Items: []protocol.CompletionItem{}}
}

func (Null) DoResolve(_ *textdoc.Document, item *protocol.CompletionItem) *protocol.CompletionItem {
	return item
}

func (Null) DoHover(*textdoc.Document, protocol.Position) *protocol.Hover {
	return &protocol.Hover{Contents: []any{}}
}

func (Null) DoSignatureHelp(*textdoc.Document, protocol.Position) *protocol.SignatureHelp {
	return nil
}

func (Null) FindDocumentHighlight(*textdoc.Document, protocol.Position) []protocol.DocumentHighlight {
	return []protocol.DocumentHighlight{}
}

func (Null) FindDocumentSymbols(*textdoc.Document) []protocol.SymbolInformation {
	return []protocol.SymbolInformation{}
}

func (Null) FindDefinition(*textdoc.Document, protocol.Position) []protocol.Location {
	return []protocol.Location{}
}

func (Null) FindReferences(*textdoc.Document, protocol.Position) []protocol.Location {
	return []protocol.Location{}
}

func (Null) Format(*textdoc.Document, protocol.Range, protocol.FormattingOptions) []protocol.TextEdit {
	return []protocol.TextEdit{}
}

func (Null) FindComponents(*textdoc.Document) []component.Info {
	return nil
}

func (Null) OnDocumentRemoved(*textdoc.Document) {}

func (Null) Dispose() error {
	return nil
}
