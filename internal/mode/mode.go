// Package mode answers language requests for the script region of host
// documents by delegating to the engine through a synthetic view of the
// region.
package mode

import (
	"slices"

	"github.com/leijiancd/vetur/internal/classify"
	"github.com/leijiancd/vetur/internal/component"
	"github.com/leijiancd/vetur/internal/config"
	"github.com/leijiancd/vetur/internal/engine"
	"github.com/leijiancd/vetur/internal/format"
	"github.com/leijiancd/vetur/internal/outline"
	"github.com/leijiancd/vetur/internal/parser"
	"github.com/leijiancd/vetur/internal/servicehost"
	"github.com/leijiancd/vetur/internal/textdoc"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var log = commonlog.GetLogger("vls.mode")

// Mode is the operation surface the server talks to.
type Mode interface {
	Configure(cfg config.Config)
	DoValidation(doc *textdoc.Document) []protocol.Diagnostic
	DoComplete(doc *textdoc.Document, pos protocol.Position) *protocol.CompletionList
	DoResolve(doc *textdoc.Document, item *protocol.CompletionItem) *protocol.CompletionItem
	DoHover(doc *textdoc.Document, pos protocol.Position) *protocol.Hover
	DoSignatureHelp(doc *textdoc.Document, pos protocol.Position) *protocol.SignatureHelp
	FindDocumentHighlight(doc *textdoc.Document, pos protocol.Position) []protocol.DocumentHighlight
	FindDocumentSymbols(doc *textdoc.Document) []protocol.SymbolInformation
	FindDefinition(doc *textdoc.Document, pos protocol.Position) []protocol.Location
	FindReferences(doc *textdoc.Document, pos protocol.Position) []protocol.Location
	Format(doc *textdoc.Document, rng protocol.Range, opts protocol.FormattingOptions) []protocol.TextEdit
	FindComponents(doc *textdoc.Document) []component.Info
	OnDocumentRemoved(doc *textdoc.Document)
	Dispose() error
}

// ServiceHost refreshes synthetic views and owns the engine.
type ServiceHost interface {
	UpdateCurrentTextDocument(host *textdoc.Document) (*textdoc.Document, engine.Service)
	RemoveDocument(uri protocol.DocumentUri)
	Dispose() error
}

var _ Mode = (*ScriptMode)(nil)

// ScriptMode is the Mode of the script region.
type ScriptMode struct {
	host     ServiceHost
	cfg      config.Config
	disposed bool
}

func NewScriptMode(host ServiceHost, cfg config.Config) *ScriptMode {
	return &ScriptMode{host: host, cfg: cfg}
}

func (m *ScriptMode) Configure(cfg config.Config) {
	m.cfg = cfg
}

// includesFile reports whether the file of uri is a root file of the
// engine's current program.
func includesFile(svc engine.Service, uri protocol.DocumentUri) bool {
	program := svc.Program()
	if program == nil {
		return false
	}
	return slices.Contains(program.RootFileNames(), textdoc.URIToPath(uri))
}

// refresh brings the synthetic view of doc up to date.
func (m *ScriptMode) refresh(doc *textdoc.Document) (*textdoc.Document, engine.Service, bool) {
	if m.disposed {
		log.Warningf("request for %s after dispose", doc.URI)
		return nil, nil, false
	}
	view, svc := m.host.UpdateCurrentTextDocument(doc)
	return view, svc, true
}

// prepare is refresh followed by the program membership guard.
func (m *ScriptMode) prepare(doc *textdoc.Document) (*textdoc.Document, engine.Service, string, bool) {
	view, svc, ok := m.refresh(doc)
	if !ok {
		return nil, nil, "", false
	}
	if !includesFile(svc, doc.URI) {
		log.Debugf("%s is not part of the program", doc.URI)
		return nil, nil, "", false
	}
	return view, svc, textdoc.URIToPath(doc.URI), true
}

func (m *ScriptMode) DoValidation(doc *textdoc.Document) []protocol.Diagnostic {
	if !m.cfg.Validation.Script {
		return []protocol.Diagnostic{}
	}
	view, svc, fileName, ok := m.prepare(doc)
	if !ok {
		return []protocol.Diagnostic{}
	}

	source := "js"
	if view.LanguageID == parser.TypeScript {
		source = "ts"
	}
	raw := slices.Concat(svc.SyntacticDiagnostics(fileName), svc.SemanticDiagnostics(fileName))
	diagnostics := make([]protocol.Diagnostic, 0, len(raw))
	for _, d := range raw {
		severity := severityOf(d.Category)
		src := source
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    doc.SpanRange(d.Span),
			Severity: &severity,
			Source:   &src,
			Message:  d.Message,
		})
	}
	return diagnostics
}

func severityOf(category engine.DiagnosticCategory) protocol.DiagnosticSeverity {
	switch category {
	case engine.CategoryWarning:
		return protocol.DiagnosticSeverityWarning
	case engine.CategorySuggestion:
		return protocol.DiagnosticSeverityHint
	case engine.CategoryMessage:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}

func (m *ScriptMode) DoComplete(doc *textdoc.Document, pos protocol.Position) *protocol.CompletionList {
	list := &protocol.CompletionList{IsIncomplete: false, Items: []protocol.CompletionItem{}}
	view, svc, fileName, ok := m.prepare(doc)
	if !ok {
		return list
	}

	offset := doc.OffsetAt(pos)
	completions := svc.Completions(fileName, offset)
	if completions == nil {
		return list
	}
	for _, entry := range completions.Entries {
		if entry.Name == servicehost.BridgeName {
			continue
		}
		kind := classify.CompletionKind(entry.Kind)
		sortText := entry.SortText
		item := protocol.CompletionItem{
			Label:    entry.Name,
			Kind:     &kind,
			SortText: &sortText,
			Data: Correlation{
				LanguageID: view.LanguageID,
				URI:        doc.URI,
				Offset:     offset,
			},
		}
		if entry.ReplacementSpan != nil {
			item.TextEdit = protocol.TextEdit{
				Range:   doc.SpanRange(*entry.ReplacementSpan),
				NewText: entry.Name,
			}
		}
		list.Items = append(list.Items, item)
	}
	return list
}

// DoResolve fills in detail and documentation of an item returned by
// DoComplete. The lookup uses the stored offset and the item label. When
// nothing is found the item is returned unchanged, correlation included.
func (m *ScriptMode) DoResolve(doc *textdoc.Document, item *protocol.CompletionItem) *protocol.CompletionItem {
	if item == nil {
		return nil
	}
	_, svc, fileName, ok := m.prepare(doc)
	if !ok {
		return nil
	}
	corr, ok := DecodeCorrelation(item.Data)
	if !ok {
		return item
	}

	details := svc.CompletionEntryDetails(fileName, corr.Offset, item.Label)
	if details == nil {
		return item
	}
	detail := engine.DisplayString(details.DisplayParts)
	item.Detail = &detail
	item.Documentation = engine.DisplayString(details.Documentation)
	item.Data = nil
	return item
}

func (m *ScriptMode) DoHover(doc *textdoc.Document, pos protocol.Position) *protocol.Hover {
	empty := &protocol.Hover{Contents: []any{}}
	_, svc, fileName, ok := m.prepare(doc)
	if !ok {
		return empty
	}

	info := svc.QuickInfo(fileName, doc.OffsetAt(pos))
	if info == nil {
		return empty
	}
	var contents []any
	if documentation := engine.DisplayString(info.Documentation); documentation != "" {
		contents = append(contents, documentation, "\n")
	}
	contents = append(contents, protocol.MarkedStringStruct{
		Language: "ts",
		Value:    engine.DisplayString(info.DisplayParts),
	})
	rng := doc.SpanRange(info.TextSpan)
	return &protocol.Hover{Contents: contents, Range: &rng}
}

func (m *ScriptMode) DoSignatureHelp(doc *textdoc.Document, pos protocol.Position) *protocol.SignatureHelp {
	_, svc, fileName, ok := m.prepare(doc)
	if !ok {
		return nil
	}
	items := svc.SignatureHelp(fileName, doc.OffsetAt(pos))
	if items == nil {
		return nil
	}

	help := &protocol.SignatureHelp{Signatures: make([]protocol.SignatureInformation, 0, len(items.Items))}
	for _, item := range items.Items {
		label := engine.DisplayString(item.PrefixDisplayParts)
		separator := engine.DisplayString(item.SeparatorDisplayParts)
		parameters := make([]protocol.ParameterInformation, 0, len(item.Parameters))
		for i, p := range item.Parameters {
			paramLabel := engine.DisplayString(p.DisplayParts)
			parameters = append(parameters, protocol.ParameterInformation{
				Label:         paramLabel,
				Documentation: engine.DisplayString(p.Documentation),
			})
			label += paramLabel
			if i < len(item.Parameters)-1 {
				label += separator
			}
		}
		label += engine.DisplayString(item.SuffixDisplayParts)

		signature := protocol.SignatureInformation{Label: label, Parameters: parameters}
		if documentation := engine.DisplayString(item.Documentation); documentation != "" {
			signature.Documentation = documentation
		}
		help.Signatures = append(help.Signatures, signature)
	}
	active := protocol.UInteger(items.SelectedItemIndex)
	parameter := protocol.UInteger(items.ArgumentIndex)
	help.ActiveSignature = &active
	help.ActiveParameter = &parameter
	return help
}

func (m *ScriptMode) FindDocumentHighlight(doc *textdoc.Document, pos protocol.Position) []protocol.DocumentHighlight {
	highlights := []protocol.DocumentHighlight{}
	_, svc, fileName, ok := m.prepare(doc)
	if !ok {
		return highlights
	}
	for _, o := range svc.Occurrences(fileName, doc.OffsetAt(pos)) {
		kind := protocol.DocumentHighlightKindText
		if o.IsWriteAccess {
			kind = protocol.DocumentHighlightKindWrite
		}
		highlights = append(highlights, protocol.DocumentHighlight{
			Range: doc.SpanRange(o.TextSpan),
			Kind:  &kind,
		})
	}
	return highlights
}

func (m *ScriptMode) FindDocumentSymbols(doc *textdoc.Document) []protocol.SymbolInformation {
	symbols := []protocol.SymbolInformation{}
	_, svc, fileName, ok := m.prepare(doc)
	if !ok {
		return symbols
	}
	for _, s := range outline.Build(svc.NavigationTree(fileName), doc.SpanRange) {
		symbols = append(symbols, protocol.SymbolInformation{
			Name:          s.Name,
			Kind:          s.Kind,
			Location:      protocol.Location{URI: doc.URI, Range: s.Range},
			ContainerName: s.ContainerName,
		})
	}
	return symbols
}

func (m *ScriptMode) FindDefinition(doc *textdoc.Document, pos protocol.Position) []protocol.Location {
	locations := []protocol.Location{}
	_, svc, fileName, ok := m.prepare(doc)
	if !ok {
		return locations
	}
	targets := newTargets(svc, doc, fileName)
	for _, d := range svc.Definition(fileName, doc.OffsetAt(pos)) {
		if loc, ok := targets.location(d.FileName, d.TextSpan); ok {
			locations = append(locations, loc)
		}
	}
	return locations
}

func (m *ScriptMode) FindReferences(doc *textdoc.Document, pos protocol.Position) []protocol.Location {
	locations := []protocol.Location{}
	_, svc, fileName, ok := m.prepare(doc)
	if !ok {
		return locations
	}
	targets := newTargets(svc, doc, fileName)
	for _, r := range svc.References(fileName, doc.OffsetAt(pos)) {
		if loc, ok := targets.location(r.FileName, r.TextSpan); ok {
			locations = append(locations, loc)
		}
	}
	return locations
}

// Format returns the edits for rng. Edits reaching outside the range are
// dropped. Program membership is not checked.
func (m *ScriptMode) Format(doc *textdoc.Document, rng protocol.Range, opts protocol.FormattingOptions) []protocol.TextEdit {
	edits := []protocol.TextEdit{}
	view, svc, ok := m.refresh(doc)
	if !ok {
		return edits
	}
	if m.cfg.Formatter(view.LanguageID) == config.FormatterNone {
		return edits
	}

	settings := format.Settings(
		m.cfg.FormatOptionsFor(view.LanguageID),
		format.ParseHostOptions(opts),
		m.cfg.Format.ScriptInitialIndent,
	)
	start, end := doc.OffsetAt(rng.Start), doc.OffsetAt(rng.End)
	changes := svc.FormattingEditsForRange(textdoc.URIToPath(doc.URI), start, end, settings)
	for _, change := range format.Clip(changes, start, end) {
		edits = append(edits, protocol.TextEdit{
			Range:   doc.SpanRange(change.Span),
			NewText: change.NewText,
		})
	}
	return edits
}

// FindComponents lists the components registered by the script of doc.
// Program membership is not checked.
func (m *ScriptMode) FindComponents(doc *textdoc.Document) []component.Info {
	_, svc, ok := m.refresh(doc)
	if !ok {
		return nil
	}
	return component.Discover(svc, textdoc.URIToPath(doc.URI))
}

func (m *ScriptMode) OnDocumentRemoved(doc *textdoc.Document) {
	if m.disposed {
		return
	}
	m.host.RemoveDocument(doc.URI)
}

// Dispose releases the engine and every cached view. Later calls are
// no-ops.
func (m *ScriptMode) Dispose() error {
	if m.disposed {
		return nil
	}
	m.disposed = true
	return m.host.Dispose()
}

// targets translates spans of any root file, using the request document
// for its own file and the engine's copy of the text for the others.
type targets struct {
	svc  engine.Service
	docs map[string]*textdoc.Document
}

func newTargets(svc engine.Service, doc *textdoc.Document, fileName string) *targets {
	return &targets{
		svc:  svc,
		docs: map[string]*textdoc.Document{fileName: doc},
	}
}

func (t *targets) location(fileName string, span engine.TextSpan) (protocol.Location, bool) {
	doc, ok := t.docs[fileName]
	if !ok {
		text, found := t.svc.SourceText(fileName)
		if !found {
			log.Debugf("no source text for %s", fileName)
			return protocol.Location{}, false
		}
		doc = textdoc.New(textdoc.PathToURI(fileName), "", 0, text)
		t.docs[fileName] = doc
	}
	return protocol.Location{URI: doc.URI, Range: doc.SpanRange(span)}, true
}
