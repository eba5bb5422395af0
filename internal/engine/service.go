// Package engine defines the contract of the backing language engine: a
// whole-file analysis service keyed by absolute filesystem path and byte
// offset, plus the host hooks used to keep its root files current.
package engine

// Program is the set of root files the engine currently analyses.
type Program interface {
	RootFileNames() []string
}

// Service answers language questions about root files. A nil or empty
// result always means "nothing to report", never an error.
type Service interface {
	// Program returns the current program, or nil before any file is loaded.
	Program() Program
	// SourceText returns the text the engine analysed for fileName.
	SourceText(fileName string) (string, bool)

	SyntacticDiagnostics(fileName string) []Diagnostic
	SemanticDiagnostics(fileName string) []Diagnostic
	Completions(fileName string, offset int) *CompletionInfo
	CompletionEntryDetails(fileName string, offset int, name string) *CompletionEntryDetails
	QuickInfo(fileName string, offset int) *QuickInfo
	SignatureHelp(fileName string, offset int) *SignatureHelpItems
	Occurrences(fileName string, offset int) []Occurrence
	NavigationTree(fileName string) *NavigationTree
	Definition(fileName string, offset int) []DefinitionInfo
	References(fileName string, offset int) []ReferenceEntry
	FormattingEditsForRange(fileName string, start, end int, settings FormatSettings) []TextChange

	// Dispose releases every resource held by the engine.
	Dispose() error
}

// Host is the incremental-update entry point of the engine.
type Host interface {
	// UpdateFile adds fileName as a root file or replaces its content.
	UpdateFile(fileName, languageID, text string) error
	// RemoveFile drops fileName from the root files.
	RemoveFile(fileName string)
}

// Engine is a Service together with its Host.
type Engine interface {
	Service
	Host
}
