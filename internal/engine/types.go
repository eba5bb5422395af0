package engine

import "strings"

// Element kinds reported by the engine. The strings follow the usual
// language-service vocabulary so that classifiers can stay string tables.
const (
	KindUnknown        = ""
	KindWarning        = "warning"
	KindKeyword        = "keyword"
	KindPrimitiveType  = "primitive type"
	KindScript         = "script"
	KindModule         = "module"
	KindClass          = "class"
	KindInterface      = "interface"
	KindEnum           = "enum"
	KindVariable       = "var"
	KindLocalVariable  = "local var"
	KindLet            = "let"
	KindConst          = "const"
	KindFunction       = "function"
	KindLocalFunction  = "local function"
	KindMethod         = "method"
	KindGetter         = "getter"
	KindSetter         = "setter"
	KindProperty       = "property"
	KindConstructor    = "construct"
	KindCallSignature  = "call"
	KindIndexSignature = "index"
	KindParameter      = "parameter"
	KindAlias          = "alias"
	KindExternalModule = "external module name"
	KindString         = "string"
	KindPunctuation    = "punctuation"
	KindSpace          = "space"
	KindText           = "text"
	KindLocalName      = "localName"
	KindPropertyName   = "propertyName"
	KindFunctionName   = "functionName"
	KindClassName      = "className"
	KindMethodName     = "methodName"
	KindParameterName  = "parameterName"
	KindAliasName      = "aliasName"
	KindOperator       = "operator"
)

// TextSpan is a half-open byte interval [Start, Start+Length) of a file.
type TextSpan struct {
	Start  int
	Length int
}

func (s TextSpan) End() int {
	return s.Start + s.Length
}

// Contains reports whether offset lies inside the span (end inclusive).
func (s TextSpan) Contains(offset int) bool {
	return offset >= s.Start && offset <= s.End()
}

// Within reports whether the span lies entirely inside [start, end].
func (s TextSpan) Within(start, end int) bool {
	return s.Start >= start && s.End() <= end
}

type DiagnosticCategory int

const (
	CategoryWarning DiagnosticCategory = iota
	CategoryError
	CategorySuggestion
	CategoryMessage
)

type Diagnostic struct {
	Span     TextSpan
	Message  string
	Category DiagnosticCategory
	Code     int
}

// SymbolDisplayPart is one classified fragment of a rendered signature.
type SymbolDisplayPart struct {
	Text string
	Kind string
}

// DisplayString concatenates display parts.
func DisplayString(parts []SymbolDisplayPart) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

type CompletionInfo struct {
	IsMemberCompletion bool
	Entries            []CompletionEntry
}

type CompletionEntry struct {
	Name            string
	Kind            string
	SortText        string
	ReplacementSpan *TextSpan
}

type CompletionEntryDetails struct {
	Name          string
	Kind          string
	DisplayParts  []SymbolDisplayPart
	Documentation []SymbolDisplayPart
}

type QuickInfo struct {
	Kind          string
	TextSpan      TextSpan
	DisplayParts  []SymbolDisplayPart
	Documentation []SymbolDisplayPart
}

type SignatureHelpParameter struct {
	Name          string
	DisplayParts  []SymbolDisplayPart
	Documentation []SymbolDisplayPart
}

type SignatureHelpItem struct {
	PrefixDisplayParts    []SymbolDisplayPart
	SuffixDisplayParts    []SymbolDisplayPart
	SeparatorDisplayParts []SymbolDisplayPart
	Parameters            []SignatureHelpParameter
	Documentation         []SymbolDisplayPart
}

type SignatureHelpItems struct {
	Items             []SignatureHelpItem
	ApplicableSpan    TextSpan
	SelectedItemIndex int
	ArgumentIndex     int
	ArgumentCount     int
}

type Occurrence struct {
	FileName      string
	TextSpan      TextSpan
	IsWriteAccess bool
}

// NavigationTree is one node of a file's declaration hierarchy. The root
// node has kind "script" and spans the whole file.
type NavigationTree struct {
	Text       string
	Kind       string
	Spans      []TextSpan
	ChildItems []*NavigationTree
}

type DefinitionInfo struct {
	FileName      string
	TextSpan      TextSpan
	Kind          string
	Name          string
	ContainerName string
}

type ReferenceEntry struct {
	FileName      string
	TextSpan      TextSpan
	IsWriteAccess bool
	IsDefinition  bool
}

type TextChange struct {
	Span    TextSpan
	NewText string
}
