package analyzer

import (
	"fmt"
	"sort"

	"github.com/leijiancd/vetur/internal/engine"

	sitter "github.com/smacker/go-tree-sitter"
)

const (
	codeExpected            = 1005
	codeConstInitializer    = 1155
	codeUnexpected          = 1109
	codeRedeclareBlockScope = 2451
)

// SyntacticDiagnostics reports parse errors: error nodes, tokens the
// parser had to insert and const declarations without initializer.
func (a *Analyzer) SyntacticDiagnostics(fileName string) []engine.Diagnostic {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, ok := a.lookup(fileName)
	if !ok {
		return nil
	}
	root := f.parser.Root()
	if root == nil {
		return nil
	}
	var diags []engine.Diagnostic
	collectSyntaxErrors(root, f.parser.Source(), &diags)
	sort.SliceStable(diags, func(i, j int) bool { return diags[i].Span.Start < diags[j].Span.Start })
	return diags
}

func collectSyntaxErrors(n *sitter.Node, source []byte, diags *[]engine.Diagnostic) {
	switch {
	case n.IsMissing():
		*diags = append(*diags, engine.Diagnostic{
			Span:     engine.TextSpan{Start: int(n.StartByte())},
			Message:  fmt.Sprintf("'%s' expected.", n.Type()),
			Category: engine.CategoryError,
			Code:     codeExpected,
		})
		return
	case n.Type() == "ERROR":
		*diags = append(*diags, engine.Diagnostic{
			Span:     span(n),
			Message:  "Unexpected token.",
			Category: engine.CategoryError,
			Code:     codeUnexpected,
		})
		return
	case n.Type() == "lexical_declaration":
		if k := n.ChildByFieldName("kind"); k != nil && k.Content(source) == "const" {
			for i := 0; i < int(n.NamedChildCount()); i++ {
				d := n.NamedChild(i)
				if d.Type() != "variable_declarator" || d.ChildByFieldName("value") != nil {
					continue
				}
				*diags = append(*diags, engine.Diagnostic{
					Span:     span(d),
					Message:  "'const' declarations must be initialized.",
					Category: engine.CategoryError,
					Code:     codeConstInitializer,
				})
			}
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		collectSyntaxErrors(n.Child(i), source, diags)
	}
}

// SemanticDiagnostics reports block scoped names declared twice in the same
// scope.
func (a *Analyzer) SemanticDiagnostics(fileName string) []engine.Diagnostic {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, ok := a.lookup(fileName)
	if !ok {
		return nil
	}
	var diags []engine.Diagnostic
	for _, r := range f.index.redeclared {
		diags = append(diags, engine.Diagnostic{
			Span:     r.span,
			Message:  fmt.Sprintf("Cannot redeclare block-scoped variable '%s'.", r.name),
			Category: engine.CategoryError,
			Code:     codeRedeclareBlockScope,
		})
	}
	sort.SliceStable(diags, func(i, j int) bool { return diags[i].Span.Start < diags[j].Span.Start })
	return diags
}
