package analyzer

import (
	"strings"

	"github.com/leijiancd/vetur/internal/engine"

	sitter "github.com/smacker/go-tree-sitter"
)

type token struct {
	typ        string
	start, end int
	parent     string
	grand      string
	caseIndent int
}

func atomicToken(t string) bool {
	switch t {
	case "comment", "html_comment", "string", "template_string", "regex",
		"jsx_element", "jsx_self_closing_element":
		return true
	}
	return false
}

func tokenize(root *sitter.Node) []token {
	var tokens []token
	var walk func(n *sitter.Node, parent, grand string, caseIndent int)
	walk = func(n *sitter.Node, parent, grand string, caseIndent int) {
		if n.ChildCount() == 0 || atomicToken(n.Type()) {
			if n.EndByte() > n.StartByte() {
				tokens = append(tokens, token{
					typ:        n.Type(),
					start:      int(n.StartByte()),
					end:        int(n.EndByte()),
					parent:     parent,
					grand:      grand,
					caseIndent: caseIndent,
				})
			}
			return
		}
		inCase := n.Type() == "switch_case" || n.Type() == "switch_default"
		for i := 0; i < int(n.ChildCount()); i++ {
			indent := caseIndent
			if inCase && i > 0 {
				indent++
			}
			walk(n.Child(i), n.Type(), parent, indent)
		}
	}
	if root != nil {
		walk(root, "", "", 0)
	}
	return tokens
}

var binaryOperators = map[string]struct{}{
	"=": {}, "+=": {}, "-=": {}, "*=": {}, "/=": {}, "%=": {}, "**=": {},
	"&&=": {}, "||=": {}, "??=": {}, "<<=": {}, ">>=": {}, ">>>=": {},
	"&=": {}, "|=": {}, "^=": {},
	"+": {}, "-": {}, "*": {}, "/": {}, "%": {}, "**": {},
	"==": {}, "===": {}, "!=": {}, "!==": {}, "<": {}, ">": {}, "<=": {}, ">=": {},
	"&&": {}, "||": {}, "??": {}, "&": {}, "|": {}, "^": {}, "<<": {}, ">>": {}, ">>>": {},
	"instanceof": {}, "in": {}, "?": {}, ":": {},
}

var operatorParents = map[string]struct{}{
	"binary_expression":               {},
	"assignment_expression":           {},
	"augmented_assignment_expression": {},
	"variable_declarator":             {},
	"assignment_pattern":              {},
	"object_assignment_pattern":       {},
	"ternary_expression":              {},
	"field_definition":                {},
	"public_field_definition":         {},
	"type_alias_declaration":          {},
	"enum_assignment":                 {},
}

func (t token) binaryOperator() bool {
	if _, ok := binaryOperators[t.typ]; !ok {
		return false
	}
	_, ok := operatorParents[t.parent]
	return ok
}

func isFunctionNode(t string) bool {
	switch t {
	case "function_declaration", "generator_function_declaration", "method_definition",
		"function", "function_expression", "generator_function", "arrow_function":
		return true
	}
	return false
}

func isControlNode(t string) bool {
	switch t {
	case "if_statement", "else_clause", "for_statement", "for_in_statement", "while_statement",
		"do_statement", "try_statement", "catch_clause", "finally_clause", "switch_statement":
		return true
	}
	return false
}

type formatter struct {
	text     string
	tokens   []token
	settings engine.FormatSettings
}

// FormattingEditsForRange re-indents and re-spaces the lines intersecting
// [start, end]. Indentation follows bracket nesting; spacing follows the
// settings.
func (a *Analyzer) FormattingEditsForRange(fileName string, start, end int, settings engine.FormatSettings) []engine.TextChange {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, ok := a.lookup(fileName)
	if !ok {
		return nil
	}
	fm := formatter{
		text:     f.text,
		tokens:   tokenize(f.parser.Root()),
		settings: settings,
	}
	return fm.edits(start, end)
}

func (fm *formatter) indentation(columns int) string {
	if columns <= 0 {
		return ""
	}
	if fm.settings.ConvertTabsToSpaces || fm.settings.TabSize <= 0 {
		return strings.Repeat(" ", columns)
	}
	return strings.Repeat("\t", columns/fm.settings.TabSize) + strings.Repeat(" ", columns%fm.settings.TabSize)
}

func isOpener(t string) bool {
	return t == "{" || t == "[" || t == "("
}

func isCloser(t string) bool {
	return t == "}" || t == "]" || t == ")"
}

// depth counts the distinct lines that still hold an unclosed bracket.
func depth(stack []int) int {
	n, last := 0, -1
	for _, line := range stack {
		if line != last {
			n++
			last = line
		}
	}
	return n
}

func onlyBlanks(s string) bool {
	return strings.Trim(s, " \t") == ""
}

func (fm *formatter) edits(start, end int) []engine.TextChange {
	var edits []engine.TextChange
	edit := func(from, to int, newText string) {
		if fm.text[from:to] != newText {
			edits = append(edits, engine.TextChange{
				Span:    engine.TextSpan{Start: from, Length: to - from},
				NewText: newText,
			})
		}
	}

	var stack []int
	var prevLast *token
	ti := 0
	for line, ls := 0, 0; ls <= len(fm.text); line++ {
		next := strings.IndexByte(fm.text[ls:], '\n')
		le, following := len(fm.text), len(fm.text)+1
		if next >= 0 {
			le, following = ls+next, ls+next+1
		}
		if le > ls && fm.text[le-1] == '\r' {
			le--
		}

		first := ti
		for ti < len(fm.tokens) && fm.tokens[ti].start < following {
			ti++
		}
		lineTokens := fm.tokens[first:ti]
		inside := first > 0 && fm.tokens[first-1].end > ls
		intersects := ls <= end && le >= start

		if intersects && !inside {
			if len(lineTokens) == 0 {
				if fm.settings.TrimTrailingWhitespace && le > ls && onlyBlanks(fm.text[ls:le]) {
					edit(ls, le, "")
				}
			} else {
				lead := stack
				for _, tok := range lineTokens {
					if !isCloser(tok.typ) || len(lead) == 0 {
						break
					}
					lead = lead[:len(lead)-1]
				}
				level := depth(lead) + lineTokens[0].caseIndent
				if fm.continues(prevLast, lineTokens[0]) {
					level++
				}
				base := fm.settings.BaseIndentSize + level*fm.settings.IndentSize
				edit(ls, lineTokens[0].start, fm.indentation(base))

				for i := 1; i < len(lineTokens); i++ {
					prev, tok := lineTokens[i-1], lineTokens[i]
					gap := fm.text[prev.end:tok.start]
					if prev.end > le || !onlyBlanks(gap) {
						continue
					}
					edit(prev.end, tok.start, fm.spacing(prev, tok, gap, base))
				}

				last := lineTokens[len(lineTokens)-1]
				if fm.settings.TrimTrailingWhitespace && last.end < le && onlyBlanks(fm.text[last.end:le]) {
					edit(last.end, le, "")
				}
			}
		}

		for _, tok := range lineTokens {
			switch {
			case isOpener(tok.typ):
				stack = append(stack, line)
			case isCloser(tok.typ) && len(stack) > 0:
				stack = stack[:len(stack)-1]
			}
		}
		if len(lineTokens) > 0 {
			last := lineTokens[len(lineTokens)-1]
			prevLast = &last
		}
		ls = following
	}
	return edits
}

// continues reports whether first starts a continuation line of the
// previous statement.
func (fm *formatter) continues(prevLast *token, first token) bool {
	switch {
	case first.typ == "." || first.typ == "?.":
		return true
	case first.parent == "ternary_expression" && (first.typ == "?" || first.typ == ":"):
		return true
	case prevLast != nil && prevLast.binaryOperator() && !isOpener(first.typ):
		return true
	}
	return false
}

func (fm *formatter) spacing(prev, next token, gap string, lineIndent int) string {
	s := fm.settings
	pt, nt := prev.typ, next.typ

	choose := func(on bool) string {
		if on {
			return " "
		}
		return ""
	}

	switch {
	case pt == "comment" || nt == "comment":
		return gap
	case nt == "," || nt == ";":
		return ""
	case nt == "." || pt == "." || nt == "?." || pt == "?.":
		return ""
	case pt == "(":
		return choose(nt != ")" && s.InsertSpaceAfterOpeningAndClosingNonemptyParenthesis)
	case nt == ")":
		return choose(s.InsertSpaceAfterOpeningAndClosingNonemptyParenthesis)
	case pt == "[" || nt == "]":
		array := prev.parent == "array" || next.parent == "array"
		return choose(array && !(pt == "[" && nt == "]") && s.InsertSpaceAfterOpeningAndClosingNonemptyBrackets)
	case pt == ",":
		return choose(s.InsertSpaceAfterCommaDelimiter)
	case pt == ";":
		if prev.parent == "for_statement" || prev.grand == "for_statement" {
			return choose(s.InsertSpaceAfterSemicolonInForStatements)
		}
		return " "
	case nt == "(":
		return fm.spaceBeforeParen(prev, next, gap)
	case nt == "{" && (next.parent == "statement_block" || next.parent == "class_body" || next.parent == "switch_body"):
		if fm.braceOnNewLine(next) {
			return s.NewLineCharacter + fm.indentation(lineIndent)
		}
		return " "
	case pt == "=>" || nt == "=>":
		return " "
	case pt == "in" || nt == "in" || pt == "instanceof" || nt == "instanceof":
		return " "
	case nt == ":" && next.parent != "ternary_expression":
		return ""
	case pt == ":" && (prev.parent == "pair" || prev.parent == "pair_pattern" || prev.parent == "type_annotation"):
		return " "
	case prev.binaryOperator() || next.binaryOperator():
		return choose(s.InsertSpaceBeforeAndAfterBinaryOperators)
	}
	if len(gap) > 1 {
		return " "
	}
	return gap
}

func (fm *formatter) spaceBeforeParen(prev, next token, gap string) string {
	s := fm.settings
	switch prev.typ {
	case "if", "for", "while", "switch", "catch", "with":
		if s.InsertSpaceAfterKeywordsInControlFlowStatements {
			return " "
		}
		return ""
	case "function":
		if next.parent == "formal_parameters" {
			if s.InsertSpaceAfterFunctionKeywordForAnonymousFunctions {
				return " "
			}
			return ""
		}
	}
	switch {
	case next.parent == "formal_parameters" && isFunctionNode(next.grand) && next.grand != "arrow_function":
		if s.InsertSpaceBeforeFunctionParenthesis {
			return " "
		}
		return ""
	case next.parent == "arguments":
		return ""
	}
	if len(gap) > 1 {
		return " "
	}
	return gap
}

func (fm *formatter) braceOnNewLine(brace token) bool {
	switch {
	case brace.parent == "class_body":
		return fm.settings.PlaceOpenBraceOnNewLineForFunctions
	case isFunctionNode(brace.grand):
		return fm.settings.PlaceOpenBraceOnNewLineForFunctions
	case isControlNode(brace.grand) || brace.parent == "switch_body":
		return fm.settings.PlaceOpenBraceOnNewLineForControlBlocks
	}
	return false
}
