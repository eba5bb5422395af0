package analyzer_test

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/leijiancd/vetur/internal/analyzer"
	"github.com/leijiancd/vetur/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnalyzer(t *testing.T, files map[string]string) *analyzer.Analyzer {
	t.Helper()
	a := analyzer.New()
	t.Cleanup(func() { a.Dispose() })
	for name, text := range files {
		require.NoError(t, a.UpdateFile(name, "javascript", text))
	}
	return a
}

// after returns the offset just past the first occurrence of marker.
func after(t *testing.T, text, marker string) int {
	t.Helper()
	i := strings.Index(text, marker)
	require.GreaterOrEqual(t, i, 0, "marker %q not found", marker)
	return i + len(marker)
}

func at(t *testing.T, text, marker string) int {
	t.Helper()
	i := strings.Index(text, marker)
	require.GreaterOrEqual(t, i, 0, "marker %q not found", marker)
	return i
}

func entryNames(info *engine.CompletionInfo) map[string]engine.CompletionEntry {
	out := map[string]engine.CompletionEntry{}
	for _, e := range info.Entries {
		out[e.Name] = e
	}
	return out
}

func apply(text string, edits []engine.TextChange) string {
	sorted := append([]engine.TextChange(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Span.Start > sorted[j].Span.Start })
	for _, e := range sorted {
		text = text[:e.Span.Start] + e.NewText + text[e.Span.End():]
	}
	return text
}

func TestProgramTracksRootFiles(t *testing.T) {
	a := newAnalyzer(t, nil)
	assert.Nil(t, a.Program())

	require.NoError(t, a.UpdateFile("/w/b.js", "javascript", "let b = 1"))
	require.NoError(t, a.UpdateFile("/w/a.ts", "typescript", "let a: number = 1"))
	assert.Equal(t, []string{"/w/a.ts", "/w/b.js"}, a.Program().RootFileNames())

	text, ok := a.SourceText("/w/a.ts")
	require.True(t, ok)
	assert.Equal(t, "let a: number = 1", text)

	a.RemoveFile("/w/a.ts")
	assert.Equal(t, []string{"/w/b.js"}, a.Program().RootFileNames())
	_, ok = a.SourceText("/w/a.ts")
	assert.False(t, ok)

	require.NoError(t, a.UpdateFile("/w/b.js", "javascript", "let b = 2"))
	text, _ = a.SourceText("/w/b.js")
	assert.Equal(t, "let b = 2", text)
}

func TestDispose(t *testing.T) {
	a := analyzer.New()
	require.NoError(t, a.UpdateFile("/w/a.js", "javascript", "let a = 1"))

	require.NoError(t, a.Dispose())
	require.NoError(t, a.Dispose())

	assert.Nil(t, a.Program())
	assert.Nil(t, a.Completions("/w/a.js", 0))
	err := a.UpdateFile("/w/a.js", "javascript", "let a = 2")
	assert.True(t, errors.Is(err, analyzer.ErrDisposed))
}

func TestUnknownLanguage(t *testing.T) {
	a := newAnalyzer(t, nil)
	assert.Error(t, a.UpdateFile("/w/a.py", "python", "x = 1"))
	assert.Nil(t, a.Program())
}

func TestCompletions(t *testing.T) {
	const prelude = "function __bridge(options) { return options }\n"
	const text = "import x from './x'\nconst alpha = 1;\nfunction run(beta) {\n  return be\n}\n"
	a := newAnalyzer(t, map[string]string{"/w/prelude.js": prelude, "/w/a.js": text})

	offset := after(t, text, "return be")
	info := a.Completions("/w/a.js", offset)
	require.NotNil(t, info)
	assert.False(t, info.IsMemberCompletion)

	entries := entryNames(info)
	for name, kind := range map[string]string{
		"beta":     engine.KindParameter,
		"alpha":    engine.KindConst,
		"run":      engine.KindFunction,
		"x":        engine.KindAlias,
		"__bridge": engine.KindFunction,
		"return":   engine.KindKeyword,
	} {
		require.Contains(t, entries, name)
		assert.Equal(t, kind, entries[name].Kind, name)
	}
	assert.Equal(t, "11", entries["beta"].SortText)
	assert.Equal(t, "15", entries["__bridge"].SortText)

	require.NotNil(t, entries["beta"].ReplacementSpan)
	assert.Equal(t, engine.TextSpan{Start: offset - 2, Length: 2}, *entries["beta"].ReplacementSpan)
}

func TestCompletionsModuleDeclarationsStayLocal(t *testing.T) {
	a := newAnalyzer(t, map[string]string{
		"/w/mod.js":    "export const hidden = 1\n",
		"/w/script.js": "var shown = 1\n",
		"/w/a.js":      "let here = 1\n",
	})

	entries := entryNames(a.Completions("/w/a.js", len("let here = 1\n")))
	assert.Contains(t, entries, "shown")
	assert.Contains(t, entries, "here")
	assert.NotContains(t, entries, "hidden")
}

func TestCompletionsInsideLiterals(t *testing.T) {
	const text = "let s = 'abc'\n// note\n"
	a := newAnalyzer(t, map[string]string{"/w/a.js": text})

	assert.Nil(t, a.Completions("/w/a.js", after(t, text, "'ab")))
	assert.Nil(t, a.Completions("/w/a.js", after(t, text, "// no")))
	assert.NotNil(t, a.Completions("/w/a.js", at(t, text, "let")))
}

func TestMemberCompletions(t *testing.T) {
	const text = "const obj = { one: 1, two() {} };\nobj.t;\n"
	a := newAnalyzer(t, map[string]string{"/w/a.js": text})

	info := a.Completions("/w/a.js", after(t, text, "obj.t"))
	require.NotNil(t, info)
	assert.True(t, info.IsMemberCompletion)

	entries := entryNames(info)
	require.Len(t, entries, 2)
	assert.Equal(t, engine.KindProperty, entries["one"].Kind)
	assert.Equal(t, engine.KindMethod, entries["two"].Kind)

	details := a.CompletionEntryDetails("/w/a.js", after(t, text, "obj.t"), "two")
	require.NotNil(t, details)
	assert.Equal(t, "(method) obj.two()", engine.DisplayString(details.DisplayParts))
}

const documented = `/**
 * Adds two numbers.
 * @param a first
 */
function add(a, b) { return a + b }
add(1, 2)
`

func TestCompletionEntryDetails(t *testing.T) {
	a := newAnalyzer(t, map[string]string{"/w/a.js": documented})

	details := a.CompletionEntryDetails("/w/a.js", len(documented), "add")
	require.NotNil(t, details)
	assert.Equal(t, engine.KindFunction, details.Kind)
	assert.Equal(t, "function add(a, b)", engine.DisplayString(details.DisplayParts))
	assert.Equal(t, "Adds two numbers.", engine.DisplayString(details.Documentation))

	keyword := a.CompletionEntryDetails("/w/a.js", len(documented), "return")
	require.NotNil(t, keyword)
	assert.Equal(t, engine.KindKeyword, keyword.Kind)

	assert.Nil(t, a.CompletionEntryDetails("/w/a.js", len(documented), "missing"))
	assert.Nil(t, a.CompletionEntryDetails("/w/other.js", 0, "add"))
}

func TestQuickInfo(t *testing.T) {
	a := newAnalyzer(t, map[string]string{"/w/a.js": documented})

	call := strings.LastIndex(documented, "add(")
	info := a.QuickInfo("/w/a.js", call+1)
	require.NotNil(t, info)
	assert.Equal(t, engine.KindFunction, info.Kind)
	assert.Equal(t, engine.TextSpan{Start: call, Length: 3}, info.TextSpan)
	assert.Equal(t, "function add(a, b)", engine.DisplayString(info.DisplayParts))
	assert.Equal(t, "Adds two numbers.", engine.DisplayString(info.Documentation))

	param := a.QuickInfo("/w/a.js", after(t, documented, "return a"))
	require.NotNil(t, param)
	assert.Equal(t, "(parameter) a", engine.DisplayString(param.DisplayParts))

	assert.Nil(t, a.QuickInfo("/w/a.js", at(t, documented, "1, 2")))
}

func TestSignatureHelp(t *testing.T) {
	a := newAnalyzer(t, map[string]string{"/w/a.js": documented})

	help := a.SignatureHelp("/w/a.js", after(t, documented, "add(1, "))
	require.NotNil(t, help)
	require.Len(t, help.Items, 1)
	assert.Equal(t, 1, help.ArgumentIndex)
	assert.Equal(t, 2, help.ArgumentCount)

	item := help.Items[0]
	assert.Equal(t, "add(", engine.DisplayString(item.PrefixDisplayParts))
	assert.Equal(t, ")", engine.DisplayString(item.SuffixDisplayParts))
	assert.Equal(t, ", ", engine.DisplayString(item.SeparatorDisplayParts))
	require.Len(t, item.Parameters, 2)
	assert.Equal(t, "a", item.Parameters[0].Name)
	assert.Equal(t, "first", engine.DisplayString(item.Parameters[0].Documentation))
	assert.Equal(t, "b", item.Parameters[1].Name)

	first := a.SignatureHelp("/w/a.js", strings.LastIndex(documented, "add(")+len("add("))
	require.NotNil(t, first)
	assert.Equal(t, 0, first.ArgumentIndex)

	assert.Nil(t, a.SignatureHelp("/w/a.js", len(documented)))
	assert.Nil(t, a.SignatureHelp("/w/a.js", at(t, documented, "function")))
}

const counter = "let count = 0;\ncount = count + 1;\nfunction f() { let count = 2; return count }\n"

func TestOccurrences(t *testing.T) {
	a := newAnalyzer(t, map[string]string{"/w/a.js": counter})

	occ := a.Occurrences("/w/a.js", at(t, counter, "count"))
	require.Len(t, occ, 3)
	assert.Equal(t, engine.TextSpan{Start: 4, Length: 5}, occ[0].TextSpan)
	assert.True(t, occ[0].IsWriteAccess)
	assert.True(t, occ[1].IsWriteAccess)
	assert.False(t, occ[2].IsWriteAccess)

	inner := a.Occurrences("/w/a.js", after(t, counter, "return co"))
	require.Len(t, inner, 2)
	assert.Equal(t, after(t, counter, "let count = 2; return "), inner[1].TextSpan.Start)

	assert.Nil(t, a.Occurrences("/w/a.js", at(t, counter, "0;")))
}

func TestDefinitionAndReferencesAcrossFiles(t *testing.T) {
	const other = "count++\n"
	a := newAnalyzer(t, map[string]string{"/w/a.js": counter, "/w/b.js": other})

	defs := a.Definition("/w/b.js", 1)
	require.Len(t, defs, 1)
	assert.Equal(t, "/w/a.js", defs[0].FileName)
	assert.Equal(t, engine.TextSpan{Start: 4, Length: 5}, defs[0].TextSpan)
	assert.Equal(t, engine.KindLet, defs[0].Kind)
	assert.Equal(t, "count", defs[0].Name)

	refs := a.References("/w/a.js", 4)
	require.Len(t, refs, 4)
	assert.True(t, refs[0].IsDefinition)
	assert.Equal(t, "/w/a.js", refs[0].FileName)
	assert.Equal(t, "/w/b.js", refs[3].FileName)
	assert.True(t, refs[3].IsWriteAccess)

	assert.Nil(t, a.Definition("/w/b.js", len(other)-1))
}

func TestNavigationTree(t *testing.T) {
	const text = `import Foo from './Foo.vue'
export default {
  name: 'app',
  components: { Foo },
  data() { return { x: 1 } },
  methods: { go() {} }
}
`
	a := newAnalyzer(t, map[string]string{"/w/a.js": text})

	tree := a.NavigationTree("/w/a.js")
	require.NotNil(t, tree)
	assert.Equal(t, engine.KindScript, tree.Kind)
	assert.Equal(t, []engine.TextSpan{{Start: 0, Length: len(text)}}, tree.Spans)

	require.Len(t, tree.ChildItems, 2)
	assert.Equal(t, "Foo", tree.ChildItems[0].Text)
	assert.Equal(t, engine.KindAlias, tree.ChildItems[0].Kind)

	def := tree.ChildItems[1]
	assert.Equal(t, "default", def.Text)
	assert.Equal(t, engine.KindConst, def.Kind)

	var names, kinds []string
	for _, c := range def.ChildItems {
		names = append(names, c.Text)
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []string{"name", "components", "data", "methods"}, names)
	assert.Equal(t, []string{engine.KindProperty, engine.KindProperty, engine.KindMethod, engine.KindProperty}, kinds)

	components := def.ChildItems[1]
	require.Len(t, components.ChildItems, 1)
	assert.Equal(t, "Foo", components.ChildItems[0].Text)
	assert.Equal(t, at(t, text, "Foo },"), components.ChildItems[0].Spans[0].Start)

	methods := def.ChildItems[3]
	require.Len(t, methods.ChildItems, 1)
	assert.Equal(t, "go", methods.ChildItems[0].Text)
	assert.Equal(t, engine.KindMethod, methods.ChildItems[0].Kind)

	assert.Nil(t, a.NavigationTree("/w/missing.js"))
}

func TestNavigationTreeDeclarations(t *testing.T) {
	const text = "function outer() {\n  function inner() {}\n}\nclass Shape {\n  constructor(w) {}\n  area() {}\n}\nvar v = 1, w = 2\n"
	a := newAnalyzer(t, map[string]string{"/w/a.js": text})

	tree := a.NavigationTree("/w/a.js")
	require.Len(t, tree.ChildItems, 4)

	outer := tree.ChildItems[0]
	assert.Equal(t, "outer", outer.Text)
	assert.Equal(t, engine.KindFunction, outer.Kind)
	require.Len(t, outer.ChildItems, 1)
	assert.Equal(t, "inner", outer.ChildItems[0].Text)

	shape := tree.ChildItems[1]
	assert.Equal(t, engine.KindClass, shape.Kind)
	require.Len(t, shape.ChildItems, 2)
	assert.Equal(t, engine.KindConstructor, shape.ChildItems[0].Kind)
	assert.Equal(t, engine.KindMethod, shape.ChildItems[1].Kind)

	assert.Equal(t, "v", tree.ChildItems[2].Text)
	assert.Equal(t, engine.KindVariable, tree.ChildItems[2].Kind)
	assert.Equal(t, "w", tree.ChildItems[3].Text)
}

func TestSyntacticDiagnostics(t *testing.T) {
	a := newAnalyzer(t, map[string]string{
		"/w/ok.js":    "let a = 1\n",
		"/w/const.js": "const c;\n",
		"/w/bad.js":   "let b = (;\n",
	})

	assert.Empty(t, a.SyntacticDiagnostics("/w/ok.js"))

	diags := a.SyntacticDiagnostics("/w/const.js")
	require.Len(t, diags, 1)
	assert.Equal(t, "'const' declarations must be initialized.", diags[0].Message)
	assert.Equal(t, engine.CategoryError, diags[0].Category)

	bad := a.SyntacticDiagnostics("/w/bad.js")
	require.NotEmpty(t, bad)
	for _, d := range bad {
		assert.Equal(t, engine.CategoryError, d.Category)
	}
}

func TestSemanticDiagnostics(t *testing.T) {
	const text = "const a = 1;\nconst a = 2;\nlet b = 1;\n{ let b = 2 }\n"
	a := newAnalyzer(t, map[string]string{"/w/a.js": text})

	diags := a.SemanticDiagnostics("/w/a.js")
	require.Len(t, diags, 2)
	assert.Equal(t, "Cannot redeclare block-scoped variable 'a'.", diags[0].Message)
	assert.Equal(t, 6, diags[0].Span.Start)
	assert.Equal(t, at(t, text, "a = 2"), diags[1].Span.Start)

	assert.Nil(t, a.SemanticDiagnostics("/w/missing.js"))
}

func TestFormatting(t *testing.T) {
	const text = "function f(a,b){\nreturn a+b\n}\n"
	a := newAnalyzer(t, map[string]string{"/w/a.js": text})

	settings := engine.DefaultFormatSettings()
	edits := a.FormattingEditsForRange("/w/a.js", 0, len(text), settings)
	assert.Equal(t, "function f(a, b) {\n    return a + b\n}\n", apply(text, edits))

	settings.InsertSpaceBeforeFunctionParenthesis = true
	settings.IndentSize = 2
	edits = a.FormattingEditsForRange("/w/a.js", 0, len(text), settings)
	assert.Equal(t, "function f (a, b) {\n  return a + b\n}\n", apply(text, edits))
}

func TestFormattingAnonymousFunctionAndBaseIndent(t *testing.T) {
	const text = "const g = function(x){}\n"
	a := newAnalyzer(t, map[string]string{"/w/a.js": text})

	settings := engine.DefaultFormatSettings()
	settings.InsertSpaceAfterFunctionKeywordForAnonymousFunctions = true
	settings.BaseIndentSize = 2
	edits := a.FormattingEditsForRange("/w/a.js", 0, len(text), settings)
	assert.Equal(t, "  const g = function (x) {}\n", apply(text, edits))
}

func TestFormattingRange(t *testing.T) {
	const text = "let a=1\nlet b=2\n"
	a := newAnalyzer(t, map[string]string{"/w/a.js": text})

	edits := a.FormattingEditsForRange("/w/a.js", 0, 7, engine.DefaultFormatSettings())
	require.Len(t, edits, 2)
	for _, e := range edits {
		assert.True(t, e.Span.Within(0, 7), "edit %+v outside the first line", e)
	}
	assert.Equal(t, "let a = 1\nlet b=2\n", apply(text, edits))

	again := a.FormattingEditsForRange("/w/a.js", 0, 7, engine.DefaultFormatSettings())
	assert.Equal(t, edits, again)
}

func TestFormattingTabsAndTrailingWhitespace(t *testing.T) {
	const text = "if(x){   \ny()\n}\n"
	a := newAnalyzer(t, map[string]string{"/w/a.js": text})

	settings := engine.DefaultFormatSettings()
	settings.ConvertTabsToSpaces = false
	edits := a.FormattingEditsForRange("/w/a.js", 0, len(text), settings)
	assert.Equal(t, "if (x) {\n\ty()\n}\n", apply(text, edits))
}
