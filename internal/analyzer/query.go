package analyzer

import (
	"sort"
	"strings"

	"github.com/leijiancd/vetur/internal/engine"
	"github.com/leijiancd/vetur/internal/parser"

	sitter "github.com/smacker/go-tree-sitter"
)

const (
	sortLocal  = "11"
	sortGlobal = "15"
)

var keywords = []string{
	"break", "case", "catch", "class", "const", "continue", "debugger", "default",
	"delete", "do", "else", "export", "extends", "false", "finally", "for",
	"function", "if", "import", "in", "instanceof", "let", "new", "null",
	"return", "super", "switch", "this", "throw", "true", "try", "typeof",
	"var", "void", "while", "with", "yield", "async", "await",
}

var typeScriptKeywords = []string{
	"abstract", "any", "boolean", "enum", "implements", "interface",
	"keyof", "namespace", "never", "number", "private", "protected", "public",
	"readonly", "string", "type", "undefined", "unknown",
}

func isKeyword(name string) bool {
	for _, k := range keywords {
		if k == name {
			return true
		}
	}
	for _, k := range typeScriptKeywords {
		if k == name {
			return true
		}
	}
	return false
}

func isIdentifierByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func identStart(text string, offset int) int {
	for offset > 0 && isIdentifierByte(text[offset-1]) {
		offset--
	}
	return offset
}

func identEnd(text string, offset int) int {
	for offset < len(text) && isIdentifierByte(text[offset]) {
		offset++
	}
	return offset
}

// leafAt descends to the smallest node containing offset.
func leafAt(n *sitter.Node, offset int) *sitter.Node {
	if n == nil {
		return nil
	}
	for {
		var next *sitter.Node
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if int(c.StartByte()) <= offset && offset < int(c.EndByte()) {
				next = c
				break
			}
		}
		if next == nil {
			return n
		}
		n = next
	}
}

func isIdentifierNode(t string) bool {
	switch t {
	case "identifier", "property_identifier", "shorthand_property_identifier",
		"shorthand_property_identifier_pattern", "type_identifier", "private_property_identifier":
		return true
	}
	return false
}

// identifierAt returns the name node touching offset, if any.
func identifierAt(root *sitter.Node, offset int) *sitter.Node {
	if n := leafAt(root, offset); n != nil && isIdentifierNode(n.Type()) {
		return n
	}
	if offset > 0 {
		if n := leafAt(root, offset-1); n != nil && isIdentifierNode(n.Type()) && int(n.EndByte()) == offset {
			return n
		}
	}
	return nil
}

// insideLiteral reports whether offset is inside a comment, string or
// regular expression.
func insideLiteral(root *sitter.Node, source []byte, offset int) bool {
	if offset == 0 {
		return false
	}
	for n := leafAt(root, offset-1); n != nil; n = n.Parent() {
		start, end := int(n.StartByte()), int(n.EndByte())
		switch n.Type() {
		case "template_substitution":
			return false
		case "comment":
			if strings.HasPrefix(n.Content(source), "//") {
				return offset <= end
			}
			return offset < end
		case "string", "template_string", "regex":
			return offset > start && offset < end
		}
	}
	return false
}

// symbolFor resolves the declaration a name node refers to.
func (a *Analyzer) symbolFor(f *file, n *sitter.Node) *symbol {
	if n == nil {
		return nil
	}
	start := int(n.StartByte())
	if sym := f.index.symbolAt(start); sym != nil {
		return sym
	}
	if ref, ok := f.index.refAt(start); ok {
		return a.resolve(f, ref.scope, ref.name)
	}
	if n.Type() == "property_identifier" {
		if parent := n.Parent(); parent != nil && parent.Type() == "member_expression" {
			return a.memberOf(f, parent.ChildByFieldName("object"), n.Content(f.parser.Source()))
		}
	}
	return nil
}

func (a *Analyzer) memberOf(f *file, object *sitter.Node, name string) *symbol {
	if object == nil || object.Type() != "identifier" {
		return nil
	}
	owner := a.symbolFor(f, object)
	if owner == nil {
		return nil
	}
	for _, m := range owner.members {
		if m.name == name {
			return m
		}
	}
	return nil
}

func (a *Analyzer) Completions(fileName string, offset int) *engine.CompletionInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, ok := a.lookup(fileName)
	if !ok || offset < 0 || offset > len(f.text) {
		return nil
	}
	if insideLiteral(f.parser.Root(), f.parser.Source(), offset) {
		return nil
	}

	text := f.text
	start := identStart(text, offset)
	var replacement *engine.TextSpan
	if start < offset {
		replacement = &engine.TextSpan{Start: start, Length: identEnd(text, offset) - start}
	}
	entry := func(name, kind, sortText string) engine.CompletionEntry {
		return engine.CompletionEntry{Name: name, Kind: kind, SortText: sortText, ReplacementSpan: replacement}
	}

	sc := f.index.root.innermost(offset)
	if start > 0 && text[start-1] == '.' {
		info := &engine.CompletionInfo{IsMemberCompletion: true}
		objectStart := identStart(text, start-1)
		if objectStart == start-1 {
			return info
		}
		if owner := a.resolve(f, sc, text[objectStart:start-1]); owner != nil {
			for _, m := range owner.members {
				info.Entries = append(info.Entries, entry(m.name, m.kind, sortLocal))
			}
		}
		return info
	}

	info := &engine.CompletionInfo{}
	seen := map[string]struct{}{}
	for s := sc; s != nil; s = s.parent {
		for _, sym := range s.order {
			if _, ok := seen[sym.name]; ok {
				continue
			}
			seen[sym.name] = struct{}{}
			info.Entries = append(info.Entries, entry(sym.name, sym.kind, sortLocal))
		}
	}
	for _, sym := range a.globals(f.name) {
		if _, ok := seen[sym.name]; ok {
			continue
		}
		seen[sym.name] = struct{}{}
		info.Entries = append(info.Entries, entry(sym.name, sym.kind, sortGlobal))
	}
	words := keywords
	if f.parser.LanguageID() == parser.TypeScript {
		words = append(append([]string(nil), keywords...), typeScriptKeywords...)
	}
	for _, k := range words {
		if _, ok := seen[k]; ok {
			continue
		}
		info.Entries = append(info.Entries, entry(k, engine.KindKeyword, sortGlobal))
	}
	return info
}

func (a *Analyzer) CompletionEntryDetails(fileName string, offset int, name string) *engine.CompletionEntryDetails {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, ok := a.lookup(fileName)
	if !ok || offset < 0 || offset > len(f.text) {
		return nil
	}

	sc := f.index.root.innermost(offset)
	var sym *symbol
	if start := identStart(f.text, offset); start > 0 && f.text[start-1] == '.' {
		objectStart := identStart(f.text, start-1)
		if owner := a.resolve(f, sc, f.text[objectStart:start-1]); owner != nil {
			for _, m := range owner.members {
				if m.name == name {
					sym = m
					break
				}
			}
		}
	} else {
		sym = a.resolve(f, sc, name)
	}

	if sym == nil {
		if isKeyword(name) {
			return &engine.CompletionEntryDetails{
				Name:         name,
				Kind:         engine.KindKeyword,
				DisplayParts: []engine.SymbolDisplayPart{{Text: name, Kind: engine.KindKeyword}},
			}
		}
		return nil
	}
	return &engine.CompletionEntryDetails{
		Name:          sym.name,
		Kind:          sym.kind,
		DisplayParts:  displayParts(sym),
		Documentation: docParts(sym.doc.text),
	}
}

func (a *Analyzer) QuickInfo(fileName string, offset int) *engine.QuickInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, ok := a.lookup(fileName)
	if !ok {
		return nil
	}
	n := identifierAt(f.parser.Root(), offset)
	sym := a.symbolFor(f, n)
	if sym == nil {
		return nil
	}
	return &engine.QuickInfo{
		Kind:          sym.kind,
		TextSpan:      span(n),
		DisplayParts:  displayParts(sym),
		Documentation: docParts(sym.doc.text),
	}
}

// enclosingArguments finds the argument list of the call the cursor is in.
func enclosingArguments(root *sitter.Node, offset int) *sitter.Node {
	if offset == 0 {
		return nil
	}
	for n := leafAt(root, offset-1); n != nil; n = n.Parent() {
		if n.Type() != "arguments" {
			continue
		}
		start, end := int(n.StartByte()), int(n.EndByte())
		if offset <= start {
			continue
		}
		if offset < end {
			return n
		}
		last := n.Child(int(n.ChildCount()) - 1)
		if last != nil && (last.Type() != ")" || last.IsMissing()) {
			return n
		}
	}
	return nil
}

func (a *Analyzer) SignatureHelp(fileName string, offset int) *engine.SignatureHelpItems {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, ok := a.lookup(fileName)
	if !ok {
		return nil
	}
	args := enclosingArguments(f.parser.Root(), offset)
	if args == nil {
		return nil
	}
	call := args.Parent()
	if call == nil {
		return nil
	}
	callee := call.ChildByFieldName("function")
	if callee == nil {
		callee = call.ChildByFieldName("constructor")
	}
	if callee == nil {
		return nil
	}

	var sym *symbol
	switch callee.Type() {
	case "identifier":
		sym = a.symbolFor(f, callee)
	case "member_expression":
		sym = a.symbolFor(f, callee.ChildByFieldName("property"))
	}
	if sym == nil || !sym.callable {
		return nil
	}

	argIndex, argCount := 0, 0
	for i := 0; i < int(args.ChildCount()); i++ {
		c := args.Child(i)
		switch {
		case c.Type() == ",":
			if int(c.EndByte()) <= offset {
				argIndex++
			}
		case c.IsNamed() && c.Type() != "comment":
			argCount++
		}
	}
	if argCount < argIndex+1 {
		argCount = argIndex + 1
	}

	nameKind := engine.KindFunctionName
	switch sym.kind {
	case engine.KindMethod:
		nameKind = engine.KindMethodName
	case engine.KindClass:
		nameKind = engine.KindClassName
	}
	item := engine.SignatureHelpItem{
		PrefixDisplayParts:    parts{}.add(sym.name, nameKind).punct("("),
		SuffixDisplayParts:    parts{}.punct(")"),
		SeparatorDisplayParts: parts{}.punct(",").space(),
		Documentation:         docParts(sym.doc.text),
	}
	for _, p := range sym.params {
		var display parts
		if p.rest {
			display = display.punct("...")
		}
		item.Parameters = append(item.Parameters, engine.SignatureHelpParameter{
			Name:          p.name,
			DisplayParts:  display.add(p.name, engine.KindParameterName),
			Documentation: docParts(sym.doc.params[p.name]),
		})
	}

	applicable := engine.TextSpan{Start: int(args.StartByte()) + 1}
	end := int(args.EndByte())
	if last := args.Child(int(args.ChildCount()) - 1); last != nil && last.Type() == ")" && !last.IsMissing() {
		end--
	}
	if end > applicable.Start {
		applicable.Length = end - applicable.Start
	}

	return &engine.SignatureHelpItems{
		Items:          []engine.SignatureHelpItem{item},
		ApplicableSpan: applicable,
		ArgumentIndex:  argIndex,
		ArgumentCount:  argCount,
	}
}

// declared reports whether sym is a declaration indexed in idx.
func declared(idx *index, sym *symbol) bool {
	return sym.fileName == idx.fileName && idx.byName[sym.nameSpan.Start] == sym
}

func (a *Analyzer) Occurrences(fileName string, offset int) []engine.Occurrence {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, ok := a.lookup(fileName)
	if !ok {
		return nil
	}
	n := identifierAt(f.parser.Root(), offset)
	if n == nil {
		return nil
	}
	target := a.symbolFor(f, n)
	name := n.Content(f.parser.Source())

	var out []engine.Occurrence
	if target != nil && declared(f.index, target) {
		out = append(out, engine.Occurrence{FileName: f.name, TextSpan: target.nameSpan, IsWriteAccess: true})
	}
	for _, ref := range f.index.refs {
		if ref.name != name {
			continue
		}
		if a.resolve(f, ref.scope, ref.name) != target {
			continue
		}
		out = append(out, engine.Occurrence{FileName: f.name, TextSpan: ref.span, IsWriteAccess: ref.write})
	}
	if target == nil && len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TextSpan.Start < out[j].TextSpan.Start })
	return out
}

func (a *Analyzer) Definition(fileName string, offset int) []engine.DefinitionInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, ok := a.lookup(fileName)
	if !ok {
		return nil
	}
	sym := a.symbolFor(f, identifierAt(f.parser.Root(), offset))
	if sym == nil {
		return nil
	}
	return []engine.DefinitionInfo{{
		FileName:      sym.fileName,
		TextSpan:      sym.nameSpan,
		Kind:          sym.kind,
		Name:          sym.name,
		ContainerName: sym.container,
	}}
}

func (a *Analyzer) References(fileName string, offset int) []engine.ReferenceEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, ok := a.lookup(fileName)
	if !ok {
		return nil
	}
	target := a.symbolFor(f, identifierAt(f.parser.Root(), offset))
	if target == nil {
		return nil
	}

	out := []engine.ReferenceEntry{{
		FileName:      target.fileName,
		TextSpan:      target.nameSpan,
		IsWriteAccess: true,
		IsDefinition:  true,
	}}
	for _, name := range a.sortedNames() {
		other := a.files[name]
		if other.index == nil {
			continue
		}
		for _, ref := range other.index.refs {
			if ref.name != target.name || a.resolve(other, ref.scope, ref.name) != target {
				continue
			}
			out = append(out, engine.ReferenceEntry{
				FileName:      other.name,
				TextSpan:      ref.span,
				IsWriteAccess: ref.write,
			})
		}
	}
	return out
}
