package analyzer

import (
	"strings"

	"github.com/leijiancd/vetur/internal/engine"

	sitter "github.com/smacker/go-tree-sitter"
)

type param struct {
	name string
	rest bool
}

// symbol is one declaration.
type symbol struct {
	name        string
	kind        string
	fileName    string
	nameSpan    engine.TextSpan
	span        engine.TextSpan
	container   string
	params      []param
	callable    bool
	members     []*symbol
	valueType   string
	doc         docComment
	source      string
	blockScoped bool
}

type scope struct {
	start, end int
	parent     *scope
	function   bool
	children   []*scope
	symbols    map[string]*symbol
	order      []*symbol
}

func newScope(parent *scope, start, end int, function bool) *scope {
	sc := &scope{
		start:    start,
		end:      end,
		parent:   parent,
		function: function,
		symbols:  map[string]*symbol{},
	}
	if parent != nil {
		parent.children = append(parent.children, sc)
	}
	return sc
}

func (sc *scope) lookup(name string) *symbol {
	for s := sc; s != nil; s = s.parent {
		if sym, ok := s.symbols[name]; ok {
			return sym
		}
	}
	return nil
}

func (sc *scope) functionScope() *scope {
	s := sc
	for s.parent != nil && !s.function {
		s = s.parent
	}
	return s
}

// local reports whether declarations of sc live inside a function.
func (sc *scope) local() bool {
	return sc.functionScope().parent != nil
}

// innermost returns the deepest scope containing offset.
func (sc *scope) innermost(offset int) *scope {
	for _, child := range sc.children {
		if offset > child.start && offset < child.end {
			return child.innermost(offset)
		}
	}
	return sc
}

type reference struct {
	name  string
	span  engine.TextSpan
	write bool
	scope *scope
}

// redeclaration is a block scoped name declared twice in one scope.
type redeclaration struct {
	name string
	span engine.TextSpan
}

type index struct {
	fileName   string
	module     bool
	root       *scope
	symbols    []*symbol
	refs       []reference
	byName     map[int]*symbol
	byRef      map[int]int
	redeclared []redeclaration
}

func buildIndex(fileName string, root *sitter.Node, source []byte) *index {
	idx := &index{
		fileName: fileName,
		byName:   map[int]*symbol{},
		byRef:    map[int]int{},
	}
	idx.root = newScope(nil, 0, len(source), true)
	if root == nil {
		return idx
	}
	b := &indexBuilder{idx: idx, source: source, reported: map[int]struct{}{}}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "import_statement", "export_statement":
			idx.module = true
		}
	}
	b.visitChildren(root, idx.root)
	return idx
}

// symbolAt returns the declaration whose name starts at offset.
func (idx *index) symbolAt(start int) *symbol {
	return idx.byName[start]
}

func (idx *index) refAt(start int) (reference, bool) {
	i, ok := idx.byRef[start]
	if !ok {
		return reference{}, false
	}
	return idx.refs[i], true
}

type indexBuilder struct {
	idx      *index
	source   []byte
	reported map[int]struct{}
}

func (b *indexBuilder) content(n *sitter.Node) string {
	return n.Content(b.source)
}

func span(n *sitter.Node) engine.TextSpan {
	return engine.TextSpan{Start: int(n.StartByte()), Length: int(n.EndByte() - n.StartByte())}
}

func (b *indexBuilder) declare(sc *scope, name *sitter.Node, kind string, decl *sitter.Node) *symbol {
	sym := &symbol{
		name:     b.content(name),
		kind:     kind,
		fileName: b.idx.fileName,
		nameSpan: span(name),
		span:     span(decl),
	}
	if sym.name == "" {
		return sym
	}
	if kind == engine.KindLet || kind == engine.KindConst || kind == engine.KindClass {
		sym.blockScoped = true
	}
	if prev, ok := sc.symbols[sym.name]; ok && (prev.blockScoped || sym.blockScoped) {
		b.redeclare(prev)
		b.redeclare(sym)
	}
	if _, exists := sc.symbols[sym.name]; !exists {
		sc.symbols[sym.name] = sym
		sc.order = append(sc.order, sym)
	}
	b.idx.symbols = append(b.idx.symbols, sym)
	b.idx.byName[sym.nameSpan.Start] = sym
	return sym
}

func (b *indexBuilder) redeclare(sym *symbol) {
	if _, ok := b.reported[sym.nameSpan.Start]; ok {
		return
	}
	b.reported[sym.nameSpan.Start] = struct{}{}
	b.idx.redeclared = append(b.idx.redeclared, redeclaration{name: sym.name, span: sym.nameSpan})
}

func (b *indexBuilder) reference(n *sitter.Node, sc *scope, write bool) {
	if _, ok := b.idx.byName[int(n.StartByte())]; ok {
		return
	}
	b.idx.byRef[int(n.StartByte())] = len(b.idx.refs)
	b.idx.refs = append(b.idx.refs, reference{
		name:  b.content(n),
		span:  span(n),
		write: write,
		scope: sc,
	})
}

func (b *indexBuilder) visitChildren(n *sitter.Node, sc *scope) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		b.visit(n.NamedChild(i), sc)
	}
}

func isFunctionExpression(t string) bool {
	switch t {
	case "function", "function_expression", "generator_function", "arrow_function":
		return true
	}
	return false
}

func (b *indexBuilder) visit(n *sitter.Node, sc *scope) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "comment", "string", "template_string", "regex", "number":
		if n.Type() == "template_string" {
			b.visitChildren(n, sc)
		}

	case "function_declaration", "generator_function_declaration":
		name := n.ChildByFieldName("name")
		var sym *symbol
		if name != nil {
			kind := engine.KindFunction
			if sc.local() {
				kind = engine.KindLocalFunction
			}
			sym = b.declare(sc, name, kind, n)
			sym.doc = precedingDoc(statementOf(n), b.source)
		}
		params := b.visitFunction(n, sc)
		if sym != nil {
			sym.params = params
			sym.callable = true
		}

	case "function", "function_expression", "generator_function", "arrow_function":
		b.visitFunction(n, sc)

	case "method_definition":
		b.visitFunction(n, sc)

	case "class_declaration", "abstract_class_declaration", "class":
		if name := n.ChildByFieldName("name"); name != nil && n.Type() != "class" {
			sym := b.declare(sc, name, engine.KindClass, n)
			sym.doc = precedingDoc(statementOf(n), b.source)
			sym.members = b.classMembers(n, sym.name)
			sym.params = constructorParams(sym.members)
			sym.callable = true
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "identifier" || child.Type() == "type_identifier" {
				continue
			}
			b.visit(child, sc)
		}

	case "lexical_declaration", "variable_declaration":
		kind := engine.KindVariable
		target := sc.functionScope()
		if n.Type() == "lexical_declaration" {
			target = sc
			kind = engine.KindLet
			if k := n.ChildByFieldName("kind"); k != nil && b.content(k) == "const" {
				kind = engine.KindConst
			} else if n.ChildCount() > 0 && n.Child(0).Type() == "const" {
				kind = engine.KindConst
			}
		} else if target.parent != nil {
			kind = engine.KindLocalVariable
		}
		doc := precedingDoc(statementOf(n), b.source)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			declarator := n.NamedChild(i)
			if declarator.Type() != "variable_declarator" {
				b.visit(declarator, sc)
				continue
			}
			b.declarator(declarator, target, sc, kind, doc)
		}

	case "export_statement":
		if value := n.ChildByFieldName("value"); value != nil && value.Type() == "object" {
			b.objectMembers(value, "default")
		}
		b.visitChildren(n, sc)

	case "import_statement":
		source := ""
		if s := n.ChildByFieldName("source"); s != nil {
			source = strings.Trim(b.content(s), "\"'`")
		}
		b.imports(n, sc, source)

	case "statement_block":
		block := newScope(sc, int(n.StartByte()), int(n.EndByte()), false)
		b.visitChildren(n, block)

	case "for_statement", "for_in_statement":
		block := newScope(sc, int(n.StartByte()), int(n.EndByte()), false)
		if n.Type() == "for_in_statement" {
			if k := n.ChildByFieldName("kind"); k != nil {
				kind := engine.KindVariable
				target := sc.functionScope()
				switch b.content(k) {
				case "let":
					kind, target = engine.KindLet, block
				case "const":
					kind, target = engine.KindConst, block
				default:
					if target.parent != nil {
						kind = engine.KindLocalVariable
					}
				}
				if left := n.ChildByFieldName("left"); left != nil {
					b.pattern(left, target, block, kind, n)
				}
				if right := n.ChildByFieldName("right"); right != nil {
					b.visit(right, block)
				}
				if body := n.ChildByFieldName("body"); body != nil {
					b.visit(body, block)
				}
				return
			}
		}
		b.visitChildren(n, block)

	case "catch_clause":
		block := newScope(sc, int(n.StartByte()), int(n.EndByte()), false)
		if p := n.ChildByFieldName("parameter"); p != nil {
			b.pattern(p, block, block, engine.KindParameter, p)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			b.visitChildren(body, block)
		}

	case "interface_declaration", "enum_declaration", "type_alias_declaration":
		kind := engine.KindInterface
		switch n.Type() {
		case "enum_declaration":
			kind = engine.KindEnum
		case "type_alias_declaration":
			kind = engine.KindAlias
		}
		if name := n.ChildByFieldName("name"); name != nil {
			sym := b.declare(sc, name, kind, n)
			sym.doc = precedingDoc(statementOf(n), b.source)
			for i := 0; i < int(n.NamedChildCount()); i++ {
				child := n.NamedChild(i)
				if child.StartByte() != name.StartByte() {
					b.visit(child, sc)
				}
			}
			return
		}
		b.visitChildren(n, sc)

	case "assignment_expression", "augmented_assignment_expression":
		if left := n.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
			b.reference(left, sc, true)
		} else {
			b.visit(left, sc)
		}
		b.visit(n.ChildByFieldName("right"), sc)

	case "update_expression":
		if arg := n.ChildByFieldName("argument"); arg != nil && arg.Type() == "identifier" {
			b.reference(arg, sc, true)
			return
		}
		b.visitChildren(n, sc)

	case "member_expression":
		b.visit(n.ChildByFieldName("object"), sc)

	case "pair":
		if value := n.ChildByFieldName("value"); value != nil {
			b.visit(value, sc)
		}

	case "identifier", "type_identifier", "shorthand_property_identifier":
		b.reference(n, sc, false)

	default:
		b.visitChildren(n, sc)
	}
}

// visitFunction opens the scope of a function node, declares its
// parameters and visits its body. It returns the parameter list.
func (b *indexBuilder) visitFunction(n *sitter.Node, sc *scope) []param {
	fn := newScope(sc, int(n.StartByte()), int(n.EndByte()), true)

	if isFunctionExpression(n.Type()) && n.Type() != "arrow_function" {
		if name := n.ChildByFieldName("name"); name != nil {
			sym := b.declare(fn, name, engine.KindLocalFunction, n)
			sym.callable = true
		}
	}

	var params []param
	if p := n.ChildByFieldName("parameter"); p != nil {
		b.pattern(p, fn, fn, engine.KindParameter, p)
		params = append(params, param{name: b.content(p)})
	}
	if ps := n.ChildByFieldName("parameters"); ps != nil {
		params = b.parameters(ps, fn)
	}

	if body := n.ChildByFieldName("body"); body != nil {
		if body.Type() == "statement_block" {
			b.visitChildren(body, fn)
		} else {
			b.visit(body, fn)
		}
	}
	return params
}

func (b *indexBuilder) parameters(ps *sitter.Node, fn *scope) []param {
	var params []param
	for i := 0; i < int(ps.NamedChildCount()); i++ {
		p := ps.NamedChild(i)
		if p.Type() == "comment" {
			continue
		}
		target := p
		if p.Type() == "required_parameter" || p.Type() == "optional_parameter" {
			if pattern := p.ChildByFieldName("pattern"); pattern != nil {
				target = pattern
			}
			for j := 0; j < int(p.NamedChildCount()); j++ {
				child := p.NamedChild(j)
				if child.StartByte() != target.StartByte() {
					b.visit(child, fn)
				}
			}
		}
		b.pattern(target, fn, fn, engine.KindParameter, p)
		params = append(params, paramOf(target, b.source))
	}
	return params
}

func paramOf(n *sitter.Node, source []byte) param {
	switch n.Type() {
	case "rest_pattern":
		if n.NamedChildCount() > 0 {
			return param{name: n.NamedChild(0).Content(source), rest: true}
		}
	case "assignment_pattern":
		if left := n.ChildByFieldName("left"); left != nil {
			return param{name: left.Content(source)}
		}
	}
	return param{name: n.Content(source)}
}

// pattern declares every binding of a (possibly destructuring) pattern in
// target and visits default values in sc.
func (b *indexBuilder) pattern(n *sitter.Node, target, sc *scope, kind string, decl *sitter.Node) {
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		b.declare(target, n, kind, decl)
	case "assignment_pattern", "object_assignment_pattern":
		if left := n.ChildByFieldName("left"); left != nil {
			b.pattern(left, target, sc, kind, decl)
		}
		b.visit(n.ChildByFieldName("right"), sc)
	case "pair_pattern":
		if value := n.ChildByFieldName("value"); value != nil {
			b.pattern(value, target, sc, kind, decl)
		}
	case "object_pattern", "array_pattern", "rest_pattern":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			b.pattern(n.NamedChild(i), target, sc, kind, decl)
		}
	}
}

func (b *indexBuilder) declarator(n *sitter.Node, target, sc *scope, kind string, doc docComment) {
	name := n.ChildByFieldName("name")
	value := n.ChildByFieldName("value")
	if name == nil {
		return
	}
	if name.Type() != "identifier" {
		b.pattern(name, target, sc, kind, n)
		b.visit(value, sc)
		return
	}

	sym := b.declare(target, name, kind, n)
	sym.doc = doc
	if t := n.ChildByFieldName("type"); t != nil {
		sym.valueType = strings.TrimSpace(strings.TrimPrefix(b.content(t), ":"))
		b.visit(t, sc)
	}
	if value == nil {
		return
	}
	if sym.valueType == "" {
		sym.valueType = literalType(value)
	}
	switch {
	case isFunctionExpression(value.Type()):
		sym.params = b.visitFunction(value, sc)
		sym.callable = true
		return
	case value.Type() == "object":
		sym.members = b.objectMembers(value, sym.name)
	case value.Type() == "class":
		sym.members = b.classMembers(value, sym.name)
		sym.params = constructorParams(sym.members)
		sym.callable = true
	}
	b.visit(value, sc)
}

func (b *indexBuilder) imports(n *sitter.Node, sc *scope, source string) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "import_clause", "named_imports", "namespace_import":
			b.imports(child, sc, source)
		case "identifier":
			sym := b.declare(sc, child, engine.KindAlias, n)
			sym.source = source
		case "import_specifier":
			name := child.ChildByFieldName("alias")
			if name == nil {
				name = child.ChildByFieldName("name")
			}
			if name != nil {
				sym := b.declare(sc, name, engine.KindAlias, n)
				sym.source = source
			}
		}
	}
}

// objectMembers describes the properties of an object literal.
func (b *indexBuilder) objectMembers(obj *sitter.Node, container string) []*symbol {
	var members []*symbol
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		child := obj.NamedChild(i)
		var name *sitter.Node
		sym := &symbol{kind: engine.KindProperty, fileName: b.idx.fileName, container: container, span: span(child)}
		switch child.Type() {
		case "pair":
			name = child.ChildByFieldName("key")
			if value := child.ChildByFieldName("value"); value != nil {
				sym.valueType = literalType(value)
				if isFunctionExpression(value.Type()) {
					sym.kind = engine.KindMethod
					sym.callable = true
					sym.params = b.paramNames(value)
				}
			}
		case "method_definition":
			name = child.ChildByFieldName("name")
			sym.kind = methodKind(child)
			sym.callable = sym.kind == engine.KindMethod
			sym.params = b.paramNames(child)
		case "shorthand_property_identifier":
			name = child
		}
		if name == nil {
			continue
		}
		sym.name = strings.Trim(b.content(name), "\"'")
		sym.nameSpan = span(name)
		sym.doc = precedingDoc(child, b.source)
		members = append(members, sym)
		if child.Type() != "shorthand_property_identifier" {
			b.idx.byName[sym.nameSpan.Start] = sym
		}
	}
	return members
}

func (b *indexBuilder) classMembers(class *sitter.Node, container string) []*symbol {
	body := class.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var members []*symbol
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		var name *sitter.Node
		sym := &symbol{kind: engine.KindProperty, fileName: b.idx.fileName, container: container, span: span(child)}
		switch child.Type() {
		case "method_definition", "method_signature", "abstract_method_signature":
			name = child.ChildByFieldName("name")
			sym.kind = methodKind(child)
			sym.callable = sym.kind == engine.KindMethod
			sym.params = b.paramNames(child)
			if name != nil && b.content(name) == "constructor" {
				sym.kind = engine.KindConstructor
			}
		case "field_definition":
			name = child.ChildByFieldName("property")
		case "public_field_definition":
			name = child.ChildByFieldName("name")
		}
		if name == nil {
			continue
		}
		sym.name = b.content(name)
		sym.nameSpan = span(name)
		sym.doc = precedingDoc(child, b.source)
		members = append(members, sym)
		b.idx.byName[sym.nameSpan.Start] = sym
	}
	return members
}

func (b *indexBuilder) paramNames(fn *sitter.Node) []param {
	if p := fn.ChildByFieldName("parameter"); p != nil {
		return []param{{name: b.content(p)}}
	}
	ps := fn.ChildByFieldName("parameters")
	if ps == nil {
		return nil
	}
	var params []param
	for i := 0; i < int(ps.NamedChildCount()); i++ {
		p := ps.NamedChild(i)
		if p.Type() == "comment" {
			continue
		}
		if pattern := p.ChildByFieldName("pattern"); pattern != nil {
			p = pattern
		}
		params = append(params, paramOf(p, b.source))
	}
	return params
}

func constructorParams(members []*symbol) []param {
	for _, m := range members {
		if m.kind == engine.KindConstructor {
			return m.params
		}
	}
	return nil
}

func methodKind(n *sitter.Node) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "get":
			return engine.KindGetter
		case "set":
			return engine.KindSetter
		}
	}
	return engine.KindMethod
}

func literalType(value *sitter.Node) string {
	switch value.Type() {
	case "number":
		return "number"
	case "string", "template_string":
		return "string"
	case "true", "false":
		return "boolean"
	case "null":
		return "null"
	case "array":
		return "any[]"
	}
	return ""
}

// statementOf returns the export statement wrapping n, if any.
func statementOf(n *sitter.Node) *sitter.Node {
	if p := n.Parent(); p != nil && p.Type() == "export_statement" {
		return p
	}
	return n
}
