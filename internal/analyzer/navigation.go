package analyzer

import (
	"strings"

	"github.com/leijiancd/vetur/internal/engine"

	sitter "github.com/smacker/go-tree-sitter"
)

// NavigationTree returns the declaration hierarchy of fileName. The root
// is a "script" node spanning the whole file.
func (a *Analyzer) NavigationTree(fileName string) *engine.NavigationTree {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, ok := a.lookup(fileName)
	if !ok {
		return nil
	}
	nb := navBuilder{source: f.parser.Source()}
	return &engine.NavigationTree{
		Text:       "<global>",
		Kind:       engine.KindScript,
		Spans:      []engine.TextSpan{{Start: 0, Length: len(f.text)}},
		ChildItems: nb.block(f.parser.Root()),
	}
}

type navBuilder struct {
	source []byte
}

func navItem(name string, kind string, n *sitter.Node, children []*engine.NavigationTree) *engine.NavigationTree {
	return &engine.NavigationTree{
		Text:       name,
		Kind:       kind,
		Spans:      []engine.TextSpan{span(n)},
		ChildItems: children,
	}
}

func nestsDeclarations(t string) bool {
	switch t {
	case "statement_block", "else_clause", "catch_clause", "finally_clause",
		"switch_body", "switch_case", "switch_default":
		return true
	case "expression_statement", "return_statement", "throw_statement":
		return false
	}
	return strings.HasSuffix(t, "_statement")
}

// block collects the declarations among the statements of n.
func (nb navBuilder) block(n *sitter.Node) []*engine.NavigationTree {
	if n == nil {
		return nil
	}
	var items []*engine.NavigationTree
	for i := 0; i < int(n.NamedChildCount()); i++ {
		items = append(items, nb.statement(n.NamedChild(i))...)
	}
	return items
}

func (nb navBuilder) statement(n *sitter.Node) []*engine.NavigationTree {
	switch n.Type() {
	case "function_declaration", "generator_function_declaration":
		name := n.ChildByFieldName("name")
		if name == nil {
			return nil
		}
		return []*engine.NavigationTree{navItem(name.Content(nb.source), engine.KindFunction, n, nb.body(n))}

	case "class_declaration", "abstract_class_declaration":
		name := n.ChildByFieldName("name")
		if name == nil {
			return nil
		}
		return []*engine.NavigationTree{navItem(name.Content(nb.source), engine.KindClass, n, nb.classMembers(n))}

	case "interface_declaration", "enum_declaration", "type_alias_declaration":
		name := n.ChildByFieldName("name")
		if name == nil {
			return nil
		}
		kind := engine.KindInterface
		switch n.Type() {
		case "enum_declaration":
			kind = engine.KindEnum
		case "type_alias_declaration":
			kind = engine.KindAlias
		}
		return []*engine.NavigationTree{navItem(name.Content(nb.source), kind, n, nil)}

	case "lexical_declaration", "variable_declaration":
		kind := engine.KindVariable
		if n.Type() == "lexical_declaration" {
			kind = engine.KindLet
			if k := n.ChildByFieldName("kind"); k != nil && k.Content(nb.source) == "const" {
				kind = engine.KindConst
			}
		}
		var items []*engine.NavigationTree
		for i := 0; i < int(n.NamedChildCount()); i++ {
			d := n.NamedChild(i)
			if d.Type() == "variable_declarator" {
				items = append(items, nb.declarator(d, kind)...)
			}
		}
		return items

	case "export_statement":
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			return nb.statement(decl)
		}
		value := n.ChildByFieldName("value")
		if value == nil {
			return nil
		}
		switch {
		case value.Type() == "object":
			return []*engine.NavigationTree{navItem("default", engine.KindConst, n, nb.objectMembers(value))}
		case isFunctionExpression(value.Type()):
			return []*engine.NavigationTree{navItem("default", engine.KindFunction, n, nb.body(value))}
		case value.Type() == "class":
			return []*engine.NavigationTree{navItem("default", engine.KindClass, n, nb.classMembers(value))}
		}
		return nil

	case "import_statement":
		return nb.imports(n)
	}

	if nestsDeclarations(n.Type()) {
		return nb.block(n)
	}
	return nil
}

func (nb navBuilder) imports(n *sitter.Node) []*engine.NavigationTree {
	var items []*engine.NavigationTree
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "import_clause", "named_imports", "namespace_import":
			items = append(items, nb.imports(child)...)
		case "identifier":
			items = append(items, navItem(child.Content(nb.source), engine.KindAlias, child, nil))
		case "import_specifier":
			name := child.ChildByFieldName("alias")
			if name == nil {
				name = child.ChildByFieldName("name")
			}
			if name != nil {
				items = append(items, navItem(name.Content(nb.source), engine.KindAlias, child, nil))
			}
		}
	}
	return items
}

func (nb navBuilder) declarator(d *sitter.Node, kind string) []*engine.NavigationTree {
	name := d.ChildByFieldName("name")
	if name == nil {
		return nil
	}
	if name.Type() != "identifier" {
		var items []*engine.NavigationTree
		for _, id := range patternNames(name) {
			items = append(items, navItem(id.Content(nb.source), kind, id, nil))
		}
		return items
	}

	var children []*engine.NavigationTree
	if value := d.ChildByFieldName("value"); value != nil {
		switch {
		case isFunctionExpression(value.Type()):
			children = nb.body(value)
		case value.Type() == "object":
			children = nb.objectMembers(value)
		case value.Type() == "class":
			children = nb.classMembers(value)
		}
	}
	return []*engine.NavigationTree{navItem(name.Content(nb.source), kind, d, children)}
}

func patternNames(n *sitter.Node) []*sitter.Node {
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return []*sitter.Node{n}
	case "assignment_pattern", "object_assignment_pattern":
		if left := n.ChildByFieldName("left"); left != nil {
			return patternNames(left)
		}
	case "pair_pattern":
		if value := n.ChildByFieldName("value"); value != nil {
			return patternNames(value)
		}
	case "object_pattern", "array_pattern", "rest_pattern":
		var out []*sitter.Node
		for i := 0; i < int(n.NamedChildCount()); i++ {
			out = append(out, patternNames(n.NamedChild(i))...)
		}
		return out
	}
	return nil
}

// body collects the declarations inside a function's block body.
func (nb navBuilder) body(fn *sitter.Node) []*engine.NavigationTree {
	body := fn.ChildByFieldName("body")
	if body == nil || body.Type() != "statement_block" {
		return nil
	}
	return nb.block(body)
}

func (nb navBuilder) objectMembers(obj *sitter.Node) []*engine.NavigationTree {
	var items []*engine.NavigationTree
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		child := obj.NamedChild(i)
		switch child.Type() {
		case "pair":
			key := child.ChildByFieldName("key")
			if key == nil {
				continue
			}
			name := strings.Trim(key.Content(nb.source), "\"'")
			kind := engine.KindProperty
			var children []*engine.NavigationTree
			if value := child.ChildByFieldName("value"); value != nil {
				switch {
				case isFunctionExpression(value.Type()):
					kind = engine.KindMethod
					children = nb.body(value)
				case value.Type() == "object":
					children = nb.objectMembers(value)
				}
			}
			items = append(items, navItem(name, kind, child, children))
		case "method_definition":
			name := child.ChildByFieldName("name")
			if name == nil {
				continue
			}
			items = append(items, navItem(name.Content(nb.source), methodKind(child), child, nb.body(child)))
		case "shorthand_property_identifier":
			items = append(items, navItem(child.Content(nb.source), engine.KindProperty, child, nil))
		}
	}
	return items
}

func (nb navBuilder) classMembers(class *sitter.Node) []*engine.NavigationTree {
	body := class.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var items []*engine.NavigationTree
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "method_definition", "method_signature", "abstract_method_signature":
			name := child.ChildByFieldName("name")
			if name == nil {
				continue
			}
			kind := methodKind(child)
			text := name.Content(nb.source)
			if text == "constructor" {
				kind = engine.KindConstructor
			}
			items = append(items, navItem(text, kind, child, nb.body(child)))
		case "field_definition":
			if name := child.ChildByFieldName("property"); name != nil {
				items = append(items, navItem(name.Content(nb.source), engine.KindProperty, child, nil))
			}
		case "public_field_definition":
			if name := child.ChildByFieldName("name"); name != nil {
				items = append(items, navItem(name.Content(nb.source), engine.KindProperty, child, nil))
			}
		}
	}
	return items
}
