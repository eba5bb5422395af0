package analyzer

import (
	"github.com/leijiancd/vetur/internal/engine"
)

type parts []engine.SymbolDisplayPart

func (p parts) add(text, kind string) parts {
	return append(p, engine.SymbolDisplayPart{Text: text, Kind: kind})
}

func (p parts) space() parts {
	return p.add(" ", engine.KindSpace)
}

func (p parts) punct(text string) parts {
	return p.add(text, engine.KindPunctuation)
}

// label renders "(kind) " the way locals and members are announced.
func (p parts) label(kind string) parts {
	return p.punct("(").add(kind, engine.KindText).punct(")").space()
}

func (p parts) params(params []param) parts {
	p = p.punct("(")
	for i, prm := range params {
		if i > 0 {
			p = p.punct(",").space()
		}
		if prm.rest {
			p = p.punct("...")
		}
		p = p.add(prm.name, engine.KindParameterName)
	}
	return p.punct(")")
}

func (p parts) typed(valueType string) parts {
	if valueType == "" {
		return p
	}
	return p.punct(":").space().add(valueType, engine.KindKeyword)
}

func (p parts) qualified(sym *symbol, kind string) parts {
	if sym.container != "" && sym.container != "default" {
		p = p.add(sym.container, engine.KindClassName).punct(".")
	}
	return p.add(sym.name, kind)
}

// displayParts renders the signature shown by hover and completion
// details.
func displayParts(sym *symbol) []engine.SymbolDisplayPart {
	var p parts
	switch sym.kind {
	case engine.KindFunction:
		p = p.add("function", engine.KindKeyword).space().add(sym.name, engine.KindFunctionName).params(sym.params)
	case engine.KindLocalFunction:
		p = p.label(sym.kind).add(sym.name, engine.KindFunctionName).params(sym.params)
	case engine.KindMethod:
		p = p.label(sym.kind).qualified(sym, engine.KindMethodName).params(sym.params)
	case engine.KindConstructor:
		p = p.add("constructor", engine.KindKeyword).space().add(sym.container, engine.KindClassName).params(sym.params)
	case engine.KindGetter, engine.KindSetter, engine.KindProperty:
		p = p.label(sym.kind).qualified(sym, engine.KindPropertyName).typed(sym.valueType)
	case engine.KindClass:
		p = p.add("class", engine.KindKeyword).space().add(sym.name, engine.KindClassName)
	case engine.KindInterface, engine.KindEnum:
		p = p.add(sym.kind, engine.KindKeyword).space().add(sym.name, engine.KindClassName)
	case engine.KindAlias:
		if sym.source != "" {
			p = p.label(sym.kind).add("import", engine.KindKeyword).space().add(sym.name, engine.KindAliasName)
		} else {
			p = p.add("type", engine.KindKeyword).space().add(sym.name, engine.KindAliasName)
		}
	case engine.KindLet, engine.KindConst, engine.KindVariable:
		p = p.add(sym.kind, engine.KindKeyword).space().add(sym.name, engine.KindLocalName)
		if sym.callable {
			p = p.params(sym.params)
		}
		p = p.typed(sym.valueType)
	case engine.KindLocalVariable:
		p = p.label(sym.kind).add(sym.name, engine.KindLocalName).typed(sym.valueType)
	case engine.KindParameter:
		p = p.label(sym.kind).add(sym.name, engine.KindParameterName)
	default:
		p = p.add(sym.name, engine.KindText)
	}
	return p
}

func docParts(text string) []engine.SymbolDisplayPart {
	if text == "" {
		return nil
	}
	return []engine.SymbolDisplayPart{{Text: text, Kind: engine.KindText}}
}
