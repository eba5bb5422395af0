// Package classify maps engine element kinds onto the closed LSP
// vocabularies for completion items and symbols.
package classify

import (
	"github.com/leijiancd/vetur/internal/engine"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

var completionKinds = map[string]protocol.CompletionItemKind{
	engine.KindPrimitiveType:  protocol.CompletionItemKindKeyword,
	engine.KindKeyword:        protocol.CompletionItemKindKeyword,
	engine.KindVariable:       protocol.CompletionItemKindVariable,
	engine.KindLocalVariable:  protocol.CompletionItemKindVariable,
	engine.KindProperty:       protocol.CompletionItemKindField,
	engine.KindGetter:         protocol.CompletionItemKindField,
	engine.KindSetter:         protocol.CompletionItemKindField,
	engine.KindFunction:       protocol.CompletionItemKindFunction,
	engine.KindMethod:         protocol.CompletionItemKindFunction,
	engine.KindConstructor:    protocol.CompletionItemKindFunction,
	engine.KindCallSignature:  protocol.CompletionItemKindFunction,
	engine.KindIndexSignature: protocol.CompletionItemKindFunction,
	engine.KindEnum:           protocol.CompletionItemKindEnum,
	engine.KindModule:         protocol.CompletionItemKindModule,
	engine.KindClass:          protocol.CompletionItemKindClass,
	engine.KindInterface:      protocol.CompletionItemKindInterface,
	engine.KindWarning:        protocol.CompletionItemKindFile,
}

var symbolKinds = map[string]protocol.SymbolKind{
	engine.KindVariable:      protocol.SymbolKindVariable,
	engine.KindLocalVariable: protocol.SymbolKindVariable,
	engine.KindConst:         protocol.SymbolKindVariable,
	engine.KindFunction:      protocol.SymbolKindFunction,
	engine.KindLocalFunction: protocol.SymbolKindFunction,
	engine.KindEnum:          protocol.SymbolKindEnum,
	engine.KindModule:        protocol.SymbolKindModule,
	engine.KindClass:         protocol.SymbolKindClass,
	engine.KindInterface:     protocol.SymbolKindInterface,
	engine.KindMethod:        protocol.SymbolKindMethod,
	engine.KindProperty:      protocol.SymbolKindProperty,
	engine.KindGetter:        protocol.SymbolKindProperty,
	engine.KindSetter:        protocol.SymbolKindProperty,
}

// CompletionKind classifies an element kind for a completion item.
// Unknown kinds are reported as properties.
func CompletionKind(kind string) protocol.CompletionItemKind {
	if k, ok := completionKinds[kind]; ok {
		return k
	}
	return protocol.CompletionItemKindProperty
}

// SymbolKind classifies an element kind for an outline symbol. Unknown
// kinds are reported as variables.
func SymbolKind(kind string) protocol.SymbolKind {
	if k, ok := symbolKinds[kind]; ok {
		return k
	}
	return protocol.SymbolKindVariable
}
