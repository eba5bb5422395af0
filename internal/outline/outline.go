// Package outline flattens an engine navigation tree into document symbols.
package outline

import (
	"strconv"

	"github.com/leijiancd/vetur/internal/classify"
	"github.com/leijiancd/vetur/internal/engine"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Symbol is one outline entry.
type Symbol struct {
	Name          string
	Kind          protocol.SymbolKind
	Range         protocol.Range
	ContainerName *string
}

// Build walks tree depth first in engine order. Script nodes are not
// emitted; a node whose name, kind and first span start were already seen
// is not emitted again but its children are still visited.
func Build(tree *engine.NavigationTree, toRange func(engine.TextSpan) protocol.Range) []Symbol {
	if tree == nil {
		return nil
	}
	b := builder{seen: map[string]struct{}{}, toRange: toRange}
	b.collect(tree, nil)
	return b.symbols
}

type builder struct {
	seen    map[string]struct{}
	symbols []Symbol
	toRange func(engine.TextSpan) protocol.Range
}

func (b *builder) collect(item *engine.NavigationTree, container *string) {
	if item.Kind != engine.KindScript && len(item.Spans) > 0 {
		sig := signature(item)
		if _, ok := b.seen[sig]; !ok {
			b.seen[sig] = struct{}{}
			b.symbols = append(b.symbols, Symbol{
				Name:          item.Text,
				Kind:          classify.SymbolKind(item.Kind),
				Range:         b.toRange(item.Spans[0]),
				ContainerName: container,
			})
			name := item.Text
			container = &name
		}
	}
	for _, child := range item.ChildItems {
		b.collect(child, container)
	}
}

func signature(item *engine.NavigationTree) string {
	return item.Text + "\x00" + item.Kind + "\x00" + strconv.Itoa(item.Spans[0].Start)
}
