// Package component lists the child components a script registers in the
// components option of its default export.
package component

import (
	"github.com/leijiancd/vetur/internal/engine"
)

// Info is one registered component and where its binding is declared.
type Info struct {
	Name       string
	FileName   string
	Definition *engine.TextSpan
}

// Discover reads the components option of the default export of fileName.
func Discover(svc engine.Service, fileName string) []Info {
	tree := svc.NavigationTree(fileName)
	if tree == nil {
		return nil
	}
	components := child(child(tree, "default"), "components")
	if components == nil {
		return nil
	}
	text, ok := svc.SourceText(fileName)
	if !ok {
		return nil
	}

	var infos []Info
	for _, item := range components.ChildItems {
		info := Info{Name: item.Text}
		if len(item.Spans) > 0 {
			s := item.Spans[0]
			if s.Start >= 0 && s.End() <= len(text) {
				if offset, ok := lastIdentifier(text[s.Start:s.End()]); ok {
					if defs := svc.Definition(fileName, s.Start+offset); len(defs) > 0 {
						info.FileName = defs[0].FileName
						span := defs[0].TextSpan
						info.Definition = &span
					}
				}
			}
		}
		infos = append(infos, info)
	}
	return infos
}

func child(item *engine.NavigationTree, name string) *engine.NavigationTree {
	if item == nil {
		return nil
	}
	for _, c := range item.ChildItems {
		if c.Text == name {
			return c
		}
	}
	return nil
}

func isIdentifierByte(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// lastIdentifier returns the start of the last identifier in s.
func lastIdentifier(s string) (int, bool) {
	end := len(s)
	for end > 0 && !isIdentifierByte(s[end-1]) {
		end--
	}
	if end == 0 {
		return 0, false
	}
	start := end
	for start > 0 && isIdentifierByte(s[start-1]) {
		start--
	}
	return start, true
}
