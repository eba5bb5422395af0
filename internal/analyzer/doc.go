package analyzer

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// docComment is a parsed /** */ block.
type docComment struct {
	text   string
	params map[string]string
}

// precedingDoc returns the doc comment directly above n. Only whitespace
// may separate the two.
func precedingDoc(n *sitter.Node, source []byte) docComment {
	prev := n.PrevNamedSibling()
	if prev == nil || prev.Type() != "comment" {
		return docComment{}
	}
	raw := prev.Content(source)
	if !strings.HasPrefix(raw, "/**") || raw == "/**/" {
		return docComment{}
	}
	if strings.TrimSpace(string(source[prev.EndByte():n.StartByte()])) != "" {
		return docComment{}
	}
	return parseDoc(raw)
}

func parseDoc(raw string) docComment {
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "/**"), "*/")

	doc := docComment{}
	var text []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		if strings.HasPrefix(line, "@param") {
			fields := strings.Fields(strings.TrimPrefix(line, "@param"))
			if len(fields) > 0 && strings.HasPrefix(fields[0], "{") {
				fields = fields[1:]
			}
			if len(fields) == 0 {
				continue
			}
			if doc.params == nil {
				doc.params = map[string]string{}
			}
			name := strings.Trim(fields[0], "[]")
			doc.params[name] = strings.TrimPrefix(strings.Join(fields[1:], " "), "- ")
			continue
		}
		if strings.HasPrefix(line, "@") {
			continue
		}
		text = append(text, line)
	}
	doc.text = strings.TrimSpace(strings.Join(text, "\n"))
	return doc
}
