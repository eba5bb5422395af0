// Package embedded extracts the script region of a composite host document
// into a standalone view that keeps every offset and position of the host.
package embedded

import (
	"fmt"
	"strings"

	"github.com/leijiancd/vetur/internal/parser"
	"github.com/leijiancd/vetur/internal/textdoc"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("vls.embedded")

// Region is the location of the script block inside the host text.
type Region struct {
	Start      int
	End        int
	LanguageID string
}

// Extractor finds script regions with a pooled html parser.
type Extractor struct {
	pool            *parser.Pool
	defaultLanguage string
}

func NewExtractor(poolSize int, defaultLanguage string) (*Extractor, error) {
	pool, err := parser.NewPool(poolSize, parser.HTML)
	if err != nil {
		return nil, fmt.Errorf("failed to create html parser pool: %w", err)
	}
	if defaultLanguage == "" {
		defaultLanguage = parser.JavaScript
	}
	return &Extractor{pool: pool, defaultLanguage: defaultLanguage}, nil
}

// FindRegion returns the first script region of text, if any.
func (e *Extractor) FindRegion(text string) (Region, bool) {
	var region Region
	found := false
	err := e.pool.Walk([]byte(text), func(root *sitter.Node, source []byte) error {
		region, found = findScript(root, source, e.defaultLanguage)
		return nil
	})
	if err != nil {
		log.Errorf("failed to parse host document: %s", err)
		return Region{}, false
	}
	return region, found
}

// Extract builds the synthetic view of the script region of host. Text
// outside the region is blanked so that the result has the same length and
// line structure as the host. A host without a script block yields an
// all-blank view with the default language.
func (e *Extractor) Extract(host *textdoc.Document) *textdoc.Document {
	region, ok := e.FindRegion(host.Text)
	if !ok {
		return textdoc.New(host.URI, e.defaultLanguage, host.Version, Blank(host.Text, 0, 0))
	}
	return textdoc.New(host.URI, region.LanguageID, host.Version, Blank(host.Text, region.Start, region.End))
}

// Close releases the parser pool.
func (e *Extractor) Close() error {
	return e.pool.Close()
}

// Blank keeps text[start:end] and replaces every other byte except line
// breaks with a space.
func Blank(text string, start, end int) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case i >= start && i < end:
			b.WriteByte(c)
		case c == '\n' || c == '\r':
			b.WriteByte(c)
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func findScript(root *sitter.Node, source []byte, defaultLanguage string) (Region, bool) {
	if root == nil {
		return Region{}, false
	}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "script_element" {
			continue
		}
		var startTag, endTag *sitter.Node
		for j := 0; j < int(child.NamedChildCount()); j++ {
			n := child.NamedChild(j)
			switch n.Type() {
			case "start_tag":
				startTag = n
			case "end_tag":
				endTag = n
			}
		}
		if startTag == nil {
			continue
		}
		region := Region{
			Start:      int(startTag.EndByte()),
			End:        len(source),
			LanguageID: parser.ScriptLanguage(attribute(startTag, source, "lang", defaultLanguage)),
		}
		if endTag != nil && !endTag.IsMissing() {
			region.End = int(endTag.StartByte())
		}
		if region.End < region.Start {
			region.End = region.Start
		}
		return region, true
	}
	return Region{}, false
}

func attribute(tag *sitter.Node, source []byte, name, fallback string) string {
	for i := 0; i < int(tag.NamedChildCount()); i++ {
		attr := tag.NamedChild(i)
		if attr.Type() != "attribute" {
			continue
		}
		var attrName, value string
		for j := 0; j < int(attr.NamedChildCount()); j++ {
			n := attr.NamedChild(j)
			switch n.Type() {
			case "attribute_name":
				attrName = n.Content(source)
			case "attribute_value":
				value = n.Content(source)
			case "quoted_attribute_value":
				value = strings.Trim(n.Content(source), `"'`)
			}
		}
		if strings.EqualFold(attrName, name) {
			return value
		}
	}
	return fallback
}
