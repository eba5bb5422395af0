package parser

import (
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/javascript"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
)

const (
	JavaScript = "javascript"
	TypeScript = "typescript"
	HTML       = "html"
)

var (
	langToGrammar map[string]*sitter.Language
	grammarsOnce  sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		langToGrammar = map[string]*sitter.Language{
			JavaScript: javascript.GetLanguage(),
			TypeScript: ts.GetLanguage(),
			HTML:       html.GetLanguage(),
		}
	})
}

// Language returns the grammar for a language id.
func Language(languageID string) (*sitter.Language, bool) {
	initGrammars()
	l, ok := langToGrammar[languageID]
	return l, ok
}

// ScriptLanguage maps a script tag lang attribute to a language id.
func ScriptLanguage(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "ts", "tsx", "typescript":
		return TypeScript
	default:
		return JavaScript
	}
}
