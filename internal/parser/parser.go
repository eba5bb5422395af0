package parser

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// Parser wraps a tree-sitter parser instance along with its current syntax tree.
type Parser struct {
	parser     *sitter.Parser
	tree       *sitter.Tree
	source     []byte
	languageID string
	mu         sync.Mutex
}

// NewParser creates a Parser for languageID and parses initialText if it is
// non-empty.
func NewParser(languageID string, initialText []byte) (*Parser, error) {
	lang, ok := Language(languageID)
	if !ok {
		return nil, fmt.Errorf("no grammar for language %q", languageID)
	}
	p := sitter.NewParser()
	p.SetLanguage(lang)
	parser := &Parser{
		parser:     p,
		languageID: languageID,
	}
	if len(initialText) > 0 {
		if err := parser.Reparse(initialText); err != nil {
			p.Close()
			return nil, err
		}
	}
	return parser, nil
}

// LanguageID returns the language the parser was created for.
func (p *Parser) LanguageID() string {
	return p.languageID
}

// Reparse replaces the source and builds a fresh syntax tree for it.
func (p *Parser) Reparse(text []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.parser == nil {
		return fmt.Errorf("parser is closed")
	}
	tree, err := p.parser.ParseCtx(context.Background(), nil, text)
	if err != nil {
		return fmt.Errorf("failed to parse: %w", err)
	}
	if p.tree != nil {
		p.tree.Close()
	}
	p.tree = tree
	p.source = text
	return nil
}

// Root returns the root node of the current tree, or nil if nothing was parsed.
func (p *Parser) Root() *sitter.Node {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree == nil {
		return nil
	}
	return p.tree.RootNode()
}

// Source returns the bytes the current tree was built from.
func (p *Parser) Source() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// Close frees any resources held by the Parser.
func (p *Parser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree != nil {
		p.tree.Close()
		p.tree = nil
	}
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
	return nil
}

// Pool maintains a pool of Parser instances for one-time parsing.
type Pool struct {
	pool chan *Parser
}

// NewPool creates a Pool with n parsers for languageID.
func NewPool(n int, languageID string) (*Pool, error) {
	pp := &Pool{
		pool: make(chan *Parser, n),
	}
	for i := 0; i < n; i++ {
		parser, err := NewParser(languageID, nil)
		if err != nil {
			pp.Close()
			return nil, fmt.Errorf("failed to create parser: %w", err)
		}
		pp.pool <- parser
	}
	return pp, nil
}

// Walk parses document with a pooled parser and hands the root node to fn.
// Nodes must not be retained after fn returns.
func (pp *Pool) Walk(document []byte, fn func(root *sitter.Node, source []byte) error) error {
	p := <-pp.pool
	defer func() { pp.pool <- p }()

	if err := p.Reparse(document); err != nil {
		return err
	}
	return fn(p.Root(), document)
}

// Close releases all Parser instances in the pool.
func (pp *Pool) Close() error {
	close(pp.pool)
	for p := range pp.pool {
		p.Close()
	}
	return nil
}
