// Package analyzer is a tree-sitter backed JavaScript/TypeScript engine.
// Every root file keeps its own parser and syntax tree; a scope index built
// on each update answers the name based queries.
package analyzer

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/leijiancd/vetur/internal/engine"
	"github.com/leijiancd/vetur/internal/parser"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("vls.analyzer")

// ErrDisposed is returned by updates after Dispose.
var ErrDisposed = errors.New("analyzer is disposed")

// Analyzer implements engine.Engine.
type Analyzer struct {
	mu       sync.RWMutex
	files    map[string]*file
	disposed bool
}

type file struct {
	name   string
	text   string
	parser *parser.Parser
	index  *index
}

var _ engine.Engine = (*Analyzer)(nil)

func New() *Analyzer {
	return &Analyzer{files: map[string]*file{}}
}

// UpdateFile adds fileName as a root file or reparses it when its text or
// language changed.
func (a *Analyzer) UpdateFile(fileName, languageID, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.disposed {
		return ErrDisposed
	}

	f, ok := a.files[fileName]
	if ok && f.parser.LanguageID() == languageID && f.text == text {
		return nil
	}
	if ok && f.parser.LanguageID() != languageID {
		f.parser.Close()
		ok = false
	}
	if !ok {
		p, err := parser.NewParser(languageID, nil)
		if err != nil {
			return fmt.Errorf("failed to create parser for %s: %w", fileName, err)
		}
		f = &file{name: fileName, parser: p}
	}

	if err := f.parser.Reparse([]byte(text)); err != nil {
		return fmt.Errorf("failed to parse %s: %w", fileName, err)
	}
	f.text = text
	f.index = buildIndex(fileName, f.parser.Root(), f.parser.Source())
	a.files[fileName] = f

	log.Debugf("updated %s (%s, %d bytes)", fileName, languageID, len(text))
	return nil
}

// RemoveFile drops fileName and releases its parser.
func (a *Analyzer) RemoveFile(fileName string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if f, ok := a.files[fileName]; ok {
		f.parser.Close()
		delete(a.files, fileName)
		log.Debugf("removed %s", fileName)
	}
}

type program struct {
	roots []string
}

func (p *program) RootFileNames() []string {
	return append([]string(nil), p.roots...)
}

// Program returns a snapshot of the root files, or nil when there are none.
func (a *Analyzer) Program() engine.Program {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if len(a.files) == 0 {
		return nil
	}
	return &program{roots: a.sortedNames()}
}

func (a *Analyzer) SourceText(fileName string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f, ok := a.files[fileName]
	if !ok {
		return "", false
	}
	return f.text, true
}

// Dispose closes every parser. Calling it again is a no-op.
func (a *Analyzer) Dispose() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.disposed {
		return nil
	}
	var errs []error
	for name, f := range a.files {
		if err := f.parser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close parser for %s: %w", name, err))
		}
	}
	a.files = map[string]*file{}
	a.disposed = true
	return errors.Join(errs...)
}

func (a *Analyzer) sortedNames() []string {
	names := make([]string, 0, len(a.files))
	for name := range a.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lookup returns the file for a read query. Callers hold a.mu.
func (a *Analyzer) lookup(fileName string) (*file, bool) {
	f, ok := a.files[fileName]
	if !ok || f.index == nil {
		return nil, false
	}
	return f, true
}

// resolve finds the declaration of name as seen from scope sc of f,
// falling back to the top-level declarations of global script files.
func (a *Analyzer) resolve(f *file, sc *scope, name string) *symbol {
	if sym := sc.lookup(name); sym != nil {
		return sym
	}
	return a.global(name, f.name)
}

func (a *Analyzer) global(name, except string) *symbol {
	for _, fileName := range a.sortedNames() {
		if fileName == except {
			continue
		}
		idx := a.files[fileName].index
		if idx == nil || idx.module {
			continue
		}
		if sym, ok := idx.root.symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// globals lists the top-level declarations of every global script file
// other than except.
func (a *Analyzer) globals(except string) []*symbol {
	var out []*symbol
	for _, fileName := range a.sortedNames() {
		if fileName == except {
			continue
		}
		idx := a.files[fileName].index
		if idx == nil || idx.module {
			continue
		}
		out = append(out, idx.root.order...)
	}
	return out
}
