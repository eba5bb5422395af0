package manager

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/leijiancd/vetur/internal/textdoc"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

var ErrDocumentNotFound = errors.New("document not found")

// DocumentManager holds the current snapshot of every open host document.
type DocumentManager struct {
	mu   sync.Mutex
	docs map[protocol.DocumentUri]*textdoc.Document
}

// NewDocumentManager creates an initialized DocumentManager.
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		docs: make(map[protocol.DocumentUri]*textdoc.Document),
	}
}

// Open stores the initial snapshot of a document, replacing any previous one.
func (dm *DocumentManager) Open(
	uri protocol.DocumentUri,
	languageID string,
	version protocol.Integer,
	text string,
) *textdoc.Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc := textdoc.New(uri, languageID, version, text)
	dm.docs[uri] = doc
	return doc
}

// Apply applies content changes to the snapshot of uri and stores the result.
func (dm *DocumentManager) Apply(
	uri protocol.DocumentUri,
	version protocol.Integer,
	changes []any,
) (*textdoc.Document, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, ok := dm.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%s: %w", uri, ErrDocumentNotFound)
	}
	next, err := doc.Apply(version, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to apply changes to %s: %w", uri, err)
	}
	dm.docs[uri] = next
	return next, nil
}

// Get returns the current snapshot of uri.
func (dm *DocumentManager) Get(uri protocol.DocumentUri) (*textdoc.Document, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, ok := dm.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%s: %w", uri, ErrDocumentNotFound)
	}
	return doc, nil
}

// Release forgets uri and returns its last snapshot.
func (dm *DocumentManager) Release(uri protocol.DocumentUri) (*textdoc.Document, bool) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc, ok := dm.docs[uri]
	delete(dm.docs, uri)
	return doc, ok
}

// CloseAll forgets every document and returns them ordered by URI.
func (dm *DocumentManager) CloseAll() []*textdoc.Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	docs := make([]*textdoc.Document, 0, len(dm.docs))
	for _, doc := range dm.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })
	dm.docs = make(map[protocol.DocumentUri]*textdoc.Document)
	return docs
}
