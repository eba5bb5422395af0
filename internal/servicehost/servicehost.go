// Package servicehost keeps the engine's root files in step with the
// script views of open host documents.
package servicehost

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/leijiancd/vetur/internal/cache"
	"github.com/leijiancd/vetur/internal/engine"
	"github.com/leijiancd/vetur/internal/parser"
	"github.com/leijiancd/vetur/internal/textdoc"

	"github.com/cespare/xxhash/v2"
	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var log = commonlog.GetLogger("vls.servicehost")

// BridgeName is the global the bridge file declares. It is an
// implementation detail and never offered to users.
const BridgeName = "__vueEditorBridge"

const bridgeSource = "/**\n * Identity helper wrapping component options.\n */\nfunction " + BridgeName + "(options) { return options }\n"

// Extractor derives the script view of a host document.
type Extractor interface {
	Extract(host *textdoc.Document) *textdoc.Document
}

// Host owns the engine of one workspace together with the view cache.
type Host struct {
	engine     engine.Engine
	views      *cache.DocumentCache[*textdoc.Document]
	pushed     map[string]uint64
	bridgeFile string
}

// New registers the bridge file under root and returns a Host that caches
// at most capacity views.
func New(root string, eng engine.Engine, extractor Extractor, capacity int, maxAge time.Duration) (*Host, error) {
	h := &Host{
		engine:     eng,
		pushed:     map[string]uint64{},
		bridgeFile: filepath.Join(root, "vue-temp", "vue-editor-bridge.js"),
	}

	views, err := cache.NewDocumentCache(capacity, maxAge, extractor.Extract, func(uri protocol.DocumentUri, _ *textdoc.Document) {
		log.Debugf("evicted view of %s", uri)
	})
	if err != nil {
		return nil, err
	}
	h.views = views

	if err := eng.UpdateFile(h.bridgeFile, parser.JavaScript, bridgeSource); err != nil {
		return nil, fmt.Errorf("failed to register bridge file: %w", err)
	}
	return h, nil
}

// BridgeFile returns the path of the registered bridge file.
func (h *Host) BridgeFile() string {
	return h.bridgeFile
}

// UpdateCurrentTextDocument returns the script view of host, deriving it
// again only when host moved to another version, and makes sure the
// engine analyses exactly that text.
func (h *Host) UpdateCurrentTextDocument(host *textdoc.Document) (*textdoc.Document, engine.Service) {
	view := h.views.Get(host)
	fileName := textdoc.URIToPath(view.URI)

	sum := fingerprint(view.LanguageID, view.Text)
	if prev, ok := h.pushed[fileName]; !ok || prev != sum {
		if err := h.engine.UpdateFile(fileName, view.LanguageID, view.Text); err != nil {
			log.Errorf("failed to update %s: %s", fileName, err)
			delete(h.pushed, fileName)
		} else {
			h.pushed[fileName] = sum
		}
	}
	return view, h.engine
}

// RemoveDocument forgets the view of uri and drops its engine file.
func (h *Host) RemoveDocument(uri protocol.DocumentUri) {
	h.views.Remove(uri)
	fileName := textdoc.URIToPath(uri)
	delete(h.pushed, fileName)
	h.engine.RemoveFile(fileName)
}

// Dispose drops every view and releases the engine.
func (h *Host) Dispose() error {
	h.views.Dispose()
	h.pushed = map[string]uint64{}
	return h.engine.Dispose()
}

func fingerprint(languageID, text string) uint64 {
	d := xxhash.New()
	d.WriteString(languageID)
	d.Write([]byte{0})
	d.WriteString(text)
	return d.Sum64()
}
