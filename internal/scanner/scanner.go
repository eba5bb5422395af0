// scanner is used to scan a workspace for host documents.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("vls.scanner")

// IgnoreDir reports whether a directory is never descended into.
func IgnoreDir(name string) bool {
	return name == "node_modules" || (len(name) > 1 && strings.HasPrefix(name, "."))
}

// Scan walks the entire subtree under root. Directories accepted by
// IgnoreDir are skipped entirely. For each remaining file whose path
// relative to root satisfies match, the file is read and callback is
// invoked with its absolute path and contents. Callbacks run one at a time
// and Scan only returns once all of them have completed.
func Scan(
	root string,
	match func(relPath string) bool,
	callback func(path string, document []byte),
) error {
	fileCh := make(chan string, 100)
	var wg sync.WaitGroup

	// worker goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		for path := range fileCh {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Warningf("read error: %s: %s", path, err)
				continue
			}
			callback(path, data)
		}
	}()

	log.Debugf("starting walk at %q", root)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Warningf("walk error: %s", err)
			return nil
		}

		if d.IsDir() {
			if path != root && IgnoreDir(d.Name()) {
				log.Debugf("skipping %q", path)
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil || !match(filepath.ToSlash(rel)) {
			return nil
		}

		// enqueue for reading
		fileCh <- path
		return nil
	})

	// no more files to send
	close(fileCh)
	// wait for the worker to finish consuming and calling back
	wg.Wait()
	return err
}
