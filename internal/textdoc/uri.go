package textdoc

import (
	"net/url"
	"path/filepath"
	"strings"
)

// URIToPath converts a file URI to a cleaned filesystem path. Anything that
// is not a file URI is returned cleaned but otherwise untouched.
func URIToPath(uri string) string {
	if !strings.HasPrefix(uri, "file:") {
		return filepath.Clean(uri)
	}
	u, err := url.Parse(uri)
	if err != nil {
		return filepath.Clean(strings.TrimPrefix(uri, "file://"))
	}
	path := u.Path
	// file:///c:/foo on windows
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.Clean(filepath.FromSlash(path))
}

// PathToURI converts a filesystem path to a file URI.
func PathToURI(path string) string {
	path = filepath.ToSlash(filepath.Clean(path))
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}
