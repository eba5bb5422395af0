package scanner_test

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/leijiancd/vetur/internal/scanner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScan(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	write(t, root, "App.vue", "app")
	write(t, root, "src/components/Foo.vue", "foo")
	write(t, root, "src/main.js", "main")
	write(t, root, "node_modules/lib/Lib.vue", "lib")
	write(t, root, ".git/Hidden.vue", "hidden")

	var rels []string
	contents := map[string]string{}
	err := scanner.Scan(root, func(rel string) bool {
		return strings.HasSuffix(rel, ".vue")
	}, func(path string, document []byte) {
		rel, err := filepath.Rel(root, path)
		assert.NoError(t, err)
		rels = append(rels, filepath.ToSlash(rel))
		contents[filepath.ToSlash(rel)] = string(document)
	})
	require.NoError(t, err)

	sort.Strings(rels)
	assert.Equal(t, []string{"App.vue", "src/components/Foo.vue"}, rels)
	assert.Equal(t, "foo", contents["src/components/Foo.vue"])
}

func TestScanMissingRoot(t *testing.T) {
	defer goleak.VerifyNone(t)

	called := false
	err := scanner.Scan(filepath.Join(t.TempDir(), "missing"), func(string) bool { return true }, func(string, []byte) {
		called = true
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestIgnoreDir(t *testing.T) {
	assert.True(t, scanner.IgnoreDir("node_modules"))
	assert.True(t, scanner.IgnoreDir(".git"))
	assert.False(t, scanner.IgnoreDir("."))
	assert.False(t, scanner.IgnoreDir("src"))
}
