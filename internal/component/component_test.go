package component_test

import (
	"strings"
	"testing"

	"github.com/leijiancd/vetur/internal/analyzer"
	"github.com/leijiancd/vetur/internal/component"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover(t *testing.T) {
	const text = `import Foo from './Foo.vue'
import BarBaz from './BarBaz.vue'
export default {
  components: {
    Foo,
    'bar-baz': BarBaz
  }
}
`
	a := analyzer.New()
	defer a.Dispose()
	require.NoError(t, a.UpdateFile("/w/App.vue", "javascript", text))

	infos := component.Discover(a, "/w/App.vue")
	require.Len(t, infos, 2)

	assert.Equal(t, "Foo", infos[0].Name)
	assert.Equal(t, "/w/App.vue", infos[0].FileName)
	require.NotNil(t, infos[0].Definition)
	assert.Equal(t, strings.Index(text, "Foo"), infos[0].Definition.Start)

	assert.Equal(t, "bar-baz", infos[1].Name)
	require.NotNil(t, infos[1].Definition)
	assert.Equal(t, strings.Index(text, "BarBaz"), infos[1].Definition.Start)
}

func TestDiscoverWithoutComponents(t *testing.T) {
	a := analyzer.New()
	defer a.Dispose()
	require.NoError(t, a.UpdateFile("/w/App.vue", "javascript", "export default { name: 'app' }\n"))
	require.NoError(t, a.UpdateFile("/w/plain.js", "javascript", "let x = 1\n"))

	assert.Empty(t, component.Discover(a, "/w/App.vue"))
	assert.Empty(t, component.Discover(a, "/w/plain.js"))
	assert.Empty(t, component.Discover(a, "/w/missing.js"))
}
