package embedded_test

import (
	"strings"
	"testing"

	"github.com/leijiancd/vetur/internal/embedded"
	"github.com/leijiancd/vetur/internal/parser"
	"github.com/leijiancd/vetur/internal/textdoc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExtractor(t *testing.T) *embedded.Extractor {
	t.Helper()
	e, err := embedded.NewExtractor(1, "")
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

const sfc = `<template>
  <div class="é">{{ msg }}</div>
</template>

<script>
export default {
  data() { return { msg: 'hi' } }
}
</script>

<style>
div { color: red }
</style>
`

func TestFindRegion(t *testing.T) {
	e := newExtractor(t)

	region, ok := e.FindRegion(sfc)
	require.True(t, ok)
	assert.Equal(t, parser.JavaScript, region.LanguageID)
	assert.Equal(t, strings.Index(sfc, "<script>")+len("<script>"), region.Start)
	assert.Equal(t, strings.Index(sfc, "</script>"), region.End)
}

func TestFindRegionLanguage(t *testing.T) {
	e := newExtractor(t)

	for text, want := range map[string]string{
		`<script lang="ts">let a: number</script>`: parser.TypeScript,
		`<script lang='tsx'>let a</script>`:        parser.TypeScript,
		`<script lang=js>let a</script>`:           parser.JavaScript,
		`<script setup>let a</script>`:             parser.JavaScript,
	} {
		region, ok := e.FindRegion(text)
		require.True(t, ok, text)
		assert.Equal(t, want, region.LanguageID, text)
		assert.Equal(t, "let a", text[region.Start:region.Start+len("let a")], text)
	}
}

func TestFindRegionWithoutScript(t *testing.T) {
	e := newExtractor(t)

	_, ok := e.FindRegion("<template><div/></template>\n")
	assert.False(t, ok)
}

func TestExtract(t *testing.T) {
	e := newExtractor(t)
	host := textdoc.New("file:///w/App.vue", "vue", 7, sfc)

	view := e.Extract(host)
	assert.Equal(t, host.URI, view.URI)
	assert.Equal(t, host.Version, view.Version)
	assert.Equal(t, parser.JavaScript, view.LanguageID)

	require.Equal(t, len(sfc), len(view.Text))
	assert.Equal(t, strings.Count(sfc, "\n"), strings.Count(view.Text, "\n"))
	assert.Contains(t, view.Text, "export default {\n  data() { return { msg: 'hi' } }\n}")
	assert.NotContains(t, view.Text, "template")
	assert.NotContains(t, view.Text, "color")

	// Positions inside the script agree between host and view.
	offset := strings.Index(sfc, "msg: 'hi'")
	assert.Equal(t, host.PositionAt(offset), view.PositionAt(offset))
}

func TestExtractWithoutScript(t *testing.T) {
	e := newExtractor(t)
	host := textdoc.New("file:///w/App.vue", "vue", 1, "<template>\n  <div/>\n</template>\n")

	view := e.Extract(host)
	assert.Equal(t, parser.JavaScript, view.LanguageID)
	assert.Equal(t, "          \n       \n           \n", view.Text)
}

func TestBlank(t *testing.T) {
	assert.Equal(t, "  cd \r\n  ", embedded.Blank("abcde\r\nfg", 2, 4))
	assert.Equal(t, "   ", embedded.Blank("abc", 0, 0))
	assert.Equal(t, "abc", embedded.Blank("abc", 0, 3))
}
