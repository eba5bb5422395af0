package server_test

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/leijiancd/vetur/internal/server"
	"github.com/leijiancd/vetur/internal/textdoc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type notification struct {
	method string
	params any
}

type client struct {
	t             *testing.T
	root          string
	handler       *protocol.Handler
	ctx           *glsp.Context
	notifications []notification
}

func newClient(t *testing.T, root string, options any) *client {
	t.Helper()
	c := &client{t: t, root: root, handler: server.New("test").Handler()}
	c.ctx = &glsp.Context{Notify: func(method string, params any) {
		c.notifications = append(c.notifications, notification{method, params})
	}}

	params := &protocol.InitializeParams{InitializationOptions: options}
	if root != "" {
		uri := textdoc.PathToURI(root)
		params.RootURI = &uri
	}
	result, err := c.handler.Initialize(c.ctx, params)
	require.NoError(t, err)
	require.IsType(t, protocol.InitializeResult{}, result)
	t.Cleanup(func() { c.handler.Shutdown(c.ctx) })
	return c
}

func (c *client) uri(name string) protocol.DocumentUri {
	return textdoc.PathToURI(filepath.Join(c.root, name))
}

func (c *client) open(name, text string) protocol.DocumentUri {
	c.t.Helper()
	uri := c.uri(name)
	require.NoError(c.t, c.handler.TextDocumentDidOpen(c.ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "vue", Version: 1, Text: text},
	}))
	return uri
}

func (c *client) lastDiagnostics() protocol.PublishDiagnosticsParams {
	c.t.Helper()
	require.NotEmpty(c.t, c.notifications)
	last := c.notifications[len(c.notifications)-1]
	require.Equal(c.t, "textDocument/publishDiagnostics", last.method)
	return last.params.(protocol.PublishDiagnosticsParams)
}

func position(text, marker string) protocol.Position {
	doc := textdoc.New("", "", 0, text)
	return doc.PositionAt(strings.Index(text, marker) + len(marker))
}

const app = `<template>
  <div/>
</template>
<script>
import Foo from './Foo.vue'
/**
 * Doubles a number.
 */
function double(n) { return n*2 }
export default {
  components: { Foo },
  data() { return { x: double(1) } }
}
</script>
`

func TestInitializeCapabilities(t *testing.T) {
	c := &client{t: t, handler: server.New("1.2.3").Handler()}
	c.ctx = &glsp.Context{Notify: func(string, any) {}}

	result, err := c.handler.Initialize(c.ctx, &protocol.InitializeParams{})
	require.NoError(t, err)
	defer c.handler.Shutdown(c.ctx)

	init := result.(protocol.InitializeResult)
	require.NotNil(t, init.ServerInfo)
	assert.Equal(t, "vls", init.ServerInfo.Name)
	assert.Equal(t, "1.2.3", *init.ServerInfo.Version)
	require.NotNil(t, init.Capabilities.CompletionProvider)
	assert.True(t, *init.Capabilities.CompletionProvider.ResolveProvider)
	assert.Equal(t, []string{"."}, init.Capabilities.CompletionProvider.TriggerCharacters)
	require.NotNil(t, init.Capabilities.ExecuteCommandProvider)
	assert.Equal(t, []string{server.FindComponentsCommand}, init.Capabilities.ExecuteCommandProvider.Commands)
}

func TestWithoutRootNothingIsManaged(t *testing.T) {
	c := newClient(t, "", nil)
	uri := protocol.DocumentUri("file:///elsewhere/App.vue")
	require.NoError(t, c.handler.TextDocumentDidOpen(c.ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "vue", Version: 1, Text: app},
	}))
	assert.Empty(t, c.notifications)

	result, err := c.handler.TextDocumentCompletion(c.ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestOpenPublishesDiagnostics(t *testing.T) {
	c := newClient(t, t.TempDir(), nil)

	uri := c.open("App.vue", "<script>\nconst c\n</script>\n")
	published := c.lastDiagnostics()
	assert.Equal(t, uri, published.URI)
	require.NotEmpty(t, published.Diagnostics)
	assert.Equal(t, "'const' declarations must be initialized.", published.Diagnostics[0].Message)
	assert.Equal(t, uint32(1), published.Diagnostics[0].Range.Start.Line)

	require.NoError(t, c.handler.TextDocumentDidChange(c.ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{
				Start: protocol.Position{Line: 1, Character: 7},
				End:   protocol.Position{Line: 1, Character: 7},
			},
			Text: " = 1",
		}},
	}))
	assert.Empty(t, c.lastDiagnostics().Diagnostics)

	require.NoError(t, c.handler.TextDocumentDidClose(c.ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	assert.Empty(t, c.lastDiagnostics().Diagnostics)
}

func TestIncludeGlobs(t *testing.T) {
	c := newClient(t, t.TempDir(), map[string]any{"include": []string{"src/**/*.vue"}})

	c.open("App.vue", "<script>\nconst c\n</script>\n")
	assert.Empty(t, c.notifications)

	c.open("src/App.vue", "<script>\nconst c\n</script>\n")
	assert.NotEmpty(t, c.lastDiagnostics().Diagnostics)
}

func TestWorkspaceConfigFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".vls.toml"), []byte("[validation]\nscript = false\n"), 0o644))
	c := newClient(t, root, nil)

	c.open("App.vue", "<script>\nconst c\n</script>\n")
	assert.Empty(t, c.lastDiagnostics().Diagnostics)

	// Client settings override the workspace file.
	require.NoError(t, c.handler.WorkspaceDidChangeConfiguration(c.ctx, &protocol.DidChangeConfigurationParams{
		Settings: map[string]any{"vls": map[string]any{"validation": map[string]any{"script": true}}},
	}))
	c.open("Other.vue", "<script>\nconst c\n</script>\n")
	assert.NotEmpty(t, c.lastDiagnostics().Diagnostics)
}

func TestCompletionAndResolve(t *testing.T) {
	c := newClient(t, t.TempDir(), nil)
	uri := c.open("App.vue", app)

	result, err := c.handler.TextDocumentCompletion(c.ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     position(app, "x: "),
		},
	})
	require.NoError(t, err)
	list := result.(*protocol.CompletionList)
	assert.False(t, list.IsIncomplete)

	var item *protocol.CompletionItem
	for i := range list.Items {
		assert.NotEqual(t, "__vueEditorBridge", list.Items[i].Label)
		if list.Items[i].Label == "double" {
			item = &list.Items[i]
		}
	}
	require.NotNil(t, item)

	resolved, err := c.handler.CompletionItemResolve(c.ctx, item)
	require.NoError(t, err)
	require.NotNil(t, resolved.Detail)
	assert.Equal(t, "function double(n)", *resolved.Detail)
	assert.Equal(t, "Doubles a number.", resolved.Documentation)
	assert.Nil(t, resolved.Data)
}

func TestHoverAndDefinition(t *testing.T) {
	c := newClient(t, t.TempDir(), nil)
	uri := c.open("App.vue", app)
	call := protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Position:     position(app, "x: d"),
	}

	hover, err := c.handler.TextDocumentHover(c.ctx, &protocol.HoverParams{TextDocumentPositionParams: call})
	require.NoError(t, err)
	require.NotNil(t, hover.Range)
	assert.Contains(t, hover.Contents, protocol.MarkedStringStruct{Language: "ts", Value: "function double(n)"})

	result, err := c.handler.TextDocumentDefinition(c.ctx, &protocol.DefinitionParams{TextDocumentPositionParams: call})
	require.NoError(t, err)
	locations := result.([]protocol.Location)
	require.Len(t, locations, 1)
	assert.Equal(t, uri, locations[0].URI)
	assert.Equal(t, position(app, "function "), locations[0].Range.Start)
}

func TestFormatting(t *testing.T) {
	const text = "<template>\n  <div/>\n</template>\n<script>\nlet a=1\nlet b=2\n</script>\n"
	c := newClient(t, t.TempDir(), nil)
	uri := c.open("App.vue", text)

	edits, err := c.handler.TextDocumentFormatting(c.ctx, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Options:      protocol.FormattingOptions{"tabSize": float64(2), "insertSpaces": true},
	})
	require.NoError(t, err)
	require.NotEmpty(t, edits)
	start := strings.Index(text, "let a")
	doc := textdoc.New(uri, "vue", 1, text)
	for _, edit := range edits {
		assert.GreaterOrEqual(t, doc.OffsetAt(edit.Range.Start), start)
	}
}

func applyEdits(text string, edits []protocol.TextEdit) string {
	doc := textdoc.New("", "", 0, text)
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b protocol.TextEdit) int {
		return doc.OffsetAt(b.Range.Start) - doc.OffsetAt(a.Range.Start)
	})
	for _, edit := range sorted {
		text = textdoc.ApplyTextEdit(text, edit.Range, edit.NewText)
	}
	return text
}

func TestRangeFormattingStaysInScript(t *testing.T) {
	const text = "<template>\n  <div>hi</div>\n</template>\n<script>\nlet a=1\n</script>\n"
	c := newClient(t, t.TempDir(), nil)
	uri := c.open("App.vue", text)
	doc := textdoc.New(uri, "vue", 1, text)
	options := protocol.FormattingOptions{"tabSize": float64(2), "insertSpaces": true}

	edits, err := c.handler.TextDocumentRangeFormatting(c.ctx, &protocol.DocumentRangeFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range:        doc.Range(0, len(text)),
		Options:      options,
	})
	require.NoError(t, err)
	assert.Equal(t,
		"<template>\n  <div>hi</div>\n</template>\n<script>\nlet a = 1\n</script>\n",
		applyEdits(text, edits))

	template := strings.Index(text, "</template>")
	edits, err = c.handler.TextDocumentRangeFormatting(c.ctx, &protocol.DocumentRangeFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range:        doc.Range(0, template),
		Options:      options,
	})
	require.NoError(t, err)
	assert.Equal(t, []protocol.TextEdit{}, edits)
}

func TestPositionsOutsideScript(t *testing.T) {
	c := newClient(t, t.TempDir(), nil)
	uri := c.open("App.vue", app)

	for _, marker := range []string{"<te", "<div", "<scr", "</scr"} {
		at := protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     position(app, marker),
		}

		result, err := c.handler.TextDocumentCompletion(c.ctx, &protocol.CompletionParams{TextDocumentPositionParams: at})
		require.NoError(t, err)
		assert.Empty(t, result.(*protocol.CompletionList).Items, marker)

		hover, err := c.handler.TextDocumentHover(c.ctx, &protocol.HoverParams{TextDocumentPositionParams: at})
		require.NoError(t, err)
		assert.Nil(t, hover.Range, marker)

		help, err := c.handler.TextDocumentSignatureHelp(c.ctx, &protocol.SignatureHelpParams{TextDocumentPositionParams: at})
		require.NoError(t, err)
		assert.Nil(t, help, marker)

		highlights, err := c.handler.TextDocumentDocumentHighlight(c.ctx, &protocol.DocumentHighlightParams{TextDocumentPositionParams: at})
		require.NoError(t, err)
		assert.Empty(t, highlights, marker)

		definition, err := c.handler.TextDocumentDefinition(c.ctx, &protocol.DefinitionParams{TextDocumentPositionParams: at})
		require.NoError(t, err)
		assert.Empty(t, definition, marker)

		references, err := c.handler.TextDocumentReferences(c.ctx, &protocol.ReferenceParams{TextDocumentPositionParams: at})
		require.NoError(t, err)
		assert.Empty(t, references, marker)
	}

	// the end of the region still belongs to the script
	result, err := c.handler.TextDocumentCompletion(c.ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     position(app, "}\n}\n"),
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.(*protocol.CompletionList).Items)
}

func TestNonPositiveCacheCapacity(t *testing.T) {
	c := newClient(t, t.TempDir(), map[string]any{"cache": map[string]any{"capacity": 0}})
	uri := c.open("App.vue", app)

	result, err := c.handler.TextDocumentCompletion(c.ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     position(app, "x: "),
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.(*protocol.CompletionList).Items)
}

func TestFindComponentsCommand(t *testing.T) {
	c := newClient(t, t.TempDir(), nil)
	uri := c.open("App.vue", app)

	result, err := c.handler.WorkspaceExecuteCommand(c.ctx, &protocol.ExecuteCommandParams{
		Command:   server.FindComponentsCommand,
		Arguments: []any{uri},
	})
	require.NoError(t, err)
	components := result.([]server.ComponentResult)
	require.Len(t, components, 1)
	assert.Equal(t, "Foo", components[0].Name)
	require.NotNil(t, components[0].Definition)
	assert.Equal(t, uri, components[0].Definition.URI)
	assert.Equal(t, position(app, "import "), components[0].Definition.Range.Start)

	_, err = c.handler.WorkspaceExecuteCommand(c.ctx, &protocol.ExecuteCommandParams{Command: "unknown"})
	assert.Error(t, err)
	_, err = c.handler.WorkspaceExecuteCommand(c.ctx, &protocol.ExecuteCommandParams{Command: server.FindComponentsCommand})
	assert.Error(t, err)
}

func TestShutdownIsRepeatable(t *testing.T) {
	c := newClient(t, t.TempDir(), nil)
	c.open("App.vue", app)

	require.NoError(t, c.handler.Shutdown(c.ctx))
	require.NoError(t, c.handler.Shutdown(c.ctx))
}
