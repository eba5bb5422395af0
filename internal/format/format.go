// Package format merges formatter settings and clips engine edits to the
// requested range.
package format

import (
	"github.com/leijiancd/vetur/internal/config"
	"github.com/leijiancd/vetur/internal/engine"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// HostOptions are the editor supplied formatting options.
type HostOptions struct {
	TabSize      int
	InsertSpaces bool
}

// ParseHostOptions reads tabSize and insertSpaces from LSP formatting options.
func ParseHostOptions(opts protocol.FormattingOptions) HostOptions {
	host := HostOptions{TabSize: 4, InsertSpaces: true}
	switch v := opts["tabSize"].(type) {
	case float64:
		host.TabSize = int(v)
	case int:
		host.TabSize = v
	case protocol.UInteger:
		host.TabSize = int(v)
	case protocol.Integer:
		host.TabSize = int(v)
	}
	if v, ok := opts["insertSpaces"].(bool); ok {
		host.InsertSpaces = v
	}
	if host.TabSize <= 0 {
		host.TabSize = 4
	}
	return host
}

// Settings merges the defaults, the language overrides and the host options.
// Anonymous-function keyword spacing always follows function-parenthesis
// spacing.
func Settings(overrides config.FormatOptions, host HostOptions, initialIndent bool) engine.FormatSettings {
	settings := engine.DefaultFormatSettings()
	overrides.ApplyTo(&settings)

	level := 0
	if initialIndent {
		level = 1
	}
	settings.ConvertTabsToSpaces = host.InsertSpaces
	settings.TabSize = host.TabSize
	settings.IndentSize = host.TabSize
	settings.BaseIndentSize = host.TabSize * level

	settings.InsertSpaceAfterFunctionKeywordForAnonymousFunctions = settings.InsertSpaceBeforeFunctionParenthesis
	return settings
}

// Clip keeps only the edits whose span lies entirely inside [start, end].
func Clip(edits []engine.TextChange, start, end int) []engine.TextChange {
	var out []engine.TextChange
	for _, edit := range edits {
		if edit.Span.Within(start, end) {
			out = append(out, edit)
		}
	}
	return out
}
