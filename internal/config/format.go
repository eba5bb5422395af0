package config

import "github.com/leijiancd/vetur/internal/engine"

// FormatOptions are language specific formatter overrides. Unset fields
// keep the value they are applied to.
type FormatOptions struct {
	InsertSpaceAfterCommaDelimiter                       *bool `json:"insertSpaceAfterCommaDelimiter,omitempty"                       toml:"insertSpaceAfterCommaDelimiter,omitempty"`
	InsertSpaceAfterSemicolonInForStatements             *bool `json:"insertSpaceAfterSemicolonInForStatements,omitempty"             toml:"insertSpaceAfterSemicolonInForStatements,omitempty"`
	InsertSpaceBeforeAndAfterBinaryOperators             *bool `json:"insertSpaceBeforeAndAfterBinaryOperators,omitempty"             toml:"insertSpaceBeforeAndAfterBinaryOperators,omitempty"`
	InsertSpaceAfterKeywordsInControlFlowStatements      *bool `json:"insertSpaceAfterKeywordsInControlFlowStatements,omitempty"      toml:"insertSpaceAfterKeywordsInControlFlowStatements,omitempty"`
	InsertSpaceAfterFunctionKeywordForAnonymousFunctions *bool `json:"insertSpaceAfterFunctionKeywordForAnonymousFunctions,omitempty" toml:"insertSpaceAfterFunctionKeywordForAnonymousFunctions,omitempty"`
	InsertSpaceBeforeFunctionParenthesis                 *bool `json:"insertSpaceBeforeFunctionParenthesis,omitempty"                 toml:"insertSpaceBeforeFunctionParenthesis,omitempty"`
	InsertSpaceAfterOpeningAndClosingNonemptyParenthesis *bool `json:"insertSpaceAfterOpeningAndClosingNonemptyParenthesis,omitempty" toml:"insertSpaceAfterOpeningAndClosingNonemptyParenthesis,omitempty"`
	InsertSpaceAfterOpeningAndClosingNonemptyBrackets    *bool `json:"insertSpaceAfterOpeningAndClosingNonemptyBrackets,omitempty"    toml:"insertSpaceAfterOpeningAndClosingNonemptyBrackets,omitempty"`
	PlaceOpenBraceOnNewLineForFunctions                  *bool `json:"placeOpenBraceOnNewLineForFunctions,omitempty"                  toml:"placeOpenBraceOnNewLineForFunctions,omitempty"`
	PlaceOpenBraceOnNewLineForControlBlocks              *bool `json:"placeOpenBraceOnNewLineForControlBlocks,omitempty"              toml:"placeOpenBraceOnNewLineForControlBlocks,omitempty"`
}

// ApplyTo overwrites the fields of s that are set in o.
func (o FormatOptions) ApplyTo(s *engine.FormatSettings) {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.InsertSpaceAfterCommaDelimiter, o.InsertSpaceAfterCommaDelimiter)
	set(&s.InsertSpaceAfterSemicolonInForStatements, o.InsertSpaceAfterSemicolonInForStatements)
	set(&s.InsertSpaceBeforeAndAfterBinaryOperators, o.InsertSpaceBeforeAndAfterBinaryOperators)
	set(&s.InsertSpaceAfterKeywordsInControlFlowStatements, o.InsertSpaceAfterKeywordsInControlFlowStatements)
	set(&s.InsertSpaceAfterFunctionKeywordForAnonymousFunctions, o.InsertSpaceAfterFunctionKeywordForAnonymousFunctions)
	set(&s.InsertSpaceBeforeFunctionParenthesis, o.InsertSpaceBeforeFunctionParenthesis)
	set(&s.InsertSpaceAfterOpeningAndClosingNonemptyParenthesis, o.InsertSpaceAfterOpeningAndClosingNonemptyParenthesis)
	set(&s.InsertSpaceAfterOpeningAndClosingNonemptyBrackets, o.InsertSpaceAfterOpeningAndClosingNonemptyBrackets)
	set(&s.PlaceOpenBraceOnNewLineForFunctions, o.PlaceOpenBraceOnNewLineForFunctions)
	set(&s.PlaceOpenBraceOnNewLineForControlBlocks, o.PlaceOpenBraceOnNewLineForControlBlocks)
}

func (o FormatOptions) clone() FormatOptions {
	dup := func(b *bool) *bool {
		if b == nil {
			return nil
		}
		v := *b
		return &v
	}
	return FormatOptions{
		InsertSpaceAfterCommaDelimiter:                       dup(o.InsertSpaceAfterCommaDelimiter),
		InsertSpaceAfterSemicolonInForStatements:             dup(o.InsertSpaceAfterSemicolonInForStatements),
		InsertSpaceBeforeAndAfterBinaryOperators:             dup(o.InsertSpaceBeforeAndAfterBinaryOperators),
		InsertSpaceAfterKeywordsInControlFlowStatements:      dup(o.InsertSpaceAfterKeywordsInControlFlowStatements),
		InsertSpaceAfterFunctionKeywordForAnonymousFunctions: dup(o.InsertSpaceAfterFunctionKeywordForAnonymousFunctions),
		InsertSpaceBeforeFunctionParenthesis:                 dup(o.InsertSpaceBeforeFunctionParenthesis),
		InsertSpaceAfterOpeningAndClosingNonemptyParenthesis: dup(o.InsertSpaceAfterOpeningAndClosingNonemptyParenthesis),
		InsertSpaceAfterOpeningAndClosingNonemptyBrackets:    dup(o.InsertSpaceAfterOpeningAndClosingNonemptyBrackets),
		PlaceOpenBraceOnNewLineForFunctions:                  dup(o.PlaceOpenBraceOnNewLineForFunctions),
		PlaceOpenBraceOnNewLineForControlBlocks:              dup(o.PlaceOpenBraceOnNewLineForControlBlocks),
	}
}
