package engine

// FormatSettings controls the engine's formatter. Indentation values are in
// columns; BaseIndentSize is added to every indented line.
type FormatSettings struct {
	BaseIndentSize      int
	IndentSize          int
	TabSize             int
	NewLineCharacter    string
	ConvertTabsToSpaces bool

	InsertSpaceAfterCommaDelimiter                       bool
	InsertSpaceAfterSemicolonInForStatements             bool
	InsertSpaceBeforeAndAfterBinaryOperators             bool
	InsertSpaceAfterKeywordsInControlFlowStatements      bool
	InsertSpaceAfterFunctionKeywordForAnonymousFunctions bool
	InsertSpaceBeforeFunctionParenthesis                 bool
	InsertSpaceAfterOpeningAndClosingNonemptyParenthesis bool
	InsertSpaceAfterOpeningAndClosingNonemptyBrackets    bool
	PlaceOpenBraceOnNewLineForFunctions                  bool
	PlaceOpenBraceOnNewLineForControlBlocks              bool
	TrimTrailingWhitespace                               bool
}

// DefaultFormatSettings are the style-agnostic defaults every merge starts from.
func DefaultFormatSettings() FormatSettings {
	return FormatSettings{
		IndentSize:          4,
		TabSize:             4,
		NewLineCharacter:    "\n",
		ConvertTabsToSpaces: true,

		InsertSpaceAfterCommaDelimiter:                       true,
		InsertSpaceAfterSemicolonInForStatements:             true,
		InsertSpaceBeforeAndAfterBinaryOperators:             true,
		InsertSpaceAfterKeywordsInControlFlowStatements:      true,
		InsertSpaceAfterFunctionKeywordForAnonymousFunctions: false,
		InsertSpaceBeforeFunctionParenthesis:                 false,
		TrimTrailingWhitespace:                               true,
	}
}
