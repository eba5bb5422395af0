package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/leijiancd/vetur/internal/analyzer"
	"github.com/leijiancd/vetur/internal/config"
	"github.com/leijiancd/vetur/internal/embedded"
	"github.com/leijiancd/vetur/internal/mode"
	"github.com/leijiancd/vetur/internal/parser"
	"github.com/leijiancd/vetur/internal/scanner"
	"github.com/leijiancd/vetur/internal/servicehost"
	"github.com/leijiancd/vetur/internal/textdoc"

	"github.com/spf13/cobra"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var errDiagnostics = errors.New("script errors found")

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Print script diagnostics of every host document in a workspace",
	Long:  "Walks the workspace (default: current directory), validates the script block of every file matched by the include globs and prints one line per diagnostic. Exits non-zero when any error is reported.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	configureLogging()

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	cfg, err := config.LoadFile(root)
	if err != nil {
		return err
	}

	var docs []*textdoc.Document
	err = scanner.Scan(root, cfg.Manages, func(path string, document []byte) {
		docs = append(docs, textdoc.New(textdoc.PathToURI(path), "vue", 1, string(document)))
	})
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", root, err)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })

	extractor, err := embedded.NewExtractor(1, parser.JavaScript)
	if err != nil {
		return err
	}
	defer extractor.Close()
	host, err := servicehost.New(root, analyzer.New(), extractor, cfg.Cache.Capacity, cfg.Cache.MaxAge())
	if err != nil {
		return err
	}
	m := mode.NewScriptMode(host, cfg)
	defer m.Dispose()

	errorCount := 0
	for _, doc := range docs {
		rel, err := filepath.Rel(root, textdoc.URIToPath(doc.URI))
		if err != nil {
			rel = doc.URI
		}
		for _, d := range m.DoValidation(doc) {
			if d.Severity != nil && *d.Severity == protocol.DiagnosticSeverityError {
				errorCount++
			}
			printDiagnostic(cmd.OutOrStdout(), filepath.ToSlash(rel), d)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "checked %d files, %d errors\n", len(docs), errorCount)
	if errorCount > 0 {
		return fmt.Errorf("%w: %d", errDiagnostics, errorCount)
	}
	return nil
}

func printDiagnostic(w io.Writer, rel string, d protocol.Diagnostic) {
	severity := "error"
	if d.Severity != nil {
		switch *d.Severity {
		case protocol.DiagnosticSeverityWarning:
			severity = "warning"
		case protocol.DiagnosticSeverityInformation:
			severity = "info"
		case protocol.DiagnosticSeverityHint:
			severity = "hint"
		}
	}
	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", rel, d.Range.Start.Line+1, d.Range.Start.Character+1, severity, d.Message)
}
