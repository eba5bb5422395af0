package main

import (
	"fmt"
	"os"

	"github.com/leijiancd/vetur/internal/server"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Version will be set during the build process using ldflags
var Version = "(dev) v0.0.0"

var (
	flagLogfile string
	flagVerbose int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "vls",
	Short:         "Language server for the script block of Vue single file components",
	Long:          "vls speaks the language server protocol over stdio and answers completion, hover, navigation, diagnostics and formatting requests for the <script> block of .vue files.",
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Args:          cobra.NoArgs,
	RunE:          runServer,
}

func init() {
	rootCmd.SetVersionTemplate("vls language server version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&flagLogfile, "logfile", "", "path to log file (default: stderr)")
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity, repeat for more")
	// Editors pass --stdio by convention, it is the only transport.
	rootCmd.Flags().Bool("stdio", true, "communicate over stdin/stdout")

	rootCmd.AddCommand(checkCmd)
}

func configureLogging() {
	var path *string
	if flagLogfile != "" {
		path = &flagLogfile
	}
	commonlog.Configure(1+flagVerbose, path)
}

func runServer(cmd *cobra.Command, args []string) error {
	configureLogging()

	s := server.NewServer(Version, flagVerbose > 1)
	if err := s.RunStdio(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
