// Package cli implements the tidyhook command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/tidyhook/internal/log"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// globalFlags holds persistent flags that apply to all commands
var globalFlags struct {
	verbosity int
	logFormat string
	logFile   string
}

// logFile is the open --log-file, closed by Execute.
var logFile io.Closer

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tidyhook",
	Short: "Strip noise comments after an editor edit",
	Long: `Tidyhook removes noise comments from source files while keeping
documentation, directives, suppressions, markers and license headers.

It runs as an editor post-edit hook ('tidyhook hook'), on demand
('tidyhook strip') or continuously ('tidyhook watch').
Supported dialects: Python, TypeScript/JavaScript, Swift, Rust and Go.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tidyhook %s (%s)\n", Version, GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().IntVarP(&globalFlags.verbosity, "verbosity", "v", 1,
		"Verbosity level (0=error, 1=warn, 2=info, 3=debug, 4=trace)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.logFormat, "log-format", "text",
		"Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.logFile, "log-file", os.Getenv(log.EnvLogFile),
		"Append logs to this file instead of stderr (env "+log.EnvLogFile+")")

	cobra.OnInitialize(initLogging)
}

// initLogging applies CLI flags to the logger after flag parsing.
func initLogging() {
	closeLogFile()
	format, formatErr := log.ParseFormat(globalFlags.logFormat)

	var fileErr error
	if globalFlags.logFile != "" {
		logFile, fileErr = log.InitFile(globalFlags.verbosity, string(format), globalFlags.logFile)
	}
	if logFile == nil {
		log.Init(globalFlags.verbosity, string(format))
	}

	if formatErr != nil {
		log.Warn("using text logs", "error", formatErr)
	}
	if fileErr != nil {
		log.Warn("logging to stderr", "error", fileErr)
	}
}

func closeLogFile() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	closeLogFile()
	if err != nil {
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
