package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/watch"
)

var watchFlags struct {
	debounce int
	verbose  bool
	json     bool
	noColor  bool
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Strip noise comments whenever a file is saved",
	Long: `Watches the workspace and strips noise comments from source files as
they are saved. Files are processed with the same skip rules as the hook.

Example output:

  $ tidyhook watch

  tidyhook: watching 214 files in /path/to/workspace
  tidyhook: dialects: python, typescript, swift, rust, go
  tidyhook: ready

  [14:32:15] ✓ src/auth/login.ts: stripped 2 comment(s)

Press Ctrl+C to stop watching.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().IntVar(&watchFlags.debounce, "debounce", 500,
		"Debounce window in milliseconds")
	watchCmd.Flags().BoolVar(&watchFlags.verbose, "verbose", false,
		"Show file-level changes and skipped files")
	watchCmd.Flags().BoolVar(&watchFlags.json, "json", false,
		"Stream JSON events (for tooling integration)")
	watchCmd.Flags().BoolVar(&watchFlags.noColor, "no-color", false,
		"Disable colored output")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ws, err := workspaceDir()
	if err != nil {
		return err
	}

	if len(args) > 0 {
		ws, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path %s: %w", args[0], err)
		}
		info, err := os.Stat(ws)
		if err != nil {
			return fmt.Errorf("invalid path %s: %w", args[0], err)
		}
		if !info.IsDir() {
			return fmt.Errorf("path must be a directory: %s", args[0])
		}
	}

	e := newEnv(ws)
	defer e.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	w, err := watch.New(watch.Config{
		Root:     ws,
		Filter:   e.filter,
		Stripper: e.stripper,
		Dialects: e.cfg.GetEnabledLanguages(),
		Debounce: watchFlags.debounce,
		Verbose:  watchFlags.verbose,
		NoColor:  watchFlags.noColor,
		JSON:     watchFlags.json,
		Writer:   cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	return w.Run(ctx)
}
