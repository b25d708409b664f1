package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/tidyhook/cmd/tidyhook/internal/hook"
)

// exit terminates the process with the hook's exit code.
var exit = os.Exit

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run as an editor post-edit hook",
	Long: `Reads a PostToolUse hook payload from stdin. For Edit, Write and
MultiEdit of a file inside the working directory it formats the file,
strips noise comments and checks its length.

When anything was done the command prints {"result": "<message>"} and
exits with status 2 so the editor shows the message; otherwise it exits 0
without output. Malformed payloads are ignored.`,
	Args: cobra.NoArgs,
	Run:  runHook,
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

func runHook(cmd *cobra.Command, _ []string) {
	ws, err := workspaceDir()
	if err != nil {
		return
	}
	e := newEnv(ws)
	code := hook.New(e.checker(), ws, cmd.OutOrStdout()).Run(cmd.Context(), cmd.InOrStdin())
	e.Close()

	if code != hook.ExitOK {
		exit(code)
	}
}
