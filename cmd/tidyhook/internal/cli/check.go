package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Run the post-edit checks on one file",
	Long: `Runs the same steps as the hook on a single file: format it with the
configured formatter, lint it where a linter is known, strip noise
comments and warn about its length. The feedback message the hook would
return is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ws, err := workspaceDir()
	if err != nil {
		return err
	}
	e := newEnv(ws)
	defer e.Close()

	report := e.checker().Check(cmd.Context(), args[0])
	out := cmd.OutOrStdout()
	switch {
	case report.Skipped:
		fmt.Fprintf(out, "%s: skipped (%s)\n", args[0], report.Reason)
	case report.HasFeedback():
		fmt.Fprintln(out, report.Message())
	default:
		fmt.Fprintf(out, "%s: nothing to report\n", args[0])
	}
	return nil
}
