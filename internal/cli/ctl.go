package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// ExecuteCtl runs the reimbursectl command tree against the process
// arguments and returns the exit code.
func ExecuteCtl() int {
	return RunCtl(os.Args[1:], os.Stdout, os.Stderr)
}

// RunCtl executes the reimbursectl tree with explicit arguments and streams.
func RunCtl(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}

	root := newCtlCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newCtlCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "reimbursectl",
		Short: "Operate the reimbursement calculator",
		Long: `reimbursectl serves the calculator over HTTP, scores it against
labelled cases and prints its constant table.

Pricing a single trip is done by the reimburse command.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newServeCmd())
	root.AddCommand(newEvalCmd())
	root.AddCommand(newRatesCmd())
	root.AddCommand(newVersionCmd())
	return root
}
