// Package cli implements the reimburse command tree.
//
// The root command is the calculator itself:
//
//	reimburse <trip_duration_days> <miles_traveled> <total_receipts_amount>
//
// It takes exactly three positional values, reads no configuration and never
// logs. The operational commands (serve, eval, rates, version) live on a
// separate root, reimbursectl, so no word is ever taken from the calculator.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tutu-network/reimburse/internal/app/reimburse"
)

// usageError signals wrong arity on the root command.
type usageError struct {
	prog string
}

func (e *usageError) Error() string {
	return fmt.Sprintf("Usage: %s <trip_duration_days> <miles_traveled> <total_receipts_amount>", e.prog)
}

// Execute runs the CLI against the process arguments and returns the exit code.
func Execute() int {
	return Run(os.Args[0], os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes the command tree with explicit arguments and streams.
func Run(prog string, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args on a nil slice.
		args = []string{}
	}

	root := newRootCmd(prog)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := executeRoot(root, args); err != nil {
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintln(stderr, ue.Error())
			return 1
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(prog string) *cobra.Command {
	root := &cobra.Command{
		Use:   "reimburse <trip_duration_days> <miles_traveled> <total_receipts_amount>",
		Short: "Compute a travel reimbursement",
		Long: `Compute a travel-expense reimbursement from trip duration, miles traveled
and total receipts. Prints the amount with two decimals.

Non-numeric values are not an error: they produce 0.00.`,
		// Positional values such as "-3" must not be read as flags.
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return &usageError{prog: prog}
			}
			return nil
		},
		RunE: runCalculate,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	return root
}

// executeRoot runs the calculator command. cobra dispatches its hidden
// completion commands before validating Args, so those words are handed to
// the calculator directly like any other value.
func executeRoot(root *cobra.Command, args []string) error {
	if len(args) > 0 && (args[0] == cobra.ShellCompRequestCmd || args[0] == cobra.ShellCompNoDescRequestCmd) {
		if err := root.ValidateArgs(args); err != nil {
			return err
		}
		return root.RunE(root, args)
	}
	return root.Execute()
}

func runCalculate(cmd *cobra.Command, args []string) error {
	amount := reimburse.Calculate(args[0], args[1], args[2])
	fmt.Fprintln(cmd.OutOrStdout(), reimburse.FormatAmount(amount))
	return nil
}
