// Command reimburse computes travel-expense reimbursements.
package main

import (
	"os"

	"github.com/tutu-network/reimburse/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
