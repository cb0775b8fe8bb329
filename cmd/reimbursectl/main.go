// Command reimbursectl serves, evaluates and inspects the reimbursement
// calculator.
package main

import (
	"os"

	"github.com/tutu-network/reimburse/internal/cli"
)

func main() {
	os.Exit(cli.ExecuteCtl())
}
