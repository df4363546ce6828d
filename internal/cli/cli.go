// Package cli implements the divider command line: one subcommand per ledger
// operation, all working on a single ledger file.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/subcommands"

	"github.com/mmynk/divider/internal/ledger"
	"github.com/mmynk/divider/internal/storage/jsonfile"
)

var ledgerFile = flag.String("file", "ledger.json", "Path to the ledger file to operate on")

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var (
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&newCmd{}, "ledger")
	c.Register(&addUserCmd{}, "ledger")

	c.Register(&addDirectCmd{}, "transactions")
	c.Register(&addExpenseCmd{}, "transactions")
	c.Register(&undoCmd{}, "transactions")

	c.Register(&balancesCmd{}, "reports")
	c.Register(&listCmd{}, "reports")
	c.Register(&settleCmd{}, "reports")
}

func openLedger() (*ledger.Ledger, error) {
	return jsonfile.ReadFile(*ledgerFile)
}

func saveLedger(l *ledger.Ledger) error {
	return jsonfile.WriteFile(*ledgerFile, l)
}

// fail reports err and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "%s: %v\n", errorStyle.Render("Error"), err)
	return subcommands.ExitFailure
}

// update loads the ledger, applies fn and saves the result. The file is left
// untouched when fn fails.
func update(fn func(*ledger.Ledger) error) subcommands.ExitStatus {
	l, err := openLedger()
	if err != nil {
		return fail(err)
	}
	if err := fn(l); err != nil {
		return fail(err)
	}
	if err := saveLedger(l); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
