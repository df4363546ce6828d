package cli

import (
	"context"
	"flag"
	"fmt"
	"math"
	"strings"

	"github.com/google/subcommands"

	"github.com/mmynk/divider/internal/ledger"
	"github.com/mmynk/divider/internal/models"
)

type newCmd struct{}

func (*newCmd) Name() string     { return "new" }
func (*newCmd) Synopsis() string { return "create a new ledger" }
func (*newCmd) Usage() string {
	return `divider [-file <path>] new <name>...

  Creates a ledger file with the given users, all with a zero balance.
  An existing file is overwritten.
`
}

func (*newCmd) SetFlags(f *flag.FlagSet) {}

func (*newCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(stderr, "Error: at least one user name is required.")
		return subcommands.ExitUsageError
	}
	if err := saveLedger(ledger.New(f.Args()...)); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type addUserCmd struct{}

func (*addUserCmd) Name() string     { return "add-user" }
func (*addUserCmd) Synopsis() string { return "add a new user to the ledger" }
func (*addUserCmd) Usage() string {
	return `divider [-file <path>] add-user <name>

  Adds a user with a zero balance. Adding a known user does nothing.
`
}

func (*addUserCmd) SetFlags(f *flag.FlagSet) {}

func (*addUserCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: exactly one user name is required.")
		return subcommands.ExitUsageError
	}
	return update(func(l *ledger.Ledger) error {
		l.AddUser(f.Arg(0))
		return nil
	})
}

type addDirectCmd struct {
	from        string
	to          string
	amount      float64
	description string
	time        string
}

func (*addDirectCmd) Name() string     { return "add-direct" }
func (*addDirectCmd) Synopsis() string { return "add a new direct transfer" }
func (*addDirectCmd) Usage() string {
	return `divider [-file <path>] add-direct -from <user> -to <user> -amount <amount> [-d <description>] [-T <time>]

  Records that one user paid another directly.
`
}

func (c *addDirectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Name of the user that paid (required)")
	f.StringVar(&c.to, "to", "", "Name of the user that got paid (required)")
	f.Float64Var(&c.amount, "amount", 0, "Amount transferred (required)")
	f.StringVar(&c.description, "d", "Transfer", "Purpose of the transfer")
	f.StringVar(&c.time, "T", "", `When the transfer happened, e.g. "2022-05-01 12:21". Default is now.`)
}

func (c *addDirectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" || c.to == "" {
		fmt.Fprintln(stderr, "Error: -from and -to flags are required.")
		return subcommands.ExitUsageError
	}
	if math.IsNaN(c.amount) || math.IsInf(c.amount, 0) {
		return fail(fmt.Errorf("amount must be a finite number, got %v", c.amount))
	}
	when, err := ParseTime(c.time)
	if err != nil {
		return fail(err)
	}
	return update(func(l *ledger.Ledger) error {
		_, err := l.AddTransfer(c.from, c.to, c.amount, c.description, when)
		return err
	})
}

type addExpenseCmd struct {
	from        string
	to          string
	description string
	time        string
}

func (*addExpenseCmd) Name() string     { return "add-expense" }
func (*addExpenseCmd) Synopsis() string { return "add a new expense" }
func (*addExpenseCmd) Usage() string {
	return `divider [-file <path>] add-expense -from "<user> <amount>..." -to "<user> [<amount>]..." [-d <description>] [-T <time>]

  Records an expense paid by one or more users for the benefit of others.
  - from: pairs of name and amount contributed, e.g. "Donald 5 Will 29".
  - to: beneficiaries, each optionally followed by the amount they benefited.
    Without an amount the rest of the expense is split evenly:
    "Ben George Mike" splits evenly between all three,
    "Ben 14 George Mike" gives Ben 14 and splits the rest between George and Mike.
`
}

func (c *addExpenseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Contributors and their amounts (required)")
	f.StringVar(&c.to, "to", "", "Beneficiaries, with optional amounts (required)")
	f.StringVar(&c.description, "d", "", "Purpose of the expense")
	f.StringVar(&c.time, "T", "", `When the expense happened, e.g. "2022-05-01 12:21". Default is now.`)
}

func (c *addExpenseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" || c.to == "" {
		fmt.Fprintln(stderr, "Error: -from and -to flags are required.")
		return subcommands.ExitUsageError
	}
	contributions, err := ParseContributions(strings.Fields(c.from))
	if err != nil {
		return fail(err)
	}
	benefits, err := ParseBeneficiaries(strings.Fields(c.to))
	if err != nil {
		return fail(err)
	}
	when, err := ParseTime(c.time)
	if err != nil {
		return fail(err)
	}
	return update(func(l *ledger.Ledger) error {
		_, err := l.AddExpense(contributions, benefits, c.description, when)
		return err
	})
}

type undoCmd struct{}

func (*undoCmd) Name() string     { return "undo" }
func (*undoCmd) Synopsis() string { return "undo an existing transaction" }
func (*undoCmd) Usage() string {
	return `divider [-file <path>] undo <id>

  Records the reversal of a transaction. The id is the hexadecimal one shown by 'list'.
`
}

func (*undoCmd) SetFlags(f *flag.FlagSet) {}

func (*undoCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: exactly one transaction id is required.")
		return subcommands.ExitUsageError
	}
	id, err := ParseID(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	return update(func(l *ledger.Ledger) error {
		_, err := l.ReverseByID(id)
		return err
	})
}

type balancesCmd struct{}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "display the balances" }
func (*balancesCmd) Usage() string {
	return `divider [-file <path>] balances

  Prints every user's balance. Positive balances are owed to the user.
`
}

func (*balancesCmd) SetFlags(f *flag.FlagSet) {}

func (*balancesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := openLedger()
	if err != nil {
		return fail(err)
	}
	balances := l.Balances()
	for _, u := range l.Users() {
		fmt.Fprintf(stdout, "%s: %s\n", u.Name, formatBalance(balances[u.Name]))
	}
	return subcommands.ExitSuccess
}

func formatBalance(balance models.Amount) string {
	s := fmt.Sprintf("%.2f", balance)
	switch {
	case balance < 0:
		return negativeStyle.Render(s)
	case balance > 0:
		return positiveStyle.Render(s)
	default:
		return s
	}
}

type listCmd struct{}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list all transactions" }
func (*listCmd) Usage() string {
	return `divider [-file <path>] list

  Prints the transactions, oldest first.
`
}

func (*listCmd) SetFlags(f *flag.FlagSet) {}

func (*listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := openLedger()
	if err != nil {
		return fail(err)
	}
	for _, tx := range l.Transactions() {
		fmt.Fprintln(stdout, tx)
	}
	return subcommands.ExitSuccess
}

type settleCmd struct{}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "suggest transfers that settle all balances" }
func (*settleCmd) Usage() string {
	return `divider [-file <path>] settle

  Prints a short list of direct transfers bringing every balance back to zero.
  Nothing is recorded: use add-direct once a transfer is made.
`
}

func (*settleCmd) SetFlags(f *flag.FlagSet) {}

func (*settleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, err := openLedger()
	if err != nil {
		return fail(err)
	}
	for _, edge := range l.SuggestSettlements() {
		fmt.Fprintf(stdout, "%s -> %s: %.2f\n", edge.From, edge.To, edge.Amount)
	}
	return subcommands.ExitSuccess
}
