// Package ledger maintains the running balances of a group of users from an
// append-only history of transactions.
//
// Balances are updated incrementally as transactions are added. Every
// CheckInterval transactions the whole history is replayed from zero and the
// result replaces the running balances, so floating point drift never
// accumulates for long.
//
// A Ledger is not safe for concurrent use.
package ledger

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/mmynk/divider/internal/calculator"
	"github.com/mmynk/divider/internal/models"
)

// CheckInterval is the number of transactions between two full replays of
// the history.
const CheckInterval = 100

// Ledger holds the users of a group, their balances and every transaction
// ever applied.
type Ledger struct {
	nextID       int
	balances     map[string]models.Amount // Positive = owed money, Negative = owes money
	users        map[string]models.User
	transactions []models.Transaction
	totalSpend   models.Amount
}

// New creates a ledger for the given users, all with a zero balance.
func New(names ...string) *Ledger {
	l := &Ledger{
		nextID:       1,
		balances:     make(map[string]models.Amount, len(names)),
		users:        make(map[string]models.User, len(names)),
		transactions: make([]models.Transaction, 0),
	}
	for _, name := range names {
		l.users[name] = models.NewUser(name)
		l.balances[name] = 0
	}
	return l
}

// Users returns the users of the ledger sorted by name.
func (l *Ledger) Users() []models.User {
	users := slices.Collect(maps.Values(l.users))
	slices.SortFunc(users, func(a, b models.User) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return users
}

// Balances returns a copy of the current balances.
func (l *Ledger) Balances() map[string]models.Amount {
	return maps.Clone(l.balances)
}

// Transactions returns a copy of the history, oldest first.
func (l *Ledger) Transactions() []models.Transaction {
	return slices.Clone(l.transactions)
}

// Transaction returns the transaction with the given id.
func (l *Ledger) Transaction(id int) (models.Transaction, bool) {
	for _, tx := range l.transactions {
		if tx.ID == id {
			return tx, true
		}
	}
	return models.Transaction{}, false
}

// TotalSpend returns the cumulative spending of all non direct transactions.
func (l *Ledger) TotalSpend() models.Amount {
	return l.totalSpend
}

// SuggestSettlements returns transfers that would bring every balance to zero.
func (l *Ledger) SuggestSettlements() []calculator.DebtEdge {
	return calculator.SuggestSettlements(l.balances)
}

// AddUser registers a user. Adding an existing user keeps its balance.
func (l *Ledger) AddUser(name string) {
	l.users[name] = models.NewUser(name)
	if _, ok := l.balances[name]; !ok {
		l.balances[name] = 0
	}
}

// AddExpense records a multi party expense. A zero when means now.
func (l *Ledger) AddExpense(contributions []models.Contribution, benefits []models.Share, description string, when time.Time) (models.Transaction, error) {
	tx := models.NewTransaction(contributions, benefits, description, false, 0, when)
	return l.AddTransaction(tx)
}

// AddTransfer records a direct transfer of amount from one user to another.
// A zero when means now.
func (l *Ledger) AddTransfer(from, to string, amount models.Amount, description string, when time.Time) (models.Transaction, error) {
	tx := models.NewTransaction(
		[]models.Contribution{{User: from, Amount: amount}},
		[]models.Share{{User: to, Benefit: models.Sum(amount)}},
		description,
		true,
		0,
		when,
	)
	return l.AddTransaction(tx)
}

// AddTransaction applies tx to the balances, assigns it the next id and
// appends it to the history. It returns the transaction as recorded.
//
// Either the whole transaction is applied or, on error, the ledger is left
// untouched.
func (l *Ledger) AddTransaction(tx models.Transaction) (models.Transaction, error) {
	deltas, err := l.balanceUpdates(tx)
	if err != nil {
		return models.Transaction{}, err
	}
	tx.ID = l.nextID

	if l.needsConsistencyCheck(len(l.transactions) + 1) {
		history := append(slices.Clip(l.transactions), tx)
		balances, total, err := l.replay(history)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("failed to reconcile ledger: %w", err)
		}
		l.balances, l.totalSpend = balances, total
		l.transactions = history
		l.nextID++
		slog.Debug("Ledger reconciled", "transactions", len(history), "total_spend", total)
		return tx, nil
	}

	for user, delta := range deltas {
		l.balances[user] += delta
	}
	if !tx.IsDirect {
		l.totalSpend += tx.TotalSpending()
	}
	l.transactions = append(l.transactions, tx)
	l.nextID++
	return tx, nil
}

// ReverseByID undoes the transaction with the given id by adding its
// reversal. The reversal is a transaction of its own, with its own id.
func (l *Ledger) ReverseByID(id int) (models.Transaction, error) {
	tx, ok := l.Transaction(id)
	if !ok {
		return models.Transaction{}, &models.UnknownTransactionIDError{ID: id}
	}
	reversed, err := calculator.Reverse(tx)
	if err != nil {
		return models.Transaction{}, err
	}
	return l.AddTransaction(reversed)
}

// Reconcile recomputes the balances and the total spend by replaying the
// whole history from zero.
func (l *Ledger) Reconcile() error {
	return l.reapplyAll()
}

func (l *Ledger) reapplyAll() error {
	balances, total, err := l.replay(l.transactions)
	if err != nil {
		return fmt.Errorf("failed to reconcile ledger: %w", err)
	}
	l.balances, l.totalSpend = balances, total
	return nil
}

// replay folds history over zeroed balances for every known user.
func (l *Ledger) replay(history []models.Transaction) (map[string]models.Amount, models.Amount, error) {
	balances := make(map[string]models.Amount, len(l.balances))
	for user := range l.balances {
		balances[user] = 0
	}
	var total models.Amount

	for _, tx := range history {
		if err := applyTransaction(&total, balances, tx); err != nil {
			return nil, 0, fmt.Errorf("transaction %d: %w", tx.ID, err)
		}
	}
	return balances, total, nil
}

func (l *Ledger) needsConsistencyCheck(n int) bool {
	return n%CheckInterval == 0
}

func (l *Ledger) balanceUpdates(tx models.Transaction) (map[string]models.Amount, error) {
	deltas, err := calculator.BalanceUpdates(tx)
	if err != nil {
		return nil, err
	}
	if err := checkUsers(l.balances, tx); err != nil {
		return nil, err
	}
	return deltas, nil
}

func applyTransaction(total *models.Amount, balances map[string]models.Amount, tx models.Transaction) error {
	deltas, err := calculator.BalanceUpdates(tx)
	if err != nil {
		return err
	}
	if err := checkUsers(balances, tx); err != nil {
		return err
	}
	for user, delta := range deltas {
		balances[user] += delta
	}
	if !tx.IsDirect {
		*total += tx.TotalSpending()
	}
	return nil
}

// checkUsers reports the first user of tx missing from balances,
// contributors first.
func checkUsers(balances map[string]models.Amount, tx models.Transaction) error {
	for _, c := range tx.Contributions {
		if _, ok := balances[c.User]; !ok {
			return &models.UnknownUserError{Name: c.User}
		}
	}
	for _, s := range tx.Benefits {
		if _, ok := balances[s.User]; !ok {
			return &models.UnknownUserError{Name: s.User}
		}
	}
	return nil
}
