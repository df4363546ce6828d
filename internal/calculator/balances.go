package calculator

import (
	"cmp"
	"slices"

	"github.com/mmynk/divider/internal/models"
)

// settleEpsilon is the smallest amount worth settling. Anything below it is
// floating point noise.
const settleEpsilon = 0.005

// DebtEdge represents a transfer that would settle part of a debt.
type DebtEdge struct {
	From   string       `json:"from"` // Person who owes
	To     string       `json:"to"`   // Person who is owed
	Amount models.Amount `json:"amount"`
}

type memberBalance struct {
	name   string
	amount models.Amount
}

// SuggestSettlements computes a short list of transfers that brings every
// balance back to zero.
//
// Algorithm:
// - Split members into debtors (negative balance) and creditors (positive balance)
// - Sort both by magnitude, largest first, ties broken by name
// - Greedily match the largest debt with the largest credit
func SuggestSettlements(balances map[string]models.Amount) []DebtEdge {
	var creditors, debtors []memberBalance
	for name, amount := range balances {
		if amount > settleEpsilon {
			creditors = append(creditors, memberBalance{name, amount})
		} else if amount < -settleEpsilon {
			debtors = append(debtors, memberBalance{name, -amount}) // Make positive
		}
	}

	byMagnitude := func(a, b memberBalance) int {
		if c := cmp.Compare(b.amount, a.amount); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	}
	slices.SortFunc(creditors, byMagnitude)
	slices.SortFunc(debtors, byMagnitude)

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := min(debtor.amount, creditor.amount)
		if amount > settleEpsilon {
			edges = append(edges, DebtEdge{
				From:   debtor.name,
				To:     creditor.name,
				Amount: amount,
			})
		}

		debtor.amount -= amount
		creditor.amount -= amount

		// Move to next debtor/creditor if fully settled
		if debtor.amount < settleEpsilon {
			i++
		}
		if creditor.amount < settleEpsilon {
			j++
		}
	}

	return edges
}
