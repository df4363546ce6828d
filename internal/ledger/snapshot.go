package ledger

import (
	"encoding/json"

	"github.com/mmynk/divider/internal/models"
)

// snapshot is the serialized shape of a ledger.
type snapshot struct {
	NextID       int                      `json:"next_id,omitempty"`
	Balances     map[string]models.Amount `json:"balances"`
	Users        map[string]models.User   `json:"users"`
	TotalSpend   models.Amount            `json:"total_spend"`
	Transactions []models.Transaction     `json:"transactions"`
}

func (l *Ledger) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot{
		NextID:       l.nextID,
		Balances:     l.balances,
		Users:        l.users,
		TotalSpend:   l.totalSpend,
		Transactions: l.transactions,
	})
}

// UnmarshalJSON restores a ledger as it was saved. Balances are not replayed;
// call Reconcile to recompute them from the history.
//
// Users missing a balance get a zero balance, balances missing a user get the
// user record, and a missing next_id continues after the highest id.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	restored := New()
	restored.totalSpend = s.TotalSpend
	if s.Transactions != nil {
		restored.transactions = s.Transactions
	}
	for name := range s.Users {
		restored.AddUser(name)
	}
	for name, balance := range s.Balances {
		restored.AddUser(name)
		restored.balances[name] = balance
	}

	restored.nextID = s.NextID
	if restored.nextID == 0 {
		restored.nextID = 1
		for _, tx := range restored.transactions {
			restored.nextID = max(restored.nextID, tx.ID+1)
		}
	}

	*l = *restored
	return nil
}
