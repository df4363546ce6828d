package ledger

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/mmynk/divider/internal/models"
)

const ledgerJSON = `{
	"next_id": 4,
	"balances": {"Bilbo": 32.0, "Frodo": -5.0, "Legolas": -17.0, "Gimli": -10.0},
	"users": {
		"Bilbo": {"name": "Bilbo"},
		"Frodo": {"name": "Frodo"},
		"Legolas": {"name": "Legolas"},
		"Gimli": {"name": "Gimli"}
	},
	"total_spend": 44.0,
	"transactions": [{
		"id": 3,
		"contributions": [["Bilbo", 32.0], ["Frodo", 12.0]],
		"benefits": [["Legolas", "Even"], ["Frodo", "Even"], ["Gimli", {"Sum": 10.0}]],
		"is_direct": false,
		"description": "",
		"datetime": "2022-05-01T11:00:00+00:00"
	}]
}`

func fixtureLedger(t *testing.T) *Ledger {
	t.Helper()
	l := newTestLedger()
	l.nextID = 3
	_, err := l.AddTransaction(models.NewTransaction(
		[]models.Contribution{{User: "Bilbo", Amount: 32}, {User: "Frodo", Amount: 12}},
		[]models.Share{
			{User: "Legolas", Benefit: models.Even()},
			{User: "Frodo", Benefit: models.Even()},
			{User: "Gimli", Benefit: models.Sum(10)},
		},
		"", false, 0,
		time.Date(2022, 5, 1, 11, 0, 0, 0, time.UTC),
	))
	if err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}
	return l
}

func TestLedgerMarshal(t *testing.T) {
	data, err := json.Marshal(fixtureLedger(t))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got, want any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if err := json.Unmarshal([]byte(ledgerJSON), &want); err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Marshal mismatch:\ngot:  %s\nwant: %s", data, ledgerJSON)
	}
}

func TestLedgerUnmarshal(t *testing.T) {
	var got Ledger
	if err := json.Unmarshal([]byte(ledgerJSON), &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	want := fixtureLedger(t)

	if !reflect.DeepEqual(got.Users(), want.Users()) {
		t.Errorf("Users = %v, want %v", got.Users(), want.Users())
	}
	if !reflect.DeepEqual(got.Balances(), want.Balances()) {
		t.Errorf("Balances = %v, want %v", got.Balances(), want.Balances())
	}
	if !reflect.DeepEqual(got.Transactions(), want.Transactions()) {
		t.Errorf("Transactions = %v, want %v", got.Transactions(), want.Transactions())
	}
	if got.TotalSpend() != 44 {
		t.Errorf("TotalSpend = %v, want 44", got.TotalSpend())
	}

	// The decoded ledger keeps working.
	tx, err := got.AddTransfer("Frodo", "Bilbo", 5, "", time.Time{})
	if err != nil {
		t.Fatalf("AddTransfer failed: %v", err)
	}
	if tx.ID != 4 {
		t.Errorf("ID = %d, want 4", tx.ID)
	}
}

func TestLedgerUnmarshalFillsGaps(t *testing.T) {
	data := `{
		"balances": {"Bilbo": 0, "Frodo": 0},
		"users": {"Bilbo": {"name": "Bilbo"}, "Gimli": {"name": "Gimli"}},
		"total_spend": 0,
		"transactions": [
			{"id": 7, "datetime": "2022-05-01T11:00:00Z", "contributions": [["Bilbo", 1]], "benefits": [["Frodo", "Even"]], "is_direct": true, "description": ""}
		]
	}`

	var l Ledger
	if err := json.Unmarshal([]byte(data), &l); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if len(l.Users()) != 3 {
		t.Errorf("expected 3 users, got %v", l.Users())
	}
	if _, ok := l.Balances()["Gimli"]; !ok {
		t.Error("Gimli should have a balance")
	}
	if l.nextID != 8 {
		t.Errorf("nextID = %d, want 8", l.nextID)
	}

	if err := l.Reconcile(); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	assertBalances(t, &l, map[string]models.Amount{"Bilbo": 1, "Frodo": -1, "Gimli": 0})
}

func TestLedgerRoundTrip(t *testing.T) {
	l := newTestLedger()
	addBilboDinner(t, l)
	addFrodoLunch(t, l)

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded Ledger
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(decoded.Balances(), l.Balances()) {
		t.Errorf("Balances = %v, want %v", decoded.Balances(), l.Balances())
	}
	if !reflect.DeepEqual(decoded.Transactions(), l.Transactions()) {
		t.Errorf("Transactions differ after round trip")
	}
	if decoded.nextID != l.nextID {
		t.Errorf("nextID = %d, want %d", decoded.nextID, l.nextID)
	}
}
