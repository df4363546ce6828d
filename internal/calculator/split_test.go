package calculator

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/divider/internal/models"
)

func expense(contributions []models.Contribution, benefits []models.Share) models.Transaction {
	return models.NewTransaction(contributions, benefits, "", false, 0, time.Time{})
}

func sumDeltas(deltas map[string]models.Amount) models.Amount {
	var total models.Amount
	for _, d := range deltas {
		total += d
	}
	return total
}

func TestBalanceUpdates(t *testing.T) {
	tests := []struct {
		name         string
		tx           models.Transaction
		wantErr      error
		validateFunc func(t *testing.T, deltas map[string]models.Amount)
	}{
		{
			name: "mixed even and sum benefits",
			tx: expense(
				[]models.Contribution{{User: "Bilbo", Amount: 32}, {User: "Frodo", Amount: 12}},
				[]models.Share{
					{User: "Legolas", Benefit: models.Even()},
					{User: "Frodo", Benefit: models.Even()},
					{User: "Gimli", Benefit: models.Sum(10)},
				},
			),
			validateFunc: func(t *testing.T, deltas map[string]models.Amount) {
				// 44 spent, 10 specified, 34 split between 2 evens = 17 each
				want := map[string]models.Amount{"Bilbo": 32, "Frodo": -5, "Legolas": -17, "Gimli": -10}
				if len(deltas) != len(want) {
					t.Errorf("got %d deltas, want %d", len(deltas), len(want))
				}
				for user, w := range want {
					if deltas[user] != w {
						t.Errorf("%s delta = %v, want %v", user, deltas[user], w)
					}
				}
				if sumDeltas(deltas) != 0 {
					t.Errorf("deltas sum = %v, want 0", sumDeltas(deltas))
				}
			},
		},
		{
			name: "only sums matching spending",
			tx: expense(
				[]models.Contribution{{User: "Bilbo", Amount: 30}},
				[]models.Share{
					{User: "Frodo", Benefit: models.Sum(12.5)},
					{User: "Gimli", Benefit: models.Sum(17.5)},
				},
			),
			validateFunc: func(t *testing.T, deltas map[string]models.Amount) {
				if deltas["Bilbo"] != 30 || deltas["Frodo"] != -12.5 || deltas["Gimli"] != -17.5 {
					t.Errorf("unexpected deltas %v", deltas)
				}
				if sumDeltas(deltas) != 0 {
					t.Errorf("deltas sum = %v, want 0", sumDeltas(deltas))
				}
			},
		},
		{
			name:    "excess benefits",
			tx:      expense([]models.Contribution{{User: "Bilbo", Amount: 10}}, []models.Share{{User: "Frodo", Benefit: models.Sum(12)}}),
			wantErr: models.ErrExcessBenefits,
		},
		{
			name: "insufficient benefits",
			tx: expense(
				[]models.Contribution{{User: "Bilbo", Amount: 10}},
				[]models.Share{{User: "Frodo", Benefit: models.Sum(4)}},
			),
			wantErr: models.ErrInsufficientBenefits,
		},
		{
			name: "empty transaction",
			tx:   expense(nil, nil),
			validateFunc: func(t *testing.T, deltas map[string]models.Amount) {
				if len(deltas) != 0 {
					t.Errorf("expected no deltas, got %v", deltas)
				}
			},
		},
		{
			name: "repeated contributors accumulate",
			tx: expense(
				[]models.Contribution{{User: "Bilbo", Amount: 10}, {User: "Bilbo", Amount: 20}},
				[]models.Share{{User: "Frodo", Benefit: models.Even()}, {User: "Bilbo", Benefit: models.Even()}},
			),
			validateFunc: func(t *testing.T, deltas map[string]models.Amount) {
				// Bilbo paid 30 and owes 15
				if deltas["Bilbo"] != 15 {
					t.Errorf("Bilbo delta = %v, want 15", deltas["Bilbo"])
				}
				if deltas["Frodo"] != -15 {
					t.Errorf("Frodo delta = %v, want -15", deltas["Frodo"])
				}
			},
		},
		{
			name: "repeated beneficiaries accumulate",
			tx: expense(
				[]models.Contribution{{User: "Bilbo", Amount: 20}},
				[]models.Share{
					{User: "Frodo", Benefit: models.Sum(5)},
					{User: "Frodo", Benefit: models.Even()},
					{User: "Gimli", Benefit: models.Even()},
				},
			),
			validateFunc: func(t *testing.T, deltas map[string]models.Amount) {
				// 15 left for 2 evens = 7.5 each
				if deltas["Frodo"] != -12.5 {
					t.Errorf("Frodo delta = %v, want -12.5", deltas["Frodo"])
				}
				if deltas["Gimli"] != -7.5 {
					t.Errorf("Gimli delta = %v, want -7.5", deltas["Gimli"])
				}
			},
		},
		{
			name: "uneven division",
			tx: expense(
				[]models.Contribution{{User: "Bilbo", Amount: 10}},
				[]models.Share{
					{User: "Bilbo", Benefit: models.Even()},
					{User: "Frodo", Benefit: models.Even()},
					{User: "Gimli", Benefit: models.Even()},
				},
			),
			validateFunc: func(t *testing.T, deltas map[string]models.Amount) {
				if math.Abs(deltas["Frodo"]+10.0/3) > 1e-9 {
					t.Errorf("Frodo delta = %v, want %v", deltas["Frodo"], -10.0/3)
				}
				if math.Abs(sumDeltas(deltas)) > 1e-9 {
					t.Errorf("deltas sum = %v, want 0", sumDeltas(deltas))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deltas, err := BalanceUpdates(tt.tx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("BalanceUpdates() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BalanceUpdates() unexpected error: %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, deltas)
			}
		})
	}
}

func TestBenefitPerEvenErrorValues(t *testing.T) {
	t.Run("excess carries specified and spent", func(t *testing.T) {
		tx := expense(
			[]models.Contribution{{User: "Bilbo", Amount: 10}},
			[]models.Share{{User: "Frodo", Benefit: models.Sum(8)}, {User: "Gimli", Benefit: models.Sum(7)}},
		)
		_, err := BenefitPerEven(tx)
		var excess *models.ExcessBenefitsError
		if !errors.As(err, &excess) {
			t.Fatalf("expected ExcessBenefitsError, got %v", err)
		}
		if excess.Specified != 15 || excess.Spent != 10 {
			t.Errorf("got specified=%v spent=%v, want 15 and 10", excess.Specified, excess.Spent)
		}
	})

	t.Run("insufficient carries specified and spent", func(t *testing.T) {
		tx := expense(
			[]models.Contribution{{User: "Bilbo", Amount: 10}},
			[]models.Share{{User: "Frodo", Benefit: models.Sum(4)}},
		)
		_, err := BenefitPerEven(tx)
		var insufficient *models.InsufficientBenefitsError
		if !errors.As(err, &insufficient) {
			t.Fatalf("expected InsufficientBenefitsError, got %v", err)
		}
		if insufficient.Specified != 4 || insufficient.Spent != 10 {
			t.Errorf("got specified=%v spent=%v, want 4 and 10", insufficient.Specified, insufficient.Spent)
		}
	})

	t.Run("fully specified has zero share", func(t *testing.T) {
		tx := expense(
			[]models.Contribution{{User: "Bilbo", Amount: 10}},
			[]models.Share{{User: "Frodo", Benefit: models.Sum(10)}},
		)
		perEven, err := BenefitPerEven(tx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if perEven != 0 {
			t.Errorf("perEven = %v, want 0", perEven)
		}
	})
}

func TestReverse(t *testing.T) {
	original := models.NewTransaction(
		[]models.Contribution{{User: "Bilbo", Amount: 32}, {User: "Frodo", Amount: 12}},
		[]models.Share{
			{User: "Legolas", Benefit: models.Even()},
			{User: "Frodo", Benefit: models.Even()},
			{User: "Gimli", Benefit: models.Sum(10)},
		},
		"Dinner",
		true,
		5,
		time.Date(2022, 5, 1, 11, 0, 0, 0, time.UTC),
	)

	reversed, err := Reverse(original)
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}

	if reversed.ID != 0 {
		t.Errorf("ID = %d, want 0", reversed.ID)
	}
	if reversed.IsDirect {
		t.Error("reversal should not be direct")
	}
	if reversed.Description != "Undo 5" {
		t.Errorf("Description = %q, want %q", reversed.Description, "Undo 5")
	}
	if !reversed.Datetime.After(original.Datetime) {
		t.Errorf("Datetime = %v, want now", reversed.Datetime)
	}
	if reversed.NumEvenBenefits() != 1 {
		t.Errorf("reversal should have one Even benefit, got %d", reversed.NumEvenBenefits())
	}
	for _, s := range reversed.Benefits {
		if s.User == "Bilbo" && !s.Benefit.IsEven() {
			t.Errorf("largest contributor Bilbo should benefit Even, got %v", s.Benefit)
		}
	}

	want, err := BalanceUpdates(original)
	if err != nil {
		t.Fatalf("BalanceUpdates(original) failed: %v", err)
	}
	got, err := BalanceUpdates(reversed)
	if err != nil {
		t.Fatalf("BalanceUpdates(reversed) failed: %v", err)
	}
	for user, d := range want {
		if got[user] != -d {
			t.Errorf("%s reversed delta = %v, want %v", user, got[user], -d)
		}
	}
}

func TestReverseInvalidTransaction(t *testing.T) {
	tx := expense(
		[]models.Contribution{{User: "Bilbo", Amount: 10}},
		[]models.Share{{User: "Frodo", Benefit: models.Sum(20)}},
	)
	tx.ID = 9

	_, err := Reverse(tx)
	if !errors.Is(err, models.ErrExcessBenefits) {
		t.Fatalf("Reverse() error = %v, want ErrExcessBenefits", err)
	}
	if !strings.Contains(err.Error(), "9") {
		t.Errorf("error %q should mention the transaction id", err)
	}
}

func TestReverseInexactSplits(t *testing.T) {
	names := []string{"Bilbo", "Frodo", "Sam", "Merry", "Pippin", "Gandalf", "Aragorn", "Legolas", "Gimli"}

	tests := []struct {
		name          string
		contributions []models.Contribution
		sums          []models.Share
		ways          int
	}{
		{name: "1 split 6 ways", contributions: []models.Contribution{{User: "Bilbo", Amount: 1}}, ways: 6},
		{name: "100 split 6 ways", contributions: []models.Contribution{{User: "Bilbo", Amount: 100}}, ways: 6},
		{name: "100 split 7 ways", contributions: []models.Contribution{{User: "Bilbo", Amount: 100}}, ways: 7},
		{name: "0.1 split 3 ways", contributions: []models.Contribution{{User: "Bilbo", Amount: 0.1}}, ways: 3},
		{name: "19.99 split 9 ways", contributions: []models.Contribution{{User: "Bilbo", Amount: 19.99}}, ways: 9},
		{
			name:          "two payers split 7 ways",
			contributions: []models.Contribution{{User: "Bilbo", Amount: 33.33}, {User: "Frodo", Amount: 12.5}},
			ways:          7,
		},
		{
			name:          "sum and evens",
			contributions: []models.Contribution{{User: "Bilbo", Amount: 10}},
			sums:          []models.Share{{User: "Gimli", Benefit: models.Sum(0.7)}},
			ways:          3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			benefits := append([]models.Share{}, tt.sums...)
			for _, name := range names[:tt.ways] {
				benefits = append(benefits, models.Share{User: name, Benefit: models.Even()})
			}
			original := expense(tt.contributions, benefits)

			want, err := BalanceUpdates(original)
			if err != nil {
				t.Fatalf("BalanceUpdates(original) failed: %v", err)
			}
			reversed, err := Reverse(original)
			if err != nil {
				t.Fatalf("Reverse failed: %v", err)
			}
			got, err := BalanceUpdates(reversed)
			if err != nil {
				t.Fatalf("BalanceUpdates(reversed) failed: %v", err)
			}
			for user, d := range want {
				if math.Abs(got[user]+d) > 1e-9 {
					t.Errorf("%s reversed delta = %v, want %v", user, got[user], -d)
				}
			}

			// Undoing the reversal splits as well.
			if _, err := Reverse(reversed); err != nil {
				t.Errorf("Reverse(reversed) failed: %v", err)
			}
		})
	}
}

func TestReverseEvenSplitsOfCommonAmounts(t *testing.T) {
	names := []string{"Bilbo", "Frodo", "Sam", "Merry", "Pippin", "Gandalf", "Aragorn", "Legolas", "Gimli"}

	for _, amount := range []models.Amount{10, 100, 0.1, 1, 7, 50, 33.33, 19.99, 12.5} {
		for ways := 2; ways <= len(names); ways++ {
			benefits := make([]models.Share, 0, ways)
			for _, name := range names[:ways] {
				benefits = append(benefits, models.Share{User: name, Benefit: models.Even()})
			}
			original := expense([]models.Contribution{{User: "Bilbo", Amount: amount}}, benefits)

			reversed, err := Reverse(original)
			if err != nil {
				t.Fatalf("%v split %d ways: Reverse failed: %v", amount, ways, err)
			}
			if _, err := BalanceUpdates(reversed); err != nil {
				t.Errorf("%v split %d ways: reversal does not split: %v", amount, ways, err)
			}
		}
	}
}
