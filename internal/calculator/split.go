package calculator

import (
	"fmt"
	"time"

	"github.com/mmynk/divider/internal/models"
)

// BenefitPerEven computes the share owed by each Even beneficiary of tx.
//
// Algorithm:
//   - specified = sum of the Sum benefits, spending = sum of the contributions
//   - specified > spending is an ExcessBenefitsError
//   - the remaining spending is split evenly among the Even benefits
//   - remaining spending with no Even benefit to absorb it is an InsufficientBenefitsError
//   - a transaction fully specified by Sum benefits has a share of 0
func BenefitPerEven(tx models.Transaction) (models.Amount, error) {
	spending := tx.TotalSpending()
	specified := tx.SpecifiedBenefits()
	if specified > spending {
		return 0, &models.ExcessBenefitsError{Specified: specified, Spent: spending}
	}

	remaining := spending - specified
	evens := tx.NumEvenBenefits()
	if evens == 0 {
		if remaining > 0 {
			return 0, &models.InsufficientBenefitsError{Specified: specified, Spent: spending}
		}
		return 0, nil
	}

	return remaining / models.Amount(evens), nil
}

// BalanceUpdates computes the signed balance delta of every user involved in tx.
// Contributors gain what they paid and beneficiaries lose what they owe.
// Repeated users accumulate.
func BalanceUpdates(tx models.Transaction) (map[string]models.Amount, error) {
	perEven, err := BenefitPerEven(tx)
	if err != nil {
		return nil, err
	}

	deltas := make(map[string]models.Amount, len(tx.Contributions)+len(tx.Benefits))
	for _, c := range tx.Contributions {
		deltas[c.User] += c.Amount
	}
	for _, s := range tx.Benefits {
		deltas[s.User] -= shareAmount(s.Benefit, perEven)
	}

	return deltas, nil
}

// Reverse builds the transaction undoing tx.
//
// Beneficiaries become contributors paying exactly what they owed in tx, and
// contributors become beneficiaries of a Sum of what they paid. The largest
// contributor benefits Even instead and absorbs the rounding of the owed
// amounts, whose sum may miss the original spending by an ulp. Its share
// equals what it paid up to that rounding.
//
// The reversal is never direct, is unassigned, and happens now. It fails
// when tx itself cannot be split.
func Reverse(tx models.Transaction) (models.Transaction, error) {
	perEven, err := BenefitPerEven(tx)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to reverse transaction %d: %w", tx.ID, err)
	}

	contributions := make([]models.Contribution, 0, len(tx.Benefits))
	for _, s := range tx.Benefits {
		contributions = append(contributions, models.Contribution{
			User:   s.User,
			Amount: shareAmount(s.Benefit, perEven),
		})
	}

	absorber := largestContribution(tx.Contributions)
	benefits := make([]models.Share, 0, len(tx.Contributions))
	for i, c := range tx.Contributions {
		benefit := models.Sum(c.Amount)
		if i == absorber {
			benefit = models.Even()
		}
		benefits = append(benefits, models.Share{User: c.User, Benefit: benefit})
	}

	return models.NewTransaction(
		contributions,
		benefits,
		fmt.Sprintf("Undo %d", tx.ID),
		false,
		0,
		time.Time{},
	), nil
}

func shareAmount(b models.Benefit, perEven models.Amount) models.Amount {
	if v, ok := b.Value(); ok {
		return v
	}
	return perEven
}

// largestContribution returns the index of the first largest contribution,
// or -1 if there is none.
func largestContribution(contributions []models.Contribution) int {
	largest := -1
	for i, c := range contributions {
		if largest < 0 || c.Amount > contributions[largest].Amount {
			largest = i
		}
	}
	return largest
}
