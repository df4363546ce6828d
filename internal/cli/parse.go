package cli

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/mmynk/divider/internal/models"
)

// TimeLayout is the format of the -T flag, read in local time.
const TimeLayout = "2006-01-02 15:04"

var (
	errOddContributions = errors.New("contributions must be pairs of name and amount")
	errNoBeneficiaries  = errors.New("at least one beneficiary is required")
)

// ParseContributions reads alternating names and amounts, as in
// "Donald 5 Will 29".
func ParseContributions(args []string) ([]models.Contribution, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, errOddContributions
	}
	contributions := make([]models.Contribution, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		amount, ok := parseAmount(args[i+1])
		if !ok {
			return nil, fmt.Errorf("amount of %s must be a number, got %q", args[i], args[i+1])
		}
		contributions = append(contributions, models.Contribution{User: args[i], Amount: amount})
	}
	return contributions, nil
}

// ParseBeneficiaries reads names, each optionally followed by the amount the
// user benefited. A name without an amount benefits evenly:
// "Ben 14 George Mike" gives Ben 14 and splits the rest between George and
// Mike.
func ParseBeneficiaries(args []string) ([]models.Share, error) {
	var shares []models.Share
	prev := ""
	for _, arg := range args {
		amount, ok := parseAmount(arg)
		if !ok {
			if prev != "" {
				shares = append(shares, models.Share{User: prev, Benefit: models.Even()})
			}
			prev = arg
			continue
		}
		if prev == "" {
			return nil, fmt.Errorf("expected a user before %s", arg)
		}
		shares = append(shares, models.Share{User: prev, Benefit: models.Sum(amount)})
		prev = ""
	}
	if prev != "" {
		shares = append(shares, models.Share{User: prev, Benefit: models.Even()})
	}
	if len(shares) == 0 {
		return nil, errNoBeneficiaries
	}
	return shares, nil
}

// parseAmount reads a finite amount. NaN and infinities are not amounts, so
// a user called Inf stays a user.
func parseAmount(s string) (models.Amount, bool) {
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, false
	}
	return amount, true
}

// ParseTime reads a TimeLayout timestamp in local time. Empty means now.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(TimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected format %q", s, TimeLayout)
	}
	return t, nil
}

// ParseID reads a transaction id as displayed by the list command.
func ParseID(s string) (int, error) {
	id, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid transaction id %q", s)
	}
	return int(id), nil
}
