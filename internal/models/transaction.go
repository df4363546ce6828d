package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the layout used to serialize transaction timestamps.
// Timestamps are always stored in UTC with seconds precision.
const TimeLayout = "2006-01-02T15:04:05-07:00"

type benefitKind uint8

const (
	benefitEven benefitKind = iota
	benefitSum
)

// Benefit describes how much a beneficiary owes for a transaction.
//
// A benefit is either a Sum, a fixed amount, or Even, a share of whatever
// spending is left once every Sum has been subtracted, split evenly among all
// Even benefits of the same transaction. The zero value is Even.
type Benefit struct {
	kind   benefitKind
	amount Amount
}

// Even returns the benefit taking an even share of the unspecified spending.
func Even() Benefit {
	return Benefit{kind: benefitEven}
}

// Sum returns the benefit owing exactly amount.
func Sum(amount Amount) Benefit {
	return Benefit{kind: benefitSum, amount: amount}
}

// IsEven reports whether b is an Even benefit.
func (b Benefit) IsEven() bool {
	return b.kind == benefitEven
}

// Value returns the amount of a Sum benefit. ok is false for Even benefits.
func (b Benefit) Value() (amount Amount, ok bool) {
	if b.kind != benefitSum {
		return 0, false
	}
	return b.amount, true
}

func (b Benefit) String() string {
	switch b.kind {
	case benefitSum:
		return formatAmount(b.amount)
	default:
		return "Even"
	}
}

// MarshalJSON encodes Even as the string "Even" and Sum as {"Sum": amount}.
func (b Benefit) MarshalJSON() ([]byte, error) {
	switch b.kind {
	case benefitSum:
		return json.Marshal(struct {
			Sum Amount `json:"Sum"`
		}{b.amount})
	default:
		return []byte(`"Even"`), nil
	}
}

func (b *Benefit) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if name != "Even" {
			return fmt.Errorf("unknown benefit %q", name)
		}
		*b = Even()
		return nil
	}

	var sum struct {
		Sum *Amount `json:"Sum"`
	}
	if err := json.Unmarshal(data, &sum); err != nil {
		return fmt.Errorf("invalid benefit: %w", err)
	}
	if sum.Sum == nil {
		return fmt.Errorf("invalid benefit: %s", data)
	}
	*b = Sum(*sum.Sum)
	return nil
}

// Contribution is an amount a user paid into a transaction.
// It is serialized as a [user, amount] pair.
type Contribution struct {
	User   string
	Amount Amount
}

func (c Contribution) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.User, c.Amount})
}

func (c *Contribution) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("invalid contribution: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("invalid contribution: expected [user, amount], got %s", data)
	}
	if err := json.Unmarshal(pair[0], &c.User); err != nil {
		return fmt.Errorf("invalid contribution user: %w", err)
	}
	if err := json.Unmarshal(pair[1], &c.Amount); err != nil {
		return fmt.Errorf("invalid contribution amount: %w", err)
	}
	return nil
}

// Share is the benefit a user gets from a transaction.
// It is serialized as a [user, benefit] pair.
type Share struct {
	User    string
	Benefit Benefit
}

func (s Share) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.User, s.Benefit})
}

func (s *Share) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("invalid benefit: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("invalid benefit: expected [user, benefit], got %s", data)
	}
	if err := json.Unmarshal(pair[0], &s.User); err != nil {
		return fmt.Errorf("invalid benefit user: %w", err)
	}
	return json.Unmarshal(pair[1], &s.Benefit)
}

// Transaction is the immutable record of one financial event.
//
// Contributions and Benefits reference users by name. They are only checked
// against the users of a ledger when the transaction is applied to it.
type Transaction struct {
	// ID is assigned by the ledger when the transaction is added.
	// Zero means the transaction has not been applied yet.
	ID int

	// Datetime is when the event happened, in UTC with seconds precision.
	Datetime time.Time

	// Contributions are who paid in, and how much. A user may appear more
	// than once; amounts accumulate.
	Contributions []Contribution

	// Benefits are who owes, and how. A user may appear more than once.
	Benefits []Share

	// IsDirect marks a transfer between users. Direct transactions do not
	// count toward the total spend of a ledger.
	IsDirect bool

	Description string
}

// NewTransaction creates a transaction. It does not validate anything: a
// transaction whose benefits do not match its contributions is only rejected
// when its balance updates are computed.
//
// A zero id leaves the transaction unassigned. A zero when defaults to now.
func NewTransaction(contributions []Contribution, benefits []Share, description string, isDirect bool, id int, when time.Time) Transaction {
	if when.IsZero() {
		when = time.Now()
	}
	return Transaction{
		ID:            id,
		Datetime:      when.UTC().Truncate(time.Second),
		Contributions: contributions,
		Benefits:      benefits,
		IsDirect:      isDirect,
		Description:   description,
	}
}

// TotalSpending returns the sum of all contributions.
func (t Transaction) TotalSpending() Amount {
	var total Amount
	for _, c := range t.Contributions {
		total += c.Amount
	}
	return total
}

// SpecifiedBenefits returns the sum of all Sum benefits.
func (t Transaction) SpecifiedBenefits() Amount {
	var total Amount
	for _, s := range t.Benefits {
		if v, ok := s.Benefit.Value(); ok {
			total += v
		}
	}
	return total
}

// NumEvenBenefits returns the number of Even benefits.
func (t Transaction) NumEvenBenefits() int {
	n := 0
	for _, s := range t.Benefits {
		if s.Benefit.IsEven() {
			n++
		}
	}
	return n
}

// String renders the transaction on one line. The id is printed in
// hexadecimal, which is the form the command line accepts for undo.
func (t Transaction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%04x] %s | ", t.ID, t.Datetime.Local().Format("2006-01-02 15:04"))
	for i, c := range t.Contributions {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", c.User, formatAmount(c.Amount))
	}
	b.WriteString(" -> ")
	for i, s := range t.Benefits {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", s.User, s.Benefit)
	}
	if t.Description != "" {
		fmt.Fprintf(&b, " | %s", t.Description)
	}
	return b.String()
}

type transactionJSON struct {
	ID            int            `json:"id,omitempty"`
	Datetime      string         `json:"datetime"`
	Contributions []Contribution `json:"contributions"`
	Benefits      []Share        `json:"benefits"`
	IsDirect      bool           `json:"is_direct"`
	Description   string         `json:"description"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	v := transactionJSON{
		ID:            t.ID,
		Datetime:      t.Datetime.UTC().Format(TimeLayout),
		Contributions: t.Contributions,
		Benefits:      t.Benefits,
		IsDirect:      t.IsDirect,
		Description:   t.Description,
	}
	if v.Contributions == nil {
		v.Contributions = []Contribution{}
	}
	if v.Benefits == nil {
		v.Benefits = []Share{}
	}
	return json.Marshal(v)
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var v transactionJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	when, err := time.Parse(time.RFC3339, v.Datetime)
	if err != nil {
		return fmt.Errorf("invalid transaction datetime: %w", err)
	}
	*t = Transaction{
		ID:            v.ID,
		Datetime:      when.UTC(),
		Contributions: v.Contributions,
		Benefits:      v.Benefits,
		IsDirect:      v.IsDirect,
		Description:   v.Description,
	}
	return nil
}

func formatAmount(v Amount) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
