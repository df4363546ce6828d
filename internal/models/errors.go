package models

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientBenefits = errors.New("insufficient benefits")
	ErrExcessBenefits       = errors.New("excess benefits")
	ErrUnknownUser          = errors.New("unknown user")
	ErrUnknownTransactionID = errors.New("unknown transaction id")
)

// InsufficientBenefitsError occurs when a transaction specifies every benefit
// explicitly, but the benefits add up to less than what was contributed.
type InsufficientBenefitsError struct {
	Specified Amount
	Spent     Amount
}

func (e *InsufficientBenefitsError) Error() string {
	return fmt.Sprintf("too few benefits specified: %v out of %v spent", e.Specified, e.Spent)
}

func (e *InsufficientBenefitsError) Is(target error) bool {
	return target == ErrInsufficientBenefits
}

// ExcessBenefitsError occurs when the explicit benefits of a transaction
// exceed the sum of all its contributions.
type ExcessBenefitsError struct {
	Specified Amount
	Spent     Amount
}

func (e *ExcessBenefitsError) Error() string {
	return fmt.Sprintf("too many benefits specified: %v out of %v spent", e.Specified, e.Spent)
}

func (e *ExcessBenefitsError) Is(target error) bool {
	return target == ErrExcessBenefits
}

// UnknownUserError occurs when a transaction involves a user that is not
// registered on the ledger it is applied to.
type UnknownUserError struct {
	Name string
}

func (e *UnknownUserError) Error() string {
	return fmt.Sprintf("no such user: %s", e.Name)
}

func (e *UnknownUserError) Is(target error) bool {
	return target == ErrUnknownUser
}

// UnknownTransactionIDError occurs when a transaction is referenced by an id
// that does not exist on the ledger.
type UnknownTransactionIDError struct {
	ID int
}

func (e *UnknownTransactionIDError) Error() string {
	return fmt.Sprintf("no such transaction id: %d", e.ID)
}

func (e *UnknownTransactionIDError) Is(target error) bool {
	return target == ErrUnknownTransactionID
}
