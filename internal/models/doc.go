// Package models defines the core domain types of divider.
//
// # Models
//
//   - User: a participant of a ledger, identified by name
//   - Benefit: how much a beneficiary owes, either a fixed Sum or an Even share
//   - Contribution: an amount a user paid into a transaction
//   - Share: the benefit one user gets from a transaction
//   - Transaction: the immutable record of one financial event
//
// The split calculation lives in package calculator and the running balances
// in package ledger. This package only holds data and its wire format.
//
// # Errors
//
// Applying a transaction can fail with one of four errors, each matching a
// sentinel through errors.Is:
//   - InsufficientBenefitsError (ErrInsufficientBenefits)
//   - ExcessBenefitsError (ErrExcessBenefits)
//   - UnknownUserError (ErrUnknownUser)
//   - UnknownTransactionIDError (ErrUnknownTransactionID)
//
// # Wire format
//
// Transactions serialize contributions as [user, amount] pairs and benefits as
// [user, benefit] pairs where a benefit is either "Even" or {"Sum": amount}.
package models
