package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/divider/internal/models"
	"github.com/mmynk/divider/internal/storage"
)

var (
	// ErrLedgerExists is returned when creating a ledger under a taken name.
	ErrLedgerExists = errors.New("ledger already exists")

	// ErrMissingLedger is returned for requests that name no ledger.
	ErrMissingLedger = errors.New("ledger name is required")

	// ErrInvalidDatetime is returned for timestamps that are not RFC 3339.
	ErrInvalidDatetime = errors.New("invalid datetime")

	errEmptyUser = errors.New("user name is required")
)

// ErrorKind names the class of a ledger error for metrics and logs.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrInsufficientBenefits):
		return "insufficient_benefits"
	case errors.Is(err, models.ErrExcessBenefits):
		return "excess_benefits"
	case errors.Is(err, models.ErrUnknownUser):
		return "unknown_user"
	case errors.Is(err, models.ErrUnknownTransactionID):
		return "unknown_transaction_id"
	case errors.Is(err, storage.ErrNotFound):
		return "ledger_not_found"
	default:
		return "internal"
	}
}

// Code maps an error to the Connect code reported to clients.
func Code(err error) connect.Code {
	switch {
	case errors.Is(err, models.ErrInsufficientBenefits),
		errors.Is(err, models.ErrExcessBenefits),
		errors.Is(err, models.ErrUnknownUser),
		errors.Is(err, storage.ErrInvalidName),
		errors.Is(err, ErrMissingLedger),
		errors.Is(err, ErrInvalidDatetime):
		return connect.CodeInvalidArgument
	case errors.Is(err, models.ErrUnknownTransactionID),
		errors.Is(err, storage.ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, ErrLedgerExists):
		return connect.CodeAlreadyExists
	default:
		return connect.CodeInternal
	}
}

func toConnectError(err error) *connect.Error {
	return connect.NewError(Code(err), err)
}
