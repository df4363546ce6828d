package service

import (
	"github.com/mmynk/divider/internal/calculator"
	"github.com/mmynk/divider/internal/models"
)

// Ledger is the summary of a ledger returned by GetLedger and CreateLedger.
type Ledger struct {
	Name             string                   `json:"name"`
	Users            []string                 `json:"users"`
	Balances         map[string]models.Amount `json:"balances"`
	TotalSpend       models.Amount            `json:"total_spend"`
	TransactionCount int                      `json:"transaction_count"`
}

type ListLedgersRequest struct{}

type ListLedgersResponse struct {
	Ledgers []string `json:"ledgers"`
}

type GetLedgerRequest struct {
	Ledger string `json:"ledger"`
}

type GetLedgerResponse struct {
	Ledger *Ledger `json:"ledger"`
}

type CreateLedgerRequest struct {
	Ledger string   `json:"ledger"`
	Users  []string `json:"users"`
}

type CreateLedgerResponse struct {
	Ledger *Ledger `json:"ledger"`
}

type AddUserRequest struct {
	Ledger string `json:"ledger"`
	Name   string `json:"name"`
}

type AddUserResponse struct {
	Users []string `json:"users"`
}

// AddTransferRequest moves Amount from From to To. Datetime is RFC 3339 and
// defaults to now.
type AddTransferRequest struct {
	Ledger      string        `json:"ledger"`
	From        string        `json:"from"`
	To          string        `json:"to"`
	Amount      models.Amount `json:"amount"`
	Description string        `json:"description,omitempty"`
	Datetime    string        `json:"datetime,omitempty"`
}

// AddExpenseRequest records a shared expense. Datetime is RFC 3339 and
// defaults to now.
type AddExpenseRequest struct {
	Ledger        string                `json:"ledger"`
	Contributions []models.Contribution `json:"contributions"`
	Benefits      []models.Share        `json:"benefits"`
	Description   string                `json:"description,omitempty"`
	Datetime      string                `json:"datetime,omitempty"`
}

// TransactionResponse carries the transaction as recorded, id included.
type TransactionResponse struct {
	Transaction models.Transaction `json:"transaction"`
}

type UndoTransactionRequest struct {
	Ledger string `json:"ledger"`
	ID     int    `json:"id"`
}

type GetBalancesRequest struct {
	Ledger string `json:"ledger"`
}

type GetBalancesResponse struct {
	Balances   map[string]models.Amount `json:"balances"`
	TotalSpend models.Amount            `json:"total_spend"`
}

type ListTransactionsRequest struct {
	Ledger string `json:"ledger"`
}

type ListTransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

type SuggestSettlementsRequest struct {
	Ledger string `json:"ledger"`
}

type SuggestSettlementsResponse struct {
	Settlements []calculator.DebtEdge `json:"settlements"`
}
