package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/divider/internal/ledger"
	"github.com/mmynk/divider/internal/models"
)

// ListLedgers returns the names of all ledgers.
func (s *LedgerService) ListLedgers(ctx context.Context, req *connect.Request[ListLedgersRequest]) (*connect.Response[ListLedgersResponse], error) {
	names, err := s.Names(ctx)
	if err != nil {
		slog.Error("ListLedgers failed", "error", err)
		return nil, toConnectError(err)
	}
	if names == nil {
		names = []string{}
	}

	slog.Info("ListLedgers successful", "count", len(names))

	return connect.NewResponse(&ListLedgersResponse{Ledgers: names}), nil
}

// GetLedger returns the summary of a ledger.
func (s *LedgerService) GetLedger(ctx context.Context, req *connect.Request[GetLedgerRequest]) (*connect.Response[GetLedgerResponse], error) {
	var summary *Ledger
	err := s.View(ctx, req.Msg.Ledger, func(l *ledger.Ledger) error {
		summary = summarize(req.Msg.Ledger, l)
		return nil
	})
	if err != nil {
		slog.Error("GetLedger failed", "ledger", req.Msg.Ledger, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&GetLedgerResponse{Ledger: summary}), nil
}

// CreateLedger creates a new ledger with its initial users.
func (s *LedgerService) CreateLedger(ctx context.Context, req *connect.Request[CreateLedgerRequest]) (*connect.Response[CreateLedgerResponse], error) {
	slog.Info("CreateLedger request received",
		"ledger", req.Msg.Ledger,
		"users_count", len(req.Msg.Users),
	)

	l, err := s.Create(ctx, req.Msg.Ledger, req.Msg.Users...)
	if err != nil {
		slog.Error("CreateLedger failed", "ledger", req.Msg.Ledger, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Ledger created", "ledger", req.Msg.Ledger)

	return connect.NewResponse(&CreateLedgerResponse{Ledger: summarize(req.Msg.Ledger, l)}), nil
}

// AddUser adds a user to a ledger. Adding a known user is a no-op.
func (s *LedgerService) AddUser(ctx context.Context, req *connect.Request[AddUserRequest]) (*connect.Response[AddUserResponse], error) {
	if req.Msg.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errEmptyUser)
	}

	var users []string
	err := s.Update(ctx, req.Msg.Ledger, func(l *ledger.Ledger) error {
		l.AddUser(req.Msg.Name)
		users = userNames(l)
		return nil
	})
	if err != nil {
		slog.Error("AddUser failed", "ledger", req.Msg.Ledger, "user", req.Msg.Name, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("User added", "ledger", req.Msg.Ledger, "user", req.Msg.Name)

	return connect.NewResponse(&AddUserResponse{Users: users}), nil
}

// AddTransfer records a direct transfer between two users.
func (s *LedgerService) AddTransfer(ctx context.Context, req *connect.Request[AddTransferRequest]) (*connect.Response[TransactionResponse], error) {
	slog.Info("AddTransfer request received",
		"ledger", req.Msg.Ledger,
		"from", req.Msg.From,
		"to", req.Msg.To,
		"amount", req.Msg.Amount,
	)

	when, err := parseDatetime(req.Msg.Datetime)
	if err != nil {
		return nil, toConnectError(err)
	}

	var tx models.Transaction
	err = s.Update(ctx, req.Msg.Ledger, func(l *ledger.Ledger) error {
		var err error
		tx, err = l.AddTransfer(req.Msg.From, req.Msg.To, req.Msg.Amount, req.Msg.Description, when)
		if err != nil {
			return err
		}
		recordApplied(l, "transfer")
		return nil
	})
	if err != nil {
		slog.Warn("AddTransfer rejected", "ledger", req.Msg.Ledger, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Transfer recorded", "ledger", req.Msg.Ledger, "transaction_id", tx.ID)

	return connect.NewResponse(&TransactionResponse{Transaction: tx}), nil
}

// AddExpense records a shared expense.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[TransactionResponse], error) {
	slog.Info("AddExpense request received",
		"ledger", req.Msg.Ledger,
		"contributions_count", len(req.Msg.Contributions),
		"benefits_count", len(req.Msg.Benefits),
	)

	when, err := parseDatetime(req.Msg.Datetime)
	if err != nil {
		return nil, toConnectError(err)
	}

	var tx models.Transaction
	err = s.Update(ctx, req.Msg.Ledger, func(l *ledger.Ledger) error {
		var err error
		tx, err = l.AddExpense(req.Msg.Contributions, req.Msg.Benefits, req.Msg.Description, when)
		if err != nil {
			return err
		}
		recordApplied(l, "expense")
		return nil
	})
	if err != nil {
		slog.Warn("AddExpense rejected", "ledger", req.Msg.Ledger, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense recorded",
		"ledger", req.Msg.Ledger,
		"transaction_id", tx.ID,
		"total", tx.TotalSpending(),
	)

	return connect.NewResponse(&TransactionResponse{Transaction: tx}), nil
}

// UndoTransaction reverses a transaction by recording its opposite.
func (s *LedgerService) UndoTransaction(ctx context.Context, req *connect.Request[UndoTransactionRequest]) (*connect.Response[TransactionResponse], error) {
	slog.Info("UndoTransaction request received", "ledger", req.Msg.Ledger, "transaction_id", req.Msg.ID)

	var tx models.Transaction
	err := s.Update(ctx, req.Msg.Ledger, func(l *ledger.Ledger) error {
		var err error
		tx, err = l.ReverseByID(req.Msg.ID)
		if err != nil {
			return err
		}
		recordApplied(l, "undo")
		return nil
	})
	if err != nil {
		slog.Warn("UndoTransaction rejected", "ledger", req.Msg.Ledger, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Transaction reversed",
		"ledger", req.Msg.Ledger,
		"transaction_id", req.Msg.ID,
		"reversal_id", tx.ID,
	)

	return connect.NewResponse(&TransactionResponse{Transaction: tx}), nil
}

// GetBalances returns the balances and total spend of a ledger.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	resp := &GetBalancesResponse{}
	err := s.View(ctx, req.Msg.Ledger, func(l *ledger.Ledger) error {
		resp.Balances = l.Balances()
		resp.TotalSpend = l.TotalSpend()
		return nil
	})
	if err != nil {
		slog.Error("GetBalances failed", "ledger", req.Msg.Ledger, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(resp), nil
}

// ListTransactions returns the history of a ledger, oldest first.
func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error) {
	resp := &ListTransactionsResponse{}
	err := s.View(ctx, req.Msg.Ledger, func(l *ledger.Ledger) error {
		resp.Transactions = l.Transactions()
		return nil
	})
	if err != nil {
		slog.Error("ListTransactions failed", "ledger", req.Msg.Ledger, "error", err)
		return nil, toConnectError(err)
	}
	if resp.Transactions == nil {
		resp.Transactions = []models.Transaction{}
	}

	return connect.NewResponse(resp), nil
}

// SuggestSettlements proposes transfers that would bring every balance of a
// ledger back to zero.
func (s *LedgerService) SuggestSettlements(ctx context.Context, req *connect.Request[SuggestSettlementsRequest]) (*connect.Response[SuggestSettlementsResponse], error) {
	resp := &SuggestSettlementsResponse{}
	err := s.View(ctx, req.Msg.Ledger, func(l *ledger.Ledger) error {
		resp.Settlements = l.SuggestSettlements()
		return nil
	})
	if err != nil {
		slog.Error("SuggestSettlements failed", "ledger", req.Msg.Ledger, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("SuggestSettlements successful", "ledger", req.Msg.Ledger, "count", len(resp.Settlements))

	return connect.NewResponse(resp), nil
}
