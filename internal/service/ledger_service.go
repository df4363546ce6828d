package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/divider/internal/ledger"
	"github.com/mmynk/divider/internal/metrics"
	"github.com/mmynk/divider/internal/storage"
)

// LedgerService implements the Connect LedgerService on top of a store.
//
// Every read-modify-save cycle on a ledger runs under that ledger's own
// mutex, so concurrent requests on the same ledger are applied one at a time
// while requests on different ledgers proceed in parallel.
type LedgerService struct {
	store storage.Store
	locks sync.Map // ledger name -> *sync.Mutex
}

var _ LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

func (s *LedgerService) lock(name string) func() {
	mu, _ := s.locks.LoadOrStore(name, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	return mu.(*sync.Mutex).Unlock
}

// Names returns the names of all ledgers.
func (s *LedgerService) Names(ctx context.Context) ([]string, error) {
	return s.store.ListLedgers(ctx)
}

// View loads the ledger called name and passes it to fn. Changes fn makes
// are not saved.
func (s *LedgerService) View(ctx context.Context, name string, fn func(*ledger.Ledger) error) error {
	if name == "" {
		return ErrMissingLedger
	}
	unlock := s.lock(name)
	defer unlock()

	l, err := s.store.ReadLedger(ctx, name)
	if err != nil {
		return err
	}
	return fn(l)
}

// Update loads the ledger called name, passes it to fn and saves it if fn
// succeeds. Nothing is saved when fn fails.
func (s *LedgerService) Update(ctx context.Context, name string, fn func(*ledger.Ledger) error) error {
	if name == "" {
		return ErrMissingLedger
	}
	unlock := s.lock(name)
	defer unlock()

	l, err := s.store.ReadLedger(ctx, name)
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		metrics.LedgerErrors.WithLabelValues(ErrorKind(err)).Inc()
		return err
	}
	if err := s.store.SaveLedger(ctx, name, l); err != nil {
		return fmt.Errorf("failed to save ledger %s: %w", name, err)
	}
	slog.Debug("Ledger saved", "ledger", name, "transactions", len(l.Transactions()))
	return nil
}

// Create stores a new ledger called name with the given users.
// Returns ErrLedgerExists if the name is taken.
func (s *LedgerService) Create(ctx context.Context, name string, users ...string) (*ledger.Ledger, error) {
	if name == "" {
		return nil, ErrMissingLedger
	}
	unlock := s.lock(name)
	defer unlock()

	_, err := s.store.ReadLedger(ctx, name)
	if err == nil {
		return nil, fmt.Errorf("%w: %s", ErrLedgerExists, name)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	l := ledger.New(users...)
	if err := s.store.SaveLedger(ctx, name, l); err != nil {
		return nil, fmt.Errorf("failed to save ledger %s: %w", name, err)
	}
	return l, nil
}

// recordApplied counts a committed transaction and the reconciliation it
// triggered, if any.
func recordApplied(l *ledger.Ledger, kind string) {
	metrics.TransactionsApplied.WithLabelValues(kind).Inc()
	if len(l.Transactions())%ledger.CheckInterval == 0 {
		metrics.Reconciliations.Inc()
	}
}

// parseDatetime parses an optional RFC 3339 timestamp. Empty means now.
func parseDatetime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDatetime, s, err)
	}
	return t, nil
}

func userNames(l *ledger.Ledger) []string {
	users := l.Users()
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Name
	}
	return names
}

func summarize(name string, l *ledger.Ledger) *Ledger {
	return &Ledger{
		Name:             name,
		Users:            userNames(l),
		Balances:         l.Balances(),
		TotalSpend:       l.TotalSpend(),
		TransactionCount: len(l.Transactions()),
	}
}
