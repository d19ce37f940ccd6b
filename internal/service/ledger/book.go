package ledger

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/invest-advisor/internal/domain/models"
)

// ErrAccountNotFound is reported by the Book when an operation targets an id
// it does not hold. The pure functions above treat that case as a no-op.
var ErrAccountNotFound = errors.New("account not found")

const (
	opDeposit  = "deposit"
	opWithdraw = "withdraw"
	opToggle   = "toggle_status"
	opAdd      = "add_account"
)

// Recorder receives ledger events for instrumentation.
type Recorder interface {
	RecordLedgerOperation(operation string, err error)
	SetAccountBalance(accountID int64, balance int64)
}

// Book owns the mutable account collection and serializes writes against it.
type Book struct {
	mu       sync.RWMutex
	accounts []models.Account
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewBook builds a Book seeded with a copy of accounts.
func NewBook(accounts []models.Account, recorder Recorder, logger *zap.Logger) *Book {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Book{
		accounts: slices.Clone(accounts),
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
	for _, account := range b.accounts {
		b.publishBalance(account)
	}
	return b
}

// Accounts returns a copy of the whole collection.
func (b *Book) Accounts() []models.Account {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.accounts)
}

// Search filters the collection by name or email.
func (b *Book) Search(query string) []models.Account {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Search(b.accounts, query)
}

// Get returns the account with the given id.
func (b *Book) Get(id int64) (models.Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	idx := indexOf(b.accounts, id)
	if idx < 0 {
		return models.Account{}, fmt.Errorf("%w: %d", ErrAccountNotFound, id)
	}
	return b.accounts[idx], nil
}

// Snapshot returns a timestamped copy of the collection.
func (b *Book) Snapshot() models.LedgerSnapshot {
	return models.LedgerSnapshot{TakenAt: b.now().UTC(), Accounts: b.Accounts()}
}

// Deposit credits amount to account id.
func (b *Book) Deposit(id, amount int64) (models.Account, error) {
	return b.apply(opDeposit, id, func(accounts []models.Account) ([]models.Account, error) {
		return Deposit(accounts, id, amount)
	})
}

// Withdraw debits amount from account id.
func (b *Book) Withdraw(id, amount int64) (models.Account, error) {
	return b.apply(opWithdraw, id, func(accounts []models.Account) ([]models.Account, error) {
		return Withdraw(accounts, id, amount)
	})
}

// ToggleStatus flips account id between active and inactive.
func (b *Book) ToggleStatus(id int64) (models.Account, error) {
	return b.apply(opToggle, id, func(accounts []models.Account) ([]models.Account, error) {
		return ToggleStatus(accounts, id), nil
	})
}

// AddAccount registers a new account.
func (b *Book) AddAccount(req models.NewAccountRequest) (models.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	next, account, err := AddAccount(b.accounts, req)
	b.record(opAdd, err)
	if err != nil {
		b.logger.Info("account creation rejected", zap.String("email", req.Email), zap.Error(err))
		return models.Account{}, err
	}

	b.accounts = next
	b.publishBalance(account)
	b.logger.Info("account created", zap.Int64("account_id", account.ID), zap.String("email", account.Email))
	return account, nil
}

func (b *Book) apply(operation string, id int64, mutate func([]models.Account) ([]models.Account, error)) (models.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if indexOf(b.accounts, id) < 0 {
		err := fmt.Errorf("%w: %d", ErrAccountNotFound, id)
		b.record(operation, err)
		return models.Account{}, err
	}

	next, err := mutate(b.accounts)
	b.record(operation, err)
	if err != nil {
		b.logger.Info("ledger operation rejected",
			zap.String("operation", operation),
			zap.Int64("account_id", id),
			zap.Error(err))
		return models.Account{}, err
	}

	b.accounts = next
	account := next[indexOf(next, id)]
	b.publishBalance(account)

	b.logger.Debug("ledger operation applied",
		zap.String("operation", operation),
		zap.Int64("account_id", id),
		zap.Int64("balance", account.Balance),
		zap.String("status", string(account.Status)))
	return account, nil
}

func (b *Book) record(operation string, err error) {
	if b.recorder != nil {
		b.recorder.RecordLedgerOperation(operation, err)
	}
}

func (b *Book) publishBalance(account models.Account) {
	if b.recorder != nil {
		b.recorder.SetAccountBalance(account.ID, account.Balance)
	}
}
