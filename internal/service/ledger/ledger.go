package ledger

import (
	"errors"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/invest-advisor/internal/domain/models"
)

var (
	// ErrInvalidAmount indicates a transaction amount that is not a positive whole number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds indicates a withdrawal larger than the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAddAccountRejected indicates a new account form with missing fields.
	ErrAddAccountRejected = errors.New("add account rejected")
)

var maxAmount = decimal.NewFromInt(models.MaxBalance)

// ParseAmount converts a typed amount into whole currency units. Fractions are
// truncated; the result must stay strictly positive.
func ParseAmount(raw string) (int64, error) {
	amount, err := parseUnits(raw)
	if err != nil || amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}

// parseUnits truncates a typed amount to whole units within [0, MaxBalance].
func parseUnits(raw string) (int64, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if value.IsNegative() || value.GreaterThan(maxAmount) {
		return 0, ErrInvalidAmount
	}
	return value.IntPart(), nil
}

// Deposit credits amount to the account with the given id. Accounts that do
// not match are returned unchanged, and an unknown id is a no-op.
func Deposit(accounts []models.Account, id, amount int64) ([]models.Account, error) {
	if amount <= 0 {
		return accounts, ErrInvalidAmount
	}

	idx := indexOf(accounts, id)
	if idx < 0 {
		return slices.Clone(accounts), nil
	}
	if accounts[idx].Balance > models.MaxBalance-amount {
		return accounts, ErrInvalidAmount
	}

	next := slices.Clone(accounts)
	next[idx].Balance += amount
	return next, nil
}

// Withdraw debits amount from the account with the given id. The balance may
// never go below zero.
func Withdraw(accounts []models.Account, id, amount int64) ([]models.Account, error) {
	if amount <= 0 {
		return accounts, ErrInvalidAmount
	}

	idx := indexOf(accounts, id)
	if idx < 0 {
		return slices.Clone(accounts), nil
	}
	if accounts[idx].Balance-amount < 0 {
		return accounts, ErrInsufficientFunds
	}

	next := slices.Clone(accounts)
	next[idx].Balance -= amount
	return next, nil
}

// ToggleStatus flips the status of the account with the given id.
func ToggleStatus(accounts []models.Account, id int64) []models.Account {
	next := slices.Clone(accounts)
	if idx := indexOf(next, id); idx >= 0 {
		next[idx].Status = next[idx].Status.Toggled()
	}
	return next
}

// AddAccount appends a new active account with id max(ids)+1. The initial
// balance is parsed like a transaction amount but may be zero.
func AddAccount(accounts []models.Account, req models.NewAccountRequest) ([]models.Account, models.Account, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		return accounts, models.Account{}, ErrAddAccountRejected
	}
	balance, err := parseUnits(string(req.InitialBalance))
	if err != nil {
		return accounts, models.Account{}, ErrAddAccountRejected
	}

	account := models.Account{
		ID:      nextID(accounts),
		Name:    name,
		Email:   email,
		Balance: balance,
		Status:  models.AccountActive,
	}

	next := make([]models.Account, 0, len(accounts)+1)
	next = append(next, accounts...)
	next = append(next, account)
	return next, account, nil
}

// Search returns the accounts whose name or email contains query, ignoring case.
// An empty query matches everything.
func Search(accounts []models.Account, query string) []models.Account {
	needle := strings.ToLower(strings.TrimSpace(query))
	result := make([]models.Account, 0, len(accounts))
	for _, account := range accounts {
		if needle == "" ||
			strings.Contains(strings.ToLower(account.Name), needle) ||
			strings.Contains(strings.ToLower(account.Email), needle) {
			result = append(result, account)
		}
	}
	return result
}

func nextID(accounts []models.Account) int64 {
	var maxID int64
	for _, account := range accounts {
		if account.ID > maxID {
			maxID = account.ID
		}
	}
	return maxID + 1
}

func indexOf(accounts []models.Account, id int64) int {
	return slices.IndexFunc(accounts, func(a models.Account) bool { return a.ID == id })
}
