package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
)

// AccountStatus enumerates the two persistent account states.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

// Toggled returns the opposite status.
func (s AccountStatus) Toggled() AccountStatus {
	if s == AccountActive {
		return AccountInactive
	}
	return AccountActive
}

// MaxBalance is the largest balance whose euro amount still fits in cents.
const MaxBalance int64 = math.MaxInt64 / 100

// Account is an investor ledger entry. Balance is expressed in whole euros.
type Account struct {
	ID      int64         `json:"id" bson:"id"`
	Name    string        `json:"name" bson:"name"`
	Email   string        `json:"email" bson:"email"`
	Balance int64         `json:"balance" bson:"balance"`
	Status  AccountStatus `json:"status" bson:"status"`
}

// DisplayBalance renders the balance as a euro amount.
func (a Account) DisplayBalance() string {
	return money.New(a.Balance*100, money.EUR).Display()
}

// NewAccountRequest carries the add-account form. An empty InitialBalance
// means the field was left empty.
type NewAccountRequest struct {
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	InitialBalance RawAmount `json:"initial_balance"`
}

// RawAmount keeps a transaction amount exactly as typed. Both JSON numbers
// and strings are accepted so form input like "abc" reaches ledger validation.
type RawAmount string

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawAmount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*r = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	*r = RawAmount(raw)
	return nil
}

// AmountRequest is the body of deposit and withdraw calls.
type AmountRequest struct {
	Amount RawAmount `json:"amount"`
}

// LedgerSnapshot is a point-in-time copy of the account collection.
type LedgerSnapshot struct {
	TakenAt  time.Time `bson:"taken_at" json:"taken_at"`
	Accounts []Account `bson:"accounts" json:"accounts"`
}

// SeedAccounts returns the accounts the admin dashboard starts with.
func SeedAccounts() []Account {
	return []Account{
		{ID: 1, Name: "John Doe", Email: "john@example.com", Balance: 50000, Status: AccountActive},
		{ID: 2, Name: "Jane Smith", Email: "jane@example.com", Balance: 75000, Status: AccountInactive},
	}
}
