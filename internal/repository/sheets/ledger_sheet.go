package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/invest-advisor/internal/domain/models"
)

var ledgerHeader = []interface{}{"id", "name", "email", "balance", "status"}

// LedgerSheet maps the account ledger onto a spreadsheet range laid out as
// id | name | email | balance | status.
type LedgerSheet struct {
	repo       Repository
	sheetRange string
	logger     *zap.Logger
}

// NewLedgerSheet wraps repo for the given range.
func NewLedgerSheet(repo Repository, sheetRange string, logger *zap.Logger) *LedgerSheet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerSheet{repo: repo, sheetRange: sheetRange, logger: logger}
}

// LoadAccounts reads the accounts stored in the sheet. Header and malformed rows are skipped.
func (l *LedgerSheet) LoadAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := l.repo.ReadRange(ctx, l.sheetRange)
	if err != nil {
		return nil, fmt.Errorf("load ledger range: %w", err)
	}

	accounts := make([]models.Account, 0, len(rows))
	seen := make(map[int64]bool, len(rows))
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}

		id, err := parseInt(row[0])
		if err != nil || id < 1 || seen[id] {
			l.logger.Debug("skip ledger row with invalid id", zap.Any("value", row[0]))
			continue
		}

		balance, err := parseInt(row[3])
		if err != nil || balance < 0 || balance > models.MaxBalance {
			l.logger.Debug("skip ledger row with invalid balance", zap.Any("value", row[3]), zap.Error(err))
			continue
		}

		status := models.AccountActive
		if len(row) > 4 && strings.EqualFold(fmt.Sprint(row[4]), string(models.AccountInactive)) {
			status = models.AccountInactive
		}

		seen[id] = true
		accounts = append(accounts, models.Account{
			ID:      id,
			Name:    fmt.Sprint(row[1]),
			Email:   fmt.Sprint(row[2]),
			Balance: balance,
			Status:  status,
		})
	}

	return accounts, nil
}

// ExportSnapshot replaces the sheet content with the snapshot accounts.
func (l *LedgerSheet) ExportSnapshot(ctx context.Context, snapshot models.LedgerSnapshot) error {
	if err := l.repo.ClearRange(ctx, l.sheetRange); err != nil {
		return fmt.Errorf("export ledger: %w", err)
	}

	rows := make([][]interface{}, 0, len(snapshot.Accounts)+1)
	rows = append(rows, ledgerHeader)
	for _, account := range snapshot.Accounts {
		rows = append(rows, []interface{}{account.ID, account.Name, account.Email, account.Balance, string(account.Status)})
	}

	if err := l.repo.WriteRows(ctx, l.sheetRange, rows); err != nil {
		return fmt.Errorf("export ledger: %w", err)
	}

	l.logger.Info("ledger exported to sheet", zap.Int("accounts", len(snapshot.Accounts)))
	return nil
}

func parseInt(value interface{}) (int64, error) {
	str := strings.TrimSpace(fmt.Sprint(value))
	if str == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	return strconv.ParseInt(str, 10, 64)
}
