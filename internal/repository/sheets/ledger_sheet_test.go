package sheets

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/invest-advisor/internal/domain/models"
)

const testRange = "Accounts!A:E"

type memoryRepository struct {
	rows     map[string][][]interface{}
	clearErr error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: make(map[string][][]interface{})}
}

// WriteRows stores every cell as a string, the way the Sheets API returns them.
func (m *memoryRepository) WriteRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	for _, row := range rows {
		cells := make([]interface{}, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprint(cell)
		}
		m.rows[sheetRange] = append(m.rows[sheetRange], cells)
	}
	return nil
}

func (m *memoryRepository) ReadRange(_ context.Context, sheetRange string) ([][]interface{}, error) {
	return m.rows[sheetRange], nil
}

func (m *memoryRepository) ClearRange(_ context.Context, sheetRange string) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	delete(m.rows, sheetRange)
	return nil
}

func TestExportThenLoadRoundTrip(t *testing.T) {
	repo := newMemoryRepository()
	sheet := NewLedgerSheet(repo, testRange, nil)

	snapshot := models.LedgerSnapshot{TakenAt: time.Now(), Accounts: models.SeedAccounts()}
	require.NoError(t, sheet.ExportSnapshot(context.Background(), snapshot))
	require.NoError(t, sheet.ExportSnapshot(context.Background(), snapshot))

	assert.Len(t, repo.rows[testRange], 3, "export must replace previous content")

	accounts, err := sheet.LoadAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.SeedAccounts(), accounts)
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	repo := newMemoryRepository()
	repo.rows[testRange] = [][]interface{}{
		{"id", "name", "email", "balance", "status"},
		{"1", "John", "john@example.com", "100", "active"},
		{"x", "Bad", "bad@example.com", "100", "active"},
		{"2", "Neg", "neg@example.com", "-5", "active"},
		{"6", "Huge", "huge@example.com", "9000000000000000000", "active"},
		{"1", "Dup", "dup@example.com", "5", "active"},
		{"3", "Short"},
		{"4", "Jane", "jane@example.com", "250", "INACTIVE"},
		{"5", "NoStatus", "ns@example.com", "0"},
	}

	accounts, err := NewLedgerSheet(repo, testRange, nil).LoadAccounts(context.Background())
	require.NoError(t, err)

	require.Len(t, accounts, 3)
	assert.Equal(t, int64(1), accounts[0].ID)
	assert.Equal(t, models.AccountInactive, accounts[1].Status)
	assert.Equal(t, models.AccountActive, accounts[2].Status)
}

func TestExportPropagatesErrors(t *testing.T) {
	repo := newMemoryRepository()
	repo.clearErr = errors.New("quota exceeded")

	err := NewLedgerSheet(repo, testRange, nil).ExportSnapshot(context.Background(), models.LedgerSnapshot{})
	assert.ErrorIs(t, err, repo.clearErr)
}
