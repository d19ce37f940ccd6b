package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/invest-advisor/internal/domain/models"
	"github.com/mamadbah2/invest-advisor/internal/service/ledger"
)

// AccountHandler exposes the account ledger over HTTP.
type AccountHandler struct {
	book   *ledger.Book
	logger *zap.Logger
}

// NewAccountHandler constructs the HTTP handler adapter.
func NewAccountHandler(book *ledger.Book, logger *zap.Logger) *AccountHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountHandler{book: book, logger: logger}
}

type accountView struct {
	models.Account
	DisplayBalance string `json:"display_balance"`
}

func viewOf(account models.Account) accountView {
	return accountView{Account: account, DisplayBalance: account.DisplayBalance()}
}

// List returns the accounts, filtered by the optional q query parameter.
func (h *AccountHandler) List(c *gin.Context) {
	accounts := h.book.Search(c.Query("q"))
	views := make([]accountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, viewOf(account))
	}
	c.JSON(http.StatusOK, gin.H{"accounts": views})
}

// Create registers a new account.
func (h *AccountHandler) Create(c *gin.Context) {
	var req models.NewAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid account payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	account, err := h.book.AddAccount(req)
	if err != nil {
		h.writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, viewOf(account))
}

// Deposit credits an account.
func (h *AccountHandler) Deposit(c *gin.Context) {
	h.transact(c, h.book.Deposit)
}

// Withdraw debits an account.
func (h *AccountHandler) Withdraw(c *gin.Context) {
	h.transact(c, h.book.Withdraw)
}

// ToggleStatus flips an account between active and inactive.
func (h *AccountHandler) ToggleStatus(c *gin.Context) {
	id, ok := h.accountID(c)
	if !ok {
		return
	}

	account, err := h.book.ToggleStatus(id)
	if err != nil {
		h.writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, viewOf(account))
}

func (h *AccountHandler) transact(c *gin.Context, apply func(id, amount int64) (models.Account, error)) {
	id, ok := h.accountID(c)
	if !ok {
		return
	}

	var req models.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid transaction payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	amount, err := ledger.ParseAmount(string(req.Amount))
	if err != nil {
		h.writeLedgerError(c, err)
		return
	}

	account, err := apply(id, amount)
	if err != nil {
		h.writeLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, viewOf(account))
}

func (h *AccountHandler) accountID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return 0, false
	}
	return id, true
}

func (h *AccountHandler) writeLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": "Veuillez entrer un montant valide"})
	case errors.Is(err, ledger.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "message": "Solde insuffisant pour effectuer ce retrait"})
	case errors.Is(err, ledger.ErrAddAccountRejected):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": "Veuillez remplir tous les champs"})
	case errors.Is(err, ledger.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("ledger operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ledger operation failed"})
	}
}
