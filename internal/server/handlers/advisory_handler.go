package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/invest-advisor/internal/domain/models"
	"github.com/mamadbah2/invest-advisor/internal/service/advisory"
	"github.com/mamadbah2/invest-advisor/internal/service/conversation"
)

// AdvisoryHandler exposes the advisory dispatcher and conversation sessions over HTTP.
type AdvisoryHandler struct {
	analyzer      advisory.Analyzer
	conversations *conversation.Service
	snapshot      models.CompanySnapshot
	logger        *zap.Logger
}

// NewAdvisoryHandler constructs the HTTP handler adapter. snapshot is used
// whenever a request does not carry its own.
func NewAdvisoryHandler(analyzer advisory.Analyzer, conversations *conversation.Service, snapshot models.CompanySnapshot, logger *zap.Logger) *AdvisoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvisoryHandler{
		analyzer:      analyzer,
		conversations: conversations,
		snapshot:      snapshot,
		logger:        logger,
	}
}

// Snapshot returns the default company dataset.
func (h *AdvisoryHandler) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.snapshot)
}

// Analyze answers a single question without recording a conversation.
func (h *AdvisoryHandler) Analyze(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	answer := h.analyzer.Analyze(c.Request.Context(), req.Message, h.snapshotFor(req))
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// StartSession opens a new conversation.
func (h *AdvisoryHandler) StartSession(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"session_id": h.conversations.StartSession()})
}

// PostMessage asks a question inside a conversation and returns the assistant turn.
func (h *AdvisoryHandler) PostMessage(c *gin.Context) {
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}

	turn, err := h.conversations.Ask(c.Request.Context(), c.Param("id"), req.Message, h.snapshotFor(req))
	if err != nil {
		h.writeConversationError(c, err)
		return
	}

	c.JSON(http.StatusOK, turn)
}

// History lists the turns of a conversation.
func (h *AdvisoryHandler) History(c *gin.Context) {
	turns, err := h.conversations.History(c.Param("id"))
	if err != nil {
		h.writeConversationError(c, err)
		return
	}
	if turns == nil {
		turns = []models.ConversationTurn{}
	}

	c.JSON(http.StatusOK, gin.H{"turns": turns})
}

func (h *AdvisoryHandler) bindRequest(c *gin.Context) (models.AdvisoryRequest, bool) {
	var req models.AdvisoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid advisory payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return req, false
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": conversation.ErrEmptyMessage.Error()})
		return req, false
	}
	return req, true
}

func (h *AdvisoryHandler) snapshotFor(req models.AdvisoryRequest) models.CompanySnapshot {
	if req.Snapshot != nil {
		return *req.Snapshot
	}
	return h.snapshot
}

func (h *AdvisoryHandler) writeConversationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, conversation.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, conversation.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("conversation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "conversation failed"})
	}
}
