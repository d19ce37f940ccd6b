package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/invest-advisor/internal/domain/models"
	"github.com/mamadbah2/invest-advisor/internal/service/advisory"
)

var (
	// ErrEmptyMessage indicates a blank question.
	ErrEmptyMessage = errors.New("message must not be empty")
	// ErrSessionNotFound indicates an unknown session id.
	ErrSessionNotFound = errors.New("session not found")
)

// Archive persists conversation turns outside of memory.
type Archive interface {
	SaveTurn(ctx context.Context, sessionID string, turn models.ConversationTurn) error
}

// Service runs question/answer cycles over advisory sessions.
type Service struct {
	sessions *SessionManager
	analyzer advisory.Analyzer
	archive  Archive
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a conversation service. archive may be nil.
func NewService(sessions *SessionManager, analyzer advisory.Analyzer, archive Archive, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sessions: sessions,
		analyzer: analyzer,
		archive:  archive,
		logger:   logger,
		now:      time.Now,
	}
}

// StartSession opens a new session.
func (s *Service) StartSession() string {
	id := s.sessions.Create()
	s.logger.Debug("session started", zap.String("session_id", id))
	return id
}

// History returns the turns of a session.
func (s *Service) History(sessionID string) ([]models.ConversationTurn, error) {
	turns, ok := s.sessions.History(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return turns, nil
}

// Ask records the user question, obtains an answer and records it. Exchanges
// on the same session run one at a time.
func (s *Service) Ask(ctx context.Context, sessionID, message string, snapshot models.CompanySnapshot) (models.ConversationTurn, error) {
	if strings.TrimSpace(message) == "" {
		return models.ConversationTurn{}, ErrEmptyMessage
	}
	release, ok := s.sessions.Acquire(sessionID)
	if !ok {
		return models.ConversationTurn{}, ErrSessionNotFound
	}
	defer release()

	question := models.ConversationTurn{Role: models.RoleUser, Content: message, Timestamp: s.now().UTC()}
	s.record(ctx, sessionID, question)

	answer := models.ConversationTurn{
		Role:    models.RoleAssistant,
		Content: s.analyzer.Analyze(ctx, message, snapshot),
	}
	answer.Timestamp = s.now().UTC()
	s.record(ctx, sessionID, answer)

	return answer, nil
}

func (s *Service) record(ctx context.Context, sessionID string, turn models.ConversationTurn) {
	s.sessions.Append(sessionID, turn)

	if s.archive == nil {
		return
	}
	if err := s.archive.SaveTurn(ctx, sessionID, turn); err != nil {
		s.logger.Error("failed to archive conversation turn",
			zap.String("session_id", sessionID),
			zap.String("role", string(turn.Role)),
			zap.Error(err))
	}
}
