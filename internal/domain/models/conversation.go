package models

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one entry of an append-only advisory conversation.
type ConversationTurn struct {
	Role      Role      `json:"role" bson:"role"`
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// ArchivedTurn is the persisted form of a turn, tagged with its session.
type ArchivedTurn struct {
	SessionID string `bson:"session_id" json:"session_id"`
	ConversationTurn `bson:",inline"`
}

// AdvisoryRequest is the inbound payload for an advisory question. A nil
// Snapshot means the caller relies on the default company dataset.
type AdvisoryRequest struct {
	Message  string           `json:"message" binding:"required"`
	Snapshot *CompanySnapshot `json:"snapshot,omitempty"`
}
