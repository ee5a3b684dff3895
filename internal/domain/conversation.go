package domain

import (
	"bytes"
	"encoding/json"
)

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleAI is the assistant label sent by the bundled web client.
	RoleAI Role = "ai"
)

// IsUser reports whether the role belongs to the human side of the chat.
func (r Role) IsUser() bool {
	return r == RoleUser
}

// IsAssistant reports whether the role belongs to the bot side of the chat.
func (r Role) IsAssistant() bool {
	return r == RoleAssistant || r == RoleAI
}

// ConversationTurn is one message of the caller-supplied history.
// It is never persisted server-side.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
// History is kept raw so a malformed history degrades to an empty one
// instead of failing the whole request.
type ChatRequest struct {
	Message string          `json:"message"`
	History json.RawMessage `json:"history"`
}

type rawTurn struct {
	Role    Role            `json:"role"`
	Content json.RawMessage `json:"content"`
}

// Turns decodes the request history.
// Parameters: none.
// Returns:
//   - []ConversationTurn: decoded turns, empty when absent or malformed.
//   - bool: false when a history was supplied but is not an array of turns.
func (r *ChatRequest) Turns() ([]ConversationTurn, bool) {
	raw := bytes.TrimSpace(r.History)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, true
	}

	var items []rawTurn
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}

	turns := make([]ConversationTurn, 0, len(items))
	for _, item := range items {
		turns = append(turns, ConversationTurn{
			Role:    item.Role,
			Content: contentText(item.Content),
		})
	}
	return turns, true
}

// contentText returns string content as-is and any other JSON value in its encoded form.
func contentText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return `""`
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
