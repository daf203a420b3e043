package types

import (
	"encoding/json"
	"strings"
)

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ChatReply is the chatbot answer. ConversationID identifies the exchange for feedback.
type ChatReply struct {
	Response       string `json:"response"`
	SessionID      string `json:"session_id"`
	ConversationID int    `json:"conversation_id"`
	Timestamp      string `json:"timestamp,omitempty"`
}

type ChatExchange struct {
	ID        int    `json:"id"`
	Message   string `json:"message"`
	Response  string `json:"response"`
	Timestamp string `json:"timestamp,omitempty"`
}

type ChatHistory struct {
	SessionID     string         `json:"session_id"`
	Conversations []ChatExchange `json:"conversations"`
}

// UnmarshalJSON also accepts a bare array of exchanges.
func (h *ChatHistory) UnmarshalJSON(b []byte) error {
	if strings.HasPrefix(strings.TrimSpace(string(b)), "[") {
		var list []ChatExchange
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*h = ChatHistory{Conversations: list}
		return nil
	}
	type plain ChatHistory
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*h = ChatHistory(p)
	return nil
}

type ChatFeedback struct {
	ConversationID int    `json:"conversation_id"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment"`
}

type FeedbackAck struct {
	Message string `json:"message"`
}

// ErrorBody is the error envelope the API returns on failures. Field errors arrive
// as top-level keys (DRF style) and are collected separately by the client.
type ErrorBody struct {
	Message        string   `json:"message,omitempty"`
	Error          string   `json:"error,omitempty"`
	Detail         string   `json:"detail,omitempty"`
	NonFieldErrors []string `json:"non_field_errors,omitempty"`
}
