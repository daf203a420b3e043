package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"visionlink/internal/types"
)

// SendChatMessage works logged in or not. An empty sessionID resolves to the
// persisted chat session id so consecutive calls share one conversation.
func (c *Client) SendChatMessage(ctx context.Context, message, sessionID string) (*types.ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, validationError("message is required")
	}
	if sessionID == "" {
		sessionID = c.session.ChatSessionID(ctx)
	}
	var reply types.ChatReply
	body := types.ChatRequest{Message: message, SessionID: sessionID}
	if err := c.call(ctx, http.MethodPost, "/chatbot/message/", nil, authOptional, body, &reply); err != nil {
		return nil, err
	}
	if reply.SessionID == "" {
		reply.SessionID = sessionID
	}
	return &reply, nil
}

func (c *Client) ChatHistory(ctx context.Context, sessionID string) (*types.ChatHistory, error) {
	if sessionID == "" {
		sessionID = c.session.ChatSessionID(ctx)
	}
	var h types.ChatHistory
	q := url.Values{"session_id": {sessionID}}
	if err := c.call(ctx, http.MethodGet, "/chatbot/history/", q, authOptional, nil, &h); err != nil {
		return nil, err
	}
	if h.SessionID == "" {
		h.SessionID = sessionID
	}
	return &h, nil
}

// SendChatFeedback rates one exchange identified by the conversation id from a
// ChatReply.
func (c *Client) SendChatFeedback(ctx context.Context, conversationID, rating int, comment string) (*types.FeedbackAck, error) {
	if conversationID <= 0 {
		return nil, validationError("conversation id is required")
	}
	if rating == 0 {
		return nil, validationError("rating is required")
	}
	var ack types.FeedbackAck
	body := types.ChatFeedback{ConversationID: conversationID, Rating: rating, Comment: comment}
	if err := c.call(ctx, http.MethodPost, "/chatbot/feedback/", nil, authNone, body, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}
