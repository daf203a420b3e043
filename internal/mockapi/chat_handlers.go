package mockapi

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"visionlink/internal/types"
)

// POST /api/chatbot/message/
func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		writeFieldErrors(w, map[string][]string{"message": {"Este campo é obrigatório."}})
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeFieldErrors(w, map[string][]string{"session_id": {"Este campo é obrigatório."}})
		return
	}

	// Chat is anonymous; a valid token only links the exchange to the user.
	userID := 0
	if token := tokenFromRequest(r); token != "" {
		if u, ok := s.state.userForToken(token); ok {
			userID = u.ID
		}
	}

	history := s.state.history(req.SessionID)
	reply, err := s.replier.Reply(r.Context(), history, msg)
	if err != nil {
		log.Warn().Err(err).Msg("chatbot replier failed, using keyword reply")
		reply, _ = s.fallback.Reply(r.Context(), history, msg)
	}

	ex := s.state.recordExchange(req.SessionID, userID, msg, reply)
	writeJSON(w, http.StatusOK, types.ChatReply{
		Response:       reply,
		SessionID:      req.SessionID,
		ConversationID: ex.ID,
		Timestamp:      ex.Timestamp,
	})
}

// GET /api/chatbot/history/?session_id=...
// Without a session id, a logged-in user gets every exchange linked to them.
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	sid := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sid != "" {
		writeJSON(w, http.StatusOK, types.ChatHistory{SessionID: sid, Conversations: s.state.history(sid)})
		return
	}
	if u, ok := s.state.userForToken(tokenFromRequest(r)); ok {
		conv := s.state.historyForUser(u.ID)
		if conv == nil {
			conv = []types.ChatExchange{}
		}
		writeJSON(w, http.StatusOK, types.ChatHistory{Conversations: conv})
		return
	}
	writeError(w, http.StatusBadRequest, "session_id é obrigatório")
}

// POST /api/chatbot/feedback/
func (s *Server) handleChatFeedback(w http.ResponseWriter, r *http.Request) {
	var req types.ChatFeedback
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeFieldErrors(w, map[string][]string{"rating": {"A avaliação deve estar entre 1 e 5."}})
		return
	}
	if !s.state.rate(req.ConversationID, req.Rating, req.Comment) {
		writeDetail(w, http.StatusNotFound, "Conversa não encontrada.")
		return
	}
	writeJSON(w, http.StatusOK, types.FeedbackAck{Message: "Obrigado pelo feedback!"})
}
