package mockapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"visionlink/internal/types"
)

// GET /api/plans/ answers with a DRF page.
func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	plans := s.state.listPlans(false)
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(plans),
		"next":     nil,
		"previous": nil,
		"results":  plans,
	})
}

// GET /api/plans/popular/ answers with a bare array.
func (s *Server) handlePopularPlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.listPlans(true))
}

// GET /api/plans/{slug}/
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := s.state.planBySlug(chi.URLParam(r, "slug"))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Não encontrado.")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// POST /api/plans/subscribe/
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request, user types.User, _ string) {
	var req types.SubscribeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	plan, ok := s.state.planByID(req.Plan)
	if !ok {
		writeFieldErrors(w, map[string][]string{
			"plan": {fmt.Sprintf("Pk inválido \"%d\" - objeto não existe.", req.Plan)},
		})
		return
	}
	sub := s.state.subscribe(user.ID, plan, req.Notes)
	sub.Message = "Solicitação de assinatura enviada com sucesso"
	writeJSON(w, http.StatusCreated, sub)
}
