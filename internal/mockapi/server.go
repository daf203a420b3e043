// Package mockapi is an in-memory stand-in for the VisionLink REST API. It backs
// the client tests and the local development server.
package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"visionlink/internal/types"
)

type Options struct {
	AllowedOrigin string
	// Plans seeds the catalog; nil uses DefaultPlans.
	Plans []types.Plan
	// Replier answers chat messages; nil uses a KeywordReplier.
	Replier Replier
}

type Server struct {
	router   *chi.Mux
	state    *state
	replier  Replier
	fallback Replier
}

func New(opts Options) *Server {
	plans := opts.Plans
	if plans == nil {
		plans = DefaultPlans()
	}
	st := newState(plans)
	listPlans := func() []types.Plan { return st.listPlans(false) }

	s := &Server{
		router:   chi.NewRouter(),
		state:    st,
		replier:  opts.Replier,
		fallback: NewKeywordReplier(listPlans),
	}
	if s.replier == nil {
		s.replier = s.fallback
	}

	origin := opts.AllowedOrigin
	if origin == "" {
		origin = "*"
	}
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestLogger)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: origin != "*",
		MaxAge:           300,
	}))
	s.routes()
	return s
}

// PlansFunc exposes the live catalog, e.g. for an OpenAIReplier.
func (s *Server) PlansFunc() func() []types.Plan {
	return func() []types.Plan { return s.state.listPlans(false) }
}

// SetReplier swaps the chatbot backend.
func (s *Server) SetReplier(r Replier) { s.replier = r }

func (s *Server) routes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/auth/register/", s.handleRegister)
		r.Post("/auth/login/", s.handleLogin)
		r.Post("/auth/logout/", s.withUser(s.handleLogout))
		r.Get("/auth/profile/", s.withUser(s.handleProfile))
		r.Put("/auth/profile/update/", s.withUser(s.handleUpdateProfile))

		r.Get("/plans/", s.handlePlans)
		r.Get("/plans/popular/", s.handlePopularPlans)
		r.Post("/plans/subscribe/", s.withUser(s.handleSubscribe))
		r.Get("/plans/{slug}/", s.handlePlan)

		r.Post("/chatbot/message/", s.handleChatMessage)
		r.Get("/chatbot/history/", s.handleChatHistory)
		r.Post("/chatbot/feedback/", s.handleChatFeedback)
	})
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, types.ErrorBody{Error: msg})
}

func writeDetail(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, types.ErrorBody{Detail: detail})
}

// writeFieldErrors answers 400 with DRF-shaped {"field": ["msg"]}.
func writeFieldErrors(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusBadRequest, fields)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	return dec.Decode(v)
}

type userHandler func(w http.ResponseWriter, r *http.Request, user types.User, token string)

// withUser enforces token authentication the way DRF's TokenAuthentication does:
// missing or unknown tokens get a 401 with a detail message.
func (s *Server) withUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			writeDetail(w, http.StatusUnauthorized, "As credenciais de autenticação não foram fornecidas.")
			return
		}
		user, ok := s.state.userForToken(token)
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Token inválido.")
			return
		}
		next(w, r, user, token)
	}
}

// tokenFromRequest accepts "Token <t>" and "Bearer <t>".
func tokenFromRequest(r *http.Request) string {
	scheme, value, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok {
		return ""
	}
	switch strings.ToLower(scheme) {
	case "token", "bearer":
		return strings.TrimSpace(value)
	}
	return ""
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("mock api")
	})
}
