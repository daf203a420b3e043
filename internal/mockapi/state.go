package mockapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"visionlink/internal/types"
)

type account struct {
	user         types.User
	passwordHash []byte
}

type subscription struct {
	types.Subscription
	userID int
}

type conversation struct {
	types.ChatExchange
	sessionID string
	userID    int
	rating    int
	comment   string
}

// state is the in-memory data behind the mock API.
type state struct {
	mu sync.RWMutex

	accountsByEmail map[string]*account
	userByToken     map[string]int
	accountsByID    map[int]*account
	nextUserID      int

	plans []types.Plan

	subscriptions []subscription
	nextSubID     int

	conversations  map[int]*conversation
	bySession      map[string][]int
	nextConvID     int
	passwordHashFn func([]byte) ([]byte, error)
}

func newState(plans []types.Plan) *state {
	return &state{
		accountsByEmail: make(map[string]*account),
		userByToken:     make(map[string]int),
		accountsByID:    make(map[int]*account),
		plans:           append([]types.Plan(nil), plans...),
		conversations:   make(map[int]*conversation),
		bySession:       make(map[string][]int),
		passwordHashFn: func(pw []byte) ([]byte, error) {
			return bcrypt.GenerateFromPassword(pw, bcrypt.MinCost)
		},
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// createAccount returns false when the email is taken.
func (s *state) createAccount(req types.RegistrationRequest) (types.User, string, bool, error) {
	hash, err := s.passwordHashFn([]byte(req.Password))
	if err != nil {
		return types.User{}, "", false, err
	}
	email := normalizeEmail(req.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.accountsByEmail[email]; taken {
		return types.User{}, "", false, nil
	}
	s.nextUserID++
	acc := &account{
		user: types.User{
			ID:         s.nextUserID,
			Email:      email,
			FirstName:  strings.TrimSpace(req.FirstName),
			LastName:   strings.TrimSpace(req.LastName),
			Phone:      strings.TrimSpace(req.Phone),
			Address:    strings.TrimSpace(req.Address),
			DateJoined: time.Now().UTC().Format(time.RFC3339),
		},
		passwordHash: hash,
	}
	s.accountsByEmail[email] = acc
	s.accountsByID[acc.user.ID] = acc
	token := s.issueTokenLocked(acc.user.ID)
	return acc.user, token, true, nil
}

func (s *state) authenticate(email, password string) (types.User, string, bool) {
	s.mu.RLock()
	acc, ok := s.accountsByEmail[normalizeEmail(email)]
	s.mu.RUnlock()
	if !ok {
		return types.User{}, "", false
	}
	if bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		return types.User{}, "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return acc.user, s.issueTokenLocked(acc.user.ID), true
}

func (s *state) issueTokenLocked(userID int) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	s.userByToken[token] = userID
	return token
}

func (s *state) userForToken(token string) (types.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.userByToken[token]
	if !ok {
		return types.User{}, false
	}
	return s.accountsByID[id].user, true
}

func (s *state) revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.userByToken, token)
}

func (s *state) updateProfile(userID int, upd types.ProfileUpdate) types.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accountsByID[userID]
	if upd.FirstName != nil {
		acc.user.FirstName = strings.TrimSpace(*upd.FirstName)
	}
	if upd.LastName != nil {
		acc.user.LastName = strings.TrimSpace(*upd.LastName)
	}
	if upd.Phone != nil {
		acc.user.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Address != nil {
		acc.user.Address = strings.TrimSpace(*upd.Address)
	}
	return acc.user
}

func (s *state) listPlans(popularOnly bool) []types.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Plan, 0, len(s.plans))
	for _, p := range s.plans {
		if popularOnly && !p.IsPopular {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *state) planBySlug(slug string) (types.Plan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.plans {
		if p.Slug == slug {
			return p, true
		}
	}
	return types.Plan{}, false
}

func (s *state) planByID(id int) (types.Plan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.plans {
		if p.ID == id {
			return p, true
		}
	}
	return types.Plan{}, false
}

func (s *state) subscribe(userID int, plan types.Plan, notes string) types.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	sub := types.Subscription{
		ID:        s.nextSubID,
		Plan:      plan.ID,
		PlanName:  plan.Name,
		Status:    "pending",
		Notes:     notes,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.subscriptions = append(s.subscriptions, subscription{Subscription: sub, userID: userID})
	return sub
}

func (s *state) recordExchange(sessionID string, userID int, message, response string) types.ChatExchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextConvID++
	c := &conversation{
		ChatExchange: types.ChatExchange{
			ID:        s.nextConvID,
			Message:   message,
			Response:  response,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
		sessionID: sessionID,
		userID:    userID,
	}
	s.conversations[c.ID] = c
	s.bySession[sessionID] = append(s.bySession[sessionID], c.ID)
	return c.ChatExchange
}

func (s *state) history(sessionID string) []types.ChatExchange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.bySession[sessionID]
	out := make([]types.ChatExchange, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.conversations[id].ChatExchange)
	}
	return out
}

func (s *state) historyForUser(userID int) []types.ChatExchange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.ChatExchange
	for _, c := range s.conversations {
		if c.userID == userID {
			out = append(out, c.ChatExchange)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *state) rate(conversationID, rating int, comment string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[conversationID]
	if !ok {
		return false
	}
	c.rating = rating
	c.comment = comment
	return true
}

func (s *state) subscriptionsFor(userID int) []types.Subscription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.Subscription
	for _, sub := range s.subscriptions {
		if sub.userID == userID {
			out = append(out, sub.Subscription)
		}
	}
	return out
}
