package mockapi

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"visionlink/internal/types"
)

// POST /api/auth/register/
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req types.RegistrationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if fields := validateRegistration(req); len(fields) > 0 {
		writeFieldErrors(w, fields)
		return
	}
	user, token, created, err := s.state.createAccount(req)
	if err != nil {
		log.Error().Err(err).Msg("create account")
		writeError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}
	if !created {
		writeFieldErrors(w, map[string][]string{"email": {"Este email já está em uso."}})
		return
	}
	writeJSON(w, http.StatusCreated, types.AuthResponse{
		Token:   token,
		User:    user,
		Message: "Usuário criado com sucesso",
	})
}

func validateRegistration(req types.RegistrationRequest) map[string][]string {
	fields := map[string][]string{}
	required := func(name, v string) bool {
		if strings.TrimSpace(v) == "" {
			fields[name] = []string{"Este campo é obrigatório."}
			return false
		}
		return true
	}
	if required("email", req.Email) && !strings.Contains(req.Email, "@") {
		fields["email"] = []string{"Insira um endereço de email válido."}
	}
	if required("password", req.Password) && len(req.Password) < 8 {
		fields["password"] = []string{"A senha deve ter pelo menos 8 caracteres."}
	}
	if required("password_confirm", req.PasswordConfirm) && req.Password != req.PasswordConfirm {
		fields["password_confirm"] = []string{"As senhas não coincidem."}
	}
	required("first_name", req.FirstName)
	required("last_name", req.LastName)
	return fields
}

// POST /api/auth/login/
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds types.Credentials
	if err := decodeBody(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"non_field_errors": {"Email e senha são obrigatórios."},
		})
		return
	}
	user, token, ok := s.state.authenticate(creds.Email, creds.Password)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"non_field_errors": {"Credenciais inválidas"},
		})
		return
	}
	writeJSON(w, http.StatusOK, types.AuthResponse{Token: token, User: user, Message: "Login realizado com sucesso"})
}

// POST /api/auth/logout/
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, _ types.User, token string) {
	s.state.revoke(token)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout realizado com sucesso"})
}

// GET /api/auth/profile/
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, user types.User, _ string) {
	writeJSON(w, http.StatusOK, user)
}

// PUT /api/auth/profile/update/
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, user types.User, _ string) {
	var upd types.ProfileUpdate
	if err := decodeBody(w, r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if upd.FirstName != nil && strings.TrimSpace(*upd.FirstName) == "" {
		writeFieldErrors(w, map[string][]string{"first_name": {"Este campo não pode ser em branco."}})
		return
	}
	if upd.LastName != nil && strings.TrimSpace(*upd.LastName) == "" {
		writeFieldErrors(w, map[string][]string{"last_name": {"Este campo não pode ser em branco."}})
		return
	}
	writeJSON(w, http.StatusOK, s.state.updateProfile(user.ID, upd))
}
