package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/Glivan2903/minhagrana/internal/core"
	"github.com/Glivan2903/minhagrana/internal/services"
)

type contextKey string

const accountContextKey contextKey = "account"

// requireAccount resolves the bearer token to an account and re-runs the
// access gate. Blocked and unauthenticated requests never reach the handler.
func (s *Server) requireAccount(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondJSON(w, http.StatusUnauthorized, errorBody{Error: "missing bearer token", Code: "unauthorized"})
			return
		}
		acct, err := s.svc.AccountForToken(r.Context(), token)
		if err != nil {
			respondError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), accountContextKey, acct)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next(w, r.WithContext(ctx))
	}
}

const tokenContextKey contextKey = "token"

func accountFrom(r *http.Request) core.Account {
	acct, _ := r.Context().Value(accountContextKey).(core.Account)
	return acct
}

func tokenFrom(r *http.Request) string {
	token, _ := r.Context().Value(tokenContextKey).(string)
	return token
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}

type signupRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Password      string `json:"password"`
	AcceptedTerms bool   `json:"accepted_terms"`
}

type sessionResponse struct {
	AccessToken  string       `json:"access_token,omitempty"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	Account      accountView  `json:"account"`
	AccessState  string       `json:"access_state"`
}

type accountView struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Phone  string     `json:"phone,omitempty"`
	Status string     `json:"status"`
	Expiry *core.Date `json:"expires_at,omitempty"`
}

func (s *Server) accountResponse(acct core.Account, token, refresh string) sessionResponse {
	view := accountView{
		ID:     acct.ID,
		Name:   acct.Name,
		Email:  acct.Email,
		Phone:  acct.Phone,
		Status: string(acct.Status),
	}
	if !acct.ExpiresAt.IsEmpty() {
		expiry := acct.ExpiresAt
		view.Expiry = &expiry
	}
	return sessionResponse{
		AccessToken:  token,
		RefreshToken: refresh,
		Account:      view,
		AccessState:  string(s.svc.AccessState(acct)),
	}
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	acct, session, err := s.svc.SignUp(r.Context(), services.SignupInput{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Password:      req.Password,
		AcceptedTerms: req.AcceptedTerms,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.accountResponse(acct, session.AccessToken, session.RefreshToken))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	acct, session, err := s.svc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, s.accountResponse(acct, session.AccessToken, session.RefreshToken))
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.SignOut(r.Context(), tokenFrom(r)); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r)
	respondJSON(w, http.StatusOK, s.accountResponse(acct, "", ""))
}
