package server

import (
	"errors"
	"net/http"

	"github.com/wolfeidau/interviewnotes/internal/login"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req login.Request
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}

	resp, err := s.login.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, login.ErrInvalidRequest):
			writeErr(w, http.StatusBadRequest, "", err.Error())
		case errors.Is(err, login.ErrBadCredentials):
			writeErr(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid username or password")
		default:
			writeInternal(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req login.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}

	resp, err := s.login.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, login.ErrInvalidRequest):
			writeErr(w, http.StatusBadRequest, "", err.Error())
		case errors.Is(err, login.ErrUsernameTaken), errors.Is(err, login.ErrEmailInUse):
			writeErr(w, http.StatusConflict, "", err.Error())
		default:
			writeInternal(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.login.CurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, login.ErrUnauthenticated) {
			writeErr(w, http.StatusUnauthorized, "", "authentication required")
			return
		}
		writeInternal(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
