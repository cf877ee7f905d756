package api

import (
	"encoding/json"
	"net/http"

	"github.com/ghaggin/taskboard/internal/auth"
	"github.com/ghaggin/taskboard/internal/middleware"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type meResponse struct {
	User any `json:"user"`
}

func decodeCredentials(r *http.Request) (credentialsRequest, error) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, invalid("Username and password are required")
	}
	if req.Username == "" || req.Password == "" {
		return req, invalid("Username and password are required")
	}
	if len(req.Password) > auth.MaxPasswordBytes {
		return req, invalid("Password is too long")
	}
	return req, nil
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	s, err := h.issuer.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	middleware.SetSessionCookie(w, s)
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCredentials(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	s, err := h.issuer.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	middleware.SetSessionCookie(w, s)
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// logout only clears the cookie; a copy of the token keeps working until
// it expires.
func (h *handler) logout(w http.ResponseWriter, _ *http.Request) {
	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, r, h.log, middleware.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{User: id.Public()})
}
