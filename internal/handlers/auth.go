package handlers

import (
	"net/http"

	"github.com/mhruby/catchboard/internal/auth"
)

// handleLogin validates the password and starts a session. The same
// endpoint serves judges and admins; the password decides the role.
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, role, ok := h.Auth.Login(req.Password)
	if !ok {
		respondError(w, Unauthorized("Invalid password"))
		return
	}

	auth.SetSessionCookie(w, token)
	respondOK(w, loginResponse{Role: string(role)})
}

// handleLogout ends the session
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}
	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}

// handleSession reports the current session's role, for page loads
// that need to know whether they are a judge or an admin.
func (h *Handlers) handleSession(w http.ResponseWriter, r *http.Request) {
	role, ok := h.Auth.RoleFromRequest(r)
	if !ok {
		respondError(w, Unauthorized("Not logged in"))
		return
	}
	respondOK(w, loginResponse{Role: string(role)})
}
