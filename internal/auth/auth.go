package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	CookieName    = "catchboard_session"
	SessionExpiry = 24 * time.Hour
)

// Role distinguishes what a logged-in session may do.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleJudge Role = "judge"
)

// Fishing-themed words for password generation
var fishingWords = []string{
	"carp", "pike", "perch", "bream", "tench",
	"roach", "catfish", "feeder", "float", "reel",
	"hook", "sinker", "bait", "landing", "net",
	"sector", "keepnet", "rod", "line",
}

type session struct {
	role   Role
	expiry time.Time
}

// Auth handles admin and judge authentication
type Auth struct {
	adminPassword string
	judgePassword string
	sessions      map[string]session
	mu            sync.RWMutex
}

// New creates a new Auth instance with the given role passwords
func New(adminPassword, judgePassword string) *Auth {
	return &Auth{
		adminPassword: adminPassword,
		judgePassword: judgePassword,
		sessions:      make(map[string]session),
	}
}

// GeneratePassword creates a random 3-word password
func GeneratePassword() string {
	words := make([]string, 3)
	for i := range words {
		idx := randomInt(len(fishingWords))
		words[i] = fishingWords[idx]
	}
	return strings.Join(words, "-")
}

// Login validates the password against both roles and returns a
// session token plus the granted role. Admin and judge passwords are
// distinct; matching neither fails the login.
func (a *Auth) Login(password string) (string, Role, bool) {
	var role Role
	switch password {
	case a.adminPassword:
		role = RoleAdmin
	case a.judgePassword:
		role = RoleJudge
	default:
		return "", "", false
	}

	token := generateToken()
	a.mu.Lock()
	a.sessions[token] = session{role: role, expiry: time.Now().Add(SessionExpiry)}
	a.mu.Unlock()

	return token, role, true
}

// Logout invalidates a session token
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

// ValidateSession checks a session token and returns its role.
func (a *Auth) ValidateSession(token string) (Role, bool) {
	a.mu.RLock()
	s, exists := a.sessions[token]
	a.mu.RUnlock()

	if !exists {
		return "", false
	}

	if time.Now().After(s.expiry) {
		a.mu.Lock()
		delete(a.sessions, token)
		a.mu.Unlock()
		return "", false
	}

	return s.role, true
}

// RoleFromRequest extracts and validates the session from a request
func (a *Auth) RoleFromRequest(r *http.Request) (Role, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	return a.ValidateSession(cookie.Value)
}

// RequireAdminAPI middleware for admin API endpoints (returns 401/403)
func (a *Auth) RequireAdminAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := a.RoleFromRequest(r)
		if !ok {
			unauthorized(w)
			return
		}
		if role != RoleAdmin {
			forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireJudgeAPI middleware for score-entry API endpoints. Admins may
// do everything a judge can.
func (a *Auth) RequireJudgeAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := a.RoleFromRequest(r)
		if !ok {
			unauthorized(w)
			return
		}
		if role != RoleJudge && role != RoleAdmin {
			forbidden(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"code":"UNAUTHORIZED","error":"Unauthorized - please log in"}`))
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`{"code":"FORBIDDEN","error":"Insufficient permissions"}`))
}

// SetSessionCookie sets the session cookie on the response
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionExpiry.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// generateToken creates a random session token
func generateToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// randomInt returns a random int in [0, max)
func randomInt(max int) int {
	bytes := make([]byte, 1)
	rand.Read(bytes)
	return int(bytes[0]) % max
}
