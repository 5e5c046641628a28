package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pantrylabs/trolley/internal/account"
	"github.com/pantrylabs/trolley/internal/store"
)

const sessionCookieName = "trolley_session"

type AuthHandler struct {
	accounts *account.Manager
	sessions *store.SessionStore
	logger   *slog.Logger
}

func NewAuthHandler(accounts *account.Manager, sessions *store.SessionStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login checks the credentials against the remote users resource and, on a
// match, opens a local session delivered as an HttpOnly cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, errMsg := h.accounts.Login(r.Context(), req.Email, req.Password)
	if errMsg != "" {
		writeError(w, loginStatus(errMsg), errMsg)
		return
	}

	sess, err := h.sessions.Create(user.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.setSessionCookie(w, r, sess.Token)
	writeJSON(w, http.StatusOK, user)
}

func loginStatus(msg string) int {
	switch msg {
	case account.MsgInvalidCredentials:
		return http.StatusUnauthorized
	case account.MsgLoginTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// Register creates a user record on the remote resource. It does not open a
// session; the client signs in afterwards.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input account.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, errMsg := h.accounts.Register(r.Context(), input)
	if errMsg != "" {
		writeError(w, registerStatus(errMsg), errMsg)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func registerStatus(msg string) int {
	switch msg {
	case account.MsgEmailTaken:
		return http.StatusConflict
	case account.MsgRegisterFailed:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if sess, err := h.sessions.GetByToken(cookie.Value); err == nil && sess != nil {
			h.sessions.Delete(sess.ID)
		}
	}
	h.accounts.Logout()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   90 * 24 * 60 * 60, // 90 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}
