package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pantrylabs/trolley/internal/account"
	"github.com/pantrylabs/trolley/internal/database"
	"github.com/pantrylabs/trolley/internal/model"
	"github.com/pantrylabs/trolley/internal/store"
	"github.com/pantrylabs/trolley/internal/userapi"
)

func setupAuthHandler(t *testing.T, users []model.User) (*AuthHandler, *store.SessionStore) {
	t.Helper()

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(users)
	}))
	t.Cleanup(remote.Close)

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sessions := store.NewSessionStore(db)
	accounts := account.NewManager(userapi.NewClient(remote.URL), account.Config{LoginTimeout: 2 * time.Second}, testLogger())
	return NewAuthHandler(accounts, sessions, testLogger()), sessions
}

func TestLoginSetsSessionCookie(t *testing.T) {
	h, sessions := setupAuthHandler(t, []model.User{
		{ID: "u1", Email: "a@x.com", Password: "secret1", Name: "Alice"},
	})

	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"a@x.com","password":"secret1"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}

	sess, err := sessions.GetByToken(cookie.Value)
	if err != nil || sess == nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if sess.UserID != "u1" {
		t.Errorf("session user = %q, want u1", sess.UserID)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	h, _ := setupAuthHandler(t, []model.User{
		{ID: "u1", Email: "a@x.com", Password: "secret1"},
	})

	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"a@x.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rec.Body.String(), account.MsgInvalidCredentials) {
		t.Errorf("body = %q, want %q", rec.Body.String(), account.MsgInvalidCredentials)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	h, _ := setupAuthHandler(t, []model.User{
		{ID: "u1", Email: "a@x.com", Password: "secret1"},
	})

	body := `{"name":"B","email":"a@x.com","cell":"555","password":"secret1","confirm_password":"secret1"}`
	req := httptest.NewRequest("POST", "/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestRegisterValidationFailureIsBadRequest(t *testing.T) {
	h, _ := setupAuthHandler(t, nil)

	body := `{"name":"B","email":"b@x.com","cell":"555","password":"abc","confirm_password":"abc"}`
	req := httptest.NewRequest("POST", "/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), account.MsgPasswordTooShort) {
		t.Errorf("body = %q, want %q", rec.Body.String(), account.MsgPasswordTooShort)
	}
}

func TestLogoutDeletesSessionAndClearsCookie(t *testing.T) {
	h, sessions := setupAuthHandler(t, nil)

	sess, err := sessions.Create("u1")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	req := httptest.NewRequest("POST", "/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	if got, _ := sessions.GetByToken(sess.Token); got != nil {
		t.Error("session must be deleted on logout")
	}

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected expired session cookie in response")
	}
}
