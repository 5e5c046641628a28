package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pantrylabs/trolley/internal/account"
	"github.com/pantrylabs/trolley/internal/config"
	"github.com/pantrylabs/trolley/internal/handler"
	"github.com/pantrylabs/trolley/internal/list"
	"github.com/pantrylabs/trolley/internal/middleware"
	"github.com/pantrylabs/trolley/internal/store"
	"github.com/pantrylabs/trolley/internal/userapi"
	ws "github.com/pantrylabs/trolley/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	items        *list.Store
	itemH        *handler.ItemHandler
	authH        *handler.AuthHandler
	profileH     *handler.ProfileHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, users *userapi.Client, cfg config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	stateStore := store.NewStateStore(db)
	sessionStore := store.NewSessionStore(db)

	var persister list.Persister
	if cfg.PersistList {
		persister = store.NewListState(stateStore)
	}
	items := list.NewStore(persister, logger.With("component", "list"))

	accounts := account.NewManager(users, account.Config{}, logger.With("component", "account"))

	return &Server{
		db:           db,
		hub:          hub,
		items:        items,
		itemH:        handler.NewItemHandler(items, hub, logger.With("component", "item")),
		authH:        handler.NewAuthHandler(accounts, sessionStore, logger.With("component", "auth")),
		profileH:     handler.NewProfileHandler(accounts, hub, logger.With("component", "profile")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Item API routes
	mux.HandleFunc("GET /api/items", s.itemH.ListItems)
	mux.HandleFunc("POST /api/items", s.itemH.CreateItem)
	mux.HandleFunc("GET /api/items/{id}", s.itemH.GetItem)
	mux.HandleFunc("PATCH /api/items/{id}", s.itemH.UpdateItem)
	mux.HandleFunc("DELETE /api/items/{id}", s.itemH.DeleteItem)
	mux.HandleFunc("POST /api/items/clear", s.itemH.ClearItems)

	// Profile API routes
	mux.HandleFunc("GET /api/profile", s.profileH.GetProfile)
	mux.HandleFunc("PATCH /api/profile", s.profileH.UpdateProfile)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
