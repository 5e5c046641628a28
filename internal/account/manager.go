package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pantrylabs/trolley/internal/model"
	"github.com/pantrylabs/trolley/internal/userapi"
)

// Status tracks the most recent remote profile operation.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// DefaultLoginTimeout bounds the login scan. The login flow is the only
// remote call that carries a timeout; it fails closed with a generic message.
const DefaultLoginTimeout = 3 * time.Minute

// User-facing messages, kept word-for-word with the UI this serves.
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgLoginTimeout       = "Login timed out. Please try again."
	MsgLoginFailed        = "Login failed. Please try again."
	MsgEmailTaken         = "Email already registered"
	MsgPasswordMismatch   = "Passwords do not match"
	MsgPasswordTooShort   = "Password must be at least 6 characters"
	MsgFieldsRequired     = "All fields are required"
	MsgRegisterFailed     = "Registration failed. Please try again."
	MsgFetchFailed        = "Failed to fetch profile"
	MsgUpdateFailed       = "Failed to update profile"
)

// Profile is the signed-in user's account state plus the status of the most
// recent remote operation against it.
type Profile struct {
	model.User
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Cell            string `json:"cell"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Config holds account manager configuration.
type Config struct {
	LoginTimeout time.Duration
}

// Manager owns the signed-in profile state and drives every remote account
// operation. Each fetch/update carries a generation number; a completion
// whose generation has been superseded is discarded instead of overwriting
// newer state.
type Manager struct {
	mu      sync.Mutex
	users   *userapi.Client
	cfg     Config
	profile Profile
	gen     uint64
	logger  *slog.Logger
}

// NewManager creates a Manager with an idle profile.
func NewManager(users *userapi.Client, cfg Config, logger *slog.Logger) *Manager {
	if cfg.LoginTimeout == 0 {
		cfg.LoginTimeout = DefaultLoginTimeout
	}
	return &Manager{
		users:   users,
		cfg:     cfg,
		profile: Profile{Status: StatusIdle},
		logger:  logger,
	}
}

// Profile returns a snapshot of the current profile state.
func (m *Manager) Profile() Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

// Login scans the full remote users collection for an exact email+password
// match; the first match wins and emails are not case-normalized. The scan is
// bounded by the configured timeout and fails closed. The returned message is
// empty on success.
func (m *Manager) Login(ctx context.Context, email, password string) (*model.User, string) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.LoginTimeout)
	defer cancel()

	users, err := m.users.List(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, MsgLoginTimeout
		}
		m.logger.Error("login scan", "error", err)
		return nil, MsgLoginFailed
	}

	for _, u := range users {
		if u.Email == email && u.Password == password {
			user := u
			m.mu.Lock()
			m.gen++
			m.profile = Profile{User: user, Status: StatusSucceeded}
			m.mu.Unlock()
			return &user, ""
		}
	}
	return nil, MsgInvalidCredentials
}

// Logout drops the signed-in profile state.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.profile = Profile{Status: StatusIdle}
}

// Register validates the form fields, checks email uniqueness against the
// remote resource, and creates the user record. The uniqueness check and the
// create are two requests with a race window between them; the remote mock is
// single-user, so the window is accepted. No create request is issued when
// the email is already taken. The returned message is empty on success.
func (m *Manager) Register(ctx context.Context, input RegisterInput) (*model.User, string) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.Cell) == "" ||
		input.Password == "" {
		return nil, MsgFieldsRequired
	}
	if len(input.Password) < 6 {
		return nil, MsgPasswordTooShort
	}
	if input.Password != input.ConfirmPassword {
		return nil, MsgPasswordMismatch
	}

	existing, err := m.users.FindByEmail(ctx, input.Email)
	if err != nil {
		m.logger.Error("register uniqueness check", "error", err)
		return nil, MsgRegisterFailed
	}
	if len(existing) > 0 {
		return nil, MsgEmailTaken
	}

	created, err := m.users.Create(ctx, model.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Cell:     input.Cell,
		JoinDate: time.Now().UTC().Format("2006-01-02"),
	})
	if err != nil {
		m.logger.Error("register create", "error", err)
		return nil, MsgRegisterFailed
	}
	return created, ""
}

// FetchProfile loads the profile from the remote resource. On success the
// local fields are overwritten with the server response; on failure the prior
// field values are left untouched and only status/error change.
func (m *Manager) FetchProfile(ctx context.Context, userID string) Profile {
	gen := m.begin()

	user, err := m.users.Get(ctx, userID)
	if err != nil || user == nil {
		if err != nil {
			m.logger.Error("fetch profile", "user_id", userID, "error", err)
		}
		return m.fail(gen, MsgFetchFailed)
	}
	return m.succeed(gen, *user)
}

// UpdateProfile sends a partial update to the remote resource and overwrites
// local state from the server's return value. On failure the submitted edits
// are not rolled back anywhere; the caller's edit buffer and committed state
// simply diverge until the next successful fetch.
func (m *Manager) UpdateProfile(ctx context.Context, userID string, patch model.UserPatch) Profile {
	gen := m.begin()

	user, err := m.users.Update(ctx, userID, patch)
	if err != nil {
		m.logger.Error("update profile", "user_id", userID, "error", err)
		return m.fail(gen, MsgUpdateFailed)
	}
	return m.succeed(gen, *user)
}

// begin starts a remote operation: bumps the generation and marks loading.
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.profile.Status = StatusLoading
	m.profile.Error = ""
	return m.gen
}

// succeed commits the server response unless a newer operation has started.
func (m *Manager) succeed(gen uint64, user model.User) Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return m.profile
	}
	m.profile = Profile{User: user, Status: StatusSucceeded}
	return m.profile
}

// fail records the error unless a newer operation has started.
func (m *Manager) fail(gen uint64, msg string) Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return m.profile
	}
	m.profile.Status = StatusFailed
	m.profile.Error = msg
	return m.profile
}
