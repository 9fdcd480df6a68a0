// Package identity is the gate between the dashboard and whoever proves who
// the user is. The core only depends on the Gate interface; Manager is a
// local email/password provider good enough for a self-hosted deployment.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"endurowallet/internal/core"
	"endurowallet/internal/store"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

// Gate exposes the current identity and change notifications. The dashboard
// controller consumes this interface only.
type Gate interface {
	// CurrentUserID returns the signed-in user's opaque id, or ok=false.
	CurrentUserID() (userID string, ok bool)

	// Ready reports whether the gate has resolved the initial identity.
	Ready() bool

	// Subscribe registers a callback invoked whenever identity becomes
	// available or absent. The returned function unsubscribes.
	Subscribe(fn func(userID string, ok bool)) (unsubscribe func())
}

type account struct {
	id           string
	email        string
	passwordHash []byte
}

// Manager is a local identity provider with a single active session,
// mirroring the one-user-at-a-time model of the dashboard client.
type Manager struct {
	mu      sync.Mutex
	users   map[string]*account // keyed by normalized email
	current string              // signed-in user id, "" when absent
	subs    map[int]func(string, bool)
	nextSub int

	profiles store.Store // optional; profile document written on sign-up
}

var _ Gate = (*Manager)(nil)

// NewManager creates an empty identity manager. st may be nil; when present,
// sign-up writes a profile document into the new user's partition.
func NewManager(st store.Store) *Manager {
	return &Manager{
		users:    make(map[string]*account),
		subs:     make(map[int]func(string, bool)),
		profiles: st,
	}
}

// CurrentUserID implements Gate.
func (m *Manager) CurrentUserID() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.current != ""
}

// Ready implements Gate. The local provider has no startup handshake.
func (m *Manager) Ready() bool {
	return true
}

// Subscribe implements Gate.
func (m *Manager) Subscribe(fn func(string, bool)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify(userID string, ok bool) {
	m.mu.Lock()
	fns := make([]func(string, bool), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(userID, ok)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a new user, writes their profile document, and signs them
// in. Returns the new user id.
func (m *Manager) SignUp(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", ErrInvalidCredentials
	}
	if len(password) < 6 {
		return "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	if _, exists := m.users[email]; exists {
		m.mu.Unlock()
		return "", ErrEmailTaken
	}
	id := uuid.NewString()
	m.users[email] = &account{id: id, email: email, passwordHash: hash}
	m.current = id
	m.mu.Unlock()

	if m.profiles != nil {
		profile, _ := json.Marshal(map[string]any{
			"id":        id,
			"email":     email,
			"createdAt": time.Now().UTC().Format(time.RFC3339),
		})
		if _, err := m.profiles.Append(ctx, id, core.KindProfile, profile); err != nil {
			// The account stands even if the profile write fails.
			slog.WarnContext(ctx, "Profile document write failed", "user_id", id, "error", err)
		}
	}

	m.notify(id, true)
	return id, nil
}

// SignIn authenticates and makes the user the active identity.
func (m *Manager) SignIn(_ context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	m.mu.Lock()
	acct, exists := m.users[email]
	m.mu.Unlock()
	if !exists {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	m.mu.Lock()
	m.current = acct.id
	m.mu.Unlock()

	m.notify(acct.id, true)
	return acct.id, nil
}

// SignOut clears the active identity.
func (m *Manager) SignOut(_ context.Context) {
	m.mu.Lock()
	wasSignedIn := m.current != ""
	m.current = ""
	m.mu.Unlock()
	if wasSignedIn {
		m.notify("", false)
	}
}
