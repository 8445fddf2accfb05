// Package auth is the offline authentication surface: sessions and user
// profiles persisted in store slots, with observers notified through the
// store's registry. The store only ever treats the session as an opaque
// value with a stable unique identifier.
//
// There is no credential database in the offline engine; passwords are
// accepted but not verified, matching the behavior of the cloud-backed
// variant's local shim.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/doneflow/doneflow/pkg/core"
)

const (
	sessionSlot   = "auth_user"
	profilePrefix = "user_profile_"
)

// ErrInvalidCredentials is returned when a login attempt is malformed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Session is the opaque authenticated-identity object. Field names follow
// the cloud provider's user shape so stored sessions stay interchangeable.
type Session struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// profileView is the subset of a stored user profile the session layer
// cares about. Full profiles belong to the agency domain.
type profileView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// Manager handles login, signup, logout and session observation on top of
// a Store.
type Manager struct {
	store  *core.Store
	logger *slog.Logger
}

// NewManager creates a session manager bound to store.
func NewManager(store *core.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{store: store, logger: logger}
}

// Login creates a session for email. An existing profile (looked up by
// email) supplies the uid, display name and avatar; otherwise a fresh uid
// is minted.
func (m *Manager) Login(email, password string) (Session, error) {
	if !strings.Contains(email, "@") {
		return Session{}, ErrInvalidCredentials
	}

	var profile profileView
	m.store.GetRaw(m.profileSlot(email), &profile)

	session := Session{
		UID:         profile.ID,
		Email:       email,
		DisplayName: profile.Name,
		PhotoURL:    profile.Avatar,
	}
	if session.UID == "" {
		session.UID = "user_" + uuid.NewString()
	}
	if session.DisplayName == "" {
		session.DisplayName = email[:strings.Index(email, "@")]
	}
	if session.PhotoURL == "" {
		session.PhotoURL = avatarURL(email)
	}

	if err := m.store.SetRaw(m.store.Slot(sessionSlot), session); err != nil {
		return Session{}, fmt.Errorf("failed to persist session: %w", err)
	}
	m.logger.Info("session created", "uid", session.UID)
	return session, nil
}

// Signup creates a session and initializes the user's profile, mirrored
// under both the uid and the email address for lookup convenience.
func (m *Manager) Signup(email, password, name string) (Session, error) {
	if !strings.Contains(email, "@") {
		return Session{}, ErrInvalidCredentials
	}

	session := Session{
		UID:         "user_" + uuid.NewString(),
		Email:       email,
		DisplayName: name,
		PhotoURL:    avatarURL(name),
	}

	if err := m.store.SetRaw(m.store.Slot(sessionSlot), session); err != nil {
		return Session{}, fmt.Errorf("failed to persist session: %w", err)
	}

	profile := profileView{
		ID:     session.UID,
		Name:   name,
		Email:  email,
		Avatar: session.PhotoURL,
	}
	if err := m.store.SetRaw(m.profileSlot(session.UID), profile); err != nil {
		return Session{}, fmt.Errorf("failed to persist profile: %w", err)
	}
	if err := m.store.SetRaw(m.profileSlot(email), profile); err != nil {
		return Session{}, fmt.Errorf("failed to mirror profile: %w", err)
	}

	m.logger.Info("account created", "uid", session.UID)
	return session, nil
}

// Logout clears the session. Observers receive a nil session.
func (m *Manager) Logout() error {
	if err := m.store.SetRaw(m.store.Slot(sessionSlot), nil); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current returns the active session, or ok=false when logged out.
func (m *Manager) Current() (Session, bool) {
	var session *Session
	if !m.store.GetRaw(m.store.Slot(sessionSlot), &session) || session == nil {
		return Session{}, false
	}
	return *session, true
}

// CurrentUserID returns the active session's uid, or "".
func (m *Manager) CurrentUserID() string {
	session, ok := m.Current()
	if !ok {
		return ""
	}
	return session.UID
}

// Observe invokes onChange with the current session (nil when logged out)
// synchronously, then again on every session change. The returned function
// deregisters the observer.
func (m *Manager) Observe(onChange func(*Session)) func() {
	return m.store.SubscribeSlot(m.store.Slot(sessionSlot), func(raw []byte) {
		var session *Session
		if raw != nil {
			if err := json.Unmarshal(raw, &session); err != nil {
				session = nil
			}
		}
		onChange(session)
	})
}

func (m *Manager) profileSlot(key string) string {
	return m.store.Slot(profilePrefix + key)
}

func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}
