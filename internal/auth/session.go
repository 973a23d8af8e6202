// Package auth manages admin sessions: credential checks against the identity
// service, the admin allow-list gate and the persisted session record.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mannadome_backend/internal/identity"
	"mannadome_backend/internal/model"
	"mannadome_backend/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("admin account is inactive")
	ErrAuthRequired       = errors.New("authentication required")
	ErrInvalidToken       = errors.New("invalid session token")
)

const (
	sessionReadAttempts = 3
	sessionReadDelay    = 50 * time.Millisecond
)

// Session is the authenticated admin together with the access token and
// its expiry.
type Session struct {
	User    model.AdminUser `json:"user"`
	Token   string          `json:"token"`
	Expires time.Time       `json:"expires"`
}

type State string

const (
	StateAnonymous      State = "anonymous"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	StateExpired        State = "expired"
)

type Manager struct {
	db       *gorm.DB
	identity *identity.Service
	admins   *repository.AdminUserRepo
	store    Storage
	log      *slog.Logger

	now   func() time.Time
	sleep func(time.Duration)

	mu             sync.Mutex
	authenticating bool
}

func NewManager(db *gorm.DB, ids *identity.Service, store Storage, log *slog.Logger) *Manager {
	if store == nil {
		store = NewMemoryStorage()
	}
	return &Manager{
		db:       db,
		identity: ids,
		admins:   repository.NewAdminUserRepo(db),
		store:    store,
		log:      log,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Authenticate checks credentials and the allow-list without persisting
// anything. Valid credentials alone are not enough: the admin row must be
// active.
func (m *Manager) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	idSession, err := m.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		m.log.Warn("sign in rejected", "email", email, "reason", err.Error())
		if errors.Is(err, identity.ErrInvalidCredentials) || errors.Is(err, identity.ErrEmailNotConfirmed) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, err
	}

	admin, err := m.resolveAdmin(ctx, m.admins, idSession.Identity, true)
	if err != nil {
		return nil, err
	}

	if !admin.IsActive {
		m.log.Warn("sign in rejected", "email", admin.Email, "reason", ErrInactiveAccount.Error())
		if err := m.identity.SignOut(ctx, idSession.AccessToken); err != nil {
			m.log.Error("revoke session of inactive admin", "email", admin.Email, "error", err)
		}
		return nil, ErrInactiveAccount
	}

	return &Session{User: *admin, Token: idSession.AccessToken, Expires: idSession.ExpiresAt}, nil
}

// SignIn authenticates and persists the session to storage.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	m.setAuthenticating(true)
	defer m.setAuthenticating(false)

	session, err := m.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.persist(session); err != nil {
		return nil, err
	}
	m.log.Info("admin signed in", "email", session.User.Email)
	return session, nil
}

// Register creates the identity and its allow-list row together. It returns
// a nil session and no error when the identity must confirm its email first.
func (m *Manager) Register(ctx context.Context, email, password string) (*Session, error) {
	var session *Session
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ident, idSession, err := m.identity.WithTx(tx).SignUp(ctx, email, password)
		if err != nil {
			return err
		}
		admin, err := m.resolveAdmin(ctx, m.admins.WithTx(tx), *ident, true)
		if err != nil {
			return err
		}
		if idSession != nil {
			session = &Session{User: *admin, Token: idSession.AccessToken, Expires: idSession.ExpiresAt}
		}
		return nil
	})
	if err != nil {
		m.log.Warn("sign up failed", "email", email, "error", err)
		return nil, err
	}

	if session == nil {
		m.log.Info("sign up pending email confirmation", "email", email)
	}
	return session, nil
}

// SignUp registers and persists the new session to storage.
func (m *Manager) SignUp(ctx context.Context, email, password string) (*Session, error) {
	session, err := m.Register(ctx, email, password)
	if err != nil || session == nil {
		return nil, err
	}
	if err := m.persist(session); err != nil {
		return nil, err
	}
	return session, nil
}

// SignOut revokes the stored session's token and always clears storage.
func (m *Manager) SignOut(ctx context.Context) error {
	if raw, ok := m.store.GetItem(SessionKey); ok {
		if session := parseSession(raw); session != nil {
			m.Revoke(ctx, session.Token)
		}
	}
	return m.store.RemoveItem(SessionKey)
}

// Revoke ends the identity session behind token. Failures are logged only.
func (m *Manager) Revoke(ctx context.Context, token string) {
	if err := m.identity.SignOut(ctx, token); err != nil {
		m.log.Warn("revoke identity session", "error", err)
	}
}

// GetSession reads the stored session. A write that has not landed yet is
// retried a few times; an unparsable record yields nil.
func (m *Manager) GetSession() *Session {
	for attempt := 1; attempt <= sessionReadAttempts; attempt++ {
		if raw, ok := m.store.GetItem(SessionKey); ok {
			return parseSession(raw)
		}
		if attempt < sessionReadAttempts {
			m.sleep(sessionReadDelay)
		}
	}
	return nil
}

// IsAuthenticated reports whether a stored session expires strictly after now.
func (m *Manager) IsAuthenticated() bool {
	session := m.GetSession()
	return session != nil && session.Expires.After(m.now())
}

func (m *Manager) RequireAuth() (*model.AdminUser, error) {
	if !m.IsAuthenticated() {
		return nil, ErrAuthRequired
	}
	session := m.GetSession()
	if session == nil {
		return nil, ErrAuthRequired
	}
	return &session.User, nil
}

func (m *Manager) State() State {
	m.mu.Lock()
	authenticating := m.authenticating
	m.mu.Unlock()
	if authenticating {
		return StateAuthenticating
	}

	raw, ok := m.store.GetItem(SessionKey)
	if !ok {
		return StateAnonymous
	}
	session := parseSession(raw)
	switch {
	case session == nil:
		return StateAnonymous
	case !session.Expires.After(m.now()):
		return StateExpired
	default:
		return StateAuthenticated
	}
}

// Resolve validates a bearer token on the server for one request and returns
// the session it belongs to.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	idSession, err := m.identity.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	admin, err := m.resolveAdmin(ctx, m.admins, idSession.Identity, false)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAuthRequired
	}
	if err != nil {
		return nil, err
	}
	if !admin.IsActive {
		return nil, ErrInactiveAccount
	}

	return &Session{User: *admin, Token: token, Expires: idSession.ExpiresAt}, nil
}

// resolveAdmin finds the allow-list row of ident, by identity id first and
// then by email. A row found by email gets the identity id recorded. With
// provision set a missing row is created active with the default role.
func (m *Manager) resolveAdmin(ctx context.Context, admins *repository.AdminUserRepo, ident identity.Identity, provision bool) (*model.AdminUser, error) {
	admin, err := admins.FindByAuthUserID(ctx, ident.ID)
	if err == nil {
		return admin, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	admin, err = admins.FindByEmail(ctx, ident.Email)
	switch {
	case err == nil:
		if admin.AuthUserID == nil {
			if err := admins.LinkAuthUser(ctx, admin.ID, ident.ID); err != nil {
				return nil, err
			}
			id := ident.ID
			admin.AuthUserID = &id
		}
		return admin, nil
	case !errors.Is(err, repository.ErrNotFound) || !provision:
		return nil, err
	}

	id := ident.ID
	admin = &model.AdminUser{
		AuthUserID: &id,
		Email:      ident.Email,
		FullName:   model.DefaultAdminFullName,
		Role:       model.RoleSuperAdmin,
		IsActive:   true,
	}
	if err := admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	m.log.Info("provisioned admin user", "email", admin.Email)
	return admin, nil
}

func (m *Manager) persist(session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.SetItem(SessionKey, string(data)); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (m *Manager) setAuthenticating(v bool) {
	m.mu.Lock()
	m.authenticating = v
	m.mu.Unlock()
}

func parseSession(raw string) *Session {
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil
	}
	if session.Token == "" || session.Expires.IsZero() {
		return nil
	}
	return &session
}
