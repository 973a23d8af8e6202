// Package identity is the credential store behind admin sign-in. It hashes
// passwords, issues signed access tokens and tracks each issued token as a
// session row so tokens can be revoked before they expire.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mannadome_backend/pkg/utils/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnknownIdentity    = errors.New("identity not found")
)

const MinPasswordLength = 6

type Identity struct {
	ID           string     `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	ConfirmedAt  *time.Time `json:"confirmed_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (Identity) TableName() string {
	return "auth_identities"
}

func (i *Identity) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// SessionRecord is one issued access token. Its id is the token's jti.
type SessionRecord struct {
	ID         string     `gorm:"type:uuid;primaryKey"`
	IdentityID string     `gorm:"type:uuid;index;not null"`
	ExpiresAt  time.Time  `gorm:"index;not null"`
	RevokedAt  *time.Time
	CreatedAt  time.Time
}

func (SessionRecord) TableName() string {
	return "auth_sessions"
}

// Session is the result of a successful sign-in.
type Session struct {
	Identity    Identity
	AccessToken string
	ExpiresAt   time.Time
}

func Models() []interface{} {
	return []interface{}{&Identity{}, &SessionRecord{}}
}

type Config struct {
	Secret              []byte
	TTL                 time.Duration
	BcryptCost          int
	RequireConfirmation bool
}

type Service struct {
	db  *gorm.DB
	cfg Config
	now func() time.Time
}

func New(db *gorm.DB, cfg Config) *Service {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &Service{db: db, cfg: cfg, now: time.Now}
}

// WithTx returns a copy of the service whose writes go through tx.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{db: tx, cfg: s.cfg, now: s.now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var ident Identity
	err := s.db.WithContext(ctx).First(&ident, "email = ?", normalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find identity: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if ident.ConfirmedAt == nil {
		return nil, ErrEmailNotConfirmed
	}

	return s.issue(ctx, ident)
}

// SignUp registers a new identity. The returned session is nil when the
// identity must confirm its email before it can sign in.
func (s *Service) SignUp(ctx context.Context, email, password string) (*Identity, *Session, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, ErrInvalidCredentials
	}
	if len(password) < MinPasswordLength {
		return nil, nil, ErrWeakPassword
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&Identity{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, nil, fmt.Errorf("check identity: %w", err)
	}
	if count > 0 {
		return nil, nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	ident := Identity{Email: email, PasswordHash: string(hash), CreatedAt: s.now()}
	if !s.cfg.RequireConfirmation {
		confirmed := ident.CreatedAt
		ident.ConfirmedAt = &confirmed
	}
	if err := db.Create(&ident).Error; err != nil {
		return nil, nil, fmt.Errorf("create identity: %w", err)
	}

	if ident.ConfirmedAt == nil {
		return &ident, nil, nil
	}

	session, err := s.issue(ctx, ident)
	if err != nil {
		return nil, nil, err
	}
	return &ident, session, nil
}

// Confirm marks an identity's email as verified.
func (s *Service) Confirm(ctx context.Context, email string) error {
	res := s.db.WithContext(ctx).Model(&Identity{}).
		Where("email = ? AND confirmed_at IS NULL", normalizeEmail(email)).
		Update("confirmed_at", s.now())
	if res.Error != nil {
		return fmt.Errorf("confirm identity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&Identity{}).Where("email = ?", normalizeEmail(email)).Count(&count).Error; err != nil {
			return fmt.Errorf("confirm identity: %w", err)
		}
		if count == 0 {
			return ErrUnknownIdentity
		}
	}
	return nil
}

// SetPassword replaces the password of an existing identity.
func (s *Service) SetPassword(ctx context.Context, email, password string) error {
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res := s.db.WithContext(ctx).Model(&Identity{}).Where("email = ?", normalizeEmail(email)).Update("password_hash", string(hash))
	if res.Error != nil {
		return fmt.Errorf("set password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUnknownIdentity
	}
	return nil
}

// SignOut revokes the session behind token. Expired tokens can still be
// revoked; tokens that fail the signature check cannot.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := jwt.ParseToken(s.cfg.Secret, token)
	if err != nil {
		return ErrInvalidToken
	}
	err = s.db.WithContext(ctx).Model(&SessionRecord{}).
		Where("id = ? AND revoked_at IS NULL", claims.ID).
		Update("revoked_at", s.now()).Error
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// Verify validates token and the session row behind it.
func (s *Service) Verify(ctx context.Context, token string) (*Session, error) {
	now := s.now()
	claims, err := jwt.ValidateToken(s.cfg.Secret, token, now)
	if err != nil {
		return nil, ErrInvalidToken
	}

	db := s.db.WithContext(ctx)
	var record SessionRecord
	err = db.First(&record, "id = ?", claims.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if record.RevokedAt != nil || !now.Before(record.ExpiresAt) || record.IdentityID != claims.Subject {
		return nil, ErrInvalidToken
	}

	var ident Identity
	err = db.First(&ident, "id = ?", claims.Subject).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}

	return &Session{Identity: ident, AccessToken: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// PurgeExpired deletes session rows that expired or were revoked before now.
func (s *Service) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at < ? OR revoked_at < ?", now, now).
		Delete(&SessionRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Service) issue(ctx context.Context, ident Identity) (*Session, error) {
	now := s.now()
	// token timestamps carry whole seconds
	expires := now.Add(s.cfg.TTL).Truncate(time.Second)

	record := SessionRecord{
		ID:         uuid.NewString(),
		IdentityID: ident.ID,
		ExpiresAt:  expires,
		CreatedAt:  now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := jwt.GenerateToken(s.cfg.Secret, ident.ID, ident.Email, record.ID, now, expires)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Session{Identity: ident, AccessToken: token, ExpiresAt: expires}, nil
}
