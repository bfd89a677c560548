package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

const sessionIssuer = "resume-wizard"

// sessionClaims is the signed cookie payload.
type sessionClaims struct {
	UserID  string    `json:"userId"`
	Expires time.Time `json:"expires"`
	jwt.RegisteredClaims
}

// SessionManager signs and verifies session tokens with a secret loaded once
// at startup. It holds no mutable state and is safe for concurrent use.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration) (*SessionManager, error) {
	if secret == "" {
		return nil, errors.New("session secret must not be empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for userID that expires after the configured TTL.
func (m *SessionManager) Issue(userID uuid.UUID) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	claims := sessionClaims{
		UserID:  userID.String(),
		Expires: expiresAt.UTC(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ValidateSession verifies the signature and expiry of token. Every failure
// is reported as types.ErrInvalidToken.
func (m *SessionManager) ValidateSession(token string) (*types.Session, error) {
	if token == "" {
		return nil, types.ErrInvalidToken
	}
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil, types.ErrInvalidToken
	}
	if !m.now().Before(claims.Expires) {
		return nil, types.ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, types.ErrInvalidToken
	}
	return &types.Session{UserID: userID, ExpiresAt: claims.Expires}, nil
}
