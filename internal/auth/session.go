package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims identifies the account a session belongs to.
type Claims struct {
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// SessionExpiry is the default session lifetime.
const SessionExpiry = 30 * 24 * time.Hour

const issuer = "shramba"

// ErrNoSession is returned when no session has been saved.
var ErrNoSession = errors.New("not logged in")

// GenerateToken creates a signed session token for an account.
func GenerateToken(secret []byte, accountID int64, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID: accountID,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a session token, returning the claims.
func ValidateToken(secret []byte, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// Sessions keeps the current session token and its signing key on disk.
// The key lives next to the token as "<path>.key" and is created on first use.
type Sessions struct {
	Path string
}

// Save signs a token for the account and writes it to disk.
func (s Sessions) Save(accountID int64, username string) error {
	secret, err := s.key(true)
	if err != nil {
		return err
	}
	token, err := GenerateToken(secret, accountID, username)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	if err := os.WriteFile(s.Path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Load returns the claims of the saved session. It returns ErrNoSession if
// nobody is logged in.
func (s Sessions) Load() (*Claims, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	secret, err := s.key(false)
	if err != nil {
		return nil, err
	}
	return ValidateToken(secret, strings.TrimSpace(string(data)))
}

// Clear removes the saved session. Clearing an absent session is not an error.
func (s Sessions) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

func (s Sessions) key(create bool) ([]byte, error) {
	path := s.Path + ".key"
	data, err := os.ReadFile(path)
	if err == nil {
		return hex.DecodeString(strings.TrimSpace(string(data)))
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading session key: %w", err)
	}
	if !create {
		return nil, ErrNoSession
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generating session key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(buf)+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("writing session key: %w", err)
	}
	return buf, nil
}
