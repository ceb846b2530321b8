package auth

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrInvalidEmail       = errors.New("invalid email address")
)

const (
	MinPasswordLength  = 8
	MaxDisplayNameRune = 32
)

// Claims is what a signed access token carries.
type Claims struct {
	PlayerID    int
	Email       string
	DisplayName string
	ExpiresAt   time.Time
}

// HashPassword returns a bcrypt hash suitable for players.password_hash.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NormalizeEmail lowercases and validates an address. Display-name forms
// like "Ann <ann@example.com>" are rejected.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// CleanDisplayName trims the name and caps its length. An empty name falls
// back to the local part of the email.
func CleanDisplayName(name, email string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		if i := strings.Index(email, "@"); i > 0 {
			name = email[:i]
		}
	}
	runes := []rune(name)
	if len(runes) > MaxDisplayNameRune {
		runes = runes[:MaxDisplayNameRune]
	}
	return string(runes)
}

// IssueToken signs an HS256 access token for a player.
func IssueToken(secret string, ttl time.Duration, playerID int, email, displayName string) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"player_id":    playerID,
		"email":        email,
		"display_name": displayName,
		"exp":          jwt.NewNumericDate(exp).Unix(),
		"iat":          time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// ParseToken validates signature, algorithm and expiry.
func ParseToken(secret, token string) (*Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	playerIDf, ok := mc["player_id"].(float64)
	if !ok || playerIDf <= 0 {
		return nil, ErrInvalidToken
	}
	claims := &Claims{PlayerID: int(playerIDf)}
	claims.Email, _ = mc["email"].(string)
	claims.DisplayName, _ = mc["display_name"].(string)
	if exp, ok := mc["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return claims, nil
}
