package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPassword(hash, "correct horse") {
		t.Error("expected password to match its hash")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Error("wrong password matched")
	}
	if _, err := HashPassword("short"); err != ErrWeakPassword {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
}

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"  Ann@Example.COM ", "ann@example.com", true},
		{"ann@example", "", false},
		{"not-an-email", "", false},
		{"Ann <ann@example.com>", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizeEmail(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("NormalizeEmail(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("NormalizeEmail(%q) should fail, got %q", tc.in, got)
		}
	}
}

func TestCleanDisplayName(t *testing.T) {
	if got := CleanDisplayName("  Putt Master ", "x@y.z"); got != "Putt Master" {
		t.Errorf("expected trimmed name, got %q", got)
	}
	if got := CleanDisplayName("", "golfer@example.com"); got != "golfer" {
		t.Errorf("expected fallback to local part, got %q", got)
	}
	long := strings.Repeat("é", 50)
	if got := CleanDisplayName(long, "x@y.z"); len([]rune(got)) != MaxDisplayNameRune {
		t.Errorf("expected %d runes, got %d", MaxDisplayNameRune, len([]rune(got)))
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, exp, err := IssueToken(testSecret, time.Hour, 42, "ann@example.com", "Ann")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if time.Until(exp) <= 59*time.Minute {
		t.Errorf("unexpected expiry %v", exp)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.PlayerID != 42 || claims.Email != "ann@example.com" || claims.DisplayName != "Ann" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestParseTokenRejects(t *testing.T) {
	good, _, _ := IssueToken(testSecret, time.Hour, 7, "a@b.co", "A")
	expired, _, _ := IssueToken(testSecret, -time.Minute, 7, "a@b.co", "A")
	noPlayer := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	noPlayerSigned, _ := noPlayer.SignedString([]byte(testSecret))
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"player_id": 7})
	unsignedStr, _ := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]struct {
		secret, token string
	}{
		"wrong secret": {"other", good},
		"expired":      {testSecret, expired},
		"no player id": {testSecret, noPlayerSigned},
		"alg none":     {testSecret, unsignedStr},
		"garbage":      {testSecret, "abc.def.ghi"},
		"empty":        {testSecret, ""},
	}
	for name, tc := range cases {
		if _, err := ParseToken(tc.secret, tc.token); err != ErrInvalidToken {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestStoreWithoutDB(t *testing.T) {
	var s *Store
	if _, err := s.GetPlayer(1); err == nil {
		t.Error("expected an error without a database")
	}
	names, err := NewStore(nil).DisplayNames(nil)
	if err != nil || len(names) != 0 {
		t.Errorf("empty lookup should not need a database, got %v %v", names, err)
	}
}
