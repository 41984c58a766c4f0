// Package tokentest mints bearer tokens shaped like the account service's for tests.
package tokentest

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const hmacSecret = "tokentest-secret"

// Minter signs tokens with a shared HMAC secret, or with its RSA key for tests
// that exercise signature verification.
type Minter struct {
	NowFunc func() time.Time
	keyID   string
	rsaKey  *rsa.PrivateKey
}

// NewMinter creates a minter whose clock is time.Now.
func NewMinter() *Minter {
	return &Minter{NowFunc: time.Now, keyID: uuid.New().String()}
}

// Token returns an HS256 token for email/role expiring ttl from now. A negative
// ttl gives an already expired token.
func (m *Minter) Token(t testing.TB, email, role string, ttl time.Duration) string {
	t.Helper()
	return m.sign(t, jwtlib.SigningMethodHS256, []byte(hmacSecret), m.claims(email, role, ttl))
}

// Claims signs arbitrary claims with HS256.
func (m *Minter) Claims(t testing.TB, claims jwtlib.MapClaims) string {
	t.Helper()
	return m.sign(t, jwtlib.SigningMethodHS256, []byte(hmacSecret), claims)
}

// RSAToken returns an RS256 token signed with the minter's key.
func (m *Minter) RSAToken(t testing.TB, email, role string, ttl time.Duration) string {
	t.Helper()
	return m.sign(t, jwtlib.SigningMethodRS256, m.privateKey(t), m.claims(email, role, ttl))
}

// PublicKey returns the verification key for RSAToken.
func (m *Minter) PublicKey(t testing.TB) crypto.PublicKey {
	t.Helper()
	return m.privateKey(t).Public()
}

func (m *Minter) claims(email, role string, ttl time.Duration) jwtlib.MapClaims {
	now := m.NowFunc()
	return jwtlib.MapClaims{
		"sub":   uuid.New().String(),
		"email": email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
}

func (m *Minter) privateKey(t testing.TB) *rsa.PrivateKey {
	t.Helper()
	if m.rsaKey == nil {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("generate rsa key: %v", err)
		}
		m.rsaKey = key
	}
	return m.rsaKey
}

func (m *Minter) sign(t testing.TB, method jwtlib.SigningMethod, key any, claims jwtlib.MapClaims) string {
	t.Helper()
	tok := jwtlib.NewWithClaims(method, claims)
	tok.Header["kid"] = m.keyID
	signed, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
