package token

import (
	"time"

	"github.com/jrsteele09/go-shop-client/internal/utils"
)

// Role values issued by the account service.
const (
	RoleBuyer  = "Buyer"
	RoleSeller = "Seller"
)

// Claims is the decoded payload of a bearer token. It is derived from the token
// held by the session and never persisted on its own.
type Claims struct {
	Subject   string         `json:"sub,omitempty"`   // User ID
	Email     string         `json:"email,omitempty"` // Display identity
	Role      string         `json:"role,omitempty"`  // Buyer or Seller
	IssuedAt  time.Time      `json:"iat,omitempty"`
	ExpiresAt time.Time      `json:"exp"`
	Raw       map[string]any `json:"-"` // Every claim as decoded
}

// HasRole reports whether the claims carry role.
func (c *Claims) HasRole(role string) bool {
	return c != nil && role != "" && c.Role == role
}

// Expired reports whether the expiry instant is at or before now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

func claimsFromMap(m map[string]any) *Claims {
	c := &Claims{Raw: m}
	c.Subject = firstString(m, "sub", "_id", "id")
	c.Email, _ = m["email"].(string)
	c.Role, _ = m["role"].(string)
	if c.Role == "" {
		if roles := utils.StringSlice(m["roles"]); len(roles) > 0 {
			c.Role = roles[0]
		}
	}
	if iat, ok := numericClaim(m["iat"]); ok {
		c.IssuedAt = time.Unix(iat, 0)
	}
	if exp, ok := numericClaim(m["exp"]); ok {
		c.ExpiresAt = time.Unix(exp, 0)
	}
	return c
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func numericClaim(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}
