package utils // package utils provides helpers for session tokens and identity documents

import (
	"time" // time utilities for computing expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Identity carries the authenticated principal placed into the session
// on a successful login. Role is "customer" or "employee"; Title is
// only set for employees.
type Identity struct {
	UserID uint64 `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Title  string `json:"title,omitempty"`
}

// SessionToken is a signed HS256 JWT representing a session along with
// its expiry. The token doubles as the value of the session cookie, so
// the session is a signed client-side store.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for the given identity,
// expiring after ttl; callers pass a much larger duration when the user
// opted into "remember me". Claims: sub, name, email, role, title, exp
// and iat.
func NewSessionToken(secret string, id Identity, ttl time.Duration) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":   id.UserID,
		"name":  id.Name,
		"email": id.Email,
		"role":  id.Role,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	if id.Title != "" {
		claims["title"] = id.Title
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}
