package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SessionCookie is the name of the cookie carrying the signed session
// token. The same token is also accepted as a Bearer credential so API
// clients do not need a cookie jar.
const SessionCookie = "session"

// SessionAuth returns a middleware that validates the session token and
// injects the authenticated identity into the request context under the
// keys "user_id", "role", "name" and "title". Handlers receive identity
// explicitly through the context rather than reading any global state.
//
// An unauthenticated request is redirected to /login when the client
// prefers HTML, and receives a 401 JSON body otherwise.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c)
			if raw == "" {
				return rejectUnauthenticated(c)
			}

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				// Reject any signing method other than HMAC.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return rejectUnauthenticated(c)
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return rejectUnauthenticated(c)
			}

			uid, ok := claimUint64(claims["sub"])
			if !ok || uid == 0 {
				return rejectUnauthenticated(c)
			}
			c.Set("user_id", uid)
			c.Set("role", claimString(claims["role"]))
			c.Set("name", claimString(claims["name"]))
			c.Set("title", claimString(claims["title"]))
			return next(c)
		}
	}
}

// tokenFromRequest pulls the session token from the Authorization
// header or, failing that, from the session cookie.
func tokenFromRequest(c echo.Context) string {
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if ck, err := c.Cookie(SessionCookie); err == nil {
		return ck.Value
	}
	return ""
}

// rejectUnauthenticated sends the caller to the login page or a 401
// body, depending on what the client negotiates.
func rejectUnauthenticated(c echo.Context) error {
	if wantsHTML(c) {
		return c.Redirect(http.StatusFound, "/login")
	}
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
}

// wantsHTML reports whether the client is a browser navigating pages,
// judged by the Accept header.
func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get("Accept"), "text/html")
}

func claimUint64(v interface{}) (uint64, bool) {
	switch t := v.(type) {
	case float64:
		return uint64(t), true
	case uint64:
		return t, true
	case int64:
		return uint64(t), true
	}
	return 0, false
}

func claimString(v interface{}) string {
	s, _ := v.(string)
	return s
}
