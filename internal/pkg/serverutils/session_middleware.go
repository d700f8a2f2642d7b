package serverutils

import (
	"time"

	"contract-review-fe/internal/constant"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionCookieMaxAge = 24 * time.Hour

// SessionMiddleware gives every browser an anonymous, JWT-signed session id
// carried in a cookie. A missing or tampered cookie silently mints a fresh
// session; there are no accounts here, only session affinity.
func SessionMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id, ok := parseSessionToken(c.Cookies(constant.SessionCookieName), secret); ok {
			c.Locals(constant.SessionLocalsKey, id)
			return c.Next()
		}

		id := uuid.New()
		token, err := signSessionToken(id, secret)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to issue session")
		}
		c.Cookie(&fiber.Cookie{
			Name:     constant.SessionCookieName,
			Value:    token,
			Expires:  time.Now().Add(sessionCookieMaxAge),
			HTTPOnly: true,
			SameSite: "Lax",
		})
		c.Locals(constant.SessionLocalsKey, id)
		return c.Next()
	}
}

// SessionID pulls the session id the middleware parked in locals.
func SessionID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(constant.SessionLocalsKey).(uuid.UUID)
	return id, ok
}

func signSessionToken(id uuid.UUID, secret string) (string, error) {
	claims := jwt.MapClaims{
		"session_id": id.String(),
		"iat":        time.Now().Unix(),
		"exp":        time.Now().Add(sessionCookieMaxAge).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates a signed session token and extracts the id.
// Exposed for the WebSocket handshake, which receives the token as a query
// parameter instead of a cookie.
func ParseSessionToken(tokenStr, secret string) (uuid.UUID, bool) {
	return parseSessionToken(tokenStr, secret)
}

func parseSessionToken(tokenStr, secret string) (uuid.UUID, bool) {
	if tokenStr == "" {
		return uuid.Nil, false
	}
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, false
	}
	idStr, ok := claims["session_id"].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
