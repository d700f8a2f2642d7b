package serverutils

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"contract-review-fe/internal/constant"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func sessionApp() *fiber.App {
	app := fiber.New()
	app.Use(SessionMiddleware(testSecret))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		id, ok := SessionID(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(id.String())
	})
	return app
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == constant.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestMintsSessionOnFirstContact(t *testing.T) {
	app := sessionApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookie(t, resp)
	require.NotNil(t, cookie, "first contact must set the session cookie")
	assert.True(t, cookie.HttpOnly)

	id, ok := ParseSessionToken(cookie.Value, testSecret)
	require.True(t, ok)
	assert.NotEqual(t, uuid.Nil, id)
}

func TestReusesExistingSession(t *testing.T) {
	app := sessionApp()

	first, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.NoError(t, err)
	cookie := sessionCookie(t, first)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	second, err := app.Test(req)
	require.NoError(t, err)

	assert.Nil(t, sessionCookie(t, second), "a valid cookie must not be reissued")

	body, err := io.ReadAll(second.Body)
	require.NoError(t, err)
	id, ok := ParseSessionToken(cookie.Value, testSecret)
	require.True(t, ok)
	assert.Equal(t, id.String(), string(body))
}

func TestTamperedCookieMintsFreshSession(t *testing.T) {
	app := sessionApp()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: constant.SessionCookieName, Value: "garbage.token.value"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, sessionCookie(t, resp), "a bad cookie is replaced, not rejected")
}

func TestWrongSecretRejected(t *testing.T) {
	id := uuid.New()
	token, err := signSessionToken(id, "other-secret")
	require.NoError(t, err)

	_, ok := ParseSessionToken(token, testSecret)
	assert.False(t, ok)
}

func TestParseSessionTokenRoundTrip(t *testing.T) {
	id := uuid.New()
	token, err := signSessionToken(id, testSecret)
	require.NoError(t, err)

	got, ok := ParseSessionToken(token, testSecret)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestParseSessionTokenEmpty(t *testing.T) {
	_, ok := ParseSessionToken("", testSecret)
	assert.False(t, ok)
}
