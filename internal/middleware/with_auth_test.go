package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-dashboard/internal/middleware"
	"github.com/noah-isme/gema-dashboard/internal/session"
)

func tokenFor(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return signed
}

func guardedApp(opts middleware.AuthOptions) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Session(session.NewDecoder(""), "accessToken", zerolog.Nop()))
	app.Get("/", middleware.WithAuth(func(c *fiber.Ctx) error {
		token, err := session.TokenFromContext(c.UserContext())
		if err != nil {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.SendString(token)
	}, opts))
	return app
}

func perform(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/?path=/student", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestWithAuthStudentRole(t *testing.T) {
	app := guardedApp(middleware.AuthOptions{Role: middleware.AuthRoleStudent})

	resp := perform(t, app, tokenFor(t, jwt.MapClaims{"id": "U1", "role": "Student"}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestWithAuthStudentRoleDeniedForInstructor(t *testing.T) {
	app := guardedApp(middleware.AuthOptions{Role: middleware.AuthRoleStudent})

	resp := perform(t, app, tokenFor(t, jwt.MapClaims{"id": "U2", "role": "instructor"}))
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestWithAuthMissingCookieRedirectsToLogin(t *testing.T) {
	app := guardedApp(middleware.AuthOptions{Role: middleware.AuthRoleInstructor})

	resp := perform(t, app, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var payload struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.False(t, payload.Success)
	require.Equal(t, "/login?redirectPath=%2Fstudent", payload.Data["redirect"])
}

func TestWithAuthAnyRequiresSessionWhenAsked(t *testing.T) {
	app := guardedApp(middleware.AuthOptions{Role: middleware.AuthRoleAny, RequireUser: true})

	resp := perform(t, app, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = perform(t, app, "opaque-token")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestWithAuthAnyAllowsAnonymousByDefault(t *testing.T) {
	app := guardedApp(middleware.AuthOptions{Role: middleware.AuthRoleAny})

	resp := perform(t, app, "")
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
