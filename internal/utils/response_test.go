package utils_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-dashboard/internal/utils"
)

func TestSendSuccessDefaults(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "", map[string]string{"hello": "world"})
	})

	resp := performRequest(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Data    map[string]string `json:"data"`
	}
	decode(t, resp, &payload)

	require.True(t, payload.Success)
	require.Equal(t, "success", payload.Message)
	require.Equal(t, "world", payload.Data["hello"])
}

func TestSendFailureKeepsData(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendFailure(c, fiber.StatusUnprocessableEntity, "invalid form", map[string]string{"title": "Title is required"})
	})

	resp := performRequest(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var payload struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Data    map[string]string `json:"data"`
	}
	decode(t, resp, &payload)

	require.False(t, payload.Success)
	require.Equal(t, "invalid form", payload.Message)
	require.Equal(t, "Title is required", payload.Data["title"])
}

func TestSendUnauthenticatedRedirectsToLogin(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendUnauthenticated(c, "")
	})

	cases := map[string]string{
		"/?path=/student/submissions": "/login?redirectPath=%2Fstudent%2Fsubmissions",
		"/?path=//evil.example":       "/login?redirectPath=%2F",
		"/":                           "/login?redirectPath=%2F",
	}
	for target, want := range cases {
		resp := performRequest(t, app, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		var payload struct {
			Message string            `json:"message"`
			Data    map[string]string `json:"data"`
		}
		decode(t, resp, &payload)
		require.Equal(t, "Please log in to continue", payload.Message)
		require.Equal(t, want, payload.Data["redirect"], target)
	}
}

func TestCurrentPathFallsBackToHeader(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(utils.CurrentPath(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Current-Path", "/instructor")
	resp := performRequest(t, app, req)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "/instructor", string(body))
}

func performRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
