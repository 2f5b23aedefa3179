package utils

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// APIResponse describes the common structure for API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success payload using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	return SendFailure(c, status, message, nil)
}

// SendFailure sends an error response that still carries a view or form state for the client to render.
func SendFailure(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Data:    data,
		Message: message,
	})
}

// LoginRedirect builds the login location that returns the user to currentPath afterwards.
func LoginRedirect(currentPath string) string {
	if currentPath == "" {
		currentPath = "/"
	}
	return "/login?redirectPath=" + url.QueryEscape(currentPath)
}

// CurrentPath returns the page the client is rendering, taken from the path query or X-Current-Path header.
func CurrentPath(c *fiber.Ctx) string {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		path = strings.TrimSpace(c.Get("X-Current-Path"))
	}
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "/"
	}
	return path
}

// SendUnauthenticated answers 401 and points the client at the login page.
func SendUnauthenticated(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Please log in to continue"
	}
	return SendFailure(c, fiber.StatusUnauthorized, message, fiber.Map{
		"redirect": LoginRedirect(CurrentPath(c)),
	})
}
