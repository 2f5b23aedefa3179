package service

import (
	"strings"

	"github.com/noah-isme/gema-dashboard/internal/dto"
	"github.com/noah-isme/gema-dashboard/internal/models"
)

var navigationMenus = map[models.Role][]dto.NavItem{
	models.RoleStudent: {
		{Title: "Assignments", URL: "/student"},
		{Title: "Submissions", URL: "/student/submissions"},
	},
	models.RoleInstructor: {
		{Title: "Dashboard", URL: "/instructor"},
		{Title: "Assignments", URL: "/instructor/assignments"},
		{Title: "Submissions", URL: "/instructor/submissions"},
	},
}

var protectedPrefixes = []string{"/student", "/instructor"}

// IsProtectedPath reports whether the path belongs to a role dashboard.
func IsProtectedPath(path string) bool {
	path = strings.TrimSpace(path)
	for _, prefix := range protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Navigation returns the sidebar for user with the entry matching currentPath marked active.
func Navigation(user models.User, currentPath string) dto.Navigation {
	menu := navigationMenus[user.Role]
	items := make([]dto.NavItem, 0, len(menu))
	for _, item := range menu {
		item.Active = item.URL == currentPath
		items = append(items, item)
	}
	return dto.Navigation{User: user, Items: items}
}
