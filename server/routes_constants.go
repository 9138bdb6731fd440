package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthLogin   = "/login"
	RouteAuthRefresh = "/refresh"
	RouteAuthLogout  = "/logout"
	RouteAuthSession = "/session"
	RouteAuthMe      = "/me"

	// Admin Routes
	RouteAdminUsers = "/admin/users"

	// Operational Routes
	RouteHealth = "/healthz"
)
