package server

import (
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/permissions"
)

func (s *Server) initRoutes() {
	// Auth endpoints
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthSession, ChainMiddleware(s.SessionHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthMe, ChainMiddleware(s.MeHandler(), append(s.APIMiddleware(), s.RequireAuth())...))

	// Admin endpoints (guard + capability check)
	s.RegisterRouteHandler("GET "+RouteAdminUsers, ChainMiddleware(s.AdminUsersHandler(),
		append(s.APIMiddleware(), s.RequireAuth(), s.RequireCapability(permissions.CapUsersManage))...))

	// Operational
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
}
