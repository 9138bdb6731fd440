package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/auth"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/internal/config"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/permissions"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/session"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/users"
	"github.com/rs/zerolog/log"
)

// Deps bundles the collaborators the HTTP layer needs.
type Deps struct {
	Auth     *auth.Service
	Sessions *session.Resolver
	Codec    *token.Codec
	Perms    *permissions.Model
	Users    users.Repo
}

type Server struct {
	env      string // Environment (e.g., "DEV", "production")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	auth     *auth.Service
	sessions *session.Resolver
	codec    *token.Codec
	perms    *permissions.Model
	users    users.Repo
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Auth == nil || deps.Sessions == nil || deps.Codec == nil || deps.Perms == nil || deps.Users == nil {
		return nil, fmt.Errorf("[Server New] missing dependency")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		auth:     deps.Auth,
		sessions: deps.Sessions,
		codec:    deps.Codec,
		perms:    deps.Perms,
		users:    deps.Users,
		env:      cfg.GetEnv(),
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + resetColor
	} else {
		displayMethod = gray + paddedMethod + resetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
