// Package server exposes the shop views as JSON endpoints behind the route
// guards.
package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-shop-client/internal/app"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	landing string
	mux     *http.ServeMux
	routes  []string
	app     *app.App
}

func New(a *app.App) (*Server, error) {
	if a == nil {
		return nil, errors.New("[server.New] app is required")
	}

	s := &Server{
		env:     a.Config.GetEnv(),
		landing: a.Config.GetLandingRoute(),
		mux:     http.NewServeMux(),
		app:     a,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
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

func displayMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", displayMethod(method), path)
}

func logError(method, path, errMsg string) {
	log.Error().Msgf("[%-19s] %s %s", displayMethod(method), path, Red+errMsg+ResetColor)
}
