package inspectapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/rdbwalk/rdbwalk/migrate"
)

// Server owns the HTTP listener over an already-migrated Loader.
type Server struct {
	address string
	loader  *migrate.Loader
	log     *logrus.Logger
}

// NewServer binds address to loader's contents.
func NewServer(address string, loader *migrate.Loader, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{address: address, loader: loader, log: log}
}

// Start blocks serving until the listener fails.
func (s *Server) Start() error {
	router := mux.NewRouter()
	subrouter := router.PathPrefix("/api/v1").Subrouter()

	handlers := NewHandlers(s.loader, s.log)
	handlers.RegisterRoutes(subrouter)

	s.log.WithField("address", s.address).Info("inspectapi listening")
	return http.ListenAndServe(s.address, router)
}
