// Package inspectapi serves a migrated snapshot's contents over HTTP: a
// read-only window onto what migrate.Loader already wrote to bbolt, with
// no path back to the original RDB file.
package inspectapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/rdbwalk/rdbwalk/migrate"
)

// Handlers binds HTTP routes to a single, already-migrated Loader.
type Handlers struct {
	loader *migrate.Loader
	log    *logrus.Logger
}

// NewHandlers wraps loader for serving. log may be nil, in which case a
// default logrus.Logger is used.
func NewHandlers(loader *migrate.Loader, log *logrus.Logger) *Handlers {
	if log == nil {
		log = logrus.New()
	}
	return &Handlers{loader: loader, log: log}
}

// RegisterRoutes wires every inspectapi endpoint onto router.
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/databases", h.handleDatabases).Methods(http.MethodGet)
	router.HandleFunc("/keys", h.handleKeys).Methods(http.MethodGet)
	router.HandleFunc("/stats", h.handleStats).Methods(http.MethodGet)
}

// GET /databases
func (h *Handlers) handleDatabases(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.loader.Buckets()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"databases": buckets})
}

// GET /keys?db=N
func (h *Handlers) handleKeys(w http.ResponseWriter, r *http.Request) {
	db := r.URL.Query().Get("db")
	if db == "" {
		h.writeError(w, http.StatusBadRequest, errMissingDB)
		return
	}
	records, err := h.loader.ListKeys(db)
	if err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"db": db, "keys": records})
}

// GET /stats
func (h *Handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.loader.RunningStats())
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.WithError(err).Warn("failed to encode response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, err error) {
	h.log.WithError(err).WithField("status", status).Warn("request failed")
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
