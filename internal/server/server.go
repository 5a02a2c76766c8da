// Package server exposes any core.Store over the articles HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"github.com/aretw0/folio/pkg/core"
)

// Server serves the articles API on top of a store.
type Server struct {
	store  core.Store
	logger *slog.Logger
	router *mux.Router
}

// New wires the routes for store.
func New(store core.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{store: store, logger: logger, router: mux.NewRouter()}

	s.router.Use(s.logRequests)
	s.router.Methods(http.MethodGet).Path("/articles").HandlerFunc(s.listArticles)
	s.router.Methods(http.MethodPost).Path("/articles").HandlerFunc(s.createArticle)
	s.router.Methods(http.MethodDelete).Path("/articles").HandlerFunc(s.truncateArticles)
	s.router.Methods(http.MethodPut).Path("/articles/{id}").HandlerFunc(s.updateArticle)
	s.router.Methods(http.MethodDelete).Path("/articles/{id}").HandlerFunc(s.deleteArticle)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server listen failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info("handled", "method", r.Method, "url", r.URL.Path, "duration", m.Duration, "status", m.Code)
	})
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if rows == nil {
		rows = []core.Metadata{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ack, err := s.store.Create(r.Context(), fields)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ack)
}

func (s *Server) updateArticle(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ack, err := s.store.Update(r.Context(), mux.Vars(r)["id"], fields)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

func (s *Server) deleteArticle(w http.ResponseWriter, r *http.Request) {
	ack, err := s.store.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

func (s *Server) truncateArticles(w http.ResponseWriter, r *http.Request) {
	ack, err := s.store.Truncate(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, core.ErrReadOnly):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		s.logger.Error("store request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// decodeFields reads a JSON object or a urlencoded form.
// An empty form value for publishedOn means draft.
func decodeFields(r *http.Request) (core.Metadata, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form: %w", err)
		}
		fields := make(core.Metadata, len(r.PostForm))
		for k := range r.PostForm {
			fields[k] = r.PostForm.Get(k)
		}
		if v, ok := fields[core.KeyPublishedOn]; ok && v == "" {
			fields[core.KeyPublishedOn] = nil
		}
		return fields, nil
	}

	var fields core.Metadata
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return fields, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
