// Package server serves one aggregated input over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/signalnine/rabinstat/internal/chart"
	"github.com/signalnine/rabinstat/internal/result"
)

const shutdownTimeout = 5 * time.Second

// Server holds a read-only snapshot; handlers never mutate it.
type Server struct {
	summary *result.Summary
	opts    chart.Options
	router  *mux.Router
}

func New(summary *result.Summary, opts chart.Options) *Server {
	s := &Server{summary: summary, opts: opts, router: mux.NewRouter()}
	s.router.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/api/v1/series", s.seriesHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/api/v1/groups", s.groupsHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/api/v1/groups/{states:[0-9]+}", s.groupHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/chart.{format:png|svg}", s.chartHandler).Methods(http.MethodGet)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listening on %s: %w", addr, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return <-errCh
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (s *Server) seriesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.summary.Series)
}

func (s *Server) groupsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.summary.Groups)
}

func (s *Server) groupHandler(w http.ResponseWriter, r *http.Request) {
	states, err := strconv.Atoi(mux.Vars(r)["states"])
	if err != nil {
		http.Error(w, "invalid states value", http.StatusBadRequest)
		return
	}
	for _, g := range s.summary.Groups {
		if g.States == states {
			writeJSON(w, g)
			return
		}
	}
	http.Error(w, fmt.Sprintf("no trials with %d states", states), http.StatusNotFound)
}

func (s *Server) chartHandler(w http.ResponseWriter, r *http.Request) {
	opts := s.opts
	opts.Format = mux.Vars(r)["format"]
	renderer, err := chart.New(opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, s.summary.Series); err != nil {
		if errors.Is(err, chart.ErrNoData) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("rendering chart: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", chart.ContentType(opts.Format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to marshal response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
