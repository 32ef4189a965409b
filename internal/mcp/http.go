// ABOUTME: Stateless HTTP transport: one POST endpoint per MCP method, always HTTP 200.
// ABOUTME: chi router with request ids, panic recovery and request logging.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// Routes returns the HTTP handler:
//
//	POST /mcp/initialize
//	POST /mcp/tools/list
//	POST /mcp/tools/call
//	GET  /healthz
//
// The endpoint fixes the method; a method member in the body is ignored.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/mcp", func(r chi.Router) {
		r.Post("/initialize", s.endpoint(MethodInitialize))
		r.Post("/tools/list", s.endpoint(MethodToolsList))
		r.Post("/tools/call", s.endpoint(MethodToolsCall))
	})
	return r
}

// endpoint answers one MCP method. Unreadable or malformed bodies get a -1
// error with id 0 rather than an HTTP error status.
func (s *Server) endpoint(method string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
		if err != nil {
			s.invalidBody(w, r, method, err)
			return
		}

		req, err := parseRequest(body, false)
		if err != nil {
			s.invalidBody(w, r, method, err)
			return
		}
		req.Method = method

		s.writeResponse(w, r, s.Handle(r.Context(), TransportHTTP, req))
	}
}

func (s *Server) invalidBody(w http.ResponseWriter, r *http.Request, method string, err error) {
	s.logger.Warn("invalid request body",
		"method", method,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	s.writeResponse(w, r, errorResponse(NoID, "Invalid request body: "+err.Error()))
}

func (s *Server) writeResponse(w http.ResponseWriter, r *http.Request, resp Response) {
	data, err := encodeJSON(resp)
	if err != nil {
		s.logger.Error("encoding response", "error", err)
		data, _ = encodeJSON(errorResponse(resp.ID, fmt.Sprintf("Internal error: %v", err)))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("writing response", "request_id", middleware.GetReqID(r.Context()), "error", err)
	}
}

// requestLog logs each HTTP request at debug level.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// ListenAndServe serves Routes on addr until ctx is cancelled, then shuts down
// gracefully. The bound address is logged once listening.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener. It closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Routes(),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http transport listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http transport")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http: %w", err)
	}
	return nil
}
