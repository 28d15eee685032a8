// Package http provides the HTTP transport for the conversion service.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/snoai/url2mda"
)

// Server serves the conversion API. The surface is a single GET endpoint:
// query parameters select the conversion options, the Content-Type header
// selects the response shape, and a missing url parameter yields the usage
// page.
type Server struct {
	server  *http.Server
	router  *http.ServeMux
	service url2mda.Service
	logger  *slog.Logger
}

// NewServer creates a Server around the given conversion service.
func NewServer(service url2mda.Service, logger *slog.Logger) *Server {
	s := &Server{
		router:  http.NewServeMux(),
		service: service,
		logger:  logger,
	}
	s.router.HandleFunc("/", s.handleConvert)
	return s
}

// Start listens on addr and serves until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the root handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	q := r.URL.Query()
	rawURL := q.Get("url")
	if rawURL == "" {
		s.writeUsage(w)
		return
	}

	mode := url2mda.ModeText
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		mode = url2mda.ModeJSON
	}

	req := &url2mda.Request{
		URL:           rawURL,
		Detailed:      q.Get("htmlDetails") == "true",
		LLMFilter:     q.Get("llmFilter") == "true",
		CrawlSubpages: q.Get("subpages") == "true",
		Mode:          mode,
		CallerKey:     callerIP(r),
		AuthToken:     bearerToken(r),
	}

	requestID := uuid.New().String()
	start := time.Now()

	batch, err := s.service.Convert(r.Context(), req)
	if err != nil {
		s.logger.Error("conversion failed",
			"request_id", requestID,
			"url", rawURL,
			"error", err,
		)
		writeError(w, statusFromCode(url2mda.ErrorCode(err)), url2mda.ErrorMessage(err))
		return
	}

	status := http.StatusOK
	if batch.Degraded() {
		status = http.StatusTooManyRequests
	}

	s.logger.Info("converted",
		"request_id", requestID,
		"url", rawURL,
		"results", len(batch.Results),
		"status", status,
		"elapsed", time.Since(start),
	)

	if mode == url2mda.ModeJSON {
		writeJSON(w, status, batch.Results)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if len(batch.Results) > 0 {
		_, _ = w.Write([]byte(batch.Results[0].Markdown))
	}
}

func (s *Server) writeUsage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(usagePage))
}

// statusFromCode maps application error codes to HTTP status codes.
func statusFromCode(code string) int {
	switch code {
	case url2mda.EINVALID:
		return http.StatusBadRequest
	case url2mda.ENOTFOUND:
		return http.StatusNotFound
	case url2mda.ERATELIMIT:
		return http.StatusTooManyRequests
	case url2mda.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case url2mda.EUNAVAILABLE:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// callerIP extracts the caller identity for rate limiting: the first
// X-Forwarded-For hop when present, otherwise the connection address.
func callerIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func bearerToken(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}
