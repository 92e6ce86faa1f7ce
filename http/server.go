package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/scrape"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server is forcibly closed.
const ShutdownTimeout = 10 * time.Second

// maxRequestSize caps the size of a POST /scrape body.
const maxRequestSize = 1 << 20

//go:embed index.html
var indexHTML []byte

// Server exposes page extraction over HTTP.
//
//	GET  /         HTML form
//	POST /scrape   JSON extraction API
//	GET  /healthz  liveness check
type Server struct {
	server *http.Server
	router *http.ServeMux
	logger *slog.Logger

	// Addr is the bind address, e.g. ":5000".
	Addr string

	Scraper scrape.PageScraper
}

// NewServer returns a new Server with routes registered.
func NewServer(scraper scrape.PageScraper, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		router:  http.NewServeMux(),
		logger:  logger,
		Scraper: scraper,
	}
	s.router.HandleFunc("GET /{$}", s.handleIndex)
	s.router.HandleFunc("GET /healthz", s.handleHealth)
	s.router.HandleFunc("POST /scrape", s.handleScrape)

	s.server = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// ServeHTTP routes the request and logs its outcome.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	begin := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.router.ServeHTTP(rec, r)
	s.logger.Info("http request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(begin),
	)
}

// Run listens on Addr and serves until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("listening", "addr", ln.Addr().String())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// scrapeRequest is the POST /scrape body.
type scrapeRequest struct {
	URL       string            `json:"url"`
	Container string            `json:"container"`
	Selectors []selectorRequest `json:"selectors"`
}

type selectorRequest struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	Attribute string `json:"attribute,omitempty"`
}

// selectorMap converts the request list, skipping incomplete entries.
// A repeated key replaces the earlier selector.
func (req *scrapeRequest) selectorMap() scrape.SelectorMap {
	var m scrape.SelectorMap
	for _, sel := range req.Selectors {
		key := strings.TrimSpace(sel.Key)
		value := strings.TrimSpace(sel.Value)
		if key == "" || value == "" {
			continue
		}
		m.Set(scrape.Selector{Field: key, Query: value, Attr: strings.TrimSpace(sel.Attribute)})
	}
	return m
}

type scrapeResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Data    []scrape.Record `json:"data"`
	URL     string          `json:"url"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	url := strings.TrimSpace(req.URL)
	container := strings.TrimSpace(req.Container)
	if url == "" || container == "" {
		writeError(w, http.StatusBadRequest, "URL and container are required")
		return
	}

	selectors := req.selectorMap()
	if len(selectors) == 0 {
		writeError(w, http.StatusBadRequest, "At least one selector is required")
		return
	}

	rs, err := s.Scraper.ScrapePage(r.Context(), url, container, selectors)
	if err != nil {
		s.logger.Warn("scrape failed", "url", url, "err", err)
		writeError(w, http.StatusInternalServerError, errorText(err))
		return
	}

	writeJSON(w, http.StatusOK, &scrapeResponse{
		Success: true,
		Count:   rs.Count,
		Data:    rs.Records,
		URL:     rs.URL,
	})
}

// errorText returns the message of an application error, or the raw
// error text for anything else.
func errorText(err error) string {
	var e *scrape.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, &errorResponse{Success: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
