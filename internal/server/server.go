package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/hupe1980/dnaclass"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"percent": func(p float64) template.CSS {
		return template.CSS(fmt.Sprintf("%.2f%%", p*100))
	},
}

// Server serves predictions from one immutable Classifier.
type Server struct {
	clf     *dnaclass.Classifier
	opts    options
	pages   *template.Template
	handler http.Handler
}

// New creates a Server for clf.
func New(clf *dnaclass.Classifier, optFns ...Option) (*Server, error) {
	if clf == nil {
		return nil, errors.New("server: nil classifier")
	}

	pages, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("server: parse templates: %w", err)
	}

	s := &Server{
		clf:   clf,
		opts:  applyOptions(optFns),
		pages: pages,
	}
	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /{$}", s.instrument("/", s.admit(http.HandlerFunc(s.handleIndex))))
	mux.Handle("GET /api/predict", s.instrument("/api/predict", s.admit(http.HandlerFunc(s.handlePredict))))
	mux.Handle("POST /api/predict", s.instrument("/api/predict", s.admit(http.HandlerFunc(s.handlePredict))))
	mux.Handle("GET /api/model", s.instrument("/api/model", http.HandlerFunc(s.handleModel)))
	mux.Handle("GET /healthz", http.HandlerFunc(s.handleHealth))
	if s.opts.metrics != nil {
		mux.Handle("GET /metrics", s.opts.metrics.Handler())
	}

	return s.logRequests(mux)
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.opts.logger.InfoContext(gctx, "serving", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.shutdownTimeout)
		defer cancel()
		s.opts.logger.InfoContext(shutdownCtx, "shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
