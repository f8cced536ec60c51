package api

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"pdftutor/file"
	"pdftutor/tutor"

	"go.uber.org/zap"
)

//go:embed web/index.html
var indexHTML string

type Extractor interface {
	Extract(ctx context.Context, doc file.Document) (*file.ExtractionResult, error)
}

type Tutor interface {
	Teach(ctx context.Context, req tutor.Request) (*tutor.Response, error)
}

// Server exposes extraction and tutoring over HTTP and serves the single page UI.
type Server struct {
	extractor Extractor
	tutor     Tutor
	logger    *zap.Logger
	addr      string
	maxUpload int64
	page      *template.Template
}

func NewServer(extractor Extractor, teacher Tutor, logger *zap.Logger, addr string, maxUpload int64) (*Server, error) {
	page, err := template.New("index").Parse(indexHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index page: %w", err)
	}

	return &Server{
		extractor: extractor,
		tutor:     teacher,
		logger:    logger,
		addr:      addr,
		maxUpload: maxUpload,
		page:      page,
	}, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /extract", s.handleExtract)
	mux.HandleFunc("POST /teach", s.handleTeach)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.recoverMiddleware(s.requestMiddleware(mux))
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting API server", zap.String("addr", s.addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
