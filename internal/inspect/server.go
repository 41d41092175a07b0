package inspect

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/gatefx/internal/errors"
	"github.com/vango-dev/gatefx/pkg/reactive"
	"github.com/vango-dev/gatefx/pkg/scenario"
)

// Config configures the inspector.
type Config struct {
	// Addr is the listen address for ListenAndServe.
	Addr string

	// Gatherer serves /metrics. Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// Observer is attached to every replay.
	Observer reactive.Observer

	// AllowedOrigins limits WebSocket origins. Empty allows any origin.
	AllowedOrigins []string

	Logger *slog.Logger
}

// Server is the inspector HTTP server.
type Server struct {
	config     Config
	hub        *Hub
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates an inspector server.
func New(config Config) *Server {
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: config,
		hub:    NewHub(config.AllowedOrigins, logger),
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", s.hub.HandleWebSocket)
	r.Post("/replay", s.handleReplay)

	s.router = r
	return s
}

// Handler returns the inspector's router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe serves until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("inspector listening", "addr", s.config.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		return err
	}
}

// Stop closes WebSocket clients and shuts the HTTP server down.
func (s *Server) Stop() {
	s.hub.Close()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

// replayResponse is the body of POST /replay.
type replayResponse struct {
	Report *scenario.Report `json:"report,omitempty"`
	Error  string           `json:"error,omitempty"`
	Code   string           `json:"code,omitempty"`
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, scenario.MaxScenarioSize))
	if err != nil {
		s.writeJSON(w, http.StatusRequestEntityTooLarge, replayResponse{Error: err.Error()})
		return
	}

	source := r.URL.Query().Get("name")
	if source == "" {
		source = "request"
	}

	sc, err := scenario.Parse(body, scenario.FormatFromContentType(r.Header.Get("Content-Type")), source)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse(nil, err))
		return
	}

	report, err := scenario.Run(r.Context(), sc,
		scenario.WithRunID(uuid.NewString()),
		scenario.WithObserver(s.config.Observer),
		scenario.WithLogger(s.logger.With("request_id", middleware.GetReqID(r.Context()))),
		scenario.WithCycleHook(s.hub.Broadcast),
	)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, replayResponse{Report: report})
	case stderrors.Is(err, scenario.ErrComparatorPanic):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse(report, err))
	case stderrors.Is(err, scenario.ErrRenderPanic):
		s.writeJSON(w, http.StatusInternalServerError, errorResponse(report, err))
	case stderrors.Is(err, context.Canceled):
		// client went away
	default:
		s.writeJSON(w, http.StatusBadRequest, errorResponse(report, err))
	}
}

func errorResponse(report *scenario.Report, err error) replayResponse {
	resp := replayResponse{Report: report, Error: err.Error()}
	var ge *errors.GateError
	if stderrors.As(err, &ge) {
		resp.Code = ge.Code
	}
	return resp
}

// writeJSON encodes v before writing the header so an unencodable value
// becomes a 500 instead of an empty success.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.logger.Error("response not encodable", "error", err)
		buf.Reset()
		json.NewEncoder(&buf).Encode(replayResponse{Error: "response not encodable: " + err.Error()})
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
