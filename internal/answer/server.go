package answer

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/longkey1/chatbox/internal/chatbox"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

const (
	RequestIDHeader = "X-Request-ID"

	maxRequestBodyBytes = 1 << 20
)

// request/response bodies

type answerRequest struct {
	Prompt *string `json:"prompt"`
}

type answerResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Server serves the answering endpoint
type Server struct {
	answerer chatbox.Answerer
	origins  []string
	logger   zerolog.Logger
}

// ServerOption customizes a Server
type ServerOption func(*Server)

// WithAllowedOrigins sets the CORS origins; "*" allows any origin.
func WithAllowedOrigins(origins []string) ServerOption {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithServerLogger sets the access logger
func WithServerLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer returns the HTTP handler for POST /answer and GET /healthz.
// Every response carries the server's request id in X-Request-ID; the
// caller's own X-Request-ID is logged and handed to the answerer.
func NewServer(answerer chatbox.Answerer, opts ...ServerOption) http.Handler {
	s := &Server{
		answerer: answerer,
		logger:   log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /answer", s.handleAnswer)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	var h http.Handler = s.corsHandler().Handler(mux)
	h = hlog.AccessHandler(accessLog)(h)
	h = hlog.CustomHeaderHandler("client_request_id", RequestIDHeader)(h)
	h = hlog.RequestIDHandler("request_id", RequestIDHeader)(h)
	h = hlog.RemoteAddrHandler("remote")(h)
	h = hlog.URLHandler("url")(h)
	h = hlog.MethodHandler("method")(h)
	return hlog.NewHandler(s.logger)(h)
}

func (s *Server) corsHandler() *cors.Cors {
	opts := cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
		Logger:           &s.logger,
	}
	// credentials cannot be combined with a literal "*", so any origin is
	// echoed back instead. An empty list allows nothing.
	switch {
	case slices.Contains(s.origins, "*"):
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(string) bool { return true }
	case len(s.origins) == 0:
		opts.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(opts)
}

func accessLog(r *http.Request, status, size int, elapsed time.Duration) {
	hlog.FromRequest(r).Info().
		Int("status", status).
		Int("size", size).
		Dur("elapsed", elapsed).
		Msg("request handled")
}

// requestID prefers the id sent by the caller over the generated one.
func requestID(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		return id
	}
	if id, ok := hlog.IDFromRequest(r); ok {
		return id.String()
	}
	return ""
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Prompt == nil {
		writeError(w, http.StatusUnprocessableEntity, "field required: prompt")
		return
	}

	ctx := chatbox.WithRequestID(r.Context(), requestID(r))
	reply, err := s.answerer.Answer(ctx, *req.Prompt)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, answerResponse{Response: reply})
	case errors.Is(err, ErrEmptyPrompt):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrNoContext):
		writeError(w, http.StatusNotFound, "No relevant context found")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("answer failed")
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error generating answer: %v", err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
