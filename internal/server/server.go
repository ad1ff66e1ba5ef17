package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/interviewnotes/internal/auth"
	"github.com/wolfeidau/interviewnotes/internal/interview"
	"github.com/wolfeidau/interviewnotes/internal/logger"
	"github.com/wolfeidau/interviewnotes/internal/login"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Options configures the HTTP surface.
type Options struct {
	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string

	// AuthRateLimit is the number of login and register attempts allowed per client IP per minute.
	// Zero disables the limit.
	AuthRateLimit int

	// Tracing wraps the handler with OpenTelemetry HTTP instrumentation.
	Tracing bool
}

// Server wires the interview and login services to the REST API.
type Server struct {
	interviews    *interview.Service
	login         *login.Service
	authenticator *auth.Authenticator
	opts          Options
}

// NewServer creates a server over the given services.
func NewServer(interviews *interview.Service, loginSvc *login.Service, authenticator *auth.Authenticator, opts Options) *Server {
	return &Server{
		interviews:    interviews,
		login:         loginSvc,
		authenticator: authenticator,
		opts:          opts,
	}
}

// Handler returns the HTTP handler for the server
func (s *Server) Handler(log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(logger.RequestLogger(log))
	r.Use(chimid.Recoverer)
	r.Use(chimid.AllowContentType("application/json"))
	r.Use(s.authenticator.Middleware())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "", "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusMethodNotAllowed, "", "method not allowed")
	})

	// Health check endpoint for load balancer
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if s.opts.AuthRateLimit > 0 {
				r.Use(rateLimit(s.opts.AuthRateLimit, time.Minute))
			}
			r.Post("/login", s.handleLogin)
			r.Post("/register", s.handleRegister)
		})
		r.Get("/me", s.handleCurrentUser)
	})

	r.Route("/api/interviews", func(r chi.Router) {
		r.Get("/", s.handleListInterviews)
		r.Post("/", s.handleCreateInterview)
		r.Get("/candidate/{candidateID}", s.handleListByCandidate)
		r.Get("/interviewer/{interviewerID}", s.handleListByInterviewer)
		r.Get("/status/{status}", s.handleListByStatus)
		r.Get("/position/{position}", s.handleListByPosition)
		r.Get("/{id}", s.handleGetInterview)
		r.Put("/{id}", s.handleUpdateInterview)
		r.Delete("/{id}", s.handleDeleteInterview)
	})

	var handler http.Handler = gzhttp.GzipHandler(r)

	handler = cors.New(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         3600,
	}).Handler(handler)

	if s.opts.Tracing {
		handler = otelhttp.NewHandler(handler, "interviewnotes",
			otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/health" }),
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}

	return handler
}

func rateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeErr(w, http.StatusTooManyRequests, "", "too many requests, try again later")
		}),
	)
}
