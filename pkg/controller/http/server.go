package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bizmate-ai/bizmate/pkg/usecase"
	"github.com/bizmate-ai/bizmate/pkg/utils/logging"
)

// ChatUseCase is the slice of the usecase layer the server needs
type ChatUseCase interface {
	Chat(ctx context.Context, input *usecase.ChatInput) *usecase.ChatOutput
}

type Server struct {
	router *chi.Mux
	chatUC ChatUseCase
}

func New(chatUC ChatUseCase) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		chatUC: chatUC,
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck // header already committed
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
