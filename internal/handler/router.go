package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth  *AuthHandler
	Tasks *TaskHandler
	Theme *ThemeHandler
}

func NewRouter(h Handlers, auth Authenticator, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser(auth))

			r.Post("/auth/logout", h.Auth.Logout)
			r.Get("/auth/me", h.Auth.Me)

			r.Get("/tasks", h.Tasks.List)
			r.Post("/tasks", h.Tasks.Create)
			r.Put("/tasks", h.Tasks.ReplaceAll)
			r.Get("/tasks/{id}", h.Tasks.Get)
			r.Patch("/tasks/{id}", h.Tasks.Update)
			r.Delete("/tasks/{id}", h.Tasks.Delete)
			r.Put("/tasks/{id}/status", h.Tasks.SetStatus)

			r.Get("/board", h.Tasks.Board)
			r.Post("/board/drop", h.Tasks.Drop)

			r.Get("/theme", h.Theme.Get)
			r.Put("/theme", h.Theme.Set)
			r.Post("/theme/toggle", h.Theme.Toggle)
		})
	})
	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
