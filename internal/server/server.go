package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"courseportal/internal/config"
	"courseportal/internal/metrics"
	rtr "courseportal/internal/router"
	"courseportal/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang/glog"
	"github.com/rs/cors"
)

const shutdownTimeout = 5 * time.Second

func Routes(cfg *config.ServerConfig, sessions *session.Manager, h *rtr.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger, // Log page requests
		middleware.Recoverer,
		metrics.Middleware,
	)
	router.NotFound(sessions.Middleware(http.HandlerFunc(h.NotFound)).ServeHTTP)

	h.HealthRoutes(router)
	if cfg.MetricsEnabled {
		router.Handle("/metrics", metrics.Handler())
	}

	// Pages: every request carries a session and state changes need a CSRF token.
	router.Group(func(r chi.Router) {
		r.Use(sessions.Middleware, session.VerifyCSRF)

		h.PageRoutes(r)
		r.Mount("/auth", h.AuthRoutes())
		r.Mount("/courses", h.CourseRoutes())
		r.Mount("/profile", h.ProfileRoutes())
		r.Mount("/admin", h.AdminRoutes())
	})

	return router
}

// Handler wraps the routes with the CORS policy.
func Handler(cfg *config.ServerConfig, routes http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedHeaders:   []string{"Cookie", "Content-Type", "X-CSRF-Token"},
		AllowedMethods:   []string{"GET", "POST"},
		ExposedHeaders:   []string{"Set-Cookie"},
		AllowCredentials: true,
	})
	return c.Handler(routes)
}

// Start serves handler on the configured port until ctx is canceled, then shuts down gracefully.
func Start(ctx context.Context, cfg *config.ServerConfig, handler http.Handler) error {
	if cfg == nil {
		return errors.New("missing or invalid configuration")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", cfg.Port),
		Handler:           Handler(cfg, handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		glog.Infof("Server is listening on port %v\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	glog.Infoln("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
