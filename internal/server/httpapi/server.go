// Package httpapi exposes the hub's REST API: registration and login,
// owner-scoped device CRUD, the cached-catalog operations, and the
// auto-update settings. Responses use the {detail} error envelope with
// field-error arrays for validation failures.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/scalehub/internal/logging"
	"github.com/dmitrijs2005/scalehub/internal/server/config"
	"github.com/dmitrijs2005/scalehub/internal/server/services"
)

// gracefulShutdownTimeout caps how long in-flight requests may run once the
// server is asked to stop.
const gracefulShutdownTimeout = 10 * time.Second

type Server struct {
	address   string
	jwtSecret []byte
	logger    logging.Logger
	users     *services.UserService
	devices   *services.DeviceService
	products  *services.ProductService
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, ds *services.DeviceService, ps *services.ProductService) *Server {
	return &Server{
		address:   cfg.EndpointAddr,
		jwtSecret: []byte(cfg.SecretKey),
		logger:    l.With("module", "http_server"),
		users:     us,
		devices:   ds,
		products:  ps,
	}
}

// Handler builds the route tree. Auth endpoints and the health check are
// open; everything under /devices requires a bearer token.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)

	r.Get("/healthz", s.handleHealthz)
	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Post("/", s.handleCreateDevice)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDevice)
				r.Put("/", s.handleUpdateDevice)
				r.Delete("/", s.handleDeleteDevice)

				r.Get("/products", s.handleFetchProducts)
				r.Get("/products/cached", s.handleCachedProducts)
				r.Patch("/products/{plu}", s.handlePatchProduct)
				r.Post("/upload", s.handlePushProducts)

				r.Get("/auto-update", s.handleGetAutoUpdate)
				r.Put("/auto-update", s.handleSetAutoUpdate)
			})
		})
	})

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
