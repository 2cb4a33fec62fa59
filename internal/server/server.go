// Package server assembles the wizard's HTTP and WebSocket surface and
// starts the server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/openrentals/listingdesk/internal/event"
	"github.com/openrentals/listingdesk/internal/identity"
	"github.com/openrentals/listingdesk/internal/persist"
	"github.com/openrentals/listingdesk/internal/record"
)

const (
	sessionMaxAge      = 12 * time.Hour
	sessionIdleTimeout = 2 * time.Hour
	cleanupInterval    = 10 * time.Minute
)

// Config holds server configuration.
type Config struct {
	Port     int
	Records  record.Store
	Identity identity.Provider
	Logger   zerolog.Logger
}

// Run starts the server with all routes registered and blocks until the
// context is cancelled or the listener fails.
func Run(ctx context.Context, cfg Config) error {
	log := cfg.Logger

	// The bus gets its own cancel so a listener failure below can stop the
	// consumer; otherwise Wait would block until the signal context fires.
	busCtx, stopBus := context.WithCancel(ctx)
	defer stopBus()

	bus := event.NewBus(256, log)
	bus.Subscribe("log", event.NewLogConsumer(log))
	bus.Start(busCtx)

	coord := persist.NewCoordinator(cfg.Records, log)
	coord.SetPublisher(bus)
	loader := persist.NewLoader(cfg.Records, log)

	sessions := NewSessionManager(sessionMaxAge, sessionIdleTimeout)
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sessions.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()

	wh := NewWizardHandler(sessions, coord, loader, cfg.Identity, log)
	wire := NewWireHandler(sessions, coord, loader, cfg.Identity, log)
	r := newRouter(wh, wire, log)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info().Str("addr", addr).Msg("starting listing wizard server")

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	err := srv.ListenAndServe()
	stopBus()
	bus.Wait()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func newRouter(wh *WizardHandler, wire *WireHandler, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", wh.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", wh.GetSession)
			r.Delete("/", wh.DeleteSession)

			r.Post("/property", wh.ChangeProperty)

			r.Post("/units", wh.AddUnit)
			r.Put("/units/{index}", wh.ChangeUnit)
			r.Delete("/units/{index}", wh.RemoveUnit)
			r.Post("/units/{index}/sync", wh.SyncUnit)

			r.Post("/listings", wh.AddListing)
			r.Put("/listings/{index}", wh.ChangeListing)
			r.Delete("/listings/{index}", wh.RemoveListing)
			r.Post("/listings/{index}/sync", wh.SyncListing)

			r.Post("/next", wh.Next)
			r.Post("/prev", wh.Prev)
			r.Post("/goto", wh.GoTo)
			r.Post("/submit", wh.Submit)
		})
	})

	r.Get("/v1/wire", wire.ServeHTTP)

	return r
}
