package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/moviekeep/moviekeep-server/internal/api"
	"github.com/moviekeep/moviekeep-server/internal/config"
	"github.com/moviekeep/moviekeep-server/internal/logger"
	"github.com/moviekeep/moviekeep-server/internal/ratelimit"
	"github.com/moviekeep/moviekeep-server/internal/service"
)

// RateLimiterHandle wraps the keyed rate limiter with Shutdownable.
// Limiter is nil when rate limiting is disabled by configuration.
type RateLimiterHandle struct {
	Limiter *ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	if h.Limiter != nil {
		h.Limiter.Stop()
	}
	return nil
}

// ProvideRateLimiter provides the per-client API rate limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Limiter.Enabled {
		log.Info("Per-client rate limiting disabled by configuration")
		return &RateLimiterHandle{}, nil
	}

	limiter := ratelimit.New(float64(cfg.Limiter.RPS), cfg.Limiter.Burst)

	log.Info("Per-client rate limiting enabled",
		"rps", cfg.Limiter.RPS,
		"burst", cfg.Limiter.Burst,
	)

	return &RateLimiterHandle{Limiter: limiter}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	limiterHandle := do.MustInvoke[*RateLimiterHandle](i)

	userService := do.MustInvoke[*service.UserService](i)
	movieService := do.MustInvoke[*service.MovieService](i)

	handler := api.NewServer(userService, movieService, limiterHandle.Limiter, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
