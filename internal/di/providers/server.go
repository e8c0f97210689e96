package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/listenupapp/pressroom/internal/api"
	"github.com/listenupapp/pressroom/internal/config"
	"github.com/listenupapp/pressroom/internal/logger"
	"github.com/listenupapp/pressroom/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Post:     do.MustInvoke[*service.PostService](i),
		Category: do.MustInvoke[*service.CategoryService](i),
		Tag:      do.MustInvoke[*service.TagService](i),
		Identity: do.MustInvoke[*service.IdentityService](i),
		Auth:     do.MustInvoke[*service.AuthService](i),
		Search:   do.MustInvoke[*service.SearchService](i),
		Feed:     do.MustInvoke[*service.FeedService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, sseHandle.Manager, api.Options{
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		PostsPerPage:       cfg.Site.PostsPerPage,
		PublicRateLimit:    cfg.RateLimit.Public,
		AuthRateLimit:      cfg.RateLimit.Auth,
	}, log.Logger)

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

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
