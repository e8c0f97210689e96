package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/pressroom/internal/auth"
	"github.com/listenupapp/pressroom/internal/config"
	"github.com/listenupapp/pressroom/internal/feed"
	"github.com/listenupapp/pressroom/internal/identity"
	"github.com/listenupapp/pressroom/internal/logger"
	"github.com/listenupapp/pressroom/internal/service"
)

// ProvideIdentityService provides the user resolution service.
func ProvideIdentityService(i do.Injector) (*service.IdentityService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewIdentityService(storeHandle.Store, cfg.Identity.BootstrapAdmins, log.Logger), nil
}

// ProvideAuthService provides the session exchange service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	verifier := do.MustInvoke[*identity.Verifier](i)
	identityService := do.MustInvoke[*service.IdentityService](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, verifier, identityService, tokenService, log.Logger), nil
}

// ProvidePostService provides the post workflow service.
func ProvidePostService(i do.Injector) (*service.PostService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPostService(storeHandle.Store, searchService, sseHandle.Manager, log.Logger), nil
}

// ProvideCategoryService provides the category service.
func ProvideCategoryService(i do.Injector) (*service.CategoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCategoryService(storeHandle.Store, searchService, sseHandle.Manager, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchService := do.MustInvoke[*service.SearchService](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, searchService, sseHandle.Manager, log.Logger), nil
}

// ProvideFeedService provides the RSS, sitemap and robots renderer.
func ProvideFeedService(i do.Injector) (*service.FeedService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	site := feed.Site{
		Name:        cfg.Site.Name,
		Description: cfg.Site.Description,
		URL:         cfg.Site.URL,
	}
	return service.NewFeedService(storeHandle.Store, site, cfg.Site.FeedSize, log.Logger), nil
}
