package api

import "github.com/listenupapp/pressroom/internal/service"

// Services groups all business logic services used by the API server.
type Services struct {
	Post     *service.PostService
	Category *service.CategoryService
	Tag      *service.TagService
	Identity *service.IdentityService
	Auth     *service.AuthService
	Search   *service.SearchService
	Feed     *service.FeedService
}
