package api

import (
	"github.com/shioriapp/shiori-server/internal/cache"
	"github.com/shioriapp/shiori-server/internal/media/images"
	"github.com/shioriapp/shiori-server/internal/search"
	"github.com/shioriapp/shiori-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Auth    *service.AuthService
	Profile *service.ProfileService
	Likes   *service.LikesService
	Explore *service.ExploreService
}

// Infra groups the storage components the server reads directly.
// Any field may be nil; health reports it as not configured.
type Infra struct {
	Cache  *cache.Cache
	Index  *search.BoardIndex
	Covers *images.Storage
}
