package product

import (
	"marketplace_back_end/internal/cache"
	"marketplace_back_end/internal/repository"
	"marketplace_back_end/internal/services"
)

// Deps : Search et Images sont nil quand Elasticsearch / MinIO ne sont pas configurés
type Deps struct {
	Products   repository.ProductRepository
	Pictures   repository.PictureRepository
	Favourites repository.FavouriteRepository
	Ratings    repository.RatingRepository
	Cache      *cache.Store
	Search     services.ProductIndex
	Images     services.ImageStore
}

// Handler regroupe produits, photos, favoris et notes
type Handler struct {
	products   repository.ProductRepository
	pictures   repository.PictureRepository
	favourites repository.FavouriteRepository
	ratings    repository.RatingRepository
	cache      *cache.Store
	search     services.ProductIndex
	images     services.ImageStore
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		products:   d.Products,
		pictures:   d.Pictures,
		favourites: d.Favourites,
		ratings:    d.Ratings,
		cache:      d.Cache,
		search:     d.Search,
		images:     d.Images,
	}
}
