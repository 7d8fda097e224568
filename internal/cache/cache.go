package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"marketplace_back_end/internal/models"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// remember lit key dans Redis, sinon appelle load puis met le résultat en cache.
// Redis indisponible n'est jamais bloquant : on retombe sur load.
func remember[T any](ctx context.Context, s *Store, key string, ttl time.Duration, load func(context.Context) (*T, error)) (*T, error) {
	if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var v T
		if json.Unmarshal(data, &v) == nil {
			return &v, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if jsonData, err := json.Marshal(v); err == nil {
		if err := s.rdb.Set(ctx, key, jsonData, ttl).Err(); err != nil {
			log.Printf("⚠️ Mise en cache de %s échouée: %v", key, err)
		}
	}
	return v, nil
}

// GetUser récupère un utilisateur depuis Redis ou, à défaut, via load (ScyllaDB)
func (s *Store) GetUser(ctx context.Context, userID string, load func(context.Context, string) (*models.User, error)) (*models.User, error) {
	return remember(ctx, s, "user:"+userID, UserCacheTTL, func(ctx context.Context) (*models.User, error) {
		return load(ctx, userID)
	})
}

// InvalidateUserCache invalide le cache d'un utilisateur
func (s *Store) InvalidateUserCache(ctx context.Context, userID string) {
	s.rdb.Del(ctx, "user:"+userID)
}

// GetProduct récupère un produit depuis Redis ou via load
func (s *Store) GetProduct(ctx context.Context, productID string, load func(context.Context, string) (*models.Product, error)) (*models.Product, error) {
	return remember(ctx, s, "product:"+productID, ProductCacheTTL, func(ctx context.Context) (*models.Product, error) {
		return load(ctx, productID)
	})
}

// InvalidateProductCache invalide le cache d'un produit
func (s *Store) InvalidateProductCache(ctx context.Context, productIDs ...string) {
	if len(productIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, "product:"+id)
	}
	s.rdb.Del(ctx, keys...)
}
