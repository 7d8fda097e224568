package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"marketplace_back_end/internal/config"

	"github.com/redis/go-redis/v9"
)

// Store regroupe tous les accès Redis du serveur
type Store struct {
	rdb *redis.Client
}

// New enveloppe un client déjà connecté (miniredis dans les tests)
func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Connect ouvre la connexion Redis et vérifie qu'elle répond
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("REDIS_HOST non configuré")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("impossible de se connecter à Redis: %w", err)
	}

	log.Println("✅ Redis connecté avec succès")
	return client, nil
}

// Client expose le client brut (pub/sub des messages)
func (s *Store) Client() *redis.Client {
	return s.rdb
}

// --- Cache générique ---

// SetCache stocke une valeur dans le cache
func (s *Store) SetCache(ctx context.Context, key string, value interface{}, duration time.Duration) error {
	return s.rdb.Set(ctx, key, value, duration).Err()
}

// GetCache récupère une valeur du cache ; ok est faux si la clé est absente
func (s *Store) GetCache(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// DeleteCache supprime une ou plusieurs clés
func (s *Store) DeleteCache(ctx context.Context, keys ...string) error {
	return s.rdb.Del(ctx, keys...).Err()
}

// --- Rate Limiting ---

// IncrementRateLimit incrémente le compteur et (re)pose sa fenêtre
func (s *Store) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// GetRateLimit récupère le compteur de rate limit
func (s *Store) GetRateLimit(ctx context.Context, key string) (int64, error) {
	val, err := s.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return val, err
}

// Cooldown renvoie le temps restant d'un blocage, 0 si aucun
func (s *Store) Cooldown(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// StartCooldown bloque la clé pendant d duration et remet le compteur à zéro
func (s *Store) StartCooldown(ctx context.Context, cooldownKey, counterKey string, d time.Duration) error {
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, cooldownKey, "1", d)
	pipe.Del(ctx, counterKey)
	_, err := pipe.Exec(ctx)
	return err
}
