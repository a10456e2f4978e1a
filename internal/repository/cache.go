package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/impuestosrd/impuestosrd-api/internal/config"
	"github.com/impuestosrd/impuestosrd-api/internal/logging"
	"github.com/impuestosrd/impuestosrd-api/internal/models"
)

const (
	contactoKeyPrefix     = "contacto:"
	contactoListKeyPrefix = "contactos:list:"
	contactoListVersion   = "contactos:list:version"
	defaultCacheTTL       = 5 * time.Minute
)

// RedisContactoCache implements ContactoCache using Redis.
type RedisContactoCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewRedisClient creates a Redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisContactoCache creates a new Redis-based contact cache.
func NewRedisContactoCache(client *redis.Client, ttl time.Duration) *RedisContactoCache {
	if ttl == 0 {
		ttl = defaultCacheTTL
	}

	return &RedisContactoCache{
		client: client,
		ttl:    ttl,
		logger: logging.NewLogger("contacto-cache"),
	}
}

func contactoKey(id int64) string {
	return contactoKeyPrefix + strconv.FormatInt(id, 10)
}

func contactoListKey(version int64) string {
	return contactoListKeyPrefix + strconv.FormatInt(version, 10)
}

// Get retrieves a contact from cache.
func (c *RedisContactoCache) Get(ctx context.Context, id int64) (*models.Contacto, error) {
	data, err := c.client.Get(ctx, contactoKey(id)).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss", logging.Fields{"contacto_id": id})
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Cache get error", logging.Fields{
			"contacto_id": id,
			"error":       err.Error(),
		})
		return nil, err
	}

	var contacto models.Contacto
	if err := json.Unmarshal(data, &contacto); err != nil {
		return nil, err
	}

	c.logger.Debug("Cache hit", logging.Fields{"contacto_id": id})
	return &contacto, nil
}

// Set stores a contact in cache.
func (c *RedisContactoCache) Set(ctx context.Context, contacto *models.Contacto) error {
	data, err := json.Marshal(contacto)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, contactoKey(contacto.ID), data, c.ttl).Err(); err != nil {
		c.logger.Error("Cache set error", logging.Fields{
			"contacto_id": contacto.ID,
			"error":       err.Error(),
		})
		return err
	}

	c.logger.Debug("Contacto cached", logging.Fields{
		"contacto_id": contacto.ID,
		"ttl":         c.ttl.String(),
	})
	return nil
}

// ListVersion returns the current listing version, 0 before any write.
func (c *RedisContactoCache) ListVersion(ctx context.Context) (int64, error) {
	v, err := c.client.Get(ctx, contactoListVersion).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

// GetList retrieves the contact listing cached under version.
func (c *RedisContactoCache) GetList(ctx context.Context, version int64) ([]*models.Contacto, error) {
	data, err := c.client.Get(ctx, contactoListKey(version)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var contactos []*models.Contacto
	if err := json.Unmarshal(data, &contactos); err != nil {
		return nil, err
	}

	return contactos, nil
}

// SetList caches the contact listing under version.
func (c *RedisContactoCache) SetList(ctx context.Context, version int64, contactos []*models.Contacto) error {
	data, err := json.Marshal(contactos)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, contactoListKey(version), data, c.ttl).Err()
}

// InvalidateList bumps the listing version. Listings stored under older
// versions are never read again and expire with their TTL.
func (c *RedisContactoCache) InvalidateList(ctx context.Context) error {
	return c.client.Incr(ctx, contactoListVersion).Err()
}
