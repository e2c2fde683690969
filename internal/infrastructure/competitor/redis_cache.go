package competitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"melidash/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const redisKeyPrefix = "melidash:competitors:"

// RedisCache shares offers between instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

type redisOffer struct {
	CompetitorName  string    `json:"competitorName"`
	CompetitorPrice float64   `json:"competitorPrice"`
	LastUpdated     time.Time `json:"lastUpdated"`
	Availability    bool      `json:"availability"`
}

func (r *RedisCache) Get(ctx context.Context, productID string) ([]entity.CompetitorData, bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+productID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("redis.Get: %w", err)
	}

	var offers []redisOffer
	if err := json.Unmarshal(raw, &offers); err != nil {
		return nil, false, fmt.Errorf("json.Unmarshal: %w", err)
	}

	data := make([]entity.CompetitorData, 0, len(offers))
	for _, o := range offers {
		data = append(data, entity.CompetitorData{
			ProductID:       productID,
			CompetitorName:  o.CompetitorName,
			CompetitorPrice: o.CompetitorPrice,
			LastUpdated:     o.LastUpdated,
			Availability:    o.Availability,
		})
	}

	return data, true, nil
}

func (r *RedisCache) Set(ctx context.Context, productID string, data []entity.CompetitorData) error {
	offers := make([]redisOffer, 0, len(data))
	for _, d := range data {
		offers = append(offers, redisOffer{
			CompetitorName:  d.CompetitorName,
			CompetitorPrice: d.CompetitorPrice,
			LastUpdated:     d.LastUpdated,
			Availability:    d.Availability,
		})
	}

	raw, err := json.Marshal(offers)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := r.client.Set(ctx, redisKeyPrefix+productID, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis.Set: %w", err)
	}

	return nil
}

func (r *RedisCache) Delete(ctx context.Context, productID string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+productID).Err(); err != nil {
		return fmt.Errorf("redis.Del: %w", err)
	}

	return nil
}
