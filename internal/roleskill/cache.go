package roleskill

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL = 10 * time.Minute
	allSkillsKey    = "roleskills:skills:all"
)

// Cache keeps the distinct skill list in Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ SkillCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Get returns (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context) ([]string, error) {
	data, err := c.client.Get(ctx, allSkillsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var skills []string
	if err := json.Unmarshal(data, &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

func (c *Cache) Set(ctx context.Context, skills []string) error {
	if skills == nil {
		skills = []string{}
	}
	data, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, allSkillsKey, data, c.ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, allSkillsKey).Err()
}
