// Package rediscache keeps resolved links in Redis so that hot codes don't
// hit the link store on every resolve.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/d3ce1t/turtlelink/api"
	"github.com/redis/go-redis/v9"
)

const opTimeout = time.Second

type LinkCache struct {
	client *redis.Client
	prefix string
}

func NewLinkCache(client *redis.Client) *LinkCache {
	return &LinkCache{client: client, prefix: "link:"}
}

// Dial creates a client for addr and checks that the server answers.
func Dial(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %v: %w", addr, err)
	}
	return client, nil
}

func (c *LinkCache) key(code string) string {
	return c.prefix + code
}

// Get returns nil, nil on a cache miss.
func (c *LinkCache) Get(code string) (*api.LinkDTO, error) {

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	val, err := c.client.Get(ctx, c.key(code)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	link := &api.LinkDTO{}
	if err := json.Unmarshal(val, link); err != nil {
		return nil, err
	}

	return link, nil
}

func (c *LinkCache) Set(link *api.LinkDTO, ttl time.Duration) error {

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := json.Marshal(link)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.key(link.Code), data, ttl).Err()
}

func (c *LinkCache) Invalidate(code string) error {

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return c.client.Del(ctx, c.key(code)).Err()
}
