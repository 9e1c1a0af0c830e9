package redis

import (
	"context"
	"errors"

	"go-candidate-scout/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

type kvStore struct {
	client *goredis.Client
}

func NewKVStore(client *goredis.Client) domain.KeyValueStore {
	return &kvStore{client: client}
}

func (s *kvStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Set stores without expiry; the accepted list lives until explicitly removed.
func (s *kvStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *kvStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
