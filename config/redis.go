package config

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

type RedisOptions = redis.Options

// RedisStore keeps the document under a single key of a redis server.
type RedisStore struct {
	Client *redis.Client
	Key    string
}

func NewRedisStore(options RedisOptions, namespace string) *RedisStore {
	return NewRedisStoreFromClient(redis.NewClient(&options), namespace)
}

func NewRedisStoreFromClient(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{
		Client: client,
		Key:    namespace + ":config",
	}
}

func (s *RedisStore) Read(ctx context.Context) ([]byte, error) {
	data, err := s.Client.Get(ctx, s.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, eris.Wrapf(ErrDocumentNotFound, "no value at key %q", s.Key)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "failed to get key %q", s.Key)
	}
	return data, nil
}

func (s *RedisStore) Write(ctx context.Context, data []byte) error {
	if err := s.Client.Set(ctx, s.Key, data, 0).Err(); err != nil {
		return eris.Wrapf(err, "failed to set key %q", s.Key)
	}
	return nil
}

func (s *RedisStore) Close() error {
	if err := s.Client.Close(); err != nil {
		return eris.Wrap(err, "failed to close redis client")
	}
	return nil
}
