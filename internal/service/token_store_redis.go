package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sandeepkv93/dexnote-client/internal/domain"
)

type RedisTokenStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisTokenStore(client redis.UniversalClient, prefix string) *RedisTokenStore {
	if prefix == "" {
		prefix = "dexnote"
	}
	return &RedisTokenStore{client: client, prefix: prefix}
}

func (s *RedisTokenStore) Backend() string { return "redis" }

func (s *RedisTokenStore) Load(ctx context.Context) (string, error) {
	if s.client == nil {
		return "", ErrTokenNotFound
	}
	token, err := s.client.Get(ctx, s.key()).Result()
	if errors.Is(err, redis.Nil) || (err == nil && token == "") {
		recordTokenOp(ctx, s.Backend(), "load", ErrTokenNotFound)
		return "", ErrTokenNotFound
	}
	recordTokenOp(ctx, s.Backend(), "load", err)
	if err != nil {
		return "", fmt.Errorf("redis get token: %w", err)
	}
	return token, nil
}

func (s *RedisTokenStore) Save(ctx context.Context, token string) error {
	if s.client == nil {
		return nil
	}
	err := s.client.Set(ctx, s.key(), token, 0).Err()
	recordTokenOp(ctx, s.Backend(), "save", err)
	if err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Delete(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	err := s.client.Del(ctx, s.key()).Err()
	recordTokenOp(ctx, s.Backend(), "delete", err)
	if err != nil {
		return fmt.Errorf("redis del token: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) key() string {
	return fmt.Sprintf("%s:%s", s.prefix, domain.TokenKey)
}
