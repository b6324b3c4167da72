package redis

import (
	"context"
	"errors"

	"github.com/DRSN-tech/futburguer-cart/pkg/clients"
	"github.com/DRSN-tech/futburguer-cart/pkg/e"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CartStorage хранит сырой текст корзины в Redis без TTL: корзина живёт, пока её не очистят.
type CartStorage struct {
	client *clients.RedisClient
	logger logger.Logger
}

func NewCartStorage(client *clients.RedisClient, logger logger.Logger) *CartStorage {
	return &CartStorage{
		client: client,
		logger: logger,
	}
}

// Get возвращает значение по ключу; отсутствие ключа не считается ошибкой
func (s *CartStorage) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return "", false, nil
		}

		s.logger.Warnf("Redis GET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return "", false, e.Wrap(whereami.WhereAmI(), err)
	}

	return val, true, nil
}

// Set перезаписывает корзину целиком
func (s *CartStorage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Client.Set(ctx, key, value, 0).Err(); err != nil {
		s.logger.Warnf("Redis SET failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Remove удаляет корзину; удаление отсутствующего ключа успешно
func (s *CartStorage) Remove(ctx context.Context, key string) error {
	if err := s.client.Client.Del(ctx, key).Err(); err != nil {
		s.logger.Warnf("Redis DEL failed: %v", e.Wrap(whereami.WhereAmI(), err))
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
