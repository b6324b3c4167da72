package usecase

import "context"

// CartStorage — ключ-значение хранилище сырого текста корзины.
// Get возвращает found=false, если ключа нет.
type CartStorage interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
