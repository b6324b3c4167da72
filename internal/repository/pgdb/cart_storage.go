package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/futburguer-cart/pkg/e"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/DRSN-tech/futburguer-cart/pkg/tr"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

// Операции, фиксируемые в журнале cart_audit
const (
	auditSet    = "set"
	auditRemove = "remove"
)

// Pool — часть *pgxpool.Pool, которой пользуется хранилище
type Pool interface {
	transaction.Transactional
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CartStorage хранит текст корзины в таблице cart_entries.
// Каждая запись и удаление выполняются в транзакции вместе со строкой журнала.
type CartStorage struct {
	pool   Pool
	logger logger.Logger
}

func NewCartStorage(pool Pool, logger logger.Logger) *CartStorage {
	return &CartStorage{
		pool:   pool,
		logger: logger,
	}
}

func (s *CartStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	query := `SELECT value FROM cart_entries WHERE key = $1;`

	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}

		return "", false, e.Wrap(whereami.WhereAmI(), err)
	}

	return value, true, nil
}

// Set перезаписывает корзину и увеличивает её ревизию
func (s *CartStorage) Set(ctx context.Context, key, value string) error {
	return s.inTx(ctx, func(ctx context.Context) error {
		revision, err := s.upsertEntry(ctx, key, value)
		if err != nil {
			return err
		}

		return s.insertAudit(ctx, key, auditSet, revision)
	})
}

// Remove удаляет корзину. Отсутствующий ключ журналируется с нулевой ревизией.
func (s *CartStorage) Remove(ctx context.Context, key string) error {
	return s.inTx(ctx, func(ctx context.Context) error {
		revision, err := s.deleteEntry(ctx, key)
		if err != nil {
			return err
		}

		return s.insertAudit(ctx, key, auditRemove, revision)
	})
}

func (s *CartStorage) inTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, s.pool)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Warnf("cart transaction rollback failed: %v", rbErr)
			}
		}
	}()

	if err = fn(tr.WithTx(ctx, tx.Transaction().(pgx.Tx))); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (s *CartStorage) upsertEntry(ctx context.Context, key, value string) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	var revision int64
	query := `
	INSERT INTO cart_entries (key, value)
	VALUES ($1, $2)
	ON CONFLICT (key)
	DO UPDATE SET value = EXCLUDED.value,
	              revision = cart_entries.revision + 1,
	              updated_at = NOW()
	RETURNING revision;
	`

	if err := tx.QueryRow(ctx, query, key, value).Scan(&revision); err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return revision, nil
}

func (s *CartStorage) deleteEntry(ctx context.Context, key string) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	var revision int64
	query := `DELETE FROM cart_entries WHERE key = $1 RETURNING revision;`

	err = tx.QueryRow(ctx, query, key).Scan(&revision)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return revision, nil
}

func (s *CartStorage) insertAudit(ctx context.Context, key, action string, revision int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `INSERT INTO cart_audit (cart_key, action, revision) VALUES ($1, $2, $3);`
	if _, err := tx.Exec(ctx, query, key, action, revision); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
