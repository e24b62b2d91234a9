package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/expenseflow/internal/expense/domain"
	"github.com/aussiebroadwan/expenseflow/internal/expense/store"
	"github.com/aussiebroadwan/expenseflow/internal/expense/store/drivers/sqlite/gen"
)

type signingKeysRepo struct {
	q *gen.Queries
}

func (r *signingKeysRepo) CreateSigningKey(ctx context.Context, key domain.SigningKey) error {
	err := r.q.CreateSigningKey(ctx, gen.CreateSigningKeyParams{
		ID:                  key.ID,
		Kid:                 key.Kid,
		Algorithm:           key.Algorithm,
		PrivateKeyEncrypted: key.PrivateKeyEncrypted,
		CreatedAt:           toMillis(key.CreatedAt),
		RetiredAt:           mapOptionalTime(key.RetiredAt),
		ExpiresAt:           mapOptionalTime(key.ExpiresAt),
	})
	return mapConstraint(err)
}

func (r *signingKeysRepo) ListAllSigningKeys(ctx context.Context) ([]domain.SigningKey, error) {
	rows, err := r.q.ListAllSigningKeys(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]domain.SigningKey, len(rows))
	for i, row := range rows {
		keys[i] = mapSigningKey(row)
	}
	return keys, nil
}

// RetireSigningKey returns ErrNotFound when kid is unknown or already retired.
func (r *signingKeysRepo) RetireSigningKey(ctx context.Context, kid string, retiredAt, expiresAt time.Time) error {
	n, err := r.q.RetireSigningKey(ctx, gen.RetireSigningKeyParams{
		RetiredAt: sql.NullInt64{Int64: toMillis(retiredAt), Valid: true},
		ExpiresAt: sql.NullInt64{Int64: toMillis(expiresAt), Valid: true},
		Kid:       kid,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *signingKeysRepo) DeleteExpiredSigningKeys(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredSigningKeys(ctx, sql.NullInt64{Int64: toMillis(now), Valid: true})
}

func mapSigningKey(row gen.SigningKey) domain.SigningKey {
	return domain.SigningKey{
		ID:                  row.ID,
		Kid:                 row.Kid,
		Algorithm:           row.Algorithm,
		PrivateKeyEncrypted: row.PrivateKeyEncrypted,
		CreatedAt:           fromMillis(row.CreatedAt),
		RetiredAt:           mapNullTimePtr(row.RetiredAt),
		ExpiresAt:           mapNullTimePtr(row.ExpiresAt),
	}
}
