package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/expenseflow/internal/expense/domain"
	"github.com/aussiebroadwan/expenseflow/internal/expense/store"
	"github.com/aussiebroadwan/expenseflow/internal/expense/store/drivers/sqlite/gen"
)

type sessionsRepo struct {
	q *gen.Queries
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.SessionRecord) error {
	err := r.q.CreateSession(ctx, gen.CreateSessionParams{
		ID:         s.ID,
		UserID:     s.UserID,
		TokenHash:  s.TokenHash,
		Snapshot:   s.Snapshot,
		CreatedAt:  toMillis(s.CreatedAt),
		LastSeenAt: toMillis(s.LastSeenAt),
	})
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.SessionRecord, error) {
	row, err := r.q.GetSession(ctx, id)
	if err != nil {
		return domain.SessionRecord{}, mapNotFound(err)
	}
	return mapSession(row), nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	return r.q.DeleteSession(ctx, id)
}

func (r *sessionsRepo) ListSessions(ctx context.Context) ([]domain.SessionRecord, error) {
	rows, err := r.q.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SessionRecord, len(rows))
	for i, row := range rows {
		out[i] = mapSession(row)
	}
	return out, nil
}

func (r *sessionsRepo) TouchSession(ctx context.Context, id string, at time.Time) error {
	n, err := r.q.TouchSession(ctx, gen.TouchSessionParams{
		LastSeenAt: toMillis(at),
		ID:         id,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *sessionsRepo) DeleteSessionsCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.q.DeleteSessionsCreatedBefore(ctx, toMillis(cutoff))
}

func mapSession(row gen.Session) domain.SessionRecord {
	return domain.SessionRecord{
		ID:         row.ID,
		UserID:     row.UserID,
		TokenHash:  row.TokenHash,
		Snapshot:   row.Snapshot,
		CreatedAt:  fromMillis(row.CreatedAt),
		LastSeenAt: fromMillis(row.LastSeenAt),
	}
}
