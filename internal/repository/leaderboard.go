package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"referral_leaderboard/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Entry struct {
	ID            string `db:"id"`
	UserID        string `db:"user_id"`
	ReferralCount int    `db:"referral_count"`
}

func (r *Repository) ListEntries(ctx context.Context) ([]*model.Entry, error) {
	query, args, err := squirrel.
		Select("id", "user_id", "referral_count").
		From(leaderboardTable).
		OrderBy("referral_count DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard select query: %w", err)
	}

	var rows []Entry
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaderboard entries: %w", err)
	}

	entries := make([]*model.Entry, len(rows))
	for i, row := range rows {
		entries[i] = &model.Entry{
			ID:            row.ID,
			UserID:        row.UserID,
			ReferralCount: row.ReferralCount,
		}
	}

	return entries, nil
}

func (r *Repository) SetReferralCount(ctx context.Context, id string, count int) error {
	query, args, err := squirrel.
		Update(leaderboardTable).
		Set("referral_count", count).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build referral count update query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update referral count: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Repository) IncrementReferralCount(ctx context.Context, id string) (int, error) {
	var count int

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Update(leaderboardTable).
			Set("referral_count", squirrel.Expr("referral_count + 1")).
			Where(squirrel.Eq{"id": id}).
			Suffix("RETURNING referral_count").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build referral count increment query: %w", err)
		}

		err = tx.GetContext(ctx, &count, query, args...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to increment referral count: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *Repository) CreateEntry(ctx context.Context, userID string) (*model.Entry, error) {
	entry := &model.Entry{
		ID:            uuid.NewString(),
		UserID:        userID,
		ReferralCount: 0,
	}

	query, args, err := squirrel.
		Insert(leaderboardTable).
		SetMap(map[string]interface{}{
			"id":             entry.ID,
			"user_id":        entry.UserID,
			"referral_count": entry.ReferralCount,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert leaderboard entry: %w", err)
	}

	return entry, nil
}
