package repository

import (
	"context"
	"errors"
	"testing"

	"referral_leaderboard/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewWithDB(sqlx.NewDb(db, "sqlmock")), mock
}

func TestRepository_ListEntries(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT id, user_id, referral_count FROM leaderboard ORDER BY referral_count DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "referral_count"}).
			AddRow("a", "alice", 10).
			AddRow("b", "bob", 10).
			AddRow("c", "carol", 5))

	entries, err := repo.ListEntries(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []*model.Entry{
		{ID: "a", UserID: "alice", ReferralCount: 10},
		{ID: "b", UserID: "bob", ReferralCount: 10},
		{ID: "c", UserID: "carol", ReferralCount: 5},
	}, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListEntries_Empty(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT (.+) FROM leaderboard`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "referral_count"}))

	entries, err := repo.ListEntries(context.Background())

	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListEntries_Error(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT (.+) FROM leaderboard`).
		WillReturnError(errors.New("connection refused"))

	entries, err := repo.ListEntries(context.Background())

	assert.Nil(t, entries)
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SetReferralCount(t *testing.T) {
	tests := []struct {
		name        string
		affected    int64
		execErr     error
		expectedErr error
	}{
		{name: "updated", affected: 1},
		{name: "missing entry", affected: 0, expectedErr: ErrNotFound},
		{name: "store failure", execErr: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)

			exp := mock.ExpectExec(`UPDATE leaderboard SET referral_count = (.+) WHERE id = (.+)`).
				WithArgs(4, "a")
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.affected))
			}

			err := repo.SetReferralCount(context.Background(), "a", 4)

			switch {
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
			case tt.execErr != nil:
				assert.ErrorIs(t, err, tt.execErr)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_IncrementReferralCount(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE leaderboard SET referral_count = referral_count \+ 1 WHERE id = (.+) RETURNING referral_count`).
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows([]string{"referral_count"}).AddRow(5))
	mock.ExpectCommit()

	count, err := repo.IncrementReferralCount(context.Background(), "a")

	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_IncrementReferralCount_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE leaderboard SET referral_count`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"referral_count"}))
	mock.ExpectRollback()

	_, err := repo.IncrementReferralCount(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_IncrementReferralCount_RollbackError(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE leaderboard SET referral_count`).
		WithArgs("a").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback().WillReturnError(errors.New("connection lost"))

	_, err := repo.IncrementReferralCount(context.Background(), "a")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rollback error: connection lost")
	assert.Contains(t, err.Error(), "deadlock detected")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateEntry(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`INSERT INTO leaderboard \(id,referral_count,user_id\) VALUES`).
		WithArgs(sqlmock.AnyArg(), 0, "alice").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO leaderboard`).
		WithArgs(sqlmock.AnyArg(), 0, "alice").
		WillReturnResult(sqlmock.NewResult(1, 1))

	first, err := repo.CreateEntry(context.Background(), "alice")
	require.NoError(t, err)
	second, err := repo.CreateEntry(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", first.UserID)
	assert.Equal(t, 0, first.ReferralCount)
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateEntry_Error(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`INSERT INTO leaderboard`).
		WillReturnError(errors.New("read-only transaction"))

	entry, err := repo.CreateEntry(context.Background(), "alice")

	assert.Nil(t, entry)
	assert.ErrorContains(t, err, "failed to insert leaderboard entry")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfig_GetDatabaseURL(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "u", Password: "p", Name: "leaderboard"}
	assert.Equal(t, "postgres://u:p@db:5432/leaderboard?sslmode=disable", cfg.GetDatabaseURL())

	cfg.SSLMode = "require"
	assert.Equal(t, "postgres://u:p@db:5432/leaderboard?sslmode=require", cfg.GetDatabaseURL())
}
