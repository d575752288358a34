package repository

import (
	"context"
	"sort"
	"sync"

	"referral_leaderboard/internal/model"

	"github.com/google/uuid"
)

// MemoryRepository keeps the collection in process. It is meant for local
// runs and tests; ties keep insertion order.
type MemoryRepository struct {
	mu      sync.Mutex
	entries []model.Entry
}

func NewMemory(seed ...model.Entry) *MemoryRepository {
	entries := make([]model.Entry, len(seed))
	copy(entries, seed)
	return &MemoryRepository{entries: entries}
}

func (r *MemoryRepository) Close() error {
	return nil
}

func (r *MemoryRepository) ListEntries(ctx context.Context) ([]*model.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.Entry, len(r.entries))
	for i := range r.entries {
		e := r.entries[i]
		out[i] = &e
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReferralCount > out[j].ReferralCount
	})

	return out, nil
}

func (r *MemoryRepository) SetReferralCount(ctx context.Context, id string, count int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	r.entries[i].ReferralCount = count

	return nil
}

func (r *MemoryRepository) IncrementReferralCount(ctx context.Context, id string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return 0, ErrNotFound
	}
	r.entries[i].ReferralCount++

	return r.entries[i].ReferralCount, nil
}

func (r *MemoryRepository) CreateEntry(ctx context.Context, userID string) (*model.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry := model.Entry{ID: uuid.NewString(), UserID: userID}
	r.entries = append(r.entries, entry)

	return &entry, nil
}

// Delete removes an entry. Nothing in the leaderboard exposes deletion; it
// stands in for another client removing a row.
func (r *MemoryRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(id); i >= 0 {
		r.entries = append(r.entries[:i], r.entries[i+1:]...)
	}
}

func (r *MemoryRepository) indexOf(id string) int {
	for i, e := range r.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
