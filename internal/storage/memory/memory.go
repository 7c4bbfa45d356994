package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"moneybot/internal/core"
	"moneybot/internal/ports"
)

var _ ports.Store = (*Store)(nil)

// Store keeps transactions in process memory.
type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Transaction
	now    func() time.Time
}

func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock uses now for the recorded-at timestamp of every insert.
func NewWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

// Insert stores the transaction, assigning its id and timestamp.
func (s *Store) Insert(_ context.Context, userID string, kind core.Kind, memo string, amount core.Money) error {
	t := core.Transaction{UserID: userID, Kind: kind, Memo: memo, Amount: amount}
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t.ID = s.nextID
	t.RecordedAt = s.now().UTC().Truncate(time.Second)
	s.items = append(s.items, t)
	return nil
}

func (s *Store) DeleteAll(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	var n int64
	for _, t := range s.items {
		if t.UserID == userID {
			n++
			continue
		}
		kept = append(kept, t)
	}
	s.items = kept
	return n, nil
}

func (s *Store) SelectAll(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.items {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) SelectRecent(ctx context.Context, userID string, limit int) ([]core.Transaction, error) {
	out, _ := s.SelectAll(ctx, userID)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].RecordedAt.After(out[j].RecordedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len returns the number of stored transactions across all users.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
