package ledger

import (
	"context"
	"sync"
)

// Ledger records which unban request ids have already been relayed, making
// dispatch idempotent: an id that is marked is never notified again.
// Entries are never removed; a failed send leaves its id unmarked so the
// next run picks it up.
type Ledger interface {
	Seen(ctx context.Context, id string) (bool, error)
	MarkSent(ctx context.Context, id string) error
}

// Memory is the default ledger, scoped to one process lifetime. The mutex
// matters only when a scheduled run overlaps a slow previous one.
type Memory struct {
	mu   sync.Mutex
	sent map[string]struct{}
}

func NewMemory() *Memory {
	return &Memory{sent: make(map[string]struct{})}
}

func (m *Memory) Seen(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sent[id]
	return ok, nil
}

func (m *Memory) MarkSent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[id] = struct{}{}
	return nil
}
