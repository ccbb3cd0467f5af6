package worker

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/phoen88/TwitchBAPL-logs/internal/core"
	"github.com/phoen88/TwitchBAPL-logs/internal/metrics"
)

type DispatchOptions struct {
	ChunkSize       int // records per chunk
	ChunksPerMinute int // outbound ceiling toward the webhook
}

const (
	DefaultChunkSize       = 3
	DefaultChunksPerMinute = 20
)

// Dispatcher walks a sorted record list in fixed-size chunks, sending each
// record through the Notifier. Chunk admission goes through a rate limiter
// sized to the webhook's ceiling: the first chunk passes immediately, each
// later chunk waits out the interval. Sends inside a chunk are sequential
// with no pause. This is a fixed-rate governor; it does not adapt to
// webhook response codes.
type Dispatcher struct {
	notifier  *Notifier
	chunkSize int
	pace      func(ctx context.Context) error
}

func NewDispatcher(n *Notifier, opt DispatchOptions) *Dispatcher {
	chunkSize := opt.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	cpm := opt.ChunksPerMinute
	if cpm <= 0 {
		cpm = DefaultChunksPerMinute
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(cpm)), 1)
	return &Dispatcher{
		notifier:  n,
		chunkSize: chunkSize,
		pace:      limiter.Wait,
	}
}

// DispatchAll notifies every record in order. An error aborts the walk;
// records already marked in the ledger stay marked, the rest surface again
// on the next run.
func (d *Dispatcher) DispatchAll(ctx context.Context, recs []core.UnbanRequest) error {
	for start := 0; start < len(recs); start += d.chunkSize {
		if err := d.pace(ctx); err != nil {
			return err
		}
		end := start + d.chunkSize
		if end > len(recs) {
			end = len(recs)
		}
		for _, rec := range recs[start:end] {
			if err := d.notifier.Notify(ctx, rec); err != nil {
				return fmt.Errorf("notify request %s: %w", rec.ID, err)
			}
		}
		metrics.DispatchChunks.Inc()
	}
	return nil
}
