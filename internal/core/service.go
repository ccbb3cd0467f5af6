package core

import (
	"context"
	"fmt"
	"sort"
)

// Source retrieves unban requests for one (broadcaster, status) pair.
// The concrete implementation handles pagination; callers get the full
// result set in upstream order.
type Source interface {
	UnbanRequests(ctx context.Context, broadcasterID, moderatorID string, status Status) ([]UnbanRequest, error)
}

// AggregateSorted fetches every status for one broadcaster and returns the
// combined records sorted ascending by creation time. The sort is stable:
// records with equal timestamps keep their per-status fetch order, and
// statuses are fetched in the fixed Statuses order. Delivery order to the
// webhook depends on this, so the sort must stay stable.
func AggregateSorted(ctx context.Context, src Source, broadcasterID, moderatorID string) ([]UnbanRequest, error) {
	var all []UnbanRequest
	for _, status := range Statuses {
		recs, err := src.UnbanRequests(ctx, broadcasterID, moderatorID, status)
		if err != nil {
			return nil, fmt.Errorf("fetch %s requests: %w", status, err)
		}
		all = append(all, recs...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all, nil
}
