package worker

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/phoen88/TwitchBAPL-logs/internal/core"
	"github.com/phoen88/TwitchBAPL-logs/internal/metrics"
)

// Runner drives one relay pass over all configured broadcasters.
type Runner struct {
	source       core.Source
	dispatcher   *Dispatcher
	moderatorID  string
	broadcasters []string
	log          *logrus.Logger
}

func NewRunner(source core.Source, dispatcher *Dispatcher, moderatorID string, broadcasters []string, log *logrus.Logger) *Runner {
	return &Runner{
		source:       source,
		dispatcher:   dispatcher,
		moderatorID:  moderatorID,
		broadcasters: broadcasters,
		log:          log,
	}
}

// Run aggregates and dispatches per broadcaster. A failure in one
// broadcaster is logged and never stops the others.
func (r *Runner) Run(ctx context.Context) {
	for _, broadcasterID := range r.broadcasters {
		blog := r.log.WithField("broadcaster_id", broadcasterID)
		blog.Info("fetching unban requests")

		recs, err := core.AggregateSorted(ctx, r.source, broadcasterID, r.moderatorID)
		if err != nil {
			metrics.ChannelRuns.WithLabelValues("error").Inc()
			blog.WithError(err).Error("aggregate failed")
			continue
		}
		blog.WithField("records", len(recs)).Info("dispatching")

		if err := r.dispatcher.DispatchAll(ctx, recs); err != nil {
			metrics.ChannelRuns.WithLabelValues("error").Inc()
			blog.WithError(err).Error("dispatch failed")
			continue
		}
		metrics.ChannelRuns.WithLabelValues("ok").Inc()
	}
}
