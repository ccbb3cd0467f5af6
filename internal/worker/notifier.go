package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/phoen88/TwitchBAPL-logs/internal/core"
	"github.com/phoen88/TwitchBAPL-logs/internal/discord"
	"github.com/phoen88/TwitchBAPL-logs/internal/ledger"
	"github.com/phoen88/TwitchBAPL-logs/internal/metrics"
)

// Sender delivers one rendered embed to the destination webhook.
type Sender interface {
	Send(ctx context.Context, e discord.Embed) error
}

// ProfileSource resolves broadcaster ids to profile image URLs.
type ProfileSource interface {
	ProfileImageURL(ctx context.Context, broadcasterID string) (string, error)
}

// Notifier renders and sends one unban request, marking it in the ledger
// after a successful send so repeated runs stay idempotent.
type Notifier struct {
	sender   Sender
	profiles ProfileSource
	ledger   ledger.Ledger
	log      *logrus.Logger

	// Profile images rarely change; one lookup per broadcaster per
	// process is enough.
	icons map[string]string
}

func NewNotifier(sender Sender, profiles ProfileSource, led ledger.Ledger, log *logrus.Logger) *Notifier {
	return &Notifier{
		sender:   sender,
		profiles: profiles,
		ledger:   led,
		log:      log,
		icons:    make(map[string]string),
	}
}

// Notify sends the notification for rec unless the ledger already has it.
// The ledger is written only after the webhook accepted the message: a
// failed send leaves the record eligible for the next run.
func (n *Notifier) Notify(ctx context.Context, rec core.UnbanRequest) error {
	seen, err := n.ledger.Seen(ctx, rec.ID)
	if err != nil {
		return fmt.Errorf("ledger lookup %s: %w", rec.ID, err)
	}
	if seen {
		metrics.WebhookSendTotal.WithLabelValues("skipped").Inc()
		n.log.WithField("request_id", rec.ID).Debug("already relayed, skipping")
		return nil
	}

	icon, err := n.iconFor(ctx, rec.BroadcasterID)
	if err != nil {
		return fmt.Errorf("profile image for %s: %w", rec.BroadcasterID, err)
	}

	embed := discord.BuildEmbed(rec, icon)

	start := time.Now()
	if err := n.sender.Send(ctx, embed); err != nil {
		metrics.WebhookSendTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.WebhookSendTotal.WithLabelValues("sent").Inc()
	metrics.WebhookSendDuration.Observe(time.Since(start).Seconds())

	if err := n.ledger.MarkSent(ctx, rec.ID); err != nil {
		return fmt.Errorf("ledger mark %s: %w", rec.ID, err)
	}
	return nil
}

func (n *Notifier) iconFor(ctx context.Context, broadcasterID string) (string, error) {
	if icon, ok := n.icons[broadcasterID]; ok {
		return icon, nil
	}
	icon, err := n.profiles.ProfileImageURL(ctx, broadcasterID)
	if err != nil {
		return "", err
	}
	n.icons[broadcasterID] = icon
	return icon, nil
}
