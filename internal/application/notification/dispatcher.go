// Package notification fans published announcements out to interested
// subscribers over every enabled channel.
package notification

import (
	"context"
	"errors"
	"time"

	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	annvo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
	"github.com/rewardsboard/eventcast/internal/domain/subscriber"
	"github.com/rewardsboard/eventcast/internal/shared/goroutine"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// SubscriberSource returns the subscriptions interested in a type and category.
type SubscriberSource interface {
	Candidates(t annvo.AnnouncementType, category string) []subscriber.Subscription
}

// AudienceMatcher decides segment membership for targeted announcements.
type AudienceMatcher interface {
	Matches(ctx context.Context, userID string, target []string) (bool, error)
}

// Dispatcher never returns an error: every failure is logged and counted in
// the report so that a notification outage cannot fail a publish.
type Dispatcher struct {
	subscribers SubscriberSource
	matcher     AudienceMatcher
	channels    []Channel
	now         func() time.Time
	logger      logger.Interface
}

func NewDispatcher(
	subscribers SubscriberSource,
	matcher AudienceMatcher,
	channels []Channel,
	logger logger.Interface,
) *Dispatcher {
	return &Dispatcher{
		subscribers: subscribers,
		matcher:     matcher,
		channels:    channels,
		now:         time.Now,
		logger:      logger,
	}
}

// Notify selects interested subscribers, narrows them to the target audience
// and delivers to each over its enabled channels.
func (d *Dispatcher) Notify(ctx context.Context, p Payload) DispatchReport {
	var report DispatchReport
	if p.Announcement == nil {
		d.logger.Warnw("notify called without announcement")
		return report
	}
	ann := p.Announcement

	candidates := d.subscribers.Candidates(ann.Type(), ann.Category())
	report.Candidates = len(candidates)

	target := p.TargetAudience
	if target == nil {
		target = ann.TargetAudience()
	}
	targeted := d.filterAudience(ctx, ann.ID(), candidates, target)
	report.Targeted = len(targeted)

	msg := newMessage(p, d.now())
	for _, sub := range targeted {
		for _, ch := range d.channels {
			if !ch.Enabled(sub) {
				continue
			}
			switch err := d.deliver(ctx, ch, sub, msg); {
			case err == nil:
				report.Delivered++
			case errors.Is(err, ErrNotConnected):
				report.Skipped++
			default:
				report.Failed++
				d.logger.Warnw("notification delivery failed",
					"channel", ch.Name(),
					"user_id", sub.UserID,
					"announcement_id", ann.ID(),
					"error", err,
				)
			}
		}
	}

	d.logger.Infow("notification dispatched",
		"announcement_id", ann.ID(),
		"kind", msg.Kind,
		"candidates", report.Candidates,
		"targeted", report.Targeted,
		"delivered", report.Delivered,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report
}

// NotifyUrgent dispatches with priority forced to urgent.
func (d *Dispatcher) NotifyUrgent(ctx context.Context, ann *announcement.Announcement) DispatchReport {
	return d.Notify(ctx, Payload{Kind: KindUrgent, Announcement: ann, Priority: annvo.PriorityUrgent})
}

// NotifyFeatured dispatches featured announcements with priority high and is
// a no-op for anything else.
func (d *Dispatcher) NotifyFeatured(ctx context.Context, ann *announcement.Announcement) DispatchReport {
	if ann == nil || !ann.IsFeatured() {
		return DispatchReport{}
	}
	return d.Notify(ctx, Payload{Kind: KindFeatured, Announcement: ann, Priority: annvo.PriorityHigh})
}

// NotifyPublished picks the dispatch flavour for a newly published
// announcement: urgent priority first, then featured, then a plain notify.
func (d *Dispatcher) NotifyPublished(ctx context.Context, ann *announcement.Announcement) DispatchReport {
	switch {
	case ann == nil:
		return DispatchReport{}
	case ann.Priority() == annvo.PriorityUrgent:
		return d.NotifyUrgent(ctx, ann)
	case ann.IsFeatured():
		return d.NotifyFeatured(ctx, ann)
	default:
		return d.Notify(ctx, Payload{Kind: KindAnnouncement, Announcement: ann})
	}
}

func (d *Dispatcher) filterAudience(ctx context.Context, annID uint, candidates []subscriber.Subscription, target []string) []subscriber.Subscription {
	if subscriber.TargetsEveryone(target) || d.matcher == nil {
		return candidates
	}

	out := make([]subscriber.Subscription, 0, len(candidates))
	for _, sub := range candidates {
		ok, err := d.matcher.Matches(ctx, sub.UserID, target)
		if err != nil {
			d.logger.Warnw("audience lookup failed, skipping subscriber",
				"user_id", sub.UserID,
				"announcement_id", annID,
				"error", err,
			)
			continue
		}
		if ok {
			out = append(out, sub)
		}
	}
	return out
}

// deliver runs one channel delivery with panic recovery.
func (d *Dispatcher) deliver(ctx context.Context, ch Channel, sub subscriber.Subscription, msg Message) error {
	var deliverErr error
	if err := goroutine.Run(d.logger, "notification-"+ch.Name(), func() {
		deliverErr = ch.Deliver(ctx, sub, msg)
	}); err != nil {
		return err
	}
	return deliverErr
}
