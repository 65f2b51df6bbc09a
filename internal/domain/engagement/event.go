// Package engagement defines the recent-activity events fed to analytics.
package engagement

import (
	"fmt"
	"time"

	annvo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
)

type Action string

const (
	ActionView        Action = "view"
	ActionLike        Action = "like"
	ActionShare       Action = "share"
	ActionClick       Action = "click"
	ActionAcknowledge Action = "acknowledge"
	ActionComment     Action = "comment"
)

var actionCounters = map[Action]annvo.Counter{
	ActionView:        annvo.CounterViews,
	ActionLike:        annvo.CounterLikes,
	ActionShare:       annvo.CounterShares,
	ActionClick:       annvo.CounterClicks,
	ActionAcknowledge: annvo.CounterAcknowledges,
}

func (a Action) IsValid() bool {
	_, ok := actionCounters[a]
	return ok || a == ActionComment
}

// Counter returns the persisted counter bumped by this action. Comments have none.
func (a Action) Counter() (annvo.Counter, bool) {
	c, ok := actionCounters[a]
	return c, ok
}

func NewAction(s string) (Action, error) {
	a := Action(s)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid engagement action: %s", s)
	}
	return a, nil
}

// AllActions lists actions in reporting order.
func AllActions() []Action {
	return []Action{ActionView, ActionLike, ActionShare, ActionClick, ActionAcknowledge, ActionComment}
}

type Event struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	AnnouncementID uint           `json:"announcement_id"`
	Action         Action         `json:"action"`
	Timestamp      time.Time      `json:"timestamp"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}
