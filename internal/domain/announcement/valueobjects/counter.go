package valueobjects

// Counter names one of the authoritative engagement counters kept on an announcement.
type Counter string

const (
	CounterViews        Counter = "view_count"
	CounterLikes        Counter = "like_count"
	CounterShares       Counter = "share_count"
	CounterClicks       Counter = "click_count"
	CounterAcknowledges Counter = "acknowledge_count"
)

func (c Counter) IsValid() bool {
	switch c {
	case CounterViews, CounterLikes, CounterShares, CounterClicks, CounterAcknowledges:
		return true
	}
	return false
}

// Column returns the persistence column backing the counter.
func (c Counter) Column() string {
	return string(c)
}
