package subscriber

import (
	"context"
	"strings"
)

// AudienceAll in a target audience list addresses every interested subscriber.
const AudienceAll = "all"

// NormalizeSegment is the canonical form of a segment name, both when it is
// stored and when it appears in a target audience.
func NormalizeSegment(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// TargetsEveryone reports whether a target audience addresses all subscribers.
func TargetsEveryone(target []string) bool {
	if len(target) == 0 {
		return true
	}
	for _, entry := range target {
		if NormalizeSegment(entry) == AudienceAll {
			return true
		}
	}
	return false
}

// SegmentRepository resolves the audience segments a user belongs to.
type SegmentRepository interface {
	ListSegments(ctx context.Context, userID string) ([]string, error)
	Assign(ctx context.Context, userID, segment string) error
	Remove(ctx context.Context, userID, segment string) error
}
