// Package audience decides whether a user belongs to an announcement's target audience.
package audience

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/rewardsboard/eventcast/internal/domain/subscriber"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// directPrefix addresses a single user inside a target audience list, e.g. "user:42".
const directPrefix = "user:"

const (
	defaultCacheSize = 10000
	defaultCacheTTL  = 5 * time.Minute
)

// SegmentMatcher matches target audiences against stored segment membership.
// Membership is cached per user with a TTL; writes through the matcher purge
// the cached entry.
type SegmentMatcher struct {
	repo   subscriber.SegmentRepository
	cache  *expirable.LRU[string, []string]
	logger logger.Interface
}

func NewSegmentMatcher(repo subscriber.SegmentRepository, size int, ttl time.Duration, log logger.Interface) *SegmentMatcher {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &SegmentMatcher{
		repo:   repo,
		cache:  expirable.NewLRU[string, []string](size, nil, ttl),
		logger: log,
	}
}

// Matches reports whether userID is addressed by target. An empty target or
// one containing "all" addresses everybody. Entries are compared in their
// normalized form; the id after "user:" is compared verbatim.
func (m *SegmentMatcher) Matches(ctx context.Context, userID string, target []string) (bool, error) {
	if subscriber.TargetsEveryone(target) {
		return true, nil
	}

	wanted := make([]string, 0, len(target))
	for _, entry := range target {
		trimmed := strings.TrimSpace(entry)
		if len(trimmed) >= len(directPrefix) && strings.EqualFold(trimmed[:len(directPrefix)], directPrefix) {
			if trimmed[len(directPrefix):] == userID {
				return true, nil
			}
			continue
		}
		if segment := subscriber.NormalizeSegment(trimmed); segment != "" {
			wanted = append(wanted, segment)
		}
	}
	if len(wanted) == 0 {
		return false, nil
	}

	segments, err := m.Segments(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, segment := range wanted {
		if slices.Contains(segments, segment) {
			return true, nil
		}
	}
	return false, nil
}

// Segments returns the cached or stored segments of userID.
func (m *SegmentMatcher) Segments(ctx context.Context, userID string) ([]string, error) {
	if segments, ok := m.cache.Get(userID); ok {
		return segments, nil
	}

	segments, err := m.repo.ListSegments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load segments for user %s: %w", userID, err)
	}
	if segments == nil {
		segments = []string{}
	}
	m.cache.Add(userID, segments)
	return segments, nil
}

func (m *SegmentMatcher) Assign(ctx context.Context, userID, segment string) error {
	if err := m.repo.Assign(ctx, userID, segment); err != nil {
		return err
	}
	m.cache.Remove(userID)
	m.logger.Debugw("user segment assigned", "user_id", userID, "segment", segment)
	return nil
}

func (m *SegmentMatcher) Remove(ctx context.Context, userID, segment string) error {
	if err := m.repo.Remove(ctx, userID, segment); err != nil {
		return err
	}
	m.cache.Remove(userID)
	m.logger.Debugw("user segment removed", "user_id", userID, "segment", segment)
	return nil
}
