package cache

import (
	"container/list"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// Policy is the TTL and capacity applied to one key category.
type Policy struct {
	TTL      time.Duration
	MaxItems int
}

type categoryPolicy struct {
	name   string
	marker string
	Policy
}

const defaultCategory = "default"

// DefaultPolicy applies to keys that match no category marker.
var DefaultPolicy = Policy{TTL: 300 * time.Second, MaxItems: 1000}

// categoryPolicies is matched in order by substring of the key.
var categoryPolicies = []categoryPolicy{
	{"announcement", "announcement:", Policy{300 * time.Second, 500}},
	{"published", "published", Policy{180 * time.Second, 1}},
	{"featured", "featured", Policy{600 * time.Second, DefaultPolicy.MaxItems}},
	{"popular", "popular", Policy{900 * time.Second, 10}},
	{"trending", "trending", Policy{1800 * time.Second, 10}},
	{"categories", "categories", Policy{3600 * time.Second, DefaultPolicy.MaxItems}},
	{"tags", "tags", Policy{3600 * time.Second, DefaultPolicy.MaxItems}},
	{"statistics", "statistics", Policy{300 * time.Second, DefaultPolicy.MaxItems}},
	{"types", "types", Policy{86400 * time.Second, DefaultPolicy.MaxItems}},
}

// announcementListPattern covers every list-shaped entry derived from announcements.
var announcementListPattern = regexp.MustCompile(`^(published|featured|popular|trending|categories|tags|statistics|type:|category:)`)

// Broadcaster relays invalidation patterns to peer instances.
type Broadcaster interface {
	PublishInvalidation(ctx context.Context, pattern string) error
}

type entry struct {
	value     any
	createdAt time.Time
	ttl       time.Duration
	category  string
	elem      *list.Element
}

func (e *entry) expired(now time.Time) bool {
	return now.Sub(e.createdAt) > e.ttl
}

// ContentCache is an in-process TTL cache with per-category policies.
// On overflow a category evicts its oldest inserted entry (FIFO); reads do
// not refresh an entry's position.
type ContentCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	order   map[string]*list.List // insertion order of keys per category
	hits    int64
	misses  int64

	group       singleflight.Group
	broadcaster Broadcaster
	now         func() time.Time
	logger      logger.Interface
}

type Option func(*ContentCache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *ContentCache) { c.now = now }
}

// WithBroadcaster publishes every pattern invalidation to peers.
func WithBroadcaster(b Broadcaster) Option {
	return func(c *ContentCache) { c.broadcaster = b }
}

func NewContentCache(log logger.Interface, opts ...Option) *ContentCache {
	c := &ContentCache{
		entries: make(map[string]*entry),
		order:   make(map[string]*list.List),
		now:     time.Now,
		logger:  log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PolicyFor resolves the category and policy of key.
func PolicyFor(key string) (string, Policy) {
	for _, p := range categoryPolicies {
		if strings.Contains(key, p.marker) {
			return p.name, p.Policy
		}
	}
	return defaultCategory, DefaultPolicy
}

// Get returns the cached value. Expired entries are removed and reported as misses.
func (c *ContentCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if e.expired(c.now()) {
		c.removeLocked(key, e)
		c.misses++
		return nil, false
	}
	c.hits++
	return e.value, true
}

// Set stores value under key. A zero ttl uses the category TTL.
func (c *ContentCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweepLocked(now)

	category, policy := PolicyFor(key)
	if ttl <= 0 {
		ttl = policy.TTL
	}

	// an overwrite counts as a fresh insertion
	if old, ok := c.entries[key]; ok {
		c.removeLocked(key, old)
	}

	keys := c.order[category]
	if keys == nil {
		keys = list.New()
		c.order[category] = keys
	}
	for policy.MaxItems > 0 && keys.Len() >= policy.MaxItems {
		oldest := keys.Front().Value.(string)
		c.removeLocked(oldest, c.entries[oldest])
		c.logger.Debugw("cache category full, evicted oldest entry",
			"category", category,
			"evicted_key", oldest,
		)
	}

	e := &entry{value: value, createdAt: now, ttl: ttl, category: category}
	e.elem = keys.PushBack(key)
	c.entries[key] = e
}

// Delete removes key and reports whether it was present.
func (c *ContentCache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.removeLocked(key, e)
	return true
}

// ClearByPattern deletes every key matching pattern and returns how many
// were removed. The pattern is relayed to peers when a broadcaster is set.
func (c *ContentCache) ClearByPattern(ctx context.Context, pattern *regexp.Regexp) int {
	n := c.ClearLocal(pattern)
	c.broadcast(ctx, pattern.String())
	return n
}

// ClearLocal deletes matching keys without notifying peers. Invalidations
// received from peers land here.
func (c *ContentCache) ClearLocal(pattern *regexp.Regexp) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, e := range c.entries {
		if pattern.MatchString(key) {
			c.removeLocked(key, e)
			n++
		}
	}
	return n
}

// InvalidateAnnouncementCache clears every list-shaped announcement entry
// and, when id is non-zero, the entry of that announcement.
func (c *ContentCache) InvalidateAnnouncementCache(ctx context.Context, id uint) int {
	n := c.ClearByPattern(ctx, announcementListPattern)
	if id != 0 {
		key := GenerateKey("announcement", id)
		if c.Delete(key) {
			n++
		}
		c.broadcast(ctx, "^"+regexp.QuoteMeta(key)+"$")
	}
	return n
}

// GetOrSet returns the cached value for key, or calls fetch and caches its
// result. Concurrent misses for the same key share one fetch.
func (c *ContentCache) GetOrSet(ctx context.Context, key string, fetch func(context.Context) (any, error), ttl time.Duration) (any, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// another caller may have filled the key while we waited
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, v, ttl)
		return v, nil
	})
	return v, err
}

// Sweep removes all expired entries and returns how many were dropped.
func (c *ContentCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked(c.now())
}

// Stats is a point-in-time view of the cache.
type Stats struct {
	TotalEntries int            `json:"total_entries"`
	ByCategory   map[string]int `json:"by_category"`
	Hits         int64          `json:"hits"`
	Misses       int64          `json:"misses"`
	HitRate      float64        `json:"hit_rate"`
}

func (c *ContentCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		TotalEntries: len(c.entries),
		ByCategory:   make(map[string]int, len(c.order)),
		Hits:         c.hits,
		Misses:       c.misses,
	}
	for category, keys := range c.order {
		if keys.Len() > 0 {
			s.ByCategory[category] = keys.Len()
		}
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total) * 100
	}
	return s
}

// GenerateKey builds "prefix:p1:p2..." deterministically.
func GenerateKey(prefix string, params ...any) string {
	if len(params) == 0 {
		return prefix
	}
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range params {
		b.WriteByte(':')
		b.WriteString(formatKeyPart(p))
	}
	return b.String()
}

func formatKeyPart(p any) string {
	switch v := p.(type) {
	case string:
		return v
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (c *ContentCache) sweepLocked(now time.Time) int {
	n := 0
	for key, e := range c.entries {
		if e.expired(now) {
			c.removeLocked(key, e)
			n++
		}
	}
	return n
}

func (c *ContentCache) removeLocked(key string, e *entry) {
	delete(c.entries, key)
	if keys := c.order[e.category]; keys != nil && e.elem != nil {
		keys.Remove(e.elem)
	}
}

func (c *ContentCache) broadcast(ctx context.Context, pattern string) {
	if c.broadcaster == nil {
		return
	}
	if err := c.broadcaster.PublishInvalidation(ctx, pattern); err != nil {
		c.logger.Warnw("failed to broadcast cache invalidation",
			"pattern", pattern,
			"error", errors.NewTransientError("cache invalidation broadcast", err),
		)
	}
}
