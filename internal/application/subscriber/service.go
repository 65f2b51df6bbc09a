package subscriber

import (
	"context"
	"fmt"
	"strings"

	"github.com/rewardsboard/eventcast/internal/application/subscriber/dto"
	annvo "github.com/rewardsboard/eventcast/internal/domain/announcement/valueobjects"
	"github.com/rewardsboard/eventcast/internal/domain/subscriber"
	"github.com/rewardsboard/eventcast/internal/shared/errors"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// SegmentStore reads and writes audience segment membership.
type SegmentStore interface {
	Segments(ctx context.Context, userID string) ([]string, error)
	Assign(ctx context.Context, userID, segment string) error
	Remove(ctx context.Context, userID, segment string) error
}

// Service is the request-facing side of the registry. It converts DTOs and
// owns audience segment management.
type Service struct {
	registry *Registry
	segments SegmentStore
	logger   logger.Interface
}

func NewService(registry *Registry, segments SegmentStore, logger logger.Interface) *Service {
	return &Service{
		registry: registry,
		segments: segments,
		logger:   logger,
	}
}

func (s *Service) Registry() *Registry {
	return s.registry
}

func (s *Service) Subscribe(ctx context.Context, userID string, req dto.SubscribeRequest) (*dto.SubscriptionResponse, error) {
	s.logger.Infow("subscribing user", "user_id", userID, "types", req.Types, "categories", req.Categories)

	partial := subscriber.Partial{
		Categories:  normalizeCategories(req.Categories),
		Preferences: req.Preferences.ToPatch(),
	}
	if req.Types != nil {
		partial.Types = make([]annvo.AnnouncementType, 0, len(req.Types))
		for _, raw := range req.Types {
			t, err := annvo.NewAnnouncementType(raw)
			if err != nil {
				return nil, errors.NewValidationError("invalid announcement type", raw)
			}
			partial.Types = append(partial.Types, t)
		}
	}

	sub, err := s.registry.Subscribe(userID, partial)
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionResponse(sub), nil
}

// Unsubscribe drops the subscription and closes the user's live connection.
func (s *Service) Unsubscribe(ctx context.Context, userID string) error {
	ok, handle := s.registry.Unsubscribe(userID)
	if handle != nil {
		if closer, canClose := handle.(interface{ Close() }); canClose {
			closer.Close()
		}
	}
	if !ok {
		return errors.NewNotFoundError("subscription not found", userID)
	}
	s.logger.Infow("user unsubscribed", "user_id", userID, "connection_closed", handle != nil)
	return nil
}

// UpdatePreferences returns nil, nil when the user has no subscription; the
// registry treats that case as a no-op.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, req dto.UpdatePreferencesRequest) (*dto.SubscriptionResponse, error) {
	sub, ok := s.registry.UpdatePreferences(userID, req.Preferences.ToPatch())
	if !ok {
		s.logger.Debugw("preferences update ignored, no subscription", "user_id", userID)
		return nil, nil
	}
	return dto.ToSubscriptionResponse(sub), nil
}

func (s *Service) GetSubscription(ctx context.Context, userID string) (*dto.SubscriptionResponse, error) {
	sub, ok := s.registry.Get(userID)
	if !ok {
		return nil, errors.NewNotFoundError("subscription not found", userID)
	}
	return dto.ToSubscriptionResponse(sub), nil
}

func (s *Service) Stats() Stats {
	return s.registry.GetStats()
}

func (s *Service) ListSegments(ctx context.Context, userID string) (*dto.SegmentsResponse, error) {
	segments, err := s.segments.Segments(ctx, userID)
	if err != nil {
		s.logger.Errorw("failed to list user segments", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	if segments == nil {
		segments = []string{}
	}
	return &dto.SegmentsResponse{UserID: userID, Segments: segments}, nil
}

func (s *Service) AssignSegment(ctx context.Context, userID string, req dto.SegmentRequest) (*dto.SegmentsResponse, error) {
	segment, err := normalizeSegment(req.Segment)
	if err != nil {
		return nil, err
	}
	if err := s.segments.Assign(ctx, userID, segment); err != nil {
		s.logger.Errorw("failed to assign segment", "user_id", userID, "segment", segment, "error", err)
		return nil, fmt.Errorf("failed to assign segment: %w", err)
	}
	s.logger.Infow("segment assigned", "user_id", userID, "segment", segment)
	return s.ListSegments(ctx, userID)
}

func (s *Service) RemoveSegment(ctx context.Context, userID, segment string) error {
	segment, err := normalizeSegment(segment)
	if err != nil {
		return err
	}
	if err := s.segments.Remove(ctx, userID, segment); err != nil {
		s.logger.Errorw("failed to remove segment", "user_id", userID, "segment", segment, "error", err)
		return fmt.Errorf("failed to remove segment: %w", err)
	}
	s.logger.Infow("segment removed", "user_id", userID, "segment", segment)
	return nil
}

func normalizeSegment(raw string) (string, error) {
	segment := subscriber.NormalizeSegment(raw)
	if segment == "" {
		return "", errors.NewValidationError("segment is required")
	}
	if segment == subscriber.AudienceAll || strings.HasPrefix(segment, "user:") {
		return "", errors.NewValidationError("reserved segment name", segment)
	}
	return segment, nil
}

func normalizeCategories(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, c := range in {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
