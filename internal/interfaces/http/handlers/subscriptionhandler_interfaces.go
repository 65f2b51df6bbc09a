package handlers

import (
	"context"

	appsubscriber "github.com/rewardsboard/eventcast/internal/application/subscriber"
	subscriberdto "github.com/rewardsboard/eventcast/internal/application/subscriber/dto"
	"github.com/rewardsboard/eventcast/internal/domain/subscriber"
)

// subscriptionService is the subset of subscriber.Service used by SubscriptionHandler.
type subscriptionService interface {
	Subscribe(ctx context.Context, userID string, req subscriberdto.SubscribeRequest) (*subscriberdto.SubscriptionResponse, error)
	Unsubscribe(ctx context.Context, userID string) error
	UpdatePreferences(ctx context.Context, userID string, req subscriberdto.UpdatePreferencesRequest) (*subscriberdto.SubscriptionResponse, error)
	GetSubscription(ctx context.Context, userID string) (*subscriberdto.SubscriptionResponse, error)
	Stats() appsubscriber.Stats
}

// connectionRegistry tracks live websocket handles per user.
type connectionRegistry interface {
	RegisterConnection(userID string, handle subscriber.LiveHandle) subscriber.LiveHandle
	RemoveConnectionIf(userID, handleID string) bool
	Touch(userID string)
}

// segmentService manages audience segment membership.
type segmentService interface {
	ListSegments(ctx context.Context, userID string) (*subscriberdto.SegmentsResponse, error)
	AssignSegment(ctx context.Context, userID string, req subscriberdto.SegmentRequest) (*subscriberdto.SegmentsResponse, error)
	RemoveSegment(ctx context.Context, userID, segment string) error
}
