package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rewardsboard/eventcast/internal/domain/subscriber"
	"github.com/rewardsboard/eventcast/internal/infrastructure/persistence/models"
	"github.com/rewardsboard/eventcast/internal/shared/db"
)

type UserSegmentRepositoryImpl struct {
	db *gorm.DB
}

func NewUserSegmentRepository(database *gorm.DB) subscriber.SegmentRepository {
	return &UserSegmentRepositoryImpl{db: database}
}

func (r *UserSegmentRepositoryImpl) ListSegments(ctx context.Context, userID string) ([]string, error) {
	var segments []string
	err := db.GetTxFromContext(ctx, r.db).Model(&models.UserSegmentModel{}).
		Where("user_id = ?", userID).
		Order("segment ASC").
		Pluck("segment", &segments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user segments: %w", err)
	}
	return segments, nil
}

// Assign is idempotent.
func (r *UserSegmentRepositoryImpl) Assign(ctx context.Context, userID, segment string) error {
	model := &models.UserSegmentModel{UserID: userID, Segment: segment}
	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to assign user segment: %w", err)
	}
	return nil
}

func (r *UserSegmentRepositoryImpl) Remove(ctx context.Context, userID, segment string) error {
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND segment = ?", userID, segment).
		Delete(&models.UserSegmentModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove user segment: %w", err)
	}
	return nil
}
