package models

import (
	"time"

	"github.com/rewardsboard/eventcast/internal/shared/constants"
)

// UserSegmentModel records that a user belongs to an audience segment.
type UserSegmentModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"size:64;not null;uniqueIndex:uk_user_segment,priority:1"`
	Segment   string `gorm:"size:64;not null;uniqueIndex:uk_user_segment,priority:2;index"`
	CreatedAt time.Time
}

func (UserSegmentModel) TableName() string {
	return constants.TableUserSegments
}
