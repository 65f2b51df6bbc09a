package http

import (
	"gorm.io/gorm"

	"github.com/rewardsboard/eventcast/internal/domain/announcement"
	"github.com/rewardsboard/eventcast/internal/domain/subscriber"
	"github.com/rewardsboard/eventcast/internal/domain/template"
	"github.com/rewardsboard/eventcast/internal/infrastructure/repository"
	"github.com/rewardsboard/eventcast/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
// Types match the return types of the repository constructors.
type repositories struct {
	announcementRepo announcement.Repository
	templateRepo     template.Repository
	segmentRepo      subscriber.SegmentRepository
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		announcementRepo: repository.NewAnnouncementRepository(db, log),
		templateRepo:     repository.NewTemplateRepository(db, log),
		segmentRepo:      repository.NewUserSegmentRepository(db),
	}
}
