package migration

import (
	"embed"

	"github.com/rewardsboard/eventcast/internal/infrastructure/persistence/models"
)

//go:embed scripts
var scriptsFS embed.FS

// AutoMigrateModels lists the tables owned by the content engine.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.AnnouncementModel{},
		&models.TemplateModel{},
		&models.UserSegmentModel{},
	}
}
