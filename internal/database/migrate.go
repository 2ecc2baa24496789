package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/fitmeal/mealplan-backend/internal/models"
)

// Migrate creates or updates every table the services use. Production
// postgres deployments run the SQL files in migrations/ through cmd/migrate
// instead; the two produce the same schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	return nil
}
