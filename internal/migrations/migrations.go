// Package migrations keeps the database schema in sync with the models.
package migrations

import (
	"fmt"

	"github.com/SreeGowri/webutils/internal/model"
	"gorm.io/gorm"
)

// Migrate applies the schema for every persisted model.
func Migrate(db *gorm.DB) error {
	models := []any{
		&model.User{},
		&model.Employee{},
		&model.Extension{},
		&model.ManagedConfigFile{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}
