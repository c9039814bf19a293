package repository

import (
	"github.com/Behyna/gem-services/internal/model"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}
