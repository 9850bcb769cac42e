package bootstrap

import (
	"anoa.com/pagebuilder/internal/entity"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Template{},
		&entity.Page{},
		&entity.Group{},
	)
}
