package database

import "agora/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Topic{},
		&models.Reply{},
		&models.Vote{},
		&models.Message{},
	}
}
