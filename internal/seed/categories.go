package seed

import (
	"fmt"

	"agora/internal/models"

	"gorm.io/gorm"
)

// BuiltInCategory is a permanent forum category created on first boot.
type BuiltInCategory struct {
	Name        string
	Description string
	IsPrivate   bool
}

// BuiltInCategories defines the permanent forum categories.
var BuiltInCategories = []BuiltInCategory{
	{Name: "General", Description: "General discussion for everyone."},
	{Name: "Announcements", Description: "Platform news and updates."},
	{Name: "Support", Description: "Help and troubleshooting."},
	{Name: "Movies", Description: "Film discussion and recommendations."},
	{Name: "Television", Description: "TV shows and series conversation."},
	{Name: "Books", Description: "Books, writing, and reading lists."},
	{Name: "Music", Description: "Music discovery and discussion."},
	{Name: "Gaming", Description: "Gaming across all platforms."},
	{Name: "Development", Description: "Software development discussions."},
	{Name: "Hardware", Description: "Hardware builds and tuning."},
	{Name: "Linux", Description: "Linux distros, tooling, and workflows."},
	{Name: "Fitness", Description: "Fitness and training programs."},
	{Name: "Food", Description: "Food, cooking, and nutrition."},
	{Name: "Staff Lounge", Description: "Internal staff coordination.", IsPrivate: true},
}

// Categories seeds the permanent built-in categories. Existing categories
// are updated in place so descriptions stay current across reseeds.
func Categories(db *gorm.DB) error {
	for _, item := range BuiltInCategories {
		err := db.Transaction(func(tx *gorm.DB) error {
			var existing models.Category
			r := tx.Where("name = ?", item.Name).Limit(1).Find(&existing)
			if r.Error != nil {
				return r.Error
			}
			if r.RowsAffected > 0 {
				return tx.Model(&models.Category{}).Where("id = ?", existing.ID).
					Updates(map[string]interface{}{
						"description": item.Description,
						"is_private":  item.IsPrivate,
					}).Error
			}
			category := models.Category{
				Name:        item.Name,
				Description: item.Description,
				IsPrivate:   item.IsPrivate,
			}
			return tx.Create(&category).Error
		})
		if err != nil {
			return fmt.Errorf("seed built-in category %s: %w", item.Name, err)
		}
	}
	return nil
}
