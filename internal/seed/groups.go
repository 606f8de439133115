package seed

import (
	"quill/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInGroup is a permanent starter group.
type BuiltInGroup struct {
	Title       string
	Slug        string
	Description string
}

// BuiltInGroups defines the starter groups every installation gets.
var BuiltInGroups = []BuiltInGroup{
	{Title: "General", Slug: "general", Description: "Anything that fits nowhere else."},
	{Title: "Announcements", Slug: "announcements", Description: "Platform news and updates."},
	{Title: "Technology", Slug: "technology", Description: "Software, hardware, and everything between."},
	{Title: "Books", Slug: "books", Description: "Reading lists, reviews, and writing."},
	{Title: "Movies", Slug: "movies", Description: "Film discussion and recommendations."},
	{Title: "Music", Slug: "music", Description: "Music discovery and discussion."},
	{Title: "Travel", Slug: "travel", Description: "Trips, places, and photos from the road."},
	{Title: "Food", Slug: "food", Description: "Cooking, recipes, and restaurants."},
}

// Groups seeds the permanent starter groups, updating title and
// description on slug conflicts so reruns are safe.
func Groups(db *gorm.DB) error {
	for _, item := range BuiltInGroups {
		group := models.Group{
			Title:       item.Title,
			Slug:        item.Slug,
			Description: item.Description,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
		}).Create(&group).Error; err != nil {
			return err
		}
	}
	return nil
}
