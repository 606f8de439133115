package database

import "quill/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters: referenced tables migrate before their dependents so the
// generated foreign keys (CASCADE for author/post edges, SET NULL for the
// post-group reference) resolve.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	}
}
