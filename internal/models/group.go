// Package models contains data structures for the application's domain models.
package models

// Group is a topic that posts can optionally be published under.
// Deleting a group must not delete its posts; the posts' group reference
// is cleared instead (SET NULL on the Post side).
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"size:64;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

// TableName specifies the table name for GORM
func (Group) TableName() string {
	return "groups"
}
