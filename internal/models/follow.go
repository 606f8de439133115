// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Follow is a directed edge meaning "user follows author".
// The composite unique index is the authoritative guard against duplicate
// edges; concurrent duplicate creates surface as a unique-constraint
// violation rather than relying on a check-then-insert sequence.
// Self-edges (UserID == AuthorID) are rejected in the service layer.
type Follow struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"-"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	CreatedAt time.Time `json:"-"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
