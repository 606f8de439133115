package seed

import (
	"testing"

	"quill/internal/database"
	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and shared.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestGroupsIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Groups(db))
	require.NoError(t, Groups(db))

	var count int64
	require.NoError(t, db.Model(&models.Group{}).Count(&count).Error)
	assert.EqualValues(t, len(BuiltInGroups), count)
}

func TestRun(t *testing.T) {
	db := newTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{
		NumUsers:       8,
		NumPosts:       30,
		NumComments:    40,
		FollowsPerUser: 3,
	}))

	var users, posts, comments int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.EqualValues(t, 8, users)
	assert.EqualValues(t, 30, posts)
	assert.EqualValues(t, 40, comments)

	// Exactly one admin, the first account.
	var admins int64
	require.NoError(t, db.Model(&models.User{}).Where("is_admin = ?", true).Count(&admins).Error)
	assert.EqualValues(t, 1, admins)

	// No self-follows and no duplicate edges.
	var selfEdges int64
	require.NoError(t, db.Model(&models.Follow{}).Where("user_id = author_id").Count(&selfEdges).Error)
	assert.Zero(t, selfEdges)

	var edges []models.Follow
	require.NoError(t, db.Find(&edges).Error)
	seen := make(map[[2]uint]bool, len(edges))
	for _, e := range edges {
		key := [2]uint{e.UserID, e.AuthorID}
		assert.False(t, seen[key], "duplicate edge %v", key)
		seen[key] = true
	}
}

func TestClearAll(t *testing.T) {
	db := newTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{NumUsers: 3, NumPosts: 5, NumComments: 5, FollowsPerUser: 1}))
	require.NoError(t, s.ClearAll())

	for _, model := range database.PersistentModels() {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}
