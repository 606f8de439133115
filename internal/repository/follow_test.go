package repository

import (
	"context"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	t.Run("Create and Exists", func(t *testing.T) {
		err := repo.Create(ctx, &models.Follow{UserID: alice.ID, AuthorID: bob.ID})
		require.NoError(t, err)

		following, err := repo.Exists(ctx, alice.ID, bob.ID)
		assert.NoError(t, err)
		assert.True(t, following)

		// The edge is directed; bob does not follow alice back.
		reverse, err := repo.Exists(ctx, bob.ID, alice.ID)
		assert.NoError(t, err)
		assert.False(t, reverse)
	})

	t.Run("Create duplicate edge", func(t *testing.T) {
		err := repo.Create(ctx, &models.Follow{UserID: alice.ID, AuthorID: bob.ID})
		assert.ErrorIs(t, err, ErrDuplicateFollow)

		var count int64
		db.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", alice.ID, bob.ID).
			Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Ensure is a silent no-op on existing edge", func(t *testing.T) {
		err := repo.Ensure(ctx, alice.ID, bob.ID)
		assert.NoError(t, err)

		var count int64
		db.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", alice.ID, bob.ID).
			Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Ensure creates a missing edge", func(t *testing.T) {
		err := repo.Ensure(ctx, alice.ID, carol.ID)
		require.NoError(t, err)

		following, err := repo.Exists(ctx, alice.ID, carol.ID)
		assert.NoError(t, err)
		assert.True(t, following)
	})

	t.Run("ListByUser", func(t *testing.T) {
		follows, err := repo.ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, follows, 2)

		authors := []string{follows[0].Author.Username, follows[1].Author.Username}
		assert.ElementsMatch(t, []string{"bob", "carol"}, authors)
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		err := repo.Delete(ctx, alice.ID, carol.ID)
		require.NoError(t, err)

		following, err := repo.Exists(ctx, alice.ID, carol.ID)
		assert.NoError(t, err)
		assert.False(t, following)

		// Deleting an edge that is already gone still succeeds.
		err = repo.Delete(ctx, alice.ID, carol.ID)
		assert.NoError(t, err)
	})
}

func TestFollowRepository_UserDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	require.NoError(t, repo.Create(ctx, &models.Follow{UserID: alice.ID, AuthorID: bob.ID}))
	require.NoError(t, repo.Create(ctx, &models.Follow{UserID: bob.ID, AuthorID: carol.ID}))

	// Removing bob must drop edges where he is either endpoint.
	require.NoError(t, db.Delete(&models.User{}, bob.ID).Error)

	var count int64
	db.Model(&models.Follow{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
