package web

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pagePath(post *models.Post, author *models.User) string {
	return "/" + author.Username + "/" + strconv.FormatUint(uint64(post.ID), 10) + "/"
}

func TestProfilePage(t *testing.T) {
	env := newTestEnv(t)
	leo := env.createUser(t, "leo")
	maria := env.createUser(t, "maria")
	env.createPost(t, leo, "my first entry")

	t.Run("Shows the author's posts", func(t *testing.T) {
		resp := env.get(t, "/leo/", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := bodyString(t, resp)
		assert.Contains(t, body, "my first entry")
		assert.Contains(t, body, "leo")
	})

	t.Run("Visitor sees no follow button", func(t *testing.T) {
		body := bodyString(t, env.get(t, "/leo/", ""))
		assert.NotContains(t, body, "/leo/follow/")
	})

	t.Run("Logged-in stranger sees the follow button", func(t *testing.T) {
		body := bodyString(t, env.get(t, "/leo/", env.sessionFor(t, maria)))
		assert.Contains(t, body, "/leo/follow/")
	})

	t.Run("Own profile has no follow button", func(t *testing.T) {
		body := bodyString(t, env.get(t, "/leo/", env.sessionFor(t, leo)))
		assert.NotContains(t, body, "/leo/follow/")
		assert.NotContains(t, body, "/leo/unfollow/")
	})

	t.Run("Unknown author is a 404 page", func(t *testing.T) {
		resp := env.get(t, "/ghost/", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestPostDetailPage(t *testing.T) {
	env := newTestEnv(t)
	leo := env.createUser(t, "leo")
	post := env.createPost(t, leo, "a detailed entry")
	require.NoError(t, env.db.Create(&models.Comment{
		PostID:   post.ID,
		AuthorID: leo.ID,
		Text:     "self reply",
	}).Error)

	t.Run("Shows post and comments", func(t *testing.T) {
		resp := env.get(t, pagePath(post, leo), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := bodyString(t, resp)
		assert.Contains(t, body, "a detailed entry")
		assert.Contains(t, body, "self reply")
	})

	t.Run("Author sees the edit link", func(t *testing.T) {
		body := bodyString(t, env.get(t, pagePath(post, leo), env.sessionFor(t, leo)))
		assert.Contains(t, body, pagePath(post, leo)+"edit/")
	})

	t.Run("Wrong author in the URL is a 404", func(t *testing.T) {
		env.createUser(t, "maria")
		resp := env.get(t, "/maria/"+strconv.FormatUint(uint64(post.ID), 10)+"/", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Non-numeric post ID is a 404", func(t *testing.T) {
		resp := env.get(t, "/leo/abc/", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestNewPost(t *testing.T) {
	env := newTestEnv(t)
	leo := env.createUser(t, "leo")
	session := env.sessionFor(t, leo)

	t.Run("Anonymous form request redirects home", func(t *testing.T) {
		resp := env.get(t, "/new/", "")
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
	})

	t.Run("Form renders for the author", func(t *testing.T) {
		resp := env.get(t, "/new/", session)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Publishing redirects to the profile", func(t *testing.T) {
		resp := env.postForm(t, "/new/", url.Values{"text": {"fresh off the keyboard"}}, session)
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/leo/", resp.Header.Get("Location"))

		var count int64
		require.NoError(t, env.db.Model(&models.Post{}).Where("text = ?", "fresh off the keyboard").Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("Empty text re-renders the form", func(t *testing.T) {
		resp := env.postForm(t, "/new/", url.Values{"text": {""}}, session)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestEditPost(t *testing.T) {
	env := newTestEnv(t)
	leo := env.createUser(t, "leo")
	maria := env.createUser(t, "maria")
	post := env.createPost(t, leo, "the original wording")
	editPath := pagePath(post, leo) + "edit/"

	t.Run("Non-author is bounced to the post", func(t *testing.T) {
		resp := env.get(t, editPath, env.sessionFor(t, maria))
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, pagePath(post, leo), resp.Header.Get("Location"))
	})

	t.Run("Anonymous is bounced to the post", func(t *testing.T) {
		resp := env.postForm(t, editPath, url.Values{"text": {"defaced"}}, "")
		require.Equal(t, http.StatusFound, resp.StatusCode)

		var got models.Post
		require.NoError(t, env.db.First(&got, post.ID).Error)
		assert.Equal(t, "the original wording", got.Text)
	})

	t.Run("Author edits", func(t *testing.T) {
		resp := env.postForm(t, editPath, url.Values{"text": {"the new wording"}}, env.sessionFor(t, leo))
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, pagePath(post, leo), resp.Header.Get("Location"))

		var got models.Post
		require.NoError(t, env.db.First(&got, post.ID).Error)
		assert.Equal(t, "the new wording", got.Text)
		assert.True(t, got.PubDate.Equal(post.PubDate))
	})
}

func TestAddComment(t *testing.T) {
	env := newTestEnv(t)
	leo := env.createUser(t, "leo")
	maria := env.createUser(t, "maria")
	post := env.createPost(t, leo, "comment on this")
	commentPath := pagePath(post, leo) + "comment"

	t.Run("Logged-in comment redirects back to the post", func(t *testing.T) {
		resp := env.postForm(t, commentPath, url.Values{"text": {"well said"}}, env.sessionFor(t, maria))
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, pagePath(post, leo), resp.Header.Get("Location"))

		var count int64
		require.NoError(t, env.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("Anonymous comment is dropped", func(t *testing.T) {
		resp := env.postForm(t, commentPath, url.Values{"text": {"drive-by"}}, "")
		require.Equal(t, http.StatusFound, resp.StatusCode)

		var count int64
		require.NoError(t, env.db.Model(&models.Comment{}).Where("text = ?", "drive-by").Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("Empty comment re-renders the post page", func(t *testing.T) {
		resp := env.postForm(t, commentPath, url.Values{"text": {""}}, env.sessionFor(t, maria))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp), "comment on this")
	})
}

func TestFollowPages(t *testing.T) {
	env := newTestEnv(t)
	leo := env.createUser(t, "leo")
	maria := env.createUser(t, "maria")
	env.createPost(t, maria, "maria writes")
	session := env.sessionFor(t, leo)

	countEdges := func() int64 {
		var count int64
		require.NoError(t, env.db.Model(&models.Follow{}).Count(&count).Error)
		return count
	}

	t.Run("Follow creates the edge once", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			resp := env.postForm(t, "/maria/follow/", url.Values{}, session)
			require.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, "/maria/", resp.Header.Get("Location"))
		}
		assert.EqualValues(t, 1, countEdges())
	})

	t.Run("Self-follow is silently ignored", func(t *testing.T) {
		resp := env.postForm(t, "/leo/follow/", url.Values{}, session)
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.EqualValues(t, 1, countEdges())
	})

	t.Run("Feed shows followed authors", func(t *testing.T) {
		resp := env.get(t, "/follow/", session)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, bodyString(t, resp), "maria writes")
	})

	t.Run("Feed redirects visitors", func(t *testing.T) {
		resp := env.get(t, "/follow/", "")
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
	})

	t.Run("Unfollow removes the edge, twice is fine", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			resp := env.postForm(t, "/maria/unfollow/", url.Values{}, session)
			require.Equal(t, http.StatusFound, resp.StatusCode)
		}
		assert.Zero(t, countEdges())
	})

	t.Run("Anonymous follow is sent home without an edge", func(t *testing.T) {
		resp := env.postForm(t, "/maria/follow/", url.Values{}, "")
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		assert.Zero(t, countEdges())
	})

	t.Run("Anonymous unfollow is sent home", func(t *testing.T) {
		resp := env.postForm(t, "/maria/unfollow/", url.Values{}, "")
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
	})
}

func TestGroupPageRoutes(t *testing.T) {
	env := newTestEnv(t)
	leo := env.createUser(t, "leo")
	group := &models.Group{Title: "Cats", Slug: "cats", Description: "All cats"}
	require.NoError(t, env.db.Create(group).Error)

	post := &models.Post{Text: "a cat post", AuthorID: leo.ID, GroupID: &group.ID}
	require.NoError(t, env.db.Create(post).Error)
	env.createPost(t, leo, "ungrouped")

	t.Run("Group page lists only its posts", func(t *testing.T) {
		resp := env.get(t, "/group/cats/", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := bodyString(t, resp)
		assert.Contains(t, body, "a cat post")
		assert.NotContains(t, body, "ungrouped")
	})

	t.Run("Unknown slug is a 404", func(t *testing.T) {
		resp := env.get(t, "/group/dogs/", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
