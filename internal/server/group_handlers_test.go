package server

import (
	"net/http"
	"strconv"
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupURL(id uint) string {
	return "/api/v1/groups/" + strconv.FormatUint(uint64(id), 10)
}

func TestCreateGroup(t *testing.T) {
	s, app := newTestServer(t)
	admin := createAdmin(t, s, "root")
	user := createUser(t, s, "leo")
	adminToken := accessToken(t, s, admin)

	tests := []struct {
		name           string
		token          string
		body           map[string]string
		expectedStatus int
	}{
		{
			name:           "Admin creates",
			token:          adminToken,
			body:           map[string]string{"title": "Cats", "slug": "cats", "description": "All cats"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Regular user forbidden",
			token:          accessToken(t, s, user),
			body:           map[string]string{"title": "Dogs", "slug": "dogs"},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Anonymous",
			token:          "",
			body:           map[string]string{"title": "Dogs", "slug": "dogs"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Bad slug",
			token:          adminToken,
			body:           map[string]string{"title": "Bad", "slug": "Not A Slug"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Duplicate slug",
			token:          adminToken,
			body:           map[string]string{"title": "Cats again", "slug": "cats"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/groups/", tt.body, tt.token))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestGetGroups(t *testing.T) {
	s, app := newTestServer(t)
	require.NoError(t, s.db.Create(&models.Group{Title: "Zebras", Slug: "zebras"}).Error)
	require.NoError(t, s.db.Create(&models.Group{Title: "Cats", Slug: "cats"}).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/v1/groups/", nil, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var groups []models.Group
	decodeBody(t, resp, &groups)
	require.Len(t, groups, 2)
	assert.Equal(t, "Cats", groups[0].Title)
}

func TestUpdateGroup(t *testing.T) {
	s, app := newTestServer(t)
	admin := createAdmin(t, s, "root")
	user := createUser(t, s, "leo")

	group := &models.Group{Title: "Cats", Slug: "cats"}
	require.NoError(t, s.db.Create(group).Error)
	target := groupURL(group.ID)

	t.Run("Regular user forbidden", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPatch, target,
			map[string]string{"title": "Kittens"}, accessToken(t, s, user)))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Admin updates title only", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPatch, target,
			map[string]string{"title": "Kittens"}, accessToken(t, s, admin)))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.Group
		decodeBody(t, resp, &got)
		assert.Equal(t, "Kittens", got.Title)
		assert.Equal(t, "cats", got.Slug)
	})
}

func TestDeleteGroupKeepsPosts(t *testing.T) {
	s, app := newTestServer(t)
	admin := createAdmin(t, s, "root")
	author := createUser(t, s, "leo")

	group := &models.Group{Title: "Cats", Slug: "cats"}
	require.NoError(t, s.db.Create(group).Error)
	post := createPostAs(t, app, accessToken(t, s, author), "a cat post", &group.ID)

	resp, err := app.Test(jsonRequest(t, http.MethodDelete, groupURL(group.ID), nil, accessToken(t, s, admin)))
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The post survives, detached from the deleted group.
	resp, err = app.Test(jsonRequest(t, http.MethodGet, postURL(post.ID), nil, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got PostDTO
	decodeBody(t, resp, &got)
	assert.Nil(t, got.Group)
}
