package policy

import (
	"testing"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{"", OwnResourceOnly, false},
		{"own-resource-only", OwnResourceOnly, false},
		{"author-or-admin-or-read-only", AuthorOrAdminOrReadOnly, false},
		{"admin-or-read-only", AdminOrReadOnly, false},
		{"author-only", OwnResourceOnly, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVariant(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorize_OwnResourceOnly(t *testing.T) {
	t.Parallel()

	author := Identity{UserID: 1, Authenticated: true}
	other := Identity{UserID: 2, Authenticated: true}
	admin := Identity{UserID: 3, Authenticated: true, IsAdmin: true}

	t.Run("anonymous read allowed", func(t *testing.T) {
		assert.NoError(t, Authorize(OwnResourceOnly, Anonymous, "GET", 1))
	})
	t.Run("anonymous mutation unauthorized", func(t *testing.T) {
		err := Authorize(OwnResourceOnly, Anonymous, "DELETE", 1)
		assert.True(t, models.IsUnauthorized(err))
	})
	t.Run("author mutates own resource", func(t *testing.T) {
		assert.NoError(t, Authorize(OwnResourceOnly, author, "PATCH", 1))
	})
	t.Run("non-author forbidden", func(t *testing.T) {
		err := Authorize(OwnResourceOnly, other, "PUT", 1)
		assert.True(t, models.IsForbidden(err))
	})
	t.Run("admin gets no special treatment", func(t *testing.T) {
		err := Authorize(OwnResourceOnly, admin, "DELETE", 1)
		assert.True(t, models.IsForbidden(err))
	})
}

func TestAuthorize_AuthorOrAdminOrReadOnly(t *testing.T) {
	t.Parallel()

	author := Identity{UserID: 1, Authenticated: true}
	other := Identity{UserID: 2, Authenticated: true}
	admin := Identity{UserID: 3, Authenticated: true, IsAdmin: true}

	t.Run("anonymous read denied", func(t *testing.T) {
		err := Authorize(AuthorOrAdminOrReadOnly, Anonymous, "GET", 1)
		assert.True(t, models.IsUnauthorized(err))
	})
	t.Run("authenticated read allowed", func(t *testing.T) {
		assert.NoError(t, Authorize(AuthorOrAdminOrReadOnly, other, "GET", 1))
	})
	t.Run("author mutates", func(t *testing.T) {
		assert.NoError(t, Authorize(AuthorOrAdminOrReadOnly, author, "DELETE", 1))
	})
	t.Run("admin mutates foreign resource", func(t *testing.T) {
		assert.NoError(t, Authorize(AuthorOrAdminOrReadOnly, admin, "PATCH", 1))
	})
	t.Run("non-author non-admin forbidden", func(t *testing.T) {
		err := Authorize(AuthorOrAdminOrReadOnly, other, "POST", 1)
		assert.True(t, models.IsForbidden(err))
	})
}

func TestAuthorize_AdminOrReadOnly(t *testing.T) {
	t.Parallel()

	author := Identity{UserID: 1, Authenticated: true}
	admin := Identity{UserID: 3, Authenticated: true, IsAdmin: true}

	t.Run("anonymous read allowed", func(t *testing.T) {
		assert.NoError(t, Authorize(AdminOrReadOnly, Anonymous, "GET", 0))
	})
	t.Run("author without admin forbidden", func(t *testing.T) {
		err := Authorize(AdminOrReadOnly, author, "PUT", 1)
		assert.True(t, models.IsForbidden(err))
	})
	t.Run("admin mutates", func(t *testing.T) {
		assert.NoError(t, Authorize(AdminOrReadOnly, admin, "DELETE", 0))
	})
	t.Run("anonymous mutation forbidden", func(t *testing.T) {
		err := Authorize(AdminOrReadOnly, Anonymous, "POST", 0)
		assert.True(t, models.IsForbidden(err))
	})
}

func TestAuthorize_HeadAndOptionsAreReads(t *testing.T) {
	t.Parallel()

	other := Identity{UserID: 2, Authenticated: true}
	for _, method := range []string{"HEAD", "OPTIONS"} {
		assert.NoError(t, Authorize(OwnResourceOnly, other, method, 1), method)
		assert.NoError(t, Authorize(AdminOrReadOnly, other, method, 1), method)
	}
}
