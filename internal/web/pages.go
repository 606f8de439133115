package web

import (
	"errors"
	"strconv"

	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type indexData struct {
	Posts []*models.Post
	Pages pagination
}

// Index handles GET /
func (h *Handlers) Index(c *fiber.Ctx) error {
	user := h.currentUser(c)
	page := parsePage(c)

	posts, err := h.deps.Posts.ListPosts(c.Context(), identityOf(user), nil, pageSize, (page-1)*pageSize)
	if err != nil {
		return h.fail(c, user, err)
	}

	return h.render(c, fiber.StatusOK, "index", "Latest posts", user, indexData{
		Posts: posts,
		Pages: paginate(page, len(posts)),
	})
}

type groupData struct {
	Group *models.Group
	Posts []*models.Post
	Pages pagination
}

// GroupPage handles GET /group/:slug/
func (h *Handlers) GroupPage(c *fiber.Ctx) error {
	user := h.currentUser(c)

	group, err := h.deps.Groups.GetGroupBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return h.fail(c, user, err)
	}

	page := parsePage(c)
	posts, err := h.deps.Posts.ListPosts(c.Context(), identityOf(user), &group.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return h.fail(c, user, err)
	}

	return h.render(c, fiber.StatusOK, "group", group.Title, user, groupData{
		Group: group,
		Posts: posts,
		Pages: paginate(page, len(posts)),
	})
}

type postFormData struct {
	Groups   []models.Group
	Text     string
	GroupID  uint
	FieldErr string
}

// NewPostForm handles GET /new/
func (h *Handlers) NewPostForm(c *fiber.Ctx) error {
	user := h.currentUser(c)
	if user == nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	groups, err := h.deps.Groups.ListGroups(c.Context())
	if err != nil {
		return h.fail(c, user, err)
	}

	return h.render(c, fiber.StatusOK, "new_post", "New post", user, postFormData{Groups: groups})
}

// CreatePost handles POST /new/
func (h *Handlers) CreatePost(c *fiber.Ctx) error {
	user := h.currentUser(c)
	if user == nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	text := c.FormValue("text")
	groupID := parseGroupChoice(c.FormValue("group"))

	post, err := h.deps.Posts.CreatePost(c.Context(), service.CreatePostInput{
		Identity: identityOf(user),
		Text:     text,
		GroupID:  groupID,
	})
	if err != nil {
		if models.IsValidation(err) {
			groups, gerr := h.deps.Groups.ListGroups(c.Context())
			if gerr != nil {
				return h.fail(c, user, gerr)
			}
			data := postFormData{Groups: groups, Text: text, FieldErr: validationMessage(err)}
			if groupID != nil {
				data.GroupID = *groupID
			}
			return h.render(c, fiber.StatusOK, "new_post", "New post", user, data)
		}
		return h.fail(c, user, err)
	}

	return c.Redirect("/"+post.Author.Username+"/", fiber.StatusFound)
}

type profileData struct {
	Author    *models.User
	Posts     []*models.Post
	PostCount int64
	Following bool
	IsSelf    bool
	Pages     pagination
}

// Profile handles GET /:username/
func (h *Handlers) Profile(c *fiber.Ctx) error {
	user := h.currentUser(c)

	author, err := h.deps.Users.GetUserByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return h.fail(c, user, err)
	}

	page := parsePage(c)
	posts, err := h.deps.Posts.ListByAuthor(c.Context(), identityOf(user), author.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return h.fail(c, user, err)
	}
	count, err := h.deps.Posts.CountByAuthor(c.Context(), author.ID)
	if err != nil {
		return h.fail(c, user, err)
	}

	following := false
	if user != nil && user.ID != author.ID {
		following, err = h.deps.Follows.IsFollowing(c.Context(), user.ID, author.Username)
		if err != nil {
			return h.fail(c, user, err)
		}
	}

	return h.render(c, fiber.StatusOK, "profile", author.Username, user, profileData{
		Author:    author,
		Posts:     posts,
		PostCount: count,
		Following: following,
		IsSelf:    user != nil && user.ID == author.ID,
		Pages:     paginate(page, len(posts)),
	})
}

type postDetailData struct {
	Post       *models.Post
	Comments   []*models.Comment
	PostCount  int64
	IsAuthor   bool
	CommentErr string
}

// PostDetail handles GET /:username/:postID/
func (h *Handlers) PostDetail(c *fiber.Ctx) error {
	user := h.currentUser(c)

	post, ok := h.resolvePost(c, user)
	if !ok {
		return nil
	}

	comments, err := h.deps.Comments.ListComments(c.Context(), identityOf(user), post.ID)
	if err != nil {
		return h.fail(c, user, err)
	}
	count, err := h.deps.Posts.CountByAuthor(c.Context(), post.AuthorID)
	if err != nil {
		return h.fail(c, user, err)
	}

	return h.render(c, fiber.StatusOK, "post", "Post by "+post.Author.Username, user, postDetailData{
		Post:      post,
		Comments:  comments,
		PostCount: count,
		IsAuthor:  user != nil && user.ID == post.AuthorID,
	})
}

// EditPostForm handles GET /:username/:postID/edit/
func (h *Handlers) EditPostForm(c *fiber.Ctx) error {
	user := h.currentUser(c)

	post, ok := h.resolvePost(c, user)
	if !ok {
		return nil
	}
	// Only the author may edit; everyone else lands back on the post.
	if user == nil || user.ID != post.AuthorID {
		return c.Redirect(postPath(post), fiber.StatusFound)
	}

	groups, err := h.deps.Groups.ListGroups(c.Context())
	if err != nil {
		return h.fail(c, user, err)
	}

	data := postFormData{Groups: groups, Text: post.Text}
	if post.GroupID != nil {
		data.GroupID = *post.GroupID
	}
	return h.render(c, fiber.StatusOK, "edit_post", "Edit post", user, data)
}

// EditPost handles POST /:username/:postID/edit/
func (h *Handlers) EditPost(c *fiber.Ctx) error {
	user := h.currentUser(c)

	post, ok := h.resolvePost(c, user)
	if !ok {
		return nil
	}
	if user == nil || user.ID != post.AuthorID {
		return c.Redirect(postPath(post), fiber.StatusFound)
	}

	text := c.FormValue("text")
	in := service.UpdatePostInput{
		Identity: identityOf(user),
		PostID:   post.ID,
		Text:     &text,
		GroupSet: true,
		GroupID:  parseGroupChoice(c.FormValue("group")),
	}

	if _, err := h.deps.Posts.UpdatePost(c.Context(), in); err != nil {
		if models.IsValidation(err) {
			groups, gerr := h.deps.Groups.ListGroups(c.Context())
			if gerr != nil {
				return h.fail(c, user, gerr)
			}
			data := postFormData{Groups: groups, Text: text, FieldErr: validationMessage(err)}
			if in.GroupID != nil {
				data.GroupID = *in.GroupID
			}
			return h.render(c, fiber.StatusOK, "edit_post", "Edit post", user, data)
		}
		return h.fail(c, user, err)
	}

	return c.Redirect(postPath(post), fiber.StatusFound)
}

// AddComment handles POST /:username/:postID/comment
func (h *Handlers) AddComment(c *fiber.Ctx) error {
	user := h.currentUser(c)

	post, ok := h.resolvePost(c, user)
	if !ok {
		return nil
	}
	if user == nil {
		return c.Redirect(postPath(post), fiber.StatusFound)
	}

	_, err := h.deps.Comments.CreateComment(c.Context(), service.CreateCommentInput{
		Identity: identityOf(user),
		PostID:   post.ID,
		Text:     c.FormValue("text"),
	})
	if err != nil {
		if models.IsValidation(err) {
			// Re-render the detail page with the form error.
			comments, cerr := h.deps.Comments.ListComments(c.Context(), identityOf(user), post.ID)
			if cerr != nil {
				return h.fail(c, user, cerr)
			}
			count, cerr := h.deps.Posts.CountByAuthor(c.Context(), post.AuthorID)
			if cerr != nil {
				return h.fail(c, user, cerr)
			}
			return h.render(c, fiber.StatusOK, "post", "Post by "+post.Author.Username, user, postDetailData{
				Post:       post,
				Comments:   comments,
				PostCount:  count,
				IsAuthor:   user.ID == post.AuthorID,
				CommentErr: validationMessage(err),
			})
		}
		return h.fail(c, user, err)
	}

	return c.Redirect(postPath(post), fiber.StatusFound)
}

type feedData struct {
	Posts []*models.Post
	Pages pagination
}

// FeedPage handles GET /follow/
func (h *Handlers) FeedPage(c *fiber.Ctx) error {
	user := h.currentUser(c)
	if user == nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	page := parsePage(c)
	posts, err := h.deps.Follows.Feed(c.Context(), user.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return h.fail(c, user, err)
	}

	return h.render(c, fiber.StatusOK, "follow", "Your feed", user, feedData{
		Posts: posts,
		Pages: paginate(page, len(posts)),
	})
}

// Follow handles GET and POST /:username/follow/.
// Self-follows and repeats are silently ignored.
func (h *Handlers) Follow(c *fiber.Ctx) error {
	user := h.currentUser(c)
	username := c.Params("username")
	if user == nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	if err := h.deps.Follows.EnsureFollow(c.Context(), user.ID, username); err != nil {
		return h.fail(c, user, err)
	}
	return c.Redirect("/"+username+"/", fiber.StatusFound)
}

// Unfollow handles GET and POST /:username/unfollow/.
func (h *Handlers) Unfollow(c *fiber.Ctx) error {
	user := h.currentUser(c)
	username := c.Params("username")
	if user == nil {
		return c.Redirect("/", fiber.StatusFound)
	}

	if err := h.deps.Follows.Unfollow(c.Context(), user.ID, username); err != nil {
		return h.fail(c, user, err)
	}
	return c.Redirect("/"+username+"/", fiber.StatusFound)
}

// resolvePost loads the post named by /:username/:postID/ and verifies the
// URL's author. On failure it writes the 404 page and reports !ok.
func (h *Handlers) resolvePost(c *fiber.Ctx, user *models.User) (*models.Post, bool) {
	postID, ok := parsePostID(c)
	if !ok {
		_ = h.NotFound(c)
		return nil, false
	}

	post, err := h.deps.Posts.GetPost(c.Context(), identityOf(user), postID)
	if err != nil {
		_ = h.fail(c, user, err)
		return nil, false
	}
	if post.Author.Username != c.Params("username") {
		_ = h.NotFound(c)
		return nil, false
	}
	return post, true
}

func postPath(post *models.Post) string {
	return "/" + post.Author.Username + "/" + strconv.FormatUint(uint64(post.ID), 10) + "/"
}

// parseGroupChoice reads the group <select> value; empty or "0" means no group.
func parseGroupChoice(v string) *uint {
	g, err := strconv.ParseUint(v, 10, 32)
	if err != nil || g == 0 {
		return nil
	}
	gid := uint(g)
	return &gid
}

func validationMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
