package server

import (
	"time"

	"quill/internal/models"
)

// PostDTO is the API response model for post endpoints. Author is flattened
// to a username; account fields never appear in API bodies.
type PostDTO struct {
	ID       uint      `json:"id"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
	Group    *uint     `json:"group"`
	ImageURL string    `json:"image_url,omitempty"`
}

// CommentDTO is the API response model for comment endpoints.
type CommentDTO struct {
	ID      uint      `json:"id"`
	Author  string    `json:"author"`
	PostID  uint      `json:"post_id"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
}

// FollowDTO is the API response model for follow edges. Both sides are
// usernames.
type FollowDTO struct {
	User   string `json:"user"`
	Author string `json:"author"`
}

func toPostDTO(p *models.Post) PostDTO {
	return PostDTO{
		ID:       p.ID,
		Author:   p.Author.Username,
		Text:     p.Text,
		PubDate:  p.PubDate,
		Group:    p.GroupID,
		ImageURL: p.ImageURL,
	}
}

func toPostDTOs(posts []*models.Post) []PostDTO {
	resp := make([]PostDTO, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, toPostDTO(p))
	}
	return resp
}

func toCommentDTO(c *models.Comment) CommentDTO {
	return CommentDTO{
		ID:      c.ID,
		Author:  c.Author.Username,
		PostID:  c.PostID,
		Text:    c.Text,
		Created: c.Created,
	}
}

func toCommentDTOs(comments []*models.Comment) []CommentDTO {
	resp := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, toCommentDTO(c))
	}
	return resp
}

func toFollowDTO(f *models.Follow) FollowDTO {
	return FollowDTO{
		User:   f.User.Username,
		Author: f.Author.Username,
	}
}

func toFollowDTOs(follows []models.Follow) []FollowDTO {
	resp := make([]FollowDTO, 0, len(follows))
	for i := range follows {
		resp = append(resp, toFollowDTO(&follows[i]))
	}
	return resp
}
