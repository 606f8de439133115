// Package service implements the business logic on top of the repositories.
// Services own validation and the policy checks; handlers only translate
// HTTP to service calls.
package service

import (
	"context"
	"net/http"

	"quill/internal/models"
	"quill/internal/policy"
	"quill/internal/repository"
)

const maxPostLen = 20000

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	variant   policy.Variant
}

type CreatePostInput struct {
	Identity policy.Identity
	Text     string
	GroupID  *uint
	ImageURL string
}

// UpdatePostInput carries a partial update. Nil pointer fields are left
// untouched; GroupSet distinguishes "clear the group" (GroupSet with nil
// GroupID) from "do not touch the group".
type UpdatePostInput struct {
	Identity policy.Identity
	PostID   uint
	Text     *string
	GroupID  *uint
	GroupSet bool
	ImageURL *string
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	variant policy.Variant,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		variant:   variant,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := policy.Authorize(s.variant, in.Identity, http.MethodPost, in.Identity.UserID); err != nil {
		return nil, err
	}

	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(in.Text) > maxPostLen {
		return nil, models.NewValidationError("Post too long (max 20000 characters)")
	}
	if in.GroupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *in.GroupID); err != nil {
			if models.IsNotFound(err) {
				return nil, models.NewValidationError("Group does not exist")
			}
			return nil, err
		}
	}

	post := &models.Post{
		Text:     in.Text,
		AuthorID: in.Identity.UserID,
		GroupID:  in.GroupID,
		ImageURL: in.ImageURL,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id policy.Identity, postID uint) (*models.Post, error) {
	if err := policy.Authorize(s.variant, id, http.MethodGet, 0); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

func (s *PostService) ListPosts(ctx context.Context, id policy.Identity, groupID *uint, limit, offset int) ([]*models.Post, error) {
	if err := policy.Authorize(s.variant, id, http.MethodGet, 0); err != nil {
		return nil, err
	}
	return s.postRepo.List(ctx, groupID, limit, offset)
}

func (s *PostService) ListByAuthor(ctx context.Context, id policy.Identity, authorID uint, limit, offset int) ([]*models.Post, error) {
	if err := policy.Authorize(s.variant, id, http.MethodGet, 0); err != nil {
		return nil, err
	}
	return s.postRepo.ListByAuthor(ctx, authorID, limit, offset)
}

func (s *PostService) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.postRepo.CountByAuthor(ctx, authorID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(s.variant, in.Identity, http.MethodPatch, post.AuthorID); err != nil {
		return nil, err
	}

	if in.Text != nil {
		if *in.Text == "" {
			return nil, models.NewValidationError("Text is required")
		}
		if len(*in.Text) > maxPostLen {
			return nil, models.NewValidationError("Post too long (max 20000 characters)")
		}
		post.Text = *in.Text
	}
	if in.GroupSet {
		if in.GroupID != nil {
			if _, err := s.groupRepo.GetByID(ctx, *in.GroupID); err != nil {
				if models.IsNotFound(err) {
					return nil, models.NewValidationError("Group does not exist")
				}
				return nil, err
			}
		}
		post.GroupID = in.GroupID
	}
	if in.ImageURL != nil {
		post.ImageURL = *in.ImageURL
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, id policy.Identity, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if err := policy.Authorize(s.variant, id, http.MethodDelete, post.AuthorID); err != nil {
		return err
	}

	return s.postRepo.Delete(ctx, postID)
}
