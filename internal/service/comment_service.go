package service

import (
	"context"
	"net/http"

	"quill/internal/models"
	"quill/internal/policy"
	"quill/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	variant     policy.Variant
}

type CreateCommentInput struct {
	Identity policy.Identity
	PostID   uint
	Text     string
}

type UpdateCommentInput struct {
	Identity  policy.Identity
	PostID    uint
	CommentID uint
	Text      string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	variant policy.Variant,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		variant:     variant,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := policy.Authorize(s.variant, in.Identity, http.MethodPost, in.Identity.UserID); err != nil {
		return nil, err
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(in.Text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		Text:     in.Text,
		AuthorID: in.Identity.UserID,
		PostID:   in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, id policy.Identity, postID uint) ([]*models.Comment, error) {
	if err := policy.Authorize(s.variant, id, http.MethodGet, 0); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// GetComment resolves a comment under its post. A comment that exists but
// hangs off a different post is reported as absent.
func (s *CommentService) GetComment(ctx context.Context, id policy.Identity, postID, commentID uint) (*models.Comment, error) {
	if err := policy.Authorize(s.variant, id, http.MethodGet, 0); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != in.PostID {
		return nil, models.NewNotFoundError("Comment", in.CommentID)
	}

	if err := policy.Authorize(s.variant, in.Identity, http.MethodPatch, comment.AuthorID); err != nil {
		return nil, err
	}

	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(in.Text) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment.Text = in.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) DeleteComment(ctx context.Context, id policy.Identity, postID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return models.NewNotFoundError("Comment", commentID)
	}

	if err := policy.Authorize(s.variant, id, http.MethodDelete, comment.AuthorID); err != nil {
		return err
	}

	return s.commentRepo.Delete(ctx, commentID)
}
