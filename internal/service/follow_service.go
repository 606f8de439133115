package service

import (
	"context"
	"errors"
	"strings"

	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/repository"
)

type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		postRepo:   postRepo,
	}
}

// Follow is the strict entry point: the target must exist, self-follows and
// duplicates are validation errors. The duplicate check is the database
// unique index, so two concurrent follows of the same author cannot both
// succeed.
func (s *FollowService) Follow(ctx context.Context, userID uint, targetUsername string) (*models.Follow, error) {
	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}
	if target.ID == userID {
		middleware.FollowRejections.WithLabelValues("self").Inc()
		return nil, models.NewValidationError("You cannot follow yourself")
	}

	follow := &models.Follow{UserID: userID, AuthorID: target.ID}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		if errors.Is(err, repository.ErrDuplicateFollow) {
			middleware.FollowRejections.WithLabelValues("duplicate").Inc()
			return nil, models.NewValidationError("You are already following this user")
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	follow.User = *user
	follow.Author = *target
	return follow, nil
}

// EnsureFollow is the forgiving entry point used by the web pages:
// self-follows and existing edges are silent no-ops.
func (s *FollowService) EnsureFollow(ctx context.Context, userID uint, targetUsername string) error {
	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target.ID == userID {
		return nil
	}
	return s.followRepo.Ensure(ctx, userID, target.ID)
}

// Unfollow removes the edge if present. Unfollowing someone you never
// followed is a success.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, targetUsername string) error {
	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	return s.followRepo.Delete(ctx, userID, target.ID)
}

func (s *FollowService) IsFollowing(ctx context.Context, userID uint, targetUsername string) (bool, error) {
	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return false, err
	}
	return s.followRepo.Exists(ctx, userID, target.ID)
}

// Feed returns the posts authored by everyone userID follows, newest first.
func (s *FollowService) Feed(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.Feed(ctx, userID, limit, offset)
}

// List returns the identity's own edges, optionally filtered. A search of
// the form "user=<name>" or "author=<name>" matches that side exactly; a
// bare term matches either side.
func (s *FollowService) List(ctx context.Context, userID uint, search string) ([]models.Follow, error) {
	follows, err := s.followRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if search == "" {
		return follows, nil
	}

	side, term := "", search
	if v, ok := strings.CutPrefix(search, "user="); ok {
		side, term = "user", v
	} else if v, ok := strings.CutPrefix(search, "author="); ok {
		side, term = "author", v
	}

	filtered := make([]models.Follow, 0, len(follows))
	for _, f := range follows {
		switch side {
		case "user":
			if f.User.Username == term {
				filtered = append(filtered, f)
			}
		case "author":
			if f.Author.Username == term {
				filtered = append(filtered, f)
			}
		default:
			if f.User.Username == term || f.Author.Username == term {
				filtered = append(filtered, f)
			}
		}
	}
	return filtered, nil
}
