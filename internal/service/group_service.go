package service

import (
	"context"
	"net/http"

	"quill/internal/models"
	"quill/internal/policy"
	"quill/internal/repository"
	"quill/internal/validation"
)

// GroupService manages topic groups. Groups are curated: anyone can read
// them, only admins can change them, regardless of how posts and comments
// are configured.
type GroupService struct {
	groupRepo repository.GroupRepository
}

type CreateGroupInput struct {
	Identity    policy.Identity
	Title       string
	Slug        string
	Description string
}

type UpdateGroupInput struct {
	Identity    policy.Identity
	GroupID     uint
	Title       *string
	Slug        *string
	Description *string
}

func NewGroupService(groupRepo repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

func (s *GroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	if err := policy.Authorize(policy.AdminOrReadOnly, in.Identity, http.MethodPost, 0); err != nil {
		return nil, err
	}

	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if err := validation.ValidateGroupSlug(in.Slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	group := &models.Group{
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.List(ctx)
}

func (s *GroupService) GetGroup(ctx context.Context, id uint) (*models.Group, error) {
	return s.groupRepo.GetByID(ctx, id)
}

func (s *GroupService) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	return s.groupRepo.GetBySlug(ctx, slug)
}

func (s *GroupService) UpdateGroup(ctx context.Context, in UpdateGroupInput) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(policy.AdminOrReadOnly, in.Identity, http.MethodPatch, 0); err != nil {
		return nil, err
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, models.NewValidationError("Title is required")
		}
		group.Title = *in.Title
	}
	if in.Slug != nil {
		if err := validation.ValidateGroupSlug(*in.Slug); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		group.Slug = *in.Slug
	}
	if in.Description != nil {
		group.Description = *in.Description
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) DeleteGroup(ctx context.Context, id policy.Identity, groupID uint) error {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		return err
	}

	if err := policy.Authorize(policy.AdminOrReadOnly, id, http.MethodDelete, 0); err != nil {
		return err
	}

	return s.groupRepo.Delete(ctx, groupID)
}
