package service

import (
	"context"

	"agora/internal/listing"
	"agora/internal/models"
	"agora/internal/policy"
	"agora/internal/repository"
	"agora/internal/validation"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	topicRepo    repository.TopicRepository
}

type CreateCategoryInput struct {
	Name        string
	Description string
	IsPrivate   bool
	IsLocked    bool
}

// UpdateCategoryInput carries the editable fields; nil pointers leave the
// stored value untouched.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	IsPrivate   *bool
	IsLocked    *bool
}

func NewCategoryService(categoryRepo repository.CategoryRepository, topicRepo repository.TopicRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, topicRepo: topicRepo}
}

func (s *CategoryService) ListCategories(ctx context.Context, actor *models.User, search string, order listing.Order, limit, offset int) ([]*models.Category, error) {
	includePrivate := policy.CanView(actor, true)
	return s.categoryRepo.List(ctx, search, includePrivate, order, limit, offset)
}

// GetCategory returns the category with its topics attached. Topics the
// actor may not see are filtered out at the query; search and order apply
// to the topic page.
func (s *CategoryService) GetCategory(ctx context.Context, actor *models.User, id uint, search string, order listing.Order, limit, offset int) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(actor, category.IsPrivate) {
		return nil, viewDenied(actor)
	}

	topics, err := s.topicRepo.ListByCategory(ctx, id, search, policy.CanView(actor, true), order, limit, offset)
	if err != nil {
		return nil, err
	}
	category.Topics = topics
	return category, nil
}

// ListCategoryTopics returns just the topics of a category, privacy-filtered.
func (s *CategoryService) ListCategoryTopics(ctx context.Context, actor *models.User, id uint, search string, order listing.Order, limit, offset int) ([]*models.Topic, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(actor, category.IsPrivate) {
		return nil, viewDenied(actor)
	}
	return s.topicRepo.ListByCategory(ctx, id, search, policy.CanView(actor, true), order, limit, offset)
}

func (s *CategoryService) CreateCategory(ctx context.Context, actor *models.User, in CreateCategoryInput) (*models.Category, error) {
	if !policy.CanCreateCategory(actor) {
		return nil, models.NewUnauthorizedError("Admin privileges required")
	}
	if err := validation.ValidateCategoryName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateCategoryDescription(in.Description); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	category := &models.Category{
		Name:        in.Name,
		Description: in.Description,
		IsPrivate:   in.IsPrivate,
		IsLocked:    in.IsLocked,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, actor *models.User, id uint, in UpdateCategoryInput) (*models.Category, error) {
	if !policy.CanMutate(actor, 0, false) {
		return nil, models.NewUnauthorizedError("Admin privileges required")
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if err := validation.ValidateCategoryName(*in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		category.Name = *in.Name
	}
	if in.Description != nil {
		if err := validation.ValidateCategoryDescription(*in.Description); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		category.Description = *in.Description
	}
	if in.IsLocked != nil {
		category.IsLocked = *in.IsLocked
	}

	becamePrivate := in.IsPrivate != nil && *in.IsPrivate && !category.IsPrivate
	if in.IsPrivate != nil {
		category.IsPrivate = *in.IsPrivate
	}

	// Going private hides every topic in the category, atomically with
	// the category row itself. The public direction touches only the
	// category; topics keep their individual flags.
	if becamePrivate {
		if err := s.categoryRepo.UpdateWithPrivacyCascade(ctx, category); err != nil {
			return nil, err
		}
		return category, nil
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, actor *models.User, id uint) error {
	if !policy.CanMutate(actor, 0, false) {
		return models.NewUnauthorizedError("Admin privileges required")
	}
	return s.categoryRepo.Delete(ctx, id)
}

// viewDenied distinguishes a missing identity from an insufficient one.
func viewDenied(actor *models.User) error {
	if actor == nil {
		return models.NewUnauthenticatedError("Authentication required")
	}
	return models.NewUnauthorizedError("You do not have access to this resource")
}
