package repository

import (
	"context"
	"errors"

	"agora/internal/cache"
	"agora/internal/listing"
	"agora/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	List(ctx context.Context, search string, includePrivate bool, order listing.Order, limit, offset int) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	// UpdateWithPrivacyCascade saves the category and marks every topic
	// in it private, atomically. Only the private direction cascades.
	UpdateWithPrivacyCascade(ctx context.Context, category *models.Category) error
	// Delete removes the category and all content under it in one
	// transaction, bottom-up so no orphan rows survive a partial failure.
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.CategoriesListKey)
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, search string, includePrivate bool, order listing.Order, limit, offset int) ([]*models.Category, error) {
	fetch := func(dest *[]*models.Category) error {
		q := r.db.WithContext(ctx).Model(&models.Category{})
		if search != "" {
			q = q.Where("name ILIKE ?", "%"+search+"%")
		}
		if !includePrivate {
			q = q.Where("is_private = ?", false)
		}
		column := "name"
		if order.By == "created_at" {
			column = "created_at"
		}
		direction := "ASC"
		if order.Desc {
			direction = "DESC"
		}
		if err := q.Order(column + " " + direction).Limit(limit).Offset(offset).Find(dest).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	var categories []*models.Category
	// Only the canonical public first page goes through the cache. Every
	// searched, ordered or private variant hits the database directly.
	if search == "" && !includePrivate && order.By == "name" && !order.Desc && offset == 0 {
		if err := cache.Aside(ctx, cache.CategoriesListKey, &categories, cache.ListTTL, func() error {
			return fetch(&categories)
		}); err != nil {
			return nil, err
		}
		return categories, nil
	}
	if err := fetch(&categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCategory(ctx, category.ID)
	return nil
}

func (r *categoryRepository) UpdateWithPrivacyCascade(ctx context.Context, category *models.Category) error {
	var topicIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(category).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Topic{}).
			Where("category_id = ?", category.ID).
			Pluck("id", &topicIDs).Error; err != nil {
			return err
		}
		return tx.Model(&models.Topic{}).
			Where("category_id = ?", category.ID).
			Update("is_private", true).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCategory(ctx, category.ID)
	// The flipped topics may be cached individually.
	for _, id := range topicIDs {
		cache.InvalidateTopic(ctx, id)
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Votes on replies in topics of this category go first.
		if err := tx.Exec(
			`DELETE FROM votes WHERE reply_id IN (
				SELECT replies.id FROM replies
				JOIN topics ON topics.id = replies.topic_id
				WHERE topics.category_id = ?
			)`, id,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			`DELETE FROM replies WHERE topic_id IN (
				SELECT id FROM topics WHERE category_id = ?
			)`, id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&models.Topic{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Category", id)
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateCategory(ctx, id)
	return nil
}
