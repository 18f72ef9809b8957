package db

import (
	"context"

	"github.com/elibrary/backend/models"
	"github.com/elibrary/backend/pagination"
)

func (r *Repo) ListCategories(ctx context.Context, params pagination.Params) ([]models.Category, int64, error) {
	tx := r.DB.Model(&models.Category{})
	var cats []models.Category
	total, err := paginate(ctx, tx, params, &cats)
	return cats, total, err
}

func (r *Repo) FindCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *Repo) UpdateCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(&c).Update("category", name).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteCategory refuses while any book still references the category.
func (r *Repo) DeleteCategory(ctx context.Context, id uint) error {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return err
	}
	var n int64
	if err := r.DB.WithContext(ctx).
		Table(models.BookCategoryTable).
		Where("category_id = ?", id).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrCategoryInUse
	}
	return r.DB.WithContext(ctx).Delete(&c).Error
}
