package db

import (
	"context"

	"github.com/elibrary/backend/models"
	"github.com/elibrary/backend/pagination"
)

func (r *Repo) ListBooks(ctx context.Context, params pagination.Params) ([]models.Book, int64, error) {
	tx := r.DB.Model(&models.Book{}).Preload("Categories")
	var books []models.Book
	total, err := paginate(ctx, tx, params, &books)
	return books, total, err
}

func (r *Repo) FindBookByID(ctx context.Context, id uint) (*models.Book, error) {
	var b models.Book
	if err := r.DB.WithContext(ctx).Preload("Categories").First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBook inserts the book and attaches its categories.
func (r *Repo) CreateBook(ctx context.Context, b *models.Book, categoryIDs []uint) error {
	if len(categoryIDs) > 0 {
		var cats []models.Category
		if err := r.DB.WithContext(ctx).Find(&cats, categoryIDs).Error; err != nil {
			return err
		}
		b.Categories = cats
	}
	return r.DB.WithContext(ctx).Create(b).Error
}

// UpdateBook applies the changed columns and, when categoryIDs is non-nil,
// replaces the category set.
func (r *Repo) UpdateBook(ctx context.Context, id uint, fields map[string]any, categoryIDs []uint) (*models.Book, error) {
	var b models.Book
	if err := r.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.DB.WithContext(ctx).Model(&b).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	if categoryIDs != nil {
		var cats []models.Category
		if err := r.DB.WithContext(ctx).Find(&cats, categoryIDs).Error; err != nil {
			return nil, err
		}
		if err := r.DB.WithContext(ctx).Model(&b).Association("Categories").Replace(cats); err != nil {
			return nil, err
		}
	}
	return r.FindBookByID(ctx, id)
}

func (r *Repo) DeleteBook(ctx context.Context, id uint) error {
	var b models.Book
	if err := r.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Model(&b).Association("Categories").Clear(); err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Delete(&b).Error
}

// ClearBookUpload blanks the image or file column after the upload is
// removed from disk. column must be "image" or "file".
func (r *Repo) ClearBookUpload(ctx context.Context, id uint, column string) (*models.Book, error) {
	var b models.Book
	if err := r.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(&b).Update(column, "").Error; err != nil {
		return nil, err
	}
	return &b, nil
}
