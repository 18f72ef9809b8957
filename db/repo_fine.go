package db

import (
	"context"
	"errors"

	"github.com/elibrary/backend/models"
	"github.com/elibrary/backend/pagination"

	"gorm.io/gorm"
)

func (r *Repo) FindFineByID(ctx context.Context, id uint) (*models.Fine, error) {
	var f models.Fine
	if err := r.DB.WithContext(ctx).
		Preload("User.Role").Preload("Book").
		First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *Repo) FindFineByOrderID(ctx context.Context, orderID string) (*models.Fine, error) {
	var f models.Fine
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *Repo) ListFinesByUser(ctx context.Context, userID uint, params pagination.Params) ([]models.Fine, int64, error) {
	tx := r.DB.Model(&models.Fine{}).Preload("Book").Preload("User.Role").
		Where("id_user = ?", userID)
	var fines []models.Fine
	total, err := paginate(ctx, tx, params, &fines)
	return fines, total, err
}

func (r *Repo) ListFinesByAdmin(ctx context.Context, params pagination.Params) ([]models.Fine, int64, error) {
	tx := r.DB.Model(&models.Fine{}).Preload("Book").Preload("User.Role")
	var fines []models.Fine
	total, err := paginate(ctx, tx, params, &fines)
	return fines, total, err
}

func (r *Repo) CreateFine(ctx context.Context, f *models.Fine) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

// UpsertOverdueFine creates or refreshes the pending fine for one overdue
// transaction. Paid fines are left alone.
func (r *Repo) UpsertOverdueFine(ctx context.Context, f *models.Fine) (*models.Fine, error) {
	var existing models.Fine
	err := r.DB.WithContext(ctx).
		Where("id_transaction = ?", f.IDTransaction).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.DB.WithContext(ctx).Create(f).Error; err != nil {
			return nil, err
		}
		return f, nil
	}
	if err != nil {
		return nil, err
	}
	if existing.Paid() {
		return &existing, nil
	}
	if err := r.DB.WithContext(ctx).Model(&existing).Updates(map[string]any{
		"total_day":  f.TotalDay,
		"total_fine": f.TotalFine,
	}).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// SetFinePayment stores the gateway order and widget token for the current
// settlement attempt.
func (r *Repo) SetFinePayment(ctx context.Context, id uint, orderID, token string) error {
	return r.DB.WithContext(ctx).Model(&models.Fine{}).
		Where("id = ?", id).
		Updates(map[string]any{"order_id": orderID, "payment_token": token}).Error
}

// UpdateFineStatus enforces the one-way transition pending/failed -> success.
// Any change away from success is rejected once the fine is paid.
func (r *Repo) UpdateFineStatus(ctx context.Context, id uint, status string) (*models.Fine, error) {
	var f models.Fine
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&f, "id = ?", id).Error; err != nil {
			return err
		}
		if f.Paid() && status != models.FineStatusSuccess {
			return ErrFineAlreadyPaid
		}
		if err := tx.Model(&f).Update("status", status).Error; err != nil {
			return err
		}
		f.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *Repo) DeleteFine(ctx context.Context, id uint) error {
	var f models.Fine
	if err := r.DB.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Delete(&f).Error
}
