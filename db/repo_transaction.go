package db

import (
	"context"
	"time"

	"github.com/elibrary/backend/models"
	"github.com/elibrary/backend/pagination"

	"gorm.io/gorm"
)

// BorrowBook atomically checks stock, decrements qty and opens the borrow
// transaction. A user holds at most one open borrow per book.
func (r *Repo) BorrowBook(ctx context.Context, userID, bookID uint, totalBook int, loanPeriod time.Duration) (*models.Transaction, error) {
	if totalBook <= 0 {
		totalBook = 1
	}
	var trx *models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := lockForUpdate(tx).First(&book, "id = ?", bookID).Error; err != nil {
			return err
		}
		if book.Qty < totalBook {
			return ErrOutOfStock
		}

		var open int64
		if err := tx.Model(&models.Transaction{}).
			Where("id_user = ? AND id_book = ? AND is_status = TRUE AND transaction_type = ?",
				userID, bookID, models.TransactionBorrow).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrAlreadyBorrowed
		}

		if err := tx.Model(&models.Book{}).
			Where("id = ? AND qty >= ?", bookID, totalBook).
			Update("qty", gorm.Expr("qty - ?", totalBook)).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		t := &models.Transaction{
			IDUser:          userID,
			IDBook:          bookID,
			TransactionType: models.TransactionBorrow,
			TotalBook:       totalBook,
			LoanDate:        now,
			LoanMaximum:     now.Add(loanPeriod),
			IsStatus:        true,
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		trx = t
		return nil
	})
	return trx, err
}

// ReturnTransaction closes the borrow and restores qty. Returning an
// already-returned transaction is a no-op.
func (r *Repo) ReturnTransaction(ctx context.Context, id uint) (*models.Transaction, error) {
	var t models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&t, "id = ?", id).Error; err != nil {
			return err
		}
		if !t.IsStatus {
			return nil
		}
		now := time.Now().UTC()
		if err := tx.Model(&t).Updates(map[string]any{
			"is_status":        false,
			"return_date":      now,
			"transaction_type": models.TransactionReturn,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Book{}).
			Where("id = ?", t.IDBook).
			Update("qty", gorm.Expr("qty + ?", t.TotalBook)).Error; err != nil {
			return err
		}
		t.IsStatus = false
		t.ReturnDate = &now
		t.TransactionType = models.TransactionReturn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) FindTransactionByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.DB.WithContext(ctx).
		Preload("User.Role").Preload("Book").
		First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) ListTransactionsByAdmin(ctx context.Context, params pagination.Params) ([]models.Transaction, int64, error) {
	tx := r.DB.Model(&models.Transaction{}).Preload("User.Role").Preload("Book")
	var trxs []models.Transaction
	total, err := paginate(ctx, tx, params, &trxs)
	return trxs, total, err
}

// ListBorrowsByUser returns the user's open checkouts.
func (r *Repo) ListBorrowsByUser(ctx context.Context, userID uint, params pagination.Params) ([]models.Transaction, int64, error) {
	tx := r.DB.Model(&models.Transaction{}).Preload("Book").
		Where("id_user = ? AND is_status = TRUE", userID)
	var trxs []models.Transaction
	total, err := paginate(ctx, tx, params, &trxs)
	return trxs, total, err
}

// ListReturnsByUser returns the user's closed checkouts.
func (r *Repo) ListReturnsByUser(ctx context.Context, userID uint, params pagination.Params) ([]models.Transaction, int64, error) {
	tx := r.DB.Model(&models.Transaction{}).Preload("Book").
		Where("id_user = ? AND is_status = FALSE", userID)
	var trxs []models.Transaction
	total, err := paginate(ctx, tx, params, &trxs)
	return trxs, total, err
}

// ListOverdueBorrows feeds the fine worker: open borrows past deadline.
func (r *Repo) ListOverdueBorrows(ctx context.Context, asOf time.Time) ([]models.Transaction, error) {
	var trxs []models.Transaction
	err := r.DB.WithContext(ctx).
		Where("is_status = TRUE AND transaction_type = ? AND loan_maximum < ?",
			models.TransactionBorrow, asOf).
		Find(&trxs).Error
	return trxs, err
}

func (r *Repo) DeleteTransaction(ctx context.Context, id uint) error {
	var t models.Transaction
	if err := r.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Delete(&t).Error
}
