package db

import (
	"context"
	"errors"

	"github.com/elibrary/backend/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound = gorm.ErrRecordNotFound

	ErrOutOfStock      = errors.New("book is out of stock")
	ErrAlreadyBorrowed = errors.New("book already borrowed by this user")
	ErrNotBorrowed     = errors.New("no open borrow for this book")
	ErrFineAlreadyPaid = errors.New("fine has already been paid")
	ErrCategoryInUse   = errors.New("category is still attached to books")
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// lockForUpdate takes a row lock on Postgres; sqlite (tests) serializes
// writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// paginate counts the filtered set and fetches one page ordered by newest
// first. dest must be a pointer to a slice.
func paginate(ctx context.Context, tx *gorm.DB, params pagination.Params, dest any) (int64, error) {
	var total int64
	if err := tx.WithContext(ctx).Count(&total).Error; err != nil {
		return 0, err
	}
	err := tx.WithContext(ctx).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.PerPage).
		Find(dest).Error
	return total, err
}
