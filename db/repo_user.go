package db

import (
	"context"

	"github.com/elibrary/backend/models"
	"github.com/elibrary/backend/pagination"

	"gorm.io/gorm"
)

func (r *Repo) ListUsers(ctx context.Context, params pagination.Params) ([]models.User, int64, error) {
	tx := r.DB.Model(&models.User{}).Preload("Role")
	var users []models.User
	total, err := paginate(ctx, tx, params, &users)
	return users, total, err
}

func (r *Repo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Preload("Role").First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := r.DB.WithContext(ctx).Where("role = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *Repo) UpdateUser(ctx context.Context, id uint, fields map[string]any) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.DB.WithContext(ctx).Model(&u).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.FindUserByID(ctx, id)
}

func (r *Repo) DeleteUserByID(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

func (r *Repo) MarkEmailVerified(ctx context.Context, email string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("is_email_verified", true).Error
}

// TouchUserLogin stamps the login on the database clock and bumps the
// counter without racing concurrent logins.
func (r *Repo) TouchUserLogin(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": nowExpr(r.DB),
			"last_seen_at":  nowExpr(r.DB),
			"login_count":   gorm.Expr("COALESCE(login_count, 0) + 1"),
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", nowExpr(r.DB)).Error
}

func nowExpr(db *gorm.DB) any {
	if db.Dialector.Name() == "postgres" {
		return gorm.Expr("NOW()")
	}
	return gorm.Expr("CURRENT_TIMESTAMP")
}
