package accounts

import (
	"context"

	"gorm.io/gorm"

	"github.com/retailnet/backend/pkg/db/models"
)

// Repository exposes persistence operations for accounts and confirm tokens.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an accounts repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateUser inserts the user row.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByEmail loads a user by email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by id.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveConfirmToken stores the registration token, replacing any prior one.
func (r *Repository) SaveConfirmToken(ctx context.Context, token *models.ConfirmToken) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("user_id = ?", token.UserID).Delete(&models.ConfirmToken{}).Error; err != nil {
		return err
	}
	return tx.Create(token).Error
}

// FindConfirmToken loads the token row for the user.
func (r *Repository) FindConfirmToken(ctx context.Context, userID uint) (*models.ConfirmToken, error) {
	var token models.ConfirmToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// ActivateUser flips the account active and burns the confirm token.
func (r *Repository) ActivateUser(ctx context.Context, userID uint) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_active", true).Error; err != nil {
		return err
	}
	return tx.Where("user_id = ?", userID).Delete(&models.ConfirmToken{}).Error
}
