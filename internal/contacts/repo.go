package contacts

import (
	"context"

	"gorm.io/gorm"

	"github.com/retailnet/backend/pkg/db/models"
)

// Repository exposes persistence operations for delivery contacts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a contacts repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByUser returns the user's contacts, oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID uint) ([]models.Contact, error) {
	var rows []models.Contact
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// FindOwned loads one contact restricted to its owner.
func (r *Repository) FindOwned(ctx context.Context, id, userID uint) (*models.Contact, error) {
	var contact models.Contact
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&contact).Error
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// Create inserts a new contact.
func (r *Repository) Create(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// Update saves the provided contact row.
func (r *Repository) Update(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

// DeleteOwned removes the listed contacts belonging to the user and reports
// how many rows went away.
func (r *Repository) DeleteOwned(ctx context.Context, userID uint, ids []uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.Contact{})
	return res.RowsAffected, res.Error
}
