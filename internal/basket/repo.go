package basket

import (
	"context"

	"gorm.io/gorm"

	"github.com/retailnet/backend/pkg/db/models"
	"github.com/retailnet/backend/pkg/enums"
)

// Repository exposes persistence operations for baskets and placed orders.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a basket repository bound to the provided DB.
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

// FindBasket loads the caller's basket order with everything the view needs.
func (r *Repository) FindBasket(ctx context.Context, userID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.ProductInfo").
		Preload("Items.ProductInfo.Product").
		Preload("Items.ProductInfo.Product.Category").
		Preload("Items.ProductInfo.Shop").
		Preload("Items.ProductInfo.ProductParameters").
		Preload("Items.ProductInfo.ProductParameters.Parameter").
		Where("user_id = ? AND state = ?", userID, enums.OrderStateBasket).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrCreateBasket returns the caller's basket order, creating it when the
// user has none. The partial unique index keeps this race-safe.
func (r *Repository) GetOrCreateBasket(ctx context.Context, userID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where(models.Order{UserID: userID, State: enums.OrderStateBasket}).
		FirstOrCreate(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ProductInfoExists reports whether the listing id is valid.
func (r *Repository) ProductInfoExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductInfo{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// InsertItem appends one basket line. A unique violation means the listing is
// already in the basket.
func (r *Repository) InsertItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// ContactOwned reports whether the contact exists and belongs to the user.
func (r *Repository) ContactOwned(ctx context.Context, contactID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ? AND user_id = ?", contactID, userID).
		Count(&count).Error
	return count > 0, err
}

// PlaceOrder flips the caller's basket to state=new in one conditional
// update and returns the number of rows touched. Zero means no live basket.
func (r *Repository) PlaceOrder(ctx context.Context, orderID, userID, contactID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND user_id = ? AND state = ?", orderID, userID, enums.OrderStateBasket).
		Updates(map[string]any{
			"contact_id": contactID,
			"state":      enums.OrderStateNew,
		})
	return res.RowsAffected, res.Error
}

// ListPlacedOrders returns the caller's non-basket orders, newest first.
func (r *Repository) ListPlacedOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.ProductInfo").
		Preload("Items.ProductInfo.Product").
		Preload("Items.ProductInfo.Product.Category").
		Preload("Items.ProductInfo.Shop").
		Preload("Items.ProductInfo.ProductParameters").
		Preload("Items.ProductInfo.ProductParameters.Parameter").
		Preload("Contact").
		Where("user_id = ? AND state <> ?", userID, enums.OrderStateBasket).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}
