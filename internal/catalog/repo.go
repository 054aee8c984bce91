package catalog

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retailnet/backend/pkg/db/models"
)

// Repository exposes persistence operations for the relational catalog.
// All writes are expected to run inside the ingestion transaction, so the
// repository is handed the transactional DB via WithTx.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
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

// GetOrCreateShop returns the shop owned by userID with the given name,
// creating it on first ingestion.
func (r *Repository) GetOrCreateShop(ctx context.Context, name string, userID uint) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).
		Where(models.Shop{Name: name, UserID: userID}).
		Attrs(models.Shop{State: true}).
		FirstOrCreate(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// ShopByUserID loads the shop owned by the user.
func (r *Repository) ShopByUserID(ctx context.Context, userID uint) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// UpdateShopState flips whether the shop currently accepts orders.
func (r *Repository) UpdateShopState(ctx context.Context, shopID uint, state bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", shopID).
		Update("state", state).Error
}

// UpsertCategory writes the category under its external id, overwriting the
// name when the id already exists.
func (r *Repository) UpsertCategory(ctx context.Context, id uint, name string) (*models.Category, error) {
	category := models.Category{ID: id, Name: name}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
		}).
		Create(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// LinkShopCategory records that the shop sells the category. Idempotent.
func (r *Repository) LinkShopCategory(ctx context.Context, shopID, categoryID uint) error {
	return r.db.WithContext(ctx).
		Table("shop_categories").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]any{
			"shop_id":     shopID,
			"category_id": categoryID,
		}).Error
}

// GetOrCreateProduct returns the catalog product for (name, category).
func (r *Repository) GetOrCreateProduct(ctx context.Context, name string, categoryID uint) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where(models.Product{Name: name, CategoryID: categoryID}).
		FirstOrCreate(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetOrCreateParameter returns the global attribute name, creating it on first use.
func (r *Repository) GetOrCreateParameter(ctx context.Context, name string) (*models.Parameter, error) {
	var parameter models.Parameter
	err := r.db.WithContext(ctx).
		Where(models.Parameter{Name: name}).
		FirstOrCreate(&parameter).Error
	if err != nil {
		return nil, err
	}
	return &parameter, nil
}

// InsertProductInfo appends a fresh listing row.
func (r *Repository) InsertProductInfo(ctx context.Context, info *models.ProductInfo) error {
	return r.db.WithContext(ctx).Create(info).Error
}

// FindProductInfo looks up a listing by its reconciliation key.
func (r *Repository) FindProductInfo(ctx context.Context, productID, shopID, externalID uint) (*models.ProductInfo, error) {
	var info models.ProductInfo
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND shop_id = ? AND external_id = ?", productID, shopID, externalID).
		First(&info).Error
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// UpdateProductInfo rewrites the mutable listing fields in place.
func (r *Repository) UpdateProductInfo(ctx context.Context, info *models.ProductInfo) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductInfo{}).
		Where("id = ?", info.ID).
		Updates(map[string]any{
			"model":     info.Model,
			"price":     info.Price,
			"price_rrc": info.PriceRRC,
			"quantity":  info.Quantity,
		}).Error
}

// InsertProductParameter attaches one attribute value to a listing.
func (r *Repository) InsertProductParameter(ctx context.Context, pp *models.ProductParameter) error {
	return r.db.WithContext(ctx).Create(pp).Error
}

// DeleteProductParameters clears a listing's attributes ahead of a rewrite.
func (r *Repository) DeleteProductParameters(ctx context.Context, productInfoID uint) error {
	return r.db.WithContext(ctx).
		Where("product_info_id = ?", productInfoID).
		Delete(&models.ProductParameter{}).Error
}
