package catalog

import (
	"context"

	"github.com/tiprecycle/shopd/internal/domain"
	"gorm.io/gorm"
)

// ItemRepository handles database operations for inventory rows
type ItemRepository interface {
	// List returns the full inventory snapshot
	List(ctx context.Context) ([]domain.ShopItem, error)

	// GetByID retrieves one item by surrogate key
	GetByID(ctx context.Context, id int64) (*domain.ShopItem, error)

	// GetByBarcode retrieves one item by its assigned barcode
	GetByBarcode(ctx context.Context, code string) (*domain.ShopItem, error)

	// Create inserts a new item
	Create(ctx context.Context, item *domain.ShopItem) error

	// Update overwrites the mutable fields of an existing item
	Update(ctx context.Context, item *domain.ShopItem) error

	// Delete removes an item permanently, reporting how many rows went
	Delete(ctx context.Context, id int64) (int64, error)
}

// SaleRepository handles the persisted sale history
type SaleRepository interface {
	// List returns sales newest first, capped at limit
	List(ctx context.Context, limit int) ([]domain.ShopSale, error)
}

// BarcodeProbe answers whether a code is already taken anywhere in the
// shared barcode space (items, repairs, sales).
type BarcodeProbe interface {
	InUse(ctx context.Context, code string) (bool, error)
}

// GormItemRepository is the GORM implementation of ItemRepository
type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) List(ctx context.Context) ([]domain.ShopItem, error) {
	var items []domain.ShopItem
	err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error
	return items, err
}

func (r *GormItemRepository) GetByID(ctx context.Context, id int64) (*domain.ShopItem, error) {
	var item domain.ShopItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormItemRepository) GetByBarcode(ctx context.Context, code string) (*domain.ShopItem, error) {
	var item domain.ShopItem
	err := r.db.WithContext(ctx).Where("barcode = ?", code).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormItemRepository) Create(ctx context.Context, item *domain.ShopItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormItemRepository) Update(ctx context.Context, item *domain.ShopItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *GormItemRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.ShopItem{}, id)
	return res.RowsAffected, res.Error
}

// GormSaleRepository is the GORM implementation of SaleRepository
type GormSaleRepository struct {
	db *gorm.DB
}

func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) List(ctx context.Context, limit int) ([]domain.ShopSale, error) {
	var sales []domain.ShopSale
	q := r.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&sales).Error
	return sales, err
}
