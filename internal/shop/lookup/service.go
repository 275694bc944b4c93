// Package lookup resolves a scanned barcode against the shared code
// space. Inventory wins over repairs; anything else is NotFound, which
// is a valid outcome rather than an error.
package lookup

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/tiprecycle/shopd/internal/domain"
	"github.com/tiprecycle/shopd/internal/shop"
)

type Kind string

const (
	KindInventory Kind = "inventory"
	KindRepair    Kind = "repair"
	KindNotFound  Kind = "not_found"
)

// InventoryMatch is the projection shown for a scanned item code.
type InventoryMatch struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// RepairMatch is the projection shown for a scanned ticket code.
type RepairMatch struct {
	Item   string `json:"item"`
	Issue  string `json:"issue"`
	Status string `json:"status"`
}

// Result is the tagged outcome of a scan. Exactly one of Inventory or
// Repair is set unless Kind is KindNotFound.
type Result struct {
	Kind      Kind            `json:"kind"`
	Inventory *InventoryMatch `json:"inventory,omitempty"`
	Repair    *RepairMatch    `json:"repair,omitempty"`
}

// CodeRepository handles barcode probes across every table drawing from
// the shared 9-digit space.
type CodeRepository interface {
	// FindItem resolves a code to an inventory row
	FindItem(ctx context.Context, code string) (*domain.ShopItem, error)

	// FindRepair resolves a code to a repair ticket
	FindRepair(ctx context.Context, code string) (*domain.ShopRepair, error)

	// InUse reports whether any table already holds the code
	InUse(ctx context.Context, code string) (bool, error)
}

// GormCodeRepository is the GORM implementation of CodeRepository
type GormCodeRepository struct {
	db *gorm.DB
}

func NewGormCodeRepository(db *gorm.DB) *GormCodeRepository {
	return &GormCodeRepository{db: db}
}

func (r *GormCodeRepository) FindItem(ctx context.Context, code string) (*domain.ShopItem, error) {
	var item domain.ShopItem
	err := r.db.WithContext(ctx).Where("barcode = ?", code).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormCodeRepository) FindRepair(ctx context.Context, code string) (*domain.ShopRepair, error) {
	var ticket domain.ShopRepair
	err := r.db.WithContext(ctx).Where("barcode = ?", code).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *GormCodeRepository) InUse(ctx context.Context, code string) (bool, error) {
	return CodeInUse(r.db.WithContext(ctx), code)
}

// CodeInUse probes every table drawing from the shared barcode space.
// It accepts a transaction handle so callers generating codes inside a
// write transaction probe through the same connection.
func CodeInUse(db *gorm.DB, code string) (bool, error) {
	var count int64
	for _, model := range []interface{}{&domain.ShopItem{}, &domain.ShopRepair{}, &domain.ShopSale{}} {
		if err := db.Model(model).Where("barcode = ?", code).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}

type Service struct {
	repo CodeRepository
}

func NewService(repo CodeRepository) *Service {
	return &Service{repo: repo}
}

// Resolve tries the inventory table first and falls back to repairs.
// The precedence is fixed: an item match always wins.
func (s *Service) Resolve(ctx context.Context, code string) (*Result, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shop.Invalidf("barcode", "must not be empty")
	}

	item, err := s.repo.FindItem(ctx, code)
	switch {
	case err == nil:
		return &Result{
			Kind: KindInventory,
			Inventory: &InventoryMatch{
				Name:  item.Name,
				Price: item.Price,
				Stock: item.Stock,
			},
		}, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errors.Wrap(err, "lookup: inventory probe failed")
	}

	ticket, err := s.repo.FindRepair(ctx, code)
	switch {
	case err == nil:
		return &Result{
			Kind: KindRepair,
			Repair: &RepairMatch{
				Item:   ticket.Item,
				Issue:  ticket.Issue,
				Status: ticket.Status,
			},
		}, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errors.Wrap(err, "lookup: repair probe failed")
	}

	return &Result{Kind: KindNotFound}, nil
}
