// Package catalog implements the inventory lifecycle: add, edit,
// delete, list and the barcode-driven sale.
package catalog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tiprecycle/shopd/internal/domain"
	"github.com/tiprecycle/shopd/internal/shop"
	"github.com/tiprecycle/shopd/internal/shop/barcode"
	"github.com/tiprecycle/shopd/internal/shop/events"
	"github.com/tiprecycle/shopd/internal/shop/lookup"
	"github.com/tiprecycle/shopd/pkg/metrics"
)

// Price and stock bounds carried over from the intake dialogs.
const (
	MaxPrice = 1_000_000
	MaxStock = 1_000_000
)

var (
	ErrNotFound   = errors.New("item not found")
	ErrOutOfStock = errors.New("item out of stock")
)

// SaleReceipt is what the operator hands to the buyer: the sold item,
// its price and a freshly generated sale barcode.
type SaleReceipt struct {
	ItemName    string  `json:"item_name"`
	Price       float64 `json:"price"`
	SaleBarcode string  `json:"sale_barcode"`
	Remaining   int     `json:"remaining"`
}

type Service struct {
	db    *gorm.DB
	repo  ItemRepository
	sales SaleRepository
	probe BarcodeProbe
	codes *barcode.Generator
	bus   shop.EventPublisher
}

func NewService(db *gorm.DB, repo ItemRepository, sales SaleRepository, probe BarcodeProbe, codes *barcode.Generator, bus shop.EventPublisher) *Service {
	if bus == nil {
		bus = shop.NopPublisher{}
	}
	return &Service{db: db, repo: repo, sales: sales, probe: probe, codes: codes, bus: bus}
}

// List returns the full inventory snapshot.
func (s *Service) List(ctx context.Context) ([]domain.ShopItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "catalog: list failed")
	}
	return items, nil
}

// Add validates the intake fields, assigns a barcode and persists the
// new item.
func (s *Service) Add(ctx context.Context, name string, price float64, stock int) (*domain.ShopItem, error) {
	name = strings.TrimSpace(name)
	if err := validateItemFields(name, price, stock); err != nil {
		return nil, err
	}

	code, err := s.codes.NextUnique(func(c string) (bool, error) {
		return s.probe.InUse(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	item := &domain.ShopItem{
		Name:    name,
		Price:   price,
		Stock:   stock,
		Barcode: code,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, errors.Wrap(err, "catalog: create failed")
	}

	zap.L().Info("inventory item added",
		zap.Int64("item_id", item.ID),
		zap.String("name", item.Name),
		zap.String("barcode", item.Barcode))
	return item, nil
}

// Edit overwrites name, price and stock in place. The barcode never
// changes once assigned.
func (s *Service) Edit(ctx context.Context, id int64, name string, price float64, stock int) (*domain.ShopItem, error) {
	name = strings.TrimSpace(name)
	if err := validateItemFields(name, price, stock); err != nil {
		return nil, err
	}

	item, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "catalog: lookup failed")
	}

	item.Name = name
	item.Price = price
	item.Stock = stock
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, errors.Wrap(err, "catalog: update failed")
	}
	return item, nil
}

// Delete removes an item permanently. Confirmation is the caller's job.
func (s *Service) Delete(ctx context.Context, id int64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return errors.Wrap(err, "catalog: delete failed")
	}
	if affected == 0 {
		return ErrNotFound
	}
	zap.L().Info("inventory item deleted", zap.Int64("item_id", id))
	return nil
}

// SellByBarcode decrements stock by one and records the sale. The
// guarded update and the sale insert commit together or not at all.
func (s *Service) SellByBarcode(ctx context.Context, code string) (*SaleReceipt, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shop.Invalidf("barcode", "must not be empty")
	}

	var receipt *SaleReceipt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item domain.ShopItem
		if err := tx.Where("barcode = ?", code).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "catalog: sale lookup failed")
		}

		if item.Stock <= 0 {
			return ErrOutOfStock
		}

		// Guarded decrement: never drives stock negative even if a
		// concurrent sale got here first.
		res := tx.Model(&domain.ShopItem{}).
			Where("id = ? AND stock > 0", item.ID).
			Update("stock", gorm.Expr("stock - 1"))
		if res.Error != nil {
			return errors.Wrap(res.Error, "catalog: stock update failed")
		}
		if res.RowsAffected == 0 {
			return ErrOutOfStock
		}

		saleCode, err := s.codes.NextUnique(func(c string) (bool, error) {
			return lookup.CodeInUse(tx, c)
		})
		if err != nil {
			return err
		}

		sale := domain.ShopSale{
			ItemID:   item.ID,
			ItemName: item.Name,
			Price:    item.Price,
			Barcode:  saleCode,
		}
		if err := tx.Create(&sale).Error; err != nil {
			return errors.Wrap(err, "catalog: sale record failed")
		}

		receipt = &SaleReceipt{
			ItemName:    item.Name,
			Price:       item.Price,
			SaleBarcode: saleCode,
			Remaining:   item.Stock - 1,
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			metrics.SalesRejected.WithLabelValues("not_found").Inc()
		case errors.Is(err, ErrOutOfStock):
			metrics.SalesRejected.WithLabelValues("out_of_stock").Inc()
		}
		return nil, err
	}

	metrics.SalesCompleted.Inc()
	s.bus.Publish(events.TopicSaleCompleted, receipt.ItemName, receipt.SaleBarcode)
	zap.L().Info("sale completed",
		zap.String("item", receipt.ItemName),
		zap.Float64("price", receipt.Price),
		zap.String("sale_barcode", receipt.SaleBarcode))
	return receipt, nil
}

// SaleHistory returns recorded sales, newest first.
func (s *Service) SaleHistory(ctx context.Context, limit int) ([]domain.ShopSale, error) {
	sales, err := s.sales.List(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "catalog: sale history failed")
	}
	return sales, nil
}

func validateItemFields(name string, price float64, stock int) error {
	if name == "" {
		return shop.Invalidf("name", "must not be empty")
	}
	if price < 0 || price > MaxPrice {
		return shop.Invalidf("price", "must be within [0, %d]", MaxPrice)
	}
	if stock < 0 || stock > MaxStock {
		return shop.Invalidf("stock", "must be within [0, %d]", MaxStock)
	}
	return nil
}
