package catalog

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tiprecycle/shopd/internal/domain"
	"github.com/tiprecycle/shopd/internal/shop"
	"github.com/tiprecycle/shopd/internal/shop/barcode"
	"github.com/tiprecycle/shopd/internal/shop/lookup"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewService(db,
		NewGormItemRepository(db),
		NewGormSaleRepository(db),
		lookup.NewGormCodeRepository(db),
		barcode.NewSeeded(1), nil)
	return svc, db
}

func TestAddAssignsBarcode(t *testing.T) {
	svc, _ := newTestService(t)

	item, err := svc.Add(context.Background(), "Refurbished Fan", 450, 3)
	require.NoError(t, err)
	require.Len(t, item.Barcode, barcode.Length)
	_, err = strconv.Atoi(item.Barcode)
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
}

func TestAddValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "  ", 10, 1)
	assert.True(t, shop.IsValidation(err))

	_, err = svc.Add(ctx, "Fan", -1, 1)
	assert.True(t, shop.IsValidation(err))

	_, err = svc.Add(ctx, "Fan", MaxPrice+1, 1)
	assert.True(t, shop.IsValidation(err))

	_, err = svc.Add(ctx, "Fan", 10, -1)
	assert.True(t, shop.IsValidation(err))

	_, err = svc.Add(ctx, "Fan", 10, MaxStock+1)
	assert.True(t, shop.IsValidation(err))
}

func TestAddZeroStockAllowed(t *testing.T) {
	svc, _ := newTestService(t)

	item, err := svc.Add(context.Background(), "Display Unit", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Stock)
}

func TestEditKeepsBarcode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, "Old Radio", 200, 1)
	require.NoError(t, err)

	updated, err := svc.Edit(ctx, item.ID, "Restored Radio", 350, 2)
	require.NoError(t, err)
	assert.Equal(t, "Restored Radio", updated.Name)
	assert.Equal(t, 350.0, updated.Price)
	assert.Equal(t, 2, updated.Stock)
	assert.Equal(t, item.Barcode, updated.Barcode)
}

func TestEditUnknownID(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Edit(context.Background(), 999, "Ghost", 10, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, "Broken Kettle", 50, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, item.ID))
	assert.ErrorIs(t, svc.Delete(ctx, item.ID), ErrNotFound)
}

func TestSellByBarcode(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, "Toaster", 300, 2)
	require.NoError(t, err)

	receipt, err := svc.SellByBarcode(ctx, item.Barcode)
	require.NoError(t, err)
	assert.Equal(t, "Toaster", receipt.ItemName)
	assert.Equal(t, 300.0, receipt.Price)
	assert.Equal(t, 1, receipt.Remaining)
	assert.Len(t, receipt.SaleBarcode, barcode.Length)
	assert.NotEqual(t, item.Barcode, receipt.SaleBarcode)

	var stored domain.ShopItem
	require.NoError(t, db.First(&stored, item.ID).Error)
	assert.Equal(t, 1, stored.Stock)

	var sale domain.ShopSale
	require.NoError(t, db.Where("barcode = ?", receipt.SaleBarcode).First(&sale).Error)
	assert.Equal(t, item.ID, sale.ItemID)
	assert.Equal(t, "Toaster", sale.ItemName)
}

func TestSellUntilOutOfStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, "Lamp", 120, 1)
	require.NoError(t, err)

	receipt, err := svc.SellByBarcode(ctx, item.Barcode)
	require.NoError(t, err)
	assert.Equal(t, 0, receipt.Remaining)

	_, err = svc.SellByBarcode(ctx, item.Barcode)
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestSellZeroStock(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, "Shelf Model", 80, 0)
	require.NoError(t, err)

	_, err = svc.SellByBarcode(ctx, item.Barcode)
	assert.ErrorIs(t, err, ErrOutOfStock)

	// Rejected sale leaves no trace in the history.
	var count int64
	require.NoError(t, db.Model(&domain.ShopSale{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSellUnknownBarcode(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SellByBarcode(context.Background(), "000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SellByBarcode(context.Background(), "")
	assert.True(t, shop.IsValidation(err))
}

func TestSaleHistoryNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, "Mixer", 150, 3)
	require.NoError(t, err)
	var codes []string
	for i := 0; i < 3; i++ {
		receipt, err := svc.SellByBarcode(ctx, item.Barcode)
		require.NoError(t, err)
		codes = append(codes, receipt.SaleBarcode)
	}

	sales, err := svc.SaleHistory(ctx, 2)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, codes[2], sales[0].Barcode)
	assert.Equal(t, codes[1], sales[1].Barcode)
}
