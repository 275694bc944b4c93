package customers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tiprecycle/shopd/internal/domain"
	"github.com/tiprecycle/shopd/internal/shop"
)

func newTestService(t *testing.T, settings Settings) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return NewService(db, NewGormCustomerRepository(db), settings, nil), db
}

func TestRegisterAwardsPoints(t *testing.T) {
	svc, _ := newTestService(t, nil)

	customer, err := svc.Register(context.Background(), "Ana Santos", "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, RegistrationPoints, customer.Points)
	assert.NotZero(t, customer.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "ana@example.com")
	assert.True(t, shop.IsValidation(err))
	_, err = svc.Register(ctx, "Ana Santos", "  ")
	assert.True(t, shop.IsValidation(err))
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana Santos", "ana@example.com")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Jose Reyes", "jose@mail.test")
	require.NoError(t, err)

	rows, err := svc.Search(ctx, "SANTOS")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana Santos", rows[0].Name)

	// Email fragments match too.
	rows, err = svc.Search(ctx, "mail.test")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jose Reyes", rows[0].Name)

	rows, err = svc.Search(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = svc.Search(ctx, "  ")
	assert.True(t, shop.IsValidation(err))
}

func TestAdjustPointsUnclamped(t *testing.T) {
	svc, db := newTestService(t, nil)
	ctx := context.Background()

	customer, err := svc.Register(ctx, "Ana Santos", "ana@example.com")
	require.NoError(t, err)

	updated, err := svc.AdjustPoints(ctx, customer.ID, -150)
	require.NoError(t, err)
	assert.Equal(t, -50, updated.Points)

	var stored domain.ShopCustomer
	require.NoError(t, db.First(&stored, customer.ID).Error)
	assert.Equal(t, -50, stored.Points)

	updated, err = svc.AdjustPoints(ctx, customer.ID, 75)
	require.NoError(t, err)
	assert.Equal(t, 25, updated.Points)
}

func TestAdjustPointsClamped(t *testing.T) {
	svc, _ := newTestService(t, StaticClamp(true))
	ctx := context.Background()

	customer, err := svc.Register(ctx, "Ana Santos", "ana@example.com")
	require.NoError(t, err)

	updated, err := svc.AdjustPoints(ctx, customer.ID, -150)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Points)
}

func TestAdjustPointsUnknownCustomer(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.AdjustPoints(context.Background(), 999, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	customer, err := svc.Register(ctx, "Ana Santos", "ana@example.com")
	require.NoError(t, err)

	got, err := svc.Get(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.Name, got.Name)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
