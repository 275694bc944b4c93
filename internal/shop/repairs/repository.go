package repairs

import (
	"context"

	"github.com/tiprecycle/shopd/internal/domain"
	"gorm.io/gorm"
)

// TicketRepository handles database operations for repair tickets
type TicketRepository interface {
	// List returns tickets newest first
	List(ctx context.Context) ([]domain.ShopRepair, error)

	// GetByID retrieves one ticket by surrogate key
	GetByID(ctx context.Context, id int64) (*domain.ShopRepair, error)

	// UpdateStatus moves a ticket to a new status, reporting rows hit
	UpdateStatus(ctx context.Context, id int64, status string) (int64, error)
}

// GormTicketRepository is the GORM implementation of TicketRepository
type GormTicketRepository struct {
	db *gorm.DB
}

func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

func (r *GormTicketRepository) List(ctx context.Context) ([]domain.ShopRepair, error) {
	var tickets []domain.ShopRepair
	err := r.db.WithContext(ctx).Order("id DESC").Find(&tickets).Error
	return tickets, err
}

func (r *GormTicketRepository) GetByID(ctx context.Context, id int64) (*domain.ShopRepair, error) {
	var ticket domain.ShopRepair
	err := r.db.WithContext(ctx).First(&ticket, id).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *GormTicketRepository) UpdateStatus(ctx context.Context, id int64, status string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.ShopRepair{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected, res.Error
}
