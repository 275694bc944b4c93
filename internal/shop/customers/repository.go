package customers

import (
	"context"
	"strings"

	"github.com/tiprecycle/shopd/internal/domain"
	"gorm.io/gorm"
)

// CustomerRepository handles database operations for customer rows
type CustomerRepository interface {
	// List returns every customer
	List(ctx context.Context) ([]domain.ShopCustomer, error)

	// GetByID retrieves one customer by surrogate key
	GetByID(ctx context.Context, id int64) (*domain.ShopCustomer, error)

	// Create inserts a new customer
	Create(ctx context.Context, customer *domain.ShopCustomer) error

	// Search matches the term as a case-insensitive substring of name
	// or email
	Search(ctx context.Context, term string) ([]domain.ShopCustomer, error)
}

// GormCustomerRepository is the GORM implementation of CustomerRepository
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) List(ctx context.Context) ([]domain.ShopCustomer, error) {
	var customers []domain.ShopCustomer
	err := r.db.WithContext(ctx).Order("id ASC").Find(&customers).Error
	return customers, err
}

func (r *GormCustomerRepository) GetByID(ctx context.Context, id int64) (*domain.ShopCustomer, error) {
	var customer domain.ShopCustomer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *GormCustomerRepository) Create(ctx context.Context, customer *domain.ShopCustomer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *GormCustomerRepository) Search(ctx context.Context, term string) ([]domain.ShopCustomer, error) {
	db := r.db.WithContext(ctx).Model(&domain.ShopCustomer{})
	if strings.EqualFold(db.Name(), "postgres") {
		db = db.Where("name ILIKE ? OR email ILIKE ?", "%"+term+"%", "%"+term+"%")
	} else {
		low := "%" + strings.ToLower(term) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", low, low)
	}

	var customers []domain.ShopCustomer
	err := db.Order("id ASC").Find(&customers).Error
	return customers, err
}
