// Package customers implements registration, search and the loyalty
// point balance.
package customers

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tiprecycle/shopd/internal/domain"
	"github.com/tiprecycle/shopd/internal/shop"
	"github.com/tiprecycle/shopd/internal/shop/events"
	"github.com/tiprecycle/shopd/pkg/metrics"
)

// RegistrationPoints is the balance seeded by an explicit registration
// at the desk. Auto-created repair customers start at zero instead.
const RegistrationPoints = 100

var ErrNotFound = errors.New("customer not found")

// Settings is the slice of the runtime settings manager this service
// reads. The point balance is historically unclamped; the clamp is an
// opt-in switch, not an invariant.
type Settings interface {
	GetBool(category, name string) bool
}

type staticSettings bool

func (s staticSettings) GetBool(string, string) bool { return bool(s) }

// StaticClamp returns a fixed-value Settings, used in tests and by
// callers that do not carry a settings table.
func StaticClamp(clamp bool) Settings { return staticSettings(clamp) }

type Service struct {
	db       *gorm.DB
	repo     CustomerRepository
	settings Settings
	bus      shop.EventPublisher
}

func NewService(db *gorm.DB, repo CustomerRepository, settings Settings, bus shop.EventPublisher) *Service {
	if settings == nil {
		settings = StaticClamp(false)
	}
	if bus == nil {
		bus = shop.NopPublisher{}
	}
	return &Service{db: db, repo: repo, settings: settings, bus: bus}
}

// Register creates a customer with the registration point bonus.
func (s *Service) Register(ctx context.Context, name, email string) (*domain.ShopCustomer, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, shop.Invalidf("name", "must not be empty")
	}
	if email == "" {
		return nil, shop.Invalidf("email", "must not be empty")
	}

	customer := &domain.ShopCustomer{
		Name:   name,
		Email:  email,
		Points: RegistrationPoints,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, errors.Wrap(err, "customers: create failed")
	}

	metrics.CustomersRegistered.Inc()
	s.bus.Publish(events.TopicCustomerRegistered, customer.Name)
	zap.L().Info("customer registered",
		zap.Int64("customer_id", customer.ID),
		zap.String("name", customer.Name),
		zap.Int("points", customer.Points))
	return customer, nil
}

// List returns every customer for the dashboard grid.
func (s *Service) List(ctx context.Context) ([]domain.ShopCustomer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "customers: list failed")
	}
	return customers, nil
}

// Get returns one customer by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.ShopCustomer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "customers: lookup failed")
	}
	return customer, nil
}

// Search matches term as a case-insensitive substring of name or
// email. An empty term is rejected; the dashboard uses List for the
// unfiltered grid.
func (s *Service) Search(ctx context.Context, term string) ([]domain.ShopCustomer, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, shop.Invalidf("term", "must not be empty")
	}
	customers, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, errors.Wrap(err, "customers: search failed")
	}
	return customers, nil
}

// AdjustPoints adds delta to the stored balance. The balance may go
// negative unless the customer.points_clamp_zero setting is on, in
// which case it floors at zero. Read and write share one transaction.
func (s *Service) AdjustPoints(ctx context.Context, id int64, delta int) (*domain.ShopCustomer, error) {
	clamp := s.settings.GetBool("customer", "points_clamp_zero")

	var customer domain.ShopCustomer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&customer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return errors.Wrap(err, "customers: lookup failed")
		}

		next := customer.Points + delta
		if clamp && next < 0 {
			next = 0
		}
		customer.Points = next
		return tx.Model(&domain.ShopCustomer{}).
			Where("id = ?", id).
			Update("points", next).Error
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("customer points adjusted",
		zap.Int64("customer_id", id),
		zap.Int("delta", delta),
		zap.Bool("clamped", clamp))
	return &customer, nil
}
