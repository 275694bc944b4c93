// Package repairs implements repair ticket intake. Creating a ticket
// resolves the customer by exact name and lazily creates the row when
// the name is unknown, inside one transaction.
package repairs

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

var ErrNotFound = errors.New("repair ticket not found")

type Service struct {
	db    *gorm.DB
	repo  TicketRepository
	codes *barcode.Generator
	bus   shop.EventPublisher
}

func NewService(db *gorm.DB, repo TicketRepository, codes *barcode.Generator, bus shop.EventPublisher) *Service {
	if bus == nil {
		bus = shop.NopPublisher{}
	}
	return &Service{db: db, repo: repo, codes: codes, bus: bus}
}

// CreateRequest opens a Pending ticket with a fresh barcode. The
// customer lookup is an exact, case-sensitive name match; an unknown
// name creates the customer with zero points and no email. Lookup and
// create run in the same transaction so two identical submissions
// cannot produce two customer rows.
func (s *Service) CreateRequest(ctx context.Context, item, issue, customerName string) (*domain.ShopRepair, error) {
	item = strings.TrimSpace(item)
	issue = strings.TrimSpace(issue)
	customerName = strings.TrimSpace(customerName)
	if item == "" {
		return nil, shop.Invalidf("item", "must not be empty")
	}
	if issue == "" {
		return nil, shop.Invalidf("issue", "must not be empty")
	}
	if customerName == "" {
		return nil, shop.Invalidf("customer_name", "must not be empty")
	}

	var ticket *domain.ShopRepair
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer domain.ShopCustomer
		err := tx.Where("name = ?", customerName).First(&customer).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			customer = domain.ShopCustomer{Name: customerName, Points: 0}
			if err := tx.Create(&customer).Error; err != nil {
				return errors.Wrap(err, "repairs: customer create failed")
			}
			zap.L().Info("customer auto-created for repair intake",
				zap.Int64("customer_id", customer.ID),
				zap.String("name", customer.Name))
		case err != nil:
			return errors.Wrap(err, "repairs: customer lookup failed")
		}

		code, err := s.codes.NextUnique(func(c string) (bool, error) {
			return lookup.CodeInUse(tx, c)
		})
		if err != nil {
			return err
		}

		ticket = &domain.ShopRepair{
			Item:       item,
			Issue:      issue,
			Status:     domain.StatusPending,
			CustomerID: customer.ID,
			Barcode:    code,
		}
		if err := tx.Create(ticket).Error; err != nil {
			return errors.Wrap(err, "repairs: ticket create failed")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RepairsOpened.Inc()
	s.bus.Publish(events.TopicRepairCreated, ticket.Barcode, customerName)
	zap.L().Info("repair request created",
		zap.Int64("ticket_id", ticket.ID),
		zap.String("item", ticket.Item),
		zap.String("barcode", ticket.Barcode))
	return ticket, nil
}

// List returns tickets newest first.
func (s *Service) List(ctx context.Context) ([]domain.ShopRepair, error) {
	tickets, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "repairs: list failed")
	}
	return tickets, nil
}

// Get returns one ticket by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.ShopRepair, error) {
	ticket, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "repairs: lookup failed")
	}
	return ticket, nil
}

// UpdateStatus moves a ticket to a new status. The status set is open;
// only emptiness is rejected here.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return shop.Invalidf("status", "must not be empty")
	}
	affected, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return errors.Wrap(err, "repairs: status update failed")
	}
	if affected == 0 {
		return ErrNotFound
	}
	zap.L().Info("repair status updated",
		zap.Int64("ticket_id", id),
		zap.String("status", status))
	return nil
}
