package partner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tamarind/backend/internal/application/ledger"
	"github.com/tamarind/backend/internal/domain/partner"
	"github.com/tamarind/backend/internal/domain/shared"
)

// CustomerService handles customer master data. Balances are owned by the
// ledger engine, so writes here go through it to share its locking and outbox.
type CustomerService struct {
	engine       *ledger.Engine
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(engine *ledger.Engine, customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{
		engine:       engine,
		customerRepo: customerRepo,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateHolderRequest) (*CustomerResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	exists, err := s.customerRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Customer with this code already exists")
	}

	var created *partner.Customer
	err = s.engine.Run(ctx, "create_customer", func(ctx context.Context, tx *ledger.Tx) error {
		customer, err := partner.NewCustomer(req.profile(), req.openingBalance())
		if err != nil {
			return err
		}
		if err := tx.Repos().CustomerRepo().Save(ctx, customer); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return shared.NewDomainError(shared.CodeAlreadyExists, "Customer with this code already exists")
			}
			return fmt.Errorf("save customer: %w", err)
		}
		tx.Track(customer)
		created = customer
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(created)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Customer", id)
		}
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with search and pagination
func (s *CustomerService) List(ctx context.Context, filter HolderListFilter) ([]CustomerResponse, int64, error) {
	filter.defaults()
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerResponses(customers), total, nil
}

// Update changes a customer's profile fields
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateHolderRequest) (*CustomerResponse, error) {
	var updated *partner.Customer
	err := s.engine.Run(ctx, "update_customer", func(ctx context.Context, tx *ledger.Tx) error {
		customer, err := tx.Customer(ctx, id)
		if err != nil {
			return err
		}
		if err := customer.UpdateProfile(req.apply(customer.Name, customer.Phone, customer.Address, customer.Notes)); err != nil {
			return err
		}
		if err := tx.Repos().CustomerRepo().SaveWithLock(ctx, customer); err != nil {
			return fmt.Errorf("save customer: %w", err)
		}
		updated = customer
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(updated)
	return &response, nil
}
