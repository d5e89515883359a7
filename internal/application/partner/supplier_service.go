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

// SupplierService handles supplier master data
type SupplierService struct {
	engine       *ledger.Engine
	supplierRepo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(engine *ledger.Engine, supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{
		engine:       engine,
		supplierRepo: supplierRepo,
	}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateHolderRequest) (*SupplierResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	exists, err := s.supplierRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Supplier with this code already exists")
	}

	var created *partner.Supplier
	err = s.engine.Run(ctx, "create_supplier", func(ctx context.Context, tx *ledger.Tx) error {
		supplier, err := partner.NewSupplier(req.profile(), req.openingBalance())
		if err != nil {
			return err
		}
		if err := tx.Repos().SupplierRepo().Save(ctx, supplier); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return shared.NewDomainError(shared.CodeAlreadyExists, "Supplier with this code already exists")
			}
			return fmt.Errorf("save supplier: %w", err)
		}
		tx.Track(supplier)
		created = supplier
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToSupplierResponse(created)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Supplier", id)
		}
		return nil, err
	}

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves suppliers with search and pagination
func (s *SupplierService) List(ctx context.Context, filter HolderListFilter) ([]SupplierResponse, int64, error) {
	filter.defaults()
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}

	suppliers, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSupplierResponses(suppliers), total, nil
}

// Update changes a supplier's profile fields. The outstanding balance is
// never touched here, even when it is negative.
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req UpdateHolderRequest) (*SupplierResponse, error) {
	var updated *partner.Supplier
	err := s.engine.Run(ctx, "update_supplier", func(ctx context.Context, tx *ledger.Tx) error {
		supplier, err := tx.Supplier(ctx, id)
		if err != nil {
			return err
		}
		if err := supplier.UpdateProfile(req.apply(supplier.Name, supplier.Phone, supplier.Address, supplier.Notes)); err != nil {
			return err
		}
		if err := tx.Repos().SupplierRepo().SaveWithLock(ctx, supplier); err != nil {
			return fmt.Errorf("save supplier: %w", err)
		}
		updated = supplier
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToSupplierResponse(updated)
	return &response, nil
}
