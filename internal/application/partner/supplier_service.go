package partner

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sitecost/backend/internal/domain/partner"
	"github.com/sitecost/backend/internal/domain/shared"
)

// SupplierService provides application-level supplier operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	TaxID       string    `json:"tax_id,omitempty"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Name        string `json:"name" binding:"required,max=200"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	TaxID       string `json:"tax_id"`
	Notes       string `json:"notes"`
}

// UpdateSupplierRequest represents a request to update a supplier
type UpdateSupplierRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	TaxID       string `json:"tax_id"`
	Notes       string `json:"notes"`
}

// SupplierListFilter defines filtering options for supplier list queries
type SupplierListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	existing, err := s.supplierRepo.FindByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A supplier with this code already exists")
	}

	sup, err := partner.NewSupplier(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	sup.UpdateContact(req.ContactName, req.Phone, req.Email)
	sup.UpdateTaxID(req.TaxID)
	sup.Notes = req.Notes

	if err := s.supplierRepo.Save(ctx, sup); err != nil {
		return nil, err
	}
	return toSupplierResponse(sup), nil
}

// GetByID gets a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	sup, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(sup), nil
}

// Update updates a supplier
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	sup, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	sup.Name = req.Name
	sup.UpdateContact(req.ContactName, req.Phone, req.Email)
	sup.UpdateTaxID(req.TaxID)
	sup.Notes = req.Notes

	if err := s.supplierRepo.Save(ctx, sup); err != nil {
		return nil, err
	}
	return toSupplierResponse(sup), nil
}

// Activate marks a supplier as active
func (s *SupplierService) Activate(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	return s.setStatus(ctx, id, true)
}

// Deactivate marks a supplier as inactive
func (s *SupplierService) Deactivate(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	return s.setStatus(ctx, id, false)
}

func (s *SupplierService) setStatus(ctx context.Context, id uuid.UUID, active bool) (*SupplierResponse, error) {
	sup, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		sup.Activate()
	} else {
		sup.Deactivate()
	}
	if err := s.supplierRepo.Save(ctx, sup); err != nil {
		return nil, err
	}
	return toSupplierResponse(sup), nil
}

// List lists suppliers with filtering
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
	domainFilter := partner.SupplierFilter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Status != "" {
		status := partner.SupplierStatus(filter.Status)
		domainFilter.Status = &status
	}

	suppliers, total, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SupplierResponse, len(suppliers))
	for i, sup := range suppliers {
		responses[i] = *toSupplierResponse(sup)
	}
	return responses, total, nil
}

func toSupplierResponse(sup *partner.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:          sup.ID,
		Code:        sup.Code,
		Name:        sup.Name,
		ContactName: sup.ContactName,
		Phone:       sup.Phone,
		Email:       sup.Email,
		TaxID:       sup.TaxID,
		Status:      string(sup.Status),
		Notes:       sup.Notes,
		CreatedAt:   sup.CreatedAt,
		UpdatedAt:   sup.UpdatedAt,
	}
}
