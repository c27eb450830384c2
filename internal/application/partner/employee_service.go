package partner

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sitecost/backend/internal/domain/partner"
	"github.com/sitecost/backend/internal/domain/shared"
)

// EmployeeService provides application-level employee operations
type EmployeeService struct {
	employeeRepo partner.EmployeeRepository
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo partner.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo}
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	JobTitle  string    `json:"job_title,omitempty"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateEmployeeRequest represents a request to create an employee
type CreateEmployeeRequest struct {
	Code     string `json:"code" binding:"required,max=50"`
	Name     string `json:"name" binding:"required,max=200"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
	JobTitle string `json:"job_title"`
	Notes    string `json:"notes"`
}

// UpdateEmployeeRequest represents a request to update an employee
type UpdateEmployeeRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Phone    string `json:"phone"`
	Email    string `json:"email" binding:"omitempty,email"`
	JobTitle string `json:"job_title"`
	Notes    string `json:"notes"`
}

// ListFilter defines filtering options for employee list queries
type ListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// Create creates a new employee
func (s *EmployeeService) Create(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	existing, err := s.employeeRepo.FindByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "An employee with this code already exists")
	}

	emp, err := partner.NewEmployee(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	emp.UpdateContact(req.Phone, req.Email)
	emp.JobTitle = req.JobTitle
	emp.Notes = req.Notes

	if err := s.employeeRepo.Save(ctx, emp); err != nil {
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

// GetByID gets an employee by ID
func (s *EmployeeService) GetByID(ctx context.Context, id uuid.UUID) (*EmployeeResponse, error) {
	emp, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

// Update updates an employee's profile and contact details
func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	emp, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := emp.UpdateProfile(req.Name, req.JobTitle); err != nil {
		return nil, err
	}
	emp.UpdateContact(req.Phone, req.Email)
	emp.Notes = req.Notes

	if err := s.employeeRepo.Save(ctx, emp); err != nil {
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

// Activate marks an employee as active
func (s *EmployeeService) Activate(ctx context.Context, id uuid.UUID) (*EmployeeResponse, error) {
	return s.setStatus(ctx, id, true)
}

// Deactivate marks an employee as inactive. The employee's petty cash
// history is untouched.
func (s *EmployeeService) Deactivate(ctx context.Context, id uuid.UUID) (*EmployeeResponse, error) {
	return s.setStatus(ctx, id, false)
}

func (s *EmployeeService) setStatus(ctx context.Context, id uuid.UUID, active bool) (*EmployeeResponse, error) {
	emp, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		emp.Activate()
	} else {
		emp.Deactivate()
	}
	if err := s.employeeRepo.Save(ctx, emp); err != nil {
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

// List lists employees with filtering
func (s *EmployeeService) List(ctx context.Context, filter ListFilter) ([]EmployeeResponse, int64, error) {
	domainFilter := partner.EmployeeFilter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.Status != "" {
		status := partner.EmployeeStatus(filter.Status)
		domainFilter.Status = &status
	}

	employees, total, err := s.employeeRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EmployeeResponse, len(employees))
	for i, emp := range employees {
		responses[i] = *toEmployeeResponse(emp)
	}
	return responses, total, nil
}

func toEmployeeResponse(emp *partner.Employee) *EmployeeResponse {
	return &EmployeeResponse{
		ID:        emp.ID,
		Code:      emp.Code,
		Name:      emp.Name,
		Phone:     emp.Phone,
		Email:     emp.Email,
		JobTitle:  emp.JobTitle,
		Status:    string(emp.Status),
		Notes:     emp.Notes,
		CreatedAt: emp.CreatedAt,
		UpdatedAt: emp.UpdatedAt,
	}
}
