package partner

import (
	"strings"
	"time"

	"github.com/sitecost/backend/internal/domain/shared"
)

// EmployeeStatus represents the status of an employee
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
)

// IsValid returns true if the status is a valid EmployeeStatus
func (s EmployeeStatus) IsValid() bool {
	return s == EmployeeStatusActive || s == EmployeeStatusInactive
}

// Employee represents a company employee. The petty cash ledger references
// employees by ID only; nothing here owns ledger state.
type Employee struct {
	shared.BaseAggregateRoot
	Code     string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string         `gorm:"type:varchar(200);not null"`
	Phone    string         `gorm:"type:varchar(50);index"`
	Email    string         `gorm:"type:varchar(200)"`
	JobTitle string         `gorm:"type:varchar(100)"`
	Status   EmployeeStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes    string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// NewEmployee creates a new employee with required fields
func NewEmployee(code, name string) (*Employee, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Employee code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Employee code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Employee name cannot exceed 200 characters")
	}

	return &Employee{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            EmployeeStatusActive,
	}, nil
}

// UpdateContact updates the employee's contact details
func (e *Employee) UpdateContact(phone, email string) {
	e.Phone = phone
	e.Email = email
	e.UpdatedAt = time.Now()
}

// UpdateProfile updates the employee's name and job title
func (e *Employee) UpdateProfile(name, jobTitle string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
	}
	e.Name = name
	e.JobTitle = jobTitle
	e.UpdatedAt = time.Now()
	return nil
}

// Deactivate marks the employee as inactive. Ledger history is retained.
func (e *Employee) Deactivate() {
	e.Status = EmployeeStatusInactive
	e.UpdatedAt = time.Now()
}

// Activate marks the employee as active
func (e *Employee) Activate() {
	e.Status = EmployeeStatusActive
	e.UpdatedAt = time.Now()
}

// IsActive returns true if the employee is active
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeStatusActive
}
