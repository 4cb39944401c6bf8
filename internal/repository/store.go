// Package repository defines the storage contracts of the contract stub.
package repository

import (
	"context"
	"errors"

	"github.com/gotrs-io/emsuite/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// EmployeeFilter narrows List. Zero values match everything.
type EmployeeFilter struct {
	Query      string        // case-insensitive substring of name or email
	Status     models.Status // exact status
	Department string        // exact department name
}

// EmployeeRepository stores employees. Email is unique, compared case-insensitively.
type EmployeeRepository interface {
	Create(ctx context.Context, e *models.Employee) error
	Get(ctx context.Context, id int) (*models.Employee, error)
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	Update(ctx context.Context, e *models.Employee) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, f EmployeeFilter) ([]models.Employee, error)
	Count(ctx context.Context) (int, error)
}

// DepartmentRepository stores departments. Name is unique, compared case-insensitively.
type DepartmentRepository interface {
	Create(ctx context.Context, d *models.Department) error
	Get(ctx context.Context, id int) (*models.Department, error)
	GetByName(ctx context.Context, name string) (*models.Department, error)
	Update(ctx context.Context, d *models.Department) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]models.Department, error)
}
