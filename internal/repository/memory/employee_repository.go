package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gotrs-io/emsuite/internal/models"
	"github.com/gotrs-io/emsuite/internal/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepository)(nil)

// EmployeeRepository provides an in-memory implementation of repository.EmployeeRepository
type EmployeeRepository struct {
	employees map[int]*models.Employee
	nextID    int
	mu        sync.RWMutex
	now       func() time.Time
}

// NewEmployeeRepository creates a new in-memory employee repository
func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		employees: make(map[int]*models.Employee),
		nextID:    1,
		now:       time.Now,
	}
}

// Create stores e and assigns its ID
func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(e.Email, 0) {
		return fmt.Errorf("employee %q: %w", e.Email, repository.ErrDuplicate)
	}
	e.ID = r.nextID
	r.nextID++
	if e.CreatedAt.IsZero() {
		e.CreatedAt = r.now()
	}
	cp := *e
	r.employees[e.ID] = &cp
	return nil
}

func (r *EmployeeRepository) emailTaken(email string, exceptID int) bool {
	for id, e := range r.employees {
		if id != exceptID && strings.EqualFold(e.Email, email) {
			return true
		}
	}
	return false
}

// Get retrieves an employee by ID
func (r *EmployeeRepository) Get(ctx context.Context, id int) (*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.employees[id]
	if !exists {
		return nil, fmt.Errorf("employee %d: %w", id, repository.ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

// GetByEmail retrieves an employee by email, ignoring case
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.employees {
		if strings.EqualFold(e.Email, email) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("employee %q: %w", email, repository.ErrNotFound)
}

// Update replaces an existing employee
func (r *EmployeeRepository) Update(ctx context.Context, e *models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, exists := r.employees[e.ID]
	if !exists {
		return fmt.Errorf("employee %d: %w", e.ID, repository.ErrNotFound)
	}
	if r.emailTaken(e.Email, e.ID) {
		return fmt.Errorf("employee %q: %w", e.Email, repository.ErrDuplicate)
	}
	cp := *e
	cp.CreatedAt = old.CreatedAt
	r.employees[e.ID] = &cp
	return nil
}

// Delete removes an employee
func (r *EmployeeRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.employees[id]; !exists {
		return fmt.Errorf("employee %d: %w", id, repository.ErrNotFound)
	}
	delete(r.employees, id)
	return nil
}

// List returns the employees matching f, ordered by name then ID
func (r *EmployeeRepository) List(ctx context.Context, f repository.EmployeeFilter) ([]models.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]models.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		if q != "" && !strings.Contains(strings.ToLower(e.Name), q) && !strings.Contains(strings.ToLower(e.Email), q) {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.Department != "" && e.Department != f.Department {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Count returns the number of stored employees
func (r *EmployeeRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.employees), nil
}

// RenameDepartment rewrites the department of every employee in from.
func (r *EmployeeRepository) RenameDepartment(ctx context.Context, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.employees {
		if e.Department == from {
			e.Department = to
		}
	}
	return nil
}

// ClearDepartment detaches every employee from department.
func (r *EmployeeRepository) ClearDepartment(ctx context.Context, department string) error {
	return r.RenameDepartment(ctx, department, "")
}
