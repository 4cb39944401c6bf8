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

var _ repository.DepartmentRepository = (*DepartmentRepository)(nil)

// DepartmentRepository provides an in-memory implementation of repository.DepartmentRepository
type DepartmentRepository struct {
	departments map[int]*models.Department
	nextID      int
	mu          sync.RWMutex
}

// NewDepartmentRepository creates a new in-memory department repository
func NewDepartmentRepository() *DepartmentRepository {
	return &DepartmentRepository{
		departments: make(map[int]*models.Department),
		nextID:      1,
	}
}

func (r *DepartmentRepository) nameTaken(name string, exceptID int) bool {
	for id, d := range r.departments {
		if id != exceptID && strings.EqualFold(d.Name, name) {
			return true
		}
	}
	return false
}

// Create stores d and assigns its ID
func (r *DepartmentRepository) Create(ctx context.Context, d *models.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(d.Name, 0) {
		return fmt.Errorf("department %q: %w", d.Name, repository.ErrDuplicate)
	}
	d.ID = r.nextID
	r.nextID++
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	cp := *d
	r.departments[d.ID] = &cp
	return nil
}

// Get retrieves a department by ID
func (r *DepartmentRepository) Get(ctx context.Context, id int) (*models.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, exists := r.departments[id]
	if !exists {
		return nil, fmt.Errorf("department %d: %w", id, repository.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

// GetByName retrieves a department by name, ignoring case
func (r *DepartmentRepository) GetByName(ctx context.Context, name string) (*models.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.departments {
		if strings.EqualFold(d.Name, name) {
			cp := *d
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("department %q: %w", name, repository.ErrNotFound)
}

// Update renames an existing department
func (r *DepartmentRepository) Update(ctx context.Context, d *models.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, exists := r.departments[d.ID]
	if !exists {
		return fmt.Errorf("department %d: %w", d.ID, repository.ErrNotFound)
	}
	if r.nameTaken(d.Name, d.ID) {
		return fmt.Errorf("department %q: %w", d.Name, repository.ErrDuplicate)
	}
	cp := *d
	cp.CreatedAt = old.CreatedAt
	r.departments[d.ID] = &cp
	return nil
}

// Delete removes a department
func (r *DepartmentRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.departments[id]; !exists {
		return fmt.Errorf("department %d: %w", id, repository.ErrNotFound)
	}
	delete(r.departments, id)
	return nil
}

// List returns all departments ordered by name
func (r *DepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Department, 0, len(r.departments))
	for _, d := range r.departments {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
