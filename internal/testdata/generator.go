// Package testdata generates unique employee and department data and loads the
// bundled fixture files.
package testdata

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/gotrs-io/emsuite/internal/models"
)

var (
	FirstNames = []string{
		"John", "Jane", "Michael", "Emily", "David", "Sarah",
		"Robert", "Lisa", "William", "Elizabeth", "Richard", "Jennifer",
	}
	LastNames = []string{
		"Smith", "Johnson", "Williams", "Jones", "Brown", "Davis",
		"Miller", "Wilson", "Moore", "Taylor", "Anderson", "Thomas",
	}
	EmailDomains    = []string{"example.com", "test.com", "email.com", "domain.com", "company.com"}
	DepartmentNames = []string{
		"Accounting", "Business Development", "Data Science", "Design", "Engineering",
		"Finance", "Human Resources", "Legal", "Marketing", "Operations",
		"Product Management", "Quality Assurance", "Research", "Sales", "Support",
	}
)

const (
	MinSalary = 30000.0
	MaxSalary = 150000.0

	localPartChars = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Generator produces random test records. It is not safe for concurrent use; give
// each test its own.
type Generator struct {
	rnd      *rand.Rand
	now      func() time.Time
	fixtures *Fixtures
}

type GeneratorOption func(*Generator)

// WithRand fixes the random source, e.g. rand.New(rand.NewSource(1)) in tests.
func WithRand(r *rand.Rand) GeneratorOption {
	return func(g *Generator) { g.rnd = r }
}

// WithClock replaces time.Now for the email suffix.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

// WithFixtures lets Employee pick departments from the departments fixture.
func WithFixtures(f *Fixtures) GeneratorOption {
	return func(g *Generator) { g.fixtures = f }
}

func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) pick(from []string) string {
	return from[g.rnd.Intn(len(from))]
}

// Name returns "First Last".
func (g *Generator) Name() string {
	return g.pick(FirstNames) + " " + g.pick(LastNames)
}

// Email derives an address from name, or from 8 random characters when name is empty.
// The HHMMSS suffix keeps addresses from one run apart from earlier runs.
func (g *Generator) Email(name string) string {
	local := strings.ReplaceAll(strings.ToLower(name), " ", ".")
	if name == "" {
		var b strings.Builder
		for i := 0; i < 8; i++ {
			b.WriteByte(localPartChars[g.rnd.Intn(len(localPartChars))])
		}
		local = b.String()
	}
	return fmt.Sprintf("%s.%s@%s", local, g.now().Format("150405"), g.pick(EmailDomains))
}

// Salary is uniform in [MinSalary, MaxSalary], rounded to cents.
func (g *Generator) Salary() float64 {
	v := MinSalary + g.rnd.Float64()*(MaxSalary-MinSalary)
	return math.Round(v*100) / 100
}

func (g *Generator) Status() models.Status {
	return models.Statuses[g.rnd.Intn(len(models.Statuses))]
}

// DepartmentName returns a vocabulary name with a three-digit suffix, e.g. "Legal-042".
func (g *Generator) DepartmentName() string {
	return fmt.Sprintf("%s-%03d", g.pick(DepartmentNames), g.rnd.Intn(1000))
}

// Employee builds a complete record. An empty department is replaced by one from
// the departments fixture, or from the vocabulary when no fixture is available.
func (g *Generator) Employee(department string) models.Employee {
	if department == "" {
		department = g.randomDepartment()
	}
	name := g.Name()
	return models.Employee{
		Name:       name,
		Email:      g.Email(name),
		Department: department,
		Salary:     g.Salary(),
		Status:     g.Status(),
	}
}

func (g *Generator) randomDepartment() string {
	if g.fixtures != nil {
		if d, err := g.fixtures.RandomDepartment(g.rnd); err == nil && d.Name != "" {
			return d.Name
		}
	}
	return g.pick(DepartmentNames)
}

// UniqueName appends the clock's HHMMSS and a random number so that a name from
// this run does not collide with rows left by earlier runs.
func (g *Generator) UniqueName(prefix string) string {
	return fmt.Sprintf("%s %s-%03d", prefix, g.now().Format("150405"), g.rnd.Intn(1000))
}
