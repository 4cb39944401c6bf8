package helpers

import (
	"testing"

	"github.com/gotrs-io/emsuite/internal/browser"
	"github.com/gotrs-io/emsuite/internal/config"
	"github.com/gotrs-io/emsuite/internal/models"
	"github.com/gotrs-io/emsuite/internal/pages"
	"github.com/gotrs-io/emsuite/internal/testdata"
)

// Suite is what every scenario starts from: its own browser session on the
// resolved target, opened on the home page, plus a data generator.
type Suite struct {
	Session  *browser.Session
	Config   *config.Config
	Base     pages.Base
	Home     *pages.HomePage
	Data     *testdata.Generator
	Fixtures *testdata.Fixtures
}

// NewSuite resolves the target, opens a session released by t.Cleanup and loads
// the home page. Setup failures fail the test at once.
func NewSuite(t *testing.T) *Suite {
	t.Helper()
	if testing.Short() {
		t.Skip("browser scenario")
	}

	tgt, err := ResolveTarget()
	if err != nil {
		t.Fatalf("Failed to resolve target: %v", err)
	}

	s := browser.ForTest(t, tgt.Config, tgt.Log)
	base := pages.FromSession(s)
	fixtures := &testdata.Fixtures{Dir: tgt.Config.Fixtures.Dir}

	home, err := pages.NewHomePage(base).Open()
	if err != nil {
		t.Fatalf("Failed to open home page: %v", err)
	}
	return &Suite{
		Session:  s,
		Config:   tgt.Config,
		Base:     base,
		Home:     home,
		Data:     testdata.NewGenerator(testdata.WithFixtures(fixtures)),
		Fixtures: fixtures,
	}
}

// Employees opens the employee list directly.
func (s *Suite) Employees(t *testing.T) *pages.EmployeeListPage {
	t.Helper()
	list, err := pages.NewEmployeeListPage(s.Base).Open()
	if err != nil {
		t.Fatalf("Failed to open employee list: %v", err)
	}
	return list
}

// Departments opens the department list directly.
func (s *Suite) Departments(t *testing.T) *pages.DepartmentListPage {
	t.Helper()
	list, err := pages.NewDepartmentListPage(s.Base).Open()
	if err != nil {
		t.Fatalf("Failed to open department list: %v", err)
	}
	return list
}

// EnsureDepartment makes sure the department exists before employees reference it.
func (s *Suite) EnsureDepartment(t *testing.T, name string) {
	t.Helper()
	if _, err := pages.NewDepartmentListPage(s.Base).EnsureExists(name); err != nil {
		t.Fatalf("Failed to ensure department %q: %v", name, err)
	}
}

// NewEmployee builds an employee whose name and email will not collide with
// earlier runs, and makes sure its department exists.
func (s *Suite) NewEmployee(t *testing.T) models.Employee {
	t.Helper()
	e := s.Data.Employee("")
	e.Name = s.Data.UniqueName(e.Name)
	e.Email = s.Data.Email(e.Name)
	s.EnsureDepartment(t, e.Department)
	return e
}

// AddEmployee creates e through the form and returns the list it lands on.
func (s *Suite) AddEmployee(t *testing.T, e models.Employee) *pages.EmployeeListPage {
	t.Helper()
	form, err := s.Employees(t).ClickAddNew()
	if err != nil {
		t.Fatalf("Failed to open employee form: %v", err)
	}
	if _, err := form.Fill(e); err != nil {
		t.Fatalf("Failed to fill employee form: %v", err)
	}
	res, err := form.Submit()
	if err != nil {
		t.Fatalf("Failed to submit employee form: %v", err)
	}
	if res.Outcome != pages.NavigatedToList {
		errs, _ := res.Form.ValidationErrors()
		t.Fatalf("Employee %q was rejected: %v", e.Name, errs)
	}
	return res.List
}
