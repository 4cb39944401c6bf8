package pages

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gotrs-io/emsuite/internal/browser"
	"github.com/gotrs-io/emsuite/internal/config"
	"github.com/gotrs-io/emsuite/internal/locator"
	"github.com/gotrs-io/emsuite/internal/logging"
	"github.com/gotrs-io/emsuite/internal/models"
	"github.com/gotrs-io/emsuite/internal/refapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startStub serves a seeded contract stub and opens a browser session against it.
func startStub(t *testing.T) Base {
	t.Helper()
	if testing.Short() {
		t.Skip("browser test")
	}
	log := logging.Discard()
	app, err := refapp.New(refapp.Options{Seed: true, Logger: log})
	require.NoError(t, err)
	srv, err := refapp.Start(app, "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	cfg := config.Default().WithBaseURL(srv.URL)
	cfg.Artifacts.Dir = t.TempDir()
	s := browser.ForTest(t, cfg, log)
	return FromSession(s)
}

func addEmployee(t *testing.T, b Base, e models.Employee) *EmployeeListPage {
	t.Helper()
	list, err := NewEmployeeListPage(b).Open()
	require.NoError(t, err)
	form, err := list.ClickAddNew()
	require.NoError(t, err)
	_, err = form.Fill(e)
	require.NoError(t, err)
	res, err := form.Submit()
	require.NoError(t, err)
	require.Equal(t, NavigatedToList, res.Outcome)
	return res.List
}

func TestBaseWaits(t *testing.T) {
	b := startStub(t)
	home, err := NewHomePage(b).Open()
	require.NoError(t, err)

	t.Run("presence", func(t *testing.T) {
		ok, err := home.IsPresent(NavbarBrand)
		require.NoError(t, err)
		assert.True(t, ok)

		start := time.Now()
		ok, err = home.IsPresent(locator.ID("does-not-exist"), Timeout(300*time.Millisecond))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Less(t, time.Since(start), 3*time.Second, "bounded by the override")
	})

	t.Run("find times out with typed error", func(t *testing.T) {
		_, err := home.Find(locator.CSS("#missing"), Timeout(200*time.Millisecond))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTimeout))
		var te *TimeoutError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, "find", te.Op)
		assert.Equal(t, 200*time.Millisecond, te.Timeout)
	})

	t.Run("text and title", func(t *testing.T) {
		brand, err := home.BrandText()
		require.NoError(t, err)
		assert.Equal(t, "Employee Management System", brand)
		footer, err := home.FooterText()
		require.NoError(t, err)
		assert.Contains(t, footer, "Employee Management System")
		title, err := home.Title()
		require.NoError(t, err)
		assert.NotEmpty(t, title)
	})
}

func TestHomeNavigation(t *testing.T) {
	b := startStub(t)
	home, err := NewHomePage(b).Open()
	require.NoError(t, err)

	on, err := home.IsOnHomePage()
	require.NoError(t, err)
	assert.True(t, on)

	list, err := home.NavigateToEmployees()
	require.NoError(t, err)
	header, err := list.Header()
	require.NoError(t, err)
	assert.Equal(t, "Employees", header)

	depts, err := home.NavigateToDepartments()
	require.NoError(t, err)
	names, err := depts.Names()
	require.NoError(t, err)
	assert.Contains(t, names, "Engineering")

	require.NoError(t, home.Back())
	assert.True(t, strings.HasSuffix(home.CurrentPath(), "/employees/"))
	require.NoError(t, home.Forward())
	assert.True(t, strings.HasSuffix(home.CurrentPath(), "/departments/"))

	_, err = home.NavigateHome()
	require.NoError(t, err)
	on, err = home.IsOnHomePage()
	require.NoError(t, err)
	assert.True(t, on)
}

func TestEmployeeFormRoundTrip(t *testing.T) {
	b := startStub(t)
	want := models.Employee{
		Name: "Grace O'Hopper", Email: "grace@example.com", Department: "Engineering",
		Salary: 123456.78, Status: models.StatusInactive,
	}
	list := addEmployee(t, b, want)

	shown, err := list.IsDisplayed(want.Name)
	require.NoError(t, err)
	assert.True(t, shown)

	row, err := list.Row(want.Name)
	require.NoError(t, err)
	assert.Equal(t, want.Email, row.Email)
	assert.Equal(t, want.Department, row.Department)
	assert.Equal(t, want.Salary, row.Salary)
	assert.Equal(t, want.Status, row.Status)

	form, err := list.Edit(want.Name)
	require.NoError(t, err)
	edit, err := form.IsEditPage()
	require.NoError(t, err)
	assert.True(t, edit)

	values, err := form.Values()
	require.NoError(t, err)
	assert.Equal(t, want.Name, values.Name)
	assert.Equal(t, want.Department, values.Department)
	assert.Equal(t, want.Status, values.Status)
	assert.Equal(t, want.Salary, values.Salary)

	del, err := NewEmployeeListPage(b).Open()
	require.NoError(t, err)
	confirm, err := del.Delete(want.Name)
	require.NoError(t, err)
	name, err := confirm.Name()
	require.NoError(t, err)
	assert.Equal(t, want.Name, name)

	list, err = confirm.Cancel()
	require.NoError(t, err)
	shown, err = list.IsDisplayed(want.Name)
	require.NoError(t, err)
	assert.True(t, shown, "cancel keeps the employee")

	confirm, err = list.Delete(want.Name)
	require.NoError(t, err)
	list, err = confirm.Confirm()
	require.NoError(t, err)
	n, err := list.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	empty, err := list.HasNoResultsMessage()
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestEmployeeValidationErrors(t *testing.T) {
	b := startStub(t)
	list, err := NewEmployeeListPage(b).Open()
	require.NoError(t, err)
	form, err := list.ClickAddNew()
	require.NoError(t, err)

	create, err := form.IsCreatePage()
	require.NoError(t, err)
	assert.True(t, create)

	_, err = form.FillFields(map[string]string{
		models.FieldDepartment: "Engineering",
		models.FieldSalary:     "-1",
		models.FieldStatus:     "active",
	})
	require.NoError(t, err)
	res, err := form.Submit()
	require.NoError(t, err)
	require.Equal(t, StayedOnForm, res.Outcome)

	verrs, err := res.Form.ValidationErrors()
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "name", "salary"}, verrs.Fields())
}

func TestEmployeeExport(t *testing.T) {
	b := startStub(t)
	addEmployee(t, b, models.Employee{Name: "Export Me", Email: "export@example.com", Department: "Sales", Salary: 1000, Status: models.StatusActive})

	list, err := NewEmployeeListPage(b).Open()
	require.NoError(t, err)
	has, err := list.HasExportLink()
	require.NoError(t, err)
	require.True(t, has)

	export, err := list.ExportCSV()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(export.Filename, ".csv"))
	emps, err := export.Employees()
	require.NoError(t, err)
	require.Len(t, emps, 1)
	assert.Equal(t, "Export Me", emps[0].Name)
	assert.Equal(t, 1000.0, emps[0].Salary)
}

func TestDepartmentPages(t *testing.T) {
	b := startStub(t)
	list, err := NewDepartmentListPage(b).EnsureExists("Research & Development")
	require.NoError(t, err)
	shown, err := list.IsDisplayed("Research & Development")
	require.NoError(t, err)
	assert.True(t, shown)

	before, err := list.Count()
	require.NoError(t, err)
	list, err = list.EnsureExists("Research & Development")
	require.NoError(t, err)
	after, err := list.Count()
	require.NoError(t, err)
	assert.Equal(t, before, after, "existing department is not created twice")

	form, err := list.ClickAddNew()
	require.NoError(t, err)
	_, err = form.Fill("Engineering")
	require.NoError(t, err)
	res, err := form.Submit()
	require.NoError(t, err)
	assert.Equal(t, StayedOnForm, res.Outcome)
	verrs, err := res.Form.ValidationErrors()
	require.NoError(t, err)
	assert.True(t, verrs.Has("name"))

	list, err = NewDepartmentListPage(b).Open()
	require.NoError(t, err)
	edit, err := list.Edit("Research & Development")
	require.NoError(t, err)
	name, err := edit.Name()
	require.NoError(t, err)
	assert.Equal(t, "Research & Development", name)

	list, err = NewDepartmentListPage(b).Open()
	require.NoError(t, err)
	del, err := list.Delete("Research & Development")
	require.NoError(t, err)
	on, err := del.IsOnDeletePage()
	require.NoError(t, err)
	assert.True(t, on)
	list, err = del.Confirm()
	require.NoError(t, err)
	shown, err = list.IsDisplayed("Research & Development")
	require.NoError(t, err)
	assert.False(t, shown)
}
