package pages

import (
	"bytes"
	"fmt"
	"os"

	"github.com/gotrs-io/emsuite/internal/locator"
	"github.com/gotrs-io/emsuite/internal/models"
	"github.com/gotrs-io/emsuite/internal/testdata"
	"github.com/playwright-community/playwright-go"
)

var (
	EmployeeListHeader  = locator.XPath(`//h2[normalize-space(.)='Employees']`)
	AddEmployeeButton   = locator.XPath(`//a[` + hasClass("btn-primary") + ` and normalize-space(.)='Add New Employee']`)
	SearchInput         = locator.Name("q")
	FilterButton        = locator.XPath(`//button[normalize-space(.)='Filter']`)
	StatusFilter        = locator.CSS(`select[name="status"]`)
	DepartmentFilter    = locator.CSS(`select[name="department"]`)
	ExportCSVButton     = locator.XPath(`//a[` + hasClass("btn-success") + ` and normalize-space(.)='Export to CSV']`)
	NoEmployeesMessage  = locator.XPath(`//td[normalize-space(.)='No employees found']`)
	employeeListSegment = "/employees/"
)

// EmployeeListPage is the employee table with its search and filter controls.
type EmployeeListPage struct {
	Base
	table table
}

// NewEmployeeListPage wraps b without navigating; call Open to load the list.
func NewEmployeeListPage(b Base) *EmployeeListPage {
	return &EmployeeListPage{Base: b, table: table{Base: b, empty: NoEmployeesMessage}}
}

// Open loads /employees/ directly.
func (p *EmployeeListPage) Open() (*EmployeeListPage, error) {
	if err := p.Base.Open(employeeListSegment); err != nil {
		return nil, err
	}
	return p, nil
}

// Header is the page heading text.
func (p *EmployeeListPage) Header() (string, error) {
	return p.Text(EmployeeListHeader)
}

// ClickAddNew opens the create form.
func (p *EmployeeListPage) ClickAddNew() (*EmployeeFormPage, error) {
	if err := p.ClickAndWaitForNavigation(AddEmployeeButton); err != nil {
		return nil, err
	}
	if err := p.expectPath("/create/"); err != nil {
		return nil, err
	}
	return NewEmployeeFormPage(p.Base), nil
}

// Search submits the filter form with q set to text.
func (p *EmployeeListPage) Search(text string) (*EmployeeListPage, error) {
	if err := p.InputText(SearchInput, text); err != nil {
		return nil, err
	}
	return p.applyFilter()
}

// FilterByStatus picks the status option and applies the filter.
func (p *EmployeeListPage) FilterByStatus(status models.Status) (*EmployeeListPage, error) {
	if err := p.SelectByText(StatusFilter, string(status)); err != nil {
		return nil, err
	}
	return p.applyFilter()
}

// FilterByDepartment picks the department option by its display name and applies the filter.
func (p *EmployeeListPage) FilterByDepartment(department string) (*EmployeeListPage, error) {
	if err := p.SelectByText(DepartmentFilter, department); err != nil {
		return nil, err
	}
	return p.applyFilter()
}

// ClearFilters reloads the list without any query.
func (p *EmployeeListPage) ClearFilters() (*EmployeeListPage, error) {
	return p.Open()
}

func (p *EmployeeListPage) applyFilter() (*EmployeeListPage, error) {
	if err := p.ClickAndWaitForNavigation(FilterButton); err != nil {
		return nil, err
	}
	if err := p.expectPath(employeeListSegment); err != nil {
		return nil, err
	}
	return p, nil
}

// Count is the number of employee rows shown, 0 when the table is empty.
func (p *EmployeeListPage) Count() (int, error) {
	return p.table.count()
}

// IsDisplayed reports whether a row for name is shown. Waits up to the presence timeout.
func (p *EmployeeListPage) IsDisplayed(name string) (bool, error) {
	return p.table.isDisplayed(name)
}

// Names returns the employee names in table order.
func (p *EmployeeListPage) Names() ([]string, error) {
	return p.table.names()
}

// Edit opens the update form of the employee called name.
func (p *EmployeeListPage) Edit(name string) (*EmployeeFormPage, error) {
	if err := p.table.clickRowLink(EditLinkInRow, name, employeeListSegment, "update"); err != nil {
		return nil, err
	}
	return NewEmployeeFormPage(p.Base), nil
}

// Delete opens the delete confirmation of the employee called name.
func (p *EmployeeListPage) Delete(name string) (*EmployeeDeletePage, error) {
	if err := p.table.clickRowLink(DeleteLinkInRow, name, employeeListSegment, "delete"); err != nil {
		return nil, err
	}
	return NewEmployeeDeletePage(p.Base), nil
}

// Row reads the row for name. Columns are name, email, department, salary, status;
// the salary cell may carry a currency sign and thousands separators.
func (p *EmployeeListPage) Row(name string) (models.Employee, error) {
	cells, err := p.table.cells(name)
	if err != nil {
		return models.Employee{}, err
	}
	if len(cells) < len(models.EmployeeFields) {
		return models.Employee{}, fmt.Errorf("row %q has %d cells, want at least %d", name, len(cells), len(models.EmployeeFields))
	}
	fields := make(map[string]string, len(models.EmployeeFields))
	for i, f := range models.EmployeeFields {
		fields[f] = cells[i]
	}
	return models.EmployeeFromFields(fields)
}

// Rows reads every employee row in table order.
func (p *EmployeeListPage) Rows() ([]models.Employee, error) {
	names, err := p.Names()
	if err != nil {
		return nil, err
	}
	out := make([]models.Employee, 0, len(names))
	for _, n := range names {
		e, err := p.Row(n)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// HasNoResultsMessage reports whether the table shows its empty-result row.
func (p *EmployeeListPage) HasNoResultsMessage() (bool, error) {
	return p.IsPresent(NoEmployeesMessage, Timeout(p.timeouts.Probe))
}

// HasExportLink reports whether the Export to CSV link is present.
func (p *EmployeeListPage) HasExportLink() (bool, error) {
	return p.IsPresent(ExportCSVButton)
}

// CSVExport is a file downloaded through the Export to CSV link.
type CSVExport struct {
	Filename string
	Data     []byte
}

// Table parses the export; columns are the lower-cased header cells in file order.
func (e *CSVExport) Table() (testdata.Table, error) {
	return testdata.ReadCSV(bytes.NewReader(e.Data))
}

// Employees parses the export into employee records.
func (e *CSVExport) Employees() ([]models.Employee, error) {
	t, err := e.Table()
	if err != nil {
		return nil, err
	}
	return testdata.Employees(t.Records)
}

// ExportCSV clicks the export link and captures the download.
func (p *EmployeeListPage) ExportCSV() (*CSVExport, error) {
	timeout := p.timeouts.Default
	dl, err := p.page.ExpectDownload(func() error {
		return p.Click(ExportCSVButton)
	}, playwright.PageExpectDownloadOptions{Timeout: ms(timeout)})
	if err != nil {
		return nil, p.wrap("export", ExportCSVButton, timeout, err)
	}
	path, err := dl.Path()
	if err != nil {
		return nil, fmt.Errorf("export: download failed: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("export: read download: %w", err)
	}
	p.log.WithField("file", dl.SuggestedFilename()).Debug("csv export captured")
	return &CSVExport{Filename: dl.SuggestedFilename(), Data: data}, nil
}
