package pages

import (
	"fmt"
	"strings"

	"github.com/gotrs-io/emsuite/internal/locator"
	"github.com/gotrs-io/emsuite/internal/models"
)

var (
	DepartmentListHeader  = locator.XPath(`//h2[normalize-space(.)='Departments']`)
	AddDepartmentButton   = locator.XPath(`//a[` + hasClass("btn-primary") + ` and normalize-space(.)='Add New Department']`)
	NoDepartmentsMessage  = locator.XPath(`//td[normalize-space(.)='No departments found']`)
	DepartmentFormHeader  = locator.XPath(`//h2[contains(normalize-space(.), 'Department')]`)
	DepartmentNameInput   = locator.ID("id_name")
	departmentListSegment = "/departments/"
	departmentInputs      = map[string]string{models.FieldName: "id_name"}
)

// DepartmentListPage is the department table.
type DepartmentListPage struct {
	Base
	table table
}

// NewDepartmentListPage wraps b without navigating; call Open to load the list.
func NewDepartmentListPage(b Base) *DepartmentListPage {
	return &DepartmentListPage{Base: b, table: table{Base: b, empty: NoDepartmentsMessage}}
}

// Open loads /departments/.
func (p *DepartmentListPage) Open() (*DepartmentListPage, error) {
	if err := p.Base.Open(departmentListSegment); err != nil {
		return nil, err
	}
	return p, nil
}

// Header is the page heading text.
func (p *DepartmentListPage) Header() (string, error) {
	return p.Text(DepartmentListHeader)
}

// ClickAddNew opens the create form.
func (p *DepartmentListPage) ClickAddNew() (*DepartmentFormPage, error) {
	if err := p.ClickAndWaitForNavigation(AddDepartmentButton); err != nil {
		return nil, err
	}
	if err := p.expectPath("/create/"); err != nil {
		return nil, err
	}
	return NewDepartmentFormPage(p.Base), nil
}

// Count is the number of department rows; the empty-table row is not counted.
func (p *DepartmentListPage) Count() (int, error) {
	return p.table.count()
}

func (p *DepartmentListPage) IsDisplayed(name string) (bool, error) {
	return p.table.isDisplayed(name)
}

func (p *DepartmentListPage) Names() ([]string, error) {
	return p.table.names()
}

// Edit follows the Edit link in name's row.
func (p *DepartmentListPage) Edit(name string) (*DepartmentFormPage, error) {
	if err := p.table.clickRowLink(EditLinkInRow, name, departmentListSegment, "update"); err != nil {
		return nil, err
	}
	return NewDepartmentFormPage(p.Base), nil
}

// Delete follows the Delete link in name's row to the confirmation page.
func (p *DepartmentListPage) Delete(name string) (*DepartmentDeletePage, error) {
	if err := p.table.clickRowLink(DeleteLinkInRow, name, departmentListSegment, "delete"); err != nil {
		return nil, err
	}
	return NewDepartmentDeletePage(p.Base), nil
}

// EnsureExists creates the department unless a row for it is already listed.
// Departments are never cleaned up, so repeated runs find it on the second pass.
func (p *DepartmentListPage) EnsureExists(name string) (*DepartmentListPage, error) {
	if _, err := p.Open(); err != nil {
		return nil, err
	}
	listed, err := p.IsDisplayed(name)
	if err != nil {
		return nil, err
	}
	if listed {
		return p, nil
	}

	form, err := p.ClickAddNew()
	if err != nil {
		return nil, err
	}
	if _, err := form.Fill(name); err != nil {
		return nil, err
	}
	res, err := form.Submit()
	if err != nil {
		return nil, err
	}
	if res.Outcome != NavigatedToList {
		verrs, verr := res.Form.ValidationErrors()
		if verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("create department %q: %w", name, verrs)
	}
	return res.List, nil
}

// DepartmentFormPage is the create and update form with its single name field.
type DepartmentFormPage struct {
	Base
}

// NewDepartmentFormPage wraps a page already showing the department form.
func NewDepartmentFormPage(b Base) *DepartmentFormPage {
	return &DepartmentFormPage{Base: b}
}

// Fill replaces the name input with name.
func (p *DepartmentFormPage) Fill(name string) (*DepartmentFormPage, error) {
	if err := p.InputText(DepartmentNameInput, name); err != nil {
		return nil, err
	}
	return p, nil
}

// DepartmentSubmitResult is the tagged outcome of Submit.
type DepartmentSubmitResult struct {
	Outcome Outcome
	List    *DepartmentListPage
	Form    *DepartmentFormPage
}

// Submit clicks Save and classifies where the browser ended up.
func (p *DepartmentFormPage) Submit() (DepartmentSubmitResult, error) {
	if err := p.ClickAndWaitForNavigation(SubmitButton); err != nil {
		return DepartmentSubmitResult{}, err
	}
	outcome := Classify(p.CurrentURL(), "departments")
	p.log.WithField("outcome", outcome).Debug("department form submitted")
	if outcome == NavigatedToList {
		return DepartmentSubmitResult{Outcome: outcome, List: NewDepartmentListPage(p.Base)}, nil
	}
	return DepartmentSubmitResult{Outcome: outcome, Form: p}, nil
}

// ValidationErrors returns the message shown under each rejected field.
func (p *DepartmentFormPage) ValidationErrors() (models.ValidationErrors, error) {
	return fieldErrors(p.Base, departmentInputs)
}

func (p *DepartmentFormPage) Header() (string, error) {
	return p.Text(DepartmentFormHeader)
}

// IsCreatePage reports whether the heading is the "Add New" one.
func (p *DepartmentFormPage) IsCreatePage() (bool, error) {
	h, err := p.Header()
	if err != nil {
		return false, err
	}
	return strings.Contains(h, "Add New"), nil
}

func (p *DepartmentFormPage) IsEditPage() (bool, error) {
	h, err := p.Header()
	if err != nil {
		return false, err
	}
	return strings.Contains(h, "Edit"), nil
}

// Name is the current value of the name input.
func (p *DepartmentFormPage) Name() (string, error) {
	return p.Value(DepartmentNameInput)
}
