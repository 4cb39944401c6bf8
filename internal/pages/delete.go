package pages

import (
	"github.com/gotrs-io/emsuite/internal/locator"
)

var (
	DeleteConfirmationText = locator.XPath(`//p[contains(normalize-space(.), 'Are you sure you want to delete')]`)
	DeleteSubjectName      = locator.XPath(`//p/strong`)
	ConfirmDeleteButton    = locator.XPath(`//button[` + hasClass("btn-danger") + ` and normalize-space(.)='Confirm']`)
	CancelDeleteButton     = locator.XPath(`//a[` + hasClass("btn-secondary") + ` and normalize-space(.)='Cancel']`)
)

// confirmation is the delete confirmation screen shared by both resources.
type confirmation struct {
	Base
	segment string
}

func (c confirmation) name() (string, error) {
	return c.Text(DeleteSubjectName)
}

func (c confirmation) isOnDeletePage() (bool, error) {
	return c.IsPresent(DeleteConfirmationText)
}

func (c confirmation) leave(button locator.Locator) error {
	if err := c.ClickAndWaitForNavigation(button); err != nil {
		return err
	}
	return c.expectPath(c.segment, "/delete/")
}

// EmployeeDeletePage asks to confirm deleting one employee.
type EmployeeDeletePage struct {
	Base
	c confirmation
}

// NewEmployeeDeletePage wraps a page already showing an employee delete confirmation.
func NewEmployeeDeletePage(b Base) *EmployeeDeletePage {
	return &EmployeeDeletePage{Base: b, c: confirmation{Base: b, segment: employeeListSegment}}
}

// Name is the employee named in the confirmation text.
func (p *EmployeeDeletePage) Name() (string, error) {
	return p.c.name()
}

// IsOnDeletePage reports whether the confirmation question is shown.
func (p *EmployeeDeletePage) IsOnDeletePage() (bool, error) {
	return p.c.isOnDeletePage()
}

// Confirm deletes the employee and returns to the list.
func (p *EmployeeDeletePage) Confirm() (*EmployeeListPage, error) {
	if err := p.c.leave(ConfirmDeleteButton); err != nil {
		return nil, err
	}
	return NewEmployeeListPage(p.Base), nil
}

// Cancel returns to the list without deleting.
func (p *EmployeeDeletePage) Cancel() (*EmployeeListPage, error) {
	if err := p.c.leave(CancelDeleteButton); err != nil {
		return nil, err
	}
	return NewEmployeeListPage(p.Base), nil
}

// DepartmentDeletePage asks to confirm deleting one department.
type DepartmentDeletePage struct {
	Base
	c confirmation
}

// NewDepartmentDeletePage wraps a page already showing a department delete confirmation.
func NewDepartmentDeletePage(b Base) *DepartmentDeletePage {
	return &DepartmentDeletePage{Base: b, c: confirmation{Base: b, segment: departmentListSegment}}
}

// Name is the department named in the confirmation text.
func (p *DepartmentDeletePage) Name() (string, error) {
	return p.c.name()
}

// IsOnDeletePage reports whether the confirmation question is shown.
func (p *DepartmentDeletePage) IsOnDeletePage() (bool, error) {
	return p.c.isOnDeletePage()
}

// Confirm deletes the department and returns to the list.
func (p *DepartmentDeletePage) Confirm() (*DepartmentListPage, error) {
	if err := p.c.leave(ConfirmDeleteButton); err != nil {
		return nil, err
	}
	return NewDepartmentListPage(p.Base), nil
}

// Cancel returns to the list without deleting.
func (p *DepartmentDeletePage) Cancel() (*DepartmentListPage, error) {
	if err := p.c.leave(CancelDeleteButton); err != nil {
		return nil, err
	}
	return NewDepartmentListPage(p.Base), nil
}
