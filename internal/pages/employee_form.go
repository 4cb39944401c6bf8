package pages

import (
	"fmt"
	"strings"

	"github.com/gotrs-io/emsuite/internal/locator"
	"github.com/gotrs-io/emsuite/internal/models"
)

var (
	EmployeeFormHeader  = locator.XPath(`//h2[contains(normalize-space(.), 'Employee')]`)
	NameInput           = locator.ID("id_name")
	EmailInput          = locator.ID("id_email")
	DepartmentSelect    = locator.ID("id_department")
	SalaryInput         = locator.ID("id_salary")
	StatusActiveRadio   = locator.ID("id_status_active")
	StatusInactiveRadio = locator.ID("id_status_inactive")
	SubmitButton        = locator.XPath(`//button[@type='submit']`)

	// FieldError matches the invalid-feedback element directly after the input with the given id.
	FieldError = locator.XPathTemplate(`//*[@id=%s]/following-sibling::*[1][` + hasClass("invalid-feedback") + `]`)
)

// employeeInputs maps field names to the element ids the form renders.
var employeeInputs = map[string]string{
	models.FieldName:       "id_name",
	models.FieldEmail:      "id_email",
	models.FieldDepartment: "id_department",
	models.FieldSalary:     "id_salary",
	models.FieldStatus:     "id_status",
}

// EmployeeFormPage is the create and update form; the header tells them apart.
type EmployeeFormPage struct {
	Base
}

// NewEmployeeFormPage wraps a page already showing the employee form.
func NewEmployeeFormPage(b Base) *EmployeeFormPage {
	return &EmployeeFormPage{Base: b}
}

// Fill enters every non-empty field of e. Salary is always entered.
func (p *EmployeeFormPage) Fill(e models.Employee) (*EmployeeFormPage, error) {
	return p.FillFields(e.Fields())
}

// FillFields enters only the fields present in values, which may hold data the
// application should reject (a negative salary, a malformed email).
func (p *EmployeeFormPage) FillFields(values map[string]string) (*EmployeeFormPage, error) {
	for _, field := range models.EmployeeFields {
		v, ok := values[field]
		if !ok {
			continue
		}
		var err error
		switch field {
		case models.FieldName:
			err = p.InputText(NameInput, v)
		case models.FieldEmail:
			err = p.InputText(EmailInput, v)
		case models.FieldDepartment:
			err = p.SelectByText(DepartmentSelect, v)
		case models.FieldSalary:
			err = p.InputText(SalaryInput, v)
		case models.FieldStatus:
			err = p.chooseStatus(v)
		}
		if err != nil {
			return nil, fmt.Errorf("fill %s: %w", field, err)
		}
	}
	return p, nil
}

func (p *EmployeeFormPage) chooseStatus(v string) error {
	if strings.EqualFold(strings.TrimSpace(v), string(models.StatusActive)) {
		return p.Click(StatusActiveRadio)
	}
	return p.Click(StatusInactiveRadio)
}

// EmployeeSubmitResult is the tagged outcome of Submit. List is set for
// NavigatedToList, Form for StayedOnForm.
type EmployeeSubmitResult struct {
	Outcome Outcome
	List    *EmployeeListPage
	Form    *EmployeeFormPage
}

// Submit posts the form and classifies where the browser ended up.
func (p *EmployeeFormPage) Submit() (EmployeeSubmitResult, error) {
	if err := p.ClickAndWaitForNavigation(SubmitButton); err != nil {
		return EmployeeSubmitResult{}, err
	}
	outcome := Classify(p.CurrentURL(), "employees")
	p.log.WithField("outcome", outcome).Debug("employee form submitted")
	if outcome == NavigatedToList {
		return EmployeeSubmitResult{Outcome: outcome, List: NewEmployeeListPage(p.Base)}, nil
	}
	return EmployeeSubmitResult{Outcome: outcome, Form: p}, nil
}

// ValidationErrors returns the message shown under each rejected field. Each field
// is probed with the short probe timeout; a field without a message is absent.
func (p *EmployeeFormPage) ValidationErrors() (models.ValidationErrors, error) {
	return fieldErrors(p.Base, employeeInputs)
}

func fieldErrors(b Base, inputs map[string]string) (models.ValidationErrors, error) {
	errs := models.ValidationErrors{}
	for field, id := range inputs {
		loc := FieldError.With(id)
		present, err := b.IsPresent(loc, Timeout(b.timeouts.Probe))
		if err != nil {
			return nil, err
		}
		if !present {
			continue
		}
		msg, err := b.Text(loc)
		if err != nil {
			return nil, err
		}
		errs[field] = msg
	}
	return errs, nil
}

// Header is the form heading, "Add New Employee" or "Edit Employee".
func (p *EmployeeFormPage) Header() (string, error) {
	return p.Text(EmployeeFormHeader)
}

// IsCreatePage checks the header for "Add New".
func (p *EmployeeFormPage) IsCreatePage() (bool, error) {
	h, err := p.Header()
	if err != nil {
		return false, err
	}
	return strings.Contains(h, "Add New"), nil
}

// IsEditPage checks the header for "Edit".
func (p *EmployeeFormPage) IsEditPage() (bool, error) {
	h, err := p.Header()
	if err != nil {
		return false, err
	}
	return strings.Contains(h, "Edit"), nil
}

// Values reads what the form currently holds.
func (p *EmployeeFormPage) Values() (models.Employee, error) {
	fields := map[string]string{}
	for field, loc := range map[string]locator.Locator{
		models.FieldName:   NameInput,
		models.FieldEmail:  EmailInput,
		models.FieldSalary: SalaryInput,
	} {
		v, err := p.Value(loc)
		if err != nil {
			return models.Employee{}, err
		}
		fields[field] = v
	}
	// The placeholder option has an empty value and stands for no department.
	deptValue, err := p.Value(DepartmentSelect)
	if err != nil {
		return models.Employee{}, err
	}
	if deptValue != "" {
		dept, err := p.SelectedText(DepartmentSelect)
		if err != nil {
			return models.Employee{}, err
		}
		fields[models.FieldDepartment] = dept
	}

	active, err := p.IsChecked(StatusActiveRadio)
	if err != nil {
		return models.Employee{}, err
	}
	fields[models.FieldStatus] = string(models.StatusInactive)
	if active {
		fields[models.FieldStatus] = string(models.StatusActive)
	}
	return models.EmployeeFromFields(fields)
}
