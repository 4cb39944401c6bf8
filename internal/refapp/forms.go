package refapp

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gotrs-io/emsuite/internal/models"
	"github.com/gotrs-io/emsuite/internal/repository"
)

const (
	msgRequired     = "This field is required."
	msgInvalidEmail = "Enter a valid email address."
	msgNumber       = "Enter a number."
	msgNonNegative  = "Ensure this value is greater than or equal to 0."
	msgChoice       = "Select a valid choice. That choice is not one of the available choices."
	msgEmailTaken   = "Employee with this Email already exists."
	msgNameTaken    = "Department with this Name already exists."
)

type employeeForm struct {
	Name       string `form:"name" binding:"required,max=100"`
	Email      string `form:"email" binding:"required,email"`
	Department string `form:"department"`
	Salary     string `form:"salary" binding:"required,numeric"`
	Status     string `form:"status" binding:"required,oneof=Active Inactive"`
}

type departmentForm struct {
	Name string `form:"name" binding:"required,max=100"`
}

// values is what the form re-renders with after a rejected submission.
func (f employeeForm) values() map[string]string {
	return map[string]string{
		models.FieldName:       f.Name,
		models.FieldEmail:      f.Email,
		models.FieldDepartment: f.Department,
		models.FieldSalary:     f.Salary,
		models.FieldStatus:     f.Status,
	}
}

// bindErrors turns validator failures into one message per form field.
func bindErrors(err error) models.ValidationErrors {
	out := models.ValidationErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["__all__"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if _, seen := out[field]; seen {
			continue
		}
		switch fe.Tag() {
		case "required":
			out[field] = msgRequired
		case "email":
			out[field] = msgInvalidEmail
		case "numeric":
			out[field] = msgNumber
		case "oneof":
			out[field] = msgChoice
		case "max":
			out[field] = "Ensure this value has at most " + fe.Param() + " characters."
		default:
			out[field] = fe.Error()
		}
	}
	return out
}

// bindEmployee binds and validates an employee submission. id is 0 on create.
// The returned employee is only meaningful when errs is empty.
func (a *App) bindEmployee(c *gin.Context, id int) (employeeForm, models.Employee, models.ValidationErrors, error) {
	var f employeeForm
	errs := models.ValidationErrors{}
	if err := c.ShouldBind(&f); err != nil {
		errs = bindErrors(err)
	}
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	if f.Name == "" {
		errs[models.FieldName] = msgRequired
	}

	ctx := c.Request.Context()
	e := models.Employee{ID: id, Name: f.Name, Email: f.Email}

	if !errs.Has(models.FieldSalary) {
		salary, err := models.ParseSalary(f.Salary)
		switch {
		case err != nil:
			errs[models.FieldSalary] = msgNumber
		case salary < 0:
			errs[models.FieldSalary] = msgNonNegative
		default:
			e.Salary = salary
		}
	}
	if !errs.Has(models.FieldStatus) {
		st, err := models.ParseStatus(f.Status)
		if err != nil {
			errs[models.FieldStatus] = msgChoice
		}
		e.Status = st
	}
	if f.Department != "" {
		d, err := departmentByID(ctx, a.departments, f.Department)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			errs[models.FieldDepartment] = msgChoice
		case err != nil:
			return f, e, nil, err
		default:
			e.Department = d.Name
		}
	}
	if !errs.Has(models.FieldEmail) {
		taken, err := a.emailTaken(ctx, f.Email, id)
		if err != nil {
			return f, e, nil, err
		}
		if taken {
			errs[models.FieldEmail] = msgEmailTaken
		}
	}
	return f, e, errs, nil
}

func (a *App) emailTaken(ctx context.Context, email string, exceptID int) (bool, error) {
	other, err := a.employees.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return other.ID != exceptID, nil
}

func (a *App) bindDepartment(c *gin.Context, id int) (departmentForm, models.ValidationErrors, error) {
	var f departmentForm
	errs := models.ValidationErrors{}
	if err := c.ShouldBind(&f); err != nil {
		errs = bindErrors(err)
	}
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		errs[models.FieldName] = msgRequired
		return f, errs, nil
	}
	if errs.Has(models.FieldName) {
		return f, errs, nil
	}
	other, err := a.departments.GetByName(c.Request.Context(), f.Name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return f, nil, err
	case other.ID != id:
		errs[models.FieldName] = msgNameTaken
	}
	return f, errs, nil
}
