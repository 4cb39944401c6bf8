package refapp

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
	"github.com/gotrs-io/emsuite/internal/models"
	"github.com/gotrs-io/emsuite/internal/repository"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// employeeRow is one table row as displayed.
type employeeRow struct {
	ID         int
	Name       string
	Email      string
	Department string
	Salary     string
	Status     models.Status
}

// filterFromQuery reads q, status and department (a department id). An unknown
// department id cannot match any employee, which is reported as none=true.
func (a *App) filterFromQuery(c *gin.Context) (f repository.EmployeeFilter, none bool, err error) {
	f = repository.EmployeeFilter{Query: c.Query("q")}
	if raw := c.Query("status"); raw != "" {
		st, err := models.ParseStatus(raw)
		if err == nil {
			f.Status = st
		}
	}
	if raw := c.Query("department"); raw != "" {
		d, err := departmentByID(c.Request.Context(), a.departments, raw)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return f, true, nil
		case err != nil:
			return f, false, err
		default:
			f.Department = d.Name
		}
	}
	return f, false, nil
}

func (a *App) filteredEmployees(c *gin.Context) (repository.EmployeeFilter, []models.Employee, error) {
	filter, none, err := a.filterFromQuery(c)
	if err != nil || none {
		return filter, nil, err
	}
	employees, err := a.employees.List(c.Request.Context(), filter)
	return filter, employees, err
}

func (a *App) listEmployees(c *gin.Context) {
	ctx := c.Request.Context()
	filter, employees, err := a.filteredEmployees(c)
	if err != nil {
		a.fail(c, err)
		return
	}
	depts, err := a.departments.List(ctx)
	if err != nil {
		a.fail(c, err)
		return
	}

	printer := message.NewPrinter(language.English)
	rows := make([]employeeRow, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, employeeRow{
			ID:         e.ID,
			Name:       e.Name,
			Email:      e.Email,
			Department: e.Department,
			Salary:     printer.Sprintf("%.2f", e.Salary),
			Status:     e.Status,
		})
	}

	a.render(c, http.StatusOK, "employee_list.pongo2", "employees", pongo2.Context{
		"employees":    rows,
		"departments":  departmentOptions(depts, c.Query("department")),
		"statuses":     models.Statuses,
		"q":            c.Query("q"),
		"status":       string(filter.Status),
		"query_string": c.Request.URL.RawQuery,
	})
}

// exportEmployees writes the filtered list as a CSV attachment.
func (a *App) exportEmployees(c *gin.Context) {
	_, employees, err := a.filteredEmployees(c)
	if err != nil {
		a.fail(c, err)
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"Name", "Email", "Department", "Salary", "Status"}); err != nil {
		a.fail(c, err)
		return
	}
	for _, e := range employees {
		row := []string{e.Name, e.Email, e.Department, e.SalaryString(), string(e.Status)}
		if err := writer.Write(row); err != nil {
			a.fail(c, err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		a.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=employees_%s.csv", a.now().Format("20060102_150405")))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// employeeForm renders the empty create form or the update form of :id.
func (a *App) employeeForm(c *gin.Context) {
	ctx := c.Request.Context()
	values := map[string]string{models.FieldStatus: string(models.StatusActive)}
	editing := c.Param("id") != ""
	if editing {
		id, ok := pathID(c)
		if !ok {
			return
		}
		e, err := a.employees.Get(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			c.String(http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			a.fail(c, err)
			return
		}
		values = e.Fields()
		values[models.FieldDepartment] = ""
		if e.Department != "" {
			if d, err := a.departments.GetByName(ctx, e.Department); err == nil {
				values[models.FieldDepartment] = strconv.Itoa(d.ID)
			}
		}
	}
	a.renderEmployeeForm(c, http.StatusOK, editing, values, nil)
}

func (a *App) renderEmployeeForm(c *gin.Context, code int, editing bool, values map[string]string, errs models.ValidationErrors) {
	depts, err := a.departments.List(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	a.render(c, code, "employee_form.pongo2", "employees", pongo2.Context{
		"editing":     editing,
		"form":        values,
		"errors":      map[string]string(errs),
		"departments": departmentOptions(depts, values[models.FieldDepartment]),
	})
}

// saveEmployee handles both create and update posts. Accepted forms redirect to
// the list; rejected ones render again with the submitted values and messages.
func (a *App) saveEmployee(c *gin.Context) {
	ctx := c.Request.Context()
	id := 0
	editing := c.Param("id") != ""
	if editing {
		var ok bool
		if id, ok = pathID(c); !ok {
			return
		}
		if _, err := a.employees.Get(ctx, id); err != nil {
			c.String(http.StatusNotFound, "not found")
			return
		}
	}

	form, e, errs, err := a.bindEmployee(c, id)
	if err != nil {
		a.fail(c, err)
		return
	}
	if len(errs) > 0 {
		a.rejected("employee", errs)
		a.renderEmployeeForm(c, http.StatusOK, editing, form.values(), errs)
		return
	}

	if editing {
		err = a.employees.Update(ctx, &e)
	} else {
		err = a.employees.Create(ctx, &e)
	}
	if errors.Is(err, repository.ErrDuplicate) {
		a.renderEmployeeForm(c, http.StatusOK, editing, form.values(), models.ValidationErrors{models.FieldEmail: msgEmailTaken})
		return
	}
	if err != nil {
		a.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/employees/")
}

func (a *App) confirmEmployeeDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	e, err := a.employees.Get(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusNotFound, "not found")
		return
	}
	a.render(c, http.StatusOK, "confirm_delete.pongo2", "employees", pongo2.Context{
		"kind":       "Employee",
		"name":       e.Name,
		"cancel_url": "/employees/",
	})
}

func (a *App) deleteEmployee(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := a.employees.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.String(http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		a.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/employees/")
}
