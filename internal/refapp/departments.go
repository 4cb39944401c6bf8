package refapp

import (
	"errors"
	"net/http"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
	"github.com/gotrs-io/emsuite/internal/models"
	"github.com/gotrs-io/emsuite/internal/repository"
)

type departmentRow struct {
	ID        int
	Name      string
	Employees int
}

func (a *App) listDepartments(c *gin.Context) {
	ctx := c.Request.Context()
	depts, err := a.departments.List(ctx)
	if err != nil {
		a.fail(c, err)
		return
	}
	employees, err := a.employees.List(ctx, repository.EmployeeFilter{})
	if err != nil {
		a.fail(c, err)
		return
	}
	counts := map[string]int{}
	for _, e := range employees {
		counts[e.Department]++
	}
	rows := make([]departmentRow, 0, len(depts))
	for _, d := range depts {
		rows = append(rows, departmentRow{ID: d.ID, Name: d.Name, Employees: counts[d.Name]})
	}
	a.render(c, http.StatusOK, "department_list.pongo2", "departments", pongo2.Context{
		"departments": rows,
	})
}

func (a *App) departmentForm(c *gin.Context) {
	values := map[string]string{}
	editing := c.Param("id") != ""
	if editing {
		id, ok := pathID(c)
		if !ok {
			return
		}
		d, err := a.departments.Get(c.Request.Context(), id)
		if err != nil {
			c.String(http.StatusNotFound, "not found")
			return
		}
		values[models.FieldName] = d.Name
	}
	a.renderDepartmentForm(c, editing, values, nil)
}

func (a *App) renderDepartmentForm(c *gin.Context, editing bool, values map[string]string, errs models.ValidationErrors) {
	a.render(c, http.StatusOK, "department_form.pongo2", "departments", pongo2.Context{
		"editing": editing,
		"form":    values,
		"errors":  map[string]string(errs),
	})
}

// saveDepartment creates or renames a department. A rename is carried over to the
// employees of that department.
func (a *App) saveDepartment(c *gin.Context) {
	ctx := c.Request.Context()
	id := 0
	editing := c.Param("id") != ""
	var old *models.Department
	if editing {
		var ok bool
		if id, ok = pathID(c); !ok {
			return
		}
		var err error
		if old, err = a.departments.Get(ctx, id); err != nil {
			c.String(http.StatusNotFound, "not found")
			return
		}
	}

	form, errs, err := a.bindDepartment(c, id)
	if err != nil {
		a.fail(c, err)
		return
	}
	values := map[string]string{models.FieldName: form.Name}
	if len(errs) > 0 {
		a.rejected("department", errs)
		a.renderDepartmentForm(c, editing, values, errs)
		return
	}

	d := &models.Department{ID: id, Name: form.Name}
	if editing {
		err = a.departments.Update(ctx, d)
		if err == nil && old.Name != d.Name {
			err = a.employees.RenameDepartment(ctx, old.Name, d.Name)
		}
	} else {
		err = a.departments.Create(ctx, d)
	}
	if errors.Is(err, repository.ErrDuplicate) {
		a.renderDepartmentForm(c, editing, values, models.ValidationErrors{models.FieldName: msgNameTaken})
		return
	}
	if err != nil {
		a.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/departments/")
}

func (a *App) confirmDepartmentDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := a.departments.Get(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusNotFound, "not found")
		return
	}
	a.render(c, http.StatusOK, "confirm_delete.pongo2", "departments", pongo2.Context{
		"kind":       "Department",
		"name":       d.Name,
		"cancel_url": "/departments/",
	})
}

// deleteDepartment removes the department; its employees keep existing without one.
func (a *App) deleteDepartment(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := a.departments.Get(ctx, id)
	if err != nil {
		c.String(http.StatusNotFound, "not found")
		return
	}
	if err := a.departments.Delete(ctx, id); err != nil {
		a.fail(c, err)
		return
	}
	if err := a.employees.ClearDepartment(ctx, d.Name); err != nil {
		a.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/departments/")
}
