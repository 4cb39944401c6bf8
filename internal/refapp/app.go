// Package refapp is a small in-memory rendition of the employee manager's HTTP
// contract: the same paths, form ids, validation feedback and CSV export. The
// browser suite runs against it when no real deployment is reachable.
package refapp

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
	"github.com/gotrs-io/emsuite/internal/logging"
	"github.com/gotrs-io/emsuite/internal/middleware"
	"github.com/gotrs-io/emsuite/internal/models"
	"github.com/gotrs-io/emsuite/internal/repository"
	"github.com/gotrs-io/emsuite/internal/repository/memory"
	"github.com/gotrs-io/emsuite/internal/testdata"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

// DefaultDepartments are created by Seed when no fixtures are given.
var DefaultDepartments = []string{"Engineering", "Human Resources", "Marketing", "Sales", "Finance", "Operations"}

type Options struct {
	// Seed fills the store with departments (and fixture employees when Fixtures is set).
	Seed     bool
	Fixtures *testdata.Fixtures
	Logger   logrus.FieldLogger
}

// App is the contract stub. It is an http.Handler.
type App struct {
	engine      *gin.Engine
	renderer    *Renderer
	employees   *memory.EmployeeRepository
	departments *memory.DepartmentRepository
	log         logrus.FieldLogger
	now         func() time.Time
	metrics     *middleware.Metrics
	rejections  *prometheus.CounterVec
}

// New builds the stub and, with opts.Seed, fills it.
func New(opts Options) (*App, error) {
	a := &App{
		employees:   memory.NewEmployeeRepository(),
		departments: memory.NewDepartmentRepository(),
		log:         logging.OrDiscard(opts.Logger).WithField("component", "refapp"),
		now:         time.Now,
		metrics:     middleware.NewMetrics("emsuite_stub"),
	}
	renderer, err := NewRenderer(a.log)
	if err != nil {
		return nil, err
	}
	a.renderer = renderer
	a.rejections = promauto.With(a.metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "emsuite_stub",
		Name:      "form_rejections_total",
		Help:      "Form fields rejected by validation, by form and field",
	}, []string{"form", "field"})
	a.engine = a.routes()
	if opts.Seed {
		if err := a.seed(context.Background(), opts.Fixtures); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.engine.ServeHTTP(w, r)
}

func (a *App) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(), middleware.Logger(a.log), a.metrics.Middleware())

	r.GET("/", a.home)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))

	emp := r.Group("/employees")
	{
		emp.GET("/", a.listEmployees)
		emp.GET("/export/", a.exportEmployees)
		emp.GET("/create/", a.employeeForm)
		emp.POST("/create/", a.saveEmployee)
		emp.GET("/:id/update/", a.employeeForm)
		emp.POST("/:id/update/", a.saveEmployee)
		emp.GET("/:id/delete/", a.confirmEmployeeDelete)
		emp.POST("/:id/delete/", a.deleteEmployee)
	}

	dept := r.Group("/departments")
	{
		dept.GET("/", a.listDepartments)
		dept.GET("/create/", a.departmentForm)
		dept.POST("/create/", a.saveDepartment)
		dept.GET("/:id/update/", a.departmentForm)
		dept.POST("/:id/update/", a.saveDepartment)
		dept.GET("/:id/delete/", a.confirmDepartmentDelete)
		dept.POST("/:id/delete/", a.deleteDepartment)
	}
	return r
}

func (a *App) seed(ctx context.Context, fixtures *testdata.Fixtures) error {
	names := DefaultDepartments
	var employees []models.Employee
	if fixtures != nil {
		depts, err := fixtures.Departments()
		if err != nil {
			return err
		}
		names = names[:0:0]
		for _, d := range depts {
			names = append(names, d.Name)
		}
		if employees, err = fixtures.Employees(); err != nil {
			return err
		}
	}
	for _, n := range names {
		if err := a.departments.Create(ctx, &models.Department{Name: n}); err != nil {
			return err
		}
	}
	for i := range employees {
		if err := a.employees.Create(ctx, &employees[i]); err != nil {
			return err
		}
	}
	a.log.WithFields(logrus.Fields{
		"departments": len(names),
		"employees":   len(employees),
	}).Info("seeded contract stub")
	return nil
}

func (a *App) home(c *gin.Context) {
	ctx := c.Request.Context()
	employees, err := a.employees.Count(ctx)
	if err != nil {
		a.fail(c, err)
		return
	}
	depts, err := a.departments.List(ctx)
	if err != nil {
		a.fail(c, err)
		return
	}
	a.render(c, http.StatusOK, "home.pongo2", "home", pongo2.Context{
		"employee_count":   employees,
		"department_count": len(depts),
	})
}

func (a *App) render(c *gin.Context, code int, name, section string, data pongo2.Context) {
	data["section"] = section
	data["year"] = a.now().Year()
	a.renderer.HTML(c, code, name, data)
}

// rejected counts each rejected field of a form submission.
func (a *App) rejected(form string, errs models.ValidationErrors) {
	a.log.WithField("fields", errs.Fields()).Debug(form + " form rejected")
	for _, f := range errs.Fields() {
		a.rejections.WithLabelValues(form, f).Inc()
	}
}

func (a *App) fail(c *gin.Context, err error) {
	a.log.WithError(err).Error("request failed")
	c.String(http.StatusInternalServerError, "internal error")
}

// pathID reads :id; a malformed or unknown id is a 404.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}

// option is one entry of a department dropdown.
type option struct {
	ID       int
	Name     string
	Selected bool
}

func departmentOptions(depts []models.Department, selected string) []option {
	out := make([]option, 0, len(depts))
	for _, d := range depts {
		out = append(out, option{ID: d.ID, Name: d.Name, Selected: selected != "" && strconv.Itoa(d.ID) == selected})
	}
	return out
}

// departmentByID resolves a dropdown value to a department.
func departmentByID(ctx context.Context, repo repository.DepartmentRepository, raw string) (*models.Department, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return repo.Get(ctx, id)
}
