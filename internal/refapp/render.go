package refapp

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.pongo2
var templateFS embed.FS

// Renderer handles template rendering with pongo2
type Renderer struct {
	templateSet *pongo2.TemplateSet
	log         logrus.FieldLogger
}

// NewRenderer loads templates from the embedded templates directory. Names passed
// to HTML and used in {% extends %} are relative to that directory.
func NewRenderer(log logrus.FieldLogger) (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("template directory: %w", err)
	}
	return &Renderer{
		templateSet: pongo2.NewSet("emsuite", pongo2.NewFSLoader(sub)),
		log:         log,
	}, nil
}

// Templates lists the embedded template names.
func Templates() ([]string, error) {
	return fs.Glob(templateFS, "templates/*.pongo2")
}

// Compile parses name and everything it extends.
func (r *Renderer) Compile(name string) (*pongo2.Template, error) {
	return r.templateSet.FromFile(name)
}

// HTML renders the named template into the response.
func (r *Renderer) HTML(c *gin.Context, code int, name string, data pongo2.Context) {
	tmpl, err := r.Compile(name)
	if err != nil {
		r.log.WithError(err).WithField("template", name).Error("template load failed")
		c.String(http.StatusInternalServerError, "template %s: %v", name, err)
		return
	}
	out, err := tmpl.ExecuteBytes(data)
	if err != nil {
		r.log.WithError(err).WithField("template", name).Error("template execution failed")
		c.String(http.StatusInternalServerError, "Template execution error: %v", err)
		return
	}
	c.Data(code, "text/html; charset=utf-8", out)
}
