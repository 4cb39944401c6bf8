package pages

import (
	"github.com/gotrs-io/emsuite/internal/locator"
)

var (
	NavbarBrand         = locator.Class("navbar-brand")
	HomeNavLink         = navLink("Home")
	EmployeesNavLink    = navLink("Employees")
	DepartmentsNavLink  = navLink("Departments")
	FooterText          = locator.CSS("footer .text-muted")
	homeWelcomeHeadline = locator.CSS("h1")
)

func navLink(label string) locator.Locator {
	return locator.XPathTemplate(`//a[` + hasClass("nav-link") + ` and normalize-space(.)=%s]`).With(label)
}

// hasClass is an XPath predicate matching one class token of @class.
func hasClass(class string) string {
	return `contains(concat(' ', normalize-space(@class), ' '), ' ` + class + ` ')`
}

// HomePage is the landing page with the navigation bar.
type HomePage struct {
	Base
}

// NewHomePage wraps b without navigating.
func NewHomePage(b Base) *HomePage {
	return &HomePage{Base: b}
}

// Open loads the landing page.
func (p *HomePage) Open() (*HomePage, error) {
	if err := p.Base.Open("/"); err != nil {
		return nil, err
	}
	return p, nil
}

// NavigateToEmployees follows the Employees nav link.
func (p *HomePage) NavigateToEmployees() (*EmployeeListPage, error) {
	if err := p.ClickAndWaitForNavigation(EmployeesNavLink); err != nil {
		return nil, err
	}
	if err := p.expectPath("/employees/"); err != nil {
		return nil, err
	}
	return NewEmployeeListPage(p.Base), nil
}

// NavigateToDepartments follows the Departments nav link.
func (p *HomePage) NavigateToDepartments() (*DepartmentListPage, error) {
	if err := p.ClickAndWaitForNavigation(DepartmentsNavLink); err != nil {
		return nil, err
	}
	if err := p.expectPath("/departments/"); err != nil {
		return nil, err
	}
	return NewDepartmentListPage(p.Base), nil
}

// NavigateHome follows the Home nav link, which every page carries.
func (p *HomePage) NavigateHome() (*HomePage, error) {
	if err := p.ClickAndWaitForNavigation(HomeNavLink); err != nil {
		return nil, err
	}
	return p, nil
}

// IsOnHomePage holds when the brand is shown and the URL is the application root.
func (p *HomePage) IsOnHomePage() (bool, error) {
	ok, err := p.IsPresent(NavbarBrand)
	if err != nil || !ok {
		return false, err
	}
	return p.CurrentURL() == p.BaseURL()+"/", nil
}

// FooterText is the footer's trimmed text.
func (p *HomePage) FooterText() (string, error) {
	return p.Text(FooterText)
}

// BrandText is the navbar brand link text.
func (p *HomePage) BrandText() (string, error) {
	return p.Text(NavbarBrand)
}

func (p *HomePage) Headline() (string, error) {
	return p.Text(homeWelcomeHeadline)
}
