package pages

import (
	"fmt"
	"strings"

	"github.com/gotrs-io/emsuite/internal/locator"
	"github.com/playwright-community/playwright-go"
)

var (
	ResultsTable = locator.XPath(`//table[` + hasClass("table") + `]`)
	TableRows    = locator.XPath(`//table//tbody//tr[td]`)

	// Row templates match the display name in the first cell. Names are escaped, so
	// "O'Brien" or a name with brackets selects exactly its own row.
	RowByName       = locator.XPathTemplate(`//table//tbody//tr[td[1][normalize-space(.)=%s]]`)
	EditLinkInRow   = locator.XPathTemplate(`//table//tbody//tr[td[1][normalize-space(.)=%s]]//a[normalize-space(.)='Edit']`)
	DeleteLinkInRow = locator.XPathTemplate(`//table//tbody//tr[td[1][normalize-space(.)=%s]]//a[normalize-space(.)='Delete']`)
)

// table is the listing shared by the employee and department pages.
type table struct {
	Base
	empty locator.Locator // the single placeholder row shown when nothing matches
}

// count is the number of data rows, 0 when the placeholder is shown.
func (t table) count() (int, error) {
	if _, err := t.Find(ResultsTable); err != nil {
		return 0, err
	}
	empty, err := t.IsPresent(t.empty, Timeout(t.timeouts.Probe))
	if err != nil {
		return 0, err
	}
	if empty {
		return 0, nil
	}
	return t.Count(TableRows)
}

func (t table) isDisplayed(name string) (bool, error) {
	return t.IsPresent(RowByName.With(name))
}

// names returns the first cell of every data row in table order.
func (t table) names() ([]string, error) {
	n, err := t.count()
	if err != nil || n == 0 {
		return nil, err
	}
	rows, err := t.FindAll(TableRows)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		text, err := row.Locator("td").First().InnerText(playwright.LocatorInnerTextOptions{Timeout: ms(t.timeouts.Default)})
		if err != nil {
			return nil, fmt.Errorf("read row name: %w", err)
		}
		out = append(out, normalizeSpace(text))
	}
	return out, nil
}

// cells returns the trimmed text of every cell of the row for name.
func (t table) cells(name string) ([]string, error) {
	row, err := t.Find(RowByName.With(name))
	if err != nil {
		return nil, err
	}
	tds, err := row.Locator("td").All()
	if err != nil {
		return nil, fmt.Errorf("read cells of %q: %w", name, err)
	}
	out := make([]string, 0, len(tds))
	for _, td := range tds {
		text, err := td.InnerText(playwright.LocatorInnerTextOptions{Timeout: ms(t.timeouts.Default)})
		if err != nil {
			return nil, fmt.Errorf("read cells of %q: %w", name, err)
		}
		out = append(out, strings.TrimSpace(text))
	}
	return out, nil
}

func (t table) clickRowLink(tmpl locator.Template, name, segment, action string) error {
	if err := t.ClickAndWaitForNavigation(tmpl.With(name)); err != nil {
		return err
	}
	if err := t.expectPath(segment); err != nil {
		return err
	}
	return t.expectPath("/" + action + "/")
}
