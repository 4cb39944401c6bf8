// Package locator describes how page objects find elements: a strategy plus a
// selector, rendered into the browser engine's selector syntax.
package locator

import (
	"fmt"
	"strings"
)

// Strategy is how a selector string is interpreted.
type Strategy int

const (
	ByID Strategy = iota + 1
	ByName
	ByClassName
	ByCSS
	ByXPath
	ByText
)

func (s Strategy) String() string {
	switch s {
	case ByID:
		return "id"
	case ByName:
		return "name"
	case ByClassName:
		return "class"
	case ByCSS:
		return "css"
	case ByXPath:
		return "xpath"
	case ByText:
		return "text"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// Locator identifies zero or more elements on a rendered page. It is a plain value;
// page objects declare theirs as package-level vars.
type Locator struct {
	By    Strategy
	Value string
}

func ID(id string) Locator        { return Locator{By: ByID, Value: id} }
func Name(name string) Locator    { return Locator{By: ByName, Value: name} }
func Class(class string) Locator  { return Locator{By: ByClassName, Value: class} }
func CSS(selector string) Locator { return Locator{By: ByCSS, Value: selector} }
func XPath(expr string) Locator   { return Locator{By: ByXPath, Value: expr} }
func Text(text string) Locator    { return Locator{By: ByText, Value: text} }

// Selector renders the locator for the engine (playwright selector engines).
func (l Locator) Selector() string {
	switch l.By {
	case ByID:
		return "css=#" + CSSIdent(l.Value)
	case ByName:
		return "css=[name=" + CSSString(l.Value) + "]"
	case ByClassName:
		return "css=." + CSSIdent(l.Value)
	case ByCSS:
		return "css=" + l.Value
	case ByXPath:
		return "xpath=" + l.Value
	case ByText:
		return "text=" + CSSString(l.Value)
	}
	return l.Value
}

func (l Locator) String() string {
	return l.By.String() + ": " + l.Value
}

// IsZero reports whether l was never set.
func (l Locator) IsZero() bool {
	return l.By == 0 && l.Value == ""
}

// Template is a selector with one hole for a runtime value, such as a row's display
// name. The value is escaped for the strategy before it is placed, so names with
// quotes or brackets cannot change the structure of the query.
type Template struct {
	By      Strategy
	Pattern string
}

// XPathTemplate takes a pattern whose single %s is replaced by an XPath string literal.
func XPathTemplate(pattern string) Template {
	return Template{By: ByXPath, Pattern: pattern}
}

// CSSTemplate takes a pattern whose single %s is replaced by a quoted CSS string.
func CSSTemplate(pattern string) Template {
	return Template{By: ByCSS, Pattern: pattern}
}

// With fills the template with value.
func (t Template) With(value string) Locator {
	switch t.By {
	case ByXPath:
		return XPath(fmt.Sprintf(t.Pattern, XPathLiteral(value)))
	case ByCSS:
		return CSS(fmt.Sprintf(t.Pattern, CSSString(value)))
	}
	panic(fmt.Sprintf("locator: template strategy %s is not supported", t.By))
}

// XPathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so a string holding both quote kinds becomes a concat() call.
func XPathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	args := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			args = append(args, `"'"`)
		}
		if p != "" {
			args = append(args, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}

// CSSString quotes s as a CSS string token.
func CSSString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\a `)
		case '\r':
			b.WriteString(`\d `)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// CSSIdent escapes s for use as an id or class name in a CSS selector.
func CSSIdent(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '-', r >= 0x80:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				fmt.Fprintf(&b, `\%x `, r)
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
