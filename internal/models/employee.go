package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Form field names, shared by the page objects, fixtures and the contract stub.
const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldDepartment = "department"
	FieldSalary     = "salary"
	FieldStatus     = "status"
)

// EmployeeFields lists employee fields in form order.
var EmployeeFields = []string{FieldName, FieldEmail, FieldDepartment, FieldSalary, FieldStatus}

// Status is the employment status shown in the status radio group and filter.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusActive, StatusInactive}

// ParseStatus accepts any casing ("active", "INACTIVE") and returns the canonical value.
func ParseStatus(s string) (Status, error) {
	// Casers keep state, so one per call.
	st := Status(cases.Title(language.English).String(strings.TrimSpace(s)))
	switch st {
	case StatusActive, StatusInactive:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Slug is the lower-case form used in element ids and query strings.
func (s Status) Slug() string {
	return strings.ToLower(string(s))
}

// Employee represents an employee record as entered through the form
type Employee struct {
	ID         int       `json:"id,omitempty"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department,omitempty"` // department display name
	Salary     float64   `json:"salary"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// SalaryString formats the salary the way the form expects it.
func (e Employee) SalaryString() string {
	return FormatSalary(e.Salary)
}

// Fields returns the record as form values keyed by field name. Empty values are omitted.
func (e Employee) Fields() map[string]string {
	out := map[string]string{}
	if e.Name != "" {
		out[FieldName] = e.Name
	}
	if e.Email != "" {
		out[FieldEmail] = e.Email
	}
	if e.Department != "" {
		out[FieldDepartment] = e.Department
	}
	out[FieldSalary] = e.SalaryString()
	if e.Status != "" {
		out[FieldStatus] = string(e.Status)
	}
	return out
}

// EmployeeFromFields builds an Employee from string values, e.g. a fixture row.
func EmployeeFromFields(fields map[string]string) (Employee, error) {
	e := Employee{
		Name:       fields[FieldName],
		Email:      fields[FieldEmail],
		Department: fields[FieldDepartment],
	}
	if raw := fields[FieldSalary]; raw != "" {
		salary, err := ParseSalary(raw)
		if err != nil {
			return e, err
		}
		e.Salary = salary
	}
	if raw := fields[FieldStatus]; raw != "" {
		st, err := ParseStatus(raw)
		if err != nil {
			return e, err
		}
		e.Status = st
	}
	return e, nil
}

// FormatSalary renders a salary with two decimals.
func FormatSalary(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// ParseSalary parses a salary as rendered in the list ("$52,000.50") or typed in the form.
func ParseSalary(s string) (float64, error) {
	clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid salary %q: %w", s, err)
	}
	return v, nil
}
