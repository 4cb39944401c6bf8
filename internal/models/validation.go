package models

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationErrors maps a field name to the message the application showed for it.
// A field that passed validation has no key.
type ValidationErrors map[string]string

// Has reports whether field was rejected.
func (v ValidationErrors) Has(field string) bool {
	_, ok := v[field]
	return ok
}

// Fields returns the rejected field names, sorted.
func (v ValidationErrors) Fields() []string {
	out := make([]string, 0, len(v))
	for k := range v {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, f := range v.Fields() {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
