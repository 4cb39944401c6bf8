package pages

import (
	"net/url"
	"strings"
)

// Outcome tags where a form submission ended up.
type Outcome int

const (
	// NavigatedToList: the application accepted the form and redirected to the list.
	NavigatedToList Outcome = iota + 1
	// StayedOnForm: the form was rendered again, normally with validation errors.
	StayedOnForm
)

func (o Outcome) String() string {
	switch o {
	case NavigatedToList:
		return "navigated-to-list"
	case StayedOnForm:
		return "stayed-on-form"
	}
	return "unknown"
}

// Classify decides the outcome of a submission from the URL the browser ended on.
// A URL under /<segment>/ that is neither a create nor an update form is the list.
func Classify(rawURL, segment string) Outcome {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	if strings.Contains(path, "/"+segment+"/") &&
		!strings.Contains(path, "/create/") &&
		!strings.Contains(path, "/update/") {
		return NavigatedToList
	}
	return StayedOnForm
}
