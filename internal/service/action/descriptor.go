// Package action implements the name-indexed registry of remotely invocable
// operations and the role-based authorization guard consulted before dispatch.
package action

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/SreeGowri/webutils/pkg/types"
)

// ValidActionName matches dotted action names such as "employee.save".
var ValidActionName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)*$`)

var urlPlaceholder = regexp.MustCompile(`\{([a-zA-Z][a-zA-Z0-9_]*)\}`)

// Descriptor describes one invocable operation: its name, URL template, verb,
// declared parameters and authorization requirements. Descriptors are built
// once at startup and never mutated afterwards.
type Descriptor struct {
	Name                string
	URL                 string
	Method              types.HTTPMethod
	BodyExpected        bool
	RequestParameters   []string
	URLParameters       []string
	AttachmentsExpected bool
	FileFields          []string
	RequiredRoles       []types.UserRole
}

// Validate checks the descriptor's internal consistency: a well-formed name,
// a supported verb, and URL placeholders that reconcile exactly with the
// declared url parameters.
func (d *Descriptor) Validate() error {
	if !ValidActionName.MatchString(d.Name) {
		return fmt.Errorf("invalid action name %q", d.Name)
	}
	if _, err := types.ValidateHTTPMethod(string(d.Method)); err != nil {
		return fmt.Errorf("action %s: %w", d.Name, err)
	}

	var placeholders []string
	for _, m := range urlPlaceholder.FindAllStringSubmatch(d.URL, -1) {
		placeholders = append(placeholders, m[1])
	}
	for _, p := range placeholders {
		if !slices.Contains(d.URLParameters, p) {
			return fmt.Errorf("action %s: url placeholder {%s} is not a declared url parameter", d.Name, p)
		}
	}
	for _, p := range d.URLParameters {
		if !slices.Contains(placeholders, p) {
			return fmt.Errorf("action %s: url parameter %q has no {%s} placeholder in url %q", d.Name, p, p, d.URL)
		}
	}

	if d.AttachmentsExpected && len(d.FileFields) == 0 {
		return fmt.Errorf("action %s: attachments expected but no file fields declared", d.Name)
	}
	if !d.AttachmentsExpected && len(d.FileFields) > 0 {
		return fmt.Errorf("action %s: file fields declared but attachments not expected", d.Name)
	}
	return nil
}

// Model returns the client-facing wire representation of the descriptor.
// Required roles are enforced server-side and not exposed.
func (d *Descriptor) Model() types.ActionModel {
	return types.ActionModel{
		Name:                d.Name,
		URL:                 d.URL,
		Method:              d.Method,
		BodyExpected:        d.BodyExpected,
		RequestParameters:   slices.Clone(d.RequestParameters),
		URLParameters:       slices.Clone(d.URLParameters),
		AttachmentsExpected: d.AttachmentsExpected,
		FileFields:          slices.Clone(d.FileFields),
	}
}
