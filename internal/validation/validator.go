// Package validation checks an extracted field set against its document
// type's rules.  The validator is pure: given the same type and fields it
// always produces the same result, which the pipeline relies on for
// reproducible review decisions.
package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/claimlens/claimlens/internal/domain/document"
)

const (
	baseConfidence  = 0.95
	errorPenalty    = 0.20
	warningPenalty  = 0.05
	confidenceFloor = 0.5
)

// Validator applies registry rules to field sets.
type Validator struct {
	registry *document.Registry
}

// New builds a Validator over an immutable registry.
func New(registry *document.Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate checks fields against the rules for typeTag.  An unknown type is
// the one fail-fast condition; everything else is reported inside the
// result.  Errors and warnings keep rule-declaration order so repeated runs
// are bit-identical.
func (v *Validator) Validate(typeTag string, fields document.FieldSet) (*document.ValidationResult, error) {
	spec, err := v.registry.Get(typeTag)
	if err != nil {
		return nil, err
	}

	res := &document.ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}
	erroneous := map[string]bool{}

	for _, name := range spec.RequiredFields {
		if !present(fields, name) {
			res.Errors = append(res.Errors, fmt.Sprintf("missing required field: %s", name))
			erroneous[name] = true
		}
	}

	for i := range spec.Fields {
		rule := &spec.Fields[i]
		value, ok := fields[rule.Name]
		if !ok || !present(fields, rule.Name) {
			continue
		}
		for _, issue := range checkRule(rule, value) {
			if issue.warning {
				res.Warnings = append(res.Warnings, issue.message)
			} else {
				res.Errors = append(res.Errors, issue.message)
				erroneous[rule.Name] = true
			}
		}
	}

	res.IsValid = len(res.Errors) == 0
	res.Confidence = confidence(len(res.Errors), len(res.Warnings))
	res.DataQuality = quality(fields, erroneous, res.Confidence, len(res.Warnings))
	return res, nil
}

type issue struct {
	message string
	warning bool
}

func errIssue(format string, args ...interface{}) issue {
	return issue{message: fmt.Sprintf(format, args...)}
}

func warnIssue(format string, args ...interface{}) issue {
	return issue{message: fmt.Sprintf(format, args...), warning: true}
}

func checkRule(rule *document.FieldRule, value interface{}) []issue {
	switch rule.Kind {
	case document.FieldNumber:
		return checkNumber(rule, value)
	case document.FieldEnum:
		return checkEnum(rule, value)
	case document.FieldIdentifier:
		return checkIdentifier(rule, value)
	case document.FieldDate:
		return checkDate(rule, value)
	case document.FieldGeoPoint:
		return checkGeo(rule, value)
	case document.FieldArray:
		return checkArray(rule, value)
	}
	return nil
}

func checkNumber(rule *document.FieldRule, value interface{}) []issue {
	n, ok := asFloat(value)
	if !ok {
		return []issue{errIssue("field %s: value %v is not numeric", rule.Name, value)}
	}
	c := rule.Number
	if c == nil {
		return nil
	}
	var out []issue
	if c.Min != nil && n < *c.Min {
		out = append(out, errIssue("field %s: %g is below the minimum %g", rule.Name, n, *c.Min))
	}
	if c.Max != nil && n > *c.Max {
		out = append(out, errIssue("field %s: %g exceeds the maximum %g", rule.Name, n, *c.Max))
	}
	return out
}

func checkEnum(rule *document.FieldRule, value interface{}) []issue {
	if rule.Enum == nil {
		return nil
	}
	s, ok := asString(value)
	if !ok {
		return []issue{warnIssue("field %s: value %v is not a known option", rule.Name, value)}
	}
	for _, allowed := range rule.Enum.Allowed {
		if s == allowed {
			return nil
		}
	}
	return []issue{warnIssue("field %s: %q is not one of %s", rule.Name, s, strings.Join(rule.Enum.Allowed, ", "))}
}

func checkIdentifier(rule *document.FieldRule, value interface{}) []issue {
	s, ok := asString(value)
	if !ok || rule.Identifier == nil || !rule.Identifier.Matches(s) {
		desc := "required format"
		if rule.Identifier != nil && rule.Identifier.Description != "" {
			desc = rule.Identifier.Description
		}
		return []issue{errIssue("field %s: value does not match the %s", rule.Name, desc)}
	}
	return nil
}

func checkDate(rule *document.FieldRule, value interface{}) []issue {
	s, ok := asString(value)
	if !ok {
		return []issue{errIssue("field %s: value %v is not a date", rule.Name, value)}
	}
	c := rule.Date
	if c == nil {
		c = &document.DateConstraint{}
	}
	t, err := c.ParseDate(s)
	if err != nil {
		return []issue{errIssue("field %s: %q is not a recognized date", rule.Name, s)}
	}
	if cutoff, has := c.WarnAfterTime(); has && t.After(cutoff) {
		return []issue{warnIssue("field %s: date %s falls after the statutory cutoff %s",
			rule.Name, t.Format("2006-01-02"), cutoff.Format("2006-01-02"))}
	}
	return nil
}

func checkGeo(rule *document.FieldRule, value interface{}) []issue {
	point, ok := value.(map[string]interface{})
	if !ok {
		return []issue{errIssue("field %s: value is not a coordinate pair", rule.Name)}
	}
	lat, latOK := asFloat(point["lat"])
	lon, lonOK := asFloat(point["lon"])
	if !latOK || !lonOK {
		return []issue{errIssue("field %s: value is not a coordinate pair", rule.Name)}
	}
	var out []issue
	if lat < -90 || lat > 90 {
		out = append(out, errIssue("field %s: latitude %g is out of bounds", rule.Name, lat))
	}
	if lon < -180 || lon > 180 {
		out = append(out, errIssue("field %s: longitude %g is out of bounds", rule.Name, lon))
	}
	return out
}

func checkArray(rule *document.FieldRule, value interface{}) []issue {
	items, ok := asSlice(value)
	if !ok {
		return []issue{errIssue("field %s: value is not a list", rule.Name)}
	}
	if rule.Array != nil && len(items) < rule.Array.MinItems {
		return []issue{errIssue("field %s: needs at least %d entries, got %d",
			rule.Name, rule.Array.MinItems, len(items))}
	}
	return nil
}

func confidence(errors, warnings int) float64 {
	c := baseConfidence - errorPenalty*float64(errors) - warningPenalty*float64(warnings)
	if c < confidenceFloor {
		return confidenceFloor
	}
	return c
}

func quality(fields document.FieldSet, erroneous map[string]bool, conf float64, warnings int) document.DataQuality {
	presentCount := 0
	errCount := 0
	for name := range fields {
		if !present(fields, name) {
			continue
		}
		presentCount++
		if erroneous[name] {
			errCount++
		}
	}
	denom := presentCount
	if denom < 1 {
		denom = 1
	}
	completeness := float64(presentCount-errCount) / float64(denom) * 100
	if completeness < 0 {
		completeness = 0
	}

	consistency := 100.0
	if warnings > 0 {
		consistency = 100 - 10*float64(warnings)
		if consistency < 50 {
			consistency = 50
		}
	}
	return document.DataQuality{
		Completeness: completeness,
		Accuracy:     conf * 100,
		Consistency:  consistency,
	}
}

// present treats empty strings and empty arrays as absent, per the
// required-field rule.
func present(fields document.FieldSet, name string) bool {
	value, ok := fields[name]
	if !ok || value == nil {
		return false
	}
	if s, isStr := asString(value); isStr {
		return strings.TrimSpace(s) != ""
	}
	if items, isSlice := asSlice(value); isSlice {
		return len(items) > 0
	}
	return true
}

func asFloat(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func asString(value interface{}) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

func asSlice(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case []interface{}:
		return v, true
	case []string:
		out := make([]interface{}, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	}
	return nil, false
}
