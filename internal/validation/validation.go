package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rfconstrucoes/obra/internal/types"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Collector accumulates validation errors without failing on first.
type Collector struct {
	errors []ValidationError
}

// Add appends a validation error to the collector if non-nil.
func (c *Collector) Add(err *ValidationError) {
	if err != nil {
		c.errors = append(c.errors, *err)
	}
}

// HasErrors returns true if the collector has accumulated any errors.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors returns all accumulated validation errors.
func (c *Collector) Errors() []ValidationError {
	return c.errors
}

var (
	// phonePattern accepts generic international formats: optional +,
	// optional parens around the prefix, separators between groups.
	phonePattern = regexp.MustCompile(`^[+]?[(]?[0-9]{2,3}[)]?[-\s.]?[0-9]{3}[-\s.]?[0-9]{3,6}$`)

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	nonDigits = regexp.MustCompile(`\D`)
)

// ValidateRequired returns an error if the value is empty or whitespace-only.
func ValidateRequired(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// ValidateMinLength returns an error if the trimmed value has fewer than min runes.
func ValidateMinLength(field, value string, min int) *ValidationError {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters", min),
		}
	}
	return nil
}

// ValidateMaxLength returns an error if the value exceeds max runes.
func ValidateMaxLength(field, value string, max int) *ValidationError {
	if utf8.RuneCountInString(value) > max {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("exceeds maximum length of %d characters", max),
		}
	}
	return nil
}

// ValidatePhone returns an error unless the value matches the generic
// international pattern and carries at least 9 digits once separators
// are stripped.
func ValidatePhone(field, value string) *ValidationError {
	digits := nonDigits.ReplaceAllString(value, "")
	if !phonePattern.MatchString(value) || len(digits) < 9 {
		return &ValidationError{Field: field, Message: "must be a valid phone number"}
	}
	return nil
}

// ValidateEmail returns an error if the value is not a plausible address.
func ValidateEmail(field, value string) *ValidationError {
	if !emailPattern.MatchString(value) {
		return &ValidationError{Field: field, Message: "must be a valid email address"}
	}
	return nil
}

// ValidateEnum returns an error if the value is not in the allowed list.
func ValidateEnum(field, value string, allowed []string) *ValidationError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// ValidateIntRange returns an error if the value is outside [min, max].
func ValidateIntRange(field string, value, min, max int) *ValidationError {
	if value < min || value > max {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between %d and %d", min, max),
		}
	}
	return nil
}

// categoryValues returns the accepted category labels as plain strings.
func categoryValues() []string {
	out := make([]string, len(types.ProjectCategories))
	for i, c := range types.ProjectCategories {
		out[i] = string(c)
	}
	return out
}

// ValidateContactForm applies the budget-request intake rules. Any
// violation blocks submission; all field errors are reported together.
func ValidateContactForm(form types.ContactForm) []ValidationError {
	var c Collector
	c.Add(ValidateMinLength("name", form.Name, 3))
	c.Add(ValidatePhone("phone", form.Phone))
	c.Add(ValidateEmail("email", form.Email))
	c.Add(ValidateEnum("project_type", form.ProjectType, categoryValues()))
	c.Add(ValidateMinLength("description", form.Description, 10))
	return c.Errors()
}

// ValidateProject applies the project write rules, including the
// completion invariant: a completed project must report 100% progress
// and an in-progress one must not.
func ValidateProject(p types.Project) []ValidationError {
	var c Collector
	c.Add(ValidateRequired("title", p.Title))
	c.Add(ValidateMaxLength("title", p.Title, 200))
	c.Add(ValidateEnum("category", string(p.Category), categoryValues()))
	c.Add(ValidateEnum("status", string(p.Status), []string{
		string(types.StatusCompleted), string(types.StatusInProgress),
	}))
	c.Add(ValidateIntRange("progress", p.Progress, 0, 100))
	if p.Status == types.StatusCompleted && p.Progress != 100 {
		c.Add(&ValidationError{Field: "progress", Message: "must be 100 for a completed project"})
	}
	if p.Status == types.StatusInProgress && p.Progress == 100 {
		c.Add(&ValidationError{Field: "status", Message: "a project at 100% must be marked completed"})
	}
	return c.Errors()
}

// ValidateReview applies the public review submission rules.
func ValidateReview(r types.Review) []ValidationError {
	var c Collector
	c.Add(ValidateMinLength("client_name", r.ClientName, 3))
	c.Add(ValidateIntRange("rating", r.Rating, 1, 5))
	c.Add(ValidateRequired("comment", r.Comment))
	c.Add(ValidateMaxLength("comment", r.Comment, 2000))
	return c.Errors()
}
