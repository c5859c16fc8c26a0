package config

import (
	"fmt"
	"strings"

	"yqhp/parcluster/pkg/types"
)

// knownStrategies are the strategy names a plan may select.
var knownStrategies = map[string]bool{
	"sequential": true,
	"static":     true,
	"dynamic":    true,
	"shared":     true,
}

// ValidationError represents a plan validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("plan validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates benchmark plans.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new plan validator.
func NewValidator() *Validator {
	return &Validator{errors: make(ValidationErrors, 0)}
}

func (v *Validator) addError(field, message string) {
	v.errors = append(v.errors, ValidationError{Field: field, Message: message})
}

// Validate validates the entire plan and returns any errors.
func (v *Validator) Validate(plan *Plan) error {
	v.errors = make(ValidationErrors, 0)

	if plan.Workers < 1 {
		v.addError("workers", "must be at least 1")
	}
	if _, err := types.ParseIsolationMode(plan.Mode); err != nil {
		v.addError("mode", fmt.Sprintf("must be %q or %q", types.ModeIsolated, types.ModeShared))
	}
	if plan.Repetitions < 1 {
		v.addError("repetitions", "must be at least 1")
	}
	if plan.Items < 0 {
		v.addError("items", "must not be negative")
	}
	for _, name := range plan.Strategies {
		if !knownStrategies[name] {
			v.addError("strategies", fmt.Sprintf("unknown strategy %q", name))
		}
	}
	switch strings.ToLower(plan.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		v.addError("logging.level", fmt.Sprintf("unknown level %q", plan.Logging.Level))
	}

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}
