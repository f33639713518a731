package deal

import (
	"fmt"
	"strings"
)

// FieldError is a validation problem with one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every field problem found in one pass so callers
// can present them together.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	messages := make([]string, 0, len(v))
	for _, e := range v {
		messages = append(messages, e.Error())
	}
	return "invalid inputs: " + strings.Join(messages, "; ")
}

// Add records a problem with field.
func (v *ValidationErrors) Add(field, format string, args ...interface{}) {
	*v = append(*v, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Fields returns the names of the fields with problems, in order.
func (v ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(v))
	for _, e := range v {
		fields = append(fields, e.Field)
	}
	return fields
}

// Err returns v as an error, or nil when it is empty.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
