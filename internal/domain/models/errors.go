package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is the sentinel matched by errors.Is for any pre-submit
// validation failure. Validation runs before any network call and blocks
// the whole batch.
var ErrValidation = errors.New("validation failed")

// FieldError pins a validation failure to a row and field so the UI can
// enumerate exactly what blocked the submission.
type FieldError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
}

// ValidationErrors aggregates every offending row; submission is
// all-or-nothing so one bad row rejects the batch.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match without unwrapping.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}
