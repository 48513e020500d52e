package validate

// This package adds struct and field validation as a thin wrapper around the go-playground/validator package.
//
// e.g. internal/subject/subject.go
//   type CustomSubject struct {
//       Title   string `json:"title" validate:"required,max=64"`
//       Seconds int    `json:"seconds" validate:"gt=0,lte=86400"`
//   }
//
// Besides the built-in tags, a `subject` tag is registered for catalog identifiers and titles.

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// subjectIDs holds the identifiers accepted by the `subject` tag.
// It is populated by RegisterSubjects before the first validation.
//
//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate

	subjectsMu sync.RWMutex
	subjectIDs = map[string]struct{}{}
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		_ = validatorInst.RegisterValidation("subject", isSubject)
	})
	return validatorInst
}

// RegisterSubjects makes ids acceptable to the `subject` tag. Matching is
// case-insensitive and ignores surrounding spaces.
func RegisterSubjects(ids ...string) {
	subjectsMu.Lock()
	defer subjectsMu.Unlock()
	for _, id := range ids {
		subjectIDs[strings.ToLower(strings.TrimSpace(id))] = struct{}{}
	}
}

func isSubject(fl validator.FieldLevel) bool {
	subjectsMu.RLock()
	defer subjectsMu.RUnlock()
	_, ok := subjectIDs[strings.ToLower(strings.TrimSpace(fl.Field().String()))]
	return ok
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}
