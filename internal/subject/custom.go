package subject

import (
	"github.com/ensigniasec/quiztick/internal/apperr"
	"github.com/ensigniasec/quiztick/internal/validate"
)

// CustomSubject is a user-defined subject. It is owned by the editor and only
// referenced by a running countdown. A single mark is capped at one day.
type CustomSubject struct {
	ID      string `json:"id,omitempty" validate:"omitempty,uuid_rfc4122"`
	Title   string `json:"title" validate:"required,max=64"`
	Seconds int    `json:"seconds" validate:"gt=0,lte=86400"`
}

// Validate checks the title and per-mark duration.
func (c CustomSubject) Validate() error {
	if err := validate.Struct(c); err != nil {
		return apperr.New("subject.custom", apperr.ErrInvalidConfiguration, "%v", err)
	}
	return nil
}

// Label is the title shown for the custom slot; it falls back to the catalog title.
func (c *CustomSubject) Label() string {
	if c == nil || c.Title == "" {
		return Custom.Title()
	}
	return c.Title
}
