// Package subject is the catalog of exam subjects and their per-mark timing.
package subject

import (
	"strings"

	"github.com/ensigniasec/quiztick/internal/apperr"
	"github.com/ensigniasec/quiztick/internal/validate"
)

// Subject identifies an exam section with a fixed time budget per mark.
type Subject string

const (
	StandardIB        Subject = "standard-ib"
	SATReadingWriting Subject = "sat-reading-writing"
	SATMath           Subject = "sat-math"
	ACTEnglish        Subject = "act-english"
	ACTMath           Subject = "act-math"
	ACTReading        Subject = "act-reading"
	ACTScience        Subject = "act-science"
	Custom            Subject = "custom"
)

// Seconds per mark for the built-in subjects.
const (
	standardIBSeconds        = 90
	satReadingWritingSeconds = 71
	satMathSeconds           = 95
	actEnglishSeconds        = 36
	actMathSeconds           = 60
	actReadingSeconds        = 52
	actScienceSeconds        = 52
)

type entry struct {
	title   string
	seconds int
}

//nolint:gochecknoglobals // Fixed catalog table.
var (
	catalog = map[Subject]entry{
		StandardIB:        {title: "IB Standard", seconds: standardIBSeconds},
		SATReadingWriting: {title: "SAT Reading/Writing", seconds: satReadingWritingSeconds},
		SATMath:           {title: "SAT Math", seconds: satMathSeconds},
		ACTEnglish:        {title: "ACT English", seconds: actEnglishSeconds},
		ACTMath:           {title: "ACT Math", seconds: actMathSeconds},
		ACTReading:        {title: "ACT Reading", seconds: actReadingSeconds},
		ACTScience:        {title: "ACT Science", seconds: actScienceSeconds},
		Custom:            {title: "Custom"},
	}

	order = []Subject{
		StandardIB, SATReadingWriting, SATMath,
		ACTEnglish, ACTMath, ACTReading, ACTScience,
		Custom,
	}
)

//nolint:gochecknoinits // The `subject` validation tag must know the catalog before any config is validated.
func init() {
	refs := make([]string, 0, 2*len(order))
	for _, s := range order {
		refs = append(refs, string(s), s.Title())
	}
	validate.RegisterSubjects(refs...)
}

// All returns every subject in catalog order, custom last.
func All() []Subject {
	out := make([]Subject, len(order))
	copy(out, order)
	return out
}

// Title is the human readable name shown in pickers.
func (s Subject) Title() string {
	if e, ok := catalog[s]; ok {
		return e.title
	}
	return string(s)
}

// Valid reports whether s is a catalog identifier.
func (s Subject) Valid() bool {
	_, ok := catalog[s]
	return ok
}

// IsCustom reports whether the per-mark duration comes from the caller.
func (s Subject) IsCustom() bool { return s == Custom }

// Parse resolves an identifier or display title, ignoring case.
func Parse(text string) (Subject, error) {
	needle := strings.ToLower(strings.TrimSpace(text))
	for _, s := range order {
		if needle == string(s) || needle == strings.ToLower(catalog[s].title) {
			return s, nil
		}
	}
	return "", apperr.New("subject.parse", apperr.ErrInvalidInput, "unknown subject %q", text)
}

// DurationFor returns the per-mark duration in seconds. customSeconds is only
// consulted for Custom and must be positive there.
func DurationFor(s Subject, customSeconds int) (int, error) {
	e, ok := catalog[s]
	if !ok {
		return 0, apperr.New("subject.duration", apperr.ErrInvalidInput, "unknown subject %q", string(s))
	}
	if !s.IsCustom() {
		return e.seconds, nil
	}
	if customSeconds <= 0 {
		return 0, apperr.New("subject.duration", apperr.ErrInvalidConfiguration,
			"custom subject needs a positive per-mark duration, got %d", customSeconds)
	}
	return customSeconds, nil
}

// DurationForCustom is DurationFor with the custom duration taken from cs.
// A nil cs is treated as an absent custom duration.
func DurationForCustom(s Subject, cs *CustomSubject) (int, error) {
	seconds := 0
	if cs != nil {
		seconds = cs.Seconds
	}
	return DurationFor(s, seconds)
}
