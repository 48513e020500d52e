// Package library manages the user's saved custom subjects.
package library

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/quiztick/internal/apperr"
	"github.com/ensigniasec/quiztick/internal/storage"
	"github.com/ensigniasec/quiztick/internal/subject"
)

// Library handles the logic for the custom subject commands.
type Library struct {
	Storage *storage.Storage
}

// Open loads the library stored at storagePath.
func Open(storagePath string) (*Library, error) {
	s, err := storage.NewStorage(storagePath)
	if err != nil {
		return nil, apperr.Wrap("library.open", err)
	}

	return &Library{Storage: s}, nil
}

// View prints the saved custom subjects to the provided writer.
func (l *Library) View(w io.Writer) {
	if len(l.Storage.Data.CustomSubjects) == 0 {
		fmt.Fprintln(w, "No custom subjects saved.")
		return
	}

	for _, cs := range l.Storage.Data.CustomSubjects {
		fmt.Fprintf(w, "%s  %-24s %4ds per mark\n", cs.ID, cs.Title, cs.Seconds)
	}
}

// List returns a copy of the saved custom subjects.
func (l *Library) List() []subject.CustomSubject {
	out := make([]subject.CustomSubject, len(l.Storage.Data.CustomSubjects))
	copy(out, l.Storage.Data.CustomSubjects)
	return out
}

// Add saves a custom subject. An entry with the same title is replaced and keeps its id.
func (l *Library) Add(title string, seconds int) (subject.CustomSubject, error) {
	cs := subject.CustomSubject{Title: strings.TrimSpace(title), Seconds: seconds}
	if err := cs.Validate(); err != nil {
		return subject.CustomSubject{}, err
	}
	logrus.Debugf("Saving custom subject: title=%s, seconds=%d", cs.Title, cs.Seconds)

	if i := l.index(cs.Title); i >= 0 {
		cs.ID = l.Storage.Data.CustomSubjects[i].ID
		l.Storage.Data.CustomSubjects[i] = cs
	} else {
		cs.ID = uuid.NewString()
		l.Storage.Data.CustomSubjects = append(l.Storage.Data.CustomSubjects, cs)
	}
	return cs, l.Storage.Save()
}

// Get finds a custom subject by id or case-insensitive title.
func (l *Library) Get(ref string) (subject.CustomSubject, error) {
	i := l.index(ref)
	if i < 0 {
		return subject.CustomSubject{}, apperr.New("library.get", apperr.ErrInvalidConfiguration, "no custom subject %q", ref)
	}
	return l.Storage.Data.CustomSubjects[i], nil
}

// Remove deletes a custom subject by id or title.
func (l *Library) Remove(ref string) error {
	i := l.index(ref)
	if i < 0 {
		return apperr.New("library.remove", apperr.ErrInvalidInput, "no custom subject %q", ref)
	}
	logrus.Debugf("Removing custom subject %s", l.Storage.Data.CustomSubjects[i].ID)
	subjects := l.Storage.Data.CustomSubjects
	l.Storage.Data.CustomSubjects = append(subjects[:i:i], subjects[i+1:]...)
	return l.Storage.Save()
}

// Reset removes every custom subject.
func (l *Library) Reset() error {
	logrus.Debug("Resetting custom subjects")
	l.Storage.Data.CustomSubjects = []subject.CustomSubject{}
	return l.Storage.Save()
}

func (l *Library) index(ref string) int {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1
	}
	for i, cs := range l.Storage.Data.CustomSubjects {
		if cs.ID == ref || strings.EqualFold(cs.Title, ref) {
			return i
		}
	}
	return -1
}
