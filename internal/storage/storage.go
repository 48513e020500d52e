package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/quiztick/internal/subject"
)

// DefaultPath is where custom subjects live unless configured otherwise.
const DefaultPath = "~/.config/quiztick/subjects.json"

// Data represents the structure of the storage file.
type Data struct {
	CustomSubjects []subject.CustomSubject `json:"custom_subjects"`
}

// Storage handles the loading and saving of the storage file.
type Storage struct {
	Path string
	Data Data
}

// NewStorage creates a new Storage instance, loading the file when it exists.
func NewStorage(path string) (*Storage, error) {
	expandedPath, err := ExpandTilde(path)
	if err != nil {
		return nil, err
	}

	s := &Storage{
		Path: expandedPath,
		Data: Data{CustomSubjects: []subject.CustomSubject{}},
	}

	if err := s.Load(); err != nil {
		// If the file doesn't exist, we can ignore the error.
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return s, nil
}

func (s *Storage) Load() error {
	logrus.Debug("Loading storage file from: ", s.Path)
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &s.Data); err != nil {
		return err
	}
	if s.Data.CustomSubjects == nil {
		s.Data.CustomSubjects = []subject.CustomSubject{}
	}

	// Validate loaded entries and self-heal when possible.
	changed := false
	kept := s.Data.CustomSubjects[:0]
	for _, cs := range s.Data.CustomSubjects {
		if cs.ID == "" {
			cs.ID = uuid.NewString()
			changed = true
		}
		if err := cs.Validate(); err != nil {
			logrus.Warnf("Invalid custom subject %q found in storage; dropping: %v", cs.Title, err)
			changed = true
			continue
		}
		kept = append(kept, cs)
	}
	s.Data.CustomSubjects = kept

	if changed {
		return s.Save()
	}
	return nil
}

// Save writes the storage data to the file.
func (s *Storage) Save() error {
	logrus.Debug("Saving storage file to: ", s.Path)
	// Ensure parent directory exists.
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, data, 0o600)
}

// ExpandTilde expands a leading tilde in a path to the user's home directory.
func ExpandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
