// Package attendees loads attendee records from local files: a single
// calendars file holding a JSON array, or a directory with one JSON file per
// person named <id>.json.
package attendees

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/teemow/meetslot/internal/logging"
	"github.com/teemow/meetslot/internal/normalize"
)

// Loader reads attendee files. Problems with individual people are logged
// as warnings and skipped.
type Loader struct {
	log logging.Logger
}

// NewLoader returns a Loader. A nil logger discards warnings.
func NewLoader(log logging.Logger) *Loader {
	if log == nil {
		log = logging.Discard()
	}
	return &Loader{log: log}
}

// ReadCalendars decodes a JSON array of attendee records.
func ReadCalendars(r io.Reader) ([]normalize.RawPerson, error) {
	var people []normalize.RawPerson
	if err := json.NewDecoder(r).Decode(&people); err != nil {
		return nil, fmt.Errorf("invalid calendars JSON: %w", err)
	}
	return people, nil
}

// LoadCalendars reads a calendars file.
func (l *Loader) LoadCalendars(path string) ([]normalize.RawPerson, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendars file: %w", err)
	}
	defer f.Close()

	people, err := ReadCalendars(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.log.Debug("loaded calendars file", "path", path, "people", len(people))
	return people, nil
}

// DiscoverPeople lists the person ids in dir, sorted.
func DiscoverPeople(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read people directory: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	slices.Sort(ids)
	return ids, nil
}

// LoadPeopleDir reads the people named by ids from dir, or everyone in dir
// when ids is empty. Missing and unreadable files are skipped with a
// warning. The id of a record without one is its file name.
func (l *Loader) LoadPeopleDir(dir string, ids []string) ([]normalize.RawPerson, error) {
	if len(ids) == 0 {
		var err error
		if ids, err = DiscoverPeople(dir); err != nil {
			return nil, err
		}
	}

	people := make([]normalize.RawPerson, 0, len(ids))
	for _, id := range ids {
		path := filepath.Join(dir, id+".json")
		p, err := readPerson(path)
		if err != nil {
			l.log.Warn("skipping attendee", "id", id, "path", path, "error", err)
			continue
		}
		if p.ID == "" {
			p.ID = id
		}
		l.log.Debug("loaded attendee", "id", p.ID, "events", len(p.Events), logging.UserHash(p.Email))
		people = append(people, p)
	}
	return people, nil
}

func readPerson(path string) (normalize.RawPerson, error) {
	f, err := os.Open(path)
	if err != nil {
		return normalize.RawPerson{}, err
	}
	defer f.Close()

	var p normalize.RawPerson
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return normalize.RawPerson{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return p, nil
}
