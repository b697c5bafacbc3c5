package contact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// snapshot is the on-disk form of an AddressBook.
type snapshot struct {
	Contacts []snapshotRecord `json:"contacts" yaml:"contacts"`
}

type snapshotRecord struct {
	Name     string   `json:"name" yaml:"name"`
	Phones   []string `json:"phones" yaml:"phones"`
	Birthday string   `json:"birthday,omitempty" yaml:"birthday,omitempty"`
}

// Save writes every record to path, replacing any existing file. Paths ending
// in .yaml or .yml are written as YAML, everything else as JSON.
func (b *AddressBook) Save(path string) error {
	snap := snapshot{Contacts: make([]snapshotRecord, 0, b.Len())}
	for _, r := range b.Records() {
		sr := snapshotRecord{Name: r.Name(), Phones: make([]string, len(r.phones))}
		for i, p := range r.phones {
			sr.Phones[i] = p.Value()
		}
		if r.birthday != nil {
			sr.Birthday = r.birthday.Value()
		}
		snap.Contacts = append(snap.Contacts, sr)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(snap)
	} else {
		data, err = json.MarshalIndent(snap, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("contact: marshaling snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("contact: creating directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("contact: writing %s: %w", path, err)
	}
	return nil
}

// Load replaces the book's contents with the snapshot at path. Records are
// restored as written, without re-validating their fields. The book is left
// unchanged if the file cannot be read or decoded.
func (b *AddressBook) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("contact: reading %s: %w", path, err)
	}

	var snap snapshot
	if isYAML(path) {
		err = decodeYAML(data, &snap)
	} else {
		err = decodeJSON(data, &snap)
	}
	if err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrCorruptSnapshot, path, err)
	}

	records := make([]*Record, 0, len(snap.Contacts))
	for _, sr := range snap.Contacts {
		records = append(records, restoreRecord(sr.Name, sr.Phones, sr.Birthday))
	}
	b.replace(records)
	return nil
}

// decodeYAML decodes exactly one YAML document with no unknown keys.
func decodeYAML(data []byte, snap *snapshot) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(snap); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty document")
		}
		return err
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return errors.New("unexpected content after snapshot")
	}
	return nil
}

// decodeJSON decodes exactly one JSON value with no unknown fields.
func decodeJSON(data []byte, snap *snapshot) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(snap); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected content after snapshot")
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
