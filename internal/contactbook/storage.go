package contactbook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/dirk.krummacker/contact-book/internal/model"
	"gopkg.in/yaml.v3"
)

// Storage is the location a contact book is persisted to. Load returns no contacts and no error
// if nothing has been stored yet. Save always replaces the complete previous content.
type Storage interface {
	Load() ([]model.Contact, error)
	Save(contacts []model.Contact) error
	String() string
}

// codec converts between the file content and the contacts.
type codec interface {
	decode(data []byte) ([]model.Record, error)
	encode(contacts []model.Contact) ([]byte, error)
}

// FileStorage keeps the contacts in a single text file. The format is chosen by the file
// extension: '.yaml' and '.yml' files are written as YAML, all other files as JSON.
type FileStorage struct {
	path  string
	codec codec
}

// NewFileStorage returns a storage for the file at the specified path. The file does not need to
// exist yet.
func NewFileStorage(path string) *FileStorage {
	var c codec = jsonCodec{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		c = yamlCodec{}
	}
	return &FileStorage{path: path, codec: c}
}

// Load reads and parses the file. A missing file is not an error.
func (s *FileStorage) Load() ([]model.Contact, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	records, err := s.codec.decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	contacts := make([]model.Contact, 0, len(records))
	for _, r := range records {
		contacts = append(contacts, model.FromRecord(r))
	}
	return contacts, nil
}

// Save overwrites the file with the serialized contacts.
func (s *FileStorage) Save(contacts []model.Contact) error {
	if contacts == nil {
		contacts = []model.Contact{}
	}
	data, err := s.codec.encode(contacts)
	if err != nil {
		return fmt.Errorf("serializing contacts: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

// String returns the path of the file.
func (s *FileStorage) String() string {
	return s.path
}

type jsonCodec struct{}

func (jsonCodec) decode(data []byte) ([]model.Record, error) {
	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// encode writes the contacts with an indentation of four spaces.
func (jsonCodec) encode(contacts []model.Contact) ([]byte, error) {
	return json.MarshalIndent(contacts, "", "    ")
}

type yamlCodec struct{}

func (yamlCodec) decode(data []byte) ([]model.Record, error) {
	var records []model.Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (yamlCodec) encode(contacts []model.Contact) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(contacts); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
