// Package contactbook keeps an ordered list of contacts in memory and writes the complete list to
// its storage after every change.
package contactbook

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"gitlab.com/dirk.krummacker/contact-book/internal/model"
)

// ErrNotPersisted is returned by the mutating operations if the change has been applied in memory
// but could not be written to the storage.
var ErrNotPersisted = errors.New("contact book: changes not persisted")

// ContactBook is an in-memory, ordered collection of contacts bound to a storage location.
// Contacts are identified by their phone number, but phone numbers are not required to be unique.
// A ContactBook is not safe for concurrent use.
type ContactBook struct {
	contacts []model.Contact
	storage  Storage
	logger   *slog.Logger
}

// New creates a contact book and loads its contacts from the specified storage. If the storage
// cannot be read or parsed, the book starts out empty and the failure is logged. A nil logger
// discards all diagnostics.
func New(storage Storage, logger *slog.Logger) *ContactBook {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b := &ContactBook{storage: storage, logger: logger}
	b.load()
	return b
}

// Open creates a contact book that is persisted in the file at the specified path.
func Open(path string, logger *slog.Logger) *ContactBook {
	return New(NewFileStorage(path), logger)
}

// load replaces the contacts with the content of the storage.
func (b *ContactBook) load() {
	contacts, err := b.storage.Load()
	if err != nil {
		b.logger.Error("could not load contacts", "storage", b.storage.String(), "error", err)
		b.contacts = nil
		return
	}
	b.contacts = contacts
}

// save writes all contacts to the storage.
func (b *ContactBook) save() error {
	if err := b.storage.Save(b.contacts); err != nil {
		b.logger.Error("could not save contacts", "storage", b.storage.String(), "error", err)
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

// autosave runs the mutation and saves the book afterwards, regardless of what the mutation
// reports.
func (b *ContactBook) autosave(mutation func() bool) (bool, error) {
	result := mutation()
	return result, b.save()
}

// Add appends the contact to the end of the book. The contact is kept even if saving fails.
func (b *ContactBook) Add(c model.Contact) error {
	_, err := b.autosave(func() bool {
		b.contacts = append(b.contacts, c)
		return true
	})
	return err
}

// Delete removes every contact with exactly the specified phone number. It reports whether at
// least one contact has been removed.
func (b *ContactBook) Delete(phone string) (bool, error) {
	return b.autosave(func() bool {
		before := len(b.contacts)
		b.contacts = slices.DeleteFunc(b.contacts, func(c model.Contact) bool {
			return c.Phone == phone
		})
		return len(b.contacts) < before
	})
}

// Update applies the update to the first contact with the specified phone number. Further
// contacts with the same phone number are left alone. It reports whether a contact was found.
func (b *ContactBook) Update(phone string, u model.ContactUpdate) (bool, error) {
	return b.autosave(func() bool {
		i := slices.IndexFunc(b.contacts, func(c model.Contact) bool {
			return c.Phone == phone
		})
		if i < 0 {
			return false
		}
		u.Apply(&b.contacts[i])
		return true
	})
}

// Search returns the contacts whose name, phone or email contain the query, ignoring case. The
// address is not searched. An empty query matches all contacts.
func (b *ContactBook) Search(query string) []model.Contact {
	query = strings.ToLower(query)
	matches := func(c model.Contact) bool {
		return strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(strings.ToLower(c.Phone), query) ||
			strings.Contains(strings.ToLower(c.Email), query)
	}
	var result []model.Contact
	for _, c := range b.contacts {
		if matches(c) {
			result = append(result, c)
		}
	}
	return result
}

// List returns a copy of all contacts in their current order.
func (b *ContactBook) List() []model.Contact {
	return slices.Clone(b.contacts)
}

// Location describes where the book is persisted.
func (b *ContactBook) Location() string {
	return b.storage.String()
}
