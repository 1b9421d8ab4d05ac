package menu

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contact-book/internal/contactbook"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
)

// fakeBook records the calls of the menu and answers with preset results.
type fakeBook struct {
	contacts  []model.Contact
	updates   map[string]model.ContactUpdate
	deleted   []string
	queries   []string
	found     bool
	saveError error
}

func (b *fakeBook) Add(c model.Contact) error {
	b.contacts = append(b.contacts, c)
	return b.saveError
}

func (b *fakeBook) Delete(phone string) (bool, error) {
	b.deleted = append(b.deleted, phone)
	return b.found, b.saveError
}

func (b *fakeBook) Update(phone string, u model.ContactUpdate) (bool, error) {
	if b.updates == nil {
		b.updates = map[string]model.ContactUpdate{}
	}
	b.updates[phone] = u
	return b.found, b.saveError
}

func (b *fakeBook) Search(query string) []model.Contact {
	b.queries = append(b.queries, query)
	return b.contacts
}

func (b *fakeBook) List() []model.Contact {
	return b.contacts
}

// runMenu feeds the lines to the menu and returns everything it printed.
func runMenu(t *testing.T, book Book, lines ...string) string {
	var out bytes.Buffer
	err := Run(book, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	require.NoError(t, err)
	return out.String()
}

// TestAddRepromptsRequiredFields enters a blank name and a blank phone first. It expects that
// both are asked for again and the contact is added with the non-blank values.
func TestAddRepromptsRequiredFields(t *testing.T) {
	book := &fakeBook{}
	out := runMenu(t, book, "1", "", "  Hans  ", " ", "0815", "hans@example.com", "", "6")

	assert.Equal(t, []model.Contact{{Name: "Hans", Phone: "0815", Email: "hans@example.com"}}, book.contacts)
	assert.Equal(t, 2, strings.Count(out, "Input cannot be empty. Try again."))
	assert.Contains(t, out, "[INFO] Contact added successfully!")
	assert.Contains(t, out, "Goodbye!")
}

// TestListEmpty expects a message instead of a list.
func TestListEmpty(t *testing.T) {
	out := runMenu(t, &fakeBook{}, "2", "6")
	assert.Contains(t, out, "No contacts available.")
}

// TestListContacts expects one numbered line per contact.
func TestListContacts(t *testing.T) {
	book := &fakeBook{contacts: []model.Contact{
		{Name: "Aaron", Phone: "1", Email: "a@example.com", Address: "Main St"},
		{Name: "Berta", Phone: "2"},
	}}
	out := runMenu(t, book, "2", "6")
	assert.Contains(t, out, "--- Contact List ---")
	assert.Contains(t, out, "1. Aaron | 1 | a@example.com | Main St\n")
	assert.Contains(t, out, "2. Berta | 2 |  | \n")
}

// TestSearch expects that the query is passed on unchanged and an empty result is reported.
func TestSearch(t *testing.T) {
	book := &fakeBook{}
	out := runMenu(t, book, "3", "Ali", "6")
	assert.Equal(t, []string{"Ali"}, book.queries)
	assert.Contains(t, out, "No contact found.")
}

// TestUpdateBlankMeansUnchanged enters only a new email. It expects an update that carries the
// email and nothing else.
func TestUpdateBlankMeansUnchanged(t *testing.T) {
	book := &fakeBook{found: true}
	out := runMenu(t, book, "4", "5", "", "", "new@example.com", "", "6")

	require.Contains(t, book.updates, "5")
	u := book.updates["5"]
	assert.Nil(t, u.Name)
	assert.Nil(t, u.Phone)
	assert.Nil(t, u.Address)
	require.NotNil(t, u.Email)
	assert.Equal(t, "new@example.com", *u.Email)
	assert.Contains(t, out, "Leave blank to keep current value")
	assert.Contains(t, out, "[INFO] Contact updated!")
}

// TestUpdateNotFound expects a warning if the phone is unknown.
func TestUpdateNotFound(t *testing.T) {
	out := runMenu(t, &fakeBook{}, "4", "7", "Zoe", "", "", "", "6")
	assert.Contains(t, out, "[WARN] No contact found.")
}

// TestDelete expects the phone to be passed on and the outcome to be reported.
func TestDelete(t *testing.T) {
	book := &fakeBook{found: true}
	out := runMenu(t, book, "5", "0815", "6")
	assert.Equal(t, []string{"0815"}, book.deleted)
	assert.Contains(t, out, "[INFO] Contact deleted.")

	out = runMenu(t, &fakeBook{}, "5", "0815", "6")
	assert.Contains(t, out, "[WARN] No contact found.")
}

// TestSaveFailureIsReported expects a warning if the book could not persist a change.
func TestSaveFailureIsReported(t *testing.T) {
	book := &fakeBook{saveError: fmt.Errorf("%w: disk full", contactbook.ErrNotPersisted)}
	out := runMenu(t, book, "1", "Hans", "0815", "", "", "6")
	assert.Contains(t, out, "[INFO] Contact added successfully!")
	assert.Contains(t, out, "[WARN] Changes were not saved.")
}

// TestInvalidOption expects a message and another round of the menu.
func TestInvalidOption(t *testing.T) {
	out := runMenu(t, &fakeBook{}, "9", "6")
	assert.Contains(t, out, "Invalid option!")
	assert.Equal(t, 2, strings.Count(out, "========== CONTACT BOOK =========="))
}

// TestEndOfInput expects that the menu ends without error when the input ends, even in the middle
// of adding a contact.
func TestEndOfInput(t *testing.T) {
	book := &fakeBook{}
	var out bytes.Buffer
	assert.NoError(t, Run(book, strings.NewReader(""), &out))
	assert.NoError(t, Run(book, strings.NewReader("1\nHans\n"), &out))
	assert.Empty(t, book.contacts)
	assert.NotContains(t, out.String(), "Goodbye!")
}

// TestLongInputLine enters a name that is longer than the default line limit of a scanner. It
// expects that the contact is added with the complete name.
func TestLongInputLine(t *testing.T) {
	book := &fakeBook{}
	name := strings.Repeat("x", 70000)
	out := runMenu(t, book, "1", name, "0815", "", "", "6")

	require.Len(t, book.contacts, 1)
	assert.Equal(t, name, book.contacts[0].Name)
	assert.Contains(t, out, "Goodbye!")
}

// TestLastLineWithoutLineBreak expects that the final choice is read even without a line break,
// and that Windows line endings are stripped.
func TestLastLineWithoutLineBreak(t *testing.T) {
	book := &fakeBook{}
	var out bytes.Buffer
	err := Run(book, strings.NewReader("1\r\nHans\r\n0815\r\n\r\n\r\n6"), &out)
	require.NoError(t, err)
	assert.Equal(t, []model.Contact{{Name: "Hans", Phone: "0815"}}, book.contacts)
	assert.Contains(t, out.String(), "Goodbye!")
}
