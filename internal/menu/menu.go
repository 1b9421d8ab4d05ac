// Package menu implements the interactive text menu of the contact book.
package menu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"gitlab.com/dirk.krummacker/contact-book/internal/contactbook"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
)

// Book is the part of the contact book the menu works with.
type Book interface {
	Add(c model.Contact) error
	Delete(phone string) (bool, error)
	Update(phone string, u model.ContactUpdate) (bool, error)
	Search(query string) []model.Contact
	List() []model.Contact
}

// session holds the input and output of one menu run.
type session struct {
	book Book
	in   *bufio.Reader
	out  io.Writer
}

// Run shows the menu and executes the chosen actions until the user exits or the input ends.
//
// Usage example:
//
//	> menu.Run(contactbook.Open("contacts.json", logger), os.Stdin, os.Stdout)
func Run(book Book, in io.Reader, out io.Writer) error {
	s := &session{book: book, in: bufio.NewReader(in), out: out}
	for {
		s.printMenu()
		choice, err := s.prompt("Enter your choice: ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(choice) {
		case "1":
			err = s.addContact()
		case "2":
			s.printContacts(s.book.List(), "--- Contact List ---", "No contacts available.")
		case "3":
			err = s.searchContacts()
		case "4":
			err = s.updateContact()
		case "5":
			err = s.deleteContact()
		case "6":
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(s.out, "Invalid option!")
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *session) printMenu() {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "========== CONTACT BOOK ==========")
	fmt.Fprintln(s.out, "1. Add Contact")
	fmt.Fprintln(s.out, "2. View All Contacts")
	fmt.Fprintln(s.out, "3. Search Contact")
	fmt.Fprintln(s.out, "4. Update Contact")
	fmt.Fprintln(s.out, "5. Delete Contact")
	fmt.Fprintln(s.out, "6. Exit")
	fmt.Fprintln(s.out, "==================================")
}

// prompt prints the text and reads one line of any length. It returns io.EOF when the input has
// ended. A last line without a line break is still returned.
func (s *session) prompt(text string) (string, error) {
	fmt.Fprint(s.out, text)
	line, err := s.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptNonEmpty repeats the prompt until the user enters something other than blanks.
func (s *session) promptNonEmpty(text string) (string, error) {
	for {
		value, err := s.prompt(text)
		if err != nil {
			return "", err
		}
		value = strings.TrimSpace(value)
		if value != "" {
			return value, nil
		}
		fmt.Fprintln(s.out, "Input cannot be empty. Try again.")
	}
}

// promptOptional returns nil if the user leaves the input blank.
func (s *session) promptOptional(text string) (*string, error) {
	value, err := s.prompt(text)
	if err != nil || value == "" {
		return nil, err
	}
	return &value, nil
}

func (s *session) addContact() error {
	name, err := s.promptNonEmpty("Name: ")
	if err != nil {
		return err
	}
	phone, err := s.promptNonEmpty("Phone: ")
	if err != nil {
		return err
	}
	email, err := s.prompt("Email: ")
	if err != nil {
		return err
	}
	address, err := s.prompt("Address: ")
	if err != nil {
		return err
	}
	err = s.book.Add(model.Contact{Name: name, Phone: phone, Email: email, Address: address})
	fmt.Fprintln(s.out, "[INFO] Contact added successfully!")
	s.reportPersistence(err)
	return nil
}

func (s *session) searchContacts() error {
	query, err := s.prompt("Search by name/phone/email: ")
	if err != nil {
		return err
	}
	s.printContacts(s.book.Search(query), "--- Search Results ---", "No contact found.")
	return nil
}

func (s *session) updateContact() error {
	phone, err := s.prompt("Enter contact phone to update: ")
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Leave blank to keep current value")
	var u model.ContactUpdate
	for _, field := range []struct {
		text  string
		value **string
	}{
		{"New name: ", &u.Name},
		{"New phone: ", &u.Phone},
		{"New email: ", &u.Email},
		{"New address: ", &u.Address},
	} {
		if *field.value, err = s.promptOptional(field.text); err != nil {
			return err
		}
	}
	found, err := s.book.Update(phone, u)
	if found {
		fmt.Fprintln(s.out, "[INFO] Contact updated!")
	} else {
		fmt.Fprintln(s.out, "[WARN] No contact found.")
	}
	s.reportPersistence(err)
	return nil
}

func (s *session) deleteContact() error {
	phone, err := s.prompt("Enter phone to delete: ")
	if err != nil {
		return err
	}
	found, err := s.book.Delete(phone)
	if found {
		fmt.Fprintln(s.out, "[INFO] Contact deleted.")
	} else {
		fmt.Fprintln(s.out, "[WARN] No contact found.")
	}
	s.reportPersistence(err)
	return nil
}

// reportPersistence tells the user that a change exists only in memory. The cause has already
// been logged by the book.
func (s *session) reportPersistence(err error) {
	if errors.Is(err, contactbook.ErrNotPersisted) {
		fmt.Fprintln(s.out, "[WARN] Changes were not saved.")
	}
}

func (s *session) printContacts(contacts []model.Contact, title string, empty string) {
	if len(contacts) == 0 {
		fmt.Fprintln(s.out, empty)
		return
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, title)
	for i, c := range contacts {
		fmt.Fprintf(s.out, "%d. %s | %s | %s | %s\n", i+1, c.Name, c.Phone, c.Email, c.Address)
	}
}
