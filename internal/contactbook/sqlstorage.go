package contactbook

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
)

// errNoSuchTable is the MySQL error number for "Table doesn't exist".
const errNoSuchTable = 1146

// contactRow is a contact together with its place in the book. The position column keeps the
// insertion order of the contacts, which the table itself does not preserve.
type contactRow struct {
	Position int `db:"position"`
	model.Contact
}

// SQLStorage keeps the contacts in the 'contacts' table of a MySQL database. See
// scripts/database.sql for the table definition.
type SQLStorage struct {
	db   *sqlx.DB
	name string
}

// OpenSQLStorage opens a database connection with the specified data source name and returns a
// storage on top of it.
//
// Usage example for a local server:
//
//	> OpenSQLStorage("dirk:bullo92@unix(/var/run/mysqld/mysqld.sock)/contacts")
func OpenSQLStorage(dsn string) (*SQLStorage, error) {
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return NewSQLStorage(sqlDB, "mysql database"), nil
}

// NewSQLStorage initializes the sqlx database wrapper with the specified sql database. The
// database argument can be a real database for production use or a mock database within unit
// tests. The name is only used in diagnostics.
func NewSQLStorage(sqlDB *sql.DB, name string) *SQLStorage {
	return &SQLStorage{db: sqlx.NewDb(sqlDB, "mysql"), name: name}
}

// Load selects all contacts in the order in which they were saved. A missing contacts table counts
// as nothing stored yet. Saving still requires the table, see cmd/migration.
func (s *SQLStorage) Load() ([]model.Contact, error) {
	var contacts []model.Contact
	err := s.db.Select(&contacts, `
		SELECT name, phone, email, address
		FROM contacts
		ORDER BY position
	`)
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == errNoSuchTable {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("selecting contacts: %w", err)
	}
	return contacts, nil
}

// Save replaces the content of the table with the specified contacts. All statements run within
// a single transaction, so a failed save leaves the previous content in place.
func (s *SQLStorage) Save(contacts []model.Contact) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM contacts"); err != nil {
		return fmt.Errorf("deleting contacts: %w", err)
	}
	for i, c := range contacts {
		_, err := tx.NamedExec(`
			INSERT INTO contacts (position, name, phone, email, address)
			VALUES (:position, :name, :phone, :email, :address)
		`, contactRow{Position: i, Contact: c})
		if err != nil {
			return fmt.Errorf("inserting contact %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Exec runs a single SQL statement, for example to set up the schema.
func (s *SQLStorage) Exec(statement string) error {
	_, err := s.db.Exec(statement)
	return err
}

// Close closes the database connection.
func (s *SQLStorage) Close() error {
	return s.db.Close()
}

// String returns the name of the database.
func (s *SQLStorage) String() string {
	return s.name
}
