package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"gitlab.com/dirk.krummacker/contact-book/internal/config"
	"gitlab.com/dirk.krummacker/contact-book/internal/contactbook"
)

// CLI holds the command line flags of the migration tool.
type CLI struct {
	Config string `help:"Path to a YAML config file." type:"path"`
	DSN    string `help:"MySQL data source name. Defaults to the configured dsn." name:"dsn"`
	File   string `help:"The sql file to execute." default:"database.sql" type:"path"`
	Import string `help:"Contacts file (.json, .yaml or .yml) to copy into the database after the schema has been created." type:"path"`
}

// Usage example on the command line:
// > CONTACTBOOK_DSN="dirk:bullo92@tcp(localhost)/contacts" go run main.go --file=../../scripts/database.sql
// > go run main.go --dsn="dirk:bullo92@tcp(localhost)/contacts" --file=../../scripts/database.sql --import=contacts.json
func main() {
	var cli CLI
	kong.Parse(&cli, kong.Name("migration"), kong.Description("Creates the contacts table."))

	cfg, err := config.Load(cli.Config)
	if err != nil {
		log.Fatal(err)
	}
	if cli.DSN != "" {
		cfg.DSN = cli.DSN
	}
	if cfg.DSN == "" {
		log.Fatal("no dsn configured")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	db, err := contactbook.OpenSQLStorage(cfg.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	readFile, err := os.Open(cli.File) // nosemgrep
	if err != nil {
		log.Fatal(err)
	}
	defer readFile.Close()

	statements, err := splitStatements(readFile)
	if err != nil {
		log.Fatal(err)
	}
	for _, sql := range statements {
		if err := db.Exec(sql); err != nil {
			log.Fatal(err)
		}
	}

	if cli.Import != "" {
		n, err := importContacts(contactbook.NewFileStorage(cli.Import), db)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Imported %d contacts from %s.\n", n, cli.Import)
	}
}

// splitStatements reads the sql file line by line and returns the statements in it. A statement
// ends with the line that contains a ';'.
func splitStatements(r io.Reader) ([]string, error) {
	var statements []string
	fileScanner := bufio.NewScanner(r)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	for fileScanner.Scan() {
		line := fileScanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			statements = append(statements, builder.String())
			builder = strings.Builder{}
		}
	}
	return statements, fileScanner.Err()
}

// importContacts copies all contacts from one storage into another, replacing its content.
func importContacts(from contactbook.Storage, to contactbook.Storage) (int, error) {
	contacts, err := from.Load()
	if err != nil {
		return 0, fmt.Errorf("loading %s: %w", from, err)
	}
	if err := to.Save(contacts); err != nil {
		return 0, fmt.Errorf("saving to %s: %w", to, err)
	}
	return len(contacts), nil
}
