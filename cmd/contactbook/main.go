package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"gitlab.com/dirk.krummacker/contact-book/internal/config"
	"gitlab.com/dirk.krummacker/contact-book/internal/contactbook"
	"gitlab.com/dirk.krummacker/contact-book/internal/menu"
)

// CLI holds the optional command line flags. Flags take precedence over the config file and the
// environment.
type CLI struct {
	Config   string `help:"Path to a YAML config file." type:"path"`
	File     string `help:"Contacts file (.json, .yaml or .yml)." short:"f"`
	DSN      string `help:"MySQL data source name; stores the contacts in a database instead of a file." name:"dsn"`
	LogLevel string `help:"Log level (debug, info, warn, error)." name:"log-level"`
}

// Usage example on the command line:
// > go run main.go
// > CONTACTBOOK_FILE=contacts.yaml go run main.go
// > go run main.go --dsn="dirk:bullo92@unix(/var/run/mysqld/mysqld.sock)/contacts"
func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("contactbook"),
		kong.Description("A personal contact book in the terminal."),
	)
	if err := run(cli, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads the configuration, opens the contact book and shows the menu until the user exits.
func run(cli CLI, in io.Reader, out io.Writer, errOut io.Writer) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: cfg.Level()}))

	storage, closeStorage, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	book := contactbook.New(storage, logger)
	logger.Debug("contact book opened", "storage", book.Location(), "contacts", len(book.List()))
	return menu.Run(book, in, out)
}

// loadConfig reads the configuration and applies the command line flags on top of it.
func loadConfig(cli CLI) (config.Config, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return cfg, err
	}
	if cli.File != "" {
		cfg.File = cli.File
	}
	if cli.DSN != "" {
		cfg.DSN = cli.DSN
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	return cfg, cfg.Validate()
}

// openStorage returns the database storage if a DSN is configured and the file storage otherwise.
// The returned function releases the storage.
func openStorage(cfg config.Config) (contactbook.Storage, func(), error) {
	if cfg.DSN == "" {
		return contactbook.NewFileStorage(cfg.File), func() {}, nil
	}
	storage, err := contactbook.OpenSQLStorage(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	return storage, func() { storage.Close() }, nil
}
