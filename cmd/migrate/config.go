package main

import (
	"errors"
	"flag"
	"os"
)

type options struct {
	command string
	name    string
	dir     string
}

var errNameRequired = errors.New("-name is required for the create command")

func parseOptions(args []string) (options, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	opts := options{dir: migrationsDir()}
	fs.StringVar(&opts.command, "command", "up", "migration command: up, down, status, create")
	fs.StringVar(&opts.name, "name", "", "name for the create command")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.command == "create" && opts.name == "" {
		return options{}, errNameRequired
	}
	return opts, nil
}

func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}
