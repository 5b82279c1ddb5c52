package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"contact-manager/config"
	"contact-manager/database"
	"contact-manager/server"
)

func main() {
	commandFlag := flag.String("command", "start", "Command to run: start, migrate, create-migration, config")
	envFlag := flag.String("env", ".env", "Optional .env file applied before reading the environment")
	nameFlag := flag.String("name", "", "Migration name (alphanum+underscore only)")
	dirFlag := flag.String("dir", "", "Target directory for the new .sql file (default: ./database/migrations/<driver>)")
	flag.Parse()

	if *commandFlag == "" {
		fmt.Println("Usage: contact-manager --command <command-name> [... other options]")
		os.Exit(1)
	}

	cfg, err := config.Load(*envFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	switch *commandFlag {
	case "start":
		err = server.StartServer(cfg)
	case "migrate":
		err = server.Migrate(cfg)
	case "create-migration":
		dir := *dirFlag
		if dir == "" {
			dir = filepath.Join("database", "migrations", cfg.Database.Driver)
		}
		err = database.CreateMigration(*nameFlag, dir)
	case "config":
		err = server.PrintConfig(cfg)
	default:
		err = fmt.Errorf("unknown command %q", *commandFlag)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
