package database

import (
	"context"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"contact-manager/config"
	"contact-manager/database/migrations"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

var databaseName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// InitializeDatabase opens the configured database and brings the schema up to date.
// A failure here is fatal for the service.
func InitializeDatabase(ctx context.Context, cfg config.Database, log *zap.Logger) (*sqlx.DB, error) {
	if cfg.Driver == config.DriverMySQL {
		if err := ensureMySQLDatabase(ctx, cfg); err != nil {
			return nil, err
		}
	}

	db, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, db, cfg.Driver); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("Database initialized successfully", zap.String("driver", cfg.Driver))
	return db, nil
}

// Open connects to the database without touching the schema.
func Open(ctx context.Context, cfg config.Database) (*sqlx.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	if cfg.Driver == config.DriverSQLite {
		// One writer at a time, and ":memory:" must stay on a single connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return db, nil
}

// DSN builds the driver-specific data source name.
func DSN(cfg config.Database) (string, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		path := cfg.SQLitePath
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + "_foreign_keys=on", nil
	case config.DriverMySQL:
		return mysqlConfig(cfg, true).FormatDSN(), nil
	default:
		return "", fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

func mysqlConfig(cfg config.Database, withDB bool) *mysql.Config {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.ParseTime = true
	// UPDATE must report matched rows, not changed rows, for the not-found check.
	mc.ClientFoundRows = true
	if withDB {
		mc.DBName = cfg.Name
	}
	return mc
}

// ensureMySQLDatabase creates the configured database when the server does not have it yet.
func ensureMySQLDatabase(ctx context.Context, cfg config.Database) error {
	if !databaseName.MatchString(cfg.Name) {
		return fmt.Errorf("invalid database name %q", cfg.Name)
	}

	db, err := sqlx.Open(config.DriverMySQL, mysqlConfig(cfg, false).FormatDSN())
	if err != nil {
		return fmt.Errorf("open mysql server: %w", err)
	}
	defer db.Close()

	stmt := "CREATE DATABASE IF NOT EXISTS `" + cfg.Name + "` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create database %s: %w", cfg.Name, err)
	}
	return nil
}

// Migrate applies every pending migration for driver.
func Migrate(ctx context.Context, db *sqlx.DB, driver string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("goose dialect %s: %w", driver, err)
	}
	if err := goose.UpContext(ctx, db.DB, driver); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// CreateMigration writes an empty SQL migration named name into dir.
func CreateMigration(name, dir string) error {
	if !databaseName.MatchString(name) {
		return fmt.Errorf("migration name %q: use letters, digits and underscores", name)
	}
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("create migration: %w", err)
	}
	return nil
}
