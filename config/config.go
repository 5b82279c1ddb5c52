package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSecret is only meant for local development. StartServer warns when it is in use.
const DefaultSecret = "dev-secret-change-me"

const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"

	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config is the effective configuration of the service.
// Precedence: process environment, then the optional .env file, then envDefault tags.
type Config struct {
	Port       string `env:"PORT"        envDefault:"8080"`
	LogLevel   string `env:"LOG_LEVEL"   envDefault:"info"`
	BcryptCost int    `env:"BCRYPT_COST" envDefault:"12"`

	Database Database
	Session  Session
	Redis    Redis

	// EnvFile is the .env file that was applied, empty when none was found.
	EnvFile string `env:"-"`
}

type Database struct {
	Driver     string `env:"DB_DRIVER"      envDefault:"sqlite3"`
	SQLitePath string `env:"SQLITE_PATH"    envDefault:"./contacts.db"`
	Host       string `env:"MYSQL_HOST"     envDefault:"localhost"`
	Port       int    `env:"MYSQL_PORT"     envDefault:"3306"`
	User       string `env:"MYSQL_USER"     envDefault:"root"`
	Password   string `env:"MYSQL_PASSWORD"`
	Name       string `env:"MYSQL_DATABASE" envDefault:"contacts_db"`
}

type Session struct {
	Secret       string        `env:"SECRET_KEY"            envDefault:"dev-secret-change-me"`
	Lifetime     time.Duration `env:"SESSION_LIFETIME"      envDefault:"1h"`
	Store        string        `env:"SESSION_STORE"         envDefault:"memory"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"       envDefault:"0"`
}

// Load applies envFile (if it exists) to the process environment and parses the result.
func Load(envFile string) (Config, error) {
	loaded := ""
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", envFile, err)
			}
			loaded = envFile
		}
	}

	cfg, err := parse(env.Options{})
	if err != nil {
		return Config{}, err
	}
	cfg.EnvFile = loaded
	return cfg, nil
}

// FromEnvironment parses the given variables instead of the process environment.
func FromEnvironment(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the rules env tags cannot express.
func (c Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case DriverSQLite, DriverMySQL:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q: want %s or %s", c.Database.Driver, DriverSQLite, DriverMySQL))
	}
	switch c.Session.Store {
	case StoreMemory, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE %q: want %s or %s", c.Session.Store, StoreMemory, StoreRedis))
	}
	if c.Session.Lifetime <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_LIFETIME must be positive, got %s", c.Session.Lifetime))
	}
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("SECRET_KEY must not be empty"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d out of range [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// UsesDefaultSecret reports whether the session secret was never overridden.
func (c Config) UsesDefaultSecret() bool {
	return c.Session.Secret == DefaultSecret
}

// Fields describes the effective configuration for logging. Secrets are masked.
func (c Config) Fields() []zap.Field {
	fields := []zap.Field{
		zap.String("env_file", c.EnvFile),
		zap.String("port", c.Port),
		zap.String("log_level", c.LogLevel),
		zap.Int("bcrypt_cost", c.BcryptCost),
		zap.String("db_driver", c.Database.Driver),
		zap.Duration("session_lifetime", c.Session.Lifetime),
		zap.String("session_store", c.Session.Store),
		zap.Bool("session_cookie_secure", c.Session.CookieSecure),
		zap.Bool("session_default_secret", c.UsesDefaultSecret()),
	}
	if c.Database.Driver == DriverSQLite {
		fields = append(fields, zap.String("sqlite_path", c.Database.SQLitePath))
	} else {
		fields = append(fields,
			zap.String("mysql_host", c.Database.Host),
			zap.Int("mysql_port", c.Database.Port),
			zap.String("mysql_user", c.Database.User),
			zap.String("mysql_database", c.Database.Name),
			zap.Bool("mysql_password_set", c.Database.Password != ""),
		)
	}
	if c.Session.Store == StoreRedis {
		fields = append(fields,
			zap.String("redis_addr", c.Redis.Addr),
			zap.Int("redis_db", c.Redis.DB),
		)
	}
	return fields
}
