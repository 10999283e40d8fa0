package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
)

const (
	// DriverMySQL selects the MySQL store.
	DriverMySQL = "mysql"
	// DriverPostgres selects the PostgreSQL store.
	DriverPostgres = "postgres"

	// DefaultAdminPassword is the well-known bootstrap password. Deployments should override it.
	DefaultAdminPassword = "password"
)

// Config holds application level configuration loaded from environment variables
// and an optional config file.
type Config struct {
	ServerPort     string
	DBDriver       string
	MySQLDSN       string
	PostgresDSN    string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	JWTSecret      string
	SwaggerHost    string
	AdminUsername  string
	AdminPassword  string
	ConsoleTimeout time.Duration
	LogLevel       string
	ResetDB        bool
}

var defaults = map[string]any{
	"server_port":               "8080",
	"db_driver":                 DriverMySQL,
	"mysql_dsn":                 "user:password@tcp(localhost:3306)/crm?charset=utf8mb4&parseTime=True&loc=Local",
	"postgres_dsn":              "host=localhost user=crm password=crm dbname=crm port=5432 sslmode=disable",
	"redis_addr":                "localhost:6379",
	"redis_db":                  0,
	"redis_password":            "",
	"jwt_secret":                "change-me",
	"swagger_host":              "",
	"admin_username":            "admin",
	"admin_password":            DefaultAdminPassword,
	"console_statement_timeout": 30 * time.Second,
	"log_level":                 "info",
	"reset_db":                  false,
}

// NewViper returns a viper instance with defaults registered and environment
// lookup enabled. Keys map to upper-case environment variables (server_port -> SERVER_PORT).
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

// Load builds Config from the environment, reading CRM_CONFIG first when it points to a file.
func Load() *Config {
	v := NewViper()
	if path := os.Getenv("CRM_CONFIG"); path != "" {
		if err := ReadFile(v, path); err != nil {
			slog.Warn("config file ignored", slog.String("path", path), slog.String("error", err.Error()))
		}
	}
	return FromViper(v)
}

// ReadFile merges a yaml, json or toml config file into v.
func ReadFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// FromViper converts resolved viper settings into a Config.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		ServerPort:     v.GetString("server_port"),
		DBDriver:       v.GetString("db_driver"),
		MySQLDSN:       v.GetString("mysql_dsn"),
		PostgresDSN:    v.GetString("postgres_dsn"),
		RedisAddr:      v.GetString("redis_addr"),
		RedisDB:        v.GetInt("redis_db"),
		RedisPass:      v.GetString("redis_password"),
		JWTSecret:      v.GetString("jwt_secret"),
		SwaggerHost:    v.GetString("swagger_host"),
		AdminUsername:  v.GetString("admin_username"),
		AdminPassword:  v.GetString("admin_password"),
		ConsoleTimeout: v.GetDuration("console_statement_timeout"),
		LogLevel:       v.GetString("log_level"),
		ResetDB:        v.GetBool("reset_db"),
	}
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		return c.PostgresDSN
	}
	return c.MySQLDSN
}

// Validate reports settings the application cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", c.DBDriver, DriverMySQL, DriverPostgres)
	}
	if c.DSN() == "" {
		return fmt.Errorf("empty DSN for driver %s", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.AdminUsername == "" {
		return fmt.Errorf("ADMIN_USERNAME must not be empty")
	}
	if c.ConsoleTimeout < 0 {
		return fmt.Errorf("CONSOLE_STATEMENT_TIMEOUT must not be negative")
	}
	return nil
}

// UsesDefaultAdminPassword reports whether bootstrap would seed the well-known password.
func (c *Config) UsesDefaultAdminPassword() bool {
	return c.AdminPassword == DefaultAdminPassword
}
