package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds all configuration options for the shift tracker
type Config struct {
	Database    DatabaseConfig
	Shift       ShiftConfig
	Validation  ValidationConfig
	Scheduler   SchedulerConfig
	Server      ServerConfig
	Logging     LoggingConfig
	Application ApplicationConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `env:"SHIFT_DB_DIR"`
	Filename       string        `env:"SHIFT_DB_FILENAME"`
	BusyTimeout    time.Duration `env:"SHIFT_DB_BUSY_TIMEOUT"`
	DirPermissions uint32        `env:"SHIFT_DB_DIR_PERMISSIONS"`
}

// ShiftConfig holds the cap policy applied to new entries
type ShiftConfig struct {
	DefaultCapMinutes int           `env:"SHIFT_CAP_MINUTES"`
	WarningBand       time.Duration `env:"SHIFT_WARNING_BAND"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	UserNameMinLength int `env:"SHIFT_VALIDATION_USER_NAME_MIN"`
	UserNameMaxLength int `env:"SHIFT_VALIDATION_USER_NAME_MAX"`
	NoteMaxLength     int `env:"SHIFT_VALIDATION_NOTE_MAX"`
	MaxCapMinutes     int `env:"SHIFT_VALIDATION_MAX_CAP_MINUTES"`
}

// SchedulerConfig controls the periodic cap sweep
type SchedulerConfig struct {
	Enabled   bool   `env:"SHIFT_SWEEP_ENABLED"`
	SweepSpec string `env:"SHIFT_SWEEP_SPEC"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr           string        `env:"SHIFT_HTTP_ADDR"`
	ReadTimeout    time.Duration `env:"SHIFT_HTTP_READ_TIMEOUT"`
	WriteTimeout   time.Duration `env:"SHIFT_HTTP_WRITE_TIMEOUT"`
	AllowedOrigins []string      `env:"SHIFT_HTTP_ALLOWED_ORIGINS"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `env:"SHIFT_LOG_LEVEL"`
	Pretty bool   `env:"SHIFT_LOG_PRETTY"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"SHIFT_APP_TIMEOUT"`
	Verbose bool          `env:"SHIFT_APP_VERBOSE"`
	// UserID is the acting user for CLI shift commands; 0 means unset.
	UserID int64 `env:"SHIFT_USER"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Database: DatabaseConfig{
			Dir:            filepath.Join(homeDir, ".shift"),
			Filename:       "shift.db",
			BusyTimeout:    5 * time.Second,
			DirPermissions: 0755,
		},
		Shift: ShiftConfig{
			DefaultCapMinutes: 960,
			WarningBand:       30 * time.Minute,
		},
		Validation: ValidationConfig{
			UserNameMinLength: 1,
			UserNameMaxLength: 100,
			NoteMaxLength:     1000,
			MaxCapMinutes:     24 * 60,
		},
		Scheduler: SchedulerConfig{
			Enabled:   true,
			SweepSpec: "@every 5m",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	if c.Database.Filename == ":memory:" {
		return c.Database.Filename
	}
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// LoadFromEnvironment overlays SHIFT_* environment variables. Unparseable
// values keep the current setting.
func (c *Config) LoadFromEnvironment() error {
	c.Database.Dir = getEnv("SHIFT_DB_DIR", c.Database.Dir)
	c.Database.Filename = getEnv("SHIFT_DB_FILENAME", c.Database.Filename)
	c.Database.BusyTimeout = getEnvAsDuration("SHIFT_DB_BUSY_TIMEOUT", c.Database.BusyTimeout)
	if perms := os.Getenv("SHIFT_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}

	c.Shift.DefaultCapMinutes = getEnvAsInt("SHIFT_CAP_MINUTES", c.Shift.DefaultCapMinutes)
	c.Shift.WarningBand = getEnvAsDuration("SHIFT_WARNING_BAND", c.Shift.WarningBand)

	c.Validation.UserNameMinLength = getEnvAsInt("SHIFT_VALIDATION_USER_NAME_MIN", c.Validation.UserNameMinLength)
	c.Validation.UserNameMaxLength = getEnvAsInt("SHIFT_VALIDATION_USER_NAME_MAX", c.Validation.UserNameMaxLength)
	c.Validation.NoteMaxLength = getEnvAsInt("SHIFT_VALIDATION_NOTE_MAX", c.Validation.NoteMaxLength)
	c.Validation.MaxCapMinutes = getEnvAsInt("SHIFT_VALIDATION_MAX_CAP_MINUTES", c.Validation.MaxCapMinutes)

	c.Scheduler.Enabled = getEnvAsBool("SHIFT_SWEEP_ENABLED", c.Scheduler.Enabled)
	c.Scheduler.SweepSpec = getEnv("SHIFT_SWEEP_SPEC", c.Scheduler.SweepSpec)

	c.Server.Addr = getEnv("SHIFT_HTTP_ADDR", c.Server.Addr)
	c.Server.ReadTimeout = getEnvAsDuration("SHIFT_HTTP_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsDuration("SHIFT_HTTP_WRITE_TIMEOUT", c.Server.WriteTimeout)
	if origins := os.Getenv("SHIFT_HTTP_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	c.Logging.Level = getEnv("SHIFT_LOG_LEVEL", c.Logging.Level)
	c.Logging.Pretty = getEnvAsBool("SHIFT_LOG_PRETTY", c.Logging.Pretty)

	c.Application.Timeout = getEnvAsDuration("SHIFT_APP_TIMEOUT", c.Application.Timeout)
	c.Application.Verbose = getEnvAsBool("SHIFT_APP_VERBOSE", c.Application.Verbose)
	if user := os.Getenv("SHIFT_USER"); user != "" {
		if id, err := strconv.ParseInt(user, 10, 64); err == nil {
			c.Application.UserID = id
		}
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.BusyTimeout < 0 {
		return &ConfigError{Field: "database.busy_timeout", Message: "busy timeout cannot be negative"}
	}

	if c.Validation.MaxCapMinutes < 1 {
		return &ConfigError{Field: "validation.max_cap_minutes", Message: "maximum cap must be at least 1 minute"}
	}
	if c.Shift.DefaultCapMinutes < 1 || c.Shift.DefaultCapMinutes > c.Validation.MaxCapMinutes {
		return &ConfigError{Field: "shift.default_cap_minutes", Message: "default cap must be between 1 and the maximum cap"}
	}
	if c.Shift.WarningBand < 0 {
		return &ConfigError{Field: "shift.warning_band", Message: "warning band cannot be negative"}
	}

	if c.Validation.UserNameMinLength < 1 {
		return &ConfigError{Field: "validation.user_name_min_length", Message: "user name minimum length must be at least 1"}
	}
	if c.Validation.UserNameMaxLength < c.Validation.UserNameMinLength {
		return &ConfigError{Field: "validation.user_name_max_length", Message: "user name maximum length must be greater than minimum length"}
	}
	if c.Validation.NoteMaxLength < 1 {
		return &ConfigError{Field: "validation.note_max_length", Message: "note maximum length must be positive"}
	}

	if c.Scheduler.Enabled {
		if _, err := cron.ParseStandard(c.Scheduler.SweepSpec); err != nil {
			return &ConfigError{Field: "scheduler.sweep_spec", Message: "invalid schedule: " + err.Error()}
		}
	}

	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return &ConfigError{Field: "logging.level", Message: "unknown log level " + c.Logging.Level}
	}

	if c.Application.UserID < 0 {
		return &ConfigError{Field: "application.user_id", Message: "user id cannot be negative"}
	}
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		return ParseIntWithFallback(value, defaultValue)
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return ParseBoolWithFallback(value, defaultValue)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		return ParseDurationWithFallback(value, defaultValue)
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
