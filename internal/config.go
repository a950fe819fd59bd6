package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/callnote/internal/compose"
	"github.com/starford/callnote/internal/extract"
	"github.com/starford/callnote/internal/split"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Store  StoreConfig       `yaml:"store"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
	Notes  NotesConfig       `yaml:"notes"`
	Events EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, v := range []validation.Validatable{&c.App, &c.Store, &c.SQLite, &c.Auth, &c.Notes, &c.Events} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig holds the directory where note records are kept, one JSON
// file per record.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for a
//     single agent's machine.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NotesConfig holds the length limits of the ticketing system.
type NotesConfig struct {
	WarnThreshold int `yaml:"warn_threshold"`
	SplitBudget   int `yaml:"split_budget"`
	CopyLimit     int `yaml:"copy_limit"`
}

// Validate validates the note limits.
func (c *NotesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.WarnThreshold, validation.Required, validation.Min(1)),
		// A split part holds at least the "k/n" marker line and some text.
		validation.Field(&c.SplitBudget, validation.Required, validation.Min(16)),
		validation.Field(&c.CopyLimit, validation.Required, validation.Min(1)),
	)
}

// EventsConfig holds the SSE pacing intervals.
type EventsConfig struct {
	HistoryThrottle time.Duration `yaml:"history_throttle"`
	DraftInterval   time.Duration `yaml:"draft_interval"`
}

// Validate validates the event intervals.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.HistoryThrottle, validation.Min(time.Duration(0))),
		validation.Field(&c.DraftInterval, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Store: StoreConfig{
			Path: "./notes",
		},
		SQLite: SQLiteConfig{
			Path: "./callnote.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Notes: NotesConfig{
			WarnThreshold: compose.WarnThreshold,
			SplitBudget:   split.DefaultBudget,
			CopyLimit:     extract.DefaultCopyLimit,
		},
		Events: EventsConfig{
			HistoryThrottle: 2 * time.Second,
			DraftInterval:   250 * time.Millisecond,
		},
	}
}
