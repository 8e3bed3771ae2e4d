// Package config provides Viper-based configuration loading for the chat bot.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers accepted by StorageConfig.Driver.
const (
	DriverJSON     = "json"
	DriverBolt     = "bolt"
	DriverPostgres = "postgres"
)

// BotConfig holds file locations and behaviour switches for the dispatcher.
type BotConfig struct {
	// CommandsPath is the JSON command tree file.
	CommandsPath string `mapstructure:"commands_path"`
	// AuthDir holds user.txt, secret.txt and id.txt.
	AuthDir string `mapstructure:"auth_dir"`
	// ResponsesDir holds the YAML response catalogs.
	ResponsesDir string `mapstructure:"responses_dir"`
	// LootPath is the YAML loot table file.
	LootPath string `mapstructure:"loot_path"`
	// BettingPath is the JSON file backing the wager game.
	BettingPath string `mapstructure:"betting_path"`
}

// IRCConfig holds chat transport settings.
type IRCConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// SendInterval is the minimum delay between two outbound lines.
	SendInterval time.Duration `mapstructure:"send_interval"`
	// ReconnectDelay is slept between connection attempts.
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the "host:port" dial address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (c IRCConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig selects and configures the player store.
type StorageConfig struct {
	// Driver is one of "json", "bolt", "postgres".
	Driver   string `mapstructure:"driver"`
	JSONPath string `mapstructure:"json_path"`
	BoltPath string `mapstructure:"bolt_path"`
	// AutosaveInterval is the minimum time between two automatic player saves.
	AutosaveInterval time.Duration `mapstructure:"autosave_interval"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	IRC      IRCConfig      `mapstructure:"irc"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateBot(c.Bot); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateIRC(c.IRC); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Storage.Driver == DriverPostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBot(b BotConfig) error {
	var errs []string
	if b.CommandsPath == "" {
		errs = append(errs, "bot.commands_path must not be empty")
	}
	if b.AuthDir == "" {
		errs = append(errs, "bot.auth_dir must not be empty")
	}
	if b.ResponsesDir == "" {
		errs = append(errs, "bot.responses_dir must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateIRC(c IRCConfig) error {
	var errs []string
	if c.Host == "" {
		errs = append(errs, "irc.host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("irc.port must be 1-65535, got %d", c.Port))
	}
	if c.SendInterval < 0 {
		errs = append(errs, "irc.send_interval must not be negative")
	}
	if c.ReconnectDelay < 0 {
		errs = append(errs, "irc.reconnect_delay must not be negative")
	}
	if c.ReadTimeout < 0 {
		errs = append(errs, "irc.read_timeout must not be negative")
	}
	if c.WriteTimeout < 0 {
		errs = append(errs, "irc.write_timeout must not be negative")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	var errs []string
	switch s.Driver {
	case DriverJSON:
		if s.JSONPath == "" {
			errs = append(errs, "storage.json_path must not be empty for the json driver")
		}
	case DriverBolt:
		if s.BoltPath == "" {
			errs = append(errs, "storage.bolt_path must not be empty for the bolt driver")
		}
	case DriverPostgres:
	default:
		errs = append(errs, fmt.Sprintf("storage.driver must be one of [json, bolt, postgres], got %q", s.Driver))
	}
	if s.AutosaveInterval <= 0 {
		errs = append(errs, "storage.autosave_interval must be positive")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with FOLDERBOT_ environment overrides and
// all defaults applied, but no config file attached.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("FOLDERBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.commands_path", "commands.json")
	v.SetDefault("bot.auth_dir", "auth")
	v.SetDefault("bot.responses_dir", "content")
	v.SetDefault("bot.loot_path", "content/loot.yaml")
	v.SetDefault("bot.betting_path", "players.json")

	v.SetDefault("irc.host", "irc.chat.twitch.tv")
	v.SetDefault("irc.port", 6667)
	v.SetDefault("irc.send_interval", "200ms")
	v.SetDefault("irc.reconnect_delay", "5s")
	v.SetDefault("irc.read_timeout", "10m")
	v.SetDefault("irc.write_timeout", "30s")

	v.SetDefault("storage.driver", DriverJSON)
	v.SetDefault("storage.json_path", "v2_players.json")
	v.SetDefault("storage.bolt_path", "players.db")
	v.SetDefault("storage.autosave_interval", "5m")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "folderbot")
	v.SetDefault("database.password", "folderbot")
	v.SetDefault("database.name", "folderbot")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
