// Package config provides centralized configuration for the importer.
// It loads settings from environment variables with sensible defaults
// and validates everything on startup to fail fast on misconfiguration.
package config

import (
	"fmt"
	"strings"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Input   InputConfig
	Output  OutputConfig
	SQL     SQLConfig
	Spec    SpecConfig
	Logging LoggingConfig
}

// InputConfig holds delimited-source settings.
type InputConfig struct {
	// Dir is the directory source files are read from (default: .)
	Dir string `env:"INPUT_DIR" default:"."`

	// Departments is the departments source file name (default: departments.txt)
	Departments string `env:"INPUT_DEPARTMENTS" default:"departments.txt"`

	// Employees is the employees source file name (default: employees.txt)
	Employees string `env:"INPUT_EMPLOYEES" default:"employees.txt"`

	// Delimiter is the field delimiter, exactly one character (default: ,)
	Delimiter string `env:"INPUT_DELIMITER" default:","`

	// TrimLeadingSpace drops white space at the start of each field (default: true)
	TrimLeadingSpace bool `env:"INPUT_TRIM_LEADING_SPACE" default:"true"`

	// Encoding is the source charset: utf-8, latin-1 or windows-1252 (default: utf-8)
	Encoding string `env:"INPUT_ENCODING" default:"utf-8"`
}

// OutputConfig holds statement-file settings.
type OutputConfig struct {
	// Path is the file insert statements are written to (default: import.sql)
	Path string `env:"OUTPUT_PATH" default:"import.sql"`
}

// SQLConfig holds statement rendering settings.
type SQLConfig struct {
	// QuoteIdentifiers double-quotes table and column names in
	// emitted statements (default: false)
	QuoteIdentifiers bool `env:"SQL_QUOTE_IDENTIFIERS" default:"false"`
}

// SpecConfig selects the optional declarative mode.
type SpecConfig struct {
	// File is a YAML file describing the import passes. When set, it
	// replaces the built-in sample migration.
	File string `env:"SPEC_FILE"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Comma returns the configured delimiter as a rune. Validate has
// already ensured the delimiter is exactly one character.
func (c *InputConfig) Comma() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}

// String returns a string representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Input: {Dir: %q, Delimiter: %q, Encoding: %q}, ",
		c.Input.Dir, c.Input.Delimiter, c.Input.Encoding))
	b.WriteString(fmt.Sprintf("Output: {Path: %q}, ", c.Output.Path))
	b.WriteString(fmt.Sprintf("SQL: {QuoteIdentifiers: %v}, ", c.SQL.QuoteIdentifiers))
	b.WriteString(fmt.Sprintf("Spec: {File: %q}, ", c.Spec.File))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
