package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultScopes are the read-only scopes the dashboard needs: spreadsheet
// values plus document metadata for the last-modified timestamp.
var DefaultScopes = []string{
	"https://www.googleapis.com/auth/spreadsheets.readonly",
	"https://www.googleapis.com/auth/drive.metadata.readonly",
}

type Config struct {
	// HTTP Server
	Port string

	// Google Sheets
	SpreadsheetURL     string
	ServiceAccountJSON string
	ServiceAccountFile string
	Scopes             []string

	// Cache
	CacheTTL time.Duration

	// Display
	Timezone string

	// Backend selection
	DataBackend string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		SpreadsheetURL:     getEnv("SPREADSHEET_URL", ""),
		ServiceAccountJSON: getEnv("SERVICE_ACCOUNT_JSON", ""),
		ServiceAccountFile: getEnv("SERVICE_ACCOUNT_FILE", ""),
		Scopes:             getEnvList("SHEETS_SCOPES", DefaultScopes),

		CacheTTL: getEnvDuration("CACHE_TTL", 120*time.Second),

		Timezone: getEnv("DISPLAY_TIMEZONE", "Europe/Sofia"),

		DataBackend: getEnv("DATA_BACKEND", "sheets"),
	}

	return cfg
}

// SpreadsheetID extracts the document id from the configured URL, the
// part between "/d/" and the following slash. A bare id is accepted too.
func (c *Config) SpreadsheetID() string {
	_, after, found := strings.Cut(c.SpreadsheetURL, "/d/")
	if !found {
		return strings.TrimSpace(c.SpreadsheetURL)
	}
	id, _, _ := strings.Cut(after, "/")
	return id
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sheets"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate Google Sheets configuration if backend is sheets
	if c.DataBackend == "sheets" {
		if c.SpreadsheetURL == "" {
			errors = append(errors, "SPREADSHEET_URL is required when using sheets backend")
		} else if c.SpreadsheetID() == "" {
			errors = append(errors, fmt.Sprintf("cannot extract a document id from SPREADSHEET_URL '%s'", c.SpreadsheetURL))
		}

		// Must have either inline JSON or a key file
		hasJSON := c.ServiceAccountJSON != ""
		hasFile := c.ServiceAccountFile != ""
		if !hasJSON && !hasFile {
			errors = append(errors, "either SERVICE_ACCOUNT_JSON or SERVICE_ACCOUNT_FILE must be provided for sheets backend")
		}

		// Check if key file exists (if specified)
		if hasFile {
			if _, err := os.Stat(c.ServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("service account key file does not exist: %s", c.ServiceAccountFile))
			}
		}

		if len(c.Scopes) == 0 {
			errors = append(errors, "at least one API scope is required for sheets backend")
		}
	}

	// Validate cache TTL
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	} else if c.CacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at most 24 hours", c.CacheTTL))
	}

	// Validate timezone
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Location resolves the display timezone, falling back to UTC when the
// name fails to load.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
