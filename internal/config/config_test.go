package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "key.json")
	if err := os.WriteFile(keyFile, []byte(`{"type":"service_account"}`), 0600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}

	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid sheets backend config",
			config: Config{
				Port:               "8080",
				DataBackend:        "sheets",
				SpreadsheetURL:     "https://docs.google.com/spreadsheets/d/abc123/edit",
				ServiceAccountFile: keyFile,
				Scopes:             DefaultScopes,
				CacheTTL:           120 * time.Second,
				Timezone:           "Europe/Sofia",
			},
			wantErr: false,
		},
		{
			name: "valid memory backend config",
			config: Config{
				Port:        "8080",
				DataBackend: "memory",
				CacheTTL:    30 * time.Second,
				Timezone:    "UTC",
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			config: Config{
				Port:        "abc",
				DataBackend: "memory",
				CacheTTL:    30 * time.Second,
				Timezone:    "UTC",
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid port - out of range",
			config: Config{
				Port:        "70000",
				DataBackend: "memory",
				CacheTTL:    30 * time.Second,
				Timezone:    "UTC",
			},
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name: "invalid data backend",
			config: Config{
				Port:        "8080",
				DataBackend: "postgres",
				CacheTTL:    30 * time.Second,
				Timezone:    "UTC",
			},
			wantErr:     true,
			errorString: "invalid data backend 'postgres'",
		},
		{
			name: "sheets backend missing spreadsheet URL",
			config: Config{
				Port:               "8080",
				DataBackend:        "sheets",
				ServiceAccountFile: keyFile,
				Scopes:             DefaultScopes,
				CacheTTL:           120 * time.Second,
				Timezone:           "UTC",
			},
			wantErr:     true,
			errorString: "SPREADSHEET_URL is required",
		},
		{
			name: "sheets backend missing credentials",
			config: Config{
				Port:           "8080",
				DataBackend:    "sheets",
				SpreadsheetURL: "https://docs.google.com/spreadsheets/d/abc123/edit",
				Scopes:         DefaultScopes,
				CacheTTL:       120 * time.Second,
				Timezone:       "UTC",
			},
			wantErr:     true,
			errorString: "either SERVICE_ACCOUNT_JSON or SERVICE_ACCOUNT_FILE must be provided",
		},
		{
			name: "sheets backend missing key file on disk",
			config: Config{
				Port:               "8080",
				DataBackend:        "sheets",
				SpreadsheetURL:     "https://docs.google.com/spreadsheets/d/abc123/edit",
				ServiceAccountFile: "/nonexistent/key.json",
				Scopes:             DefaultScopes,
				CacheTTL:           120 * time.Second,
				Timezone:           "UTC",
			},
			wantErr:     true,
			errorString: "service account key file does not exist",
		},
		{
			name: "cache TTL too small",
			config: Config{
				Port:        "8080",
				DataBackend: "memory",
				CacheTTL:    500 * time.Millisecond,
				Timezone:    "UTC",
			},
			wantErr:     true,
			errorString: "must be at least 1 second",
		},
		{
			name: "invalid timezone",
			config: Config{
				Port:        "8080",
				DataBackend: "memory",
				CacheTTL:    30 * time.Second,
				Timezone:    "Mars/Olympus",
			},
			wantErr:     true,
			errorString: "invalid timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() expected error, got nil")
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Validate() error = %q, want substring %q", err.Error(), tt.errorString)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_SpreadsheetID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "full edit URL",
			url:  "https://docs.google.com/spreadsheets/d/1AbCdEf_123/edit#gid=0",
			want: "1AbCdEf_123",
		},
		{
			name: "URL without trailing path",
			url:  "https://docs.google.com/spreadsheets/d/1AbCdEf_123",
			want: "1AbCdEf_123",
		},
		{
			name: "bare id",
			url:  "1AbCdEf_123",
			want: "1AbCdEf_123",
		},
		{
			name: "empty",
			url:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{SpreadsheetURL: tt.url}
			if got := c.SpreadsheetID(); got != tt.want {
				t.Errorf("SpreadsheetID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "SPREADSHEET_URL", "SERVICE_ACCOUNT_JSON", "SERVICE_ACCOUNT_FILE", "SHEETS_SCOPES", "CACHE_TTL", "DISPLAY_TIMEZONE", "DATA_BACKEND"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.CacheTTL != 120*time.Second {
		t.Errorf("CacheTTL = %v, want 120s", cfg.CacheTTL)
	}
	if cfg.Timezone != "Europe/Sofia" {
		t.Errorf("Timezone = %q, want Europe/Sofia", cfg.Timezone)
	}
	if cfg.DataBackend != "sheets" {
		t.Errorf("DataBackend = %q, want sheets", cfg.DataBackend)
	}
	if len(cfg.Scopes) != 2 {
		t.Errorf("Scopes = %v, want the two read-only defaults", cfg.Scopes)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CACHE_TTL", "45s")
	t.Setenv("DISPLAY_TIMEZONE", "UTC")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("SHEETS_SCOPES", "scope-a, scope-b")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.CacheTTL != 45*time.Second {
		t.Errorf("CacheTTL = %v, want 45s", cfg.CacheTTL)
	}
	if cfg.DataBackend != "memory" {
		t.Errorf("DataBackend = %q, want memory", cfg.DataBackend)
	}
	if len(cfg.Scopes) != 2 || cfg.Scopes[0] != "scope-a" || cfg.Scopes[1] != "scope-b" {
		t.Errorf("Scopes = %v, want [scope-a scope-b]", cfg.Scopes)
	}
}
