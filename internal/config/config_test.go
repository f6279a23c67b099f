package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:           "5000",
		DataBackend:    "memory",
		JWTSecret:      "secret",
		TokenTTL:       time.Hour,
		BcryptCost:     10,
		ResyncInterval: 15 * time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errContains string
	}{
		{
			name:   "valid memory backend",
			mutate: func(c *Config) {},
		},
		{
			name: "valid sqlite backend",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = t.TempDir() + "/fintrack.db"
			},
		},
		{
			name:        "non-numeric port",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errContains: "invalid port 'abc'",
		},
		{
			name:        "port out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errContains: "must be between 1 and 65535",
		},
		{
			name:        "unknown backend",
			mutate:      func(c *Config) { c.DataBackend = "mongo" },
			wantErr:     true,
			errContains: "invalid data backend 'mongo'",
		},
		{
			name:        "missing jwt secret",
			mutate:      func(c *Config) { c.JWTSecret = "" },
			wantErr:     true,
			errContains: "JWT_SECRET must be set",
		},
		{
			name:        "bcrypt cost too low",
			mutate:      func(c *Config) { c.BcryptCost = 2 },
			wantErr:     true,
			errContains: "invalid bcrypt cost 2",
		},
		{
			name:        "zero token ttl",
			mutate:      func(c *Config) { c.TokenTTL = 0 },
			wantErr:     true,
			errContains: "invalid token TTL",
		},
		{
			name: "sqlite backend without path",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errContains: "SQLite database path cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Fatalf("error %q does not contain %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "5000" {
		t.Fatalf("default port = %q", cfg.Port)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("default token TTL = %v", cfg.TokenTTL)
	}
	if cfg.DataBackend != "memory" {
		t.Fatalf("default backend = %q", cfg.DataBackend)
	}
	if len(cfg.CORSOrigins) == 0 {
		t.Fatalf("expected default CORS origins")
	}
	if cfg.RequireAuth {
		t.Fatalf("auth enforcement must default to off")
	}
}
