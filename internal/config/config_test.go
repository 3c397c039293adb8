package config

import (
	"testing"
)

func validConfig() *Config {
	return &Config{
		BotToken:   "123456:test-token",
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "leaguebot",
		DBPassword: "secret",
		DBName:     "leaguebot_db",
		DBSSLMode:  "disable",
		JWTSecret:  "0123456789abcdef0123456789abcdef",
		AppEnv:     "development",
		LogLevel:   "info",
		MaxBestOf:  7,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing bot token",
			mutate:  func(c *Config) { c.BotToken = "" },
			wantErr: true,
		},
		{
			name:    "missing db password",
			mutate:  func(c *Config) { c.DBPassword = "" },
			wantErr: true,
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: true,
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.JWTSecret = "too-short" },
			wantErr: true,
		},
		{
			name:    "zero max best of",
			mutate:  func(c *Config) { c.MaxBestOf = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateProductionSecurity(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name: "development skips checks",
			mutate: func(c *Config) {
				c.AppEnv = "development"
				c.DBSSLMode = "disable"
			},
			wantErr: false,
		},
		{
			name: "production requires ssl",
			mutate: func(c *Config) {
				c.AppEnv = "production"
				c.DBSSLMode = "disable"
			},
			wantErr: true,
		},
		{
			name: "production with ssl",
			mutate: func(c *Config) {
				c.AppEnv = "production"
				c.DBSSLMode = "require"
			},
			wantErr: false,
		},
		{
			name: "production rejects default jwt secret",
			mutate: func(c *Config) {
				c.AppEnv = "production"
				c.DBSSLMode = "require"
				c.JWTSecret = "your_jwt_secret_minimum_32_chars_here_change_this"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateProductionSecurity()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProductionSecurity() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetDSN(t *testing.T) {
	cfg := validConfig()
	want := "host=localhost port=5432 user=leaguebot password=secret dbname=leaguebot_db sslmode=disable"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
