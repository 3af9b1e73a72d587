package config

import (
	"os"
	"path/filepath"
	"testing"

	"shareit/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SHAREIT_TEST_DB", "shareit-test.db")

	configPath := writeConfig(t, `
app:
  environment: "test"
database:
  path: "${SHAREIT_TEST_DB}"
api:
  enabled: true
  auth:
    api_keys:
      - key: "k1"
        name: "client-1"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Database.Path != "shareit-test.db" {
		t.Errorf("expected expanded database path, got %q", cfg.Database.Path)
	}
	if cfg.App.Name != "shareit" {
		t.Errorf("expected default app name, got %q", cfg.App.Name)
	}
	if cfg.App.Environment != "test" {
		t.Errorf("expected environment test, got %q", cfg.App.Environment)
	}
	if !cfg.API.HTTP.Enabled {
		t.Errorf("expected http enabled when api is enabled")
	}
	if len(cfg.API.Auth.APIKeys) != 1 || cfg.API.Auth.APIKeys[0].Name != "client-1" {
		t.Errorf("expected one api key for client-1, got %+v", cfg.API.Auth.APIKeys)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("BadYAML", func(t *testing.T) {
		path := writeConfig(t, "database: [unterminated")
		if _, err := Load(path); err == nil {
			t.Error("expected error for malformed yaml")
		}
	})

	t.Run("MissingDatabasePath", func(t *testing.T) {
		path := writeConfig(t, "app:\n  name: shareit\n")
		if _, err := Load(path); err == nil {
			t.Error("expected validation error")
		}
	})
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{Monitoring: MonitoringConfig{PrometheusEnabled: true}}
	cfg.applyDefaults()

	if cfg.API.HTTP.Port != 8080 || cfg.API.GRPC.Port != 8081 {
		t.Errorf("unexpected default ports http=%d grpc=%d", cfg.API.HTTP.Port, cfg.API.GRPC.Port)
	}
	if cfg.Monitoring.PrometheusPort != 9090 {
		t.Errorf("expected prometheus port 9090, got %d", cfg.Monitoring.PrometheusPort)
	}
	if cfg.API.Auth.HeaderAPIKey != "x-api-key" || cfg.API.Auth.HeaderExtra != "x-api-extra" {
		t.Errorf("unexpected auth headers %q %q", cfg.API.Auth.HeaderAPIKey, cfg.API.Auth.HeaderExtra)
	}
	if cfg.API.UserRateLimit.Requests != models.DefaultUserRateLimit {
		t.Errorf("expected %d requests, got %d", models.DefaultUserRateLimit, cfg.API.UserRateLimit.Requests)
	}
	if cfg.API.UserRateLimit.Window != models.DefaultUserRateWindow {
		t.Errorf("expected %d window, got %d", models.DefaultUserRateWindow, cfg.API.UserRateLimit.Window)
	}
	if cfg.Database.BusyTimeout != 5000 {
		t.Errorf("expected busy timeout 5000, got %d", cfg.Database.BusyTimeout)
	}
	if cfg.Backup.Schedule != "24h" {
		t.Errorf("expected backup schedule 24h, got %q", cfg.Backup.Schedule)
	}

	cfg = Config{API: APIConfig{HTTP: APIHTTPConfig{Port: 9000}}}
	cfg.applyDefaults()
	if cfg.API.HTTP.Port != 9000 {
		t.Errorf("explicit port overwritten: %d", cfg.API.HTTP.Port)
	}
	if cfg.Monitoring.PrometheusPort != 0 {
		t.Errorf("prometheus port set while disabled")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "Valid",
			cfg:  Config{Database: DatabaseConfig{Path: "shareit.db"}},
		},
		{
			name:    "NoDatabasePath",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "BackupWithoutStorage",
			cfg: Config{
				Database: DatabaseConfig{Path: "shareit.db"},
				Backup:   BackupConfig{Enabled: true},
			},
			wantErr: true,
		},
		{
			name: "TLSWithoutCert",
			cfg: Config{
				Database: DatabaseConfig{Path: "shareit.db"},
				API:      APIConfig{GRPC: APIGRPCConfig{TLS: APITLSConfig{Enabled: true, KeyFile: "key.pem"}}},
			},
			wantErr: true,
		},
		{
			name: "DuplicateKeys",
			cfg: Config{
				Database: DatabaseConfig{Path: "shareit.db"},
				API: APIConfig{Auth: APIAuthConfig{APIKeys: []APIClientKey{
					{Key: "same", Name: "a"},
					{Key: "same", Name: "b"},
				}}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAPIKeys(t *testing.T) {
	if err := ValidateAPIKeys(nil); err != nil {
		t.Errorf("expected no error for empty list, got %v", err)
	}
	if err := ValidateAPIKeys([]APIClientKey{{Key: "a", Name: "one"}, {Key: "b", Name: "two"}}); err != nil {
		t.Errorf("expected distinct keys to pass, got %v", err)
	}
	if err := ValidateAPIKeys([]APIClientKey{{Key: "", Name: "blank"}}); err == nil {
		t.Error("expected error for empty key")
	}
}
