package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all values",
			fileConfig: FileConfig{
				Domain:        "acme",
				Token:         "secret",
				BaseURL:       "http://localhost:9000",
				HTTPTimeout:   "45s",
				WatchDebounce: "2s",
				LogLevel:      "debug",
			},
			changed: map[string]bool{},
			expected: Config{
				Domain:        "acme",
				Token:         "secret",
				BaseURL:       "http://localhost:9000",
				HTTPTimeout:   45 * time.Second,
				WatchDebounce: 2 * time.Second,
				LogLevel:      "debug",
			},
		},
		{
			name:       "respects changed flags",
			fileConfig: FileConfig{Domain: "file-domain", Token: "file-token"},
			changed:    map[string]bool{"domain": true},
			initial:    Config{Domain: "flag-domain"},
			expected:   Config{Domain: "flag-domain", Token: "file-token"},
		},
		{
			name:       "empty values keep defaults",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial:    Config{HTTPTimeout: time.Minute, LogLevel: "info"},
			expected:   Config{HTTPTimeout: time.Minute, LogLevel: "info"},
		},
		{
			name:       "invalid duration",
			fileConfig: FileConfig{HTTPTimeout: "soon"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyFileConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cfg != tt.expected {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
domain = "acme"
token = "secret"
http_timeout = "10s"
log_level = "warn"
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}
	if fc.Domain != "acme" || fc.Token != "secret" || fc.HTTPTimeout != "10s" || fc.LogLevel != "warn" {
		t.Errorf("FileConfig = %+v", fc)
	}
}

func TestLoadFileConfig_Errors(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("domain = "), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFileConfig(bad); err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	p := DefaultConfigPath()
	if p == "" {
		t.Skip("no home directory")
	}
	if !strings.HasSuffix(p, filepath.Join(".egnyte", "config.toml")) {
		t.Errorf("DefaultConfigPath() = %q", p)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "f")
	if FileExists(p) {
		t.Error("FileExists true before create")
	}
	if err := os.WriteFile(p, nil, 0600); err != nil {
		t.Fatal(err)
	}
	if !FileExists(p) {
		t.Error("FileExists false after create")
	}
}
