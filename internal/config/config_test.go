package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig(dir string) *Config {
	cfg := DefaultConfig()
	cfg.WorkDirectory = dir
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeStdio {
		t.Errorf("Expected default mode %s, got %s", ModeStdio, cfg.Mode)
	}
	if cfg.Host != DefaultHost {
		t.Errorf("Expected default host %s, got %s", DefaultHost, cfg.Host)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Expected default port %d, got %d", DefaultPort, cfg.Port)
	}
	if cfg.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("Expected default max file size %d, got %d", DefaultMaxFileSize, cfg.MaxFileSize)
	}
	if cfg.MaxFiles != DefaultMaxFiles {
		t.Errorf("Expected default max files %d, got %d", DefaultMaxFiles, cfg.MaxFiles)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Expected default workers %d, got %d", DefaultWorkers, cfg.Workers)
	}
	if cfg.FontName != DefaultFontName || cfg.FontSize != DefaultFontSize {
		t.Errorf("Expected default font %s %g, got %s %g", DefaultFontName, DefaultFontSize, cfg.FontName, cfg.FontSize)
	}
	if cfg.ServerName != "mcp-docx-filler" {
		t.Errorf("Expected server name mcp-docx-filler, got %s", cfg.ServerName)
	}
	if cfg.WorkDirectory == "" {
		t.Error("Expected working directory to be set")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid config - stdio mode", modify: func(c *Config) {}},
		{name: "valid config - server mode", modify: func(c *Config) { c.Mode = ModeServer }},
		{name: "invalid mode", modify: func(c *Config) { c.Mode = "invalid" }, wantErr: true},
		{name: "invalid port - too low (server mode)", modify: func(c *Config) {
			c.Mode = ModeServer
			c.Port = 0
		}, wantErr: true},
		{name: "invalid port - too high (server mode)", modify: func(c *Config) {
			c.Mode = ModeServer
			c.Port = 70000
		}, wantErr: true},
		{name: "invalid port ignored in stdio mode", modify: func(c *Config) { c.Port = 0 }},
		{name: "empty working directory", modify: func(c *Config) { c.WorkDirectory = "" }, wantErr: true},
		{name: "invalid log level", modify: func(c *Config) { c.LogLevel = "invalid" }, wantErr: true},
		{name: "invalid max file size", modify: func(c *Config) { c.MaxFileSize = 0 }, wantErr: true},
		{name: "invalid max files", modify: func(c *Config) { c.MaxFiles = 0 }, wantErr: true},
		{name: "invalid workers", modify: func(c *Config) { c.Workers = -1 }, wantErr: true},
		{name: "empty font", modify: func(c *Config) { c.FontName = "  " }, wantErr: true},
		{name: "font size too small", modify: func(c *Config) { c.FontSize = 0.5 }, wantErr: true},
		{name: "font size too large", modify: func(c *Config) { c.FontSize = 120 }, wantErr: true},
		{name: "font size upper bound", modify: func(c *Config) { c.FontSize = 96 }},
		{name: "invalid format", modify: func(c *Config) { c.Format = "xml" }, wantErr: true},
		{name: "json format", modify: func(c *Config) { c.Format = FormatJSON }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t.TempDir())
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateCreatesWorkDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "work")

	cfg := validConfig(dir)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() failed: %v", err)
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Expected working directory to be created: %s", dir)
	}
}

func TestConfigValidateLogLevels(t *testing.T) {
	validLevels := []string{"debug", "info", "warn", "error"}
	invalidLevels := []string{"DEBUG", "trace", "fatal", ""}

	dir := t.TempDir()

	for _, level := range validLevels {
		t.Run("valid_"+level, func(t *testing.T) {
			cfg := validConfig(dir)
			cfg.LogLevel = level
			if err := cfg.Validate(); err != nil {
				t.Errorf("Config.Validate() should accept log level '%s', got error: %v", level, err)
			}
		})
	}

	for _, level := range invalidLevels {
		t.Run("invalid_"+level, func(t *testing.T) {
			cfg := validConfig(dir)
			cfg.LogLevel = level
			if err := cfg.Validate(); err == nil {
				t.Errorf("Config.Validate() should reject log level '%s'", level)
			}
		})
	}
}

func TestConfigResolvePaths(t *testing.T) {
	dir := t.TempDir()

	cfg := validConfig(dir)
	cfg.resolvePaths()
	if want := filepath.Join(dir, "temp", "mau.docx"); cfg.TemplatePath != want {
		t.Errorf("Expected template %s, got %s", want, cfg.TemplatePath)
	}
	if want := filepath.Join(dir, "output"); cfg.OutputDirectory != want {
		t.Errorf("Expected output %s, got %s", want, cfg.OutputDirectory)
	}

	cfg = validConfig(dir)
	cfg.TemplatePath = "forms/t.docx"
	cfg.OutputDirectory = "/srv/out"
	cfg.resolvePaths()
	if want := filepath.Join(dir, "forms", "t.docx"); cfg.TemplatePath != want {
		t.Errorf("Expected template %s, got %s", want, cfg.TemplatePath)
	}
	if cfg.OutputDirectory != "/srv/out" {
		t.Errorf("Expected absolute output to be kept, got %s", cfg.OutputDirectory)
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{
		Host: "192.168.1.1",
		Port: 9090,
	}

	expected := "192.168.1.1:9090"
	if got := cfg.Address(); got != expected {
		t.Errorf("Config.Address() = %v, want %v", got, expected)
	}
}

func TestConfigIsDebug(t *testing.T) {
	tests := []struct {
		logLevel string
		want     bool
	}{
		{logLevel: "debug", want: true},
		{logLevel: "info", want: false},
		{logLevel: "warn", want: false},
		{logLevel: "error", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			if got := cfg.IsDebug(); got != tt.want {
				t.Errorf("Config.IsDebug() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Mode:            "server",
		Host:            "localhost",
		Port:            8080,
		WorkDirectory:   "/home/user/certs",
		TemplatePath:    "/home/user/certs/temp/mau.docx",
		OutputDirectory: "/home/user/certs/output",
		LogLevel:        "debug",
		MaxFileSize:     1024,
		MaxFiles:        5,
		Workers:         2,
	}

	result := cfg.String()

	expectedSubstrings := []string{
		"Mode: server",
		"Host: localhost",
		"Port: 8080",
		"WorkDirectory: /home/user/certs",
		"Template: /home/user/certs/temp/mau.docx",
		"LogLevel: debug",
		"MaxFileSize: 1024",
		"MaxFiles: 5",
		"Workers: 2",
	}

	for _, substr := range expectedSubstrings {
		if !strings.Contains(result, substr) {
			t.Errorf("Config.String() result doesn't contain expected substring: %s\nGot: %s", substr, result)
		}
	}
}

func TestConfigModes(t *testing.T) {
	server := &Config{Mode: ModeServer}
	if !server.IsServerMode() || server.IsStdioMode() {
		t.Error("Expected server mode")
	}

	stdio := &Config{Mode: ModeStdio}
	if !stdio.IsStdioMode() || stdio.IsServerMode() {
		t.Error("Expected stdio mode")
	}
}
