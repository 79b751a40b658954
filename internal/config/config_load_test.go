package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

var envKeys = []string{"MODE", "HOST", "PORT", "DIR", "TEMPLATE", "OUTPUT", "RULES",
	"LOGLEVEL", "MAXFILESIZE", "MAXFILES", "WORKERS", "FONT", "FONTSIZE", "FORMAT"}

// Helper function to clear environment variables
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		name := envPrefix + "_" + key
		if old, ok := os.LookupEnv(name); ok {
			os.Unsetenv(name)
			t.Cleanup(func() { os.Setenv(name, old) })
		}
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	clearEnvVars(t)
	dir := t.TempDir()

	cfg, rest, err := Load("mcp-docx-filler", []string{"--dir", dir})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("Load() Mode = %v, want %v", cfg.Mode, "stdio")
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Load() Host = %v, want %v", cfg.Host, "127.0.0.1")
	}
	if cfg.Port != 8080 {
		t.Errorf("Load() Port = %v, want %v", cfg.Port, 8080)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Load() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.MaxFileSize != 50*1024*1024 {
		t.Errorf("Load() MaxFileSize = %v, want %v", cfg.MaxFileSize, 50*1024*1024)
	}
	if cfg.MaxFiles != 5 || cfg.Workers != 1 {
		t.Errorf("Load() MaxFiles/Workers = %d/%d, want 5/1", cfg.MaxFiles, cfg.Workers)
	}
	if cfg.FontName != "Times New Roman" || cfg.FontSize != 13 {
		t.Errorf("Load() font = %s %g, want Times New Roman 13", cfg.FontName, cfg.FontSize)
	}
	if want := filepath.Join(dir, "temp", "mau.docx"); cfg.TemplatePath != want {
		t.Errorf("Load() TemplatePath = %v, want %v", cfg.TemplatePath, want)
	}
	if len(rest) != 0 {
		t.Errorf("Load() positional args = %v, want none", rest)
	}
}

func TestLoad_ValidFlags(t *testing.T) {
	clearEnvVars(t)
	dir := t.TempDir()

	cfg, rest, err := Load("certfill", []string{
		"--mode", "server",
		"--host", "0.0.0.0",
		"--port", "9090",
		"--dir", dir,
		"--template", "forms/mau.docx",
		"--output", "archives",
		"--loglevel", "DEBUG",
		"--maxfilesize", "2048",
		"--maxfiles", "3",
		"--workers", "4",
		"--font", "Arial",
		"--fontsize", "12.5",
		"--format", "json",
		"a.docx", "b.pdf",
	})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Mode != "server" || cfg.Host != "0.0.0.0" || cfg.Port != 9090 {
		t.Errorf("Load() server settings = %s %s %d", cfg.Mode, cfg.Host, cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.MaxFileSize != 2048 || cfg.MaxFiles != 3 || cfg.Workers != 4 {
		t.Errorf("Load() limits = %d %d %d", cfg.MaxFileSize, cfg.MaxFiles, cfg.Workers)
	}
	if cfg.FontName != "Arial" || cfg.FontSize != 12.5 {
		t.Errorf("Load() font = %s %g", cfg.FontName, cfg.FontSize)
	}
	if cfg.Format != FormatJSON {
		t.Errorf("Load() Format = %v, want json", cfg.Format)
	}
	if want := filepath.Join(dir, "forms", "mau.docx"); cfg.TemplatePath != want {
		t.Errorf("Load() TemplatePath = %v, want %v", cfg.TemplatePath, want)
	}
	if want := filepath.Join(dir, "archives"); cfg.OutputDirectory != want {
		t.Errorf("Load() OutputDirectory = %v, want %v", cfg.OutputDirectory, want)
	}
	if len(rest) != 2 || rest[0] != "a.docx" || rest[1] != "b.pdf" {
		t.Errorf("Load() positional args = %v", rest)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	clearEnvVars(t)
	dir := t.TempDir()

	t.Setenv("MCP_DOCX_DIR", dir)
	t.Setenv("MCP_DOCX_LOGLEVEL", "warn")
	t.Setenv("MCP_DOCX_MAXFILES", "2")
	t.Setenv("MCP_DOCX_FONT", "Arial")

	cfg, _, err := Load("mcp-docx-filler", nil)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.WorkDirectory != dir {
		t.Errorf("Load() WorkDirectory = %v, want %v", cfg.WorkDirectory, dir)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Load() LogLevel = %v, want warn", cfg.LogLevel)
	}
	if cfg.MaxFiles != 2 {
		t.Errorf("Load() MaxFiles = %v, want 2", cfg.MaxFiles)
	}
	if cfg.FontName != "Arial" {
		t.Errorf("Load() FontName = %v, want Arial", cfg.FontName)
	}
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	clearEnvVars(t)
	dir := t.TempDir()

	t.Setenv("MCP_DOCX_WORKERS", "2")

	cfg, _, err := Load("mcp-docx-filler", []string{"--dir", dir, "--workers", "6"})
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Workers != 6 {
		t.Errorf("Load() Workers = %v, want 6", cfg.Workers)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "invalid mode", args: []string{"--mode", "invalid"}},
		{name: "invalid port in server mode", args: []string{"--mode", "server", "--port", "70000"}},
		{name: "invalid log level", args: []string{"--loglevel", "trace"}},
		{name: "zero max files", args: []string{"--maxfiles", "0"}},
		{name: "font size out of range", args: []string{"--fontsize", "200"}},
		{name: "invalid format", args: []string{"--format", "yaml"}},
		{name: "unknown flag", args: []string{"--nope"}},
		{name: "non-numeric port", args: []string{"--port", "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			args := append([]string{"--dir", t.TempDir()}, tt.args...)
			if _, _, err := Load("mcp-docx-filler", args); err == nil {
				t.Errorf("Load(%v) expected error", tt.args)
			}
		})
	}
}

func TestLoad_VersionFlag(t *testing.T) {
	for _, arg := range []string{"-v", "-version", "--version"} {
		t.Run(arg, func(t *testing.T) {
			_, _, err := Load("mcp-docx-filler", []string{arg})
			if !errors.Is(err, ErrVersionRequested) {
				t.Errorf("Load(%s) error = %v, want ErrVersionRequested", arg, err)
			}
		})
	}
}

func TestLoadFromFlags(t *testing.T) {
	clearEnvVars(t)
	dir := t.TempDir()

	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()
	os.Args = []string{"mcp-docx-filler", "--dir", dir, "--port", "7070"}

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("LoadFromFlags() Port = %v, want 7070", cfg.Port)
	}
	if cfg.WorkDirectory != dir {
		t.Errorf("LoadFromFlags() WorkDirectory = %v, want %v", cfg.WorkDirectory, dir)
	}
}

func TestFromFlagSet(t *testing.T) {
	clearEnvVars(t)
	dir := t.TempDir()

	fs := pflag.NewFlagSet("external", pflag.ContinueOnError)
	DefineFlags(fs)
	fs.Bool("dry-run", false, "flag owned by the caller")
	if err := fs.Parse([]string{"--dir", dir, "--maxfiles", "9", "--dry-run", "x.docx"}); err != nil {
		t.Fatalf("Parse() unexpected error: %v", err)
	}

	cfg, err := FromFlagSet(fs)
	if err != nil {
		t.Fatalf("FromFlagSet() unexpected error: %v", err)
	}
	if cfg.MaxFiles != 9 {
		t.Errorf("FromFlagSet() MaxFiles = %v, want 9", cfg.MaxFiles)
	}
	if cfg.WorkDirectory != dir {
		t.Errorf("FromFlagSet() WorkDirectory = %v, want %v", cfg.WorkDirectory, dir)
	}
	if fs.Arg(0) != "x.docx" {
		t.Errorf("positional args = %v", fs.Args())
	}
}
