package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Output formats for the command-line tool
	FormatText = "text"
	FormatJSON = "json"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 50 * 1024 * 1024 // 50MB
	DefaultMaxFiles    = 5
	DefaultWorkers     = 1
	DefaultFontName    = "Times New Roman"
	DefaultFontSize    = 13.0
	DefaultTemplate    = "temp/mau.docx"
	DefaultOutputDir   = "output"

	// Directory permissions
	DefaultDirPerm = 0o750

	envPrefix = "MCP_DOCX"
)

// ErrVersionRequested is returned when --version is on the command line
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for the certificate filler
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Paths; tool requests must stay inside WorkDirectory
	WorkDirectory   string
	TemplatePath    string
	OutputDirectory string
	RulesFile       string

	// Processing limits
	MaxFileSize int64 // Maximum upload size in bytes
	MaxFiles    int   // Maximum files per batch
	Workers     int

	// Output formatting
	FontName string
	FontSize float64
	Format   string

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:          ModeStdio, // Default to stdio mode for MCP compatibility
		Host:          DefaultHost,
		Port:          DefaultPort,
		WorkDirectory: currentDir,
		MaxFileSize:   DefaultMaxFileSize,
		MaxFiles:      DefaultMaxFiles,
		Workers:       DefaultWorkers,
		FontName:      DefaultFontName,
		FontSize:      DefaultFontSize,
		Format:        FormatText,
		Version:       "1.0.0",
		ServerName:    "mcp-docx-filler",
		LogLevel:      DefaultLogLevel,
	}
}

// LoadFromFlags parses os.Args and returns a validated configuration
func LoadFromFlags() (*Config, error) {
	cfg, _, err := Load(os.Args[0], os.Args[1:])
	return cfg, err
}

// Load parses args for the named program and returns a validated
// configuration and the remaining positional arguments. Values come from
// defaults, then MCP_DOCX_* environment variables, then flags.
func Load(name string, args []string) (*Config, []string, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	DefineFlags(fs)
	setupUsageMessage(fs, name)

	// Check for version flag before parsing
	if checkVersionFlag(args) {
		return nil, nil, ErrVersionRequested
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := FromFlagSet(fs)
	if err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

// DefineFlags adds every configuration flag to fs
func DefineFlags(fs *pflag.FlagSet) {
	defineCommandLineFlags(fs, DefaultConfig())
}

// FromFlagSet builds a validated configuration from a parsed flag set
// holding the flags of DefineFlags, layered over the environment.
func FromFlagSet(fs *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	setupViperEnvironment(v, cfg)
	bindFlagsToViper(v, fs)

	populateConfigFromViper(v, cfg)
	cfg.resolvePaths()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.WorkDirectory)
	v.SetDefault("template", "")
	v.SetDefault("output", "")
	v.SetDefault("rules", "")
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
	v.SetDefault("maxfiles", cfg.MaxFiles)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("font", cfg.FontName)
	v.SetDefault("fontsize", cfg.FontSize)
	v.SetDefault("format", cfg.Format)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	fs.String("host", cfg.Host, "Server host address (server mode only)")
	fs.Int("port", cfg.Port, "Server port (server mode only)")
	fs.String("dir", cfg.WorkDirectory, "Working directory; tool paths must stay inside it")
	fs.String("template", "", "Certificate template .docx (default <dir>/"+DefaultTemplate+")")
	fs.String("output", "", "Directory for filled archives (default <dir>/"+DefaultOutputDir+")")
	fs.String("rules", "", "Optional YAML file overriding the extraction rules")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum upload size in bytes")
	fs.Int("maxfiles", cfg.MaxFiles, "Maximum files per batch")
	fs.Int("workers", cfg.Workers, "Files processed concurrently")
	fs.String("font", cfg.FontName, "Font family of filled cells")
	fs.Float64("fontsize", cfg.FontSize, "Font size of filled cells in points")
	fs.String("format", cfg.Format, "Result format of the command-line tool (text, json)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper(v *viper.Viper, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage(fs *pflag.FlagSet, name string) {
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", name)
		fmt.Fprintf(os.Stderr, "\nCertificate filler - extracts marital status certificates and fills the template\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		for _, key := range []string{"MODE", "HOST", "PORT", "DIR", "TEMPLATE", "OUTPUT", "RULES",
			"LOGLEVEL", "MAXFILESIZE", "MAXFILES", "WORKERS", "FONT", "FONTSIZE", "FORMAT"} {
			fmt.Fprintf(os.Stderr, "  %s_%s\n", envPrefix, key)
		}
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.WorkDirectory = v.GetString("dir")
	cfg.TemplatePath = v.GetString("template")
	cfg.OutputDirectory = v.GetString("output")
	cfg.RulesFile = v.GetString("rules")
	cfg.LogLevel = strings.ToLower(v.GetString("loglevel"))
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
	cfg.MaxFiles = v.GetInt("maxfiles")
	cfg.Workers = v.GetInt("workers")
	cfg.FontName = v.GetString("font")
	cfg.FontSize = v.GetFloat64("fontsize")
	cfg.Format = strings.ToLower(v.GetString("format"))
}

// resolvePaths makes the directory absolute and derives the default
// template and output locations from it.
func (c *Config) resolvePaths() {
	if c.WorkDirectory != "" {
		if abs, err := filepath.Abs(c.WorkDirectory); err == nil {
			c.WorkDirectory = abs
		}
	}
	if c.TemplatePath == "" {
		c.TemplatePath = filepath.Join(c.WorkDirectory, DefaultTemplate)
	} else if !filepath.IsAbs(c.TemplatePath) {
		c.TemplatePath = filepath.Join(c.WorkDirectory, c.TemplatePath)
	}
	if c.OutputDirectory == "" {
		c.OutputDirectory = filepath.Join(c.WorkDirectory, DefaultOutputDir)
	} else if !filepath.IsAbs(c.OutputDirectory) {
		c.OutputDirectory = filepath.Join(c.WorkDirectory, c.OutputDirectory)
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate working directory
	if c.WorkDirectory == "" {
		return errors.New("working directory cannot be empty")
	}

	// Check if working directory exists, create if it doesn't
	if _, err := os.Stat(c.WorkDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.WorkDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create working directory %s: %w", c.WorkDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access working directory %s: %w", c.WorkDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.MaxFiles <= 0 {
		return errors.New("maximum files per batch must be positive")
	}
	if c.Workers <= 0 {
		return errors.New("workers must be positive")
	}

	if strings.TrimSpace(c.FontName) == "" {
		return errors.New("font cannot be empty")
	}
	if c.FontSize < 1 || c.FontSize > 96 {
		return fmt.Errorf("font size must be between 1 and 96, got %g", c.FontSize)
	}

	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be one of: text, json)", c.Format)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, WorkDirectory: %s, Template: %s, "+
		"Output: %s, LogLevel: %s, MaxFileSize: %d, MaxFiles: %d, Workers: %d}",
		c.Mode, c.Host, c.Port, c.WorkDirectory, c.TemplatePath,
		c.OutputDirectory, c.LogLevel, c.MaxFileSize, c.MaxFiles, c.Workers)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
