package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application name
	AppName = "ecsexec"
	// ConfigFileName is the config file inside the config directory
	ConfigFileName = "config.yaml"

	LauncherScript = "script"
	LauncherDirect = "direct"
)

// Config holds the application configuration
type Config struct {
	// AWS
	AWSPath       string   `mapstructure:"aws_path" yaml:"aws_path"`
	Regions       []string `mapstructure:"regions" yaml:"regions"`
	LiveRegions   bool     `mapstructure:"live_regions" yaml:"live_regions"`
	CacheTTL      int      `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	RemoteCommand string   `mapstructure:"remote_command" yaml:"remote_command"`

	// Launch
	Launcher   string `mapstructure:"launcher" yaml:"launcher"`
	ScriptDir  string `mapstructure:"script_dir" yaml:"script_dir"`
	KeepScript bool   `mapstructure:"keep_script" yaml:"keep_script"`

	// UI
	Spinner  bool   `mapstructure:"spinner" yaml:"spinner"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// History
	HistorySize int    `mapstructure:"history_size" yaml:"history_size"`
	HistoryFile string `mapstructure:"history_file" yaml:"history_file"`

	// Paths
	ConfigDir  string `mapstructure:"-" yaml:"-"`
	ConfigFile string `mapstructure:"-" yaml:"-"`
}

// NewConfig creates a new configuration with defaults
func NewConfig() (*Config, error) {
	configDir, err := Dir()
	if err != nil {
		return nil, err
	}

	return &Config{
		AWSPath:       "aws",
		Regions:       []string{"us-west-2", "us-east-1", "eu-central-1", "ap-southeast-2"},
		LiveRegions:   false,
		CacheTTL:      30,
		RemoteCommand: "/bin/bash",
		Launcher:      LauncherScript,
		ScriptDir:     ".",
		KeepScript:    false,
		Spinner:       true,
		LogLevel:      "info",
		HistorySize:   1000,
		HistoryFile:   filepath.Join(configDir, "history.json"),
		ConfigDir:     configDir,
		ConfigFile:    filepath.Join(configDir, ConfigFileName),
	}, nil
}

// Dir returns ~/.ecsexec, or $ECSEXEC_HOME when set
func Dir() (string, error) {
	if dir := os.Getenv("ECSEXEC_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, "."+AppName), nil
}

// Load reads the config file at path (or the default location when path is
// empty) over the defaults, then applies ECSEXEC_* environment overrides.
// A missing default file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	defaults, err := NewConfig()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, defaults)

	explicit := path != ""
	if !explicit {
		path = defaults.ConfigFile
	}

	if fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	cfg := *defaults
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ConfigFile = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("aws_path", d.AWSPath)
	v.SetDefault("regions", d.Regions)
	v.SetDefault("live_regions", d.LiveRegions)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("remote_command", d.RemoteCommand)
	v.SetDefault("launcher", d.Launcher)
	v.SetDefault("script_dir", d.ScriptDir)
	v.SetDefault("keep_script", d.KeepScript)
	v.SetDefault("spinner", d.Spinner)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("history_size", d.HistorySize)
	v.SetDefault("history_file", d.HistoryFile)
}

// Validate checks values viper cannot type-check
func (c *Config) Validate() error {
	var errs []error
	switch c.Launcher {
	case LauncherScript, LauncherDirect:
	default:
		errs = append(errs, fmt.Errorf("launcher must be %q or %q, got %q", LauncherScript, LauncherDirect, c.Launcher))
	}
	if !c.LiveRegions && len(c.Regions) == 0 {
		errs = append(errs, errors.New("regions must not be empty unless live_regions is enabled"))
	}
	if c.HistorySize < 0 {
		errs = append(errs, fmt.Errorf("history_size must not be negative, got %d", c.HistorySize))
	}
	if c.RemoteCommand == "" {
		errs = append(errs, errors.New("remote_command must not be empty"))
	}
	return errors.Join(errs...)
}

// Marshal renders the config as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteFile saves the config as YAML, creating the parent directory.
// An existing file is only replaced when force is set.
func (c *Config) WriteFile(path string, force bool) error {
	if fileExists(path) && !force {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	header := "# " + AppName + " configuration\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
