package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/vartable/pkg/constants"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Vartable configuration
	SourcesRoot string
	OutputPath  string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. VARTABLE_* environment variables
//  3. .env files
//  4. Config file (~/.vartable.yaml or ./.vartable.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), "")
}

func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v.SetEnvPrefix("VARTABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("sources_root", constants.DefaultSourcesPath)
	v.SetDefault("output_path", constants.DefaultOutputPath)

	if configFile == "" {
		configFile = os.Getenv("VARTABLE_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".vartable")
	}

	// Read config file (ignore error if not found)
	_ = v.ReadInConfig()

	return &Config{
		Verbose:     v.GetBool("verbose"),
		Quiet:       v.GetBool("quiet"),
		NoColor:     v.GetBool("no_color"),
		Format:      v.GetString("format"),
		ConfigFile:  v.ConfigFileUsed(),
		SourcesRoot: v.GetString("sources_root"),
		OutputPath:  v.GetString("output_path"),
		LogLevel:    v.GetString("log_level"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}, nil
}

// Reload re-reads the config file named by path, keeping flag values.
func (c *Config) Reload(path string) error {
	loaded, err := loadConfig(viper.New(), path)
	if err != nil {
		return err
	}
	c.ConfigFile = loaded.ConfigFile
	c.SourcesRoot = loaded.SourcesRoot
	c.OutputPath = loaded.OutputPath
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// Flag values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose || c.Verbose
	c.Quiet = quiet || c.Quiet
	c.NoColor = noColor || c.NoColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
