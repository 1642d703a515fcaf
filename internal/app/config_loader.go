package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yourusername/you-get-desk/internal/domain"
)

// EnvPrefix prefixes environment overrides, e.g. YOUGET_TOOL_REPORT_FORMAT
const EnvPrefix = "YOUGET"

// LoadConfig loads configuration from defaults, an optional .env file, a YAML file and the environment.
// An empty configPath searches ./configs, $HOME/.you-get-desk and /etc/you-get-desk for config.yaml.
func LoadConfig(configPath string) (*domain.Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	configValues(config, v.SetDefault)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.you-get-desk")
		v.AddConfigPath("/etc/you-get-desk")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadDotEnv loads path into the environment if it exists; set variables win
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// configValues feeds every configuration key to set
func configValues(config *domain.Config, set func(key string, value any)) {
	set("server.host", config.Server.Host)
	set("server.port", config.Server.Port)

	set("tool.name", config.Tool.Name)
	set("tool.binary", config.Tool.Binary)
	set("tool.report_format", string(config.Tool.ReportFormat))
	set("tool.locale", config.Tool.Locale)

	set("installer.package_manager", config.Installer.PackageManager)
	set("installer.runtime", config.Installer.Runtime)
	set("installer.package", config.Installer.Package)

	set("history.enabled", config.History.Enabled)
	set("history.database_path", config.History.DatabasePath)

	set("notification.enabled", config.Notification.Enabled)
	set("notification.method", config.Notification.Method)

	set("logging.level", config.Logging.Level)
	set("logging.format", config.Logging.Format)
	set("logging.output_path", config.Logging.OutputPath)
	set("logging.logs_dir", config.Logging.LogsDir)
	set("logging.max_size_mb", config.Logging.MaxSizeMB)
	set("logging.max_backups", config.Logging.MaxBackups)
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.Tool.Binary = expandPath(config.Tool.Binary)
	config.History.DatabasePath = expandPath(config.History.DatabasePath)
	config.Logging.LogsDir = expandPath(config.Logging.LogsDir)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	return os.Expand(path, func(key string) string {
		if key == "HOME" {
			if home, err := os.UserHomeDir(); err == nil {
				return home
			}
		}
		return os.Getenv(key)
	})
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Tool.Name == "" {
		return fmt.Errorf("tool name not configured")
	}

	if err := domain.ValidateReportFormat(config.Tool.ReportFormat); err != nil {
		return err
	}

	if config.Installer.PackageManager == "" || config.Installer.Package == "" {
		return fmt.Errorf("installer package manager and package must be configured")
	}

	if config.History.Enabled && config.History.DatabasePath == "" {
		return fmt.Errorf("history database path not configured")
	}

	if config.Logging.LogsDir == "" {
		return fmt.Errorf("logs directory not configured")
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *domain.Config, path string) error {
	v := viper.New()
	v.SetConfigType("yaml")
	configValues(config, v.Set)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
