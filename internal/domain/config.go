package domain

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Tool         ToolConfig         `mapstructure:"tool"`
	Installer    InstallerConfig    `mapstructure:"installer"`
	History      HistoryConfig      `mapstructure:"history"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains the bridge server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// ToolConfig describes the external extractor and how its reports are read
type ToolConfig struct {
	Name         string       `mapstructure:"name"`          // command name, e.g. you-get
	Binary       string       `mapstructure:"binary"`        // optional explicit path, probed first
	ReportFormat ReportFormat `mapstructure:"report_format"` // text or json
	Locale       string       `mapstructure:"locale"`        // en, zh
}

// InstallerConfig contains the package manager used for on-demand installation
type InstallerConfig struct {
	PackageManager string `mapstructure:"package_manager"`
	Runtime        string `mapstructure:"runtime"`
	Package        string `mapstructure:"package"`
}

// HistoryConfig contains download history persistence settings
type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DatabasePath string `mapstructure:"database_path"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
	LogsDir    string `mapstructure:"logs_dir"`    // category log files
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8765,
		},
		Tool: ToolConfig{
			Name:         "you-get",
			ReportFormat: ReportFormatText,
			Locale:       "en",
		},
		Installer: InstallerConfig{
			PackageManager: "pip",
			Runtime:        "python",
			Package:        "you-get",
		},
		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: "$HOME/.you-get-desk/history.db",
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
			LogsDir:    "$HOME/.you-get-desk/logs",
			MaxSizeMB:  20,
			MaxBackups: 5,
		},
	}
}
