package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/you-get-desk/internal/domain"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfigFile(t, `
server:
  port: 9000
tool:
  binary: ~/bin/you-get
  report_format: json
  locale: zh
history:
  database_path: $HOME/data/history.db
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.Equal(t, domain.ReportFormatJSON, config.Tool.ReportFormat)
	assert.Equal(t, "zh", config.Tool.Locale)
	assert.Equal(t, filepath.Join(home, "bin", "you-get"), config.Tool.Binary)
	assert.Equal(t, filepath.Join(home, "data", "history.db"), config.History.DatabasePath)
	assert.Equal(t, filepath.Join(home, ".you-get-desk", "logs"), config.Logging.LogsDir)
	assert.Equal(t, "pip", config.Installer.PackageManager)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("YOUGET_TOOL_REPORT_FORMAT", "json")
	t.Setenv("YOUGET_SERVER_PORT", "9100")
	t.Setenv("YOUGET_NOTIFICATION_ENABLED", "true")

	config, err := LoadConfig(writeConfigFile(t, "tool:\n  locale: en\n"))
	require.NoError(t, err)

	assert.Equal(t, domain.ReportFormatJSON, config.Tool.ReportFormat)
	assert.Equal(t, 9100, config.Server.Port)
	assert.True(t, config.Notification.Enabled)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad port", "server:\n  port: 70000\n"},
		{"bad report format", "tool:\n  report_format: xml\n"},
		{"empty tool name", "tool:\n  name: \"\"\n"},
		{"history without path", "history:\n  enabled: true\n  database_path: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	config := domain.DefaultConfig()
	config.Server.Port = 9200
	config.Tool.ReportFormat = domain.ReportFormatJSON
	config.Notification.Enabled = true
	config.History.DatabasePath = "/tmp/history.db"
	config.Logging.LogsDir = "/tmp/logs"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, SaveConfig(config, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9200, loaded.Server.Port)
	assert.Equal(t, domain.ReportFormatJSON, loaded.Tool.ReportFormat)
	assert.True(t, loaded.Notification.Enabled)
	assert.Equal(t, "/tmp/history.db", loaded.History.DatabasePath)
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("YOUGET_TEST_DIR", "/data")

	assert.Equal(t, "", expandPath(""))
	assert.Equal(t, "/home/tester/x", expandPath("~/x"))
	assert.Equal(t, "/home/tester/x", expandPath("$HOME/x"))
	assert.Equal(t, "/data/y", expandPath("${YOUGET_TEST_DIR}/y"))
	assert.Equal(t, "/abs/z", expandPath("/abs/z"))
}
