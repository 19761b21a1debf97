package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Server.OpenBrowser)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "import", cfg.Paths.ImportDir)
	assert.Equal(t, "export", cfg.Paths.ExportDir)

	require.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	t.Run("rejects out-of-range port", func(t *testing.T) {
		cfg := Default()
		cfg.Server.Port = 70000
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects non-positive timeouts", func(t *testing.T) {
		cfg := Default()
		cfg.Server.ReadTimeout = 0
		assert.Error(t, cfg.validate())

		cfg = Default()
		cfg.Server.WriteTimeout = -time.Second
		assert.Error(t, cfg.validate())
	})

	t.Run("forces json log format", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Format = "text"
		require.NoError(t, cfg.validate())
		assert.Equal(t, "json", cfg.Logging.Format)
	})

	t.Run("normalizes unknown log output", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Output = "syslog"
		require.NoError(t, cfg.validate())
		assert.Equal(t, "both", cfg.Logging.Output)
	})
}

func TestMergeConfigs(t *testing.T) {
	fileConfig := Config{}
	fileConfig.Server.Port = 9999
	fileConfig.Logging.Level = "debug"
	fileConfig.Paths.ImportDir = "inbox"

	t.Run("file values fill gaps", func(t *testing.T) {
		merged := mergeConfigs(fileConfig, Config{})
		assert.Equal(t, 9999, merged.Server.Port)
		assert.Equal(t, "debug", merged.Logging.Level)
		assert.Equal(t, "inbox", merged.Paths.ImportDir)
	})

	t.Run("environment wins", func(t *testing.T) {
		envConfig := Config{}
		envConfig.Server.Port = 8091
		envConfig.Logging.Level = "warn"

		merged := mergeConfigs(fileConfig, envConfig)
		assert.Equal(t, 8091, merged.Server.Port)
		assert.Equal(t, "warn", merged.Logging.Level)
		// Unset env fields still come from the file.
		assert.Equal(t, "inbox", merged.Paths.ImportDir)
	})
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
logging:
  level: debug
paths:
  import_dir: inbox
`), 0644))

	cfg, err := loadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "inbox", cfg.Paths.ImportDir)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := loadFromFile(path)
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	paths, err := GetPaths()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(paths.ExecutableDir, "import"), paths.ImportDir)
	assert.Equal(t, filepath.Join(paths.ExportDir, "transactions.db"), paths.TransactionsDB)
	assert.Equal(t, filepath.Join(paths.ExportDir, "trial_balances.db"), paths.TrialBalancesDB)
	assert.Equal(t, filepath.Join(paths.ExportDir, "combined.db"), paths.CombinedDB)

	assert.Equal(t, filepath.Join(paths.LogsDir, "x.log"), paths.GetLogPath("x.log"))
	assert.Equal(t, filepath.Join(paths.ImportDir, "a.xlsx"), paths.GetImportPath("a.xlsx"))
	assert.Equal(t, filepath.Join(paths.ExportDir, "b.db"), paths.GetExportPath("b.db"))
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	paths := &Paths{
		ImportDir: filepath.Join(dir, "import"),
		ExportDir: filepath.Join(dir, "export"),
		LogsDir:   filepath.Join(dir, "logs"),
	}

	require.NoError(t, paths.EnsureDirectories())
	for _, d := range []string{paths.ImportDir, paths.ExportDir, paths.LogsDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Idempotent.
	require.NoError(t, paths.EnsureDirectories())
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()

	assert.False(t, FileExists(filepath.Join(dir, "absent.db")))
	assert.False(t, FileExists(dir)) // directories do not count

	path := filepath.Join(dir, "present.db")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.True(t, FileExists(path))
}
