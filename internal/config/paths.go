package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the resolved application paths. Everything is resolved
// relative to the executable directory, never the current working directory,
// so the binaries behave the same no matter where they are invoked from.
type Paths struct {
	ExecutableDir string
	ImportDir     string
	ExportDir     string
	LogsDir       string

	// Well-known files in the export directory.
	TransactionsDB  string
	TrialBalancesDB string
	CombinedDB      string
}

// GetPaths returns the application paths relative to the executable location.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	exeDir := filepath.Dir(exe)
	exportDir := filepath.Join(exeDir, "export")

	return &Paths{
		ExecutableDir: exeDir,
		ImportDir:     filepath.Join(exeDir, "import"),
		ExportDir:     exportDir,
		LogsDir:       filepath.Join(exeDir, "logs"),

		TransactionsDB:  filepath.Join(exportDir, "transactions.db"),
		TrialBalancesDB: filepath.Join(exportDir, "trial_balances.db"),
		CombinedDB:      filepath.Join(exportDir, "combined.db"),
	}, nil
}

// EnsureDirectories creates all required directories if they do not exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.ImportDir, p.ExportDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetLogPath returns the full path for a log file name.
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetImportPath returns the full path for a file in the import directory.
func (p *Paths) GetImportPath(filename string) string {
	return filepath.Join(p.ImportDir, filename)
}

// GetExportPath returns the full path for a file in the export directory.
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportDir, filename)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
