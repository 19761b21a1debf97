package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ValidateWorkbook checks that a source workbook exists, is readable and
// looks like an .xlsx file before any parsing starts. Legacy .xls exports
// are rejected with a hint; excelize reads the Open XML format only.
func ValidateWorkbook(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("workbook %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat workbook %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a workbook", path)
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return fmt.Errorf("%s is a temporary Excel lock file; open the real workbook instead", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
	case ".xls":
		return fmt.Errorf("%s is a legacy .xls export; re-save it as .xlsx first", path)
	default:
		return fmt.Errorf("%s is not an Excel workbook (extension: %s)", path, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("workbook %s is not readable: %w", path, err)
	}
	f.Close()

	slog.Debug("Workbook validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// EnsureWritableDir creates the directory if needed and verifies a file can
// actually be written there, so a permission problem surfaces before the
// transform runs instead of after it.
func EnsureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	f.Close()
	os.Remove(probe)

	return nil
}
