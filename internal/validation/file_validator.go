package validation

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// FileValidator checks uploaded file names before their content is parsed.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateWorkbookName accepts only .xlsx names that are not Excel lock files.
// Legacy .xls workbooks are rejected because the parser reads OOXML only.
func (v *FileValidator) ValidateWorkbookName(name string) error {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return fmt.Errorf("file name is empty")
	}

	ext := strings.ToLower(filepath.Ext(base))
	if ext != ".xlsx" {
		v.logger.Warn("Rejected non-xlsx upload",
			slog.String("file", base),
			slog.String("extension", ext))
		return fmt.Errorf("only .xlsx workbooks are accepted (got %q)", ext)
	}

	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Rejected Excel lock file", slog.String("file", base))
		return fmt.Errorf("%s is an Excel lock file, not a workbook", base)
	}

	return nil
}
