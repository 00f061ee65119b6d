package validation

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileValidator_ValidateWorkbookName(t *testing.T) {
	v := NewFileValidator(slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name    string
		file    string
		wantErr string
	}{
		{"xlsx", "points.xlsx", ""},
		{"upper case", "POINTS.XLSX", ""},
		{"path stripped", `uploads/2025/points.xlsx`, ""},
		{"legacy xls", "points.xls", ".xlsx"},
		{"csv", "points.csv", ".xlsx"},
		{"no extension", "points", ".xlsx"},
		{"lock file", "~$points.xlsx", "lock file"},
		{"empty", "  ", "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateWorkbookName(tt.file)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
