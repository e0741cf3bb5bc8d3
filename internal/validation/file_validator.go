package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"olareport/internal/dataprocessing"
	apperrors "olareport/internal/errors"
)

// FileValidator checks input and output paths before a report run
type FileValidator struct {
	logger   *slog.Logger
	maxBytes int64
}

// NewFileValidator creates a new file validator. maxBytes limits the size of
// a single input file; zero means unlimited.
func NewFileValidator(logger *slog.Logger, maxBytes int64) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// ValidateInputDirectory checks that dir exists and is a directory
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return apperrors.NewNotFoundError(fmt.Sprintf("input directory %s", dir))
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat directory %s", dir), err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is not a directory", dir))
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	probe, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.NewNotFoundError(fmt.Sprintf("file %s", path))
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat file %s", path), err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("file %s is not readable", path), err)
	}
	file.Close()

	if err := v.ValidateSize(path, info.Size()); err != nil {
		return err
	}

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateSpreadsheetFile checks that path is a readable workbook with a
// supported extension
func (v *FileValidator) ValidateSpreadsheetFile(path string) error {
	if err := v.ValidateSpreadsheetName(path); err != nil {
		return err
	}
	return v.ValidateFile(path)
}

// ValidateSpreadsheetName checks the extension of an input file name. Lock
// files Excel leaves next to open workbooks (~$name.xlsx) are rejected.
func (v *FileValidator) ValidateSpreadsheetName(name string) error {
	base := filepath.Base(name)
	if IsTempFile(base) {
		v.logger.Warn("Skipping temporary Excel file",
			slog.String("file", name))
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is a temporary Excel file", base))
	}

	ext := strings.ToLower(filepath.Ext(base))
	if ext == ".xlsb" {
		v.logger.Warn("Binary workbook must be re-saved",
			slog.String("file", name))
		return apperrors.NewBinaryWorkbookError(base)
	}
	if !IsSupportedExtension(ext) {
		v.logger.Warn("File is not a supported spreadsheet",
			slog.String("file", name),
			slog.String("extension", ext))
		return apperrors.NewUnsupportedFormatError(base, ext)
	}
	return nil
}

// ValidateSize rejects inputs larger than the configured limit
func (v *FileValidator) ValidateSize(name string, size int64) error {
	if v.maxBytes > 0 && size > v.maxBytes {
		return apperrors.NewAppValidationError(
			fmt.Sprintf("%s is %d bytes, larger than the %d byte limit", filepath.Base(name), size, v.maxBytes)).
			WithContext("file", filepath.Base(name))
	}
	return nil
}

// IsSupportedExtension reports whether ext (with leading dot, any case)
// names a readable workbook
func IsSupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, s := range dataprocessing.SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// IsTempFile reports whether name is an Excel lock file
func IsTempFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), "~$")
}
