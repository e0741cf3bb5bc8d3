package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"olareport/internal/dataprocessing"
	apperrors "olareport/internal/errors"
	"olareport/internal/validation"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds and loads input workbooks
type Discovery struct {
	basePath  string
	validator *validation.FileValidator
}

// NewDiscovery creates a discovery rooted at basePath. Relative directories
// and file paths are resolved against it.
func NewDiscovery(basePath string, validator *validation.FileValidator) *Discovery {
	if validator == nil {
		validator = validation.NewFileValidator(nil, 0)
	}
	return &Discovery{basePath: basePath, validator: validator}
}

func (d *Discovery) resolve(path string) string {
	if filepath.IsAbs(path) || d.basePath == "" {
		return path
	}
	return filepath.Join(d.basePath, path)
}

// FindSpreadsheets lists the workbooks directly inside dir, sorted by name.
// Subdirectories, Excel lock files and other extensions are ignored.
func (d *Discovery) FindSpreadsheets(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)
	if err := d.validator.ValidateInputDirectory(fullPath); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read directory %s", fullPath), err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if validation.IsTempFile(name) || !validation.IsSupportedExtension(filepath.Ext(name)) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// LoadInputs validates and reads the given files in order. The input name is
// the base name of each path.
func (d *Discovery) LoadInputs(paths []string) ([]dataprocessing.Input, error) {
	inputs := make([]dataprocessing.Input, 0, len(paths))
	for _, p := range paths {
		full := d.resolve(p)
		if err := d.validator.ValidateSpreadsheetFile(full); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(full)
		if err != nil {
			return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read %s", full), err)
		}
		inputs = append(inputs, dataprocessing.Input{Name: filepath.Base(full), Data: data})
	}
	return inputs, nil
}

// Paths returns the paths of the given files
func Paths(files []FileInfo) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}
