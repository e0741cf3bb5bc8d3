package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"olareport/pkg/contracts/domain"
)

// usersFile is the on-disk shape of a user directory override
type usersFile struct {
	Users []domain.User `yaml:"users" validate:"required,min=1,dive"`
}

// LoadUserDirectory reads a YAML users file. An empty path yields the
// built-in directory.
//
//	users:
//	  - id: rjain6
//	    name: Rohit
func LoadUserDirectory(path string) (*domain.UserDirectory, error) {
	if path == "" {
		return domain.DefaultUserDirectory(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var file usersFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse users file %s: %w", path, err)
	}
	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("invalid users file %s: %w", path, err)
	}

	return domain.NewUserDirectory(file.Users...), nil
}

// UserDirectory resolves the directory configured for this process
func (c *Config) UserDirectory() (*domain.UserDirectory, error) {
	return LoadUserDirectory(c.Directory.UsersFile)
}
