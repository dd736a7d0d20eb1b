package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads dotenv files into the process environment, expanding a leading ~ to $HOME.
//
// Missing files are skipped. Variables already present in the environment are never overwritten.
func LoadEnv(files ...string) error {
	for _, file := range files {
		if strings.HasPrefix(file, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to resolve home directory: %w", err)
			}
			file = strings.Replace(file, "~", home, 1)
		}

		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}
	return nil
}

// ResolveConfig builds the effective configuration: embedded defaults, then the TOML file at path when it exists,
// then dotenv files, then the process environment.
func ResolveConfig(path string, envFiles ...string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	if err := LoadEnv(envFiles...); err != nil {
		return nil, err
	}

	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	return config, nil
}
