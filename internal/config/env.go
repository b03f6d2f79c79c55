package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

func LoadEnvFile(path string) (map[string]string, error) {
	m, err := godotenv.Read(path)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func UpsertEnvVar(path, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("nom de variable vide")
	}
	m, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		m = map[string]string{}
	} else if err != nil {
		return fmt.Errorf("lecture du .env impossible : %w", err)
	}
	m[key] = strings.TrimSpace(value)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("création du répertoire du .env impossible : %w", err)
	}
	if err := godotenv.Write(m, path); err != nil {
		return fmt.Errorf("écriture du .env impossible : %w", err)
	}
	return nil
}

// ResolveEnv returns the process environment value for name, falling back to
// the .env file at envPath.
func ResolveEnv(name, envPath string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	if envPath == "" {
		return ""
	}
	m, err := LoadEnvFile(envPath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(m[name])
}
