package tenant

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_tenants.yaml
var embeddedTenants []byte

// DefaultTenantsYAML returns the built-in tenant file, used to bootstrap a
// local setup.
func DefaultTenantsYAML() []byte {
	return append([]byte{}, embeddedTenants...)
}

type fileTenant struct {
	ClientID string `yaml:"client_id"`
	JobName  string `yaml:"job_name"`
	Config   `yaml:",inline"`
}

type fileDoc struct {
	Tenants []fileTenant `yaml:"tenants"`
}

var _ Provider = (*FileProvider)(nil)

// FileProvider serves tenants from a YAML document loaded once.
type FileProvider struct {
	source  string
	tenants map[Key]Config
}

func LoadFile(path string) (*FileProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lecture du fichier de configuration client impossible (%s) : %v : %w", path, err, ErrConfiguration)
	}
	return parseFile(path, raw)
}

// Defaults serves the built-in tenant sections.
func Defaults() *FileProvider {
	p, err := parseFile("embedded:default_tenants.yaml", embeddedTenants)
	if err != nil {
		panic(err)
	}
	return p
}

func parseFile(source string, raw []byte) (*FileProvider, error) {
	var doc fileDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("fichier de configuration client mal formé (%s) : %v : %w", source, err, ErrConfiguration)
	}
	p := &FileProvider{source: source, tenants: make(map[Key]Config, len(doc.Tenants))}
	for _, t := range doc.Tenants {
		k := Key{ClientID: strings.TrimSpace(t.ClientID), JobName: strings.TrimSpace(t.JobName)}
		if k.ClientID == "" || k.JobName == "" {
			return nil, fmt.Errorf("client_id ou job_name vide (%s) : %w", source, ErrConfiguration)
		}
		p.tenants[k] = t.Config
	}
	return p, nil
}

func (p *FileProvider) Fetch(_ context.Context, key Key) (Config, error) {
	cfg, ok := p.tenants[key]
	if !ok {
		return Config{}, fmt.Errorf("%s dans %s : %w", key, p.source, ErrNotFound)
	}
	cfg, err := cfg.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("%s : %w", key, err)
	}
	return cfg, nil
}
