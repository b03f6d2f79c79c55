// Package tenant fetches the per-client static sections and prompt template.
package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrConfiguration = errors.New("configuration invalide")

var (
	ErrNotFound     = fmt.Errorf("configuration introuvable : %w", ErrConfiguration)
	ErrMissingField = fmt.Errorf("champ de configuration manquant : %w", ErrConfiguration)
)

const (
	DefaultClientID    = "clientA"
	DefaultJobName     = "vintedLambda"
	DefaultUGSTemplate = "🔗 UGS : {UGS}"
)

type Key struct {
	ClientID string
	JobName  string
}

func (k Key) String() string {
	return k.ClientID + "/" + k.JobName
}

// Config is read-only for the duration of a batch.
type Config struct {
	QuiSommesNous  string `yaml:"qui_sommes_nous" json:"quiSommesNous"`
	InfosSupp      string `yaml:"infos_supp" json:"infosSupp"`
	Hashtags       string `yaml:"hashtags" json:"hashtags"`
	PromptTemplate string `yaml:"prompt_template" json:"gptPrompt"`
	UGSTemplate    string `yaml:"ugs_template,omitempty" json:"ugsEtProtection,omitempty"`
}

type Provider interface {
	Fetch(ctx context.Context, key Key) (Config, error)
}

// Validate rejects a record that lacks one of the required sections. The
// optional UGS template is defaulted instead.
func (c Config) Validate() (Config, error) {
	required := []struct {
		name  string
		value string
	}{
		{"quiSommesNous", c.QuiSommesNous},
		{"infosSupp", c.InfosSupp},
		{"hashtags", c.Hashtags},
		{"gptPrompt", c.PromptTemplate},
	}
	missing := make([]string, 0, len(required))
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%s : %w", strings.Join(missing, ", "), ErrMissingField)
	}
	if strings.TrimSpace(c.UGSTemplate) == "" {
		c.UGSTemplate = DefaultUGSTemplate
	}
	return c, nil
}
