package config

import (
	"strconv"
	"strings"

	"vinted-listing/internal/llm"
	"vinted-listing/internal/prompt"
	"vinted-listing/internal/tenant"
)

const (
	TenantSourceDefaults = "defaults"
	TenantSourceFile     = "file"
	TenantSourceDynamo   = "dynamodb"
)

type Config struct {
	Provider          string       `yaml:"provider"`
	APIKeyEnv         string       `yaml:"api_key_env"`
	Model             string       `yaml:"model"`
	BaseURL           string       `yaml:"base_url"`
	SystemPrompt      string       `yaml:"system_prompt"`
	Temperature       *float64     `yaml:"temperature"`
	MaxRetries        int          `yaml:"max_retries"`
	RequestTimeoutSec int          `yaml:"request_timeout_sec"`
	Concurrency       int          `yaml:"concurrency"`
	Tenant            TenantConfig `yaml:"tenant"`
	Redis             RedisConfig  `yaml:"redis"`
	AWS               AWSConfig    `yaml:"aws"`
	Output            OutputConfig `yaml:"output"`
}

type TenantConfig struct {
	ClientID string `yaml:"client_id"`
	JobName  string `yaml:"job_name"`
	Source   string `yaml:"source"`
	Table    string `yaml:"table"`
	File     string `yaml:"file"`
}

// RedisConfig enables the tenant cache when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTLSec   int    `yaml:"ttl_sec"`
}

type AWSConfig struct {
	Region string `yaml:"region"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type Paths struct {
	HomeDir      string
	RootDir      string
	ConfigPath   string
	EnvPath      string
	EnvExample   string
	TenantsPath  string
	ConfigSource string
	ResolvedFile string
	ResolvedOut  string
}

func (c Config) TenantKey() tenant.Key {
	return tenant.Key{ClientID: c.Tenant.ClientID, JobName: c.Tenant.JobName}
}

func (c Config) GenerationTemperature() float32 {
	if c.Temperature == nil {
		return llm.DefaultTemperature
	}
	return float32(*c.Temperature)
}

// Default returns a configuration with every default applied, for runs
// without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Provider) == "" {
		c.Provider = "openai"
	}
	if strings.TrimSpace(c.APIKeyEnv) == "" {
		c.APIKeyEnv = "OPENAI_API_KEY"
	}
	if strings.TrimSpace(c.Model) == "" {
		c.Model = llm.DefaultModel
	}
	if strings.TrimSpace(c.SystemPrompt) == "" {
		c.SystemPrompt = prompt.DefaultSystemPrompt
	}
	if c.Temperature == nil {
		t := float64(llm.DefaultTemperature)
		c.Temperature = &t
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RequestTimeoutSec <= 0 {
		c.RequestTimeoutSec = 120
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}
	if strings.TrimSpace(c.Tenant.ClientID) == "" {
		c.Tenant.ClientID = tenant.DefaultClientID
	}
	if strings.TrimSpace(c.Tenant.JobName) == "" {
		c.Tenant.JobName = tenant.DefaultJobName
	}
	switch strings.ToLower(strings.TrimSpace(c.Tenant.Source)) {
	case TenantSourceFile, TenantSourceDynamo:
		c.Tenant.Source = strings.ToLower(strings.TrimSpace(c.Tenant.Source))
	default:
		c.Tenant.Source = TenantSourceDefaults
	}
	if strings.TrimSpace(c.Tenant.Table) == "" {
		c.Tenant.Table = tenant.DefaultTable
	}
	if strings.TrimSpace(c.Tenant.File) == "" {
		c.Tenant.File = "~/.vinted-listing/tenants.yaml"
	}
	if c.Redis.TTLSec <= 0 {
		c.Redis.TTLSec = int(tenant.DefaultCacheTTL.Seconds())
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = "."
	}
}

// ApplyEnv overrides fields from VINTED_* variables. It is how the Lambda
// runtime, which has no config file, is configured.
func (c *Config) ApplyEnv(getenv func(string) string) {
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v, err := strconv.Atoi(strings.TrimSpace(getenv(name))); err == nil {
			*dst = v
		}
	}
	str("VINTED_MODEL", &c.Model)
	str("VINTED_BASE_URL", &c.BaseURL)
	str("VINTED_API_KEY_ENV", &c.APIKeyEnv)
	str("VINTED_CLIENT_ID", &c.Tenant.ClientID)
	str("VINTED_JOB_NAME", &c.Tenant.JobName)
	str("VINTED_TENANT_SOURCE", &c.Tenant.Source)
	str("VINTED_TENANT_TABLE", &c.Tenant.Table)
	str("VINTED_TENANT_FILE", &c.Tenant.File)
	str("VINTED_REDIS_ADDR", &c.Redis.Addr)
	str("VINTED_REDIS_PASSWORD", &c.Redis.Password)
	str("AWS_REGION", &c.AWS.Region)
	num("VINTED_REDIS_DB", &c.Redis.DB)
	num("VINTED_CONCURRENCY", &c.Concurrency)
	num("VINTED_MAX_RETRIES", &c.MaxRetries)
	if v, err := strconv.ParseFloat(strings.TrimSpace(getenv("VINTED_TEMPERATURE")), 64); err == nil {
		c.Temperature = &v
	}
	c.applyDefaults()
}
