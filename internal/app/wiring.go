package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"

	"vinted-listing/internal/config"
	"vinted-listing/internal/llm"
	"vinted-listing/internal/logging"
	"vinted-listing/internal/storage"
	"vinted-listing/internal/tenant"
)

func LoadAWS(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if strings.TrimSpace(region) != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("configuration AWS impossible : %w", err)
	}
	return awsCfg, nil
}

// NewTenantProvider builds the provider selected by cfg.Tenant.Source and
// wraps it in the Redis cache when an address is configured. awsCfg is only
// used by the dynamodb source and is loaded on demand when nil. The returned
// closer, if any, releases the Redis client.
func NewTenantProvider(ctx context.Context, cfg *config.Config, tenantsFile string, awsCfg *aws.Config) (tenant.Provider, io.Closer, error) {
	var base tenant.Provider
	switch cfg.Tenant.Source {
	case config.TenantSourceFile:
		p, err := tenant.LoadFile(tenantsFile)
		if err != nil {
			return nil, nil, err
		}
		base = p
	case config.TenantSourceDynamo:
		if awsCfg == nil {
			loaded, err := LoadAWS(ctx, cfg.AWS.Region)
			if err != nil {
				return nil, nil, err
			}
			awsCfg = &loaded
		}
		base = tenant.NewDynamoProvider(dynamodb.NewFromConfig(*awsCfg), cfg.Tenant.Table)
	default:
		base = tenant.Defaults()
	}

	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return base, nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ttl := time.Duration(cfg.Redis.TTLSec) * time.Second
	return tenant.NewCachedProvider(base, rdb, ttl), rdb, nil
}

func NewGenerator(cfg *config.Config, apiKey string) *llm.Client {
	return llm.NewClient(llm.Options{
		APIKey:     apiKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Timeout:    time.Duration(cfg.RequestTimeoutSec) * time.Second,
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	})
}

func NewPipeline(cfg *config.Config, gen llm.Generator, logger *logging.Logger) Pipeline {
	return Pipeline{
		Generator:    gen,
		SystemPrompt: cfg.SystemPrompt,
		Temperature:  cfg.GenerationTemperature(),
		Concurrency:  cfg.Concurrency,
		Logger:       logger,
	}
}

// NewS3Handler wires the object-storage trigger: S3 for input and output,
// the configured tenant source, and the OpenAI generator.
func NewS3Handler(ctx context.Context, cfg *config.Config, apiKey string, logger *logging.Logger) (*Handler, io.Closer, error) {
	awsCfg, err := LoadAWS(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, nil, err
	}
	tenants, closer, err := NewTenantProvider(ctx, cfg, cfg.Tenant.File, &awsCfg)
	if err != nil {
		return nil, nil, err
	}
	store := storage.NewS3Store(s3.NewFromConfig(awsCfg))
	return &Handler{
		Source:   store,
		Sink:     store,
		Tenants:  tenants,
		Tenant:   cfg.TenantKey(),
		Pipeline: NewPipeline(cfg, NewGenerator(cfg, apiKey), logger),
		Logger:   logger,
	}, closer, nil
}
