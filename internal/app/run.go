package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"vinted-listing/internal/config"
	"vinted-listing/internal/discovery"
	"vinted-listing/internal/llm"
	"vinted-listing/internal/logging"
	"vinted-listing/internal/output"
	"vinted-listing/internal/storage"
	"vinted-listing/internal/tenant"
)

type Options struct {
	Inputs       []string
	ConfigPath   string
	OutputDir    string
	Concurrency  int
	MaxRetries   int
	Model        string
	ClientID     string
	JobName      string
	TenantSource string
	LogFile      string
	JSONLog      bool
	CWD          string
	Stdout       io.Writer
	Stderr       io.Writer

	// Generator and Tenants replace the configured collaborators when set.
	Generator llm.Generator
	Tenants   tenant.Provider
}

type Result struct {
	Succeeded int
	Failed    int
}

// Run generates one listing document per local CSV file. A file either
// produces its whole document or nothing; other files are still processed.
func Run(ctx context.Context, opts Options) (Result, error) {
	env, err := prepare(opts)
	if err != nil {
		return Result{}, err
	}
	defer env.close()
	cfg, paths, cwd, logger := env.cfg, env.paths, env.cwd, env.logger

	gen := opts.Generator
	if gen == nil {
		gen = NewGenerator(cfg, env.apiKey)
	}

	tenants := opts.Tenants
	if tenants == nil {
		p, c, err := NewTenantProvider(ctx, cfg, paths.ResolvedFile, nil)
		if err != nil {
			return Result{}, err
		}
		if c != nil {
			defer c.Close()
		}
		tenants = p
	}
	key := cfg.TenantKey()
	tcfg, err := tenants.Fetch(ctx, key)
	if err != nil {
		logger.Emit(logging.Event{Level: "error", Event: "tenant_failed", Tenant: key.String(), Error: err.Error()})
		return Result{}, err
	}
	logger.Emit(logging.Event{Event: "tenant_loaded", Tenant: key.String()})

	inputPaths := make([]string, 0, len(opts.Inputs))
	for _, in := range opts.Inputs {
		inputPaths = append(inputPaths, absPath(cwd, in))
	}
	found, err := discovery.Discover(inputPaths)
	if err != nil {
		return Result{}, err
	}
	for _, w := range found.Warnings {
		logger.Emit(logging.Event{Level: "warn", Event: "scan_warning", Error: w})
	}

	outDir := paths.ResolvedOut
	if strings.TrimSpace(opts.OutputDir) != "" {
		outDir = absPath(cwd, opts.OutputDir)
	}
	if err := output.EnsureDir(outDir); err != nil {
		return Result{}, fmt.Errorf("création du répertoire de sortie impossible : %w", err)
	}

	store := storage.LocalStore{}
	pipeline := NewPipeline(cfg, gen, logger)
	result := Result{}
	for _, file := range found.Files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if processFile(ctx, store, pipeline, tcfg, file, outDir, logger) {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	logger.Emit(logging.Event{Event: "finished", Rows: result.Succeeded, Error: fmt.Sprintf("succès=%d échecs=%d", result.Succeeded, result.Failed)})
	return result, nil
}

type runEnv struct {
	cfg    *config.Config
	paths  *config.Paths
	cwd    string
	apiKey string
	logger *logging.Logger
	closer io.Closer
}

func (e *runEnv) close() {
	if e.closer != nil {
		_ = e.closer.Close()
	}
}

// prepare loads the local configuration, applies the command-line overrides,
// resolves the API key and opens the logger.
func prepare(opts Options) (*runEnv, error) {
	cwd := strings.TrimSpace(opts.CWD)
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("répertoire courant illisible : %w", err)
		}
		cwd = wd
	}

	cfg, paths, err := config.Load(opts.ConfigPath, cwd)
	if err != nil {
		return nil, err
	}
	overrideConfig(cfg, opts)

	apiKey := config.ResolveEnv(cfg.APIKeyEnv, paths.EnvPath)
	if apiKey == "" && opts.Generator == nil {
		return nil, fmt.Errorf("%s est vide. Copiez %s vers %s et renseignez la clé, ou lancez : vinted-listing set key <clé>", cfg.APIKeyEnv, paths.EnvExample, paths.EnvPath)
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	logger, closer, err := logging.New(stdout, opts.LogFile, opts.JSONLog)
	if err != nil {
		return nil, fmt.Errorf("initialisation du journal impossible : %w", err)
	}
	logger = logger.WithRun(uuid.NewString())
	logger.Emit(logging.Event{Event: "startup", Provider: cfg.Provider, Model: cfg.Model})
	return &runEnv{cfg: cfg, paths: paths, cwd: cwd, apiKey: apiKey, logger: logger, closer: closer}, nil
}

// RunS3 processes one object already stored in S3, the same way the Lambda
// trigger does, using the local configuration.
func RunS3(ctx context.Context, opts Options, bucket, key string) (Response, error) {
	env, err := prepare(opts)
	if err != nil {
		return failure(err), err
	}
	defer env.close()
	env.cfg.Tenant.File = env.paths.ResolvedFile

	h, closer, err := NewS3Handler(ctx, env.cfg, env.apiKey, env.logger)
	if err != nil {
		return failure(err), err
	}
	if closer != nil {
		defer closer.Close()
	}
	if opts.Generator != nil {
		h.Pipeline.Generator = opts.Generator
	}
	if opts.Tenants != nil {
		h.Tenants = opts.Tenants
	}
	return h.HandleObject(ctx, bucket, key)
}

func processFile(ctx context.Context, store storage.Store, p Pipeline, tcfg tenant.Config, file, outDir string, logger *logging.Logger) bool {
	raw, err := store.Read(ctx, storage.Ref{Key: file})
	if err != nil {
		logger.Emit(logging.Event{Level: "error", Event: "read_failed", Input: file, Error: err.Error()})
		return false
	}
	p.Input = file
	doc, err := p.Run(ctx, raw, tcfg)
	if err != nil {
		return false
	}
	outKey, err := output.Key(filepath.ToSlash(file))
	if err != nil {
		logger.Emit(logging.Event{Level: "error", Event: "write_failed", Input: file, Error: err.Error()})
		return false
	}
	dst := storage.Ref{Bucket: outDir, Key: outKey}
	if err := store.Write(ctx, dst, []byte(doc), output.ContentType); err != nil {
		logger.Emit(logging.Event{Level: "error", Event: "write_failed", Input: file, OutputFile: dst.String(), Error: err.Error()})
		return false
	}
	logger.Emit(logging.Event{Event: "write_ok", Input: file, OutputFile: filepath.Join(outDir, filepath.FromSlash(dst.Key))})
	return true
}

func overrideConfig(cfg *config.Config, opts Options) {
	if opts.Concurrency > 0 {
		cfg.Concurrency = opts.Concurrency
	}
	if opts.MaxRetries > 0 {
		cfg.MaxRetries = opts.MaxRetries
	}
	if strings.TrimSpace(opts.Model) != "" {
		cfg.Model = opts.Model
	}
	if strings.TrimSpace(opts.ClientID) != "" {
		cfg.Tenant.ClientID = opts.ClientID
	}
	if strings.TrimSpace(opts.JobName) != "" {
		cfg.Tenant.JobName = opts.JobName
	}
	if strings.TrimSpace(opts.TenantSource) != "" {
		cfg.Tenant.Source = strings.ToLower(strings.TrimSpace(opts.TenantSource))
	}
}

func absPath(cwd, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cwd, p)
}
