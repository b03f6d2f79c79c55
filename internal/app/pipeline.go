package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"vinted-listing/internal/listing"
	"vinted-listing/internal/llm"
	"vinted-listing/internal/logging"
	"vinted-listing/internal/prompt"
	"vinted-listing/internal/row"
	"vinted-listing/internal/rules"
	"vinted-listing/internal/tenant"
)

// Pipeline turns a CSV document into the listing document. Generation is the
// only call that leaves the process; everything else is deterministic.
type Pipeline struct {
	Generator    llm.Generator
	SystemPrompt string
	Temperature  float32
	// Concurrency bounds in-flight generation calls. Output order always
	// follows input order.
	Concurrency int
	Logger      *logging.Logger
	Input       string
}

// Run is all-or-nothing: the first failing row aborts the batch and no
// partial document is returned.
func (p *Pipeline) Run(ctx context.Context, raw []byte, cfg tenant.Config) (string, error) {
	rows, err := row.ParseTable(raw)
	if err != nil {
		p.Logger.Emit(logging.Event{Level: "error", Event: "parse_failed", Input: p.Input, Error: err.Error()})
		return "", err
	}
	p.Logger.Emit(logging.Event{Event: "parse_ok", Input: p.Input, Rows: len(rows)})

	listings, err := p.buildAll(ctx, rows, cfg)
	if err != nil {
		return "", err
	}
	return listing.Join(listings), nil
}

func (p *Pipeline) buildAll(ctx context.Context, rows []row.Row, cfg tenant.Config) ([]string, error) {
	listings := make([]string, len(rows))
	if p.Concurrency <= 1 {
		for i, r := range rows {
			text, err := p.build(ctx, i+1, r, cfg)
			if err != nil {
				return nil, err
			}
			listings[i] = text
		}
		return listings, nil
	}

	sem := make(chan struct{}, p.Concurrency)
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range rows {
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := p.build(gctx, i+1, r, cfg)
			if err != nil {
				return err
			}
			listings[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return listings, nil
}

func (p *Pipeline) build(ctx context.Context, index int, r row.Row, cfg tenant.Config) (string, error) {
	n := rules.Apply(row.Normalize(r))
	userPrompt := prompt.Render(cfg.PromptTemplate, n)

	resp, err := p.Generator.Generate(ctx, llm.Request{
		SystemPrompt: p.SystemPrompt,
		UserPrompt:   userPrompt,
		Temperature:  p.Temperature,
		OnRetry: func(attempt int, wait time.Duration, err error) {
			p.Logger.Emit(logging.Event{Level: "warn", Event: "generate_retry", Input: p.Input, Row: index, Attempt: attempt, WaitMS: wait.Milliseconds(), Error: err.Error()})
		},
	})
	if err != nil {
		if !errors.Is(err, llm.ErrGeneration) {
			err = fmt.Errorf("%w: %w", llm.ErrGeneration, err)
		}
		p.Logger.Emit(logging.Event{Level: "error", Event: "generate_failed", Input: p.Input, Row: index, Error: err.Error()})
		return "", fmt.Errorf("article %d : %w", index, err)
	}
	p.Logger.Emit(logging.Event{Event: "generate_ok", Input: p.Input, Row: index, PromptChars: len([]rune(userPrompt)), LatencyMS: resp.LatencyMS})

	return listing.Assemble(listing.Parts{
		Title:           listing.BuildTitle(n.TypeArticle, n.Designation, n.Taille, n.Genre, n.Etat),
		Characteristics: listing.BuildCharacteristics(n),
		Designation:     n.Designation,
		Description:     resp.Text,
		Static: listing.StaticSections{
			QuiSommesNous: cfg.QuiSommesNous,
			InfosSupp:     cfg.InfosSupp,
			Hashtags:      cfg.Hashtags,
		},
		UGSLine: listing.UGSLine(cfg.UGSTemplate, n.UGS),
	}), nil
}
