// Package generator runs the pipeline that turns an OpenAPI source into domain packages.
package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/GabrielNunesIT/go-libs/logger"

	"github.com/GabrielNunesIT/openapi-domaingen/internal/adapters/history"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/adapters/loader"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/adapters/writer"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/differ"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/domain"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/extractor"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/resolver"
	"github.com/GabrielNunesIT/openapi-domaingen/internal/splitter"
)

// ErrNoSource is returned when no OpenAPI source was given.
var ErrNoSource = errors.New("no OpenAPI source specified")

const defaultFallbackDomain = "shared"

// Options describes one generation.
type Options struct {
	Source         string
	Output         string
	BaseURL        string
	Docs           string
	Validate       bool
	DryRun         bool
	Force          bool
	NoHistory      bool
	Timeout        time.Duration
	FallbackDomain string
	Domains        []splitter.DomainPatterns
	Crud           *extractor.CrudDetectionConfig
}

// DomainResult reports what happened to one domain package.
type DomainResult struct {
	Domain   string
	Dir      string
	Entities []*domain.Entity
	Diff     *domain.Diff
	Report   string
	FirstRun bool
	Skipped  bool
	Files    []writer.Result
}

// Written returns the number of files created or updated.
func (r *DomainResult) Written() int {
	return writer.Count(r.Files, writer.StatusCreated) + writer.Count(r.Files, writer.StatusUpdated)
}

// Result reports a whole generation.
type Result struct {
	Source   string
	Entities []*domain.Entity
	Domains  []DomainResult
}

// Generator runs the pipeline.
type Generator struct {
	log        logger.ILogger
	loaderOpts []loader.Option
	now        func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithLoaderOptions adds options to the loader built for every run.
func WithLoaderOptions(opts ...loader.Option) Option {
	return func(g *Generator) {
		g.loaderOpts = append(g.loaderOpts, opts...)
	}
}

// WithClock sets the time source used for snapshots and history.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a new Generator.
func New(log logger.ILogger, opts ...Option) *Generator {
	g := &Generator{
		log: log,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Run generates every domain package and writes it under opts.Output.
func (g *Generator) Run(ctx context.Context, opts Options) (*Result, error) {
	return g.run(ctx, opts, true)
}

// Plan computes the per-domain diffs without rendering or writing anything.
func (g *Generator) Plan(ctx context.Context, opts Options) (*Result, error) {
	return g.run(ctx, opts, false)
}

// Extract loads, resolves, extracts and splits the source.
func (g *Generator) Extract(ctx context.Context, opts Options) ([]domain.DomainGroup, []*domain.Entity, error) {
	if opts.Source == "" {
		return nil, nil, ErrNoSource
	}

	g.log.Infof("Loading OpenAPI specification from: %s", opts.Source)

	doc, err := g.newLoader(opts).Load(ctx, opts.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load OpenAPI specification: %w", err)
	}

	g.log.Infof("Loaded API: %s (v%s)", doc.Title, doc.Version)

	entities := extractor.ExtractEntities(resolver.ResolveRefs(doc), opts.Crud)
	if len(entities) == 0 {
		return nil, nil, domain.ErrNoEntities
	}

	groups, err := splitter.GroupEntitiesByDomain(entities, opts.Domains, fallbackDomain(opts))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to split domains: %w", err)
	}

	g.log.Infof("Extracted %d entities into %d domains", len(entities), len(groups))

	return groups, entities, nil
}

func (g *Generator) newLoader(opts Options) *loader.Loader {
	loaderOpts := []loader.Option{loader.WithValidation(opts.Validate)}
	if opts.Timeout > 0 {
		loaderOpts = append(loaderOpts, loader.WithTimeout(opts.Timeout))
	}

	return loader.New(append(loaderOpts, g.loaderOpts...)...)
}

func (g *Generator) run(ctx context.Context, opts Options, write bool) (*Result, error) {
	groups, entities, err := g.Extract(ctx, opts)
	if err != nil {
		return nil, err
	}

	var artifacts []artifact
	if write {
		if artifacts, err = artifactsFor(opts); err != nil {
			return nil, err
		}
	}

	var store *history.Store
	if write && !opts.DryRun && !opts.NoHistory {
		store, err = history.Open(filepath.Join(opts.Output, history.DefaultPath))
		if err != nil {
			return nil, err
		}
		defer store.Close()
	}

	result := &Result{
		Source:   opts.Source,
		Entities: entities,
		Domains:  make([]DomainResult, 0, len(groups)),
	}

	now := g.now()

	for i := range groups {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		group := &groups[i]

		dr, err := g.generateDomain(group, domainDir(opts, group), opts, artifacts, write, now)
		if err != nil {
			return result, fmt.Errorf("domain %s: %w", group.DomainName, err)
		}

		result.Domains = append(result.Domains, *dr)

		if store != nil {
			g.record(ctx, store, opts, dr, now)
		}
	}

	return result, nil
}

func (g *Generator) generateDomain(group *domain.DomainGroup, dir string, opts Options, artifacts []artifact, write bool, now time.Time) (*DomainResult, error) {
	dr := &DomainResult{
		Domain:   group.DomainName,
		Dir:      dir,
		Entities: group.Entities,
	}

	previous, err := g.readSnapshot(filepath.Join(dir, differ.SnapshotFileName))
	if err != nil {
		return nil, err
	}

	dr.FirstRun = previous == nil
	if previous == nil {
		previous = differ.NewSnapshot(nil, "", now)
	}

	if dr.Diff, err = differ.ComputeDiff(previous, group.Entities); err != nil {
		return nil, err
	}
	dr.Report = differ.FormatDiff(dr.Diff)

	if !write {
		return dr, nil
	}

	if !dr.FirstRun && !dr.Diff.HasChanges && !opts.Force {
		dr.Skipped = true
		g.log.Infof("Domain %s is up to date", group.DomainName)
		return dr, nil
	}

	files, err := renderAll(group, dir, artifacts)
	if err != nil {
		return nil, err
	}

	var snapshot bytes.Buffer
	if err := differ.WriteSnapshot(&snapshot, differ.NewSnapshot(group.Entities, opts.Source, now)); err != nil {
		return nil, err
	}
	files = append(files, writer.GeneratedFile{
		Path:    filepath.Join(dir, differ.SnapshotFileName),
		Content: snapshot.Bytes(),
		Policy:  writer.PolicyAlways,
	})

	if dr.Files, err = writer.New(opts.DryRun).WriteAll(files); err != nil {
		return nil, err
	}

	g.log.Infof("Domain %s: %d files written, %d preserved",
		group.DomainName, dr.Written(), writer.Count(dr.Files, writer.StatusPreserved))

	return dr, nil
}

// readSnapshot returns nil when there is no usable snapshot at path.
func (g *Generator) readSnapshot(path string) (*domain.Snapshot, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	snapshot, err := differ.ReadSnapshot(f)
	if errors.Is(err, differ.ErrUnsupportedSnapshot) {
		g.log.Infof("Ignoring snapshot %s: %v", path, err)
		return nil, nil
	}

	return snapshot, err
}

func (g *Generator) record(ctx context.Context, store *history.Store, opts Options, dr *DomainResult, now time.Time) {
	run := &history.Run{
		RunAt:        now,
		SpecSource:   opts.Source,
		Domain:       dr.Domain,
		Entities:     len(dr.Entities),
		Added:        len(dr.Diff.Added),
		Removed:      len(dr.Diff.Removed),
		Modified:     len(dr.Diff.Modified),
		FilesWritten: dr.Written(),
		Skipped:      dr.Skipped,
	}

	if err := store.Record(ctx, run); err != nil {
		g.log.Errorf("Failed to record history for %s: %v", dr.Domain, err)
	}
}

func fallbackDomain(opts Options) string {
	if opts.FallbackDomain == "" {
		return defaultFallbackDomain
	}

	return opts.FallbackDomain
}

// domainDir places the single group at the output root when no domains are configured.
func domainDir(opts Options, group *domain.DomainGroup) string {
	if len(opts.Domains) == 0 {
		return opts.Output
	}

	return filepath.Join(opts.Output, group.DomainName)
}
