// Package compiler orchestrates one generation pipeline: it loads schema
// descriptions, compiles them into a typings unit, writes the output and
// maintains the run snapshot that lets unchanged runs skip regeneration.
package compiler

import (
	"context"
	"log/slog"

	"github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mongotype/mongotype/compiler/gen"
	"github.com/mongotype/mongotype/compiler/load"
)

// parseCacheSize bounds the schema re-parse cache used across watch-mode
// rebuilds.
const parseCacheSize = 256

// Runner drives repeated generation runs over a fixed set of schema
// description files. Parsed schemas are cached by content digest, so a
// rebuild only re-parses the files that actually changed.
type Runner struct {
	cfg        *gen.Config
	paths      []string
	configHash string
	parsed     *lru.Cache[string, *load.Schema]
}

// New creates a runner for the given schema description files. configHash
// is the digest of the tool configuration that produced cfg; it may be
// empty when no configuration file was used.
func New(cfg *gen.Config, paths []string, configHash string) (*Runner, error) {
	if len(paths) == 0 {
		return nil, gen.NewConfigError("schemas", paths, "at least one schema description file is required")
	}
	parsed, err := lru.New[string, *load.Schema](parseCacheSize)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:        cfg,
		paths:      paths,
		configHash: configHash,
		parsed:     parsed,
	}, nil
}

// Run executes one generation run. When the run snapshot shows that every
// input, the configuration and the target are unchanged since the last
// successful run, the run is skipped entirely.
func (r *Runner) Run(ctx context.Context) error {
	inputs := make(map[string]string, len(r.paths))
	for _, path := range r.paths {
		inputs[path] = gen.HashFile(path)
	}

	snapPath := gen.SnapshotPath(r.cfg.Target)
	if gen.LoadSnapshot(snapPath).UpToDate(r.configHash, inputs, r.cfg.Target) {
		slog.Debug("inputs unchanged, skipping generation", "target", r.cfg.Target)
		return nil
	}

	schemas, err := r.load(ctx, inputs)
	if err != nil {
		return err
	}
	unit, err := gen.NewUnit(r.cfg, schemas)
	if err != nil {
		return err
	}
	if err := gen.NewWriter(unit).Write(ctx); err != nil {
		return err
	}

	snap := gen.NewSnapshot(r.configHash, inputs, gen.HashFile(r.cfg.Target))
	if err := snap.Save(snapPath); err != nil {
		// A failed snapshot save only costs the next run its skip.
		slog.Warn("saving run snapshot failed", "path", snapPath, "err", err)
	}
	return nil
}

// load parses the schema description files concurrently, serving unchanged
// files from the re-parse cache. Results keep the input order.
func (r *Runner) load(ctx context.Context, inputs map[string]string) ([]*load.Schema, error) {
	schemas := make([]*load.Schema, len(r.paths))
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(8)
	for i, path := range r.paths {
		i, path := i, path
		key := path + "\x00" + inputs[path]
		if s, ok := r.parsed.Get(key); ok {
			schemas[i] = s
			continue
		}
		eg.Go(func() error {
			s, err := load.File(path)
			if err != nil {
				return err
			}
			schemas[i] = s
			r.parsed.Add(key, s)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return schemas, nil
}
