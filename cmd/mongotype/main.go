// mongotype generates TypeScript typings from JSON schema descriptions of
// Mongoose models.
//
// Run: mongotype [flags] <schema.json>...
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/mongotype/mongotype/compiler"
	"github.com/mongotype/mongotype/compiler/gen"
)

// fileConfig is the YAML configuration file shape. Command-line flags
// override its fields.
type fileConfig struct {
	Target  string   `yaml:"target"`
	Header  string   `yaml:"header"`
	Imports []string `yaml:"imports"`
	Augment bool     `yaml:"augment"`
	Schemas []string `yaml:"schemas"`
}

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML configuration file")
		out        = flag.String("out", "", "output path for the generated typings")
		augment    = flag.Bool("augment", false, "emit declarations as a module augmentation")
		watch      = flag.Bool("watch", false, "keep running and regenerate on schema changes")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*configPath, *out, *augment, *watch, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "mongotype: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, out string, augment, watch bool, args []string) error {
	var fc fileConfig
	var configHash string
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("%s: %w", configPath, err)
		}
		configHash = gen.HashBytes(data)
	}

	target := fc.Target
	if out != "" {
		target = out
	}
	if target == "" {
		target = "mongoose.gen.ts"
	}
	paths := fc.Schemas
	if len(args) > 0 {
		paths = args
	}
	if len(paths) == 0 {
		// No explicit inputs: pick up schema descriptions from the
		// working directory.
		globbed, err := filepath.Glob("*.schema.json")
		if err != nil {
			return err
		}
		paths = globbed
	}

	cfg, err := gen.NewConfig(
		gen.WithTarget(target),
		gen.WithHeader(fc.Header),
		gen.WithImports(fc.Imports...),
		gen.WithAugment(augment || fc.Augment),
	)
	if err != nil {
		return err
	}
	runner, err := compiler.New(cfg, paths, configHash)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watch {
		return runner.Watch(ctx)
	}
	return runner.Run(ctx)
}
