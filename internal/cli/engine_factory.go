package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/sprig"
	"github.com/aretw0/sprig/pkg/domain"
	"github.com/aretw0/sprig/pkg/observability"
)

var (
	documentNames      = []string{"form", "tree", "index"}
	documentExtensions = []string{".yaml", ".yml", ".json"}
)

// ResolveDocument returns the tree document for path. A file is used as is;
// a directory is searched for form, tree, index, then a file named after the
// directory itself, in each supported extension.
func ResolveDocument(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return abs, nil
	}

	names := append(append([]string(nil), documentNames...), filepath.Base(abs))
	for _, name := range names {
		for _, ext := range documentExtensions {
			candidate := filepath.Join(abs, name+ext)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("no tree document (form.yaml, tree.json, ...) found in %s", abs)
}

// NewEngine initializes a Sprig engine with standard CLI conventions.
// Extra hooks run after the debug log hooks.
func NewEngine(opts RunOptions, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*sprig.Engine, error) {
	doc, err := ResolveDocument(opts.Path)
	if err != nil {
		return nil, err
	}
	policy, err := domain.ParsePolicy(opts.Policy)
	if err != nil {
		return nil, err
	}

	if opts.Debug {
		hooks = append([]domain.LifecycleHooks{observability.LogHooks(logger)}, hooks...)
	}

	engineOpts := []sprig.Option{
		sprig.WithLogger(logger),
		sprig.WithPolicy(policy),
		sprig.WithLifecycleHooks(observability.Combine(hooks...)),
	}
	if opts.Entry != "" {
		engineOpts = append(engineOpts, sprig.WithEntryNode(opts.Entry))
	}

	engine, err := sprig.New(doc, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
