package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/fxgraph/internal/codegen"
	"github.com/specialistvlad/fxgraph/internal/compiler"
	"github.com/specialistvlad/fxgraph/internal/config"
	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/fsutil"
	"github.com/specialistvlad/fxgraph/internal/inmemoryasset"
	"github.com/specialistvlad/fxgraph/internal/model"
	"github.com/specialistvlad/fxgraph/internal/notify"
	"github.com/viant/afs"
)

// TemplateGenerator is the generator name graphs use for the built-in
// template generator.
const TemplateGenerator = "template"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *config.Model
	loader     config.GraphLoader
	fs         afs.Service
	generators map[string]codegen.Generator
}

// NewApp is the constructor for the main application. Results go to outW,
// logs to logW. cfg must already be validated.
func NewApp(outW, logW io.Writer, cfg *config.Model, loader config.GraphLoader) *App {
	logger := newLogger(cfg.Log, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		loader: loader,
		fs:     afs.New(),
		generators: map[string]codegen.Generator{
			TemplateGenerator: codegen.TemplateGenerator{},
		},
	}
}

// RegisterGenerator makes gen available to graphs under name, replacing any
// previous registration.
func (a *App) RegisterGenerator(name string, gen codegen.Generator) {
	a.generators[name] = gen
}

// Result summarizes one compiled graph.
type Result struct {
	Path        string
	Container   string
	Expressions int
	Values      int
	Spawners    int
	Artifacts   []string
	Saved       bool
}

// unit is one loaded graph bound to its compiler and asset.
type unit struct {
	path     string
	tree     *model.Tree
	asset    *inmemoryasset.Asset
	compiler *compiler.Compiler
}

func (u *unit) result() Result {
	r := Result{
		Path:        u.path,
		Container:   u.compiler.Container(),
		Expressions: u.compiler.Graph().Len(),
		Values:      len(u.compiler.Values()),
		Spawners:    len(u.asset.Spawners()),
		Saved:       u.compiler.Saved(),
	}
	for _, art := range u.compiler.Artifacts() {
		r.Artifacts = append(r.Artifacts, art.Path)
	}
	return r
}

func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

func (a *App) newCache() *codegen.Cache {
	return codegen.NewCache(a.fs, a.config.CacheRoot, codegen.NewFileImporter(a.fs), a.generators)
}

// discover resolves the given paths to graph files using the configured
// patterns.
func (a *App) discover(ctx context.Context, paths []string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	if len(paths) == 0 {
		paths = []string{"."}
	}
	files, err := fsutil.FindGraphs(paths, a.config.Graphs)
	if err != nil {
		return nil, fmt.Errorf("failed to discover graphs: %w", err)
	}
	logger.Debug("Graph files discovered.", "count", len(files), "patterns", a.config.Graphs)
	if len(files) == 0 {
		return nil, fmt.Errorf("no graph files found in %v", paths)
	}
	return files, nil
}

// open loads the graph at path and runs its first rebuild. The caller owns
// the returned unit and must close its compiler.
func (a *App) open(ctx context.Context, path string, opts compiler.Options) (*unit, error) {
	tree, pool, err := a.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load graph %s: %w", path, err)
	}

	asset := inmemoryasset.New()
	opts.Sink = asset
	c := compiler.New(ctx, tree, pool, opts)
	if err := c.RecompileIfNeeded(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to compile graph %s: %w", path, err)
	}
	return &unit{path: path, tree: tree, asset: asset, compiler: c}, nil
}

// dialNotifier connects the live-reload notifier when one is configured. A
// connection failure is logged and compilation proceeds without it.
func (a *App) dialNotifier(ctx context.Context) (compiler.Notifier, func()) {
	logger := ctxlog.FromContext(ctx)
	opts := a.config.Notify
	if opts.URL == "" {
		return nil, func() {}
	}

	n, err := notify.Dial(ctx, notify.Options{
		URL:                opts.URL,
		Namespace:          opts.Namespace,
		Event:              opts.Event,
		InsecureSkipVerify: opts.InsecureSkipVerify,
	})
	if err != nil {
		logger.Warn("Reload notifier unavailable, continuing without it.", "url", opts.URL, "error", err)
		return nil, func() {}
	}
	return n, n.Close
}

func (a *App) printResult(r Result) {
	status := "compiled"
	if r.Saved {
		status = "saved"
	}
	fmt.Fprintf(a.outW, "%s %s: %d expressions, %d values, %d spawners, %d artifacts\n",
		status, r.Container, r.Expressions, r.Values, r.Spawners, len(r.Artifacts))
}
