package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/fxgraph/internal/compiler"
	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/specialistvlad/fxgraph/internal/sqlitestore"
)

// ErrSaveFailed is returned when a graph's save sequence did not complete.
// The cause is in the log.
var ErrSaveFailed = errors.New("save failed")

// progressLogger reports save steps at debug level.
type progressLogger struct {
	logger *slog.Logger
}

func (p progressLogger) Report(step, total int, label string) {
	p.logger.Debug("Save progress.", "step", step, "total", total, "label", label)
}

// Save compiles every graph found under paths, embeds its artifacts and
// persists its sub-assets into the configured store.
func (a *App) Save(ctx context.Context, paths []string) ([]Result, error) {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Save method started.", "paths", paths, "store", a.config.StorePath)

	files, err := a.discover(ctx, paths)
	if err != nil {
		return nil, err
	}

	store, err := sqlitestore.Open(ctx, a.config.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sub-asset store: %w", err)
	}
	defer store.Close()

	notifier, closeNotifier := a.dialNotifier(ctx)
	defer closeNotifier()
	cache := a.newCache()

	results := make([]Result, 0, len(files))
	for _, f := range files {
		r, err := a.saveFile(ctx, f, store, compiler.Options{
			Cache:    cache,
			Notifier: notifier,
			Storage:  store,
			Progress: progressLogger{logger: logger.With(ctxlog.GraphKey, f)},
		})
		if err != nil {
			return results, err
		}
		results = append(results, r)
		a.printResult(r)
	}

	logger.Info("Save finished.", "graphs", len(results))
	return results, nil
}

func (a *App) saveFile(ctx context.Context, path string, store *sqlitestore.Store, opts compiler.Options) (Result, error) {
	u, err := a.open(ctx, path, opts)
	if err != nil {
		return Result{}, err
	}
	defer u.compiler.Close()

	// Storage only persists registered containers.
	if err := store.Register(ctx, u.compiler.Container()); err != nil {
		return Result{}, fmt.Errorf("failed to register %s: %w", u.compiler.Container(), err)
	}

	u.compiler.Save(ctx)
	if !u.compiler.Saved() {
		return Result{}, fmt.Errorf("%w: %s", ErrSaveFailed, path)
	}
	return u.result(), nil
}
