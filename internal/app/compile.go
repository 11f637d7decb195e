package app

import (
	"context"

	"github.com/specialistvlad/fxgraph/internal/compiler"
	"github.com/specialistvlad/fxgraph/internal/ctxlog"
)

// Compile compiles every graph found under paths and writes the generated
// sources into the cache. It stops at the first graph that fails.
func (a *App) Compile(ctx context.Context, paths []string) ([]Result, error) {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Compile method started.", "paths", paths)

	files, err := a.discover(ctx, paths)
	if err != nil {
		return nil, err
	}

	notifier, closeNotifier := a.dialNotifier(ctx)
	defer closeNotifier()
	cache := a.newCache()

	results := make([]Result, 0, len(files))
	for _, f := range files {
		u, err := a.open(ctx, f, compiler.Options{Cache: cache, Notifier: notifier})
		if err != nil {
			return results, err
		}
		r := u.result()
		u.compiler.Close()

		results = append(results, r)
		a.printResult(r)
	}

	logger.Info("Compilation finished.", "graphs", len(results))
	return results, nil
}
