package codegen

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/specialistvlad/fxgraph/internal/ctxlog"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// Cache writes generated sources under a root folder and reimports them only
// when their text changes.
type Cache struct {
	fs         afs.Service
	root       string
	importer   Importer
	generators map[string]Generator
}

// NewCache creates a cache rooted at root. generators maps the generator names
// used by stages to implementations.
func NewCache(fs afs.Service, root string, importer Importer, generators map[string]Generator) *Cache {
	return &Cache{fs: fs, root: root, importer: importer, generators: generators}
}

// ErrUnknownGenerator is returned when a stage names a generator that is not
// registered.
var ErrUnknownGenerator = errors.New("unknown code generator")

// HasGenerator reports whether name is registered.
func (c *Cache) HasGenerator(name string) bool {
	_, ok := c.generators[name]
	return ok
}

// Folder is the cache folder of the asset at assetPath. Each asset path maps
// to its own folder.
func (c *Cache) Folder(assetPath string) string {
	p := strings.TrimPrefix(path.Clean("/"+assetPath), "/")
	p = strings.TrimSuffix(p, path.Ext(p))
	return url.Join(c.root, p)
}

// FileName is the cache file name of the i-th request.
func FileName(i int, kind Kind) string {
	return fmt.Sprintf("Temp_%s_%d.%s", Prefix(uint32(i)), i, kind.Ext())
}

// Generate runs the generator of every request and returns one artifact per
// request, in order. An artifact from previous is reused when the cache file
// already holds the generated text and the previous artifact has the same
// path and kind. Any error aborts the whole pass.
func (c *Cache) Generate(ctx context.Context, assetPath string, requests []Request, previous []*Artifact) ([]*Artifact, error) {
	logger := ctxlog.FromContext(ctx)

	old := make(map[string]*Artifact, len(previous))
	for _, a := range previous {
		if a != nil && !a.Released() {
			old[a.Path] = a
		}
	}

	folder := c.Folder(assetPath)
	if err := c.ensureFolder(ctx, folder); err != nil {
		return nil, err
	}

	out := make([]*Artifact, 0, len(requests))
	for i, req := range requests {
		gen, ok := c.generators[req.Generator]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownGenerator, req.Generator)
		}
		req.Index = i
		generated, err := gen.Generate(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("generator %q failed: %w", req.Generator, err)
		}

		kind := KindShader
		if generated.Compute {
			kind = KindCompute
		}
		target := url.Join(folder, FileName(i, kind))

		current, exists, err := c.read(ctx, target)
		if err != nil {
			return nil, err
		}
		if exists && current == generated.Text {
			if prev, ok := old[target]; ok && prev.Kind == kind {
				logger.Debug("Generated source unchanged, reusing artifact.", "path", target, "artifact", prev.ID)
				out = append(out, prev)
				continue
			}
		} else {
			if err := c.fs.Upload(ctx, target, file.DefaultFileOsMode, strings.NewReader(generated.Text)); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", target, err)
			}
			logger.Debug("Generated source written.", "path", target, "bytes", len(generated.Text))
		}

		imported, err := c.importer.Import(ctx, target, kind)
		if err != nil {
			return nil, err
		}
		logger.Debug("Generated source imported.", "path", target, "artifact", imported.ID)
		out = append(out, imported)
	}
	return out, nil
}

func (c *Cache) ensureFolder(ctx context.Context, folder string) error {
	exists, err := c.fs.Exists(ctx, folder)
	if err != nil {
		return fmt.Errorf("failed to check cache folder %s: %w", folder, err)
	}
	if exists {
		return nil
	}
	if err := c.fs.Create(ctx, folder, file.DefaultDirOsMode, true); err != nil {
		return fmt.Errorf("failed to create cache folder %s: %w", folder, err)
	}
	return nil
}

func (c *Cache) read(ctx context.Context, target string) (string, bool, error) {
	exists, err := c.fs.Exists(ctx, target)
	if err != nil {
		return "", false, fmt.Errorf("failed to check %s: %w", target, err)
	}
	if !exists {
		return "", false, nil
	}
	data, err := c.fs.DownloadWithURL(ctx, target)
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", target, err)
	}
	return string(data), true, nil
}
