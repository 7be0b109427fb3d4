// SPDX-License-Identifier: EPL-2.0

package asset

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/spatial/audio"
	"github.com/ik5/spatial/formats/aiff"
	"github.com/ik5/spatial/formats/flac"
	"github.com/ik5/spatial/formats/mp3"
	"github.com/ik5/spatial/formats/vorbis"
	"github.com/ik5/spatial/formats/wav"
	"github.com/ik5/spatial/internal/log"
)

// DefaultDecoders returns a registry with every bundled format.
func DefaultDecoders() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("flac", flac.Decoder{})
	return r
}

// Loader decodes files into a Store.
type Loader struct {
	decoders *audio.Registry
	store    *Store
}

// NewLoader uses DefaultDecoders when decoders is nil.
func NewLoader(store *Store, decoders *audio.Registry) *Loader {
	if decoders == nil {
		decoders = DefaultDecoders()
	}
	return &Loader{decoders: decoders, store: store}
}

func (l *Loader) Store() *Store { return l.store }

// Supported reports whether path has a registered extension.
func (l *Loader) Supported(path string) bool {
	_, ok := l.decoders.Lookup(filepath.Ext(path))
	return ok
}

// Decode reads path fully into memory. It returns a nil buffer and nil error
// when no decoder handles the file's extension.
func (l *Loader) Decode(path string) (*audio.Buffer, error) {
	dec, ok := l.decoders.Lookup(filepath.Ext(path))
	if !ok {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer src.Close()

	b, err := audio.ReadAll(src, 0)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return b, nil
}

// Load decodes path and stores it under HandleFor(path). ok is false when
// the file is unsupported or fails to decode; failures are logged.
func (l *Loader) Load(path string) (h Handle, ok bool) {
	b, err := l.Decode(path)
	if err != nil {
		log.Warn(log.CatAsset, "asset not loaded", "path", path, "err", err)
		return Handle{}, false
	}
	if b == nil {
		log.Debug(log.CatAsset, "no decoder for file", "path", path)
		return Handle{}, false
	}

	h = HandleFor(path)
	l.store.Set(h, b)
	log.Debug(log.CatAsset, "asset loaded",
		"path", path, "handle", h,
		"rate", b.SampleRate, "channels", b.Channels, "duration", b.Duration())

	return h, true
}

// LoadFolder loads every supported file below dir concurrently. The result
// maps paths relative to dir (slash separated) to handles. Files that fail
// to decode are logged and left out.
func (l *Loader) LoadFolder(ctx context.Context, dir string) (map[string]Handle, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !l.Supported(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}

	var (
		mu      sync.Mutex
		handles = make(map[string]Handle, len(paths))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			h, ok := l.Load(path)
			if !ok {
				return nil
			}

			rel, err := filepath.Rel(dir, path)
			if err != nil {
				rel = path
			}
			mu.Lock()
			handles[filepath.ToSlash(rel)] = h
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// only cancellation gets here; keep what finished
		return handles, err
	}

	log.Info(log.CatAsset, "folder loaded", "dir", dir, "assets", len(handles), "files", len(paths))
	return handles, nil
}
