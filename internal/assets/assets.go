// Package assets resolves image names to handles the map client can fetch.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Handle identifies an image. Missing is set when the image could not be
// found; the URL is still usable as a placeholder reference.
type Handle struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Digest  string `json:"digest,omitempty"`
	Missing bool   `json:"missing,omitempty"`
}

type Resolver struct {
	base   string
	fsys   fs.FS
	cache  *lru.Cache[string, Handle]
	logger *slog.Logger
}

type Option func(*Resolver)

// WithFS enables existence checks and content digests against fsys.
func WithFS(fsys fs.FS) Option {
	return func(r *Resolver) { r.fsys = fsys }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func New(baseURL string, cacheSize int, opts ...Option) *Resolver {
	if cacheSize <= 0 {
		cacheSize = 64
	}
	c, _ := lru.New[string, Handle](cacheSize)
	r := &Resolver{
		base:   strings.TrimRight(baseURL, "/"),
		cache:  c,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Resolver) Resolve(name string) Handle {
	if h, ok := r.cache.Get(name); ok {
		return h
	}
	h := r.resolve(name)
	r.cache.Add(name, h)
	return h
}

func (r *Resolver) resolve(name string) Handle {
	file := name + ".png"
	h := Handle{Name: name, URL: r.base + "/" + url.PathEscape(file)}
	if r.fsys == nil {
		return h
	}

	b, err := fs.ReadFile(r.fsys, file)
	if err != nil {
		h.Missing = true
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("asset read failed", "asset", name, "err", err)
		} else {
			r.logger.Warn("asset not found", "asset", name)
		}
		return h
	}
	h.Digest = fmt.Sprintf("%016x", xxhash.Sum64(b))
	h.URL += "?v=" + h.Digest
	return h
}

// Len reports the number of cached handles.
func (r *Resolver) Len() int { return r.cache.Len() }
