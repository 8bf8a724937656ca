// Package filter decides which paths are never scanned: path globs, file extensions and,
// optionally, vendored code.
package filter

import (
	"path"
	"strings"

	"github.com/gobwas/glob"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/src-d/enry/v2"
)

// DefaultPaths are excluded path globs. They are matched against the slash separated path
// relative to the scan root with a leading "/".
var DefaultPaths = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/package-lock.json",
	"**/yarn.lock",
	"**/pnpm-lock.yaml",
	"**/go.sum",
}

// DefaultExtensions are binary, media or otherwise uninteresting file types.
var DefaultExtensions = []string{
	// images
	"png", "jpg", "jpeg", "gif", "svg", "webp", "bmp", "tiff", "ico",
	// audio
	"mp3", "wav", "ogg", "flac", "aac", "m4a",
	// video
	"mp4", "mkv", "avi", "mov", "flv", "wmv", "webm",
	// archives and documents
	"zip", "gz", "tgz", "bz2", "xz", "7z", "rar", "tar", "jar", "war", "pdf",
	// fonts
	"woff", "woff2", "ttf", "otf", "eot",
	// compiled artifacts
	"bin", "rlp", "exe", "dll", "so", "dylib", "o", "a", "class", "pyc", "wasm",
	// lockfiles and logs
	"lock", "log",
}

type Filter struct {
	patterns     []string
	globs        []glob.Glob
	extensions   map[string]struct{}
	skipVendored bool
}

type Option func(*Filter)

// WithPaths adds excluded path globs.
func WithPaths(patterns ...string) Option {
	return func(x *Filter) {
		x.patterns = append(x.patterns, patterns...)
	}
}

// WithExtensions adds excluded extensions. A leading dot is optional and case is ignored.
func WithExtensions(exts ...string) Option {
	return func(x *Filter) {
		for _, ext := range exts {
			x.extensions[normalizeExt(ext)] = struct{}{}
		}
	}
}

// WithVendored excludes paths recognized as vendored or generated dependencies.
func WithVendored(skip bool) Option {
	return func(x *Filter) {
		x.skipVendored = skip
	}
}

// WithoutDefaults drops DefaultPaths and DefaultExtensions. Options given before it are lost.
func WithoutDefaults() Option {
	return func(x *Filter) {
		x.patterns = nil
		x.extensions = make(map[string]struct{})
	}
}

func New(options ...Option) (*Filter, error) {
	x := &Filter{
		patterns:   append([]string{}, DefaultPaths...),
		extensions: make(map[string]struct{}),
	}
	WithExtensions(DefaultExtensions...)(x)

	for _, opt := range options {
		opt(x)
	}

	for _, p := range x.patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, goerr.Wrap(types.ErrInvalidOption, "invalid path glob",
				goerr.V("pattern", p), goerr.V("error", err.Error()))
		}
		x.globs = append(x.globs, g)
	}

	return x, nil
}

// Default is New without options. The default globs always compile.
func Default() *Filter {
	x, err := New()
	if err != nil {
		panic(err)
	}
	return x
}

// Excluded reports whether the file at rel (slash separated, relative to the scan root) is
// never scanned.
func (x *Filter) Excluded(rel string) bool {
	return x.ExcludedExtension(rel) || x.match(rooted(rel)) || (x.skipVendored && enry.IsVendor(rel))
}

// ExcludedDir reports whether the whole directory rel can be skipped.
func (x *Filter) ExcludedDir(rel string) bool {
	if rel == "." || rel == "" {
		return false
	}
	dir := rooted(rel) + "/"
	return x.match(dir) || (x.skipVendored && enry.IsVendor(strings.TrimPrefix(dir, "/")))
}

func (x *Filter) ExcludedExtension(p string) bool {
	ext := path.Ext(p)
	if ext == "" {
		return false
	}
	_, ok := x.extensions[normalizeExt(ext)]
	return ok
}

// Patterns returns the effective path globs.
func (x *Filter) Patterns() []string {
	return append([]string{}, x.patterns...)
}

func (x *Filter) match(p string) bool {
	for _, g := range x.globs {
		if g.Match(p) {
			return true
		}
	}
	return false
}

func rooted(rel string) string {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	return "/" + rel
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
