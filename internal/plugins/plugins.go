// Package plugins enriches the converted model by listening on the
// converter's events: doc comments, decorators, groups, source locations,
// package metadata and the linking of references done during resolve.
package plugins

import (
	"sort"
	"sync"

	"github.com/spf13/afero"

	"tsdoc/internal/converter"
	"tsdoc/internal/errors"
	"tsdoc/internal/git"
	"tsdoc/internal/logger"
)

// Plugin subscribes to a converter's events.
type Plugin interface {
	Name() string
	Attach(c *converter.Converter)
}

// Config carries the option values plugins read.
type Config struct {
	// FS is where package.json and readme files are looked up.
	FS     afero.Fs
	Logger logger.Logger

	// Readme is a path to the readme, or "none" to skip readme discovery.
	Readme             string
	GitRevision        string
	SourceLinkTemplate string
	// OpenRepository finds the git repository containing a directory.
	// Defaults to git.Open.
	OpenRepository func(dir, revision string) (*git.Repository, error)
}

func (cfg Config) withDefaults() Config {
	if cfg.FS == nil {
		cfg.FS = afero.NewOsFs()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.OpenRepository == nil {
		cfg.OpenRepository = git.Open
	}
	return cfg
}

// Defaults returns the built-in plugins in attach order.
func Defaults(cfg Config) []Plugin {
	cfg = cfg.withDefaults()
	return []Plugin{
		NewCommentPlugin(),
		NewDecoratorPlugin(),
		NewDeepCommentPlugin(),
		NewDynamicModulePlugin(),
		NewGitSourcePlugin(cfg),
		NewGroupPlugin(),
		NewImplementsPlugin(),
		NewPackagePlugin(cfg),
		NewSourcePlugin(),
		NewTypePlugin(),
	}
}

// Registry keeps plugins by name and attaches them in registration order.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds p. Names must be unique.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.plugins[name]; exists {
		return errors.Newf("plugin already registered: %s", name)
	}
	r.plugins[name] = p
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a plugin by name.
func (r *Registry) Get(name string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[name]
	return p, ok
}

// List returns the registered plugin names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// AttachAll attaches every plugin to c in registration order, which is
// also the order handlers of equal priority run in.
func (r *Registry) AttachAll(c *converter.Converter) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order {
		r.plugins[name].Attach(c)
	}
}

// NewDefaultRegistry registers the built-in plugins.
func NewDefaultRegistry(cfg Config) (*Registry, error) {
	r := NewRegistry()
	for _, p := range Defaults(cfg) {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}
