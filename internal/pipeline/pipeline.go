// Package pipeline runs one documentation pass: expand the entry points,
// convert them with the default plugins, export JSON and record the run.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"tsdoc/internal/checker"
	"tsdoc/internal/converter"
	"tsdoc/internal/crawler"
	"tsdoc/internal/errors"
	"tsdoc/internal/git"
	"tsdoc/internal/logger"
	"tsdoc/internal/models"
	"tsdoc/internal/options"
	"tsdoc/internal/plugins"
	"tsdoc/internal/serializer"
	"tsdoc/internal/storage"
)

// Pipeline holds what a run needs besides the options.
type Pipeline struct {
	FS      afero.Fs
	Cwd     string
	Options *options.Options
	Log     logger.Logger

	// OpenStore opens the run history. Defaults to a SQLite store.
	OpenStore func(path string) (storage.Store, error)
	// OpenRepository is handed to the git source plugin. Defaults to git.Open.
	OpenRepository func(dir, revision string) (*git.Repository, error)
	Now            func() time.Time
	// Debounce groups file events in Watch.
	Debounce time.Duration
}

// Result describes one run. Fields are filled as far as the run got.
type Result struct {
	Files       []string
	Project     *models.ProjectReflection
	Diagnostics []checker.Diagnostic
	RunID       string
	Duration    time.Duration
}

// New creates a pipeline reporting through the options' logger.
func New(fs afero.Fs, cwd string, opts *options.Options) *Pipeline {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Pipeline{
		FS:      fs,
		Cwd:     cwd,
		Options: opts,
		Log:     opts.Logger(),
		OpenStore: func(path string) (storage.Store, error) {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, errors.Wrapf(err, "create directory for %s", path)
			}
			return storage.NewSQLiteStore(path)
		},
		Now:      time.Now,
		Debounce: 100 * time.Millisecond,
	}
}

func (p *Pipeline) abs(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.Cwd, path)
}

// Run performs one pass. Compiler diagnostics are logged as errors and,
// unless ignoreCompilerErrors is set, end the run with ErrCompilerErrors
// after it was recorded.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := p.Now()
	res := &Result{}

	files, err := p.expandStage()
	if err != nil {
		return res, err
	}
	res.Files = files

	if err := p.convertStage(ctx, res); err != nil {
		return res, err
	}
	res.Duration = p.Now().Sub(started)

	failed := len(res.Diagnostics) > 0 && !p.Options.Bool(options.IgnoreCompilerErrors)
	if !failed {
		if err := p.exportStage(res.Project); err != nil {
			return res, err
		}
	}

	if err := p.recordStage(ctx, res, started, failed); err != nil {
		return res, err
	}

	if failed {
		return res, errors.WithHint(
			errors.Wrapf(errors.ErrCompilerErrors, "%d diagnostics", len(res.Diagnostics)),
			"fix the reported errors or set ignoreCompilerErrors",
		)
	}
	p.Log.Success("documented %d reflections from %d files", res.Project.Reflections.Len(), len(files))
	return res, nil
}

func (p *Pipeline) expandStage() ([]string, error) {
	c := crawler.NewCrawler(p.FS, p.Log, crawler.Options{
		Exclude:             p.Options.Strings(options.Exclude),
		IncludeDeclarations: p.Options.Bool(options.IncludeDeclarations),
	})
	files, err := c.Expand(p.Options.Strings(options.EntryPoints), p.Cwd)
	if err != nil {
		return nil, err
	}
	p.Log.Verbose("expanded entry points to %d files", len(files))
	return files, nil
}

func (p *Pipeline) convertStage(ctx context.Context, res *Result) error {
	o := p.Options
	conv := converter.New(converter.Options{
		Name:                o.String(options.Name),
		Mode:                o.String(options.Mode),
		Exclude:             o.Strings(options.Exclude),
		ExternalPattern:     o.Strings(options.ExternalPattern),
		IncludeDeclarations: o.Bool(options.IncludeDeclarations),
		ExcludeExternals:    o.Bool(options.ExcludeExternals),
		ExcludeNotExported:  o.Bool(options.ExcludeNotExported),
		ExcludePrivate:      o.Bool(options.ExcludePrivate),
		ExcludeProtected:    o.Bool(options.ExcludeProtected),
	}, p.Log)

	registry, err := plugins.NewDefaultRegistry(plugins.Config{
		FS:                 p.FS,
		Logger:             p.Log,
		Readme:             p.readme(),
		GitRevision:        o.String(options.GitRevision),
		SourceLinkTemplate: o.String(options.SourceLinkTemplate),
		OpenRepository:     p.OpenRepository,
	})
	if err != nil {
		return err
	}
	registry.AttachAll(conv)

	host := checker.NewHost(p.FS, p.Cwd)
	result, err := conv.ConvertFiles(ctx, res.Files, host, checker.Options{NoLib: o.Bool(options.NoLib)})
	if err != nil {
		return err
	}
	res.Project = result.Project
	res.Diagnostics = result.Diagnostics
	logger.Diagnostics(p.Log, result.Diagnostics)
	return nil
}

func (p *Pipeline) readme() string {
	readme := p.Options.String(options.Readme)
	if readme == "none" {
		return readme
	}
	return p.abs(readme)
}

func (p *Pipeline) exportStage(project *models.ProjectReflection) error {
	out := p.Options.String(options.JSON)
	if out == "" {
		return nil
	}
	if err := serializer.Export(p.FS, p.abs(out), project, p.Options.Bool(options.Schema)); err != nil {
		return err
	}
	p.Log.Write("JSON written to %s", out)
	return nil
}

// recordStage saves the run when a store is configured. A failed run is
// saved with its diagnostics and without reflections.
func (p *Pipeline) recordStage(ctx context.Context, res *Result, started time.Time, failed bool) error {
	path := p.Options.String(options.Store)
	if path == "" {
		return nil
	}
	store, err := p.OpenStore(p.abs(path))
	if err != nil {
		return errors.Wrap(err, "open run history")
	}
	defer store.Close()

	diagnostics := make([]string, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		diagnostics = append(diagnostics, d.String())
	}
	project := res.Project
	if failed {
		project = nil
	}
	run := storage.NewRun(project, p.Options.Digest(), diagnostics, started, res.Duration)
	if err := store.SaveRun(ctx, run); err != nil {
		return errors.Wrap(err, "record run")
	}
	res.RunID = run.ID
	p.Log.Verbose("recorded run %s", run.ID)
	return nil
}
