package crawler

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"tsdoc/internal/errors"
	"tsdoc/internal/logger"
)

// Options controls which files Expand keeps.
type Options struct {
	// Exclude holds glob patterns matched against absolute and cwd-relative paths.
	Exclude             []string
	IncludeDeclarations bool
}

// Crawler expands entry points into the source files handed to the compiler.
type Crawler struct {
	fs      afero.Fs
	log     logger.Logger
	opts    Options
	ignored []string
}

// NewCrawler creates a crawler reading from fs. A nil fs means the OS file system.
func NewCrawler(fs afero.Fs, log logger.Logger, opts Options) *Crawler {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Crawler{
		fs:      fs,
		log:     log,
		opts:    opts,
		ignored: []string{".git", "node_modules"},
	}
}

// Expand resolves every entry point relative to cwd. Directories are
// walked, glob patterns are matched and plain files are taken as they are.
// Missing entry points are logged as errors and skipped.
func (c *Crawler) Expand(entryPoints []string, cwd string) ([]string, error) {
	var files []string
	seen := map[string]bool{}
	add := func(path string) {
		if !seen[path] && !c.excluded(path, cwd) {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, entry := range entryPoints {
		abs := entry
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(cwd, entry)
		}
		abs = filepath.ToSlash(abs)

		if hasMeta(abs) {
			if err := c.glob(abs, cwd, add); err != nil {
				return nil, err
			}
			continue
		}

		info, err := c.fs.Stat(abs)
		if err != nil {
			c.log.Error("entry point %s does not exist", entry)
			continue
		}
		if info.IsDir() {
			if err := c.walk(abs, cwd, func(path string) {
				if c.isSource(path) {
					add(path)
				}
			}); err != nil {
				return nil, err
			}
			continue
		}
		add(abs)
	}

	if len(files) == 0 {
		return nil, errors.WithHint(errors.ErrNoInputFiles, "check entryPoints and exclude")
	}
	return files, nil
}

func (c *Crawler) glob(pattern, cwd string, add func(string)) error {
	base, _ := doublestar.SplitPattern(pattern)
	if _, err := c.fs.Stat(base); err != nil {
		c.log.Warn("pattern %s matched no files", pattern)
		return nil
	}
	return c.walk(base, cwd, func(path string) {
		if ok, _ := doublestar.Match(pattern, path); ok && c.isSource(path) {
			add(path)
		}
	})
}

func (c *Crawler) walk(root, cwd string, visit func(path string)) error {
	err := afero.Walk(c.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		path = filepath.ToSlash(path)
		if info.IsDir() {
			if path != root && (c.isIgnored(info.Name()) || c.excluded(path, cwd)) {
				return filepath.SkipDir
			}
			return nil
		}
		visit(path)
		return nil
	})
	return errors.Wrapf(err, "walk %s", root)
}

func (c *Crawler) isIgnored(name string) bool {
	for _, ign := range c.ignored {
		if name == ign {
			return true
		}
	}
	return false
}

func (c *Crawler) isSource(path string) bool {
	if strings.HasSuffix(path, ".d.ts") {
		return c.opts.IncludeDeclarations
	}
	return strings.HasSuffix(path, ".ts") || strings.HasSuffix(path, ".tsx")
}

func (c *Crawler) excluded(path, cwd string) bool {
	if len(c.opts.Exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range c.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
