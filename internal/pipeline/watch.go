package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"tsdoc/internal/errors"
	"tsdoc/internal/options"
)

// Watch runs the pipeline once, then again whenever a source file in a
// watched directory changes, until ctx is done. Events arriving within
// Debounce of each other trigger a single run. Watching needs the OS file
// system because events come from the kernel.
func (p *Pipeline) Watch(ctx context.Context, onRun func(*Result, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer watcher.Close()

	watched := map[string]bool{}
	watch := func(dirs []string) {
		for _, dir := range dirs {
			if watched[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				p.Log.Warn("cannot watch %s: %v", dir, err)
				continue
			}
			watched[dir] = true
		}
	}
	run := func() {
		res, err := p.Run(ctx)
		onRun(res, err)
		watch(p.watchDirs(res))
	}

	run()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			p.Log.Verbose("%s changed", ev.Name)
			if timer == nil {
				timer = time.NewTimer(p.Debounce)
			} else {
				timer.Reset(p.Debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.Log.Warn("watch: %v", err)
		case <-fire:
			fire = nil
			p.Log.ResetErrors()
			run()
		}
	}
}

// watchDirs returns the directories holding the converted files and the
// entry points themselves, so new files show up even after a failed run.
func (p *Pipeline) watchDirs(res *Result) []string {
	var dirs []string
	if res != nil {
		for _, f := range res.Files {
			dirs = append(dirs, filepath.Dir(f))
		}
	}
	for _, entry := range p.Options.Strings(options.EntryPoints) {
		path := p.abs(entry)
		if i := strings.IndexAny(path, "*?[{"); i >= 0 {
			path = filepath.Dir(path[:i])
		}
		if info, err := p.FS.Stat(path); err == nil && !info.IsDir() {
			path = filepath.Dir(path)
		}
		dirs = append(dirs, path)
	}
	return dirs
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := ev.Name
	return strings.HasSuffix(name, ".ts") || strings.HasSuffix(name, ".tsx")
}
