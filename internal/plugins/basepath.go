package plugins

import (
	"path"
	"path/filepath"
	"strings"
)

// basePath tracks the common directories of a set of file names so they
// can be shown relative to them. Names sharing a leading segment with a
// known base shrink that base to the common prefix; others add a base.
type basePath struct {
	bases []string
}

func (b *basePath) add(fileName string) {
	dir := path.Dir(filepath.ToSlash(fileName))
	parts := strings.Split(dir, "/")
	for i, base := range b.bases {
		baseParts := strings.Split(base, "/")
		common := 0
		for common < len(baseParts) && common < len(parts) && baseParts[common] == parts[common] {
			common++
		}
		if common > 0 {
			b.bases[i] = strings.Join(baseParts[:common], "/")
			return
		}
	}
	b.bases = append(b.bases, dir)
}

func (b *basePath) trim(fileName string) string {
	fileName = filepath.ToSlash(fileName)
	for _, base := range b.bases {
		prefix := base
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		if strings.HasPrefix(fileName, prefix) {
			return fileName[len(prefix):]
		}
	}
	return fileName
}

func (b *basePath) reset() { b.bases = nil }
