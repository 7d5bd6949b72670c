package crawler

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsdoc/internal/errors"
	"tsdoc/internal/logger"
)

func sourceTree(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, name := range []string{
		"/src/index.ts",
		"/src/view.tsx",
		"/src/types.d.ts",
		"/src/readme.md",
		"/src/lib/a.ts",
		"/src/lib/a.spec.ts",
		"/src/lib/gen/out.ts",
		"/src/node_modules/dep/index.ts",
		"/src/.git/hooks.ts",
	} {
		require.NoError(t, afero.WriteFile(fs, name, []byte("export {};"), 0o644))
	}
	return fs
}

func TestCrawler_Expand(t *testing.T) {
	fs := sourceTree(t)

	t.Run("directory", func(t *testing.T) {
		c := NewCrawler(fs, nil, Options{})
		files, err := c.Expand([]string{"."}, "/src")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			"/src/index.ts", "/src/view.tsx", "/src/lib/a.ts", "/src/lib/a.spec.ts", "/src/lib/gen/out.ts",
		}, files)
	})

	t.Run("declarations and excludes", func(t *testing.T) {
		c := NewCrawler(fs, nil, Options{
			IncludeDeclarations: true,
			Exclude:             []string{"**/*.spec.ts", "lib/gen"},
		})
		files, err := c.Expand([]string{"/src"}, "/src")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			"/src/index.ts", "/src/view.tsx", "/src/types.d.ts", "/src/lib/a.ts",
		}, files)
	})

	t.Run("globs and plain files", func(t *testing.T) {
		c := NewCrawler(fs, nil, Options{})
		files, err := c.Expand([]string{"lib/**/*.ts", "index.ts", "lib/a.ts"}, "/src")
		require.NoError(t, err)
		assert.Equal(t, []string{"/src/lib/a.spec.ts", "/src/lib/a.ts", "/src/lib/gen/out.ts", "/src/index.ts"}, files)
	})
}

func TestCrawler_MissingEntries(t *testing.T) {
	log := logger.NewNop()
	c := NewCrawler(sourceTree(t), log, Options{})

	files, err := c.Expand([]string{"missing.ts", "index.ts"}, "/src")
	require.NoError(t, err)
	assert.Equal(t, []string{"/src/index.ts"}, files)
	assert.Equal(t, 1, log.ErrorCount())

	_, err = c.Expand([]string{"nothing/**/*.ts"}, "/src")
	assert.True(t, errors.Is(err, errors.ErrNoInputFiles))
}
