package options

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"tsdoc/internal/errors"
	"tsdoc/internal/logger"
)

func newOptions(t *testing.T) (*Options, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return New(logger.NewWithCore(core)), logs
}

func memFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, text := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(text), 0o644))
	}
	return fs
}

func TestOptions_Defaults(t *testing.T) {
	o, _ := newOptions(t)

	assert.Equal(t, "modules", o.String(Mode))
	assert.Equal(t, "info", o.String(LogLevel))
	assert.True(t, o.Bool(Schema))
	assert.False(t, o.Bool(ExcludePrivate))
	assert.Empty(t, o.Strings(EntryPoints))
	assert.False(t, o.IsSet(Mode))

	d, ok := o.Declaration("EXCLUDEEXTERNALS")
	require.True(t, ok)
	assert.Equal(t, KindBool, d.Kind)

	assert.Error(t, o.AddDeclaration(Declaration{Name: "mode"}))
	require.NoError(t, o.AddDeclaration(Declaration{Name: "depth", Kind: KindNumber, Default: 2}))
	assert.Equal(t, 2, o.Int("depth"))
}

func TestOptions_SetValue(t *testing.T) {
	o, _ := newOptions(t)

	require.NoError(t, o.SetValue("excludePrivate", "true"))
	assert.True(t, o.Bool(ExcludePrivate))

	require.NoError(t, o.SetValue(Exclude, "**/*.spec.ts, **/test/**"))
	assert.Equal(t, []string{"**/*.spec.ts", "**/test/**"}, o.Strings(Exclude))

	require.NoError(t, o.SetValue(EntryPoints, []any{"src", "lib"}))
	assert.Equal(t, []string{"src", "lib"}, o.Strings(EntryPoints))

	err := o.SetValue("bogus", 1)
	assert.True(t, errors.Is(err, errors.ErrUnknownOption))

	err = o.SetValue(ExcludePrivate, "perhaps")
	assert.True(t, errors.Is(err, errors.ErrInvalidOptionValue))
}

func TestOptions_ReadFile(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/p/tsdoc.yaml": "name: Widgets\nexclude:\n  - '**/*.spec.ts'\nexcludePrivate: true\n",
		"/p/tsdoc.toml": "name = \"Gadgets\"\nmode = \"file\"\n",
		"/p/tsdoc.json": `{"json": "out/docs.json", "excludeExternals": true}`,
	})

	for _, tc := range []struct {
		file  string
		check func(t *testing.T, o *Options)
	}{
		{"/p/tsdoc.yaml", func(t *testing.T, o *Options) {
			assert.Equal(t, "Widgets", o.String(Name))
			assert.Equal(t, []string{"**/*.spec.ts"}, o.Strings(Exclude))
			assert.True(t, o.Bool(ExcludePrivate))
		}},
		{"/p/tsdoc.toml", func(t *testing.T, o *Options) {
			assert.Equal(t, "Gadgets", o.String(Name))
			assert.Equal(t, "file", o.String(Mode))
		}},
		{"/p/tsdoc.json", func(t *testing.T, o *Options) {
			assert.Equal(t, "out/docs.json", o.String(JSON))
			assert.True(t, o.Bool(ExcludeExternals))
		}},
	} {
		t.Run(tc.file, func(t *testing.T) {
			o, _ := newOptions(t)
			o.ReadFile(fs, tc.file)
			assert.False(t, o.HasErrors())
			tc.check(t, o)
		})
	}
}

func TestOptions_ErrorsAreCollected(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/p/a.yaml": "unknownOne: 1\nname: kept\nunknownTwo: 2\nexcludePrivate: maybe\n",
		"/p/b.json": `{"broken": `,
	})
	o, logs := newOptions(t)

	o.ReadFile(fs, "/p/a.yaml")
	o.ReadFile(fs, "/p/b.json")
	o.ReadFile(fs, "/p/missing.yaml")
	o.ReadFile(fs, "/p/c.ini")

	assert.Equal(t, "kept", o.String(Name), "reading continues past bad entries")
	assert.True(t, o.HasErrors())
	assert.Equal(t, 6, o.Logger().ErrorCount())
	assert.Len(t, logs.FilterLevelExact(zapcore.ErrorLevel).All(), 6)
	assert.Len(t, logs.FilterMessageSnippet("unknown option").All(), 2)
}

func TestOptions_ReadEnv(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/p/.env": "TSDOC_NAME=from-dotenv\nTSDOC_MODE=file\nTSDOC_NOPE=1\nOTHER=ignored\n",
	})
	t.Setenv("TSDOC_NAME", "from-env")
	t.Setenv("TSDOC_EXCLUDEPRIVATE", "1")

	o, logs := newOptions(t)
	o.ReadEnv(fs, "/p/.env")

	assert.Equal(t, "from-env", o.String(Name), "the process environment wins over dotenv")
	assert.Equal(t, "file", o.String(Mode))
	assert.True(t, o.Bool(ExcludePrivate))
	assert.Equal(t, 1, o.Logger().ErrorCount())
	assert.Len(t, logs.FilterMessageSnippet("nope").All(), 1)

	clean, _ := newOptions(t)
	clean.ReadEnv(fs, "/p/absent.env")
	assert.False(t, clean.HasErrors())
}

func TestOptions_Flags(t *testing.T) {
	o, _ := newOptions(t)
	flags := pflag.NewFlagSet("convert", pflag.ContinueOnError)
	flags.Bool("watch", false, "")
	o.BindFlags(flags)

	require.NoError(t, flags.Parse([]string{
		"--name", "Cli", "--excludeNotExported", "--exclude", "a/**", "--exclude", "b/**", "--watch",
	}))
	o.ReadFlags(flags)

	assert.Equal(t, "Cli", o.String(Name))
	assert.True(t, o.Bool(ExcludeNotExported))
	assert.Equal(t, []string{"a/**", "b/**"}, o.Strings(Exclude))
	assert.False(t, o.IsSet(Mode), "unchanged flags keep the default")
	assert.False(t, o.HasErrors())
}

func TestOptions_Read(t *testing.T) {
	fs := memFS(t, map[string]string{
		"/p/tsdoc.yaml":        "name: file\nmode: file\n",
		"/p/tsconfig.json":     `{"include": ["src/**/*.ts"], "exclude": ["src/gen"], "compilerOptions": {"noLib": true}}`,
		"/q/tsconfig.json":     `{"files": ["index.ts"]}`,
		"/q/bad/tsconfig.json": `{"files": [`,
	})

	t.Run("precedence", func(t *testing.T) {
		o, _ := newOptions(t)
		flags := pflag.NewFlagSet("convert", pflag.ContinueOnError)
		o.BindFlags(flags)
		require.NoError(t, flags.Parse([]string{"--name", "flag", "--tsconfig", "/p/tsconfig.json"}))

		o.Read(fs, Sources{Files: []string{"/p/tsdoc.yaml"}, Flags: flags})

		assert.Equal(t, "flag", o.String(Name))
		assert.Equal(t, "file", o.String(Mode))
		assert.Equal(t, []string{"/p/src/**/*.ts"}, o.Strings(EntryPoints))
		assert.Equal(t, []string{"/p/src/gen"}, o.Strings(Exclude))
		assert.True(t, o.Bool(NoLib))
		assert.False(t, o.HasErrors())
	})

	t.Run("arguments take priority over tsconfig files", func(t *testing.T) {
		o, _ := newOptions(t)
		require.NoError(t, o.SetValue(TSConfig, "/q/tsconfig.json"))
		o.Read(fs, Sources{Args: []string{"main.ts"}})
		assert.Equal(t, []string{"main.ts"}, o.Strings(EntryPoints))

		o2, _ := newOptions(t)
		require.NoError(t, o2.SetValue(TSConfig, "/q/tsconfig.json"))
		o2.Read(fs, Sources{})
		assert.Equal(t, []string{"/q/index.ts"}, o2.Strings(EntryPoints))
	})

	t.Run("broken tsconfig", func(t *testing.T) {
		o, _ := newOptions(t)
		require.NoError(t, o.SetValue(TSConfig, "/q/bad/tsconfig.json"))
		o.Read(fs, Sources{})
		assert.Equal(t, 1, o.Logger().ErrorCount())
	})
}

func TestOptions_Digest(t *testing.T) {
	a, _ := newOptions(t)
	b, _ := newOptions(t)
	assert.Equal(t, a.Digest(), b.Digest())
	assert.Len(t, a.Digest(), 64)

	require.NoError(t, b.SetValue(Name, "other"))
	assert.NotEqual(t, a.Digest(), b.Digest())
}
