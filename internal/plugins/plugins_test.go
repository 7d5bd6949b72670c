package plugins

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsdoc/internal/checker"
	"tsdoc/internal/converter"
	"tsdoc/internal/errors"
	"tsdoc/internal/git"
	"tsdoc/internal/models"
)

var errNoRepository = errors.New("no repository")

type fixture struct {
	fs   afero.Fs
	opts converter.Options
	cfg  Config
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, text := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(text), 0o644))
	}
	return &fixture{
		fs:   fs,
		opts: converter.Options{Name: "test", Mode: converter.ModeFile},
		cfg: Config{
			FS: fs,
			OpenRepository: func(string, string) (*git.Repository, error) {
				return nil, errNoRepository
			},
		},
	}
}

func (f *fixture) convert(t *testing.T, roots ...string) *models.ProjectReflection {
	t.Helper()
	c := converter.New(f.opts, nil)
	registry, err := NewDefaultRegistry(f.cfg)
	require.NoError(t, err)
	registry.AttachAll(c)

	program, err := checker.NewProgram(context.Background(), roots, checker.Options{}, checker.NewHost(f.fs, "/src"))
	require.NoError(t, err)
	result := c.Convert(context.Background(), program)
	require.NotNil(t, result.Project)
	return result.Project
}

func convertSource(t *testing.T, source string) *models.ProjectReflection {
	t.Helper()
	return newFixture(t, map[string]string{"/src/a.ts": source}).convert(t, "a.ts")
}

func child(t *testing.T, parent models.Container, name string) *models.DeclarationReflection {
	t.Helper()
	r := parent.Container().ChildByName(name)
	require.NotNil(t, r, "child %s", name)
	return r
}

func groupTitles(groups []*models.ReflectionGroup) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.Title)
	}
	return out
}

type namedPlugin string

func (n namedPlugin) Name() string { return string(n) }

func (n namedPlugin) Attach(*converter.Converter) {}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(namedPlugin("b")))
	require.NoError(t, r.Register(namedPlugin("a")))
	assert.Error(t, r.Register(namedPlugin("a")))
	assert.Equal(t, []string{"a", "b"}, r.List())

	p, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, "b", p.Name())

	defaults, err := NewDefaultRegistry(Config{})
	require.NoError(t, err)
	assert.Len(t, defaults.List(), 10)
}

func TestBasePath(t *testing.T) {
	var b basePath
	b.add("/src/lib/a.ts")
	b.add("/src/lib/sub/b.ts")
	assert.Equal(t, "a.ts", b.trim("/src/lib/a.ts"))
	assert.Equal(t, "sub/b.ts", b.trim("/src/lib/sub/b.ts"))

	b.add("/src/other/c.ts")
	assert.Equal(t, "lib/a.ts", b.trim("/src/lib/a.ts"))
	assert.Equal(t, "other/c.ts", b.trim("/src/other/c.ts"))
}

func TestGroupPlugin(t *testing.T) {
	project := convertSource(t, `
function run(): void {}
let count = 1;
interface Shape { area(): number }
class Square {
  static unit(): Square { return new Square(1); }
  constructor(public side: number) {}
  grow(): void {}
  area(): number { return 0; }
}
`)

	assert.Equal(t, []string{"Classes", "Interfaces", "Variables", "Functions"}, groupTitles(project.Groups))

	square := child(t, project, "Square")
	assert.Equal(t, []string{"Constructors", "Properties", "Methods"}, groupTitles(square.Groups))

	var names []string
	for _, c := range square.Children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"constructor", "side", "area", "grow", "unit"}, names, "instance members sort before static ones")

	methods := square.Groups[2]
	assert.Equal(t, models.KindMethod, methods.Kind)
	assert.False(t, methods.AllChildrenAreInherited)
}

func TestSourcePlugin(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/src/lib/a.ts":      "\nexport class A {}\n",
		"/src/lib/util/b.ts": "export function b(): void {}\n",
	})
	project := f.convert(t, "lib/a.ts", "lib/util/b.ts")

	a := child(t, project, "A")
	require.Len(t, a.Sources, 1)
	assert.Equal(t, "a.ts", a.Sources[0].FileName)
	assert.Equal(t, 2, a.Sources[0].Line)
	assert.Equal(t, 13, a.Sources[0].Character)

	b := child(t, project, "b")
	require.Len(t, b.Sources, 1)
	assert.Equal(t, "util/b.ts", b.Sources[0].FileName)
	require.Len(t, b.Signatures, 1)
	assert.NotEmpty(t, b.Signatures[0].Sources)

	require.Len(t, project.Files, 2)
	fileA := a.Sources[0].File
	assert.Equal(t, "/src/lib/a.ts", fileA.FullFileName)
	assert.Equal(t, "a.ts", fileA.Name)
	assert.Contains(t, fileA.Reflections, models.Reflection(a))
	assert.Equal(t, []string{"Classes"}, groupTitles(fileA.Groups))

	assert.Equal(t, []*models.SourceFile{fileA}, project.Directory.Files)
	assert.Equal(t, []string{"util"}, project.Directory.DirectoryNames())
	util := project.Directory.Directories["util"]
	require.Len(t, util.Files, 1)
	assert.Equal(t, "util/b.ts", util.Files[0].FileName)
}

func TestGitSourcePlugin(t *testing.T) {
	f := newFixture(t, map[string]string{"/src/a.ts": "export class A {}\n"})
	opened := 0
	f.cfg.OpenRepository = func(dir, revision string) (*git.Repository, error) {
		opened++
		assert.Equal(t, "/src", dir)
		assert.Equal(t, "v1.0.0", revision)
		return git.NewRepository("/src", "git@github.com:acme/widgets.git", revision, []string{"a.ts"}), nil
	}
	f.cfg.GitRevision = "v1.0.0"
	project := f.convert(t, "a.ts")

	a := child(t, project, "A")
	require.Len(t, a.Sources, 1)
	assert.Equal(t, "https://github.com/acme/widgets/blob/v1.0.0/a.ts#L1", a.Sources[0].URL)
	assert.Equal(t, "https://github.com/acme/widgets/blob/v1.0.0/a.ts", a.Sources[0].File.URL)
	assert.Equal(t, 1, opened, "the repository is opened once per run")
}

func TestGitSourcePlugin_OutsideRepository(t *testing.T) {
	project := convertSource(t, "export class A {}\n")
	a := child(t, project, "A")
	require.Len(t, a.Sources, 1)
	assert.Empty(t, a.Sources[0].URL)
}

func TestDynamicModulePlugin(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/src/lib/a.ts":     "export const a = 1;",
		"/src/lib/sub/b.ts": "export const b = 2;",
	})
	f.opts.Mode = converter.ModeModules
	project := f.convert(t, "lib/a.ts", "lib/sub/b.ts")

	var names []string
	for _, m := range project.ChildrenByKind(models.KindExternalModule) {
		names = append(names, m.Name)
	}
	assert.ElementsMatch(t, []string{`"a"`, `"sub/b"`}, names)
}

func TestPackagePlugin(t *testing.T) {
	files := map[string]string{
		"/package.json":  `{"name": "widgets", "version": "v1.2.3"}`,
		"/src/README.md": "# Widgets\n",
		"/src/a.ts":      "export const a = 1;",
	}

	t.Run("name version and readme", func(t *testing.T) {
		f := newFixture(t, files)
		f.opts.Name = ""
		project := f.convert(t, "a.ts")
		assert.Equal(t, "widgets", project.Name)
		assert.Equal(t, "widgets", project.PackageName)
		assert.Equal(t, "1.2.3", project.PackageVersion)
		assert.Equal(t, "# Widgets\n", project.Readme)
	})

	t.Run("option name wins and readme can be disabled", func(t *testing.T) {
		f := newFixture(t, files)
		f.cfg.Readme = "none"
		project := f.convert(t, "a.ts")
		assert.Equal(t, "test", project.Name)
		assert.Empty(t, project.Readme)
	})

	t.Run("invalid version and missing package", func(t *testing.T) {
		f := newFixture(t, map[string]string{
			"/src/package.json": `{"name": "odd", "version": "not a version"}`,
			"/src/a.ts":         "export const a = 1;",
		})
		project := f.convert(t, "a.ts")
		assert.Empty(t, project.PackageVersion)

		bare := newFixture(t, map[string]string{"/src/a.ts": "export const a = 1;"})
		bare.opts.Name = ""
		assert.Equal(t, DefaultProjectName, bare.convert(t, "a.ts").Name)
	})
}

func TestTypePlugin_ResolvesReferences(t *testing.T) {
	project := convertSource(t, `type Name = string; let n: Name; class Foo {} let f: Foo; let m: Missing;`)

	alias := child(t, project, "Name")
	n := child(t, project, "n").Type.(*models.ReferenceType)
	assert.Same(t, alias, n.Reflection())

	foo := child(t, project, "Foo")
	f := child(t, project, "f").Type.(*models.ReferenceType)
	assert.Same(t, foo, f.Reflection())

	m := child(t, project, "m").Type.(*models.ReferenceType)
	assert.Nil(t, m.Reflection())
	assert.Equal(t, models.ResolveByName{Name: "Missing"}, m.State)
}

func TestTypePlugin_ByNameLeftUnresolved(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/src/main.ts":  `export type X = import("./other").Y;`,
		"/src/other.ts": `export { Impl as Y } from "./third";`,
		"/src/third.ts": `export interface Impl { a: string }`,
	})
	project := f.convert(t, "main.ts", "other.ts", "third.ts")

	ref := child(t, project, "X").Type.(*models.ReferenceType)
	assert.Nil(t, ref.Reflection())
	assert.Equal(t, models.ResolveByName{Name: "Y"}, ref.State)
}

func TestTypePlugin_RenamedImportLeftUnresolved(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/src/main.ts":  "import { Impl as Y } from \"./third\";\nexport let y: Y;",
		"/src/third.ts": `export interface Impl { a: string }`,
	})
	project := f.convert(t, "main.ts", "third.ts")

	ref, ok := child(t, project, "y").Type.(*models.ReferenceType)
	require.True(t, ok)
	assert.Nil(t, ref.Reflection())
	assert.Equal(t, models.ResolveByName{Name: "Y"}, ref.State)
}

func TestTypePlugin_Hierarchy(t *testing.T) {
	project := convertSource(t, `interface Shape {} class Base implements Shape {} class Child extends Base {}`)

	shape := child(t, project, "Shape")
	base := child(t, project, "Base")
	derived := child(t, project, "Child")

	require.Len(t, derived.ExtendedTypes, 1)
	assert.Same(t, base, derived.ExtendedTypes[0].(*models.ReferenceType).Reflection())
	require.Len(t, base.ExtendedBy, 1)
	assert.Same(t, derived, base.ExtendedBy[0].(*models.ReferenceType).Reflection())
	require.Len(t, shape.ImplementedBy, 1)
	assert.Same(t, base, shape.ImplementedBy[0].(*models.ReferenceType).Reflection())

	h := base.TypeHierarchy
	require.NotNil(t, h)
	assert.True(t, h.IsTarget)
	assert.Equal(t, "Base", h.Types[0].String())
	require.NotNil(t, h.Next)
	assert.Equal(t, "Child", h.Next.Types[0].String())

	h = derived.TypeHierarchy
	require.NotNil(t, h)
	assert.False(t, h.IsTarget)
	assert.Equal(t, "Base", h.Types[0].String())
	require.NotNil(t, h.Next)
	assert.True(t, h.Next.IsTarget)
	assert.Nil(t, h.Next.Next)
}
