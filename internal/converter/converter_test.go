package converter

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsdoc/internal/ast"
	"tsdoc/internal/checker"
	"tsdoc/internal/event"
	"tsdoc/internal/models"
)

func newTestProgram(t *testing.T, files map[string]string, roots ...string) *checker.Program {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, text := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(text), 0o644))
	}
	program, err := checker.NewProgram(context.Background(), roots, checker.Options{}, checker.NewHost(fs, "/src"))
	require.NoError(t, err)
	return program
}

func convertWith(t *testing.T, c *Converter, files map[string]string, roots ...string) *Result {
	t.Helper()
	result := c.Convert(context.Background(), newTestProgram(t, files, roots...))
	require.NotNil(t, result.Project)
	return result
}

// convertSource converts a single file in file mode so declarations land
// directly on the project.
func convertSource(t *testing.T, source string) *models.ProjectReflection {
	t.Helper()
	c := New(Options{Name: "test", Mode: ModeFile}, nil)
	return convertWith(t, c, map[string]string{"/src/a.ts": source}, "a.ts").Project
}

func child(t *testing.T, parent models.Container, name string) *models.DeclarationReflection {
	t.Helper()
	r := parent.Container().ChildByName(name)
	require.NotNil(t, r, "child %s", name)
	return r
}

func referenceName(t *testing.T, typ models.Type) string {
	t.Helper()
	ref, ok := typ.(*models.ReferenceType)
	require.True(t, ok, "expected a reference, got %T", typ)
	return ref.Name
}

func TestConvert_InheritedMember(t *testing.T) {
	project := convertSource(t, `class Base { foo(): void {} } class Child extends Base {}`)

	base := child(t, project, "Base")
	derived := child(t, project, "Child")

	foo := child(t, derived, "foo")
	assert.Equal(t, models.KindMethod, foo.Kind)
	require.NotNil(t, foo.InheritedFrom)
	assert.Equal(t, "Base.foo", referenceName(t, foo.InheritedFrom))
	assert.Nil(t, foo.Overwrites)
	require.Len(t, foo.Signatures, 1)
	assert.NotNil(t, foo.Signatures[0].InheritedFrom)

	own := child(t, base, "foo")
	assert.NotSame(t, own, foo)
	assert.Nil(t, own.InheritedFrom)

	require.Len(t, derived.ExtendedTypes, 1)
	assert.Equal(t, "Base", referenceName(t, derived.ExtendedTypes[0]))
}

func TestConvert_OverwrittenMember(t *testing.T) {
	project := convertSource(t, `class Base { foo(): void {} } class Child extends Base { foo(): void {} }`)

	derived := child(t, project, "Child")
	var foos []*models.DeclarationReflection
	for _, c := range derived.Children {
		if c.Name == "foo" {
			foos = append(foos, c)
		}
	}
	require.Len(t, foos, 1)
	assert.Nil(t, foos[0].InheritedFrom)
	require.NotNil(t, foos[0].Overwrites)
	assert.Equal(t, "Base.foo", referenceName(t, foos[0].Overwrites))
}

func TestConvert_Overloads(t *testing.T) {
	c := New(Options{Mode: ModeFile}, nil)
	var implementations []*ast.Node
	c.On(EventFunctionImplementation, ReflectionHandler(func(_ *Context, r models.Reflection, node *ast.Node) {
		assert.Equal(t, "f", r.Base().Name)
		implementations = append(implementations, node)
	}), nil, 0)

	project := convertWith(t, c, map[string]string{
		"/src/a.ts": `function f(a: number): void; function f(a: string): void; function f(a: any): void {}`,
	}, "a.ts").Project

	f := child(t, project, "f")
	assert.Equal(t, models.KindFunction, f.Kind)
	require.Len(t, f.Signatures, 2)
	assert.Equal(t, "number", f.Signatures[0].Parameters[0].Type.String())
	assert.Equal(t, "string", f.Signatures[1].Parameters[0].Type.String())
	assert.Equal(t, "void", f.Signatures[0].Type.String())

	require.Len(t, implementations, 1)
	assert.NotNil(t, implementations[0].Body)
}

func TestConvert_ImportTypeThroughRenamedExport(t *testing.T) {
	c := New(Options{Mode: ModeFile}, nil)
	project := convertWith(t, c, map[string]string{
		"/src/main.ts":  `export type X = import("./other").Y;`,
		"/src/other.ts": `export { Impl as Y } from "./third";`,
		"/src/third.ts": `export interface Impl { a: string }`,
	}, "main.ts", "other.ts", "third.ts").Project

	x := child(t, project, "X")
	ref, ok := x.Type.(*models.ReferenceType)
	require.True(t, ok)
	assert.Equal(t, models.ResolveByName{Name: "Y"}, ref.State)
	assert.Nil(t, ref.Reflection())
}

func TestConvert_TypeAliasReferenceByName(t *testing.T) {
	project := convertSource(t, `type Name = string; let n: Name; class Foo {} let f: Foo;`)

	n := child(t, project, "n")
	ref, ok := n.Type.(*models.ReferenceType)
	require.True(t, ok)
	assert.Equal(t, models.ResolveByName{Name: "Name"}, ref.State)

	alias := child(t, project, "Name")
	assert.Equal(t, models.KindTypeAlias, alias.Kind)
	assert.Equal(t, "string", alias.Type.String())

	f := child(t, project, "f")
	fooRef, ok := f.Type.(*models.ReferenceType)
	require.True(t, ok)
	id, pending := fooRef.SymbolID()
	require.True(t, pending)
	assert.Same(t, child(t, project, "Foo"), project.ReflectionForSymbol(id))
}

func TestConvert_DestructuredVariables(t *testing.T) {
	project := convertSource(t, `
const obj = { a: 1, b: 2 };
const { a, b: renamed } = obj;
const [first, [second]] = [1, [2]];
`)

	for _, name := range []string{"a", "renamed", "first", "second"} {
		r := child(t, project, name)
		assert.True(t, r.KindOf(models.KindVariableOrProperty), name)
	}
	assert.Nil(t, project.ChildByName("b"))
	assert.Nil(t, project.ChildByName("__namedParameters"))
}

func TestConvert_InheritanceCycleTerminates(t *testing.T) {
	project := convertSource(t, `
class A extends B { a(): void {} }
class B extends A { b(): void {} }
`)
	a := child(t, project, "A")
	b := child(t, project, "B")
	assert.NotNil(t, child(t, a, "b").InheritedFrom)
	assert.NotNil(t, child(t, b, "a").InheritedFrom)
}

func TestConvert_DiamondProvenance(t *testing.T) {
	project := convertSource(t, `
interface A { a: string }
interface B extends A { b: string }
interface C extends A { c: string }
interface D extends B, C { d: string }
`)
	d := child(t, project, "D")

	names := map[string]int{}
	for _, c := range d.Children {
		names[c.Name]++
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1, "d": 1}, names)

	for _, name := range []string{"a", "b", "c"} {
		m := child(t, d, name)
		assert.NotNil(t, m.InheritedFrom, name)
		assert.Nil(t, m.Overwrites, name)
	}
	assert.Equal(t, "A.a", referenceName(t, child(t, d, "a").InheritedFrom))
	own := child(t, d, "d")
	assert.Nil(t, own.InheritedFrom)
	assert.Nil(t, own.Overwrites)
}

func TestConvert_PrivateMembersAreNotInherited(t *testing.T) {
	project := convertSource(t, `
class Base {
  private p: number;
  q: number;
}
class Child extends Base {}
`)
	base := child(t, project, "Base")
	c := child(t, project, "Child")
	assert.NotNil(t, base.ChildByName("p"))
	assert.Nil(t, c.ChildByName("p"))
	assert.Equal(t, "Base.q", referenceName(t, child(t, c, "q").InheritedFrom))
}

func TestConvert_ParameterPropertyProvenance(t *testing.T) {
	t.Run("inherited", func(t *testing.T) {
		project := convertSource(t, `
class Base { constructor(public x: number) {} }
class Child extends Base {}
`)
		x := child(t, child(t, project, "Child"), "x")
		assert.Equal(t, "Base.x", referenceName(t, x.InheritedFrom))
		assert.Nil(t, x.Overwrites)
	})

	t.Run("redeclared by a property", func(t *testing.T) {
		project := convertSource(t, `
class Base { constructor(public x: number) {} }
class Child extends Base { x: number = 1; }
`)
		x := child(t, child(t, project, "Child"), "x")
		assert.Equal(t, "Base.x", referenceName(t, x.Overwrites))
		assert.Nil(t, x.InheritedFrom)
	})

	t.Run("redeclared as parameter property", func(t *testing.T) {
		project := convertSource(t, `
class Base { x: number; }
class Child extends Base { constructor(public x: number) { super(); } }
`)
		x := child(t, child(t, project, "Child"), "x")
		assert.Equal(t, "Base.x", referenceName(t, x.Overwrites))
		assert.Nil(t, x.InheritedFrom)
	})
}

func TestConvert_GenericBaseBindsTypeArguments(t *testing.T) {
	project := convertSource(t, `class Box<T> { value: T } class StrBox extends Box<string> {}`)

	box := child(t, project, "Box")
	require.Len(t, box.TypeParameters, 1)
	assert.Equal(t, "T", box.TypeParameters[0].Name)
	_, isParam := child(t, box, "value").Type.(*models.TypeParameterType)
	assert.True(t, isParam)

	str := child(t, project, "StrBox")
	assert.Empty(t, str.TypeParameters)
	assert.Equal(t, "string", child(t, str, "value").Type.String())
	require.Len(t, str.ExtendedTypes, 1)
	assert.Equal(t, "Box<string>", str.ExtendedTypes[0].String())
}

func TestConvert_MergedDeclarations(t *testing.T) {
	project := convertSource(t, `
interface I { a: string }
interface I { b: number }
class Box { size = 1 }
namespace Box { export const size = 2; }
`)

	i := child(t, project, "I")
	assert.Len(t, i.Children, 2)

	box := child(t, project, "Box")
	assert.Equal(t, models.KindClass, box.Kind)
	assertUniqueSiblings(t, project)

	var static, instance int
	for _, c := range box.Children {
		if c.Name != "size" {
			continue
		}
		if c.Flags.IsStatic() {
			static++
		} else {
			instance++
		}
	}
	assert.Equal(t, 1, static)
	assert.Equal(t, 1, instance)
}

func assertUniqueSiblings(t *testing.T, project *models.ProjectReflection) {
	t.Helper()
	for pair := project.Reflections.Oldest(); pair != nil; pair = pair.Next() {
		container, ok := pair.Value.(models.Container)
		if !ok {
			continue
		}
		type key struct {
			name   string
			static bool
		}
		seen := map[key]bool{}
		for _, c := range container.Container().Children {
			k := key{c.Name, c.Flags.IsStatic()}
			assert.False(t, seen[k], "duplicate %s in %s", c.Name, pair.Value.Base().Name)
			seen[k] = true
		}
	}
}

func TestConvert_ConstructorAndParameterProperties(t *testing.T) {
	source := `class Point { constructor(public x: number, private y: number, z: string) {} }`

	point := child(t, convertSource(t, source), "Point")
	ctor := child(t, point, "constructor")
	assert.Equal(t, models.KindConstructor, ctor.Kind)
	require.Len(t, ctor.Signatures, 1)
	sig := ctor.Signatures[0]
	assert.Equal(t, "new Point", sig.Name)
	assert.Len(t, sig.Parameters, 3)
	ref, ok := sig.Type.(*models.ReferenceType)
	require.True(t, ok)
	assert.Same(t, point, ref.Reflection())

	x := child(t, point, "x")
	assert.Equal(t, models.KindProperty, x.Kind)
	assert.False(t, x.Flags.IsStatic())
	assert.True(t, x.Flags.Has(models.FlagConstructorProperty))
	assert.Equal(t, "number", x.Type.String())
	assert.True(t, child(t, point, "y").Flags.IsPrivate())
	assert.Nil(t, point.ChildByName("z"))

	c := New(Options{Mode: ModeFile, ExcludePrivate: true}, nil)
	project := convertWith(t, c, map[string]string{"/src/a.ts": source}, "a.ts").Project
	point = child(t, project, "Point")
	assert.NotNil(t, point.ChildByName("x"))
	assert.Nil(t, point.ChildByName("y"))
}

func TestConvert_SignaturesAccessorsAndLiterals(t *testing.T) {
	project := convertSource(t, `
interface Dict { [key: string]: number; }
class Acc { get v(): number { return 1; } set v(x: number) {} }
const config = { port: 80, host: "x" };
let cb: (a: string) => void;
let shape: { w: number };
const add = (a: number, b: number) => a + b;
`)

	dict := child(t, project, "Dict")
	require.NotNil(t, dict.IndexSignature)
	assert.Equal(t, "__index", dict.IndexSignature.Name)
	require.Len(t, dict.IndexSignature.Parameters, 1)
	assert.Equal(t, "string", dict.IndexSignature.Parameters[0].Type.String())
	assert.Equal(t, "number", dict.IndexSignature.Type.String())

	v := child(t, child(t, project, "Acc"), "v")
	assert.Equal(t, models.KindAccessor, v.Kind)
	assert.NotNil(t, v.GetSignature)
	assert.NotNil(t, v.SetSignature)

	config := child(t, project, "config")
	assert.Equal(t, models.KindObjectLiteral, config.Kind)
	assert.Equal(t, "object", config.Type.String())
	assert.Equal(t, "80", child(t, config, "port").DefaultValue)
	assert.Equal(t, `"x"`, child(t, config, "host").DefaultValue)

	cb := child(t, project, "cb")
	fn, ok := cb.Type.(*models.ReflectionType)
	require.True(t, ok)
	assert.Equal(t, models.KindTypeLiteral, fn.Declaration.Kind)
	require.Len(t, fn.Declaration.Signatures, 1)
	assert.Equal(t, "__call", fn.Declaration.Signatures[0].Name)
	assert.Equal(t, "a", fn.Declaration.Signatures[0].Parameters[0].Name)

	shape := child(t, project, "shape")
	lit, ok := shape.Type.(*models.ReflectionType)
	require.True(t, ok)
	assert.Equal(t, "number", child(t, lit.Declaration, "w").Type.String())

	add := child(t, project, "add")
	assert.Equal(t, models.KindFunction, add.Kind)
	require.Len(t, add.Signatures, 1)
	assert.Equal(t, "add", add.Signatures[0].Name)
	assert.Len(t, add.Signatures[0].Parameters, 2)
}

func TestConvert_EnumValues(t *testing.T) {
	project := convertSource(t, `enum Color { Red, Green = 5, Blue, Name = "n" }`)

	color := child(t, project, "Color")
	assert.Equal(t, models.KindEnum, color.Kind)
	want := map[string]string{"Red": "0", "Green": "5", "Blue": "6", "Name": `"n"`}
	for name, value := range want {
		m := child(t, color, name)
		assert.Equal(t, models.KindEnumMember, m.Kind)
		assert.Equal(t, value, m.DefaultValue, name)
	}
}

func TestConvert_ModulesModeAndExports(t *testing.T) {
	c := New(Options{Name: "lib", ExcludeNotExported: true}, nil)
	result := convertWith(t, c, map[string]string{
		"/src/util.ts": `export function add(a: number, b = 2): number { return a + b; }
function hidden() {}`,
	}, "util.ts")
	assert.Empty(t, result.Diagnostics)

	module := child(t, result.Project, `"/src/util"`)
	assert.Equal(t, models.KindExternalModule, module.Kind)
	assert.True(t, module.Flags.IsExported())
	assert.Nil(t, module.ChildByName("hidden"))

	add := child(t, module, "add")
	require.Len(t, add.Signatures, 1)
	params := add.Signatures[0].Parameters
	require.Len(t, params, 2)
	assert.Equal(t, "number", params[0].Type.String())
	assert.Equal(t, "2", params[1].DefaultValue)
	assert.True(t, params[1].Flags.Has(models.FlagDefaultValue))
	assert.Equal(t, "number", add.Signatures[0].Type.String())
}

func TestConvert_ExportAssignment(t *testing.T) {
	c := New(Options{}, nil)
	project := convertWith(t, c, map[string]string{
		"/src/lib.ts": `function helper() {} export = helper;`,
	}, "lib.ts").Project

	helper := child(t, child(t, project, `"/src/lib"`), "helper")
	assert.True(t, helper.Flags.IsExported())
	assert.True(t, helper.Flags.Has(models.FlagExportAssignment))
}

func TestConvert_ExcludeAndExternalPatterns(t *testing.T) {
	files := map[string]string{
		"/src/a.ts":        `export class A {}`,
		"/src/gen/skip.ts": `export class Skipped {}`,
		"/src/vendor/v.ts": `export class V {}`,
	}
	roots := []string{"a.ts", "gen/skip.ts", "vendor/v.ts"}

	c := New(Options{Mode: ModeFile, Exclude: []string{"**/gen/**"}, ExternalPattern: []string{"**/vendor/**"}}, nil)
	project := convertWith(t, c, files, roots...).Project
	assert.Nil(t, project.ChildByName("Skipped"))
	assert.False(t, child(t, project, "A").Flags.IsExternal())
	assert.True(t, child(t, project, "V").Flags.IsExternal())

	c = New(Options{Mode: ModeFile, ExternalPattern: []string{"**/vendor/**"}, ExcludeExternals: true}, nil)
	project = convertWith(t, c, files, roots...).Project
	assert.Nil(t, project.ChildByName("V"))
	assert.NotNil(t, project.ChildByName("Skipped"))
}

func TestConvert_IdentityAndResolveCoverage(t *testing.T) {
	c := New(Options{Mode: ModeFile}, nil)
	resolved := map[int]int{}
	c.On(EventResolve, ReflectionHandler(func(_ *Context, r models.Reflection, _ *ast.Node) {
		resolved[r.Base().ID]++
	}), nil, 0)

	var order []string
	for _, name := range []string{EventBegin, EventResolveBegin, EventResolveEnd, EventEnd} {
		name := name
		c.On(name, func(...any) event.Action {
			order = append(order, name)
			return event.Continue
		}, nil, 0)
	}

	project := convertWith(t, c, map[string]string{
		"/src/a.ts": `
class Base<T> { foo(x: T): T { return x; } }
class Child extends Base<number> { constructor(public n: number) { super(); } }
let shape: { w: number };
enum E { A }
`,
	}, "a.ts").Project
	assert.Equal(t, []string{EventBegin, EventResolveBegin, EventResolveEnd, EventEnd}, order)

	ids := map[int]bool{}
	for pair := project.Reflections.Oldest(); pair != nil; pair = pair.Next() {
		assert.Equal(t, pair.Key, pair.Value.Base().ID)
		assert.False(t, ids[pair.Key])
		ids[pair.Key] = true
	}
	assert.False(t, ids[0])
	for pair := project.SymbolMapping.Oldest(); pair != nil; pair = pair.Next() {
		assert.True(t, ids[pair.Value], "symbol %d maps to unknown reflection %d", pair.Key, pair.Value)
	}

	var walk func(r models.Reflection)
	walk = func(r models.Reflection) {
		r.Traverse(func(c models.Reflection, _ models.TraverseProperty) {
			assert.Equal(t, 1, resolved[c.Base().ID], "%s resolved", c.Base().Name)
			walk(c)
		})
	}
	walk(project)
}

func TestConvert_IDsRestartPerRun(t *testing.T) {
	c := New(Options{Mode: ModeFile}, nil)
	files := map[string]string{"/src/a.ts": `class A { b(): void {} }`}

	first := convertWith(t, c, files, "a.ts").Project
	second := convertWith(t, c, files, "a.ts").Project
	assert.Equal(t, child(t, first, "A").ID, child(t, second, "A").ID)
	assert.Equal(t, 1, child(t, second, "A").ID)
}

func TestConvert_Diagnostics(t *testing.T) {
	c := New(Options{Mode: ModeFile}, nil)
	result := convertWith(t, c, map[string]string{"/src/a.ts": `let a: Missing;`}, "a.ts")
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, checker.CodeCannotFindName, result.Diagnostics[0].Code)

	a := child(t, result.Project, "a")
	ref, ok := a.Type.(*models.ReferenceType)
	require.True(t, ok)
	assert.Equal(t, models.ResolveByName{Name: "Missing"}, ref.State)
}
