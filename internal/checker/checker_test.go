package checker

import (
	"context"
	"testing"

	"tsdoc/internal/ast"
	"tsdoc/internal/errors"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProgram(t *testing.T, files map[string]string, roots ...string) *Program {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, text := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(text), 0o644))
	}
	program, err := NewProgram(context.Background(), roots, Options{}, NewHost(fs, "/src"))
	require.NoError(t, err)
	return program
}

func findDecl(t *testing.T, file *ast.SourceFile, name string) *ast.Node {
	t.Helper()
	var found *ast.Node
	ast.Walk(file.Root, func(n *ast.Node) bool {
		if found == nil && n.NameText() == name && n.Kind != ast.KindIdentifier {
			found = n
		}
		return found == nil
	})
	require.NotNil(t, found, "declaration %s", name)
	return found
}

func TestProgram_FollowsImports(t *testing.T) {
	program := newTestProgram(t, map[string]string{
		"/src/main.ts":  `import { Y } from "./other"; export const v: Y = null;`,
		"/src/other.ts": `export { Impl as Y } from "./third";`,
		"/src/third.ts": `export interface Impl { a: string }`,
	}, "main.ts")

	names := []string{}
	for _, f := range program.SourceFiles() {
		names = append(names, f.FileName)
	}
	assert.Equal(t, []string{"/src/main.ts", "/src/other.ts", "/src/third.ts"}, names)
	assert.Equal(t, []string{"/src/main.ts"}, program.RootFileNames())
	assert.Empty(t, program.SyntacticDiagnostics())
	assert.Empty(t, program.GlobalDiagnostics())
	assert.Empty(t, program.SemanticDiagnostics())

	c := program.TypeChecker()
	v := findDecl(t, program.SourceFile("/src/main.ts"), "v")
	typ, err := c.GetTypeAtLocation(v)
	require.NoError(t, err)
	require.NotNil(t, typ.Symbol)
	assert.Equal(t, "Impl", typ.Symbol.Name)
	assert.Equal(t, `"/src/third".Impl`, c.GetFullyQualifiedName(typ.Symbol))
	assert.Equal(t, "Impl", c.SymbolToString(typ.Symbol))
	assert.Positive(t, typ.Symbol.ID)
}

func TestProgram_Diagnostics(t *testing.T) {
	program := newTestProgram(t, map[string]string{
		"/src/a.ts": `import { X } from "./missing";
let a: Unknown;
class Dup {}
class Dup {}
`,
	}, "a.ts", "nope.ts")

	global := program.GlobalDiagnostics()
	require.Len(t, global, 1)
	assert.Equal(t, CodeFileNotFound, global[0].Code)

	codes := []int{}
	for _, d := range program.SemanticDiagnostics() {
		codes = append(codes, d.Code)
	}
	assert.ElementsMatch(t, []int{CodeCannotFindModule, CodeCannotFindName, CodeDuplicateIdentifier}, codes)

	bad := newTestProgram(t, map[string]string{"/src/b.ts": "class {"}, "b.ts")
	require.NotEmpty(t, bad.SyntacticDiagnostics())
	assert.Contains(t, bad.SyntacticDiagnostics()[0].String(), "/src/b.ts(")
}

func TestChecker_MergedDeclarations(t *testing.T) {
	program := newTestProgram(t, map[string]string{
		"/src/m.ts": `
function f(a: number): void;
function f(a: string): void;
function f(a: any): void {}
class Box {}
namespace Box { export const size = 1; }
class Acc { get v(): number { return 1; } set v(x: number) {} }
`,
	}, "m.ts")
	require.Empty(t, program.SemanticDiagnostics())

	file := program.SourceFile("m.ts")
	fn := findDecl(t, file, "f")
	assert.Len(t, fn.Symbol.Declarations, 3)

	box := findDecl(t, file, "Box")
	assert.True(t, box.Symbol.Has(ast.SymbolClass))
	assert.True(t, box.Symbol.Has(ast.SymbolValueModule))
	assert.NotNil(t, box.Symbol.Exports.Get("size"))

	acc := findDecl(t, file, "Acc")
	v := acc.Symbol.Members.Get("v")
	require.NotNil(t, v)
	assert.Len(t, v.Declarations, 2)
	assert.Equal(t, "number", program.TypeChecker().TypeToString(program.TypeChecker().GetTypeOfSymbol(v)))
}

func TestChecker_TypeQueries(t *testing.T) {
	program := newTestProgram(t, map[string]string{
		"/src/t.ts": `
export interface Point { x: number }
export const origin = { x: 0 };
export const name = "n";
export let count = 1;
export const list: Array<Point> = [];
export const pair: [string, Point] = null;
export const either: string | number[] = null;
export function mk<T extends Point>(p: T): T { return p; }
export const fn = (a: number) => a;
export const inst = new Map();
export const broken = someCall()[0];
export type Alias = Point;
`,
	}, "t.ts")
	c := program.TypeChecker()
	file := program.SourceFile("t.ts")

	typeOf := func(name string) *Type {
		typ, err := c.GetTypeAtLocation(findDecl(t, file, name))
		require.NoError(t, err, name)
		return typ
	}

	assert.Equal(t, "{ x: number; }", c.TypeToString(typeOf("origin")))
	assert.True(t, typeOf("origin").Symbol.Has(ast.SymbolObjectLiteral))
	assert.Equal(t, `"n"`, c.TypeToString(typeOf("name")))
	assert.Equal(t, "number", c.TypeToString(typeOf("count")))
	assert.True(t, c.IsArrayType(typeOf("list")))
	assert.Equal(t, "Point[]", c.TypeToString(typeOf("list")))
	assert.Equal(t, "[string, Point]", c.TypeToString(typeOf("pair")))
	assert.Equal(t, "string | number[]", c.TypeToString(typeOf("either")))
	assert.Equal(t, "(a: number) => number", c.TypeToString(typeOf("fn")))
	assert.Equal(t, "Point", c.TypeToString(typeOf("Alias")))

	mk := findDecl(t, file, "mk")
	ret := c.GetReturnTypeOfDeclaration(mk)
	assert.True(t, ret.Is(TypeTypeParameter))
	assert.Equal(t, "Point", c.TypeToString(ret.Constraint))

	_, err := c.GetTypeAtLocation(findDecl(t, file, "broken").Initializer)
	assert.True(t, errors.Is(err, errors.ErrTypeQuery))
}

func TestChecker_EnumConstants(t *testing.T) {
	program := newTestProgram(t, map[string]string{
		"/src/e.ts": `enum E { A, B, C = 10, D, E = C * 2, F = "f", G = -1, H = 1 << 3 }`,
	}, "e.ts")
	c := program.TypeChecker()
	enum := findDecl(t, program.SourceFile("e.ts"), "E")

	want := []any{0.0, 1.0, 10.0, 11.0, 20.0, "f", -1.0, 8.0}
	require.Len(t, enum.Members, len(want))
	for i, m := range enum.Members {
		v, ok := c.GetConstantValue(m)
		require.True(t, ok, m.NameText())
		assert.Equal(t, want[i], v, m.NameText())
	}
	assert.Equal(t, "10", FormatNumber(10))
}

func TestChecker_ExportStarAndNamespaces(t *testing.T) {
	program := newTestProgram(t, map[string]string{
		"/src/index.ts": `export * from "./lib"; import * as ns from "./lib"; export type T = ns.Inner.Deep;`,
		"/src/lib.ts":   `export namespace Inner { export interface Deep {} } export default class Main {}`,
	}, "index.ts")
	c := program.TypeChecker()
	index := program.SourceFile("index.ts")

	names := []string{}
	for _, sym := range c.GetExportsOfModule(index.Symbol) {
		names = append(names, sym.Name)
	}
	assert.Equal(t, []string{"T", "Inner"}, names)

	alias := findDecl(t, index, "T")
	typ, err := c.GetTypeAtLocation(alias)
	require.NoError(t, err)
	assert.Equal(t, "Inner.Deep", c.TypeToString(typ))
	assert.Equal(t, `"/src/lib".Inner.Deep`, c.GetFullyQualifiedName(typ.Symbol))

	lib := program.SourceFile("lib.ts")
	main := lib.Symbol.Exports.Get("default")
	require.NotNil(t, main)
	assert.Equal(t, "Main", main.Name)
}
