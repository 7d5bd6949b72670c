package ast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, name, src string) *SourceFile {
	t.Helper()
	file, err := Parse(context.Background(), name, []byte(src))
	require.NoError(t, err)
	return file
}

func TestParse_Declarations(t *testing.T) {
	src := `/**
 * Utilities.
 * @packageDocumentation
 */

/** Adds numbers. */
export function add(a: number, b = 2): number {
	return a + b;
}

export class Box<T> extends Base implements Shape {
	/** The value. */
	private value: T;
	static count = 0;
	constructor(public readonly label: string) {}
	get size(): number { return 1; }
}

export interface Shape extends Named<string> {
	area?: number;
	draw(scale: number): void;
	(x: string): void;
	[key: string]: any;
}

export type Pair = [string, number];
export enum Color { Red, Green = 4 }
export const { x, y: renamed } = point;
`
	file := parse(t, "/src/util.ts", src)
	require.Empty(t, file.ParseErrors)
	assert.True(t, file.IsExternalModule)
	assert.Contains(t, file.Comment, "@packageDocumentation")
	require.Len(t, file.Root.Statements, 6)

	t.Run("Function", func(t *testing.T) {
		fn := file.Root.Statements[0]
		assert.Equal(t, KindFunctionDeclaration, fn.Kind)
		assert.Equal(t, "add", fn.NameText())
		assert.True(t, fn.HasModifier(ModifierExport))
		assert.Contains(t, fn.Comment, "Adds numbers.")
		require.Len(t, fn.Parameters, 2)
		assert.Equal(t, "number", fn.Parameters[0].Type.Text)
		assert.Equal(t, "2", fn.Parameters[1].Initializer.Text)
		require.NotNil(t, fn.Body)
		require.Len(t, fn.Body.Elements, 1)
		assert.Equal(t, KindBinaryExpression, fn.Body.Elements[0].Kind)
	})

	t.Run("Class", func(t *testing.T) {
		cls := file.Root.Statements[1]
		assert.Equal(t, KindClassDeclaration, cls.Kind)
		require.Len(t, cls.TypeParameters, 1)
		assert.Equal(t, "T", cls.TypeParameters[0].NameText())
		require.Len(t, cls.HeritageClauses, 2)
		assert.Equal(t, HeritageExtends, cls.HeritageClauses[0].Token)
		assert.Equal(t, HeritageImplements, cls.HeritageClauses[1].Token)

		require.Len(t, cls.Members, 4)
		value := cls.Members[0]
		assert.Equal(t, KindPropertyDeclaration, value.Kind)
		assert.True(t, value.HasModifier(ModifierPrivate))
		assert.Contains(t, value.Comment, "The value.")
		assert.True(t, cls.Members[1].HasModifier(ModifierStatic))

		ctor := cls.Members[2]
		assert.Equal(t, KindConstructor, ctor.Kind)
		require.Len(t, ctor.Parameters, 1)
		assert.True(t, ctor.Parameters[0].IsParameterProperty())

		assert.Equal(t, KindGetAccessor, cls.Members[3].Kind)
	})

	t.Run("Interface", func(t *testing.T) {
		iface := file.Root.Statements[2]
		require.Len(t, iface.HeritageClauses, 1)
		require.Len(t, iface.HeritageClauses[0].Types, 1)
		assert.Len(t, iface.HeritageClauses[0].Types[0].TypeArguments, 1)

		kinds := []Kind{}
		for _, m := range iface.Members {
			kinds = append(kinds, m.Kind)
		}
		assert.Equal(t, []Kind{KindPropertySignature, KindMethodSignature, KindCallSignature, KindIndexSignature}, kinds)
		assert.True(t, iface.Members[0].HasModifier(FlagOptional))
	})

	t.Run("Alias and enum", func(t *testing.T) {
		alias := file.Root.Statements[3]
		assert.Equal(t, KindTupleType, alias.Type.Kind)
		assert.Len(t, alias.Type.Elements, 2)

		enum := file.Root.Statements[4]
		require.Len(t, enum.Members, 2)
		assert.Equal(t, "Green", enum.Members[1].NameText())
		assert.Equal(t, "4", enum.Members[1].Initializer.Text)
	})

	t.Run("Destructuring", func(t *testing.T) {
		stmt := file.Root.Statements[5]
		require.Len(t, stmt.Declarations, 1)
		pattern := stmt.Declarations[0].Name
		assert.Equal(t, KindObjectBindingPattern, pattern.Kind)
		require.Len(t, pattern.Elements, 2)
		assert.Equal(t, "x", pattern.Elements[0].NameText())
		assert.Equal(t, "renamed", pattern.Elements[1].NameText())
		assert.Equal(t, "y", pattern.Elements[1].PropertyName.Text)
	})
}

func TestParse_ImportsAndExports(t *testing.T) {
	src := `import Def, { A, B as C } from "./a";
import * as ns from "./b";
export { A as Renamed } from "./c";
export * from "./d";
`
	file := parse(t, "/src/index.ts", src)
	assert.Equal(t, []string{"./a", "./b", "./c", "./d"}, file.ModuleReferences)
	assert.Equal(t, []string{"./d"}, file.ExportStars)

	imp := file.Root.Statements[0]
	require.Len(t, imp.Elements, 3)
	assert.Equal(t, "Def", imp.Elements[0].NameText())
	assert.Equal(t, "default", imp.Elements[0].PropertyName.Text)
	assert.Equal(t, "C", imp.Elements[2].NameText())
	assert.Equal(t, "B", imp.Elements[2].PropertyName.Text)

	assert.Equal(t, KindNamespaceImport, file.Root.Statements[1].Elements[0].Kind)

	reexport := file.Root.Statements[2]
	assert.Equal(t, KindExportDeclaration, reexport.Kind)
	require.Len(t, reexport.Elements, 1)
	assert.Equal(t, "Renamed", reexport.Elements[0].NameText())
	assert.True(t, file.Root.Statements[3].HasModifier(FlagExportStar))
}

func TestParse_Namespaces(t *testing.T) {
	src := `namespace Outer.Inner {
	export const value = 1;
}
declare module "ext" {
	export function f(): void;
}
`
	file := parse(t, "/src/ns.ts", src)
	assert.False(t, file.IsExternalModule)
	require.Len(t, file.Root.Statements, 2)

	outer := file.Root.Statements[0]
	assert.Equal(t, "Outer", outer.NameText())
	require.NotNil(t, outer.Body)
	inner := outer.Body.Statements[0]
	assert.Equal(t, "Inner", inner.NameText())
	assert.True(t, inner.HasModifier(ModifierExport))
	assert.Len(t, inner.Body.Statements, 1)

	ambient := file.Root.Statements[1]
	assert.True(t, ambient.HasModifier(FlagStringName))
	assert.True(t, ambient.HasModifier(ModifierDeclare))
	assert.Equal(t, "ext", ambient.NameText())
}

func TestParse_Types(t *testing.T) {
	src := `type T = string | number[] | (() => void) | { a: 1 } | "lit" | Map<string, Foo.Bar>;`
	file := parse(t, "/src/types.ts", src)
	alias := file.Root.Statements[0]
	require.Equal(t, KindUnionType, alias.Type.Kind)

	kinds := []Kind{}
	for _, tp := range alias.Type.Types {
		kinds = append(kinds, tp.Kind)
	}
	assert.Equal(t, []Kind{KindKeywordType, KindArrayType, KindParenthesizedType, KindTypeLiteral, KindLiteralType, KindTypeReference}, kinds)
	generic := alias.Type.Types[5]
	assert.Equal(t, "Map", generic.Name.Text)
	require.Len(t, generic.TypeArguments, 2)
	assert.Equal(t, "Foo.Bar", generic.TypeArguments[1].Name.Text)
}

func TestParse_SyntaxErrors(t *testing.T) {
	file := parse(t, "/src/bad.ts", "export class {{{ ")
	assert.NotEmpty(t, file.ParseErrors)
}

func TestParse_ParentsAndText(t *testing.T) {
	file := parse(t, "/src/p.ts", "export interface I { a: string }")
	iface := file.Root.Statements[0]
	member := iface.Members[0]
	assert.Same(t, iface, member.Parent)
	assert.Same(t, file, member.File)
	assert.Equal(t, "a: string", member.GetText())
	assert.Equal(t, "/src/p", file.ModuleName())
}
