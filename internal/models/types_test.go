package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestType_StringForms(t *testing.T) {
	str := NewIntrinsicType("string")
	num := NewIntrinsicType("number")

	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"intrinsic", NewIntrinsicType("void"), "void"},
		{"tuple", NewTupleType([]Type{str, num}), "[string, number]"},
		{"union", NewUnionType([]Type{str, num}), "string | number"},
		{"intersection", NewIntersectionType([]Type{str, num}), "string & number"},
		{"string literal", &StringLiteralType{Value: "a"}, `"a"`},
		{"type parameter", &TypeParameterType{Name: "T"}, "T"},
		{"unknown", NewUnknownType("typeof x"), "typeof x"},
		{"reference with args", &ReferenceType{
			Name:          "Map",
			State:         Unresolved{SymbolID: -3},
			TypeArguments: []Type{str, num},
		}, "Map<string, number>"},
		{"object literal", NewReflectionType(NewDeclarationReflection("__type", KindTypeLiteral, nil)), "object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
			assert.NotEmpty(t, tt.typ.ToObject()["type"])
		})
	}
}

func TestType_ArrayFlag(t *testing.T) {
	str := NewIntrinsicType("string")
	str.SetArray(true)
	assert.Equal(t, "string[]", str.String())
	assert.Equal(t, true, str.ToObject()["isArray"])

	union := NewUnionType([]Type{NewIntrinsicType("a"), NewIntrinsicType("b")})
	union.SetArray(true)
	assert.Equal(t, "(a | b)[]", union.String())

	tuple := NewTupleType([]Type{NewIntrinsicType("a")})
	tuple.SetArray(true)
	assert.Equal(t, "[a][]", tuple.String())

	_, has := NewIntrinsicType("x").ToObject()["isArray"]
	assert.False(t, has)
}

func TestReflectionType_FunctionForm(t *testing.T) {
	decl := NewDeclarationReflection("__type", KindTypeLiteral, nil)
	decl.Signatures = append(decl.Signatures, NewSignatureReflection("__call", KindCallSignature, decl))
	assert.Equal(t, "function", NewReflectionType(decl).String())
}

func TestReferenceType_States(t *testing.T) {
	project := NewProjectReflection("p")
	target := NewDeclarationReflection("Target", KindClass, project)

	ref := NewReferenceType("Alias", 12)
	id, pending := ref.SymbolID()
	assert.True(t, pending)
	assert.Equal(t, 12, id)
	assert.Nil(t, ref.Reflection())
	_, hasID := ref.ToObject()["id"]
	assert.False(t, hasID)

	ref.State = Resolved{Target: target}
	assert.Equal(t, "Target", ref.String())
	obj := ref.ToObject()
	assert.Equal(t, target.ID, obj["id"])
	assert.Equal(t, "Alias", obj["name"])

	byName := NewReferenceByName("Y")
	_, pending = byName.SymbolID()
	assert.False(t, pending)
	assert.Equal(t, ResolveByName{Name: "Y"}, byName.State)
}

func TestType_Clone(t *testing.T) {
	orig := &ReferenceType{Name: "A", State: Unresolved{SymbolID: 1}, TypeArguments: []Type{NewIntrinsicType("x")}}
	orig.SetArray(true)

	c := orig.Clone().(*ReferenceType)
	assert.True(t, c.IsArray())
	c.TypeArguments[0].SetArray(true)
	assert.False(t, orig.TypeArguments[0].IsArray())
}
