package checker

import (
	"tsdoc/internal/ast"
)

// TypeFlags classify a checker Type.
type TypeFlags int

const (
	TypeAny TypeFlags = 1 << iota
	TypeUnknown
	TypeString
	TypeNumber
	TypeBoolean
	TypeBigInt
	TypeESSymbol
	TypeVoid
	TypeUndefined
	TypeNull
	TypeNever
	TypeNonPrimitive
	TypeStringLiteral
	TypeNumberLiteral
	TypeBooleanLiteral
	TypeObject
	TypeTypeParameter
	TypeUnion
	TypeIntersection
	TypeTuple
	// TypeOpaque is a type the checker cannot model; Name holds its source text.
	TypeOpaque
)

// Intrinsic covers the keyword types.
const TypeIntrinsic = TypeAny | TypeUnknown | TypeString | TypeNumber | TypeBoolean | TypeBigInt |
	TypeESSymbol | TypeVoid | TypeUndefined | TypeNull | TypeNever | TypeNonPrimitive

// TypeLiteralKinds are the literal types.
const TypeLiteralKinds = TypeStringLiteral | TypeNumberLiteral | TypeBooleanLiteral

// Type is the checker's view of a type.
type Type struct {
	Flags TypeFlags
	// Name is the keyword of an intrinsic, the text of a literal or the
	// source text of an opaque type.
	Name string
	// Value is the unquoted value of a string literal.
	Value string
	// Symbol is set for object and type parameter types.
	Symbol        *ast.Symbol
	TypeArguments []*Type
	// Types holds union and intersection members and tuple elements.
	Types      []*Type
	Constraint *Type
}

func (t *Type) Is(flags TypeFlags) bool {
	return t != nil && t.Flags&flags != 0
}

var intrinsicNames = map[string]TypeFlags{
	"any":       TypeAny,
	"unknown":   TypeUnknown,
	"string":    TypeString,
	"number":    TypeNumber,
	"boolean":   TypeBoolean,
	"bigint":    TypeBigInt,
	"symbol":    TypeESSymbol,
	"void":      TypeVoid,
	"undefined": TypeUndefined,
	"null":      TypeNull,
	"never":     TypeNever,
	"object":    TypeNonPrimitive,
}

type intrinsics map[string]*Type

func newIntrinsics() intrinsics {
	m := intrinsics{}
	for name, flags := range intrinsicNames {
		m[name] = &Type{Flags: flags, Name: name}
	}
	return m
}

func stringLiteral(value string) *Type {
	return &Type{Flags: TypeStringLiteral, Name: `"` + value + `"`, Value: value}
}

func numberLiteral(text string) *Type {
	return &Type{Flags: TypeNumberLiteral, Name: text, Value: text}
}

func booleanLiteral(value bool) *Type {
	if value {
		return &Type{Flags: TypeBooleanLiteral, Name: "true", Value: "true"}
	}
	return &Type{Flags: TypeBooleanLiteral, Name: "false", Value: "false"}
}

func opaque(text string) *Type {
	return &Type{Flags: TypeOpaque, Name: text}
}
