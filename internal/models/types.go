package models

import "strings"

// Type is one variant of the documentation type model.
type Type interface {
	// String renders the type the way it appears in documentation.
	String() string
	// ToObject returns the serializable form.
	ToObject() map[string]any
	// Clone returns a shallow copy carrying the same array flag.
	Clone() Type

	IsArray() bool
	SetArray(bool)
}

// ArrayFlag is embedded by every Type variant.
type ArrayFlag struct {
	Array bool
}

func (a *ArrayFlag) IsArray() bool { return a.Array }
func (a *ArrayFlag) SetArray(v bool) { a.Array = v }
func (a *ArrayFlag) suffix() string {
	if a.Array {
		return "[]"
	}
	return ""
}

func (a *ArrayFlag) object(kind string) map[string]any {
	obj := map[string]any{"type": kind}
	if a.Array {
		obj["isArray"] = true
	}
	return obj
}

func typesToObject(types []Type) []any {
	out := make([]any, 0, len(types))
	for _, t := range types {
		out = append(out, t.ToObject())
	}
	return out
}

func typesToString(types []Type, sep string) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, sep)
}

func cloneTypes(types []Type) []Type {
	if types == nil {
		return nil
	}
	out := make([]Type, len(types))
	for i, t := range types {
		out[i] = t.Clone()
	}
	return out
}

// IntrinsicType is a named primitive such as string or void.
type IntrinsicType struct {
	ArrayFlag
	Name string
}

func NewIntrinsicType(name string) *IntrinsicType { return &IntrinsicType{Name: name} }

func (t *IntrinsicType) String() string { return t.Name + t.suffix() }

func (t *IntrinsicType) ToObject() map[string]any {
	obj := t.object("intrinsic")
	obj["name"] = t.Name
	return obj
}

func (t *IntrinsicType) Clone() Type { c := *t; return &c }

// ReferenceState is the resolution state of a ReferenceType.
type ReferenceState interface {
	isReferenceState()
}

// Unresolved waits for the symbol mapping to name a reflection.
type Unresolved struct {
	SymbolID int
}

// ResolveByName is looked up through ProjectReflection.FindReflectionByName.
type ResolveByName struct {
	Name string
}

// Resolved points at the target reflection. A nil target means resolution
// ran and found nothing.
type Resolved struct {
	Target Reflection
}

func (Unresolved) isReferenceState() {}
func (ResolveByName) isReferenceState() {}
func (Resolved) isReferenceState() {}

// ReferenceType points at another reflection.
type ReferenceType struct {
	ArrayFlag
	Name          string
	State         ReferenceState
	TypeArguments []Type
}

// NewReferenceType creates a reference pending resolution by symbol id.
func NewReferenceType(name string, symbolID int) *ReferenceType {
	return &ReferenceType{Name: name, State: Unresolved{SymbolID: symbolID}}
}

// NewReferenceByName creates a reference resolved later through a name lookup.
func NewReferenceByName(name string) *ReferenceType {
	return &ReferenceType{Name: name, State: ResolveByName{Name: name}}
}

// NewResolvedReference creates a reference to a known reflection.
func NewResolvedReference(name string, target Reflection) *ReferenceType {
	return &ReferenceType{Name: name, State: Resolved{Target: target}}
}

// Reflection returns the target when the reference is resolved.
func (t *ReferenceType) Reflection() Reflection {
	if r, ok := t.State.(Resolved); ok {
		return r.Target
	}
	return nil
}

// SymbolID returns the pending symbol id, if any.
func (t *ReferenceType) SymbolID() (int, bool) {
	if u, ok := t.State.(Unresolved); ok {
		return u.SymbolID, true
	}
	return 0, false
}

func (t *ReferenceType) String() string {
	name := t.Name
	if target := t.Reflection(); target != nil {
		name = target.Base().Name
	}
	var args string
	if len(t.TypeArguments) > 0 {
		args = "<" + typesToString(t.TypeArguments, ", ") + ">"
	}
	return name + args + t.suffix()
}

func (t *ReferenceType) ToObject() map[string]any {
	obj := t.object("reference")
	obj["name"] = t.Name
	if target := t.Reflection(); target != nil {
		obj["id"] = target.Base().ID
	}
	if len(t.TypeArguments) > 0 {
		obj["typeArguments"] = typesToObject(t.TypeArguments)
	}
	return obj
}

func (t *ReferenceType) Clone() Type {
	c := *t
	c.TypeArguments = cloneTypes(t.TypeArguments)
	return &c
}

// TupleType is a fixed-length list of element types.
type TupleType struct {
	ArrayFlag
	Elements []Type
}

func NewTupleType(elements []Type) *TupleType { return &TupleType{Elements: elements} }

func (t *TupleType) String() string {
	return "[" + typesToString(t.Elements, ", ") + "]" + t.suffix()
}

func (t *TupleType) ToObject() map[string]any {
	obj := t.object("tuple")
	obj["elements"] = typesToObject(t.Elements)
	return obj
}

func (t *TupleType) Clone() Type {
	c := *t
	c.Elements = cloneTypes(t.Elements)
	return &c
}

// UnionType is A | B.
type UnionType struct {
	ArrayFlag
	Types []Type
}

func NewUnionType(types []Type) *UnionType { return &UnionType{Types: types} }

func (t *UnionType) String() string {
	s := typesToString(t.Types, " | ")
	if t.Array {
		return "(" + s + ")[]"
	}
	return s
}

func (t *UnionType) ToObject() map[string]any {
	obj := t.object("union")
	obj["types"] = typesToObject(t.Types)
	return obj
}

func (t *UnionType) Clone() Type {
	c := *t
	c.Types = cloneTypes(t.Types)
	return &c
}

// IntersectionType is A & B.
type IntersectionType struct {
	ArrayFlag
	Types []Type
}

func NewIntersectionType(types []Type) *IntersectionType { return &IntersectionType{Types: types} }

func (t *IntersectionType) String() string {
	s := typesToString(t.Types, " & ")
	if t.Array {
		return "(" + s + ")[]"
	}
	return s
}

func (t *IntersectionType) ToObject() map[string]any {
	obj := t.object("intersection")
	obj["types"] = typesToObject(t.Types)
	return obj
}

func (t *IntersectionType) Clone() Type {
	c := *t
	c.Types = cloneTypes(t.Types)
	return &c
}

// TypeParameterType refers to a type parameter in scope.
type TypeParameterType struct {
	ArrayFlag
	Name       string
	Constraint Type
}

func (t *TypeParameterType) String() string { return t.Name + t.suffix() }

func (t *TypeParameterType) ToObject() map[string]any {
	obj := t.object("typeParameter")
	obj["name"] = t.Name
	if t.Constraint != nil {
		obj["constraint"] = t.Constraint.ToObject()
	}
	return obj
}

func (t *TypeParameterType) Clone() Type {
	c := *t
	if t.Constraint != nil {
		c.Constraint = t.Constraint.Clone()
	}
	return &c
}

// ReflectionType wraps a synthesized declaration for an anonymous object or function type.
type ReflectionType struct {
	ArrayFlag
	Declaration *DeclarationReflection
}

func NewReflectionType(decl *DeclarationReflection) *ReflectionType {
	return &ReflectionType{Declaration: decl}
}

func (t *ReflectionType) String() string {
	if t.Declaration != nil && len(t.Declaration.Children) == 0 && len(t.Declaration.Signatures) > 0 {
		return "function" + t.suffix()
	}
	return "object" + t.suffix()
}

func (t *ReflectionType) ToObject() map[string]any {
	obj := t.object("reflection")
	if t.Declaration != nil {
		obj["declaration"] = t.Declaration.ToObject()
	}
	return obj
}

func (t *ReflectionType) Clone() Type { c := *t; return &c }

// StringLiteralType is a string literal used as a type.
type StringLiteralType struct {
	ArrayFlag
	Value string
}

func (t *StringLiteralType) String() string { return `"` + t.Value + `"` + t.suffix() }

func (t *StringLiteralType) ToObject() map[string]any {
	obj := t.object("stringLiteral")
	obj["value"] = t.Value
	return obj
}

func (t *StringLiteralType) Clone() Type { c := *t; return &c }

// UnknownType carries the oracle's text for anything not modelled.
type UnknownType struct {
	ArrayFlag
	Name string
}

func NewUnknownType(name string) *UnknownType { return &UnknownType{Name: name} }

func (t *UnknownType) String() string { return t.Name + t.suffix() }

func (t *UnknownType) ToObject() map[string]any {
	obj := t.object("unknown")
	obj["name"] = t.Name
	return obj
}

func (t *UnknownType) Clone() Type { c := *t; return &c }
