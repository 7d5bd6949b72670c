package converter

import (
	"strings"

	"tsdoc/internal/ast"
	"tsdoc/internal/checker"
	"tsdoc/internal/models"
)

const (
	priorityAlias     = 100
	priorityDefault   = 0
	priorityReference = -50
	priorityUnknown   = -100
)

func defaultTypeConverters() []any {
	return []any{
		aliasConverter{},
		typeParameterConverter{},
		unionConverter{},
		intersectionConverter{},
		tupleConverter{},
		arrayConverter{},
		parenthesizedConverter{},
		bindingArrayConverter{},
		bindingObjectConverter{},
		stringLiteralConverter{},
		intrinsicConverter{},
		thisConverter{},
		referenceConverter{},
		unknownConverter{},
	}
}

// aliasConverter keeps references to type aliases by name. The checker
// only sees the aliased type, so a reference whose written name does not
// match the name of the symbol it resolved to went through an alias.
type aliasConverter struct{}

func (aliasConverter) Priority() int { return priorityAlias }

func (aliasConverter) SupportsNode(cc *Context, node *ast.Node, t *checker.Type) bool {
	if node.Kind != ast.KindTypeReference && node.Kind != ast.KindImportType {
		return false
	}
	if node.Name == nil {
		return false
	}
	if t == nil || t.Symbol == nil {
		return true
	}

	written := strings.Split(node.Name.Text, ".")
	resolved := strings.Split(cc.Checker.GetFullyQualifiedName(t.Symbol), ".")
	if len(resolved) > 0 && strings.HasPrefix(resolved[0], `"`) {
		resolved = resolved[1:]
	}
	if len(written) > len(resolved) {
		return true
	}
	resolved = resolved[len(resolved)-len(written):]
	for i := range written {
		if written[i] != resolved[i] {
			return true
		}
	}
	return false
}

func (aliasConverter) ConvertNode(cc *Context, node *ast.Node, _ *checker.Type) models.Type {
	ref := models.NewReferenceByName(node.Name.Text)
	if len(node.TypeArguments) > 0 {
		ref.TypeArguments = cc.Converter.ConvertTypes(cc, node.TypeArguments, nil)
	}
	return ref
}

type typeParameterConverter struct{}

func (typeParameterConverter) Priority() int { return priorityDefault }

func (typeParameterConverter) SupportsNode(cc *Context, node *ast.Node, t *checker.Type) bool {
	if node.Kind == ast.KindTypeReference && node.Name != nil {
		if _, ok := cc.TypeParameter(node.Name.Text); ok {
			return true
		}
	}
	return t.Is(checker.TypeTypeParameter)
}

func (c typeParameterConverter) ConvertNode(cc *Context, node *ast.Node, t *checker.Type) models.Type {
	if node.Kind == ast.KindTypeReference && node.Name != nil {
		if bound, ok := cc.TypeParameter(node.Name.Text); ok && bound != nil {
			return bound.Clone()
		}
		if !t.Is(checker.TypeTypeParameter) {
			return &models.TypeParameterType{Name: node.Name.Text}
		}
	}
	return c.ConvertType(cc, t)
}

func (typeParameterConverter) SupportsType(_ *Context, t *checker.Type) bool {
	return t.Is(checker.TypeTypeParameter)
}

func (typeParameterConverter) ConvertType(cc *Context, t *checker.Type) models.Type {
	tp := &models.TypeParameterType{Name: t.Name}
	sym := t.Symbol
	if sym == nil || cc.constraints[sym] || len(sym.Declarations) == 0 {
		return tp
	}
	if constraint := sym.Declarations[0].Type; constraint != nil {
		cc.constraints[sym] = true
		tp.Constraint = cc.Converter.ConvertType(cc, constraint, nil)
		delete(cc.constraints, sym)
	}
	return tp
}

type unionConverter struct{}

func (unionConverter) Priority() int { return priorityDefault }

func (unionConverter) SupportsNode(_ *Context, node *ast.Node, _ *checker.Type) bool {
	return node.Kind == ast.KindUnionType
}

func (unionConverter) ConvertNode(cc *Context, node *ast.Node, _ *checker.Type) models.Type {
	return models.NewUnionType(cc.Converter.ConvertTypes(cc, node.Types, nil))
}

func (unionConverter) SupportsType(_ *Context, t *checker.Type) bool { return t.Is(checker.TypeUnion) }

func (unionConverter) ConvertType(cc *Context, t *checker.Type) models.Type {
	return models.NewUnionType(cc.Converter.ConvertTypes(cc, nil, t.Types))
}

type intersectionConverter struct{}

func (intersectionConverter) Priority() int { return priorityDefault }

func (intersectionConverter) SupportsNode(_ *Context, node *ast.Node, _ *checker.Type) bool {
	return node.Kind == ast.KindIntersectionType
}

func (intersectionConverter) ConvertNode(cc *Context, node *ast.Node, _ *checker.Type) models.Type {
	return models.NewIntersectionType(cc.Converter.ConvertTypes(cc, node.Types, nil))
}

func (intersectionConverter) SupportsType(_ *Context, t *checker.Type) bool {
	return t.Is(checker.TypeIntersection)
}

func (intersectionConverter) ConvertType(cc *Context, t *checker.Type) models.Type {
	return models.NewIntersectionType(cc.Converter.ConvertTypes(cc, nil, t.Types))
}

type tupleConverter struct{}

func (tupleConverter) Priority() int { return priorityDefault }

func (tupleConverter) SupportsNode(_ *Context, node *ast.Node, _ *checker.Type) bool {
	return node.Kind == ast.KindTupleType
}

func (tupleConverter) ConvertNode(cc *Context, node *ast.Node, _ *checker.Type) models.Type {
	return models.NewTupleType(cc.Converter.ConvertTypes(cc, node.Elements, nil))
}

func (tupleConverter) SupportsType(_ *Context, t *checker.Type) bool { return t.Is(checker.TypeTuple) }

func (tupleConverter) ConvertType(cc *Context, t *checker.Type) models.Type {
	return models.NewTupleType(cc.Converter.ConvertTypes(cc, nil, t.Types))
}

// arrayConverter renders T[] as the element type with the array flag set.
type arrayConverter struct{}

func (arrayConverter) Priority() int { return priorityDefault }

func (arrayConverter) SupportsNode(_ *Context, node *ast.Node, _ *checker.Type) bool {
	return node.Kind == ast.KindArrayType
}

func (arrayConverter) ConvertNode(cc *Context, node *ast.Node, _ *checker.Type) models.Type {
	return asArray(cc.Converter.ConvertType(cc, node.Type, nil), node.Type.GetText())
}

func (arrayConverter) SupportsType(cc *Context, t *checker.Type) bool { return cc.Checker.IsArrayType(t) }

func (arrayConverter) ConvertType(cc *Context, t *checker.Type) models.Type {
	elem := t.TypeArguments[0]
	return asArray(cc.Converter.ConvertType(cc, nil, elem), cc.Checker.TypeToString(elem))
}

func asArray(elem models.Type, text string) models.Type {
	if elem == nil {
		elem = models.NewUnknownType(text)
	}
	if elem.IsArray() {
		// T[][] has no flag of its own
		return models.NewUnknownType(elem.String() + "[]")
	}
	elem.SetArray(true)
	return elem
}

type parenthesizedConverter struct{}

func (parenthesizedConverter) Priority() int { return priorityDefault }

func (parenthesizedConverter) SupportsNode(_ *Context, node *ast.Node, _ *checker.Type) bool {
	return node.Kind == ast.KindParenthesizedType && node.Type != nil
}

func (parenthesizedConverter) ConvertNode(cc *Context, node *ast.Node, _ *checker.Type) models.Type {
	return cc.Converter.ConvertType(cc, node.Type, nil)
}

// bindingArrayConverter types [a, b] parameters as a tuple of their elements.
type bindingArrayConverter struct{}

func (bindingArrayConverter) Priority() int { return priorityDefault }

func (bindingArrayConverter) SupportsNode(_ *Context, node *ast.Node, _ *checker.Type) bool {
	return node.Kind == ast.KindArrayBindingPattern
}

func (bindingArrayConverter) ConvertNode(cc *Context, node *ast.Node, _ *checker.Type) models.Type {
	var elements []models.Type
	for _, element := range node.Elements {
		var t models.Type
		if isBindingPattern(element.Name) {
			t = cc.Converter.ConvertType(cc, element.Name, nil)
		} else {
			t = cc.Converter.ConvertType(cc, nil, typeOfDeclaration(cc, element))
		}
		if t == nil {
			t = models.NewIntrinsicType("any")
		}
		elements = append(elements, t)
	}
	return models.NewTupleType(elements)
}

// bindingObjectConverter types {a, b} parameters as a type literal whose
// members are the bound names.
type bindingObjectConverter struct{}

func (bindingObjectConverter) Priority() int { return priorityDefault }

func (bindingObjectConverter) SupportsNode(_ *Context, node *ast.Node, _ *checker.Type) bool {
	return node.Kind == ast.KindObjectBindingPattern
}

func (bindingObjectConverter) ConvertNode(cc *Context, node *ast.Node, _ *checker.Type) models.Type {
	decl := newTypeLiteral(cc, node, nil)
	cc.WithScope(decl, func() {
		for _, element := range node.Elements {
			cc.Converter.ConvertNode(cc, element)
		}
	})
	return models.NewReflectionType(decl)
}

type stringLiteralConverter struct{}

func (stringLiteralConverter) Priority() int { return priorityDefault }

func (stringLiteralConverter) SupportsNode(_ *Context, node *ast.Node, _ *checker.Type) bool {
	return node.Kind == ast.KindLiteralType && node.Expression != nil && node.Expression.Kind == ast.KindStringLiteral
}

func (stringLiteralConverter) ConvertNode(_ *Context, node *ast.Node, _ *checker.Type) models.Type {
	return &models.StringLiteralType{Value: node.Expression.Text}
}

func (stringLiteralConverter) SupportsType(_ *Context, t *checker.Type) bool {
	return t.Is(checker.TypeStringLiteral)
}

func (stringLiteralConverter) ConvertType(_ *Context, t *checker.Type) models.Type {
	return &models.StringLiteralType{Value: t.Value}
}

type intrinsicConverter struct{}

func (intrinsicConverter) Priority() int { return priorityDefault }

func (intrinsicConverter) SupportsNode(_ *Context, node *ast.Node, _ *checker.Type) bool {
	return node.Kind == ast.KindKeywordType
}

func (intrinsicConverter) ConvertNode(_ *Context, node *ast.Node, _ *checker.Type) models.Type {
	return models.NewIntrinsicType(node.Text)
}

func (intrinsicConverter) SupportsType(_ *Context, t *checker.Type) bool {
	return t.Is(checker.TypeIntrinsic)
}

func (intrinsicConverter) ConvertType(_ *Context, t *checker.Type) models.Type {
	return models.NewIntrinsicType(t.Name)
}

type thisConverter struct{}

func (thisConverter) Priority() int { return priorityDefault }

func (thisConverter) SupportsNode(_ *Context, node *ast.Node, _ *checker.Type) bool {
	return node.Kind == ast.KindThisType
}

func (thisConverter) ConvertNode(*Context, *ast.Node, *checker.Type) models.Type {
	return models.NewIntrinsicType("this")
}

// referenceConverter handles object types: named ones become references,
// anonymous ones a type literal declaration.
type referenceConverter struct{}

func (referenceConverter) Priority() int { return priorityReference }

func (referenceConverter) SupportsNode(_ *Context, _ *ast.Node, t *checker.Type) bool {
	return t.Is(checker.TypeObject)
}

func (c referenceConverter) ConvertNode(cc *Context, node *ast.Node, t *checker.Type) models.Type {
	if t.Symbol == nil {
		return models.NewIntrinsicType("Object")
	}
	if isLiteralSymbol(t.Symbol) {
		return convertLiteral(cc, t.Symbol, node)
	}
	ref := cc.CreateReferenceType(t.Symbol)
	if len(node.TypeArguments) > 0 {
		ref.TypeArguments = cc.Converter.ConvertTypes(cc, node.TypeArguments, nil)
	} else if len(t.TypeArguments) > 0 {
		ref.TypeArguments = cc.Converter.ConvertTypes(cc, nil, t.TypeArguments)
	}
	return ref
}

func (referenceConverter) SupportsType(_ *Context, t *checker.Type) bool {
	return t.Is(checker.TypeObject)
}

func (referenceConverter) ConvertType(cc *Context, t *checker.Type) models.Type {
	if t.Symbol == nil {
		return models.NewIntrinsicType("Object")
	}
	if isLiteralSymbol(t.Symbol) {
		return convertLiteral(cc, t.Symbol, nil)
	}
	ref := cc.CreateReferenceType(t.Symbol)
	if len(t.TypeArguments) > 0 {
		ref.TypeArguments = cc.Converter.ConvertTypes(cc, nil, t.TypeArguments)
	}
	return ref
}

func isLiteralSymbol(sym *ast.Symbol) bool {
	return sym.Has(ast.SymbolTypeLiteral|ast.SymbolObjectLiteral) ||
		(sym.Name == "__function" && sym.Has(ast.SymbolFunction))
}

// convertLiteral documents an anonymous type as a __type declaration. A
// literal that refers to itself while being converted becomes a reference
// to the declaration that owns it.
func convertLiteral(cc *Context, sym *ast.Symbol, node *ast.Node) models.Type {
	for _, decl := range sym.Declarations {
		if !cc.visiting(decl) {
			continue
		}
		owner := decl.Symbol
		if decl.Kind == ast.KindTypeLiteral || decl.Kind == ast.KindObjectLiteralExpression {
			owner = nil
			if decl.Parent != nil {
				owner = decl.Parent.Symbol
			}
		}
		if ref := cc.referenceTo(owner); ref != nil {
			return ref
		}
		return models.NewIntrinsicType("object")
	}

	decl := newTypeLiteral(cc, node, sym)
	cc.WithScope(decl, func() {
		for _, d := range sym.Declarations {
			if d.Kind != ast.KindTypeLiteral && d.Kind != ast.KindObjectLiteralExpression {
				cc.Converter.ConvertNode(cc, d)
				continue
			}
			cc.visitStack = append(cc.visitStack, d)
			for _, member := range d.Members {
				cc.Converter.ConvertNode(cc, member)
			}
			cc.visitStack = cc.visitStack[:len(cc.visitStack)-1]
		}
	})
	return models.NewReflectionType(decl)
}

// newTypeLiteral creates the __type declaration below the current scope.
// It is registered with the project but is not a child of the scope.
func newTypeLiteral(cc *Context, node *ast.Node, sym *ast.Symbol) *models.DeclarationReflection {
	decl := models.NewDeclarationReflection("__type", models.KindTypeLiteral, cc.Scope)
	decl.SetFlag(models.FlagExported, true)
	decl.SetFlag(models.FlagExternal, cc.IsExternal)
	cc.RegisterReflection(decl, nil, sym)
	cc.Trigger(EventCreateDeclaration, decl, node)
	return decl
}

// unknownConverter is the fallback: the node's source text, or the
// checker's rendering of the type.
type unknownConverter struct{}

func (unknownConverter) Priority() int { return priorityUnknown }

func (unknownConverter) SupportsNode(_ *Context, _ *ast.Node, t *checker.Type) bool { return t == nil }

func (unknownConverter) ConvertNode(_ *Context, node *ast.Node, _ *checker.Type) models.Type {
	return models.NewUnknownType(node.GetText())
}

func (unknownConverter) SupportsType(*Context, *checker.Type) bool { return true }

func (unknownConverter) ConvertType(cc *Context, t *checker.Type) models.Type {
	return models.NewUnknownType(cc.Checker.TypeToString(t))
}
