package checker

import (
	"strings"

	"tsdoc/internal/ast"
)

// TypeToString renders t the way it would be written in source.
func (c *Checker) TypeToString(t *Type) string {
	return c.typeToString(t, 0)
}

func (c *Checker) typeToString(t *Type, depth int) string {
	if t == nil {
		return "any"
	}
	if depth > 4 {
		return "..."
	}
	switch {
	case t.Is(TypeIntrinsic | TypeLiteralKinds | TypeOpaque | TypeTypeParameter):
		return t.Name
	case t.Is(TypeUnion):
		return c.joinTypes(t.Types, " | ", depth)
	case t.Is(TypeIntersection):
		return c.joinTypes(t.Types, " & ", depth)
	case t.Is(TypeTuple):
		return "[" + c.joinTypes(t.Types, ", ", depth) + "]"
	}

	if c.IsArrayType(t) {
		elem := t.TypeArguments[0]
		text := c.typeToString(elem, depth+1)
		if elem.Is(TypeUnion | TypeIntersection) {
			text = "(" + text + ")"
		}
		return text + "[]"
	}

	sym := t.Symbol
	if sym == nil {
		return "{}"
	}
	if sym.Has(ast.SymbolTypeLiteral | ast.SymbolObjectLiteral) {
		return c.literalToString(sym, depth)
	}
	if sym.Name == "__function" && len(sym.Declarations) > 0 {
		return c.signatureToString(sym.Declarations[0], depth)
	}
	if sym.Has(ast.SymbolFunction|ast.SymbolMethod|ast.SymbolValueModule) && !sym.Has(ast.SymbolClass|ast.SymbolInterface) {
		return "typeof " + c.SymbolToString(sym)
	}

	name := c.SymbolToString(sym)
	if len(t.TypeArguments) > 0 {
		name += "<" + c.joinTypes(t.TypeArguments, ", ", depth) + ">"
	}
	return name
}

func (c *Checker) joinTypes(types []*Type, sep string, depth int) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, c.typeToString(t, depth+1))
	}
	return strings.Join(parts, sep)
}

func (c *Checker) literalToString(sym *ast.Symbol, depth int) string {
	if len(sym.Declarations) > 0 {
		decl := sym.Declarations[0]
		if decl.Kind == ast.KindFunctionType || decl.Kind == ast.KindConstructorType {
			return c.signatureToString(decl, depth)
		}
	}
	members := sym.Members.Symbols()
	if len(members) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(members))
	for _, m := range members {
		switch {
		case m.Has(ast.SymbolSignature) && len(m.Declarations) > 0:
			parts = append(parts, c.signatureToString(m.Declarations[0], depth))
		case m.Has(ast.SymbolMethod) && len(m.Declarations) > 0:
			parts = append(parts, m.Name+c.signatureToString(m.Declarations[0], depth))
		default:
			parts = append(parts, m.Name+": "+c.typeToString(c.GetTypeOfSymbol(m), depth+1))
		}
	}
	return "{ " + strings.Join(parts, "; ") + "; }"
}

func (c *Checker) signatureToString(decl *ast.Node, depth int) string {
	params := make([]string, 0, len(decl.Parameters))
	for _, p := range decl.Parameters {
		name := p.NameText()
		if name == "" && p.Name != nil {
			name = p.Name.GetText()
		}
		if p.HasModifier(ast.FlagRest) {
			name = "..." + name
		}
		if p.HasModifier(ast.FlagOptional) {
			name += "?"
		}
		t, _ := c.typeOfDeclaration(p)
		params = append(params, name+": "+c.typeToString(t, depth+1))
	}
	ret := c.typeToString(c.GetReturnTypeOfDeclaration(decl), depth+1)

	text := "(" + strings.Join(params, ", ") + ")"
	switch decl.Kind {
	case ast.KindFunctionType, ast.KindArrowFunction, ast.KindFunctionExpression:
		return text + " => " + ret
	case ast.KindConstructorType:
		return "new " + text + " => " + ret
	case ast.KindConstructSignature:
		return "new " + text + ": " + ret
	}
	return text + ": " + ret
}
