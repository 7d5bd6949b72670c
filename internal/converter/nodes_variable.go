package converter

import (
	"tsdoc/internal/ast"
	"tsdoc/internal/checker"
	"tsdoc/internal/models"
)

type variableStatementConverter struct{}

func (variableStatementConverter) Kinds() []ast.Kind { return []ast.Kind{ast.KindVariableStatement} }

func (variableStatementConverter) Convert(cc *Context, node *ast.Node) models.Reflection {
	for _, decl := range node.Declarations {
		if isBindingPattern(decl.Name) {
			convertBindingPattern(cc, decl.Name)
			continue
		}
		cc.Converter.ConvertNode(cc, decl)
	}
	return cc.Scope
}

func convertBindingPattern(cc *Context, pattern *ast.Node) {
	for _, element := range pattern.Elements {
		cc.Converter.ConvertNode(cc, element)
		if isBindingPattern(element.Name) {
			convertBindingPattern(cc, element.Name)
		}
	}
}

func isBindingPattern(n *ast.Node) bool {
	return n != nil && (n.Kind == ast.KindObjectBindingPattern || n.Kind == ast.KindArrayBindingPattern)
}

// variableConverter handles variables, properties and binding elements.
// Function initializers turn the declaration into a function or method and
// non-empty object literals into an object literal with members.
type variableConverter struct{}

func (variableConverter) Kinds() []ast.Kind {
	return []ast.Kind{
		ast.KindVariableDeclaration, ast.KindBindingElement,
		ast.KindPropertyDeclaration, ast.KindPropertySignature,
		ast.KindPropertyAssignment, ast.KindShorthandPropertyAssignment,
	}
}

func (variableConverter) Convert(cc *Context, node *ast.Node) models.Reflection {
	var name string
	if isBindingPattern(node.Name) {
		if node.PropertyName == nil {
			return nil
		}
		name = node.PropertyName.GetText()
	}

	scope := cc.Scope
	kind := models.KindVariable
	if scope.Base().KindOf(models.KindClassOrInterface) {
		kind = models.KindProperty
	}

	init := node.Initializer
	isFunction := init != nil && (init.Kind == ast.KindFunctionExpression || init.Kind == ast.KindArrowFunction)
	isObject := init != nil && init.Kind == ast.KindObjectLiteralExpression && len(init.Members) > 0
	switch {
	case isFunction && kind == models.KindProperty:
		kind = models.KindMethod
	case isFunction:
		kind = models.KindFunction
	case isObject:
		kind = models.KindObjectLiteral
	}

	variable := CreateDeclaration(cc, node, kind, name)
	if variable == nil {
		return nil
	}
	cc.WithScope(variable, func() {
		switch {
		case isFunction:
			sig := CreateSignature(cc, init, variable.Name, models.KindCallSignature)
			variable.Signatures = append(variable.Signatures, sig)
		case isObject:
			variable.Type = models.NewIntrinsicType("object")
			for _, member := range init.Members {
				cc.Converter.ConvertNode(cc, member)
			}
		default:
			variable.DefaultValue = convertDefaultValue(node)
			variable.Type = cc.Converter.ConvertType(cc, node.Type, typeOfDeclaration(cc, node))
		}
	})
	return variable
}

// typeOfDeclaration is the checker's type of node without the symbol
// fallback, so an unannotated declaration the checker cannot type stays
// without a type rather than borrowing its container's.
func typeOfDeclaration(cc *Context, node *ast.Node) *checker.Type {
	t, err := cc.Checker.GetTypeAtLocation(node)
	if err != nil {
		return nil
	}
	return t
}

type enumConverter struct{}

func (enumConverter) Kinds() []ast.Kind { return []ast.Kind{ast.KindEnumDeclaration} }

func (enumConverter) Convert(cc *Context, node *ast.Node) models.Reflection {
	enum := CreateDeclaration(cc, node, models.KindEnum, "")
	if enum == nil {
		return nil
	}
	cc.WithScope(enum, func() {
		for _, m := range node.Members {
			member := CreateDeclaration(cc, m, models.KindEnumMember, "")
			if member == nil {
				continue
			}
			value, ok := cc.Checker.GetConstantValue(m)
			switch v := value.(type) {
			case float64:
				member.DefaultValue = checker.FormatNumber(v)
			case string:
				member.DefaultValue = `"` + v + `"`
			}
			if !ok {
				member.DefaultValue = convertDefaultValue(m)
			}
		}
	})
	return enum
}
