package converter

import (
	"tsdoc/internal/ast"
	"tsdoc/internal/models"
)

type classConverter struct{}

func (classConverter) Kinds() []ast.Kind {
	return []ast.Kind{ast.KindClassDeclaration, ast.KindClassExpression}
}

func (classConverter) Convert(cc *Context, node *ast.Node) models.Reflection {
	r := declarationOrScope(cc, node, models.KindClass)
	if r == nil {
		return nil
	}

	opts := cc.Converter.Options
	cc.WithScopeParams(r, node.TypeParameters, false, func() {
		for _, member := range node.Members {
			if opts.ExcludePrivate && member.HasModifier(ast.ModifierPrivate) {
				continue
			}
			if opts.ExcludeProtected && member.HasModifier(ast.ModifierProtected) {
				continue
			}
			cc.Converter.ConvertNode(cc, member)
		}
		inheritHeritage(cc, r, node, ast.HeritageExtends)
		inheritHeritage(cc, r, node, ast.HeritageImplements)
	})
	return r
}

type interfaceConverter struct{}

func (interfaceConverter) Kinds() []ast.Kind { return []ast.Kind{ast.KindInterfaceDeclaration} }

func (interfaceConverter) Convert(cc *Context, node *ast.Node) models.Reflection {
	r := declarationOrScope(cc, node, models.KindInterface)
	if r == nil {
		return nil
	}
	cc.WithScopeParams(r, node.TypeParameters, false, func() {
		for _, member := range node.Members {
			cc.Converter.ConvertNode(cc, member)
		}
		inheritHeritage(cc, r, node, ast.HeritageExtends)
	})
	return r
}

// declarationOrScope returns the current scope when node is the base being
// inherited, and a new declaration of kind otherwise.
func declarationOrScope(cc *Context, node *ast.Node, kind models.ReflectionKind) *models.DeclarationReflection {
	if cc.isInherit && cc.inheritParent == node {
		r, _ := cc.Scope.(*models.DeclarationReflection)
		return r
	}
	return CreateDeclaration(cc, node, kind, "")
}
