package converter

import (
	"tsdoc/internal/ast"
	"tsdoc/internal/models"
)

type functionConverter struct{}

func (functionConverter) Kinds() []ast.Kind {
	return []ast.Kind{ast.KindFunctionDeclaration, ast.KindMethodDeclaration, ast.KindMethodSignature}
}

func (functionConverter) Convert(cc *Context, node *ast.Node) models.Reflection {
	kind := models.KindFunction
	if cc.Scope.Base().KindOf(models.KindClassOrInterface) {
		kind = models.KindMethod
	}

	method := CreateDeclaration(cc, node, kind, "")
	if method == nil {
		return nil
	}
	cc.WithScope(method, func() {
		// overloads come first; the implementation only adds to them
		if node.Body == nil || len(method.Signatures) == 0 {
			sig := CreateSignature(cc, node, method.Name, models.KindCallSignature)
			method.Signatures = append(method.Signatures, sig)
		} else {
			cc.Trigger(EventFunctionImplementation, method, node)
		}
	})
	return method
}

type constructorConverter struct{}

func (constructorConverter) Kinds() []ast.Kind {
	return []ast.Kind{ast.KindConstructor, ast.KindConstructSignature, ast.KindConstructorType}
}

func (constructorConverter) Convert(cc *Context, node *ast.Node) models.Reflection {
	parent := cc.Scope
	method := CreateDeclaration(cc, node, models.KindConstructor, "constructor")
	if node.Kind == ast.KindConstructor {
		for _, p := range node.Parameters {
			addParameterProperty(cc, p)
		}
	}
	if method == nil {
		return nil
	}

	cc.WithScope(method, func() {
		if node.Body != nil && len(method.Signatures) > 0 {
			cc.Trigger(EventFunctionImplementation, method, node)
			return
		}
		name := parent.Base().Name
		sig := CreateSignature(cc, node, "new "+name, models.KindConstructorSignature)
		if node.Type == nil {
			sig.Type = models.NewResolvedReference(name, parent)
		}
		method.Signatures = append(method.Signatures, sig)
	})
	return method
}

// addParameterProperty documents constructor parameters declared with an
// accessibility or readonly modifier as properties of the class.
func addParameterProperty(cc *Context, p *ast.Node) {
	if !p.IsParameterProperty() {
		return
	}
	if cc.Converter.Options.ExcludePrivate && p.HasModifier(ast.ModifierPrivate) {
		return
	}
	if cc.Converter.Options.ExcludeProtected && p.HasModifier(ast.ModifierProtected) {
		return
	}
	prop := CreateDeclaration(cc, p, models.KindProperty, "")
	if prop == nil {
		return
	}
	prop.SetFlag(models.FlagStatic, false)
	prop.Type = cc.Converter.ConvertType(cc, p.Type, cc.GetTypeAtLocation(p))
}

type signatureConverter struct{}

func (signatureConverter) Kinds() []ast.Kind {
	return []ast.Kind{ast.KindCallSignature, ast.KindFunctionType, ast.KindFunctionExpression, ast.KindArrowFunction}
}

func (signatureConverter) Convert(cc *Context, node *ast.Node) models.Reflection {
	scope, ok := cc.Scope.(*models.DeclarationReflection)
	if !ok {
		return nil
	}
	name := "__call"
	if scope.KindOf(models.KindFunctionOrMethod) {
		name = scope.Name
	}
	sig := CreateSignature(cc, node, name, models.KindCallSignature)
	scope.Signatures = append(scope.Signatures, sig)
	return scope
}

type indexSignatureConverter struct{}

func (indexSignatureConverter) Kinds() []ast.Kind { return []ast.Kind{ast.KindIndexSignature} }

func (indexSignatureConverter) Convert(cc *Context, node *ast.Node) models.Reflection {
	scope, ok := cc.Scope.(*models.DeclarationReflection)
	if !ok {
		return nil
	}
	scope.IndexSignature = CreateSignature(cc, node, "__index", models.KindIndexSignature)
	return scope
}

type accessorConverter struct{}

func (accessorConverter) Kinds() []ast.Kind {
	return []ast.Kind{ast.KindGetAccessor, ast.KindSetAccessor}
}

func (accessorConverter) Convert(cc *Context, node *ast.Node) models.Reflection {
	accessor := CreateDeclaration(cc, node, models.KindAccessor, "")
	if accessor == nil {
		return nil
	}
	cc.WithScope(accessor, func() {
		if node.Kind == ast.KindGetAccessor {
			accessor.GetSignature = CreateSignature(cc, node, "__get", models.KindGetSignature)
		} else {
			accessor.SetSignature = CreateSignature(cc, node, "__set", models.KindSetSignature)
		}
	})
	return accessor
}
