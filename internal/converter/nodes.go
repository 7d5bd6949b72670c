package converter

import (
	"tsdoc/internal/ast"
	"tsdoc/internal/models"
)

func defaultNodeConverters() []NodeConverter {
	return []NodeConverter{
		blockConverter{},
		classConverter{},
		interfaceConverter{},
		functionConverter{},
		constructorConverter{},
		signatureConverter{},
		indexSignatureConverter{},
		accessorConverter{},
		variableStatementConverter{},
		variableConverter{},
		enumConverter{},
		moduleConverter{},
		typeAliasConverter{},
		exportConverter{},
	}
}

// preferredKinds are converted before the other statements of a block so
// that merged functions and variables find their class, interface or enum.
var preferredKinds = map[ast.Kind]bool{
	ast.KindClassDeclaration:     true,
	ast.KindInterfaceDeclaration: true,
	ast.KindEnumDeclaration:      true,
}

type blockConverter struct{}

func (blockConverter) Kinds() []ast.Kind {
	return []ast.Kind{ast.KindSourceFile, ast.KindModuleBlock}
}

func (b blockConverter) Convert(cc *Context, node *ast.Node) models.Reflection {
	if node.Kind == ast.KindSourceFile {
		return b.convertSourceFile(cc, node)
	}
	b.convertStatements(cc, node)
	return cc.Scope
}

func (b blockConverter) convertSourceFile(cc *Context, node *ast.Node) models.Reflection {
	result := cc.Scope
	file := node.File
	cc.WithSourceFile(file, func() {
		if !file.IsExternalModule || cc.Converter.Options.Mode != ModeModules {
			b.convertStatements(cc, node)
			return
		}
		module := CreateDeclaration(cc, node, models.KindExternalModule, `"`+file.ModuleName()+`"`)
		if module == nil {
			return
		}
		result = module
		cc.WithScope(module, func() {
			b.convertStatements(cc, node)
			module.SetFlag(models.FlagExported, true)
		})
	})
	return result
}

func (blockConverter) convertStatements(cc *Context, node *ast.Node) {
	var rest []*ast.Node
	for _, s := range node.Statements {
		if preferredKinds[s.Kind] {
			cc.Converter.ConvertNode(cc, s)
		} else {
			rest = append(rest, s)
		}
	}
	for _, s := range rest {
		cc.Converter.ConvertNode(cc, s)
	}
}

type moduleConverter struct{}

func (moduleConverter) Kinds() []ast.Kind { return []ast.Kind{ast.KindModuleDeclaration} }

func (moduleConverter) Convert(cc *Context, node *ast.Node) models.Reflection {
	parent := cc.Scope

	var r models.Reflection
	if cc.isInherit && cc.inheritParent == node {
		r = parent
	} else if decl := CreateDeclaration(cc, node, models.KindModule, ""); decl != nil {
		r = decl
	}
	if r == nil {
		return nil
	}

	cc.WithScope(r, func() {
		if _, top := parent.(*models.ProjectReflection); top && !cc.IsDeclaration {
			r.Base().SetFlag(models.FlagExported, true)
		}
		if node.Body != nil {
			cc.Converter.ConvertNode(cc, node.Body)
		}
	})
	return r
}

type typeAliasConverter struct{}

func (typeAliasConverter) Kinds() []ast.Kind { return []ast.Kind{ast.KindTypeAliasDeclaration} }

func (typeAliasConverter) Convert(cc *Context, node *ast.Node) models.Reflection {
	alias := CreateDeclaration(cc, node, models.KindTypeAlias, "")
	if alias == nil {
		return nil
	}
	cc.WithScopeParams(alias, node.TypeParameters, false, func() {
		alias.Type = cc.Converter.ConvertType(cc, node.Type, cc.GetTypeAtLocation(node.Type))
	})
	return alias
}

// exportConverter marks the target of export = x and export default x as
// exported, together with everything below it.
type exportConverter struct{}

func (exportConverter) Kinds() []ast.Kind { return []ast.Kind{ast.KindExportAssignment} }

func (exportConverter) Convert(cc *Context, node *ast.Node) models.Reflection {
	sym := node.Symbol
	if sym.Has(ast.SymbolAlias) {
		sym = cc.Checker.ResolveAlias(sym)
	}
	if sym == nil {
		return cc.Project
	}

	for _, decl := range sym.Declarations {
		if decl.Symbol == nil {
			continue
		}
		r := cc.Project.ReflectionForSymbol(cc.GetSymbolID(decl.Symbol))
		if r == nil {
			continue
		}
		if d, ok := r.(*models.DeclarationReflection); ok && node.HasModifier(ast.FlagExportEquals) {
			d.SetFlag(models.FlagExportAssignment, true)
		}
		markAsExported(r)
	}
	return cc.Project
}

func markAsExported(r models.Reflection) {
	if d, ok := r.(*models.DeclarationReflection); ok {
		d.SetFlag(models.FlagExported, true)
	}
	r.Traverse(func(child models.Reflection, _ models.TraverseProperty) {
		markAsExported(child)
	})
}
