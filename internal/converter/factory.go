package converter

import (
	"tsdoc/internal/ast"
	"tsdoc/internal/models"
)

// Kinds that are never static themselves, even inside a class.
const nonStaticKinds = models.KindClass | models.KindInterface | models.KindModule

// mergeWeights orders kinds that may replace each other on merge.
var mergeWeights = []models.ReflectionKind{models.KindModule, models.KindEnum, models.KindClass}

// CreateDeclaration creates the child of the current scope that documents
// node, or merges node into the sibling with the same name and static-ness.
// name may be empty to use the node's symbol name. A nil result means
// there is nothing to document: no resolvable name, excluded by options,
// a private member seen through a heritage clause, or an override already
// recorded on the derived member.
func CreateDeclaration(cc *Context, node *ast.Node, kind models.ReflectionKind, name string) *models.DeclarationReflection {
	container, ok := cc.Scope.(models.Container)
	if !ok {
		cc.Converter.Logger.Verbose("cannot add %s to %s", node.Kind, cc.Scope.Base().Kind)
		return nil
	}
	scope := container.Base()

	if name == "" {
		switch {
		case node.LocalSymbol != nil:
			name = node.LocalSymbol.Name
		case node.Symbol != nil:
			name = node.Symbol.Name
		default:
			return nil
		}
	}

	modifiers := node.CombinedFlags()

	var isExported bool
	switch {
	case kind == models.KindExternalModule || kind == models.KindGlobal:
		isExported = true
	case scope.Kind == models.KindGlobal:
		isExported = true
	case scope.KindOf(models.KindSomeModule):
		isExported = isExportedFromParent(cc, node)
	default:
		isExported = scope.Flags.Has(models.FlagExported)
	}
	if !isExported && cc.Converter.Options.ExcludeNotExported {
		return nil
	}

	isPrivate := modifiers&ast.ModifierPrivate != 0
	if cc.isInherit && isPrivate {
		return nil
	}

	isStatic, isConstructorProperty := false, false
	if !kind.Is(nonStaticKinds) {
		isStatic = modifiers&ast.ModifierStatic != 0
		if scope.Kind == models.KindClass {
			switch {
			case node.Parent != nil && node.Parent.Kind == ast.KindConstructor:
				isConstructorProperty = true
			case !isTypeMember(node):
				// namespace members merged into a class
				isStatic = true
			}
		}
	}

	cont := container.Container()
	var child *models.DeclarationReflection
	for _, c := range cont.Children {
		if c.Name == name && c.Flags.Has(models.FlagStatic) == isStatic {
			child = c
		}
	}

	if child == nil {
		child = models.NewDeclarationReflection(name, kind, container)
		child.SetFlag(models.FlagStatic, isStatic)
		child.SetFlag(models.FlagPrivate, isPrivate)
		child.SetFlag(models.FlagConstructorProperty, isConstructorProperty)
		child.SetFlag(models.FlagExported, isExported)
		setupDeclaration(cc, child, node)

		cont.Children = append(cont.Children, child)
		cc.RegisterReflection(child, node, nil)
	} else {
		child = mergeDeclarations(cc, child, node, kind)
	}

	if child != nil {
		cc.Trigger(EventCreateDeclaration, child, node)
	}
	return child
}

func isTypeMember(node *ast.Node) bool {
	if node.Parent == nil {
		return false
	}
	switch node.Parent.Kind {
	case ast.KindClassDeclaration, ast.KindClassExpression, ast.KindInterfaceDeclaration, ast.KindTypeLiteral:
		return true
	}
	return false
}

// isExportedFromParent checks the export table of the enclosing file or
// namespace, following export specifiers back to their local symbol.
func isExportedFromParent(cc *Context, node *ast.Node) bool {
	sym := node.Symbol
	if sym == nil {
		return false
	}
	parent := node.Parent
	for parent != nil && parent.Kind != ast.KindSourceFile && parent.Kind != ast.KindModuleDeclaration {
		parent = parent.Parent
	}
	if parent == nil || parent.Symbol == nil {
		return false
	}
	for _, exported := range parent.Symbol.Exports.Symbols() {
		if exported == sym || cc.Checker.ResolveAlias(exported) == sym {
			return true
		}
	}
	return false
}

func setupDeclaration(cc *Context, r *models.DeclarationReflection, node *ast.Node) {
	modifiers := node.CombinedFlags()
	r.SetFlag(models.FlagExternal, cc.IsExternal)
	r.SetFlag(models.FlagProtected, modifiers&ast.ModifierProtected != 0)
	r.SetFlag(models.FlagPublic, modifiers&ast.ModifierPublic != 0)
	r.SetFlag(models.FlagOptional, modifiers&ast.FlagOptional != 0)

	if cc.isInherit && declaredIn(node) == cc.inheritParent {
		if r.InheritedFrom == nil {
			r.InheritedFrom = cc.referenceTo(node.Symbol)
			for _, sig := range r.AllSignatures() {
				sig.InheritedFrom = cc.referenceTo(node.Symbol)
			}
		}
	}
}

func mergeDeclarations(cc *Context, r *models.DeclarationReflection, node *ast.Node, kind models.ReflectionKind) *models.DeclarationReflection {
	if r.Kind != kind && weight(kind) > weight(r.Kind) {
		r.Kind = kind
	}

	if cc.isInherit && contains(cc.inherited, r.Name) && declaredIn(node) == cc.inheritParent {
		// a member already inherited through another base keeps its single provenance
		if r.Overwrites == nil && r.InheritedFrom == nil {
			r.Overwrites = cc.referenceTo(node.Symbol)
			for _, sig := range r.AllSignatures() {
				sig.Overwrites = cc.referenceTo(node.Symbol)
			}
		}
		return nil
	}
	return r
}

// declaredIn returns the type declaration a member belongs to. Parameter
// properties belong to the class of their constructor.
func declaredIn(node *ast.Node) *ast.Node {
	if node.IsParameterProperty() {
		return node.Parent.Parent
	}
	return node.Parent
}

func weight(kind models.ReflectionKind) int {
	for i, k := range mergeWeights {
		if k == kind {
			return i
		}
	}
	return -1
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// CreateSignature adds a signature for the function-like node to the
// current scope's reflection. The caller attaches it to the right field.
func CreateSignature(cc *Context, node *ast.Node, name string, kind models.ReflectionKind) *models.SignatureReflection {
	container, _ := cc.Scope.(*models.DeclarationReflection)
	sig := models.NewSignatureReflection(name, kind, cc.Scope)
	cc.RegisterReflection(sig, node, nil)

	cc.WithScopeParams(sig, node.TypeParameters, true, func() {
		for _, p := range node.Parameters {
			CreateParameter(cc, p)
		}
		sig.Type = extractSignatureType(cc, node)
		if container != nil && container.InheritedFrom != nil {
			sig.InheritedFrom = cc.referenceTo(node.Symbol)
		}
	})

	cc.Trigger(EventCreateSignature, sig, node)
	return sig
}

func extractSignatureType(cc *Context, node *ast.Node) models.Type {
	if node.Type != nil {
		return cc.Converter.ConvertType(cc, node.Type, nil)
	}
	return cc.Converter.ConvertType(cc, nil, cc.Checker.GetReturnTypeOfDeclaration(node))
}

// CreateParameter appends a parameter reflection to the current signature.
func CreateParameter(cc *Context, node *ast.Node) *models.ParameterReflection {
	sig, ok := cc.Scope.(*models.SignatureReflection)
	if !ok {
		return nil
	}

	sym := node.LocalSymbol
	if sym == nil {
		sym = node.Symbol
	}
	isPattern := node.Name != nil &&
		(node.Name.Kind == ast.KindObjectBindingPattern || node.Name.Kind == ast.KindArrayBindingPattern)

	var name string
	switch {
	case isPattern:
		name = "__namedParameters"
	case sym != nil:
		name = sym.Name
	default:
		return nil
	}

	param := models.NewParameterReflection(name, sig)
	cc.RegisterReflection(param, node, sym)
	cc.WithScope(param, func() {
		if isPattern {
			param.Type = cc.Converter.ConvertType(cc, node.Name, nil)
		} else {
			param.Type = cc.Converter.ConvertType(cc, node.Type, cc.GetTypeAtLocation(node))
		}
		param.DefaultValue = convertDefaultValue(node)
		param.SetFlag(models.FlagOptional, node.HasModifier(ast.FlagOptional))
		param.SetFlag(models.FlagRest, node.HasModifier(ast.FlagRest))
		param.SetFlag(models.FlagDefaultValue, param.DefaultValue != "")
		sig.Parameters = append(sig.Parameters, param)
	})

	cc.Trigger(EventCreateParameter, param, node)
	return param
}

// createTypeParameter records a type parameter reflection on the current
// scope and returns the type that stands for it.
func createTypeParameter(cc *Context, decl *ast.Node) *models.TypeParameterType {
	tp := &models.TypeParameterType{Name: decl.NameText()}
	if decl.Type != nil {
		tp.Constraint = cc.Converter.ConvertType(cc, decl.Type, nil)
	}

	var r *models.TypeParameterReflection
	switch owner := cc.Scope.(type) {
	case *models.DeclarationReflection:
		r = models.NewTypeParameterReflection(tp, owner)
		owner.TypeParameters = append(owner.TypeParameters, r)
	case *models.SignatureReflection:
		r = models.NewTypeParameterReflection(tp, owner)
		owner.TypeParameters = append(owner.TypeParameters, r)
	default:
		return tp
	}
	cc.RegisterReflection(r, decl, nil)
	cc.Trigger(EventCreateTypeParameter, r, decl)
	return tp
}

// CreateReferenceType points at the reflection that will declare sym.
func (c *Context) CreateReferenceType(sym *ast.Symbol) *models.ReferenceType {
	if sym == nil {
		return nil
	}
	return models.NewReferenceType(c.Checker.SymbolToString(sym), c.GetSymbolID(sym))
}

// referenceTo is CreateReferenceType as a Type; a nil symbol gives a nil interface.
func (c *Context) referenceTo(sym *ast.Symbol) models.Type {
	if ref := c.CreateReferenceType(sym); ref != nil {
		return ref
	}
	return nil
}

func convertDefaultValue(node *ast.Node) string {
	if node == nil || node.Initializer == nil {
		return ""
	}
	return ConvertExpression(node.Initializer)
}

// ConvertExpression renders an initializer the way it is documented:
// quoted strings, literal keywords and numbers, or the source text.
func ConvertExpression(e *ast.Node) string {
	switch e.Kind {
	case ast.KindStringLiteral:
		return `"` + e.Text + `"`
	case ast.KindNumericLiteral:
		return e.Text
	case ast.KindTrueKeyword:
		return "true"
	case ast.KindFalseKeyword:
		return "false"
	case ast.KindNullKeyword:
		return "null"
	}
	return e.GetText()
}
