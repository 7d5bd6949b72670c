package checker

import (
	"strings"

	"tsdoc/internal/ast"
	"tsdoc/internal/errors"
)

// unresolvedSymbol marks an alias whose target could not be found.
var unresolvedSymbol = ast.NewSymbol("unknown", 0)

// Checker answers symbol and type queries over a bound program. It is not
// safe for concurrent use.
type Checker struct {
	program    *Program
	intrinsics intrinsics

	nextSymbolID     int
	exportsCache     map[*ast.Symbol]*ast.SymbolTable
	resolvingAliases map[*ast.Symbol]bool
	resolvingTypes   map[*ast.Node]bool
	typeParameters   map[*ast.Symbol]*Type
	constants        map[*ast.Node]constant
}

func newChecker(p *Program) *Checker {
	return &Checker{
		program:          p,
		intrinsics:       newIntrinsics(),
		exportsCache:     map[*ast.Symbol]*ast.SymbolTable{},
		resolvingAliases: map[*ast.Symbol]bool{},
		resolvingTypes:   map[*ast.Node]bool{},
		typeParameters:   map[*ast.Symbol]*Type{},
		constants:        map[*ast.Node]constant{},
	}
}

// Intrinsic returns the keyword type with the given name, or nil.
func (c *Checker) Intrinsic(name string) *Type {
	return c.intrinsics[name]
}

// number gives sym a positive id the first time the checker hands it out.
func (c *Checker) number(sym *ast.Symbol) *ast.Symbol {
	if sym != nil && sym.ID == 0 {
		c.nextSymbolID++
		sym.ID = c.nextSymbolID
	}
	return sym
}

// ResolveName looks name up from location outwards. Aliases are returned
// as is when their target matches meaning or is unresolved.
func (c *Checker) ResolveName(name string, location *ast.Node, meaning ast.SymbolFlags) *ast.Symbol {
	for n := location; n != nil; n = n.Parent {
		if sym := c.lookup(n.Locals, name, meaning); sym != nil {
			return sym
		}
		switch n.Kind {
		case ast.KindModuleDeclaration, ast.KindEnumDeclaration:
			if n.Symbol != nil {
				if sym := c.lookup(n.Symbol.Exports, name, meaning); sym != nil {
					return sym
				}
			}
		}
	}
	return c.lookup(c.program.globals, name, meaning)
}

func (c *Checker) lookup(table *ast.SymbolTable, name string, meaning ast.SymbolFlags) *ast.Symbol {
	sym := table.Get(name)
	if sym == nil {
		return nil
	}
	if sym.Flags&meaning != 0 {
		return sym
	}
	if sym.Has(ast.SymbolAlias) {
		target := c.ResolveAlias(sym)
		if target == nil || target.Flags&meaning != 0 {
			return sym
		}
	}
	return nil
}

// ResolveAlias follows import and export aliases to the declaring symbol.
// Non-alias symbols are returned unchanged; unresolvable aliases yield nil.
func (c *Checker) ResolveAlias(sym *ast.Symbol) *ast.Symbol {
	if sym == nil || !sym.Has(ast.SymbolAlias) {
		return sym
	}
	if sym.Target != nil {
		if sym.Target == unresolvedSymbol {
			return nil
		}
		return sym.Target
	}
	if c.resolvingAliases[sym] {
		return nil
	}
	c.resolvingAliases[sym] = true
	defer delete(c.resolvingAliases, sym)

	target := c.ResolveAlias(c.aliasTarget(sym))
	if target == nil {
		sym.Target = unresolvedSymbol
		return nil
	}
	sym.Target = c.number(target)
	return target
}

func (c *Checker) aliasTarget(sym *ast.Symbol) *ast.Symbol {
	if len(sym.Declarations) == 0 {
		return nil
	}
	decl := sym.Declarations[0]
	imported := decl.NameText()
	if decl.PropertyName != nil {
		imported = decl.PropertyName.Text
	}

	switch decl.Kind {
	case ast.KindImportSpecifier:
		mod := c.resolveModuleSymbol(decl.File, decl.Parent.ModuleSpecifier)
		return c.exportsOf(mod).Get(imported)
	case ast.KindNamespaceImport:
		return c.resolveModuleSymbol(decl.File, decl.Parent.ModuleSpecifier)
	case ast.KindExportSpecifier:
		specifier := decl.Parent.ModuleSpecifier
		if decl.HasModifier(ast.FlagExportStar) {
			return c.resolveModuleSymbol(decl.File, specifier)
		}
		if specifier != "" {
			return c.exportsOf(c.resolveModuleSymbol(decl.File, specifier)).Get(imported)
		}
		return c.ResolveName(imported, decl.Parent, ast.SymbolValue|ast.SymbolType|ast.SymbolNamespace)
	case ast.KindExportAssignment:
		if text := ast.EntityText(decl.Expression); text != "" {
			return c.resolveEntityName(text, decl, ast.SymbolValue|ast.SymbolType|ast.SymbolNamespace)
		}
	}
	return nil
}

func (c *Checker) resolveModuleSymbol(from *ast.SourceFile, specifier string) *ast.Symbol {
	if f := c.program.ResolveModule(from, specifier); f != nil {
		return f.Symbol
	}
	return c.program.ambientModules[specifier]
}

// exportsOf returns the exports of a module, namespace, class or enum.
// File modules include names re-exported with export *.
func (c *Checker) exportsOf(sym *ast.Symbol) *ast.SymbolTable {
	if sym == nil {
		return nil
	}
	if len(sym.Declarations) == 0 || sym.Declarations[0].Kind != ast.KindSourceFile {
		return sym.Exports
	}
	if cached, ok := c.exportsCache[sym]; ok {
		return cached
	}

	table := ast.NewSymbolTable()
	c.exportsCache[sym] = table
	for _, name := range sym.Exports.Names() {
		table.Set(name, sym.Exports.Get(name))
	}
	file := sym.Declarations[0].File
	for _, specifier := range file.ExportStars {
		other := c.exportsOf(c.resolveModuleSymbol(file, specifier))
		for _, name := range other.Names() {
			if name != "default" && table.Get(name) == nil {
				table.Set(name, other.Get(name))
			}
		}
	}
	return table
}

// GetExportsOfModule lists the symbols a module exports, in declaration order.
func (c *Checker) GetExportsOfModule(sym *ast.Symbol) []*ast.Symbol {
	return c.exportsOf(c.ResolveAlias(sym)).Symbols()
}

// resolveEntityName resolves "A.B.C" from location. The last segment is
// looked up with meaning; the others must be namespaces or classes.
func (c *Checker) resolveEntityName(text string, location *ast.Node, meaning ast.SymbolFlags) *ast.Symbol {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, ".")
	first := meaning
	if len(parts) > 1 {
		first = ast.SymbolNamespace | ast.SymbolClass | ast.SymbolVariable
	}
	sym := c.ResolveAlias(c.ResolveName(parts[0], location, first))
	for _, part := range parts[1:] {
		if sym == nil {
			return nil
		}
		sym = c.ResolveAlias(c.exportsOf(sym).Get(part))
	}
	return c.number(sym)
}

// GetSymbolAtLocation returns the symbol a declaration, its name, a type
// reference or an entity expression denotes, following aliases.
func (c *Checker) GetSymbolAtLocation(n *ast.Node) *ast.Symbol {
	if n == nil {
		return nil
	}
	if n.Symbol != nil {
		return n.Symbol
	}
	if n.Parent != nil && n.Parent.Name == n && n.Parent.Symbol != nil {
		return n.Parent.Symbol
	}
	switch n.Kind {
	case ast.KindTypeReference:
		return c.resolveEntityName(n.Name.Text, n, ast.SymbolType)
	case ast.KindExpressionWithTypeArguments:
		return c.resolveEntityName(ast.EntityText(n.Expression), n, ast.SymbolType|ast.SymbolValue)
	case ast.KindIdentifier, ast.KindPropertyAccessExpression:
		return c.resolveEntityName(ast.EntityText(n), n, ast.SymbolValue|ast.SymbolType|ast.SymbolNamespace)
	}
	return nil
}

// SymbolToString names sym relative to its module: "Base.foo".
func (c *Checker) SymbolToString(sym *ast.Symbol) string {
	if sym == nil {
		return ""
	}
	parts := []string{sym.Name}
	for p := sym.Parent; p != nil && !isModuleSymbol(p); p = p.Parent {
		parts = append([]string{p.Name}, parts...)
	}
	return strings.Join(parts, ".")
}

// GetFullyQualifiedName includes the module: "\"src/a\".Base.foo".
func (c *Checker) GetFullyQualifiedName(sym *ast.Symbol) string {
	if sym == nil {
		return ""
	}
	parts := []string{sym.Name}
	for p := sym.Parent; p != nil; p = p.Parent {
		parts = append([]string{p.Name}, parts...)
	}
	return strings.Join(parts, ".")
}

func isModuleSymbol(sym *ast.Symbol) bool {
	return strings.HasPrefix(sym.Name, `"`)
}

// GetAliasedSymbol is ResolveAlias under the compiler's name.
func (c *Checker) GetAliasedSymbol(sym *ast.Symbol) *ast.Symbol {
	return c.ResolveAlias(sym)
}

// GetTypeAtLocation types a declaration, type node or expression. Errors
// wrap errors.ErrTypeQuery.
func (c *Checker) GetTypeAtLocation(n *ast.Node) (*Type, error) {
	if n == nil {
		return nil, errors.Wrap(errors.ErrTypeQuery, "no node")
	}
	if n.Kind.IsTypeNode() && n.Kind != ast.KindFunctionType && n.Kind != ast.KindConstructorType {
		return c.GetTypeFromTypeNode(n), nil
	}

	switch n.Kind {
	case ast.KindExpressionWithTypeArguments:
		sym := c.resolveEntityName(ast.EntityText(n.Expression), n, ast.SymbolType|ast.SymbolValue)
		if sym == nil {
			return nil, errors.Wrapf(errors.ErrTypeQuery, "cannot resolve %q", n.GetText())
		}
		if sym.Has(ast.SymbolTypeAlias) {
			return c.aliasedType(sym), nil
		}
		return &Type{Flags: TypeObject, Symbol: sym, TypeArguments: c.typeArguments(n.TypeArguments)}, nil
	case ast.KindIdentifier:
		if n.Parent != nil && n.Parent.Name == n {
			return c.GetTypeAtLocation(n.Parent)
		}
	case ast.KindClassDeclaration, ast.KindInterfaceDeclaration, ast.KindEnumDeclaration,
		ast.KindTypeAliasDeclaration, ast.KindTypeParameter:
		if t := c.GetDeclaredTypeOfSymbol(n.Symbol); t != nil {
			return t, nil
		}
		return nil, errors.Wrapf(errors.ErrTypeQuery, "no declared type for %s", n.Kind)
	case ast.KindModuleDeclaration, ast.KindSourceFile, ast.KindClassExpression:
		if n.Symbol != nil {
			return &Type{Flags: TypeObject, Symbol: n.Symbol}, nil
		}
	case ast.KindVariableDeclaration, ast.KindParameter, ast.KindPropertyDeclaration, ast.KindPropertySignature,
		ast.KindBindingElement, ast.KindEnumMember, ast.KindPropertyAssignment, ast.KindShorthandPropertyAssignment:
		return c.typeOfDeclaration(n)
	}

	if n.Kind.IsFunctionLike() && n.Kind != ast.KindArrowFunction && n.Kind != ast.KindFunctionExpression {
		if n.Symbol != nil {
			return &Type{Flags: TypeObject, Symbol: n.Symbol}, nil
		}
		return nil, errors.Wrapf(errors.ErrTypeQuery, "unbound %s", n.Kind)
	}
	return c.typeOfExpression(n, false)
}

// GetDeclaredTypeOfSymbol returns the type a type-declaring symbol names,
// or the value type of other symbols.
func (c *Checker) GetDeclaredTypeOfSymbol(sym *ast.Symbol) *Type {
	sym = c.ResolveAlias(sym)
	switch {
	case sym == nil:
		return nil
	case sym.Has(ast.SymbolTypeParameter):
		return c.typeParameterType(sym)
	case sym.Has(ast.SymbolTypeAlias):
		return c.aliasedType(sym)
	case sym.Has(ast.SymbolClass | ast.SymbolInterface | ast.SymbolEnum):
		return &Type{Flags: TypeObject, Symbol: sym}
	}
	return c.GetTypeOfSymbol(sym)
}

// GetTypeOfSymbol returns the value type of sym, or nil.
func (c *Checker) GetTypeOfSymbol(sym *ast.Symbol) *Type {
	sym = c.ResolveAlias(sym)
	if sym == nil {
		return nil
	}
	switch {
	case sym.Has(ast.SymbolGetAccessor | ast.SymbolSetAccessor):
		for _, d := range sym.Declarations {
			if d.Kind == ast.KindGetAccessor {
				return c.GetReturnTypeOfDeclaration(d)
			}
		}
		for _, d := range sym.Declarations {
			if d.Kind == ast.KindSetAccessor && len(d.Parameters) > 0 {
				t, _ := c.typeOfDeclaration(d.Parameters[0])
				return t
			}
		}
	case sym.Has(ast.SymbolVariable|ast.SymbolProperty|ast.SymbolParameter) &&
		!sym.Has(ast.SymbolMethod|ast.SymbolFunction|ast.SymbolClass):
		decl := sym.ValueDeclaration
		if decl == nil && len(sym.Declarations) > 0 {
			decl = sym.Declarations[0]
		}
		t, err := c.typeOfDeclaration(decl)
		if err != nil {
			return nil
		}
		return t
	case sym.Has(ast.SymbolEnumMember | ast.SymbolFunction | ast.SymbolMethod | ast.SymbolClass | ast.SymbolEnum |
		ast.SymbolValueModule | ast.SymbolObjectLiteral | ast.SymbolTypeLiteral | ast.SymbolConstructor):
		return &Type{Flags: TypeObject, Symbol: sym}
	}
	return nil
}

func (c *Checker) typeOfDeclaration(decl *ast.Node) (*Type, error) {
	if decl == nil {
		return nil, errors.Wrap(errors.ErrTypeQuery, "no declaration")
	}
	if decl.Type != nil && !decl.Kind.IsFunctionLike() {
		return c.GetTypeFromTypeNode(decl.Type), nil
	}

	switch decl.Kind {
	case ast.KindVariableDeclaration, ast.KindBindingElement, ast.KindPropertyDeclaration, ast.KindPropertyAssignment:
		if decl.Initializer == nil {
			return c.intrinsics["any"], nil
		}
		flags := decl.CombinedFlags()
		literal := flags&ast.ModifierConst != 0
		switch decl.Kind {
		case ast.KindPropertyDeclaration:
			literal = flags&ast.ModifierReadonly != 0
		case ast.KindPropertyAssignment:
			literal = false
		}
		return c.typeOfExpression(decl.Initializer, literal)
	case ast.KindParameter:
		if decl.Initializer != nil {
			return c.typeOfExpression(decl.Initializer, false)
		}
		return c.intrinsics["any"], nil
	case ast.KindPropertySignature:
		return c.intrinsics["any"], nil
	case ast.KindShorthandPropertyAssignment:
		if t := c.GetTypeOfSymbol(c.resolveEntityName(decl.NameText(), decl.Parent, ast.SymbolValue)); t != nil {
			return t, nil
		}
		return nil, errors.Wrapf(errors.ErrTypeQuery, "cannot resolve %q", decl.NameText())
	case ast.KindEnumMember:
		return &Type{Flags: TypeObject, Symbol: decl.Symbol}, nil
	}
	if decl.Symbol != nil {
		return &Type{Flags: TypeObject, Symbol: decl.Symbol}, nil
	}
	return nil, errors.Wrapf(errors.ErrTypeQuery, "cannot type %s", decl.Kind)
}

func (c *Checker) typeOfExpression(e *ast.Node, literal bool) (*Type, error) {
	switch e.Kind {
	case ast.KindStringLiteral:
		if literal {
			return stringLiteral(e.Text), nil
		}
		return c.intrinsics["string"], nil
	case ast.KindTemplateExpression:
		return c.intrinsics["string"], nil
	case ast.KindNumericLiteral:
		if literal {
			return numberLiteral(e.Text), nil
		}
		return c.intrinsics["number"], nil
	case ast.KindTrueKeyword, ast.KindFalseKeyword:
		if literal {
			return booleanLiteral(e.Kind == ast.KindTrueKeyword), nil
		}
		return c.intrinsics["boolean"], nil
	case ast.KindNullKeyword:
		return c.intrinsics["null"], nil
	case ast.KindIdentifier, ast.KindPropertyAccessExpression:
		text := ast.EntityText(e)
		if text == "undefined" {
			return c.intrinsics["undefined"], nil
		}
		if t := c.GetTypeOfSymbol(c.resolveEntityName(text, e, ast.SymbolValue)); t != nil {
			if literal {
				return t, nil
			}
			return c.widen(t), nil
		}
	case ast.KindPrefixUnaryExpression:
		switch e.Text {
		case "-", "+":
			if literal && e.Expression != nil && e.Expression.Kind == ast.KindNumericLiteral {
				text := e.Expression.Text
				if e.Text == "-" {
					text = "-" + text
				}
				return numberLiteral(text), nil
			}
			return c.intrinsics["number"], nil
		case "~":
			return c.intrinsics["number"], nil
		case "!":
			return c.intrinsics["boolean"], nil
		case "typeof":
			return c.intrinsics["string"], nil
		case "void":
			return c.intrinsics["undefined"], nil
		}
	case ast.KindObjectLiteralExpression, ast.KindArrowFunction, ast.KindFunctionExpression, ast.KindClassExpression:
		if e.Symbol != nil {
			return &Type{Flags: TypeObject, Symbol: e.Symbol}, nil
		}
	case ast.KindArrayLiteralExpression:
		elem := c.intrinsics["any"]
		if len(e.Elements) > 0 && e.Elements[0] != nil {
			if t, err := c.typeOfExpression(e.Elements[0], false); err == nil {
				elem = t
			}
		}
		return c.createArrayType(elem), nil
	case ast.KindNewExpression:
		if sym := c.resolveEntityName(ast.EntityText(e.Expression), e, ast.SymbolValue); sym.Has(ast.SymbolClass) {
			return &Type{Flags: TypeObject, Symbol: sym}, nil
		}
	case ast.KindCallExpression:
		sym := c.resolveEntityName(ast.EntityText(e.Expression), e, ast.SymbolValue)
		if sym.Has(ast.SymbolFunction | ast.SymbolMethod) {
			for _, d := range sym.Declarations {
				if d.Kind.IsFunctionLike() {
					return c.GetReturnTypeOfDeclaration(d), nil
				}
			}
		}
	case ast.KindAsExpression:
		if e.Type != nil {
			return c.GetTypeFromTypeNode(e.Type), nil
		}
	case ast.KindBinaryExpression:
		return c.typeOfBinary(e)
	}
	return nil, errors.Wrapf(errors.ErrTypeQuery, "cannot type %s expression", e.Kind)
}

func (c *Checker) typeOfBinary(e *ast.Node) (*Type, error) {
	switch e.Text {
	case "==", "===", "!=", "!==", "<", ">", "<=", ">=", "instanceof", "in":
		return c.intrinsics["boolean"], nil
	case "-", "*", "/", "%", "**", "<<", ">>", ">>>", "&", "|", "^":
		return c.intrinsics["number"], nil
	case "+":
		for _, operand := range e.Elements {
			if operand == nil {
				continue
			}
			if t, err := c.typeOfExpression(operand, false); err == nil && t.Is(TypeString) {
				return t, nil
			}
		}
		return c.intrinsics["number"], nil
	case "&&", "||", "??":
		if len(e.Elements) == 2 && e.Elements[1] != nil {
			return c.typeOfExpression(e.Elements[1], false)
		}
	}
	return nil, errors.Wrapf(errors.ErrTypeQuery, "cannot type operator %q", e.Text)
}

func (c *Checker) widen(t *Type) *Type {
	switch {
	case t.Is(TypeStringLiteral):
		return c.intrinsics["string"]
	case t.Is(TypeNumberLiteral):
		return c.intrinsics["number"]
	case t.Is(TypeBooleanLiteral):
		return c.intrinsics["boolean"]
	}
	return t
}

// GetReturnTypeOfDeclaration returns the declared or inferred return type
// of a function-like declaration.
func (c *Checker) GetReturnTypeOfDeclaration(decl *ast.Node) *Type {
	switch decl.Kind {
	case ast.KindConstructor:
		if decl.Parent != nil && decl.Parent.Symbol != nil {
			return &Type{Flags: TypeObject, Symbol: decl.Parent.Symbol}
		}
	case ast.KindSetAccessor:
		return c.intrinsics["void"]
	}
	if decl.Type != nil {
		return c.GetTypeFromTypeNode(decl.Type)
	}
	if decl.Body == nil {
		return c.intrinsics["any"]
	}

	var t *Type
	if len(decl.Body.Elements) == 0 {
		t = c.intrinsics["void"]
	} else if inferred, err := c.typeOfExpression(decl.Body.Elements[0], false); err == nil {
		t = inferred
	} else {
		t = c.intrinsics["any"]
	}
	if decl.HasModifier(ast.ModifierAsync) {
		return &Type{Flags: TypeObject, Symbol: c.program.globals.Get("Promise"), TypeArguments: []*Type{t}}
	}
	return t
}

// GetTypeFromTypeNode maps a type annotation to a Type. Unresolvable names
// become opaque types carrying their source text.
func (c *Checker) GetTypeFromTypeNode(n *ast.Node) *Type {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.KindKeywordType:
		if t := c.intrinsics[n.Text]; t != nil {
			return t
		}
		return opaque(n.Text)
	case ast.KindTypeReference:
		return c.typeFromReference(n)
	case ast.KindArrayType:
		return c.createArrayType(c.GetTypeFromTypeNode(n.Type))
	case ast.KindTupleType:
		return &Type{Flags: TypeTuple, Types: c.typeArguments(n.Elements)}
	case ast.KindUnionType:
		return &Type{Flags: TypeUnion, Types: c.typeArguments(n.Types)}
	case ast.KindIntersectionType:
		return &Type{Flags: TypeIntersection, Types: c.typeArguments(n.Types)}
	case ast.KindParenthesizedType:
		return c.GetTypeFromTypeNode(n.Type)
	case ast.KindTypeLiteral, ast.KindFunctionType, ast.KindConstructorType:
		if n.Symbol != nil {
			return &Type{Flags: TypeObject, Symbol: n.Symbol}
		}
	case ast.KindLiteralType:
		if t := c.literalType(n.Expression); t != nil {
			return t
		}
	case ast.KindTypeQuery:
		if t := c.GetTypeOfSymbol(c.resolveEntityName(ast.EntityText(n.Expression), n, ast.SymbolValue)); t != nil {
			return t
		}
	case ast.KindImportType:
		return c.typeFromImportType(n)
	case ast.KindThisType:
		for p := n.Parent; p != nil; p = p.Parent {
			if p.Kind == ast.KindClassDeclaration || p.Kind == ast.KindInterfaceDeclaration {
				return &Type{Flags: TypeObject, Symbol: p.Symbol}
			}
		}
	}
	return opaque(n.GetText())
}

func (c *Checker) literalType(e *ast.Node) *Type {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.KindStringLiteral:
		return stringLiteral(e.Text)
	case ast.KindNumericLiteral:
		return numberLiteral(e.Text)
	case ast.KindTrueKeyword:
		return booleanLiteral(true)
	case ast.KindFalseKeyword:
		return booleanLiteral(false)
	case ast.KindNullKeyword:
		return c.intrinsics["null"]
	case ast.KindIdentifier:
		if e.Text == "undefined" {
			return c.intrinsics["undefined"]
		}
	case ast.KindPrefixUnaryExpression:
		if e.Text == "-" && e.Expression != nil && e.Expression.Kind == ast.KindNumericLiteral {
			return numberLiteral("-" + e.Expression.Text)
		}
	}
	return nil
}

func (c *Checker) typeArguments(nodes []*ast.Node) []*Type {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*Type, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, c.GetTypeFromTypeNode(n))
	}
	return out
}

func (c *Checker) typeFromReference(n *ast.Node) *Type {
	if n.Name == nil {
		return opaque(n.GetText())
	}
	sym := c.resolveEntityName(n.Name.Text, n, ast.SymbolType)
	if sym == nil {
		return opaque(n.GetText())
	}
	return c.typeOfTypeSymbol(sym, c.typeArguments(n.TypeArguments))
}

func (c *Checker) typeOfTypeSymbol(sym *ast.Symbol, args []*Type) *Type {
	switch {
	case sym.Has(ast.SymbolTypeParameter):
		return c.typeParameterType(sym)
	case sym.Has(ast.SymbolTypeAlias):
		return c.aliasedType(sym)
	case sym == c.arraySymbol() && len(args) == 1:
		return c.createArrayType(args[0])
	}
	return &Type{Flags: TypeObject, Symbol: sym, TypeArguments: args}
}

func (c *Checker) typeFromImportType(n *ast.Node) *Type {
	sym := c.resolveModuleSymbol(n.File, n.ModuleSpecifier)
	for _, part := range strings.Split(n.Name.Text, ".") {
		if sym == nil {
			return opaque(n.GetText())
		}
		sym = c.ResolveAlias(c.exportsOf(sym).Get(part))
	}
	if sym == nil {
		return opaque(n.GetText())
	}
	return c.typeOfTypeSymbol(c.number(sym), c.typeArguments(n.TypeArguments))
}

func (c *Checker) aliasedType(sym *ast.Symbol) *Type {
	for _, d := range sym.Declarations {
		if d.Kind != ast.KindTypeAliasDeclaration || d.Type == nil {
			continue
		}
		if c.resolvingTypes[d] {
			return opaque(sym.Name)
		}
		c.resolvingTypes[d] = true
		t := c.GetTypeFromTypeNode(d.Type)
		delete(c.resolvingTypes, d)
		return t
	}
	return opaque(sym.Name)
}

func (c *Checker) typeParameterType(sym *ast.Symbol) *Type {
	if t, ok := c.typeParameters[sym]; ok {
		return t
	}
	t := &Type{Flags: TypeTypeParameter, Name: sym.Name, Symbol: sym}
	c.typeParameters[sym] = t
	if len(sym.Declarations) > 0 && sym.Declarations[0].Type != nil {
		t.Constraint = c.GetTypeFromTypeNode(sym.Declarations[0].Type)
	}
	return t
}

func (c *Checker) arraySymbol() *ast.Symbol {
	return c.program.globals.Get("Array")
}

func (c *Checker) createArrayType(elem *Type) *Type {
	return &Type{Flags: TypeObject, Symbol: c.arraySymbol(), TypeArguments: []*Type{elem}}
}

// IsArrayType reports Array<T> types, including those written T[].
func (c *Checker) IsArrayType(t *Type) bool {
	return t.Is(TypeObject) && t.Symbol != nil && t.Symbol == c.arraySymbol() && len(t.TypeArguments) == 1
}
