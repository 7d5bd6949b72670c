package checker

import (
	"tsdoc/internal/ast"
)

// Names known to the checker without a library file. Declarations in a
// library file merge into these symbols.
var globalTypeNames = []string{
	"Array", "ReadonlyArray", "Promise", "PromiseLike", "Record", "Partial", "Readonly",
	"Required", "Pick", "Omit", "Map", "Set", "WeakMap", "WeakSet", "Date", "Error",
	"RegExp", "Function", "Object", "String", "Number", "Boolean", "Symbol", "Iterable",
}

func installGlobals(globals *ast.SymbolTable) {
	for _, name := range globalTypeNames {
		if globals.Get(name) == nil {
			globals.Set(name, ast.NewSymbol(name, ast.SymbolInterface))
		}
	}
}

// Exclusion masks: a new declaration whose name is already bound to a symbol
// with any of these flags gets its own symbol and a duplicate diagnostic.
const (
	blockVariableExcludes    = ast.SymbolValue
	functionVariableExcludes = ast.SymbolValue &^ ast.SymbolVariable
	parameterExcludes        = ast.SymbolValue
	functionExcludes         = ast.SymbolValue &^ (ast.SymbolFunction | ast.SymbolValueModule)
	classExcludes            = (ast.SymbolValue | ast.SymbolType) &^ (ast.SymbolValueModule | ast.SymbolInterface | ast.SymbolFunction)
	interfaceExcludes        = ast.SymbolType &^ (ast.SymbolInterface | ast.SymbolClass)
	enumExcludes             = (ast.SymbolValue | ast.SymbolType) &^ (ast.SymbolEnum | ast.SymbolValueModule)
	moduleExcludes           = ast.SymbolValue &^ (ast.SymbolFunction | ast.SymbolClass | ast.SymbolEnum | ast.SymbolValueModule)
	typeAliasExcludes        = ast.SymbolType
	typeParameterExcludes    = ast.SymbolType &^ ast.SymbolTypeParameter
	methodExcludes           = ast.SymbolValue &^ ast.SymbolMethod
	getAccessorExcludes      = ast.SymbolValue &^ ast.SymbolSetAccessor
	setAccessorExcludes      = ast.SymbolValue &^ ast.SymbolGetAccessor
	enumMemberExcludes       = ast.SymbolValue | ast.SymbolType
	aliasExcludes            = ast.SymbolAlias
)

// scope is where the binder declares names. Exported declarations go into
// exports (owned by parent) and are visible through locals as well.
type scope struct {
	locals  *ast.SymbolTable
	exports *ast.SymbolTable
	parent  *ast.Symbol
	// ambient scopes export every declaration
	ambient bool
}

type binder struct {
	program *Program
}

func (b *binder) bindFile(file *ast.SourceFile) {
	root := file.Root
	sym := ast.NewSymbol(`"`+file.ModuleName()+`"`, 0)
	sym.AddDeclaration(root, ast.SymbolValueModule)
	file.Symbol, root.Symbol = sym, sym

	var sc scope
	if file.IsExternalModule {
		root.Locals = ast.NewSymbolTable()
		sc = scope{locals: root.Locals, exports: sym.Exports, parent: sym}
	} else {
		root.Locals = b.program.globals
		sc = scope{locals: b.program.globals}
	}
	b.bindStatements(root.Statements, sc)
	ast.Walk(root, b.bindAnonymous)
}

func (b *binder) bindStatements(statements []*ast.Node, sc scope) {
	for _, s := range statements {
		b.bindStatement(s, sc)
	}
}

func (b *binder) bindStatement(n *ast.Node, sc scope) {
	switch n.Kind {
	case ast.KindVariableStatement:
		excludes := functionVariableExcludes
		if n.Flags&(ast.ModifierConst|ast.ModifierLet) != 0 {
			excludes = blockVariableExcludes
		}
		for _, d := range n.Declarations {
			b.bindVariable(d, sc, excludes)
		}
	case ast.KindFunctionDeclaration:
		b.declare(sc, n, n.NameText(), ast.SymbolFunction, functionExcludes)
	case ast.KindClassDeclaration:
		if sym := b.declare(sc, n, n.NameText(), ast.SymbolClass, classExcludes); sym != nil {
			b.bindClassMembers(sym, n)
		}
	case ast.KindInterfaceDeclaration:
		if sym := b.declare(sc, n, n.NameText(), ast.SymbolInterface, interfaceExcludes); sym != nil {
			b.bindTypeMembers(sym, n.Members)
		}
	case ast.KindTypeAliasDeclaration:
		b.declare(sc, n, n.NameText(), ast.SymbolTypeAlias, typeAliasExcludes)
	case ast.KindEnumDeclaration:
		if sym := b.declare(sc, n, n.NameText(), ast.SymbolEnum, enumExcludes); sym != nil {
			for _, m := range n.Members {
				if name := m.NameText(); name != "" {
					b.declareIn(sym.Exports, sym, m, name, ast.SymbolEnumMember, enumMemberExcludes)
				}
			}
		}
	case ast.KindModuleDeclaration:
		b.bindModule(n, sc)
	case ast.KindImportDeclaration:
		for _, e := range n.Elements {
			if name := e.NameText(); name != "" {
				b.declareIn(sc.locals, nil, e, name, ast.SymbolAlias, aliasExcludes)
			}
		}
	case ast.KindExportDeclaration:
		if sc.exports == nil {
			return
		}
		for _, e := range n.Elements {
			if name := e.NameText(); name != "" {
				b.declareIn(sc.exports, sc.parent, e, name, ast.SymbolAlias, aliasExcludes)
			}
		}
	case ast.KindExportAssignment:
		if sc.exports == nil {
			return
		}
		name := "default"
		if n.HasModifier(ast.FlagExportEquals) {
			name = "export="
		}
		b.declareIn(sc.exports, sc.parent, n, name, ast.SymbolAlias, aliasExcludes)
	}
}

func (b *binder) bindVariable(n *ast.Node, sc scope, excludes ast.SymbolFlags) {
	if n.Name == nil {
		return
	}
	switch n.Name.Kind {
	case ast.KindIdentifier:
		b.declare(sc, n, n.Name.Text, ast.SymbolVariable, excludes)
	case ast.KindObjectBindingPattern, ast.KindArrayBindingPattern:
		for _, el := range n.Name.Elements {
			b.bindVariable(el, sc, excludes)
		}
	}
}

func (b *binder) bindModule(n *ast.Node, sc scope) {
	inner := scope{ambient: sc.ambient || n.HasModifier(ast.ModifierDeclare)}

	var sym *ast.Symbol
	if n.HasModifier(ast.FlagStringName) {
		name := n.NameText()
		sym = b.program.ambientModules[name]
		if sym == nil {
			sym = ast.NewSymbol(`"`+name+`"`, 0)
			b.program.ambientModules[name] = sym
		}
		sym.AddDeclaration(n, ast.SymbolValueModule)
		n.Symbol = sym
		inner.ambient = true
	} else {
		sym = b.declare(sc, n, n.NameText(), ast.SymbolValueModule, moduleExcludes)
	}
	if sym == nil || n.Body == nil {
		return
	}

	n.Locals = ast.NewSymbolTable()
	inner.locals, inner.exports, inner.parent = n.Locals, sym.Exports, sym
	b.bindStatements(n.Body.Statements, inner)
}

func (b *binder) bindClassMembers(sym *ast.Symbol, n *ast.Node) {
	for _, m := range n.Members {
		table := sym.Members
		if m.HasModifier(ast.ModifierStatic) {
			table = sym.Exports
		}
		name := m.NameText()
		switch m.Kind {
		case ast.KindConstructor:
			b.declareIn(sym.Members, sym, m, "__constructor", ast.SymbolConstructor, 0)
			for _, p := range m.Parameters {
				if p.Flags&(ast.AccessibilityModifiers|ast.ModifierReadonly) != 0 && p.NameText() != "" {
					b.declareIn(sym.Members, sym, p, p.NameText(), ast.SymbolProperty, 0)
				}
			}
		case ast.KindMethodDeclaration:
			if name != "" {
				b.declareIn(table, sym, m, name, ast.SymbolMethod, methodExcludes)
			}
		case ast.KindPropertyDeclaration:
			if name != "" {
				b.declareIn(table, sym, m, name, ast.SymbolProperty, 0)
			}
		case ast.KindGetAccessor:
			if name != "" {
				b.declareIn(table, sym, m, name, ast.SymbolGetAccessor, getAccessorExcludes)
			}
		case ast.KindSetAccessor:
			if name != "" {
				b.declareIn(table, sym, m, name, ast.SymbolSetAccessor, setAccessorExcludes)
			}
		case ast.KindIndexSignature:
			b.declareIn(table, sym, m, "__index", ast.SymbolSignature, 0)
		}
	}
}

// bindTypeMembers binds interface, type literal and object literal members.
func (b *binder) bindTypeMembers(sym *ast.Symbol, members []*ast.Node) {
	for _, m := range members {
		name := m.NameText()
		switch m.Kind {
		case ast.KindPropertySignature, ast.KindPropertyAssignment, ast.KindShorthandPropertyAssignment:
			if name != "" {
				b.declareIn(sym.Members, sym, m, name, ast.SymbolProperty, 0)
			}
		case ast.KindMethodSignature, ast.KindMethodDeclaration:
			if name != "" {
				b.declareIn(sym.Members, sym, m, name, ast.SymbolMethod, 0)
			}
		case ast.KindGetAccessor:
			if name != "" {
				b.declareIn(sym.Members, sym, m, name, ast.SymbolGetAccessor, getAccessorExcludes)
			}
		case ast.KindSetAccessor:
			if name != "" {
				b.declareIn(sym.Members, sym, m, name, ast.SymbolSetAccessor, setAccessorExcludes)
			}
		case ast.KindCallSignature:
			b.declareIn(sym.Members, sym, m, "__call", ast.SymbolSignature, 0)
		case ast.KindConstructSignature:
			b.declareIn(sym.Members, sym, m, "__new", ast.SymbolSignature, 0)
		case ast.KindIndexSignature:
			b.declareIn(sym.Members, sym, m, "__index", ast.SymbolSignature, 0)
		}
	}
}

// bindAnonymous gives symbols to anonymous types and expressions and
// creates the local tables of functions, classes and aliases.
func (b *binder) bindAnonymous(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindTypeLiteral:
		if n.Symbol == nil {
			b.bindTypeMembers(anonymous(n, "__type", ast.SymbolTypeLiteral), n.Members)
		}
	case ast.KindFunctionType, ast.KindConstructorType:
		if n.Symbol == nil {
			anonymous(n, "__type", ast.SymbolTypeLiteral)
		}
	case ast.KindObjectLiteralExpression:
		if n.Symbol == nil {
			b.bindTypeMembers(anonymous(n, "__object", ast.SymbolObjectLiteral), n.Members)
		}
	case ast.KindArrowFunction, ast.KindFunctionExpression:
		if n.Symbol == nil {
			anonymous(n, "__function", ast.SymbolFunction)
		}
	case ast.KindClassExpression:
		if n.Symbol == nil {
			name := n.NameText()
			if name == "" {
				name = "__class"
			}
			b.bindClassMembers(anonymous(n, name, ast.SymbolClass), n)
		}
	}

	switch {
	case n.Kind.IsFunctionLike(), n.Kind == ast.KindClassDeclaration, n.Kind == ast.KindClassExpression,
		n.Kind == ast.KindInterfaceDeclaration, n.Kind == ast.KindTypeAliasDeclaration:
		b.bindLocals(n)
	}
	return true
}

func anonymous(n *ast.Node, name string, flags ast.SymbolFlags) *ast.Symbol {
	sym := ast.NewSymbol(name, 0)
	sym.AddDeclaration(n, flags)
	n.Symbol = sym
	return sym
}

func (b *binder) bindLocals(n *ast.Node) {
	if n.Locals != nil {
		return
	}
	n.Locals = ast.NewSymbolTable()
	for _, tp := range n.TypeParameters {
		if name := tp.NameText(); name != "" {
			b.declareIn(n.Locals, nil, tp, name, ast.SymbolTypeParameter, typeParameterExcludes)
		}
	}
	for _, p := range n.Parameters {
		b.bindParameter(n.Locals, p)
	}
}

func (b *binder) bindParameter(locals *ast.SymbolTable, p *ast.Node) {
	if p.Name == nil {
		return
	}
	switch p.Name.Kind {
	case ast.KindIdentifier:
		if p.Symbol != nil {
			// parameter property: p.Symbol is the class property
			local := ast.NewSymbol(p.Name.Text, 0)
			local.AddDeclaration(p, ast.SymbolParameter)
			locals.Set(p.Name.Text, local)
			p.LocalSymbol = local
			return
		}
		b.declareIn(locals, nil, p, p.Name.Text, ast.SymbolParameter, parameterExcludes)
	case ast.KindObjectBindingPattern, ast.KindArrayBindingPattern:
		for _, el := range p.Name.Elements {
			b.bindParameter(locals, el)
		}
	}
}

// declare binds a named declaration in sc, exporting it when the node (or
// the scope) says so. Default exports are keyed "default" in the export
// table and keep their own name on the symbol.
func (b *binder) declare(sc scope, n *ast.Node, name string, flags, excludes ast.SymbolFlags) *ast.Symbol {
	combined := n.CombinedFlags()
	isDefault := combined&ast.ModifierDefault != 0
	if name == "" {
		if !isDefault {
			return nil
		}
		name = "default"
	}

	exported := sc.exports != nil && (combined&ast.ModifierExport != 0 || sc.ambient)
	if !exported {
		return b.declareIn(sc.locals, nil, n, name, flags, excludes)
	}

	key := name
	if isDefault {
		key = "default"
	}
	sym := b.declareIn(sc.exports, sc.parent, n, key, flags, excludes)
	sym.Name = name
	if sc.locals.Get(name) == nil {
		sc.locals.Set(name, sym)
	}
	n.LocalSymbol = sym
	return sym
}

func (b *binder) declareIn(table *ast.SymbolTable, parent *ast.Symbol, n *ast.Node, name string, flags, excludes ast.SymbolFlags) *ast.Symbol {
	sym := table.Get(name)
	switch {
	case sym != nil && sym.Flags&excludes != 0:
		at := n
		if n.Name != nil {
			at = n.Name
		}
		b.program.bindDiags = append(b.program.bindDiags,
			diagnosticAt(at, CodeDuplicateIdentifier, "Duplicate identifier '%s'.", name))
		sym = ast.NewSymbol(name, 0)
		sym.Parent = parent
	case sym == nil:
		sym = ast.NewSymbol(name, 0)
		sym.Parent = parent
		table.Set(name, sym)
	}
	sym.AddDeclaration(n, flags)
	n.Symbol = sym
	return sym
}
