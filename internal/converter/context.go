package converter

import (
	"github.com/bmatcuk/doublestar/v4"

	"tsdoc/internal/ast"
	"tsdoc/internal/checker"
	"tsdoc/internal/models"
)

// fakeSymbolIDSeed is the first id handed to symbols the checker never numbered.
const fakeSymbolIDSeed = -1024

// Context is the mutable state of one conversion run: the reflection being
// filled, the type parameters in scope and the inheritance bookkeeping.
// One Context serves exactly one run.
type Context struct {
	Converter *Converter
	Program   *checker.Program
	Checker   *checker.Checker
	Project   *models.ProjectReflection

	// Scope is the reflection new declarations are added to.
	Scope models.Reflection
	// IsExternal and IsDeclaration describe the file being converted.
	IsExternal    bool
	IsDeclaration bool

	fileNames map[string]bool

	typeParameters map[string]models.Type
	typeArguments  []models.Type

	isInherit        bool
	inherited        []string
	inheritParent    *ast.Node
	inheritedSymbols map[int]bool

	visitStack   []*ast.Node
	fakeSymbolID int
	// constraints guards type parameter constraints that mention themselves.
	constraints map[*ast.Symbol]bool
}

// NewContext starts a run with a fresh project. fileNames is the set of
// input files; everything else the program pulled in is external.
func NewContext(c *Converter, program *checker.Program, fileNames []string) *Context {
	project := models.NewProjectReflection(c.Options.Name)
	cc := &Context{
		Converter:    c,
		Program:      program,
		Checker:      program.TypeChecker(),
		Project:      project,
		Scope:        project,
		fileNames:    map[string]bool{},
		fakeSymbolID: fakeSymbolIDSeed,
		constraints:  map[*ast.Symbol]bool{},
	}
	for _, name := range fileNames {
		cc.fileNames[name] = true
	}
	return cc
}

// IsInherit reports whether members are being converted through a heritage clause.
func (c *Context) IsInherit() bool { return c.isInherit }

// InheritParent is the base declaration currently being inherited from.
func (c *Context) InheritParent() *ast.Node { return c.inheritParent }

// TypeParameter returns the type bound to name in the current scope.
func (c *Context) TypeParameter(name string) (models.Type, bool) {
	t, ok := c.typeParameters[name]
	return t, ok
}

// GetSymbolID returns the checker's id for sym, numbering it with a
// decreasing negative id when the checker never did.
func (c *Context) GetSymbolID(sym *ast.Symbol) int {
	if sym == nil {
		return 0
	}
	if sym.ID == 0 {
		sym.ID = c.fakeSymbolID
		c.fakeSymbolID--
	}
	return sym.ID
}

// RegisterReflection adds r to the project and maps the symbol of node (or
// sym when given) to it. The first reflection for a symbol wins and
// inherited copies never claim a symbol.
func (c *Context) RegisterReflection(r models.Reflection, node *ast.Node, sym *ast.Symbol) {
	c.Project.Register(r)
	if sym == nil && node != nil {
		sym = node.Symbol
	}
	if c.isInherit || sym == nil {
		return
	}
	c.Project.MapSymbol(c.GetSymbolID(sym), r.Base().ID)
}

// Trigger fires name on the converter's bus with the context first.
func (c *Context) Trigger(name string, r models.Reflection, node *ast.Node) {
	c.Converter.Trigger(name, c, r, node)
}

// GetTypeAtLocation asks the checker for the type of node. When that fails
// it falls back to the declared type of the nearest symbol on node or its
// two closest ancestors; nil means no type could be found.
func (c *Context) GetTypeAtLocation(node *ast.Node) *checker.Type {
	if node == nil {
		return nil
	}
	if t, err := c.Checker.GetTypeAtLocation(node); err == nil && t != nil {
		return t
	}
	switch {
	case node.Symbol != nil:
		return c.Checker.GetDeclaredTypeOfSymbol(node.Symbol)
	case node.Parent != nil && node.Parent.Symbol != nil:
		return c.Checker.GetDeclaredTypeOfSymbol(node.Parent.Symbol)
	case node.Parent != nil && node.Parent.Parent != nil && node.Parent.Parent.Symbol != nil:
		return c.Checker.GetDeclaredTypeOfSymbol(node.Parent.Parent.Symbol)
	}
	return nil
}

// WithScope runs fn with scope as the current reflection. A nil scope skips fn.
func (c *Context) WithScope(scope models.Reflection, fn func()) {
	c.WithScopeParams(scope, nil, false, fn)
}

// WithScopeParams is WithScope that also brings typeParameters into scope.
// With preserve the enclosing type parameters stay visible. Type arguments
// passed by Inherit bind the parameters by position; otherwise a type
// parameter reflection is created on scope for each of them.
func (c *Context) WithScopeParams(scope models.Reflection, typeParameters []*ast.Node, preserve bool, fn func()) {
	if scope == nil || isNilReflection(scope) {
		return
	}
	oldScope, oldParams, oldArgs := c.Scope, c.typeParameters, c.typeArguments
	defer func() {
		c.Scope, c.typeParameters, c.typeArguments = oldScope, oldParams, oldArgs
	}()

	c.Scope = scope
	if typeParameters != nil {
		c.typeParameters = c.extractTypeParameters(typeParameters, preserve)
	}
	c.typeArguments = nil
	fn()
}

func (c *Context) extractTypeParameters(declarations []*ast.Node, preserve bool) map[string]models.Type {
	params := map[string]models.Type{}
	if preserve {
		for name, t := range c.typeParameters {
			params[name] = t
		}
	}
	for i, decl := range declarations {
		name := decl.NameText()
		if decl.Symbol == nil || name == "" {
			continue
		}
		if i < len(c.typeArguments) && c.typeArguments[i] != nil {
			params[name] = c.typeArguments[i]
			continue
		}
		if c.isInherit && decl.Parent == c.inheritParent {
			// unbound parameter of the base type; the derived type does not declare it
			params[name] = &models.TypeParameterType{Name: name}
			continue
		}
		if tp := createTypeParameter(c, decl); tp != nil {
			params[name] = tp
		}
	}
	return params
}

// WithSourceFile converts one file. Files outside the input set or matching
// an external pattern are external, and skipped when externals are
// excluded. Declaration files are skipped unless included, and the default
// library always is.
func (c *Context) WithSourceFile(file *ast.SourceFile, fn func()) {
	opts := c.Converter.Options
	isExternal := !c.fileNames[file.FileName]
	if !isExternal {
		for _, pattern := range opts.ExternalPattern {
			if ok, _ := doublestar.Match(pattern, file.FileName); ok {
				isExternal = true
				break
			}
		}
	}
	if isExternal && opts.ExcludeExternals {
		return
	}
	if file.IsDeclarationFile && (!opts.IncludeDeclarations || c.Program.IsDefaultLib(file)) {
		return
	}

	c.IsExternal, c.IsDeclaration = isExternal, file.IsDeclarationFile
	defer func() { c.IsExternal, c.IsDeclaration = false, false }()

	c.Trigger(EventFileBegin, c.Project, file.Root)
	fn()
}

func (c *Context) visiting(node *ast.Node) bool {
	for _, n := range c.visitStack {
		if n == node {
			return true
		}
	}
	return false
}

// isNilReflection catches typed nil pointers stored in the interface.
func isNilReflection(r models.Reflection) bool {
	switch v := r.(type) {
	case *models.DeclarationReflection:
		return v == nil
	case *models.SignatureReflection:
		return v == nil
	case *models.ParameterReflection:
		return v == nil
	case *models.ProjectReflection:
		return v == nil
	}
	return false
}
