// Package ast is the syntax tree the converter walks. Sources are parsed
// with tree-sitter and lowered into Node values that carry the fields a
// documentation pass needs: names, modifiers, members, parameters, type
// annotations, heritage clauses and leading doc comments.
package ast

import "strings"

// Node is one lowered syntax node. Which fields are populated depends on Kind.
type Node struct {
	Kind   Kind
	Flags  ModifierFlags
	Parent *Node
	File   *SourceFile

	// byte offsets into File.Text and the zero based start position
	Pos, End        int
	Line, Character int

	Name *Node
	// Text holds identifier names, literal values, keyword type names and
	// operators. Other nodes read their source through GetText.
	Text string

	TypeParameters  []*Node
	Parameters      []*Node
	Type            *Node
	Initializer     *Node
	Body            *Node
	Members         []*Node
	Statements      []*Node
	Declarations    []*Node
	Elements        []*Node
	HeritageClauses []*Node
	Types           []*Node
	TypeArguments   []*Node
	Expression      *Node
	PropertyName    *Node
	Decorators      []*Node
	Token           HeritageToken
	// ModuleSpecifier is the unquoted module name of imports, re-exports and import types.
	ModuleSpecifier string

	// Comment is the raw /** */ comment directly preceding the node.
	Comment string

	Symbol      *Symbol
	LocalSymbol *Symbol
	Locals      *SymbolTable
}

// GetText returns the node's source text.
func (n *Node) GetText() string {
	if n == nil || n.File == nil || n.End > len(n.File.Text) || n.Pos > n.End {
		return n.textFallback()
	}
	return string(n.File.Text[n.Pos:n.End])
}

func (n *Node) textFallback() string {
	if n == nil {
		return ""
	}
	return n.Text
}

// NameText returns the declared name, or "" when the node has none.
func (n *Node) NameText() string {
	if n == nil || n.Name == nil {
		return ""
	}
	switch n.Name.Kind {
	case KindIdentifier, KindStringLiteral, KindNumericLiteral:
		return n.Name.Text
	}
	return ""
}

func (n *Node) HasModifier(flag ModifierFlags) bool {
	return n != nil && n.Flags&flag != 0
}

// CombinedFlags returns the node's flags merged with those of the variable
// statement it belongs to, so exported destructured names read as exported.
func (n *Node) CombinedFlags() ModifierFlags {
	if n == nil {
		return 0
	}
	flags := n.Flags
	for p := n.Parent; p != nil; p = p.Parent {
		switch p.Kind {
		case KindBindingElement, KindObjectBindingPattern, KindArrayBindingPattern, KindVariableDeclaration:
			continue
		case KindVariableStatement:
			flags |= p.Flags
		}
		break
	}
	return flags
}

// IsParameterProperty reports a constructor parameter declared with an
// accessibility or readonly modifier.
func (n *Node) IsParameterProperty() bool {
	return n != nil && n.Kind == KindParameter && n.Parent != nil &&
		n.Parent.Kind == KindConstructor && n.Flags&(AccessibilityModifiers|ModifierReadonly) != 0
}

// Ancestor returns the closest ancestor of the given kind.
func (n *Node) Ancestor(kind Kind) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}

// ForEachChild calls fn for every direct child in source order until fn returns true.
func (n *Node) ForEachChild(fn func(*Node) bool) bool {
	if n == nil {
		return false
	}
	visit := func(c *Node) bool { return c != nil && fn(c) }
	visitAll := func(list []*Node) bool {
		for _, c := range list {
			if visit(c) {
				return true
			}
		}
		return false
	}
	return visitAll(n.Decorators) ||
		visit(n.PropertyName) ||
		visit(n.Name) ||
		visitAll(n.TypeParameters) ||
		visitAll(n.Parameters) ||
		visitAll(n.HeritageClauses) ||
		visitAll(n.Types) ||
		visit(n.Expression) ||
		visitAll(n.TypeArguments) ||
		visit(n.Type) ||
		visit(n.Initializer) ||
		visitAll(n.Declarations) ||
		visitAll(n.Elements) ||
		visitAll(n.Members) ||
		visitAll(n.Statements) ||
		visit(n.Body)
}

// Walk visits n and all descendants depth first. Returning false from fn
// skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	n.ForEachChild(func(c *Node) bool {
		Walk(c, fn)
		return false
	})
}

// SetParents fixes Parent and File on every node below root.
func SetParents(root *Node, file *SourceFile) {
	root.File = file
	root.ForEachChild(func(c *Node) bool {
		c.Parent = root
		SetParents(c, file)
		return false
	})
}

// SourceFile is one parsed input file.
type SourceFile struct {
	FileName string
	Text     []byte
	Root     *Node

	IsDeclarationFile bool
	// IsExternalModule is set when the file has top level imports or exports.
	IsExternalModule bool
	// Comment is the file level doc comment, if the file starts with one.
	Comment string

	ParseErrors []ParseError
	// ModuleReferences lists every module specifier imported or re-exported.
	ModuleReferences []string
	// ExportStars lists module specifiers re-exported with export *.
	ExportStars []string

	Symbol *Symbol
}

// ParseError is a syntax error reported while lowering.
type ParseError struct {
	Pos       int
	Line      int
	Character int
	Message   string
}

// ModuleName is the file name without a TypeScript extension.
func (f *SourceFile) ModuleName() string {
	name := f.FileName
	for _, ext := range []string{".d.ts", ".tsx", ".ts"} {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// EntityText renders an identifier or dotted property access as "A.B.C".
// Other expressions yield "".
func EntityText(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindIdentifier:
		return n.Text
	case KindPropertyAccessExpression:
		left := EntityText(n.Expression)
		if left == "" || n.Name == nil {
			return ""
		}
		return left + "." + n.Name.Text
	}
	return ""
}
