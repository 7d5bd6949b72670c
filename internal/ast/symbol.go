package ast

// SymbolFlags classify what a symbol declares.
type SymbolFlags int

const (
	SymbolVariable SymbolFlags = 1 << iota
	SymbolParameter
	SymbolProperty
	SymbolEnumMember
	SymbolFunction
	SymbolClass
	SymbolInterface
	SymbolEnum
	SymbolValueModule
	SymbolNamespaceModule
	SymbolTypeLiteral
	SymbolObjectLiteral
	SymbolMethod
	SymbolConstructor
	SymbolGetAccessor
	SymbolSetAccessor
	SymbolSignature
	SymbolTypeParameter
	SymbolTypeAlias
	SymbolAlias
)

// Meanings used for name resolution.
const (
	SymbolModule = SymbolValueModule | SymbolNamespaceModule
	SymbolValue  = SymbolVariable | SymbolParameter | SymbolProperty | SymbolEnumMember | SymbolFunction |
		SymbolClass | SymbolEnum | SymbolValueModule | SymbolMethod | SymbolGetAccessor | SymbolSetAccessor |
		SymbolObjectLiteral
	SymbolType = SymbolClass | SymbolInterface | SymbolEnum | SymbolEnumMember | SymbolTypeLiteral |
		SymbolTypeParameter | SymbolTypeAlias
	SymbolNamespace = SymbolValueModule | SymbolNamespaceModule | SymbolEnum
)

// Symbol is shared by every declaration of one named entity.
type Symbol struct {
	// ID is zero until a consumer numbers the symbol.
	ID           int
	Name         string
	Flags        SymbolFlags
	Declarations []*Node
	// ValueDeclaration is the first declaration that introduces a value.
	ValueDeclaration *Node
	Members          *SymbolTable
	Exports          *SymbolTable
	Parent           *Symbol

	// Target caches the resolution of an alias symbol.
	Target *Symbol
}

// NewSymbol creates a symbol with empty member and export tables.
func NewSymbol(name string, flags SymbolFlags) *Symbol {
	return &Symbol{
		Name:    name,
		Flags:   flags,
		Members: NewSymbolTable(),
		Exports: NewSymbolTable(),
	}
}

func (s *Symbol) Has(flags SymbolFlags) bool {
	return s != nil && s.Flags&flags != 0
}

// AddDeclaration records node as a declaration of s.
func (s *Symbol) AddDeclaration(node *Node, flags SymbolFlags) {
	s.Flags |= flags
	s.Declarations = append(s.Declarations, node)
	if s.ValueDeclaration == nil && flags&SymbolValue != 0 {
		s.ValueDeclaration = node
	}
}

// SymbolTable is a name to symbol map that remembers insertion order.
type SymbolTable struct {
	names   []string
	symbols map[string]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: map[string]*Symbol{}}
}

func (t *SymbolTable) Get(name string) *Symbol {
	if t == nil {
		return nil
	}
	return t.symbols[name]
}

func (t *SymbolTable) Set(name string, sym *Symbol) {
	if _, ok := t.symbols[name]; !ok {
		t.names = append(t.names, name)
	}
	t.symbols[name] = sym
}

func (t *SymbolTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Symbols returns the symbols in insertion order.
func (t *SymbolTable) Symbols() []*Symbol {
	if t == nil {
		return nil
	}
	out := make([]*Symbol, 0, len(t.names))
	for _, name := range t.names {
		out = append(out, t.symbols[name])
	}
	return out
}

// Names returns the keys in insertion order.
func (t *SymbolTable) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.names...)
}
