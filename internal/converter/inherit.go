package converter

import (
	"tsdoc/internal/ast"
	"tsdoc/internal/models"
)

// Inherit converts the members of base into the current scope as if they
// were declared there. New members get inheritedFrom, members the derived
// type already declares get overwrites. typeArguments bind the base's type
// parameters. A base symbol is visited at most once per outermost call.
func (c *Context) Inherit(base *ast.Node, typeArguments []*ast.Node) models.Reflection {
	target, ok := c.Scope.(models.Container)
	if !ok {
		c.Converter.Logger.Verbose("cannot inherit %s into %s", base.Kind, c.Scope.Base().Kind)
		return c.Scope
	}

	outermost := !c.isInherit
	if outermost {
		c.inheritedSymbols = map[int]bool{}
	}
	if base.Symbol != nil {
		id := c.GetSymbolID(base.Symbol)
		if c.inheritedSymbols[id] {
			return target
		}
		c.inheritedSymbols[id] = true
	}

	wasInherit, oldInherited, oldParent, oldArgs := c.isInherit, c.inherited, c.inheritParent, c.typeArguments
	defer func() {
		c.isInherit, c.inherited, c.inheritParent, c.typeArguments = wasInherit, oldInherited, oldParent, oldArgs
		if outermost {
			c.inheritedSymbols = nil
		}
	}()

	c.isInherit = true
	c.inheritParent = base
	c.inherited = c.inherited[:0:0]
	for _, child := range target.Container().Children {
		c.inherited = append(c.inherited, child.Name)
	}
	c.typeArguments = nil
	if len(typeArguments) > 0 {
		c.typeArguments = c.Converter.ConvertTypes(c, typeArguments, nil)
	}

	c.Converter.ConvertNode(c, base)
	return target
}

// inheritHeritage walks the extends (or implements) clauses of node, records
// the heritage types on r unless inheriting, and flattens the base members
// into the current scope.
func inheritHeritage(cc *Context, r *models.DeclarationReflection, node *ast.Node, token ast.HeritageToken) {
	for _, clause := range node.HeritageClauses {
		if clause.Token != token {
			continue
		}
		for _, baseType := range clause.Types {
			t := cc.GetTypeAtLocation(baseType)
			if !cc.isInherit {
				if converted := cc.Converter.ConvertType(cc, baseType, t); converted != nil {
					if token == ast.HeritageExtends {
						r.ExtendedTypes = append(r.ExtendedTypes, converted)
					} else {
						r.ImplementedTypes = append(r.ImplementedTypes, converted)
					}
				}
			}
			if t == nil {
				continue
			}
			bases := []*ast.Symbol{t.Symbol}
			if len(t.Types) > 0 && t.Symbol == nil {
				bases = bases[:0]
				for _, member := range t.Types {
					bases = append(bases, member.Symbol)
				}
			}
			for _, sym := range bases {
				if sym == nil {
					continue
				}
				for _, decl := range sym.Declarations {
					cc.Inherit(decl, baseType.TypeArguments)
				}
			}
		}
	}
}
