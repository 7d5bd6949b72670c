package checker

import (
	"strings"

	"tsdoc/internal/ast"
)

// check walks every non-library file and reports names and modules that do
// not resolve.
func (c *Checker) check() []Diagnostic {
	var out []Diagnostic
	for _, file := range c.program.files {
		if c.program.IsDefaultLib(file) {
			continue
		}
		ast.Walk(file.Root, func(n *ast.Node) bool {
			switch n.Kind {
			case ast.KindImportDeclaration, ast.KindExportDeclaration, ast.KindImportType:
				if n.ModuleSpecifier != "" && c.resolveModuleSymbol(file, n.ModuleSpecifier) == nil {
					out = append(out, diagnosticAt(n, CodeCannotFindModule,
						"Cannot find module '%s' or its corresponding type declarations.", n.ModuleSpecifier))
				}
			case ast.KindTypeReference:
				if n.Name != nil {
					out = append(out, c.checkEntity(n, n.Name.Text, ast.SymbolType)...)
				}
			case ast.KindExpressionWithTypeArguments:
				if text := ast.EntityText(n.Expression); text != "" {
					out = append(out, c.checkEntity(n, text, ast.SymbolType|ast.SymbolValue)...)
				}
			}
			return true
		})
	}
	return out
}

func (c *Checker) checkEntity(n *ast.Node, text string, meaning ast.SymbolFlags) []Diagnostic {
	parts := strings.Split(text, ".")
	first := meaning
	if len(parts) > 1 {
		first = ast.SymbolNamespace | ast.SymbolClass | ast.SymbolVariable
	}
	head := c.ResolveName(parts[0], n, first)
	if head == nil {
		return []Diagnostic{diagnosticAt(n, CodeCannotFindName, "Cannot find name '%s'.", parts[0])}
	}
	if len(parts) == 1 || c.resolveEntityName(text, n, meaning) != nil {
		return nil
	}
	if c.ResolveAlias(head) == nil {
		// reported as a missing module
		return nil
	}
	return []Diagnostic{diagnosticAt(n, CodeNoExportedMember,
		"Namespace '%s' has no exported member '%s'.", strings.Join(parts[:len(parts)-1], "."), parts[len(parts)-1])}
}
