package plugins

import (
	"strings"

	"tsdoc/internal/ast"
	"tsdoc/internal/converter"
	"tsdoc/internal/models"
)

// DecoratorPlugin records the decorators applied to declarations and
// parameters, and links every decorator function back to what it decorates.
type DecoratorPlugin struct {
	usages map[int][]models.Type
	order  []int
}

func NewDecoratorPlugin() *DecoratorPlugin { return &DecoratorPlugin{} }

func (p *DecoratorPlugin) Name() string { return "decorator" }

func (p *DecoratorPlugin) Attach(c *converter.Converter) {
	c.On(converter.EventBegin, converter.ContextHandler(p.onBegin), p, 0)
	c.On(converter.EventCreateDeclaration, converter.ReflectionHandler(p.onDeclaration), p, 0)
	c.On(converter.EventCreateParameter, converter.ReflectionHandler(p.onDeclaration), p, 0)
	c.On(converter.EventResolveBegin, converter.ContextHandler(p.onBeginResolve), p, 0)
}

func (p *DecoratorPlugin) onBegin(*converter.Context) {
	p.usages = map[int][]models.Type{}
	p.order = nil
}

func (p *DecoratorPlugin) onDeclaration(cc *converter.Context, r models.Reflection, node *ast.Node) {
	if node == nil {
		return
	}
	base := r.Base()
	for _, d := range node.Decorators {
		expr := d.Expression
		if expr == nil {
			continue
		}
		var identifier *ast.Node
		var args []*ast.Node
		switch expr.Kind {
		case ast.KindIdentifier, ast.KindPropertyAccessExpression:
			identifier = expr
		case ast.KindCallExpression:
			identifier, args = expr.Expression, expr.Elements
		default:
			continue
		}
		if identifier == nil {
			continue
		}

		info := &models.Decorator{Name: identifier.GetText()}
		if sym := cc.Checker.ResolveAlias(cc.Checker.GetSymbolAtLocation(identifier)); sym != nil {
			id := cc.GetSymbolID(sym)
			info.Type = models.NewReferenceType(info.Name, id)
			if expr.Kind == ast.KindCallExpression {
				info.Arguments = decoratorArguments(args, sym)
			}
			if _, seen := p.usages[id]; !seen {
				p.order = append(p.order, id)
			}
			p.usages[id] = append(p.usages[id], models.NewResolvedReference(base.Name, r))
		}
		base.Decorators = append(base.Decorators, info)
	}
}

// decoratorArguments names call arguments after the parameters of the
// decorator function. Arguments past the last parameter are collected
// under "...".
func decoratorArguments(args []*ast.Node, sym *ast.Symbol) map[string]string {
	var params []*ast.Node
	for _, decl := range sym.Declarations {
		if len(decl.Parameters) > 0 {
			params = decl.Parameters
			break
		}
		if decl.Initializer != nil && len(decl.Initializer.Parameters) > 0 {
			params = decl.Initializer.Parameters
			break
		}
	}

	out := map[string]string{}
	var rest []string
	for i, arg := range args {
		if i < len(params) && params[i].NameText() != "" {
			out[params[i].NameText()] = arg.GetText()
			continue
		}
		rest = append(rest, arg.GetText())
	}
	if len(rest) > 0 {
		out["..."] = strings.Join(rest, ", ")
	}
	return out
}

func (p *DecoratorPlugin) onBeginResolve(cc *converter.Context) {
	for _, id := range p.order {
		if target := cc.Project.ReflectionForSymbol(id); target != nil {
			target.Base().Decorates = p.usages[id]
		}
	}
}
