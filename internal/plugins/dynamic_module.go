package plugins

import (
	"strings"

	"tsdoc/internal/ast"
	"tsdoc/internal/converter"
	"tsdoc/internal/models"
)

// DynamicModulePlugin shortens external module names by the directory all
// of them share: "/src/lib/util" becomes "lib/util".
type DynamicModulePlugin struct {
	base    basePath
	modules []*models.DeclarationReflection
}

func NewDynamicModulePlugin() *DynamicModulePlugin { return &DynamicModulePlugin{} }

func (p *DynamicModulePlugin) Name() string { return "dynamic-module" }

func (p *DynamicModulePlugin) Attach(c *converter.Converter) {
	c.On(converter.EventBegin, converter.ContextHandler(p.onBegin), p, 0)
	c.On(converter.EventCreateDeclaration, converter.ReflectionHandler(p.onDeclaration), p, 0)
	c.On(converter.EventResolveBegin, converter.ContextHandler(p.onBeginResolve), p, 0)
}

func (p *DynamicModulePlugin) onBegin(*converter.Context) {
	p.base.reset()
	p.modules = nil
}

func (p *DynamicModulePlugin) onDeclaration(_ *converter.Context, r models.Reflection, _ *ast.Node) {
	decl, ok := r.(*models.DeclarationReflection)
	if !ok || decl.Kind != models.KindExternalModule {
		return
	}
	name := strings.Trim(decl.Name, `"`)
	if !strings.Contains(name, "/") {
		return
	}
	for _, m := range p.modules {
		if m == decl {
			return
		}
	}
	p.modules = append(p.modules, decl)
	p.base.add(name)
}

func (p *DynamicModulePlugin) onBeginResolve(*converter.Context) {
	for _, m := range p.modules {
		m.Name = `"` + p.base.trim(strings.Trim(m.Name, `"`)) + `"`
	}
}
