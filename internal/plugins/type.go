package plugins

import (
	"strings"

	"tsdoc/internal/ast"
	"tsdoc/internal/converter"
	"tsdoc/internal/models"
)

// TypePlugin resolves reference types against the finished project,
// records which classes and interfaces extend or implement each other and
// builds their type hierarchies once every reflection is resolved.
type TypePlugin struct {
	postponed []*models.DeclarationReflection
}

func NewTypePlugin() *TypePlugin { return &TypePlugin{} }

func (p *TypePlugin) Name() string { return "type" }

func (p *TypePlugin) Attach(c *converter.Converter) {
	c.On(converter.EventBegin, converter.ContextHandler(p.onBegin), p, 0)
	c.On(converter.EventResolve, converter.ReflectionHandler(p.onResolve), p, 0)
	c.On(converter.EventResolveEnd, converter.ContextHandler(p.onEndResolve), p, 0)
}

func (p *TypePlugin) onBegin(*converter.Context) { p.postponed = nil }

func (p *TypePlugin) onResolve(cc *converter.Context, r models.Reflection, _ *ast.Node) {
	resolve := func(types ...models.Type) {
		for _, t := range types {
			resolveType(cc.Project, r, t)
		}
	}

	for _, d := range r.Base().Decorators {
		if d.Type != nil {
			resolve(d.Type)
		}
	}
	resolve(r.Base().Decorates...)

	switch v := r.(type) {
	case *models.DeclarationReflection:
		resolve(v.Type, v.InheritedFrom, v.Overwrites, v.ImplementationOf)
		resolve(v.ExtendedTypes...)
		resolve(v.ImplementedTypes...)
		if v.KindOf(models.KindClassOrInterface) {
			p.postpone(v)
			for _, target := range targets(v.ImplementedTypes) {
				p.postpone(target)
				target.ImplementedBy = append(target.ImplementedBy, models.NewResolvedReference(v.Name, v))
			}
			for _, target := range targets(v.ExtendedTypes) {
				p.postpone(target)
				target.ExtendedBy = append(target.ExtendedBy, models.NewResolvedReference(v.Name, v))
			}
		}
	case *models.SignatureReflection:
		resolve(v.Type, v.InheritedFrom, v.Overwrites, v.ImplementationOf)
	case *models.ParameterReflection:
		resolve(v.Type)
	case *models.TypeParameterReflection:
		resolve(v.Type)
	}
}

func (p *TypePlugin) postpone(r *models.DeclarationReflection) {
	for _, existing := range p.postponed {
		if existing == r {
			return
		}
	}
	p.postponed = append(p.postponed, r)
}

// targets returns the declarations resolved references point at.
func targets(types []models.Type) []*models.DeclarationReflection {
	var out []*models.DeclarationReflection
	for _, t := range types {
		ref, ok := t.(*models.ReferenceType)
		if !ok {
			continue
		}
		if d, ok := ref.Reflection().(*models.DeclarationReflection); ok && d != nil {
			out = append(out, d)
		}
	}
	return out
}

// resolveType moves references in t to the Resolved state when their
// target exists. References that cannot be resolved keep their state.
func resolveType(project *models.ProjectReflection, owner models.Reflection, t models.Type) {
	switch v := t.(type) {
	case *models.ReferenceType:
		switch state := v.State.(type) {
		case models.Unresolved:
			if target := project.ReflectionForSymbol(state.SymbolID); target != nil {
				v.State = models.Resolved{Target: target}
			}
		case models.ResolveByName:
			if target := findByName(project, owner, state.Name); target != nil {
				v.State = models.Resolved{Target: target}
			}
		}
		for _, arg := range v.TypeArguments {
			resolveType(project, owner, arg)
		}
	case *models.TupleType:
		for _, e := range v.Elements {
			resolveType(project, owner, e)
		}
	case *models.UnionType:
		for _, e := range v.Types {
			resolveType(project, owner, e)
		}
	case *models.IntersectionType:
		for _, e := range v.Types {
			resolveType(project, owner, e)
		}
	case *models.TypeParameterType:
		if v.Constraint != nil {
			resolveType(project, owner, v.Constraint)
		}
	}
}

// findByName looks for a dotted name among the children of owner and its
// ancestors first, then anywhere in the project.
func findByName(project *models.ProjectReflection, owner models.Reflection, name string) models.Reflection {
	names := strings.Split(name, ".")
	for scope := owner; scope != nil; scope = scope.Base().Parent {
		if found := childByPath(scope, names); found != nil {
			return found
		}
	}
	return project.FindReflectionByName(name)
}

func childByPath(scope models.Reflection, names []string) models.Reflection {
	current := scope
	for _, name := range names {
		container, ok := current.(models.Container)
		if !ok {
			return nil
		}
		child := container.Container().ChildByName(name)
		if child == nil {
			return nil
		}
		current = child
	}
	return current
}

func (p *TypePlugin) onEndResolve(*converter.Context) {
	for _, r := range p.postponed {
		var root, level *models.DeclarationHierarchy
		push := func(types []models.Type) *models.DeclarationHierarchy {
			next := &models.DeclarationHierarchy{Types: types}
			if level == nil {
				root = next
			} else {
				level.Next = next
			}
			level = next
			return next
		}

		if len(r.ExtendedTypes) > 0 {
			push(r.ExtendedTypes)
		}
		push([]models.Type{models.NewResolvedReference(r.Name, r)}).IsTarget = true
		if len(r.ExtendedBy) > 0 {
			push(r.ExtendedBy)
		}
		r.TypeHierarchy = root
	}
}
