package plugins

import (
	"sort"

	"tsdoc/internal/ast"
	"tsdoc/internal/converter"
	"tsdoc/internal/models"
)

// kindWeights orders children and groups.
var kindWeights = []models.ReflectionKind{
	models.KindGlobal,
	models.KindExternalModule,
	models.KindModule,
	models.KindEnum,
	models.KindEnumMember,
	models.KindClass,
	models.KindInterface,
	models.KindTypeAlias,
	models.KindConstructor,
	models.KindEvent,
	models.KindProperty,
	models.KindVariable,
	models.KindFunction,
	models.KindAccessor,
	models.KindMethod,
	models.KindObjectLiteral,
	models.KindParameter,
	models.KindTypeParameter,
	models.KindTypeLiteral,
	models.KindCallSignature,
	models.KindConstructorSignature,
	models.KindIndexSignature,
	models.KindGetSignature,
	models.KindSetSignature,
}

func kindWeight(kind models.ReflectionKind) int {
	for i, k := range kindWeights {
		if k == kind {
			return i
		}
	}
	return len(kindWeights)
}

// GroupPlugin sorts the children of every container by kind and name and
// groups them by kind. Source files are grouped the same way.
type GroupPlugin struct{}

func NewGroupPlugin() *GroupPlugin { return &GroupPlugin{} }

func (p *GroupPlugin) Name() string { return "group" }

func (p *GroupPlugin) Attach(c *converter.Converter) {
	c.On(converter.EventResolve, converter.ReflectionHandler(p.onResolve), p, 0)
	c.On(converter.EventResolveEnd, converter.ContextHandler(p.onEndResolve), p, 0)
}

func (p *GroupPlugin) onResolve(_ *converter.Context, r models.Reflection, _ *ast.Node) {
	if container, ok := r.(models.Container); ok {
		groupContainer(container.Container())
	}
}

func (p *GroupPlugin) onEndResolve(cc *converter.Context) {
	groupContainer(&cc.Project.ContainerReflection)
	for _, file := range cc.Project.Files {
		var decls []*models.DeclarationReflection
		for _, r := range file.Reflections {
			if d, ok := r.(*models.DeclarationReflection); ok {
				decls = append(decls, d)
			}
		}
		SortReflections(decls)
		file.Groups = ReflectionGroups(decls)
	}
}

func groupContainer(c *models.ContainerReflection) {
	if len(c.Children) == 0 {
		return
	}
	SortReflections(c.Children)
	c.Groups = ReflectionGroups(c.Children)
}

// SortReflections orders by kind weight, then instance members before
// static ones, then by name.
func SortReflections(list []*models.DeclarationReflection) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if wa, wb := kindWeight(a.Kind), kindWeight(b.Kind); wa != wb {
			return wa < wb
		}
		if as, bs := a.Flags.IsStatic(), b.Flags.IsStatic(); as != bs {
			return !as
		}
		return a.Name < b.Name
	})
}

// ReflectionGroups splits sorted reflections into one group per kind.
func ReflectionGroups(list []*models.DeclarationReflection) []*models.ReflectionGroup {
	var groups []*models.ReflectionGroup
	byKind := map[models.ReflectionKind]*models.ReflectionGroup{}
	for _, child := range list {
		group, ok := byKind[child.Kind]
		if !ok {
			group = models.NewReflectionGroup(child.Kind.Plural(), child.Kind)
			byKind[child.Kind] = group
			groups = append(groups, group)
		}
		group.Children = append(group.Children, child)
	}

	for _, group := range groups {
		someExported := false
		allPrivate, allProtected, allExternal, allInherited := true, true, true, true
		for _, child := range group.Children {
			flags := child.Flags
			someExported = someExported || flags.IsExported()
			allPrivate = allPrivate && flags.IsPrivate()
			allProtected = allProtected && (flags.IsPrivate() || flags.IsProtected())
			allExternal = allExternal && flags.IsExternal()
			allInherited = allInherited && child.InheritedFrom != nil
		}
		group.SomeChildrenAreExported = someExported
		group.AllChildrenArePrivate = allPrivate
		group.AllChildrenAreProtectedOrPrivate = allProtected
		group.AllChildrenAreExternal = allExternal
		group.AllChildrenAreInherited = allInherited
	}
	return groups
}
