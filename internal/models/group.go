package models

// ReflectionGroup is a derived view grouping a container's children by kind.
type ReflectionGroup struct {
	Title    string
	Kind     ReflectionKind
	Children []*DeclarationReflection

	AllChildrenAreInherited          bool
	AllChildrenArePrivate            bool
	AllChildrenAreProtectedOrPrivate bool
	AllChildrenAreExternal           bool
	SomeChildrenAreExported          bool
}

// NewReflectionGroup creates an empty group.
func NewReflectionGroup(title string, kind ReflectionKind) *ReflectionGroup {
	return &ReflectionGroup{Title: title, Kind: kind}
}

func (g *ReflectionGroup) ToObject() map[string]any {
	ids := make([]any, 0, len(g.Children))
	for _, child := range g.Children {
		ids = append(ids, child.ID)
	}
	return map[string]any{
		"title":    g.Title,
		"kind":     int(g.Kind),
		"children": ids,
	}
}

// Decorator records one decorator applied to a declaration.
type Decorator struct {
	Name      string
	Type      *ReferenceType
	Arguments map[string]string
}

func (d *Decorator) ToObject() map[string]any {
	obj := map[string]any{"name": d.Name}
	if d.Type != nil {
		obj["type"] = d.Type.ToObject()
	}
	if len(d.Arguments) > 0 {
		args := map[string]any{}
		for k, v := range d.Arguments {
			args[k] = v
		}
		obj["arguments"] = args
	}
	return obj
}

// DeclarationHierarchy is one level of a class or interface type hierarchy.
type DeclarationHierarchy struct {
	Types    []Type
	Next     *DeclarationHierarchy
	IsTarget bool
}
