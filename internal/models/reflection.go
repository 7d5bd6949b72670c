// Package models holds the documentation model produced by the converter:
// reflections, types and comments, plus their serializable form.
package models

import "strings"

// TraverseProperty names the collection a child was reached through.
type TraverseProperty int

const (
	TraverseChildren TraverseProperty = iota
	TraverseParameters
	TraverseTypeLiteral
	TraverseTypeParameter
	TraverseSignatures
	TraverseIndexSignature
	TraverseGetSignature
	TraverseSetSignature
)

// TraverseCallback is invoked for every direct child of a reflection.
type TraverseCallback func(child Reflection, property TraverseProperty)

// Reflection is implemented by every node of the documentation model.
type Reflection interface {
	Base() *BaseReflection
	Traverse(fn TraverseCallback)
	ToObject() map[string]any
}

// BaseReflection holds the fields shared by all reflections.
type BaseReflection struct {
	ID           int
	Name         string
	OriginalName string
	Kind         ReflectionKind
	Flags        ReflectionFlags
	// Parent is a non-owning back reference; only the project has none.
	Parent     Reflection
	Comment    *Comment
	Sources    []*SourceReference
	Decorators []*Decorator
	Decorates  []Type
}

func (r *BaseReflection) Base() *BaseReflection { return r }

func (r *BaseReflection) Traverse(TraverseCallback) {}

func (r *BaseReflection) init(name string, kind ReflectionKind, parent Reflection) {
	r.Name = name
	r.OriginalName = name
	r.Kind = kind
	r.Parent = parent
	if p := ProjectOf(parent); p != nil {
		r.ID = p.NextID()
	}
}

// KindOf reports whether the reflection is of any kind in mask.
func (r *BaseReflection) KindOf(mask ReflectionKind) bool {
	return r.Kind.Is(mask)
}

// SetFlag sets or clears a flag. The visibility flags are exclusive.
func (r *BaseReflection) SetFlag(flag ReflectionFlag, value bool) {
	if value {
		if r.Flags.Has(flag) {
			return
		}
		r.Flags |= ReflectionFlags(flag)
	} else {
		if !r.Flags.Has(flag) {
			return
		}
		r.Flags &^= ReflectionFlags(flag)
	}

	if !value {
		return
	}
	switch flag {
	case FlagPrivate:
		r.SetFlag(FlagProtected, false)
		r.SetFlag(FlagPublic, false)
	case FlagProtected:
		r.SetFlag(FlagPrivate, false)
		r.SetFlag(FlagPublic, false)
	case FlagPublic:
		r.SetFlag(FlagPrivate, false)
		r.SetFlag(FlagProtected, false)
	}
}

// HasComment reports whether a comment with visible content is attached.
func (r *BaseReflection) HasComment() bool {
	return r.Comment != nil && r.Comment.HasVisibleComponent()
}

// FullName joins the names from the outermost non-project ancestor down to r.
func (r *BaseReflection) FullName(sep string) string {
	var parts []string
	var cur Reflection = r
	for cur != nil {
		b := cur.Base()
		if b.Kind == KindGlobal && b.Parent == nil {
			break
		}
		parts = append(parts, b.Name)
		cur = b.Parent
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, sep)
}

func (r *BaseReflection) ToObject() map[string]any {
	obj := map[string]any{
		"id":         r.ID,
		"name":       r.Name,
		"kind":       int(r.Kind),
		"kindString": r.Kind.String(),
		"flags":      r.Flags.ToObject(),
	}
	if r.OriginalName != r.Name {
		obj["originalName"] = r.OriginalName
	}
	if r.Comment != nil && r.Comment.HasVisibleComponent() {
		obj["comment"] = r.Comment.ToObject()
	}
	if len(r.Sources) > 0 {
		sources := make([]any, 0, len(r.Sources))
		for _, s := range r.Sources {
			sources = append(sources, s.ToObject())
		}
		obj["sources"] = sources
	}
	if len(r.Decorators) > 0 {
		decorators := make([]any, 0, len(r.Decorators))
		for _, d := range r.Decorators {
			decorators = append(decorators, d.ToObject())
		}
		obj["decorators"] = decorators
	}
	if len(r.Decorates) > 0 {
		obj["decorates"] = typesToObject(r.Decorates)
	}
	return obj
}

// ProjectOf walks the parent chain up to the project, or returns nil.
func ProjectOf(r Reflection) *ProjectReflection {
	for r != nil {
		if p, ok := r.(*ProjectReflection); ok {
			return p
		}
		r = r.Base().Parent
	}
	return nil
}

// ContainerReflection adds ordered children and their derived groups.
type ContainerReflection struct {
	BaseReflection
	Children []*DeclarationReflection
	Groups   []*ReflectionGroup
}

// ChildByName returns the first child with the given name.
func (c *ContainerReflection) ChildByName(name string) *DeclarationReflection {
	for _, child := range c.Children {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// ChildrenByKind returns children of any kind in mask.
func (c *ContainerReflection) ChildrenByKind(mask ReflectionKind) []*DeclarationReflection {
	var out []*DeclarationReflection
	for _, child := range c.Children {
		if child.KindOf(mask) {
			out = append(out, child)
		}
	}
	return out
}

// Container gives access to the embedded ContainerReflection.
func (c *ContainerReflection) Container() *ContainerReflection { return c }

func (c *ContainerReflection) Traverse(fn TraverseCallback) {
	for _, child := range append([]*DeclarationReflection(nil), c.Children...) {
		fn(child, TraverseChildren)
	}
}

func (c *ContainerReflection) ToObject() map[string]any {
	obj := c.BaseReflection.ToObject()
	c.addContainerFields(obj)
	return obj
}

func (c *ContainerReflection) addContainerFields(obj map[string]any) {
	if len(c.Children) > 0 {
		children := make([]any, 0, len(c.Children))
		for _, child := range c.Children {
			children = append(children, child.ToObject())
		}
		obj["children"] = children
	}
	if len(c.Groups) > 0 {
		groups := make([]any, 0, len(c.Groups))
		for _, g := range c.Groups {
			groups = append(groups, g.ToObject())
		}
		obj["groups"] = groups
	}
}

// Container is implemented by reflections that own children.
type Container interface {
	Reflection
	Container() *ContainerReflection
}
