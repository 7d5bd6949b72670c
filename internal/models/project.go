package models

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ProjectReflection is the root of the model. It owns every reflection
// created during a conversion through Reflections; all other references
// between reflections are non-owning.
type ProjectReflection struct {
	ContainerReflection

	// Reflections maps id to reflection in registration order.
	Reflections *orderedmap.OrderedMap[int, Reflection]
	// SymbolMapping maps an oracle symbol id to the id of the reflection declaring it.
	SymbolMapping *orderedmap.OrderedMap[int, int]

	Directory *SourceDirectory
	Files     []*SourceFile

	PackageName    string
	PackageVersion string
	Readme         string

	nextID int
}

// NewProjectReflection creates a project with id 0. Ids of reflections
// created below it start at 1, so every conversion starts from a clean counter.
func NewProjectReflection(name string) *ProjectReflection {
	p := &ProjectReflection{
		Reflections:   orderedmap.New[int, Reflection](),
		SymbolMapping: orderedmap.New[int, int](),
		Directory:     NewSourceDirectory("", nil),
	}
	p.Name = name
	p.OriginalName = name
	p.Kind = KindGlobal
	p.nextID = 1
	return p
}

// NextID hands out the next reflection id.
func (p *ProjectReflection) NextID() int {
	id := p.nextID
	p.nextID++
	return id
}

// Register adds reflection to the id map. Re-registering the same id keeps
// the original position.
func (p *ProjectReflection) Register(r Reflection) {
	p.Reflections.Set(r.Base().ID, r)
}

// MapSymbol records symbolID -> reflection id unless symbolID is already mapped.
func (p *ProjectReflection) MapSymbol(symbolID, reflectionID int) bool {
	if _, ok := p.SymbolMapping.Get(symbolID); ok {
		return false
	}
	p.SymbolMapping.Set(symbolID, reflectionID)
	return true
}

// ReflectionForSymbol returns the reflection declaring symbolID, if converted.
func (p *ProjectReflection) ReflectionForSymbol(symbolID int) Reflection {
	id, ok := p.SymbolMapping.Get(symbolID)
	if !ok {
		return nil
	}
	r, _ := p.Reflections.Get(id)
	return r
}

// ReflectionsByKind returns all registered reflections of any kind in mask.
func (p *ProjectReflection) ReflectionsByKind(mask ReflectionKind) []Reflection {
	var out []Reflection
	for pair := p.Reflections.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Base().KindOf(mask) {
			out = append(out, pair.Value)
		}
	}
	return out
}

// FindReflectionByName looks up a reflection by a dotted name. The last
// segment must match the reflection name and the preceding segments must
// match its nearest ancestors.
func (p *ProjectReflection) FindReflectionByName(name string) Reflection {
	names := strings.Split(name, ".")
	last := names[len(names)-1]
	names = names[:len(names)-1]

search:
	for pair := p.Reflections.Oldest(); pair != nil; pair = pair.Next() {
		r := pair.Value
		if r.Base().Name != last {
			continue
		}
		depth := len(names) - 1
		target := r.Base().Parent
		for target != nil && depth >= 0 {
			if target.Base().Name != names[depth] {
				continue search
			}
			depth--
			target = target.Base().Parent
		}
		if depth >= 0 {
			continue
		}
		return r
	}
	return nil
}

// RemoveReflection detaches r (and everything below it) from the model:
// it is removed from its parent's collections, from Reflections and from
// SymbolMapping.
func (p *ProjectReflection) RemoveReflection(r Reflection) {
	r.Traverse(func(child Reflection, _ TraverseProperty) {
		p.RemoveReflection(child)
	})

	if parent := r.Base().Parent; parent != nil {
		var property TraverseProperty = -1
		parent.Traverse(func(child Reflection, prop TraverseProperty) {
			if child == r {
				property = prop
			}
		})
		detach(parent, r, property)
	}

	id := r.Base().ID
	p.Reflections.Delete(id)
	var stale []int
	for pair := p.SymbolMapping.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == id {
			stale = append(stale, pair.Key)
		}
	}
	for _, key := range stale {
		p.SymbolMapping.Delete(key)
	}
}

func detach(parent, r Reflection, property TraverseProperty) {
	switch property {
	case TraverseChildren:
		if c, ok := parent.(Container); ok {
			cont := c.Container()
			cont.Children = removeDecl(cont.Children, r)
		}
	case TraverseSignatures:
		if d, ok := parent.(*DeclarationReflection); ok {
			d.Signatures = removeSig(d.Signatures, r)
		}
	case TraverseIndexSignature:
		parent.(*DeclarationReflection).IndexSignature = nil
	case TraverseGetSignature:
		parent.(*DeclarationReflection).GetSignature = nil
	case TraverseSetSignature:
		parent.(*DeclarationReflection).SetSignature = nil
	case TraverseParameters:
		if s, ok := parent.(*SignatureReflection); ok {
			kept := s.Parameters[:0:0]
			for _, param := range s.Parameters {
				if Reflection(param) != r {
					kept = append(kept, param)
				}
			}
			s.Parameters = kept
		}
	case TraverseTypeLiteral:
		switch owner := parent.(type) {
		case *DeclarationReflection:
			owner.Type = NewIntrinsicType("Object")
		case *SignatureReflection:
			owner.Type = NewIntrinsicType("Object")
		case *ParameterReflection:
			owner.Type = NewIntrinsicType("Object")
		}
	case TraverseTypeParameter:
		switch owner := parent.(type) {
		case *DeclarationReflection:
			owner.TypeParameters = removeTypeParam(owner.TypeParameters, r)
		case *SignatureReflection:
			owner.TypeParameters = removeTypeParam(owner.TypeParameters, r)
		}
	}
}

func removeDecl(list []*DeclarationReflection, r Reflection) []*DeclarationReflection {
	kept := list[:0:0]
	for _, item := range list {
		if Reflection(item) != r {
			kept = append(kept, item)
		}
	}
	return kept
}

func removeSig(list []*SignatureReflection, r Reflection) []*SignatureReflection {
	kept := list[:0:0]
	for _, item := range list {
		if Reflection(item) != r {
			kept = append(kept, item)
		}
	}
	return kept
}

func removeTypeParam(list []*TypeParameterReflection, r Reflection) []*TypeParameterReflection {
	kept := list[:0:0]
	for _, item := range list {
		if Reflection(item) != r {
			kept = append(kept, item)
		}
	}
	return kept
}

func (p *ProjectReflection) ToObject() map[string]any {
	obj := p.ContainerReflection.ToObject()
	if p.PackageVersion != "" {
		obj["packageVersion"] = p.PackageVersion
	}
	if p.Readme != "" {
		obj["readme"] = p.Readme
	}
	return obj
}
