package models

// DeclarationReflection documents a named declaration: class, interface,
// function, variable, enum, module, property and so on.
type DeclarationReflection struct {
	ContainerReflection

	Type           Type
	TypeParameters []*TypeParameterReflection
	Signatures     []*SignatureReflection
	IndexSignature *SignatureReflection
	GetSignature   *SignatureReflection
	SetSignature   *SignatureReflection
	DefaultValue   string

	Overwrites       Type
	InheritedFrom    Type
	ImplementationOf Type

	ExtendedTypes    []Type
	ExtendedBy       []Type
	ImplementedTypes []Type
	ImplementedBy    []Type
	TypeHierarchy    *DeclarationHierarchy
}

// NewDeclarationReflection creates a declaration below parent. The id is
// taken from the project parent belongs to.
func NewDeclarationReflection(name string, kind ReflectionKind, parent Reflection) *DeclarationReflection {
	d := &DeclarationReflection{}
	d.init(name, kind, parent)
	return d
}

// AllSignatures returns call, index, get and set signatures in that order.
func (d *DeclarationReflection) AllSignatures() []*SignatureReflection {
	out := append([]*SignatureReflection(nil), d.Signatures...)
	for _, s := range []*SignatureReflection{d.IndexSignature, d.GetSignature, d.SetSignature} {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (d *DeclarationReflection) Traverse(fn TraverseCallback) {
	for _, tp := range append([]*TypeParameterReflection(nil), d.TypeParameters...) {
		fn(tp, TraverseTypeParameter)
	}
	if rt, ok := d.Type.(*ReflectionType); ok && rt.Declaration != nil {
		fn(rt.Declaration, TraverseTypeLiteral)
	}
	for _, sig := range append([]*SignatureReflection(nil), d.Signatures...) {
		fn(sig, TraverseSignatures)
	}
	if d.IndexSignature != nil {
		fn(d.IndexSignature, TraverseIndexSignature)
	}
	if d.GetSignature != nil {
		fn(d.GetSignature, TraverseGetSignature)
	}
	if d.SetSignature != nil {
		fn(d.SetSignature, TraverseSetSignature)
	}
	d.ContainerReflection.Traverse(fn)
}

func (d *DeclarationReflection) ToObject() map[string]any {
	obj := d.BaseReflection.ToObject()

	if len(d.TypeParameters) > 0 {
		tps := make([]any, 0, len(d.TypeParameters))
		for _, tp := range d.TypeParameters {
			tps = append(tps, tp.ToObject())
		}
		obj["typeParameter"] = tps
	}
	if d.Type != nil {
		obj["type"] = d.Type.ToObject()
	}
	if d.DefaultValue != "" {
		obj["defaultValue"] = d.DefaultValue
	}
	for key, t := range map[string]Type{
		"overwrites":       d.Overwrites,
		"inheritedFrom":    d.InheritedFrom,
		"implementationOf": d.ImplementationOf,
	} {
		if t != nil {
			obj[key] = t.ToObject()
		}
	}
	for key, types := range map[string][]Type{
		"extendedTypes":    d.ExtendedTypes,
		"extendedBy":       d.ExtendedBy,
		"implementedTypes": d.ImplementedTypes,
		"implementedBy":    d.ImplementedBy,
	} {
		if len(types) > 0 {
			obj[key] = typesToObject(types)
		}
	}
	if len(d.Signatures) > 0 {
		sigs := make([]any, 0, len(d.Signatures))
		for _, s := range d.Signatures {
			sigs = append(sigs, s.ToObject())
		}
		obj["signatures"] = sigs
	}
	if d.IndexSignature != nil {
		obj["indexSignature"] = d.IndexSignature.ToObject()
	}
	if d.GetSignature != nil {
		obj["getSignature"] = d.GetSignature.ToObject()
	}
	if d.SetSignature != nil {
		obj["setSignature"] = d.SetSignature.ToObject()
	}

	d.addContainerFields(obj)
	return obj
}

// SignatureReflection is one call, construct, index, get or set signature.
type SignatureReflection struct {
	BaseReflection

	Parameters     []*ParameterReflection
	TypeParameters []*TypeParameterReflection
	Type           Type

	Overwrites       Type
	InheritedFrom    Type
	ImplementationOf Type
}

// NewSignatureReflection creates a signature owned by parent.
func NewSignatureReflection(name string, kind ReflectionKind, parent Reflection) *SignatureReflection {
	s := &SignatureReflection{}
	s.init(name, kind, parent)
	return s
}

// ParameterTypes returns the types of all parameters, nil entries included.
func (s *SignatureReflection) ParameterTypes() []Type {
	out := make([]Type, 0, len(s.Parameters))
	for _, p := range s.Parameters {
		out = append(out, p.Type)
	}
	return out
}

func (s *SignatureReflection) Traverse(fn TraverseCallback) {
	if rt, ok := s.Type.(*ReflectionType); ok && rt.Declaration != nil {
		fn(rt.Declaration, TraverseTypeLiteral)
	}
	for _, tp := range append([]*TypeParameterReflection(nil), s.TypeParameters...) {
		fn(tp, TraverseTypeParameter)
	}
	for _, p := range append([]*ParameterReflection(nil), s.Parameters...) {
		fn(p, TraverseParameters)
	}
}

func (s *SignatureReflection) ToObject() map[string]any {
	obj := s.BaseReflection.ToObject()
	if len(s.TypeParameters) > 0 {
		tps := make([]any, 0, len(s.TypeParameters))
		for _, tp := range s.TypeParameters {
			tps = append(tps, tp.ToObject())
		}
		obj["typeParameter"] = tps
	}
	if len(s.Parameters) > 0 {
		params := make([]any, 0, len(s.Parameters))
		for _, p := range s.Parameters {
			params = append(params, p.ToObject())
		}
		obj["parameters"] = params
	}
	if s.Type != nil {
		obj["type"] = s.Type.ToObject()
	}
	if s.Overwrites != nil {
		obj["overwrites"] = s.Overwrites.ToObject()
	}
	if s.InheritedFrom != nil {
		obj["inheritedFrom"] = s.InheritedFrom.ToObject()
	}
	if s.ImplementationOf != nil {
		obj["implementationOf"] = s.ImplementationOf.ToObject()
	}
	return obj
}

// ParameterReflection is one parameter of a signature.
type ParameterReflection struct {
	BaseReflection
	Type         Type
	DefaultValue string
}

func NewParameterReflection(name string, parent Reflection) *ParameterReflection {
	p := &ParameterReflection{}
	p.init(name, KindParameter, parent)
	return p
}

func (p *ParameterReflection) Traverse(fn TraverseCallback) {
	if rt, ok := p.Type.(*ReflectionType); ok && rt.Declaration != nil {
		fn(rt.Declaration, TraverseTypeLiteral)
	}
}

func (p *ParameterReflection) ToObject() map[string]any {
	obj := p.BaseReflection.ToObject()
	if p.Type != nil {
		obj["type"] = p.Type.ToObject()
	}
	if p.DefaultValue != "" {
		obj["defaultValue"] = p.DefaultValue
	}
	return obj
}

// TypeParameterReflection is a declared type parameter with an optional constraint.
type TypeParameterReflection struct {
	BaseReflection
	Type Type
}

// NewTypeParameterReflection creates the reflection for a type parameter type.
func NewTypeParameterReflection(tp *TypeParameterType, parent Reflection) *TypeParameterReflection {
	r := &TypeParameterReflection{Type: tp.Constraint}
	r.init(tp.Name, KindTypeParameter, parent)
	return r
}

func (t *TypeParameterReflection) ToObject() map[string]any {
	obj := t.BaseReflection.ToObject()
	if t.Type != nil {
		obj["type"] = t.Type.ToObject()
	}
	return obj
}
