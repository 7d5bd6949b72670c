package plugins

import (
	"tsdoc/internal/ast"
	"tsdoc/internal/converter"
	"tsdoc/internal/models"
)

// ImplementsPlugin links the members of a class to the interface members
// they implement and lets them borrow the interface documentation. It runs
// after the type plugin has resolved the implemented types.
type ImplementsPlugin struct{}

func NewImplementsPlugin() *ImplementsPlugin { return &ImplementsPlugin{} }

func (p *ImplementsPlugin) Name() string { return "implements" }

func (p *ImplementsPlugin) Attach(c *converter.Converter) {
	c.On(converter.EventResolve, converter.ReflectionHandler(p.onResolve), p, -10)
}

func (p *ImplementsPlugin) onResolve(_ *converter.Context, r models.Reflection, _ *ast.Node) {
	class, ok := r.(*models.DeclarationReflection)
	if !ok || !class.KindOf(models.KindClass) {
		return
	}
	for _, t := range class.ImplementedTypes {
		ref, ok := t.(*models.ReferenceType)
		if !ok {
			continue
		}
		iface, ok := ref.Reflection().(*models.DeclarationReflection)
		if ok && iface.KindOf(models.KindInterface) {
			analyzeClass(class, iface)
		}
	}
}

func analyzeClass(class, iface *models.DeclarationReflection) {
	for _, ifaceMember := range iface.Children {
		var classMember *models.DeclarationReflection
		for _, child := range class.Children {
			if child.Name == ifaceMember.Name && child.Flags.IsStatic() == ifaceMember.Flags.IsStatic() {
				classMember = child
				break
			}
		}
		if classMember == nil {
			continue
		}

		name := iface.Name + "." + ifaceMember.Name
		classMember.ImplementationOf = models.NewResolvedReference(name, ifaceMember)
		copyComment(&classMember.BaseReflection, &ifaceMember.BaseReflection)

		if !ifaceMember.KindOf(models.KindFunctionOrMethod) {
			continue
		}
		for _, ifaceSig := range ifaceMember.Signatures {
			want := ifaceSig.ParameterTypes()
			for _, classSig := range classMember.Signatures {
				if !sameTypes(want, classSig.ParameterTypes()) {
					continue
				}
				classSig.ImplementationOf = models.NewResolvedReference(name, ifaceSig)
				copyComment(&classSig.BaseReflection, &ifaceSig.BaseReflection)
				copyParameterComments(classSig, ifaceSig)
			}
		}
	}
}

// copyComment fills target from source when target has no comment or asks
// for it with @inheritdoc.
func copyComment(target, source *models.BaseReflection) {
	if source.Comment == nil {
		return
	}
	switch {
	case target.Comment == nil:
		target.Comment = source.Comment.Clone()
	case target.Comment.HasTag("inheritdoc"):
		target.Comment.CopyFrom(source.Comment)
	}
}

func copyParameterComments(target, source *models.SignatureReflection) {
	for i, param := range target.Parameters {
		if i >= len(source.Parameters) {
			return
		}
		copyComment(&param.BaseReflection, &source.Parameters[i].BaseReflection)
	}
}

func sameTypes(a, b []models.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		switch {
		case a[i] == nil && b[i] == nil:
		case a[i] == nil || b[i] == nil:
			return false
		case a[i].String() != b[i].String():
			return false
		}
	}
	return true
}
