package plugins

import (
	"tsdoc/internal/ast"
	"tsdoc/internal/converter"
	"tsdoc/internal/models"
)

// CommentPlugin attaches parsed doc comments to reflections, applies the
// modifier tags they carry and distributes @param texts onto parameters.
type CommentPlugin struct {
	// module comments are attached at resolve begin; merged namespaces keep the longest
	moduleComments map[*models.DeclarationReflection]string
	modules        []*models.DeclarationReflection
	hidden         []models.Reflection
}

func NewCommentPlugin() *CommentPlugin { return &CommentPlugin{} }

func (p *CommentPlugin) Name() string { return "comment" }

func (p *CommentPlugin) Attach(c *converter.Converter) {
	c.On(converter.EventBegin, converter.ContextHandler(p.onBegin), p, 0)
	c.On(converter.EventCreateDeclaration, converter.ReflectionHandler(p.onDeclaration), p, 0)
	c.On(converter.EventCreateSignature, converter.ReflectionHandler(p.onDeclaration), p, 0)
	c.On(converter.EventCreateTypeParameter, converter.ReflectionHandler(p.onCreateTypeParameter), p, 0)
	c.On(converter.EventFunctionImplementation, converter.ReflectionHandler(p.onFunctionImplementation), p, 0)
	c.On(converter.EventResolveBegin, converter.ContextHandler(p.onBeginResolve), p, 0)
	c.On(converter.EventResolve, converter.ReflectionHandler(p.onResolve), p, 0)
}

func (p *CommentPlugin) onBegin(*converter.Context) {
	p.moduleComments = map[*models.DeclarationReflection]string{}
	p.modules = nil
	p.hidden = nil
}

func (p *CommentPlugin) onDeclaration(cc *converter.Context, r models.Reflection, node *ast.Node) {
	if node == nil {
		return
	}
	if node.IsParameterProperty() {
		p.onParameterProperty(r, node)
		return
	}
	raw := rawComment(node)
	if raw == "" {
		return
	}

	base := r.Base()
	decl, isDecl := r.(*models.DeclarationReflection)
	switch {
	case base.KindOf(models.KindFunctionOrMethod),
		base.Kind == models.KindEvent && isDecl && len(decl.Signatures) > 0:
		// the comment belongs to the signatures
		p.applyModifiers(r, ParseComment(raw))
	case base.Kind == models.KindModule && isDecl:
		p.storeModuleComment(decl, raw)
	default:
		comment := ParseComment(raw)
		p.applyModifiers(r, comment)
		base.Comment = comment
	}
}

// onParameterProperty documents a constructor parameter property with the
// matching @param tag of the constructor's comment.
func (p *CommentPlugin) onParameterProperty(r models.Reflection, node *ast.Node) {
	raw := rawComment(node.Parent)
	if raw == "" {
		return
	}
	tag := ParseComment(raw).GetTag("param", r.Base().Name)
	if tag != nil && tag.Text != "" {
		r.Base().Comment = ParseComment(tag.Text)
	}
}

func (p *CommentPlugin) storeModuleComment(r *models.DeclarationReflection, raw string) {
	existing, ok := p.moduleComments[r]
	if !ok {
		p.modules = append(p.modules, r)
	}
	if len(raw) > len(existing) {
		p.moduleComments[r] = raw
	}
}

func (p *CommentPlugin) applyModifiers(r models.Reflection, comment *models.Comment) {
	base := r.Base()
	for _, m := range []struct {
		tag  string
		flag models.ReflectionFlag
	}{
		{"private", models.FlagPrivate},
		{"protected", models.FlagProtected},
		{"public", models.FlagPublic},
	} {
		if comment.HasTag(m.tag) {
			base.SetFlag(m.flag, true)
			comment.RemoveTags(m.tag, "")
		}
	}

	if comment.HasTag("event") {
		if _, ok := r.(*models.DeclarationReflection); ok {
			base.Kind = models.KindEvent
		}
		comment.RemoveTags("event", "")
	}

	if comment.HasTag("hidden") || comment.HasTag("ignore") {
		p.hidden = append(p.hidden, r)
	}
}

func (p *CommentPlugin) onCreateTypeParameter(_ *converter.Context, r models.Reflection, _ *ast.Node) {
	parent := r.Base().Parent
	if parent == nil || parent.Base().Comment == nil {
		return
	}
	comment := parent.Base().Comment
	name := r.Base().Name
	tag := comment.GetTag("typeparam", name)
	if tag == nil {
		tag = comment.GetTag("template", name)
	}
	if tag == nil {
		tag = comment.GetTag("param", "<"+name+">")
	}
	if tag == nil {
		return
	}
	r.Base().Comment = &models.Comment{ShortText: tag.Text}
	comment.RemoveTags(tag.TagName, tag.ParamName)
}

func (p *CommentPlugin) onFunctionImplementation(_ *converter.Context, r models.Reflection, node *ast.Node) {
	if node == nil {
		return
	}
	if raw := rawComment(node); raw != "" {
		r.Base().Comment = ParseComment(raw)
	}
}

func (p *CommentPlugin) onBeginResolve(cc *converter.Context) {
	for _, r := range p.modules {
		comment := ParseComment(p.moduleComments[r])
		p.applyModifiers(r, comment)
		r.Comment = comment
	}

	project := cc.Project
	for _, r := range p.hidden {
		if _, ok := project.Reflections.Get(r.Base().ID); !ok {
			continue
		}
		parent := r.Base().Parent
		project.RemoveReflection(r)

		// a function whose signatures are all hidden goes as well
		if _, isSig := r.(*models.SignatureReflection); isSig {
			if decl, ok := parent.(*models.DeclarationReflection); ok && len(decl.AllSignatures()) == 0 {
				if _, live := project.Reflections.Get(decl.ID); live {
					project.RemoveReflection(decl)
				}
			}
		}
	}
}

// onResolve moves the comment of a declaration with signatures onto the
// signatures and hands @param texts to the parameters.
func (p *CommentPlugin) onResolve(_ *converter.Context, r models.Reflection, _ *ast.Node) {
	decl, ok := r.(*models.DeclarationReflection)
	if !ok {
		return
	}
	signatures := decl.AllSignatures()
	if len(signatures) == 0 {
		return
	}

	comment := decl.Comment
	for _, sig := range signatures {
		child := sig.Comment
		if comment != nil {
			if child == nil {
				child = &models.Comment{}
				sig.Comment = child
			}
			if child.ShortText == "" {
				child.ShortText = comment.ShortText
			}
			if child.Text == "" {
				child.Text = comment.Text
			}
			if child.Returns == "" {
				child.Returns = comment.Returns
			}
			if len(child.Tags) == 0 {
				child.Tags = append([]*models.CommentTag(nil), comment.Tags...)
			}
		}

		for _, param := range sig.Parameters {
			var tag *models.CommentTag
			if child != nil {
				tag = child.GetTag("param", param.OriginalName)
			}
			if tag == nil && comment != nil {
				tag = comment.GetTag("param", param.OriginalName)
			}
			if tag != nil {
				param.Comment = &models.Comment{ShortText: tag.Text}
			}
		}
		if child != nil {
			child.RemoveTags("param", "")
		}
	}
	decl.Comment = nil
}
