package plugins

import (
	"tsdoc/internal/converter"
	"tsdoc/internal/models"
)

// DeepCommentPlugin fills comments from further up the tree once every
// other comment is in place: @typeparam and @param tags of an ancestor
// document nested type parameters and members, and signatures without a
// comment of their own take the @returns of the closest ancestor.
type DeepCommentPlugin struct{}

func NewDeepCommentPlugin() *DeepCommentPlugin { return &DeepCommentPlugin{} }

func (p *DeepCommentPlugin) Name() string { return "deep-comment" }

func (p *DeepCommentPlugin) Attach(c *converter.Converter) {
	c.On(converter.EventResolveEnd, converter.ContextHandler(p.onEndResolve), p, 0)
}

func (p *DeepCommentPlugin) onEndResolve(cc *converter.Context) {
	for pair := cc.Project.Reflections.Oldest(); pair != nil; pair = pair.Next() {
		r := pair.Value
		if r.Base().HasComment() {
			continue
		}
		if sig, ok := r.(*models.SignatureReflection); ok {
			fillSignature(sig)
			continue
		}
		if tag := ancestorTag(r); tag != nil {
			r.Base().Comment = &models.Comment{ShortText: tag.Text}
		}
	}
}

// ancestorTag finds the tag documenting r in the comments of its ancestors.
func ancestorTag(r models.Reflection) *models.CommentTag {
	name := r.Base().Name
	_, isTypeParam := r.(*models.TypeParameterReflection)
	for target := r.Base().Parent; target != nil; target = target.Base().Parent {
		if _, ok := target.(*models.ProjectReflection); ok {
			break
		}
		comment := target.Base().Comment
		if comment == nil {
			continue
		}
		var tag *models.CommentTag
		if isTypeParam {
			tag = comment.GetTag("typeparam", name)
			if tag == nil {
				tag = comment.GetTag("param", "<"+name+">")
			}
		}
		if tag == nil {
			tag = comment.GetTag("param", name)
		}
		if tag != nil {
			return tag
		}
	}
	return nil
}

func fillSignature(sig *models.SignatureReflection) {
	for target := sig.Parent; target != nil; target = target.Base().Parent {
		if _, ok := target.(*models.ProjectReflection); ok {
			return
		}
		comment := target.Base().Comment
		if comment == nil || comment.Returns == "" {
			continue
		}
		sig.Comment = &models.Comment{Returns: comment.Returns}
		return
	}
}
