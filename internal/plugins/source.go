package plugins

import (
	"path"

	"tsdoc/internal/ast"
	"tsdoc/internal/converter"
	"tsdoc/internal/models"
)

// SourcePlugin records where every declaration and signature was declared
// and builds the project's file list and directory tree. File names are
// shown relative to the directory the input files share.
type SourcePlugin struct {
	base  basePath
	files map[string]*models.SourceFile
}

func NewSourcePlugin() *SourcePlugin { return &SourcePlugin{} }

func (p *SourcePlugin) Name() string { return "source" }

func (p *SourcePlugin) Attach(c *converter.Converter) {
	c.On(converter.EventBegin, converter.ContextHandler(p.onBegin), p, 0)
	c.On(converter.EventFileBegin, converter.ReflectionHandler(p.onBeginDocument), p, 0)
	c.On(converter.EventCreateDeclaration, converter.ReflectionHandler(p.onDeclaration), p, 0)
	c.On(converter.EventCreateSignature, converter.ReflectionHandler(p.onDeclaration), p, 0)
	c.On(converter.EventResolveBegin, converter.ContextHandler(p.onBeginResolve), p, 0)
	c.On(converter.EventResolve, converter.ReflectionHandler(p.onResolve), p, 0)
	c.On(converter.EventResolveEnd, converter.ContextHandler(p.onEndResolve), p, 0)
}

func (p *SourcePlugin) onBegin(*converter.Context) {
	p.base.reset()
	p.files = map[string]*models.SourceFile{}
}

func (p *SourcePlugin) sourceFile(project *models.ProjectReflection, fileName string) *models.SourceFile {
	if file, ok := p.files[fileName]; ok {
		return file
	}
	file := models.NewSourceFile(fileName, fileName)
	p.files[fileName] = file
	project.Files = append(project.Files, file)
	return file
}

func (p *SourcePlugin) onBeginDocument(cc *converter.Context, _ models.Reflection, node *ast.Node) {
	if node == nil || node.File == nil {
		return
	}
	p.base.add(node.File.FileName)
	p.sourceFile(cc.Project, node.File.FileName)
}

func (p *SourcePlugin) onDeclaration(cc *converter.Context, r models.Reflection, node *ast.Node) {
	if node == nil || node.File == nil {
		return
	}
	fileName := node.File.FileName
	p.base.add(fileName)
	file := p.sourceFile(cc.Project, fileName)

	at := node
	if node.Name != nil && node.Name.File != nil {
		at = node.Name
	}
	base := r.Base()
	for _, s := range base.Sources {
		// merged declarations may report the same location twice
		if s.File == file && s.Line == at.Line+1 && s.Character == at.Character {
			return
		}
	}
	base.Sources = append(base.Sources, &models.SourceReference{
		File:      file,
		FileName:  fileName,
		Line:      at.Line + 1,
		Character: at.Character,
	})
}

func (p *SourcePlugin) onBeginResolve(cc *converter.Context) {
	for _, file := range cc.Project.Files {
		file.FileName = p.base.trim(file.FullFileName)
		file.Name = path.Base(file.FileName)
	}
}

func (p *SourcePlugin) onResolve(_ *converter.Context, r models.Reflection, _ *ast.Node) {
	for _, source := range r.Base().Sources {
		if source.File == nil {
			continue
		}
		source.FileName = source.File.FileName
		if !containsReflection(source.File.Reflections, r) {
			source.File.Reflections = append(source.File.Reflections, r)
		}
	}
}

func (p *SourcePlugin) onEndResolve(cc *converter.Context) {
	project := cc.Project
	project.Directory = models.NewSourceDirectory("", nil)
	for _, file := range project.Files {
		project.Directory.AddFile(file)
	}
}

func containsReflection(list []models.Reflection, r models.Reflection) bool {
	for _, item := range list {
		if item == r {
			return true
		}
	}
	return false
}
