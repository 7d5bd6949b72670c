package plugins

import (
	"path"

	"tsdoc/internal/converter"
	"tsdoc/internal/git"
	"tsdoc/internal/logger"
)

// GitSourcePlugin links source files and source locations to the hosting
// service of the git repository they are tracked in.
type GitSourcePlugin struct {
	open     func(dir, revision string) (*git.Repository, error)
	revision string
	template string
	log      logger.Logger

	repositories []*git.Repository
	ignored      map[string]bool
}

func NewGitSourcePlugin(cfg Config) *GitSourcePlugin {
	cfg = cfg.withDefaults()
	return &GitSourcePlugin{
		open:     cfg.OpenRepository,
		revision: cfg.GitRevision,
		template: cfg.SourceLinkTemplate,
		log:      cfg.Logger,
	}
}

func (p *GitSourcePlugin) Name() string { return "git-source" }

func (p *GitSourcePlugin) Attach(c *converter.Converter) {
	c.On(converter.EventBegin, converter.ContextHandler(p.onBegin), p, 0)
	c.On(converter.EventResolveEnd, converter.ContextHandler(p.onEndResolve), p, 0)
}

func (p *GitSourcePlugin) onBegin(*converter.Context) {
	p.repositories = nil
	p.ignored = map[string]bool{}
}

// repository returns the repository containing fileName, opening it on
// first use. Directories outside any repository are remembered.
func (p *GitSourcePlugin) repository(fileName string) *git.Repository {
	for _, r := range p.repositories {
		if r.Contains(fileName) {
			return r
		}
	}
	dir := path.Dir(fileName)
	if p.ignored[dir] {
		return nil
	}
	r, err := p.open(dir, p.revision)
	if err != nil {
		p.log.Verbose("no git repository for %s: %v", dir, err)
		p.ignored[dir] = true
		return nil
	}
	r.Template = p.template
	p.repositories = append(p.repositories, r)
	return r
}

func (p *GitSourcePlugin) onEndResolve(cc *converter.Context) {
	project := cc.Project
	for _, file := range project.Files {
		if r := p.repository(file.FullFileName); r != nil {
			file.URL = r.FileURL(file.FullFileName)
		}
	}

	for pair := project.Reflections.Oldest(); pair != nil; pair = pair.Next() {
		for _, source := range pair.Value.Base().Sources {
			if source.File == nil {
				continue
			}
			if r := p.repository(source.File.FullFileName); r != nil {
				source.URL = r.LineURL(source.File.FullFileName, source.Line)
			}
		}
	}
}
