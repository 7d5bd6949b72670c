package plugins

import (
	"path"
	"strings"

	"github.com/Masterminds/semver/v3"
	json "github.com/goccy/go-json"
	"github.com/spf13/afero"

	"tsdoc/internal/ast"
	"tsdoc/internal/converter"
	"tsdoc/internal/logger"
	"tsdoc/internal/models"
)

// DefaultProjectName is used when neither the options nor a package.json name the project.
const DefaultProjectName = "Documentation"

type packageInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// PackagePlugin looks for the package.json and readme closest to the
// input files and copies name, version and readme onto the project.
type PackagePlugin struct {
	fs     afero.Fs
	log    logger.Logger
	readme string

	noReadme    bool
	readmeFile  string
	packageFile string
	visited     map[string]bool
}

func NewPackagePlugin(cfg Config) *PackagePlugin {
	cfg = cfg.withDefaults()
	return &PackagePlugin{fs: cfg.FS, log: cfg.Logger, readme: cfg.Readme}
}

func (p *PackagePlugin) Name() string { return "package" }

func (p *PackagePlugin) Attach(c *converter.Converter) {
	c.On(converter.EventBegin, converter.ContextHandler(p.onBegin), p, 0)
	c.On(converter.EventFileBegin, converter.ReflectionHandler(p.onBeginDocument), p, 0)
	c.On(converter.EventResolveBegin, converter.ContextHandler(p.onBeginResolve), p, 0)
}

func (p *PackagePlugin) onBegin(*converter.Context) {
	p.readmeFile, p.packageFile = "", ""
	p.visited = map[string]bool{}
	p.noReadme = p.readme == "none"
	if p.readme != "" && !p.noReadme {
		if ok, _ := afero.Exists(p.fs, p.readme); ok {
			p.readmeFile = p.readme
		} else {
			p.log.Warn("readme %s not found", p.readme)
		}
	}
}

// onBeginDocument walks up from the file's directory until both files are
// found or the root is reached. Directories are searched once per run.
func (p *PackagePlugin) onBeginDocument(_ *converter.Context, _ models.Reflection, node *ast.Node) {
	if node == nil || node.File == nil {
		return
	}
	if p.packageFile != "" && (p.readmeFile != "" || p.noReadme) {
		return
	}

	dir := path.Dir(node.File.FileName)
	for {
		if p.visited[dir] {
			return
		}
		p.visited[dir] = true

		entries, err := afero.ReadDir(p.fs, dir)
		if err == nil {
			for _, entry := range entries {
				lower := strings.ToLower(entry.Name())
				if !p.noReadme && p.readmeFile == "" && lower == "readme.md" {
					p.readmeFile = path.Join(dir, entry.Name())
				}
				if p.packageFile == "" && lower == "package.json" {
					p.packageFile = path.Join(dir, entry.Name())
				}
			}
		}

		parent := path.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func (p *PackagePlugin) onBeginResolve(cc *converter.Context) {
	project := cc.Project
	if p.readmeFile != "" {
		if data, err := afero.ReadFile(p.fs, p.readmeFile); err == nil {
			project.Readme = string(data)
		} else {
			p.log.Warn("read readme %s: %v", p.readmeFile, err)
		}
	}

	if p.packageFile != "" {
		info, err := p.readPackage()
		if err != nil {
			p.log.Warn("read %s: %v", p.packageFile, err)
		} else {
			project.PackageName = info.Name
			if project.Name == "" {
				project.Name = info.Name
			}
			if info.Version != "" {
				if v, err := semver.NewVersion(info.Version); err == nil {
					project.PackageVersion = v.String()
				} else {
					p.log.Warn("package %s has an invalid version %q", info.Name, info.Version)
				}
			}
		}
	}

	if project.Name == "" {
		p.log.Warn("unable to determine the project name, using %q", DefaultProjectName)
		project.Name = DefaultProjectName
	}
}

func (p *PackagePlugin) readPackage() (*packageInfo, error) {
	data, err := afero.ReadFile(p.fs, p.packageFile)
	if err != nil {
		return nil, err
	}
	var info packageInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
