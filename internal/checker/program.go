// Package checker is the compiler oracle: it loads a program from root
// files, binds declarations to symbols and answers type queries.
package checker

import (
	"context"
	"runtime"
	"sync"

	"tsdoc/internal/ast"
	"tsdoc/internal/errors"

	"golang.org/x/sync/errgroup"
)

// Options are the compiler settings the program honours.
type Options struct {
	// NoLib skips the default library file.
	NoLib bool
	// MaxParallel bounds concurrent parses. Zero means GOMAXPROCS.
	MaxParallel int
}

// Program is a set of parsed and bound source files.
type Program struct {
	host      *Host
	options   Options
	rootNames []string

	files  []*ast.SourceFile
	byName map[string]*ast.SourceFile
	// resolved module specifiers per importing file
	modules map[string]map[string]string

	globals        *ast.SymbolTable
	ambientModules map[string]*ast.Symbol
	bindDiags      []Diagnostic
	globalDiags    []Diagnostic

	checkerOnce sync.Once
	checker     *Checker
}

// NewProgram parses the root files and everything they import, then binds
// the result. Missing root files are reported as global diagnostics.
func NewProgram(ctx context.Context, rootNames []string, options Options, host *Host) (*Program, error) {
	p := &Program{
		host:           host,
		options:        options,
		byName:         map[string]*ast.SourceFile{},
		modules:        map[string]map[string]string{},
		globals:        ast.NewSymbolTable(),
		ambientModules: map[string]*ast.Symbol{},
	}

	var queue []string
	seen := map[string]bool{}
	enqueue := func(name string) {
		if !seen[name] {
			seen[name] = true
			queue = append(queue, name)
		}
	}

	if !options.NoLib && host.FileExists(host.DefaultLibFileName()) {
		enqueue(host.DefaultLibFileName())
	}
	for _, name := range rootNames {
		canonical := host.GetCanonicalFileName(name)
		if seen[canonical] {
			p.globalDiags = append(p.globalDiags, Diagnostic{
				Message: "File '" + canonical + "' is specified more than once.",
				Code:    CodeDuplicateRootFile,
			})
			continue
		}
		if !host.FileExists(canonical) {
			p.globalDiags = append(p.globalDiags, Diagnostic{
				Message: "File '" + canonical + "' not found.",
				Code:    CodeFileNotFound,
			})
			seen[canonical] = true
			continue
		}
		p.rootNames = append(p.rootNames, canonical)
		enqueue(canonical)
	}

	for len(queue) > 0 {
		wave := queue
		queue = nil
		parsed, err := p.parseAll(ctx, wave)
		if err != nil {
			return nil, err
		}
		for _, file := range parsed {
			p.files = append(p.files, file)
			p.byName[file.FileName] = file
			resolved := map[string]string{}
			for _, spec := range file.ModuleReferences {
				if target, ok := host.resolveModule(file.FileName, spec); ok {
					resolved[spec] = target
					enqueue(target)
				}
			}
			p.modules[file.FileName] = resolved
		}
	}

	installGlobals(p.globals)
	b := &binder{program: p}
	for _, file := range p.files {
		b.bindFile(file)
	}
	return p, nil
}

// parseAll parses names concurrently and returns the files in input order.
func (p *Program) parseAll(ctx context.Context, names []string) ([]*ast.SourceFile, error) {
	out := make([]*ast.SourceFile, len(names))
	g, ctx := errgroup.WithContext(ctx)
	limit := p.options.MaxParallel
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for i, name := range names {
		g.Go(func() error {
			text, err := p.host.ReadFile(name)
			if err != nil {
				return err
			}
			file, err := ast.Parse(ctx, name, text)
			if err != nil {
				return errors.Wrapf(err, "load %s", name)
			}
			out[i] = file
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Program) Host() *Host {
	return p.host
}

func (p *Program) Options() Options {
	return p.options
}

// RootFileNames returns the canonical names of the existing root files.
func (p *Program) RootFileNames() []string {
	return p.rootNames
}

// SourceFiles returns every file in load order: the default library, the
// roots, then files reached through imports.
func (p *Program) SourceFiles() []*ast.SourceFile {
	return p.files
}

func (p *Program) SourceFile(name string) *ast.SourceFile {
	return p.byName[p.host.GetCanonicalFileName(name)]
}

// IsDefaultLib reports whether file is the default library file.
func (p *Program) IsDefaultLib(file *ast.SourceFile) bool {
	return file != nil && file.FileName == p.host.DefaultLibFileName()
}

// ResolveModule returns the file a module specifier in from refers to.
func (p *Program) ResolveModule(from *ast.SourceFile, specifier string) *ast.SourceFile {
	if from == nil {
		return nil
	}
	if target, ok := p.modules[from.FileName][specifier]; ok {
		return p.byName[target]
	}
	return nil
}

// Globals is the global symbol table shared by script files.
func (p *Program) Globals() *ast.SymbolTable {
	return p.globals
}

// TypeChecker returns the program's checker, creating it on first use.
func (p *Program) TypeChecker() *Checker {
	p.checkerOnce.Do(func() {
		p.checker = newChecker(p)
	})
	return p.checker
}

func (p *Program) SyntacticDiagnostics() []Diagnostic {
	var out []Diagnostic
	for _, file := range p.files {
		for _, e := range file.ParseErrors {
			code := CodeStatementExpected
			if e.Message != "Declaration or statement expected." {
				code = CodeExpected
			}
			out = append(out, Diagnostic{
				File:      file.FileName,
				Line:      e.Line,
				Character: e.Character,
				Message:   e.Message,
				Code:      code,
			})
		}
	}
	return out
}

func (p *Program) GlobalDiagnostics() []Diagnostic {
	return append([]Diagnostic(nil), p.globalDiags...)
}

// SemanticDiagnostics reports duplicate declarations and unresolved names
// and modules, in file order.
func (p *Program) SemanticDiagnostics() []Diagnostic {
	out := append([]Diagnostic(nil), p.bindDiags...)
	out = append(out, p.TypeChecker().check()...)
	sortDiagnostics(out)
	return out
}
