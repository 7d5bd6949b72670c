// Package converter turns a checked program into a ProjectReflection. It
// walks every source file with a registry of node converters, asks type
// converters for the types it meets, and afterwards fires a resolve event
// per reflection so plugins can link the finished model together.
package converter

import (
	"context"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tsdoc/internal/ast"
	"tsdoc/internal/checker"
	"tsdoc/internal/errors"
	"tsdoc/internal/event"
	"tsdoc/internal/logger"
	"tsdoc/internal/models"
)

// Events fired during a conversion. Handlers receive the Context first,
// followed by the reflection and the node where they apply.
const (
	EventBegin                  = "begin"
	EventEnd                    = "end"
	EventFileBegin              = "fileBegin"
	EventCreateDeclaration      = "createDeclaration"
	EventCreateSignature        = "createSignature"
	EventCreateParameter        = "createParameter"
	EventCreateTypeParameter    = "createTypeParameter"
	EventFunctionImplementation = "functionImplementation"
	EventResolveBegin           = "resolveBegin"
	EventResolve                = "resolveReflection"
	EventResolveEnd             = "resolveEnd"
)

// Output modes.
const (
	ModeFile    = "file"
	ModeModules = "modules"
)

// Options are the option values the converter reads.
type Options struct {
	Name string
	Mode string
	// Exclude drops matching files from the compile phase.
	Exclude []string
	// ExternalPattern marks matching input files as external.
	ExternalPattern     []string
	IncludeDeclarations bool
	ExcludeExternals    bool
	ExcludeNotExported  bool
	ExcludePrivate      bool
	ExcludeProtected    bool
}

// NodeConverter converts one family of declaration nodes.
type NodeConverter interface {
	Kinds() []ast.Kind
	Convert(ctx *Context, node *ast.Node) models.Reflection
}

// TypeNodeConverter converts type annotations.
type TypeNodeConverter interface {
	Priority() int
	SupportsNode(ctx *Context, node *ast.Node, t *checker.Type) bool
	ConvertNode(ctx *Context, node *ast.Node, t *checker.Type) models.Type
}

// TypeTypeConverter converts checker types without a node.
type TypeTypeConverter interface {
	Priority() int
	SupportsType(ctx *Context, t *checker.Type) bool
	ConvertType(ctx *Context, t *checker.Type) models.Type
}

// Result is the outcome of one conversion. Diagnostics holds the first
// non-empty set of syntactic, global and semantic diagnostics.
type Result struct {
	Project     *models.ProjectReflection
	Diagnostics []checker.Diagnostic
}

// Converter owns the converter registries and the event bus plugins listen on.
type Converter struct {
	*event.Dispatcher

	Options Options
	Logger  logger.Logger

	nodeConverters     map[ast.Kind]NodeConverter
	typeNodeConverters []TypeNodeConverter
	typeTypeConverters []TypeTypeConverter
	tracer             trace.Tracer
}

// New creates a converter with the built-in node and type converters.
func New(opts Options, log logger.Logger) *Converter {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.Mode == "" {
		opts.Mode = ModeModules
	}
	c := &Converter{
		Dispatcher:     event.NewDispatcher(),
		Options:        opts,
		Logger:         log,
		nodeConverters: map[ast.Kind]NodeConverter{},
		tracer:         otel.Tracer("tsdoc/converter"),
	}
	for _, nc := range defaultNodeConverters() {
		c.AddNodeConverter(nc)
	}
	for _, tc := range defaultTypeConverters() {
		c.AddTypeConverter(tc)
	}
	return c
}

// AddNodeConverter registers nc for its kinds, replacing earlier registrations.
func (c *Converter) AddNodeConverter(nc NodeConverter) {
	for _, kind := range nc.Kinds() {
		c.nodeConverters[kind] = nc
	}
}

// AddTypeConverter registers tc as a node converter, a type converter or
// both, depending on the interfaces it implements. Lists stay sorted by
// descending priority; ties keep registration order.
func (c *Converter) AddTypeConverter(tc any) {
	if nc, ok := tc.(TypeNodeConverter); ok {
		c.typeNodeConverters = append(c.typeNodeConverters, nc)
		sort.SliceStable(c.typeNodeConverters, func(i, j int) bool {
			return c.typeNodeConverters[i].Priority() > c.typeNodeConverters[j].Priority()
		})
	}
	if tt, ok := tc.(TypeTypeConverter); ok {
		c.typeTypeConverters = append(c.typeTypeConverters, tt)
		sort.SliceStable(c.typeTypeConverters, func(i, j int) bool {
			return c.typeTypeConverters[i].Priority() > c.typeTypeConverters[j].Priority()
		})
	}
}

// ConvertFiles builds a program for fileNames and converts it.
func (c *Converter) ConvertFiles(ctx context.Context, fileNames []string, host *checker.Host, opts checker.Options) (*Result, error) {
	program, err := checker.NewProgram(ctx, fileNames, opts, host)
	if err != nil {
		return nil, errors.Wrap(err, "create program")
	}
	return c.Convert(ctx, program), nil
}

// Convert runs the compile and resolve phases over program. The project is
// resolved even when the compile phase reports diagnostics; callers decide
// whether to use it.
func (c *Converter) Convert(ctx context.Context, program *checker.Program) *Result {
	ctx, span := c.tracer.Start(ctx, "converter.Convert")
	defer span.End()

	cc := NewContext(c, program, program.RootFileNames())
	c.Trigger(EventBegin, cc)

	diagnostics := c.compile(ctx, cc)
	project := c.resolve(ctx, cc)

	c.Trigger(EventEnd, cc)
	span.SetAttributes(
		attribute.Int("tsdoc.reflections", project.Reflections.Len()),
		attribute.Int("tsdoc.diagnostics", len(diagnostics)),
	)
	return &Result{Project: project, Diagnostics: diagnostics}
}

func (c *Converter) isExcluded(file *ast.SourceFile) bool {
	for _, pattern := range c.Options.Exclude {
		if ok, _ := doublestar.Match(pattern, file.FileName); ok {
			return true
		}
	}
	return false
}

func (c *Converter) compile(ctx context.Context, cc *Context) []checker.Diagnostic {
	program := cc.Program
	included := map[string]bool{}
	for _, file := range program.SourceFiles() {
		if c.isExcluded(file) {
			continue
		}
		included[file.FileName] = true

		_, span := c.tracer.Start(ctx, "converter.file", trace.WithAttributes(attribute.String("tsdoc.file", file.FileName)))
		c.ConvertNode(cc, file.Root)
		span.End()
	}

	relevant := func(list []checker.Diagnostic) []checker.Diagnostic {
		var out []checker.Diagnostic
		for _, d := range list {
			if d.File == "" || included[d.File] {
				out = append(out, d)
			}
		}
		return out
	}
	if errs := relevant(program.SyntacticDiagnostics()); len(errs) > 0 {
		return errs
	}
	if errs := relevant(program.GlobalDiagnostics()); len(errs) > 0 {
		return errs
	}
	return relevant(program.SemanticDiagnostics())
}

// resolve fires the resolve events. Reflections registered by earlier
// resolve handlers are visited too; removed ones are skipped.
func (c *Converter) resolve(ctx context.Context, cc *Context) *models.ProjectReflection {
	_, span := c.tracer.Start(ctx, "converter.resolve")
	defer span.End()

	project := cc.Project
	c.Trigger(EventResolveBegin, cc)

	seen := map[int]bool{}
	for {
		var pending []int
		for pair := project.Reflections.Oldest(); pair != nil; pair = pair.Next() {
			if !seen[pair.Key] {
				pending = append(pending, pair.Key)
			}
		}
		if len(pending) == 0 {
			break
		}
		for _, id := range pending {
			seen[id] = true
			if r, ok := project.Reflections.Get(id); ok {
				c.Trigger(EventResolve, cc, r)
			}
		}
	}

	c.Trigger(EventResolveEnd, cc)
	return project
}

// ConvertNode dispatches node to its node converter. Nodes already being
// visited and kinds without a converter yield nil.
func (c *Converter) ConvertNode(cc *Context, node *ast.Node) models.Reflection {
	if node == nil || cc.visiting(node) {
		return nil
	}
	nc, ok := c.nodeConverters[node.Kind]
	if !ok {
		return nil
	}

	cc.visitStack = append(cc.visitStack, node)
	defer func() { cc.visitStack = cc.visitStack[:len(cc.visitStack)-1] }()
	return nc.Convert(cc, node)
}

// ConvertType converts a type annotation node, a checker type or both. The
// type is looked up from the node when t is nil. Returns nil only when both
// are nil.
func (c *Converter) ConvertType(cc *Context, node *ast.Node, t *checker.Type) models.Type {
	if node != nil {
		if t == nil {
			t = cc.GetTypeAtLocation(node)
		}
		for _, tc := range c.typeNodeConverters {
			if tc.SupportsNode(cc, node, t) {
				return tc.ConvertNode(cc, node, t)
			}
		}
	}
	if t != nil {
		for _, tc := range c.typeTypeConverters {
			if tc.SupportsType(cc, t) {
				return tc.ConvertType(cc, t)
			}
		}
	}
	return nil
}

// ConvertTypes converts a list of type nodes, or of types when nodes is nil.
func (c *Converter) ConvertTypes(cc *Context, nodes []*ast.Node, types []*checker.Type) []models.Type {
	var out []models.Type
	if nodes != nil {
		for _, n := range nodes {
			if t := c.ConvertType(cc, n, nil); t != nil {
				out = append(out, t)
			}
		}
		return out
	}
	for _, t := range types {
		if converted := c.ConvertType(cc, nil, t); converted != nil {
			out = append(out, converted)
		}
	}
	return out
}

// ReflectionHandler adapts fn to the (context, reflection, node) argument
// list of the creation and resolve events.
func ReflectionHandler(fn func(cc *Context, r models.Reflection, node *ast.Node)) event.Handler {
	return func(args ...any) event.Action {
		cc, _ := arg[*Context](args, 0)
		r, _ := arg[models.Reflection](args, 1)
		node, _ := arg[*ast.Node](args, 2)
		if cc == nil || r == nil {
			return event.Continue
		}
		fn(cc, r, node)
		return event.Continue
	}
}

// ContextHandler adapts fn to events that only carry the context.
func ContextHandler(fn func(cc *Context)) event.Handler {
	return func(args ...any) event.Action {
		if cc, ok := arg[*Context](args, 0); ok && cc != nil {
			fn(cc)
		}
		return event.Continue
	}
}

func arg[T any](args []any, i int) (T, bool) {
	var zero T
	if i >= len(args) {
		return zero, false
	}
	v, ok := args[i].(T)
	return v, ok
}
