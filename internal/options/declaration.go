package options

import (
	"strings"

	"github.com/spf13/cast"

	"tsdoc/internal/errors"
)

// Kind is the value type of a declared option.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindNumber
	KindArray
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	default:
		return "string"
	}
}

// Declaration describes one option the registry accepts.
type Declaration struct {
	Name    string
	Help    string
	Kind    Kind
	Default any
}

// Names of the built-in options.
const (
	EntryPoints          = "entryPoints"
	Exclude              = "exclude"
	ExternalPattern      = "externalPattern"
	IncludeDeclarations  = "includeDeclarations"
	ExcludeExternals     = "excludeExternals"
	ExcludeNotExported   = "excludeNotExported"
	ExcludePrivate       = "excludePrivate"
	ExcludeProtected     = "excludeProtected"
	Mode                 = "mode"
	JSON                 = "json"
	Name                 = "name"
	Readme               = "readme"
	GitRevision          = "gitRevision"
	SourceLinkTemplate   = "sourceLinkTemplate"
	TSConfig             = "tsconfig"
	NoLib                = "noLib"
	IgnoreCompilerErrors = "ignoreCompilerErrors"
	LogLevel             = "logLevel"
	Store                = "store"
	Schema               = "schema"
)

// Builtin returns the declarations every registry starts with.
func Builtin() []Declaration {
	return []Declaration{
		{Name: EntryPoints, Kind: KindArray, Help: "Files or directories to document."},
		{Name: Exclude, Kind: KindArray, Help: "Glob patterns of files to leave out."},
		{Name: ExternalPattern, Kind: KindArray, Help: "Glob patterns of files treated as external."},
		{Name: IncludeDeclarations, Kind: KindBool, Default: false, Help: "Convert .d.ts files as well."},
		{Name: ExcludeExternals, Kind: KindBool, Default: false, Help: "Drop declarations from external files."},
		{Name: ExcludeNotExported, Kind: KindBool, Default: false, Help: "Drop declarations that are not exported."},
		{Name: ExcludePrivate, Kind: KindBool, Default: false, Help: "Drop private members."},
		{Name: ExcludeProtected, Kind: KindBool, Default: false, Help: "Drop protected members."},
		{Name: Mode, Kind: KindString, Default: "modules", Help: `Output mode, "file" or "modules".`},
		{Name: JSON, Kind: KindString, Help: "Write the JSON export to this path."},
		{Name: Name, Kind: KindString, Help: "Project name. Defaults to the package.json name."},
		{Name: Readme, Kind: KindString, Help: `Readme file to embed, or "none".`},
		{Name: GitRevision, Kind: KindString, Help: "Revision used in source links. Defaults to HEAD."},
		{Name: SourceLinkTemplate, Kind: KindString, Help: "Source link with {path}, {line} and {gitRevision} placeholders."},
		{Name: TSConfig, Kind: KindString, Help: "tsconfig.json to read files and compiler options from."},
		{Name: NoLib, Kind: KindBool, Default: false, Help: "Do not load the default library file."},
		{Name: IgnoreCompilerErrors, Kind: KindBool, Default: false, Help: "Document the project even when the compiler reports errors."},
		{Name: LogLevel, Kind: KindString, Default: "info", Help: "verbose, info, warn or error."},
		{Name: Store, Kind: KindString, Help: "SQLite database recording the run history."},
		{Name: Schema, Kind: KindBool, Default: true, Help: "Validate the JSON export against the bundled schema."},
	}
}

// coerce converts raw into the declared kind. Strings are accepted for every
// kind so environment variables and flags share one path; arrays split on commas.
func (d *Declaration) coerce(raw any) (any, error) {
	var (
		v   any
		err error
	)
	switch d.Kind {
	case KindBool:
		v, err = cast.ToBoolE(raw)
	case KindNumber:
		v, err = cast.ToIntE(raw)
	case KindArray:
		if s, ok := raw.(string); ok {
			v = splitList(s)
		} else {
			v, err = cast.ToStringSliceE(raw)
		}
	case KindMap:
		v, err = cast.ToStringMapStringE(raw)
	default:
		v, err = cast.ToStringE(raw)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidOptionValue, "%s expects a %s: %v", d.Name, d.Kind, err)
	}
	return v, nil
}

func (d *Declaration) zero() any {
	if d.Default != nil {
		return d.Default
	}
	switch d.Kind {
	case KindBool:
		return false
	case KindNumber:
		return 0
	case KindArray:
		return []string(nil)
	case KindMap:
		return map[string]string(nil)
	default:
		return ""
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
