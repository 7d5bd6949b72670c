// Package options is the option registry: declared parameters, typed values
// and the readers that fill them from files, the environment and flags.
//
// Readers never stop at the first problem. Unknown names and bad values are
// logged at error level, which the logger counts, so a caller reads every
// source and then checks HasErrors once.
package options

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"tsdoc/internal/errors"
	"tsdoc/internal/logger"
)

// Options holds declarations and the values set for them.
type Options struct {
	log          logger.Logger
	declarations map[string]*Declaration
	values       map[string]any
}

// New returns a registry holding the built-in declarations.
func New(log logger.Logger) *Options {
	if log == nil {
		log = logger.NewNop()
	}
	o := &Options{
		log:          log,
		declarations: map[string]*Declaration{},
		values:       map[string]any{},
	}
	for _, d := range Builtin() {
		// built-in names are unique
		_ = o.AddDeclaration(d)
	}
	return o
}

func key(name string) string { return strings.ToLower(name) }

// AddDeclaration registers d. Names are matched case-insensitively.
func (o *Options) AddDeclaration(d Declaration) error {
	if d.Name == "" {
		return errors.New("option declaration without a name")
	}
	if _, ok := o.declarations[key(d.Name)]; ok {
		return errors.Newf("option %q is declared twice", d.Name)
	}
	o.declarations[key(d.Name)] = &d
	return nil
}

// Declaration looks up a declaration by name.
func (o *Options) Declaration(name string) (Declaration, bool) {
	d, ok := o.declarations[key(name)]
	if !ok {
		return Declaration{}, false
	}
	return *d, true
}

// Declarations lists every declaration sorted by name.
func (o *Options) Declarations() []Declaration {
	out := make([]Declaration, 0, len(o.declarations))
	for _, d := range o.declarations {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i].Name) < key(out[j].Name) })
	return out
}

// SetValue coerces value to the declared kind and stores it.
func (o *Options) SetValue(name string, value any) error {
	d, ok := o.declarations[key(name)]
	if !ok {
		return errors.Wrapf(errors.ErrUnknownOption, "%q", name)
	}
	v, err := d.coerce(value)
	if err != nil {
		return err
	}
	o.values[key(d.Name)] = v
	return nil
}

// SetValues applies every entry of values and logs each failure with source
// as its origin. It returns the number of failures.
func (o *Options) SetValues(source string, values map[string]any) int {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	failed := 0
	for _, name := range names {
		if err := o.SetValue(name, values[name]); err != nil {
			o.log.Error("%s: %v", source, err)
			failed++
		}
	}
	return failed
}

// IsSet reports whether a reader stored a value for name.
func (o *Options) IsSet(name string) bool {
	_, ok := o.values[key(name)]
	return ok
}

// Value returns the stored value or the declared default.
func (o *Options) Value(name string) any {
	if v, ok := o.values[key(name)]; ok {
		return v
	}
	if d, ok := o.declarations[key(name)]; ok {
		return d.zero()
	}
	return nil
}

func (o *Options) String(name string) string {
	s, _ := o.Value(name).(string)
	return s
}

func (o *Options) Bool(name string) bool {
	b, _ := o.Value(name).(bool)
	return b
}

func (o *Options) Int(name string) int {
	n, _ := o.Value(name).(int)
	return n
}

func (o *Options) Strings(name string) []string {
	s, _ := o.Value(name).([]string)
	return s
}

func (o *Options) Map(name string) map[string]string {
	m, _ := o.Value(name).(map[string]string)
	return m
}

// Logger is the logger readers report through.
func (o *Options) Logger() logger.Logger { return o.log }

// HasErrors reports whether any reader logged an error.
func (o *Options) HasErrors() bool { return o.log.HasErrors() }

// Snapshot returns every effective value keyed by declared name.
func (o *Options) Snapshot() map[string]any {
	out := make(map[string]any, len(o.declarations))
	for _, d := range o.declarations {
		out[d.Name] = o.Value(d.Name)
	}
	return out
}

// Digest fingerprints the effective values. Two runs with equal digests
// were configured identically.
func (o *Options) Digest() string {
	// map keys are encoded in sorted order
	data, err := json.Marshal(o.Snapshot())
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
