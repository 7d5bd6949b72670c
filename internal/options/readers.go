package options

import (
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"tsdoc/internal/errors"
)

// EnvPrefix prefixes option names in the environment, as in TSDOC_EXCLUDE.
const EnvPrefix = "TSDOC"

// Sources lists where Read looks for values. Later sources win.
type Sources struct {
	// Files are option files (.yaml, .yml, .toml or .json).
	Files []string
	// DotEnv is an optional .env file. A missing file is not an error.
	DotEnv string
	Flags  *pflag.FlagSet
	// Args are positional entry points appended after every other source.
	Args []string
}

// Read fills the registry from every source in order, then applies the
// tsconfig file if one was named.
func (o *Options) Read(fs afero.Fs, src Sources) {
	for _, file := range src.Files {
		o.ReadFile(fs, file)
	}
	o.ReadEnv(fs, src.DotEnv)
	if src.Flags != nil {
		o.ReadFlags(src.Flags)
	}
	if len(src.Args) > 0 {
		if err := o.SetValue(EntryPoints, append(o.Strings(EntryPoints), src.Args...)); err != nil {
			o.log.Error("arguments: %v", err)
		}
	}
	o.ReadTSConfig(fs)
}

// ReadFile reads an option file. The format follows the extension.
func (o *Options) ReadFile(fs afero.Fs, path string) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		o.log.Error("read option file %s: %v", path, err)
		return
	}

	values := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &values)
	case ".toml":
		err = toml.Unmarshal(data, &values)
	case ".json":
		err = json.Unmarshal(data, &values)
	default:
		err = errors.Newf("unsupported option file type %q", ext)
	}
	if err != nil {
		o.log.Error("parse option file %s: %v", path, err)
		return
	}
	o.SetValues(path, values)
}

// ReadEnv applies TSDOC_* variables. Values from dotenv fill in names the
// process environment does not set. Unknown TSDOC_* names in the dotenv
// file are reported like unknown names in option files.
func (o *Options) ReadEnv(fs afero.Fs, dotenv string) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	values := map[string]any{}
	for k, d := range o.declarations {
		if v.IsSet(d.Name) {
			values[k] = v.GetString(d.Name)
		}
	}

	prefix := EnvPrefix + "_"
	for name, raw := range o.readDotEnv(fs, dotenv) {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		k := key(strings.TrimPrefix(name, prefix))
		if _, set := values[k]; !set {
			values[k] = raw
		}
	}
	o.SetValues("environment", values)
}

func (o *Options) readDotEnv(fs afero.Fs, path string) map[string]string {
	if path == "" {
		return nil
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	env, err := godotenv.Parse(f)
	if err != nil {
		o.log.Error("parse %s: %v", path, err)
		return nil
	}
	return env
}

// BindFlags adds a flag for every declaration flags does not define yet.
func (o *Options) BindFlags(flags *pflag.FlagSet) {
	for _, d := range o.Declarations() {
		if flags.Lookup(d.Name) != nil {
			continue
		}
		switch d.Kind {
		case KindBool:
			flags.Bool(d.Name, cast.ToBool(d.zero()), d.Help)
		case KindNumber:
			flags.Int(d.Name, cast.ToInt(d.zero()), d.Help)
		case KindArray:
			flags.StringSlice(d.Name, nil, d.Help)
		case KindMap:
			flags.StringToString(d.Name, nil, d.Help)
		default:
			flags.String(d.Name, cast.ToString(d.zero()), d.Help)
		}
	}
}

// ReadFlags applies the declared flags the user set on the command line.
func (o *Options) ReadFlags(flags *pflag.FlagSet) {
	flags.Visit(func(f *pflag.Flag) {
		if _, ok := o.declarations[key(f.Name)]; !ok {
			return
		}
		var value any = f.Value.String()
		switch f.Value.Type() {
		case "stringSlice":
			value, _ = flags.GetStringSlice(f.Name)
		case "stringToString":
			value, _ = flags.GetStringToString(f.Name)
		}
		if err := o.SetValue(f.Name, value); err != nil {
			o.log.Error("--%s: %v", f.Name, err)
		}
	})
}

type tsconfig struct {
	Files           []string       `json:"files"`
	Include         []string       `json:"include"`
	Exclude         []string       `json:"exclude"`
	CompilerOptions map[string]any `json:"compilerOptions"`
}

// ReadTSConfig applies the tsconfig named by the tsconfig option. Its files
// and include patterns become entry points unless entry points were given,
// its exclude patterns extend exclude, and compilerOptions.noLib maps to
// noLib. Paths are taken relative to the tsconfig's directory.
func (o *Options) ReadTSConfig(fs afero.Fs) {
	path := o.String(TSConfig)
	if path == "" {
		return
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		o.log.Error("read tsconfig %s: %v", path, err)
		return
	}
	var cfg tsconfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		o.log.Error("parse tsconfig %s: %v", path, err)
		return
	}

	dir := filepath.Dir(path)
	rel := func(list []string) []string {
		out := make([]string, 0, len(list))
		for _, p := range list {
			out = append(out, filepath.ToSlash(filepath.Join(dir, p)))
		}
		return out
	}

	if !o.IsSet(EntryPoints) {
		if entries := rel(append(cfg.Files, cfg.Include...)); len(entries) > 0 {
			o.values[key(EntryPoints)] = entries
		}
	}
	if len(cfg.Exclude) > 0 {
		o.values[key(Exclude)] = append(o.Strings(Exclude), rel(cfg.Exclude)...)
	}
	if noLib, ok := cfg.CompilerOptions["noLib"]; ok && !o.IsSet(NoLib) {
		if err := o.SetValue(NoLib, noLib); err != nil {
			o.log.Error("%s: %v", path, err)
		}
	}
}
