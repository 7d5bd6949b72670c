package checker

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"tsdoc/internal/errors"

	"github.com/spf13/afero"
)

// DefaultLibFileName is looked up in the current directory unless NoLib is set.
const DefaultLibFileName = "lib.d.ts"

// Host bridges the program to a file system. Paths handed out by the host
// are absolute and slash separated.
type Host struct {
	FS  afero.Fs
	Cwd string
}

// NewHost returns a host rooted at cwd. A nil fs means the OS file system.
func NewHost(fs afero.Fs, cwd string) *Host {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			cwd = wd
		} else {
			cwd = "/"
		}
	}
	return &Host{FS: fs, Cwd: filepath.ToSlash(cwd)}
}

func (h *Host) GetCurrentDirectory() string {
	return h.Cwd
}

func (h *Host) DefaultLibFileName() string {
	return h.GetCanonicalFileName(DefaultLibFileName)
}

// GetCanonicalFileName makes name absolute against the current directory.
func (h *Host) GetCanonicalFileName(name string) string {
	name = filepath.ToSlash(name)
	if !path.IsAbs(name) && !isWindowsAbs(name) {
		name = path.Join(h.Cwd, name)
	}
	return path.Clean(name)
}

func isWindowsAbs(name string) bool {
	return len(name) > 2 && name[1] == ':' && name[2] == '/'
}

func (h *Host) ReadFile(name string) ([]byte, error) {
	data, err := afero.ReadFile(h.FS, h.GetCanonicalFileName(name))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", name)
	}
	return data, nil
}

func (h *Host) FileExists(name string) bool {
	info, err := h.FS.Stat(h.GetCanonicalFileName(name))
	return err == nil && !info.IsDir()
}

func (h *Host) DirectoryExists(name string) bool {
	info, err := h.FS.Stat(h.GetCanonicalFileName(name))
	return err == nil && info.IsDir()
}

// WriteFile writes data, creating parent directories as needed.
func (h *Host) WriteFile(name string, data []byte) error {
	name = h.GetCanonicalFileName(name)
	if err := h.FS.MkdirAll(path.Dir(name), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", name)
	}
	if err := afero.WriteFile(h.FS, name, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", name)
	}
	return nil
}

// resolveModule maps a relative module specifier to an existing source file.
func (h *Host) resolveModule(fromFile, specifier string) (string, bool) {
	if !strings.HasPrefix(specifier, "./") && !strings.HasPrefix(specifier, "../") && !path.IsAbs(specifier) {
		return "", false
	}
	base := specifier
	if !path.IsAbs(base) {
		base = path.Join(path.Dir(fromFile), specifier)
	}
	base = strings.TrimSuffix(base, ".js")

	candidates := []string{base}
	if !hasSourceExtension(base) {
		candidates = []string{
			base + ".ts", base + ".tsx", base + ".d.ts",
			base + "/index.ts", base + "/index.tsx", base + "/index.d.ts",
		}
	}
	for _, c := range candidates {
		if h.FileExists(c) {
			return h.GetCanonicalFileName(c), true
		}
	}
	return "", false
}

func hasSourceExtension(name string) bool {
	return strings.HasSuffix(name, ".ts") || strings.HasSuffix(name, ".tsx")
}
