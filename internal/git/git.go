// Package git discovers the repository a source file lives in and builds
// browsable URLs for it from the origin remote and a revision.
package git

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5"

	"tsdoc/internal/errors"
)

// ErrNotRepository is returned when no repository contains the directory.
var ErrNotRepository = errors.New("not a git repository")

// Host kinds recognized in remote URLs.
const (
	HostGitHub    = "github.com"
	HostGitLab    = "gitlab.com"
	HostBitbucket = "bitbucket.org"
)

var remotePattern = regexp.MustCompile(`(github(?:\.com)?|gitlab\.com|bitbucket\.org)[:/]([^/]+)/(.+)`)

// Repository is the view of a git repository source links need.
type Repository struct {
	// Root is the worktree root in slash form.
	Root     string
	Revision string
	Host     string
	User     string
	Project  string
	// Template overrides the generated line URLs. It may contain the
	// placeholders {gitRevision}, {path} and {line}.
	Template string

	files map[string]bool
}

// Open finds the repository containing dir. An empty revision uses the
// commit HEAD points at.
func Open(dir, revision string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.Wrapf(ErrNotRepository, "open %s", dir)
		}
		return nil, errors.Wrapf(err, "open repository at %s", dir)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, "worktree")
	}

	if revision == "" {
		head, err := repo.Head()
		if err != nil {
			return nil, errors.Wrap(err, "resolve HEAD")
		}
		revision = head.Hash().String()
	}

	var remoteURL string
	if remote, err := repo.Remote("origin"); err == nil && len(remote.Config().URLs) > 0 {
		remoteURL = remote.Config().URLs[0]
	}

	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, errors.Wrap(err, "read index")
	}
	files := make([]string, 0, len(idx.Entries))
	for _, entry := range idx.Entries {
		files = append(files, entry.Name)
	}

	return NewRepository(wt.Filesystem.Root(), remoteURL, revision, files), nil
}

// NewRepository builds a repository from already known facts. files are
// paths relative to root.
func NewRepository(root, remoteURL, revision string, files []string) *Repository {
	r := &Repository{
		Root:     strings.TrimSuffix(filepath.ToSlash(root), "/"),
		Revision: revision,
		files:    make(map[string]bool, len(files)),
	}
	for _, f := range files {
		r.files[filepath.ToSlash(f)] = true
	}
	r.Host, r.User, r.Project = ParseRemote(remoteURL)
	return r
}

// ParseRemote extracts host, user and project from an ssh or https remote
// URL. Unknown hosts yield empty strings.
func ParseRemote(url string) (host, user, project string) {
	m := remotePattern.FindStringSubmatch(url)
	if m == nil {
		return "", "", ""
	}
	host = m[1]
	if host == "github" {
		host = HostGitHub
	}
	return host, m[2], strings.TrimSuffix(m[3], ".git")
}

// Contains reports whether fileName lies inside the worktree.
func (r *Repository) Contains(fileName string) bool {
	_, ok := r.relative(fileName)
	return ok
}

// IsTracked reports whether fileName is in the index.
func (r *Repository) IsTracked(fileName string) bool {
	rel, ok := r.relative(fileName)
	return ok && r.files[rel]
}

// TrackedFiles lists the indexed paths in sorted order.
func (r *Repository) TrackedFiles() []string {
	out := make([]string, 0, len(r.files))
	for f := range r.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func (r *Repository) relative(fileName string) (string, bool) {
	fileName = filepath.ToSlash(fileName)
	prefix := r.Root + "/"
	if !strings.HasPrefix(fileName, prefix) {
		return "", false
	}
	return fileName[len(prefix):], true
}

// FileURL is the browsable URL of a tracked file, or "" when the file is
// not tracked or the remote host is unknown.
func (r *Repository) FileURL(fileName string) string {
	rel, ok := r.relative(fileName)
	if !ok || !r.files[rel] || r.Host == "" {
		return ""
	}
	var segment string
	switch r.Host {
	case HostGitLab:
		segment = "-/blob"
	case HostBitbucket:
		segment = "src"
	default:
		segment = "blob"
	}
	return strings.Join([]string{"https://" + r.Host, r.User, r.Project, segment, r.Revision, rel}, "/")
}

// LineURL points at one line of a tracked file.
func (r *Repository) LineURL(fileName string, line int) string {
	if r.Template != "" {
		rel, ok := r.relative(fileName)
		if !ok || !r.files[rel] {
			return ""
		}
		return strings.NewReplacer(
			"{gitRevision}", r.Revision,
			"{path}", rel,
			"{line}", strconv.Itoa(line),
		).Replace(r.Template)
	}
	url := r.FileURL(fileName)
	if url == "" {
		return ""
	}
	if r.Host == HostBitbucket {
		return url + "#lines-" + strconv.Itoa(line)
	}
	return url + "#L" + strconv.Itoa(line)
}
