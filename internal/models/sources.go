package models

import (
	"path"
	"sort"
	"strings"
)

// SourceReference is one location a reflection was declared at.
type SourceReference struct {
	File      *SourceFile
	FileName  string
	Line      int
	Character int
	URL       string
}

func (s *SourceReference) ToObject() map[string]any {
	obj := map[string]any{
		"fileName":  s.FileName,
		"line":      s.Line,
		"character": s.Character,
	}
	if s.URL != "" {
		obj["url"] = s.URL
	}
	return obj
}

// SourceFile is one converted input file.
type SourceFile struct {
	FullFileName string
	FileName     string
	Name         string
	URL          string
	Parent       *SourceDirectory
	Reflections  []Reflection
	Groups       []*ReflectionGroup
}

// NewSourceFile creates a file entry. fileName is relative to the project base path.
func NewSourceFile(fullFileName, fileName string) *SourceFile {
	return &SourceFile{
		FullFileName: fullFileName,
		FileName:     fileName,
		Name:         path.Base(fileName),
	}
}

// SourceDirectory mirrors the directory structure of the input files.
type SourceDirectory struct {
	Name        string
	DirName     string
	Parent      *SourceDirectory
	Directories map[string]*SourceDirectory
	Files       []*SourceFile
}

// NewSourceDirectory creates a directory node below parent (nil for the root).
func NewSourceDirectory(name string, parent *SourceDirectory) *SourceDirectory {
	d := &SourceDirectory{
		Name:        name,
		Parent:      parent,
		Directories: map[string]*SourceDirectory{},
	}
	if parent != nil && parent.DirName != "" {
		d.DirName = parent.DirName + "/" + name
	} else {
		d.DirName = name
	}
	return d
}

// AddFile places file at the directory matching its relative file name.
func (d *SourceDirectory) AddFile(file *SourceFile) {
	dir := d
	parts := strings.Split(file.FileName, "/")
	for _, part := range parts[:len(parts)-1] {
		if part == "" || part == "." {
			continue
		}
		child, ok := dir.Directories[part]
		if !ok {
			child = NewSourceDirectory(part, dir)
			dir.Directories[part] = child
		}
		dir = child
	}
	file.Parent = dir
	dir.Files = append(dir.Files, file)
}

// DirectoryNames returns the child directory names in sorted order.
func (d *SourceDirectory) DirectoryNames() []string {
	names := make([]string, 0, len(d.Directories))
	for name := range d.Directories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
