// Package paths holds the crawled filesystem model the rule engine
// evaluates: a tree of Folder entries with their files, pre-fetched so
// rule evaluation never touches the disk.
package paths

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// NameAndExt splits a file name into its base name and extension.
// Dotfiles (".gitignore") and names without a dot have no extension.
func NameAndExt(name string) (string, string) {
	if !strings.Contains(name, ".") || strings.HasPrefix(name, ".") {
		return name, ""
	}
	idx := strings.LastIndex(name, ".")
	return name[:idx], name[idx+1:]
}

// File is a leaf entry owned by its parent Folder. The extension is
// captured at crawl time so extension rules need no I/O.
type File struct {
	Path      string
	Name      string
	NameWoExt string
	Ext       string
	Parent    *Folder
}

// NewFile builds a File from an absolute path.
func NewFile(path string, parent *Folder) *File {
	name := filepath.Base(path)
	nameWoExt, ext := NameAndExt(name)
	return &File{
		Path:      path,
		Name:      name,
		NameWoExt: nameWoExt,
		Ext:       ext,
		Parent:    parent,
	}
}

// Folder is one crawled directory. It owns its child folders and files;
// the parent pointer exists for parent-attribute lookups only. After the
// crawl the tree is immutable except for pruning during filtering.
type Folder struct {
	Path     string
	Name     string
	Parent   *Folder
	Folders  []*Folder
	Files    []*File
	Excluded bool
}

// NewFolder builds a Folder entry from an absolute path.
func NewFolder(path string, parent *Folder) *Folder {
	return &Folder{
		Path:   path,
		Name:   filepath.Base(path),
		Parent: parent,
	}
}

// ParentPath returns the path of the owning folder, falling back to the
// lexical parent for crawl roots.
func (f *Folder) ParentPath() string {
	if f.Parent != nil {
		return f.Parent.Path
	}
	return filepath.Dir(f.Path)
}

// ParentName returns the name of the owning folder.
func (f *Folder) ParentName() string {
	if f.Parent != nil {
		return f.Parent.Name
	}
	return filepath.Base(f.ParentPath())
}

// MarkChildren flags the direct children as excluded without removing
// them from the tree.
func (f *Folder) MarkChildren() {
	for _, folder := range f.Folders {
		folder.Excluded = true
	}
}

// MarkAndClean excludes the folder and drops its entire substructure
// from the working copy. Nothing on disk is touched.
func (f *Folder) MarkAndClean() {
	f.Excluded = true
	for _, folder := range f.Folders {
		folder.Excluded = true
	}
	f.Folders = nil
	f.Files = nil
}

// ClearChildren drops the substructure but keeps the folder itself
// eligible for matching.
func (f *Folder) ClearChildren() {
	for _, folder := range f.Folders {
		folder.Excluded = true
	}
	f.Folders = nil
}

// Walk visits the folder and its remaining substructure in stable
// pre-order.
func (f *Folder) Walk(visit func(*Folder)) {
	visit(f)
	for _, folder := range f.Folders {
		folder.Walk(visit)
	}
}

// SearchFolder is one configured crawl root. CopyIcon is a tri-state
// override of the user config's copy_icon flag.
type SearchFolder struct {
	Path     string
	CopyIcon *bool
}

// Contains reports whether the given path lives under this root.
func (s SearchFolder) Contains(path string) bool {
	return strings.HasPrefix(path, s.Path)
}

var windowsEnvPattern = regexp.MustCompile(`%([^%]+)%`)

// ExpandEnv expands both %VAR% and $VAR style environment references in
// a configured path and normalizes the separators.
func ExpandEnv(path string) string {
	expanded := windowsEnvPattern.ReplaceAllStringFunc(path, func(match string) string {
		name := strings.Trim(match, "%")
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return match
	})
	expanded = os.ExpandEnv(expanded)
	return filepath.Clean(expanded)
}
