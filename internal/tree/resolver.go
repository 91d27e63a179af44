// SPDX-License-Identifier: MPL-2.0

package tree

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"nancy-cli/pkg/fspath"
)

type (
	// Object is the tagged result of resolving a logical path: either a
	// *File or a *Dir.
	Object interface {
		isObject()
	}

	// File is a concrete on-disk file found in exactly one input root.
	File struct {
		// RealPath is the on-disk path, in the highest-precedence root
		// that has a file at the logical path.
		RealPath string
	}

	// Dir is the union of the directory entries of every root that has a
	// directory at the logical path.
	Dir struct {
		// Entries is sorted by name. A name appearing in several roots
		// keeps the entry from the highest-precedence root.
		Entries []DirEntry
	}

	// DirEntry is one named child of a resolved directory.
	DirEntry struct {
		Name     string
		IsDir    bool
		RealPath string
	}

	// Resolver merges an ordered list of input roots. Index 0 has the
	// highest precedence. A Resolver is immutable for the duration of a
	// build; resolution depends only on the root list and on-disk state.
	Resolver struct {
		roots []string
	}
)

func (*File) isObject() {}
func (*Dir) isObject()  {}

// NewResolver validates the input roots and returns a Resolver over them.
// Each root must exist and be a directory; violations are configuration
// errors and the build never starts.
func NewResolver(roots []string) (*Resolver, error) {
	if len(roots) == 0 {
		return nil, errors.New("at least one input must be given")
	}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("input '%s' does not exist", root)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("input '%s' is not a directory", root)
		}
	}
	return &Resolver{roots: roots}, nil
}

// Roots returns the ordered input roots.
func (r *Resolver) Roots() []string {
	return append([]string(nil), r.roots...)
}

// PrimaryRoot returns the highest-precedence input root.
func (r *Resolver) PrimaryRoot() string {
	return r.roots[0]
}

// Resolve maps a logical path to the object the merged tree holds there.
// A nil Object with a nil error means the path matches nothing in any root.
// The first root that has any object at the path decides its type: a file
// in a lower-precedence root never shadows a higher-precedence directory.
func (r *Resolver) Resolve(logical string) (Object, error) {
	logical = fspath.Clean(logical)
	slog.Debug("resolve", "path", logical, "roots", r.roots)

	var dirs []string
	decided := false
	for _, root := range r.roots {
		concrete := r.concrete(root, logical)
		info, err := os.Stat(concrete)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		switch {
		case info.Mode().IsRegular():
			if !decided {
				return &File{RealPath: concrete}, nil
			}
			// Shadowed by a higher-precedence directory.
		case info.IsDir():
			if !decided || len(dirs) > 0 {
				dirs = append(dirs, concrete)
			}
		default:
			return nil, fmt.Errorf("'%s' is not a file or directory", concrete)
		}
		decided = true
	}
	if !decided {
		return nil, nil
	}
	return r.mergeDirs(logical, dirs)
}

// mergeDirs unions the children of the directories found at one logical
// path, collected from lowest to highest precedence so that higher
// precedence overwrites per child name.
func (r *Resolver) mergeDirs(logical string, dirs []string) (*Dir, error) {
	merged := make(map[string]DirEntry)
	for i := len(dirs) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(dirs[i])
		if err != nil {
			return nil, fmt.Errorf("reading directory '%s': %w", dirs[i], err)
		}
		for _, entry := range entries {
			child := filepath.Join(dirs[i], entry.Name())
			info, err := os.Stat(child)
			if errors.Is(err, fs.ErrNotExist) {
				// Dangling symlink; nothing resolvable lives here.
				continue
			}
			if err != nil {
				return nil, err
			}
			merged[entry.Name()] = DirEntry{
				Name:     entry.Name(),
				IsDir:    info.IsDir(),
				RealPath: child,
			}
		}
	}

	out := &Dir{Entries: make([]DirEntry, 0, len(merged))}
	for _, entry := range merged {
		out.Entries = append(out.Entries, entry)
	}
	sort.Slice(out.Entries, func(i, j int) bool {
		return out.Entries[i].Name < out.Entries[j].Name
	})
	slog.Debug("resolved directory", "path", logical, "children", len(out.Entries))
	return out, nil
}

// concrete maps a logical path into one root's on-disk namespace.
func (r *Resolver) concrete(root, logical string) string {
	if logical == fspath.Root {
		return root
	}
	return filepath.Join(root, filepath.FromSlash(logical))
}
