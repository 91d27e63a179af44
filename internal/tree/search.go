// SPDX-License-Identifier: MPL-2.0

package tree

import (
	"log/slog"
	"os/exec"
	"path/filepath"

	"nancy-cli/pkg/fspath"
)

// FindOnPath finds the nearest file named leaf, starting at startDir (the
// logical directory of the file being expanded) and walking one directory at
// a time up to the build root. A candidate whose concrete path is already on
// the expansion stack is skipped, which is what lets a fragment include the
// same-named fragment one level up without recursing into itself. Leading
// ".." segments in leaf are consumed against the search directory before
// each level is tried.
//
// When no level matches, the leaf is looked up on the process's executable
// search path, as a shell would locate a command. The boolean result is
// false when the leaf is found nowhere.
func (r *Resolver) FindOnPath(startDir, leaf string, stack ExpansionStack) (string, bool, error) {
	slog.Debug("find on path", "start", startDir, "leaf", leaf)
	for _, level := range fspath.Ancestors(startDir) {
		candidate := fspath.Join(level, leaf)
		if fspath.EscapesRoot(candidate) {
			continue
		}
		obj, err := r.Resolve(candidate)
		if err != nil {
			return "", false, err
		}
		file, ok := obj.(*File)
		if !ok {
			continue
		}
		if stack.Contains(file.RealPath) {
			slog.Debug("skipping file under expansion", "path", file.RealPath)
			continue
		}
		slog.Debug("found in tree", "path", file.RealPath)
		return file.RealPath, true, nil
	}

	if path, err := exec.LookPath(leaf); err == nil {
		slog.Debug("found on executable path", "path", path)
		return path, true, nil
	}
	return "", false, nil
}

// ExpansionStack is the ordered list of concrete file paths currently being
// expanded, innermost last. It exists to stop a fragment from matching
// itself during ancestor search.
type ExpansionStack []string

// Push returns a new stack with path appended. The receiver is not
// modified, so sibling expansions never observe each other's frames.
func (s ExpansionStack) Push(path string) ExpansionStack {
	grown := make(ExpansionStack, len(s), len(s)+1)
	copy(grown, s)
	return append(grown, filepath.Clean(path))
}

// Contains reports whether path is already under expansion.
func (s ExpansionStack) Contains(path string) bool {
	path = filepath.Clean(path)
	for _, p := range s {
		if p == path {
			return true
		}
	}
	return false
}
