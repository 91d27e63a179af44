// SPDX-License-Identifier: MPL-2.0

// Package fspath provides path helpers for the logical namespace of a merged
// input tree. Logical paths are slash-separated, relative to the build root,
// and use "." for the root itself. Keeping the path algebra here means the
// resolver, the ancestor search and the builder all agree on how logical
// paths are joined, walked and classified.
package fspath

import (
	"path"
	"regexp"
	"strings"
)

// Root is the logical path of the build root.
const Root = "."

// Clean normalizes a logical path. The empty string maps to Root.
func Clean(p string) string {
	return path.Clean(p)
}

// Join joins logical path elements, cleaning the result.
func Join(elem ...string) string {
	return path.Join(elem...)
}

// Dir returns the logical directory containing p (Root for top-level names).
func Dir(p string) string {
	return path.Dir(p)
}

// Base returns the last element of a logical path.
func Base(p string) string {
	return path.Base(p)
}

// IsDotfile reports whether a directory entry name is dot-prefixed.
// Dot-prefixed entries are never walked by the builder.
func IsDotfile(name string) bool {
	return strings.HasPrefix(name, ".")
}

// EscapesRoot reports whether a cleaned logical path climbs out of the build
// root via leading ".." segments.
func EscapesRoot(p string) bool {
	return p == ".." || strings.HasPrefix(p, "../")
}

// Ancestors returns dir followed by each of its ancestors up to and
// including Root. Ancestors("a/b") is ["a/b", "a", "."].
func Ancestors(dir string) []string {
	dir = Clean(dir)
	anc := []string{dir}
	for dir != Root && !EscapesRoot(dir) {
		dir = path.Dir(dir)
		anc = append(anc, dir)
	}
	return anc
}

// Marker classifies file names carrying a naming infix such as ".nancy" or
// ".in". The infix matches only as the final extension or as the extension
// immediately before a single final one: "foo.nancy" and "foo.nancy.html"
// match, "foo.nancy.min.js" does not.
type Marker struct {
	infix string
	re    *regexp.Regexp
}

// NewMarker compiles a Marker for the given infix (including its leading
// dot, e.g. ".nancy").
func NewMarker(infix string) Marker {
	return Marker{
		infix: infix,
		re:    regexp.MustCompile(regexp.QuoteMeta(infix) + `(\.[^.]+)?$`),
	}
}

// String returns the marker infix.
func (m Marker) String() string { return m.infix }

// Matches reports whether name carries the marker.
func (m Marker) Matches(name string) bool {
	return m.re.MatchString(name)
}

// Strip removes the marker infix from name, keeping any final extension.
// Names without the marker are returned unchanged.
func (m Marker) Strip(name string) string {
	loc := m.re.FindStringIndex(name)
	if loc == nil {
		return name
	}
	return name[:loc[0]] + name[loc[0]+len(m.infix):]
}
