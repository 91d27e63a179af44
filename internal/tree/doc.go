// SPDX-License-Identifier: MPL-2.0

// Package tree merges an ordered list of input roots into a single logical
// namespace and resolves names within it.
//
// The resolver answers "what lives at this logical path" with a tagged
// File/Directory result, applying leftmost-root-wins precedence. The
// ancestor search locates a leaf name for macro expansion by walking from
// the directory of the file under expansion up to the build root, then
// falling back to the executable search path.
package tree
