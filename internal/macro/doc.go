// SPDX-License-Identifier: MPL-2.0

// Package macro implements the template expansion engine: scanning text for
// $name{...} invocations, balanced-brace argument parsing with backslash
// escapes, and a fixed dispatch table of macros (include, paste, path,
// root). Expansion is recursive and depth-first; an explicit Context value
// carries the file under expansion and the expansion stack, so the engine
// holds no process-wide state and is re-entrant across builds.
package macro
