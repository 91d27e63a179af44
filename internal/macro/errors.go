// SPDX-License-Identifier: MPL-2.0

package macro

import "fmt"

type (
	// ParseError reports malformed macro syntax in template text, such as a
	// call with no matching close brace. Parse errors abort the build.
	ParseError struct {
		Msg string
	}

	// NoSuchMacroError reports an invocation of a name outside the fixed
	// macro set.
	NoSuchMacroError struct {
		Name string
	}

	// NotFoundError reports a leaf name that matched nothing in the tree
	// and nothing on the executable search path.
	NotFoundError struct {
		Leaf string
		// File is the file being expanded when the lookup failed.
		File string
	}

	// EvalError reports a macro whose execution failed: an unreadable file
	// or a subprocess that exited non-zero.
	EvalError struct {
		Macro string
		// File is the file being expanded when the macro failed.
		File  string
		Cause error
	}
)

func (e *ParseError) Error() string {
	return e.Msg
}

func (e *NoSuchMacroError) Error() string {
	return fmt.Sprintf("no such macro '$%s'", e.Name)
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cannot find '%s' while expanding '%s'", e.Leaf, e.File)
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("$%s failed while expanding '%s': %v", e.Macro, e.File, e.Cause)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *EvalError) Unwrap() error {
	return e.Cause
}
