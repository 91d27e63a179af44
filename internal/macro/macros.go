// SPDX-License-Identifier: MPL-2.0

package macro

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"nancy-cli/pkg/fspath"
)

// macroFunc is the capability interface every macro implements: expanded
// arguments in, replacement text out. The set is fixed and closed; fragment
// content is never interpreted as code, and the only subprocess surface is
// the executable-bit-gated invocation in readOrRun.
type macroFunc func(c *Context, args []string) (string, error)

// builtins is the complete macro set. Unknown names are fatal. The map is
// populated in init: include and paste recurse through Expand, which reads
// the map back, so a composite literal here would form an initialization
// cycle.
var builtins map[string]macroFunc

func init() {
	builtins = map[string]macroFunc{
		"include": macroInclude,
		"paste":   macroPaste,
		"path":    macroPath,
		"root":    macroRoot,
	}
}

// macroPath yields the logical directory, relative to the build root, of
// the file being expanded. Arguments are ignored.
func macroPath(c *Context, _ []string) (string, error) {
	return fspath.Dir(c.baseFile), nil
}

// macroRoot yields the path of the primary input root. Arguments are
// ignored.
func macroRoot(c *Context, _ []string) (string, error) {
	return c.resolver.PrimaryRoot(), nil
}

// macroInclude resolves its first argument via ancestor search, reads the
// file (or runs it, when executable, with the remaining arguments), and
// pushes the result through full recursive expansion with the file on the
// expansion stack. A single trailing newline is stripped.
func macroInclude(c *Context, args []string) (string, error) {
	file, contents, err := c.includedFile("include", args)
	if err != nil {
		return "", err
	}
	expanded, err := c.withFrame(file).Expand(contents)
	if err != nil {
		return "", err
	}
	return StripFinalNewline(expanded), nil
}

// macroPaste is include without the recursive expansion: the resolved
// content is returned literally, with only trailing-newline stripping.
func macroPaste(c *Context, args []string) (string, error) {
	_, contents, err := c.includedFile("paste", args)
	if err != nil {
		return "", err
	}
	return StripFinalNewline(contents), nil
}

// includedFile resolves and reads the file named by args[0] for include and
// paste, handing args[1:] to the file as argv when it is executable.
func (c *Context) includedFile(name string, args []string) (string, string, error) {
	if len(args) < 1 {
		return "", "", &EvalError{
			Macro: name,
			File:  c.baseFile,
			Cause: fmt.Errorf("$%s expects at least one argument", name),
		}
	}
	leaf := args[0]
	file, ok, err := c.resolver.FindOnPath(fspath.Dir(c.baseFile), leaf, c.stack)
	if err != nil {
		return "", "", err
	}
	if !ok {
		return "", "", &NotFoundError{Leaf: leaf, File: c.baseFile}
	}
	contents, err := c.readOrRun(file, args[1:])
	if err != nil {
		return "", "", &EvalError{Macro: name, File: c.baseFile, Cause: err}
	}
	return file, contents, nil
}

// readOrRun reads a file's contents as text, or, when the file has an
// executable permission bit, invokes it as a subprocess with the given
// arguments and captures its standard output. The subprocess inherits
// stderr and blocks the expansion until it completes.
func (c *Context) readOrRun(file string, args []string) (string, error) {
	info, err := os.Stat(file)
	if err != nil {
		return "", err
	}
	if isExecutable(info.Mode()) {
		slog.Debug("running", "file", file, "args", strings.Join(args, " "))
		cmd := exec.CommandContext(c.ctx, file, args...)
		cmd.Stderr = os.Stderr
		out, err := cmd.Output()
		if err != nil {
			return "", fmt.Errorf("running '%s': %w", file, err)
		}
		return string(out), nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// isExecutable reports whether any execute permission bit is set.
func isExecutable(mode os.FileMode) bool {
	return mode&0o111 != 0
}
