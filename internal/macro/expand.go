// SPDX-License-Identifier: MPL-2.0

package macro

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"nancy-cli/internal/tree"
)

// macroRegex matches an optional escaping backslash, a '$', and a macro
// identifier: a letter followed by letters, digits or underscores.
var macroRegex = regexp.MustCompile(`(\\?)\$([a-zA-Z][a-zA-Z0-9_]*)`)

// Context carries everything one expansion needs: the resolver over the
// input roots, the logical path of the file whose text is being expanded,
// and the stack of concrete file paths currently under expansion. The base
// file stays fixed while included fragments are expanded, so $path and
// ancestor search always refer to the template being built.
type Context struct {
	ctx      context.Context
	resolver *tree.Resolver
	baseFile string
	stack    tree.ExpansionStack
}

// NewContext creates an expansion context for the file at the given logical
// path. The stack is seeded by ExpandFile.
func NewContext(ctx context.Context, resolver *tree.Resolver, baseFile string) *Context {
	return &Context{ctx: ctx, resolver: resolver, baseFile: baseFile}
}

// ExpandFile reads the concrete file backing baseFile and fully expands its
// text, with realPath seeding the expansion stack so the file cannot
// include itself at the same search level.
func ExpandFile(ctx context.Context, resolver *tree.Resolver, baseFile, realPath string) (string, error) {
	slog.Debug("expand file", "base", baseFile, "real", realPath)
	data, err := os.ReadFile(realPath)
	if err != nil {
		return "", &EvalError{Macro: "include", File: baseFile, Cause: err}
	}
	c := NewContext(ctx, resolver, baseFile)
	c.stack = c.stack.Push(realPath)
	return c.Expand(string(data))
}

// Expand scans text left to right and replaces every unescaped macro
// invocation with its output. Scanning resumes after each spliced output,
// so $paste results are never rescanned and $include results, which arrive
// fully expanded, are not expanded twice.
func (c *Context) Expand(text string) (string, error) {
	expanded := text
	startPos := 0
	for {
		loc := macroRegex.FindStringSubmatchIndex(expanded[startPos:])
		if loc == nil {
			break
		}
		matchStart := startPos + loc[0]
		matchEnd := startPos + loc[1]
		escaped := loc[2] != loc[3]
		name := expanded[startPos+loc[4] : startPos+loc[5]]

		args, hasArgs, scanPos, err := parseArgs(expanded, matchEnd)
		if err != nil {
			return "", err
		}

		var output string
		if escaped {
			// Drop the leading backslash and reconstitute the literal
			// call. Argument text is passed through raw, unexpanded.
			output = "$" + name
			if hasArgs {
				output = output + "{" + strings.Join(args, ",") + "}"
			}
		} else {
			output, err = c.invoke(name, args)
			if err != nil {
				return "", err
			}
		}

		expanded = expanded[:matchStart] + output + expanded[scanPos:]
		startPos = matchStart + len(output)
	}
	return expanded, nil
}

// parseArgs parses an optional balanced-brace argument list beginning at
// pos. Nested braces are balanced, so an argument may itself contain macro
// calls; top-level commas split arguments unless preceded by a backslash.
// It returns the raw (unexpanded) arguments, whether a brace list was
// present, and the position scanning should resume from.
func parseArgs(text string, pos int) (args []string, hasArgs bool, scanPos int, err error) {
	scanPos = pos
	if pos >= len(text) || text[pos] != '{' {
		return nil, false, scanPos, nil
	}
	hasArgs = true
	argStart := pos
	depth := 1
	next := argStart + 1
	for next < len(text) {
		switch text[next] {
		case '}':
			depth--
			if depth == 0 {
				args = append(args, text[argStart+1:next])
			}
		case '{':
			depth++
		case ',':
			if depth == 1 && text[next-1] != '\\' {
				args = append(args, text[argStart+1:next])
				argStart = next
			}
		}
		if depth == 0 {
			break
		}
		next++
	}
	if next == len(text) {
		return nil, false, 0, &ParseError{Msg: "missing close brace"}
	}
	return args, hasArgs, next + 1, nil
}

// invoke expands a macro's arguments (inner calls complete before the outer
// macro runs), then dispatches to the fixed macro set.
func (c *Context) invoke(name string, args []string) (string, error) {
	slog.Debug("invoke macro", "name", name, "args", args)
	expandedArgs := make([]string, len(args))
	for i, arg := range args {
		unescaped := strings.ReplaceAll(arg, `\,`, ",")
		expanded, err := c.Expand(unescaped)
		if err != nil {
			return "", err
		}
		expandedArgs[i] = expanded
	}
	fn, ok := builtins[name]
	if !ok {
		return "", &NoSuchMacroError{Name: name}
	}
	return fn(c, expandedArgs)
}

// withFrame returns a context for expanding an included file's contents,
// with realPath pushed onto the expansion stack.
func (c *Context) withFrame(realPath string) *Context {
	return &Context{
		ctx:      c.ctx,
		resolver: c.resolver,
		baseFile: c.baseFile,
		stack:    c.stack.Push(realPath),
	}
}

// StripFinalNewline removes a single trailing newline, the normalization
// applied to every include, paste and template result.
func StripFinalNewline(s string) string {
	return strings.TrimSuffix(s, "\n")
}
