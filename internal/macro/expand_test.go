// SPDX-License-Identifier: MPL-2.0

package macro

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nancy-cli/internal/tree"
)

// writeFile creates a file with parent directories as needed.
func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestResolver(t *testing.T, root string) *tree.Resolver {
	t.Helper()
	r, err := tree.NewResolver([]string{root})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func expand(t *testing.T, root, baseFile, text string) (string, error) {
	t.Helper()
	c := NewContext(context.Background(), newTestResolver(t, root), baseFile)
	return c.Expand(text)
}

func TestExpand_PlainText(t *testing.T) {
	t.Parallel()

	got, err := expand(t, t.TempDir(), "index.nancy.html", "no macros here, not even $ 1.50")
	if err != nil {
		t.Fatal(err)
	}
	if want := "no macros here, not even $ 1.50"; got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_Path(t *testing.T) {
	t.Parallel()

	got, err := expand(t, t.TempDir(), "people/index.nancy.html", "here: $path")
	if err != nil {
		t.Fatal(err)
	}
	if want := "here: people"; got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_PathAtRoot(t *testing.T) {
	t.Parallel()

	got, err := expand(t, t.TempDir(), "index.nancy.html", "$path")
	if err != nil {
		t.Fatal(err)
	}
	if want := "."; got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_Root(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	got, err := expand(t, root, "index.nancy.html", "$root")
	if err != nil {
		t.Fatal(err)
	}
	if got != root {
		t.Errorf("Expand = %q, want %q", got, root)
	}
}

func TestExpand_Include(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "greeting.in.txt"), "hello\n")

	got, err := expand(t, root, "index.nancy.txt", "[$include{greeting.in.txt}]")
	if err != nil {
		t.Fatal(err)
	}
	if want := "[hello]"; got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_IncludeRecursive(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "outer.in.txt"), "a $include{inner.in.txt} c\n")
	writeFile(t, filepath.Join(root, "inner.in.txt"), "b\n")

	got, err := expand(t, root, "index.nancy.txt", "$include{outer.in.txt}")
	if err != nil {
		t.Fatal(err)
	}
	if want := "a b c"; got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_PasteDoesNotExpand(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "raw.in.txt"), "literal $include{nothing} and $path\n")

	got, err := expand(t, root, "index.nancy.txt", "$paste{raw.in.txt}")
	if err != nil {
		t.Fatal(err)
	}
	if want := "literal $include{nothing} and $path"; got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_NestedCallInArgument(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "people", "nav.in.txt"), "nav for people\n")

	// The inner $path expands first, so the leaf becomes people/nav.in.txt.
	got, err := expand(t, root, "people/index.nancy.txt", "$include{$path/nav.in.txt}")
	if err != nil {
		t.Fatal(err)
	}
	if want := "nav for people"; got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_EscapedMacro(t *testing.T) {
	t.Parallel()

	got, err := expand(t, t.TempDir(), "index.nancy.txt", `\$include{a,b} and \$path`)
	if err != nil {
		t.Fatal(err)
	}
	if want := "$include{a,b} and $path"; got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

// Arguments of an escaped call are emitted raw; inner macros do not run.
func TestExpand_EscapedMacroArgsNotExpanded(t *testing.T) {
	t.Parallel()

	got, err := expand(t, t.TempDir(), "index.nancy.txt", `\$include{$path/x}`)
	if err != nil {
		t.Fatal(err)
	}
	if want := "$include{$path/x}"; got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_EscapedCommaInArgument(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	exe := filepath.Join(root, "echo.in.sh")
	writeFile(t, exe, "#!/bin/sh\nprintf '%s' \"$1\"\n")
	if err := os.Chmod(exe, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := expand(t, root, "index.nancy.txt", `$include{echo.in.sh,a\,b}`)
	if err != nil {
		t.Fatal(err)
	}
	if want := "a,b"; got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_MissingCloseBrace(t *testing.T) {
	t.Parallel()

	_, err := expand(t, t.TempDir(), "index.nancy.txt", "$include{oops")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if got, want := parseErr.Error(), "missing close brace"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestExpand_NoSuchMacro(t *testing.T) {
	t.Parallel()

	_, err := expand(t, t.TempDir(), "index.nancy.txt", "$frobnicate{x}")
	var noMacro *NoSuchMacroError
	if !errors.As(err, &noMacro) {
		t.Fatalf("error = %v, want *NoSuchMacroError", err)
	}
	if got, want := noMacro.Error(), "no such macro '$frobnicate'"; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestExpand_IncludeNotFound(t *testing.T) {
	t.Parallel()

	_, err := expand(t, t.TempDir(), "people/index.nancy.txt", "$include{missing.in.txt}")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *NotFoundError", err)
	}
	want := "cannot find 'missing.in.txt' while expanding 'people/index.nancy.txt'"
	if got := notFound.Error(); got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestExpand_IncludeWithoutArguments(t *testing.T) {
	t.Parallel()

	_, err := expand(t, t.TempDir(), "index.nancy.txt", "$include")
	var evalErr *EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("error = %v, want *EvalError", err)
	}
}

func TestExpand_ExecutableFragment(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	exe := filepath.Join(root, "date.in.sh")
	writeFile(t, exe, "#!/bin/sh\nprintf 'ran with %s %s' \"$1\" \"$2\"\n")
	if err := os.Chmod(exe, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := expand(t, root, "index.nancy.txt", "$include{date.in.sh,one,two}")
	if err != nil {
		t.Fatal(err)
	}
	if want := "ran with one two"; got != want {
		t.Errorf("Expand = %q, want %q", got, want)
	}
}

func TestExpand_ExecutableFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	exe := filepath.Join(root, "fail.in.sh")
	writeFile(t, exe, "#!/bin/sh\nexit 3\n")
	if err := os.Chmod(exe, 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := expand(t, root, "index.nancy.txt", "$include{fail.in.sh}")
	var evalErr *EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("error = %v, want *EvalError", err)
	}
}

// A fragment can include the same-named fragment from an ancestor directory:
// the copy already on the expansion stack is skipped by the search.
func TestExpandFile_SelfNameIncludesAncestor(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "body.in.txt"), "outer\n")
	writeFile(t, filepath.Join(root, "people", "body.in.txt"), "inner + $include{body.in.txt}\n")
	writeFile(t, filepath.Join(root, "people", "index.nancy.txt"), "$include{body.in.txt}\n")

	got, err := ExpandFile(
		context.Background(),
		newTestResolver(t, root),
		"people/index.nancy.txt",
		filepath.Join(root, "people", "index.nancy.txt"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if want := "inner + outer\n"; got != want {
		t.Errorf("ExpandFile = %q, want %q", got, want)
	}
}

// $path refers to the template being built, not the fragment being expanded.
func TestExpandFile_PathIsBaseFileDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "where.in.txt"), "$path\n")
	writeFile(t, filepath.Join(root, "people", "index.nancy.txt"), "$include{where.in.txt}\n")

	got, err := ExpandFile(
		context.Background(),
		newTestResolver(t, root),
		"people/index.nancy.txt",
		filepath.Join(root, "people", "index.nancy.txt"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if want := "people\n"; got != want {
		t.Errorf("ExpandFile = %q, want %q", got, want)
	}
}

// The dispatch table is built during package initialization (include and
// paste recurse through Expand, which reads it back) and holds exactly the
// fixed macro set.
func TestBuiltins_FixedMacroSet(t *testing.T) {
	t.Parallel()

	want := []string{"include", "paste", "path", "root"}
	if len(builtins) != len(want) {
		t.Fatalf("len(builtins) = %d, want %d", len(builtins), len(want))
	}
	for _, name := range want {
		if builtins[name] == nil {
			t.Errorf("builtins[%q] = nil, want a macro", name)
		}
	}
}

func TestStripFinalNewline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"a\n", "a"},
		{"a\n\n", "a\n"},
		{"a", "a"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripFinalNewline(tt.in); got != tt.want {
			t.Errorf("StripFinalNewline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		pos      int
		wantArgs []string
		wantHas  bool
	}{
		{"no braces", "$path rest", 5, nil, false},
		{"one arg", "{a}", 0, []string{"a"}, true},
		{"two args", "{a,b}", 0, []string{"a", "b"}, true},
		{"nested braces", "{a{x,y},b}", 0, []string{"a{x,y}", "b"}, true},
		{"escaped comma", `{a\,b}`, 0, []string{`a\,b`}, true},
		{"empty list", "{}", 0, []string{""}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args, hasArgs, _, err := parseArgs(tt.text, tt.pos)
			if err != nil {
				t.Fatal(err)
			}
			if hasArgs != tt.wantHas {
				t.Errorf("hasArgs = %v, want %v", hasArgs, tt.wantHas)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %q, want %q", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}
