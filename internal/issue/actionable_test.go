// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("expand template").
		WithResource("people/index.nancy.html").
		Wrap(errors.New("boom")).
		Build()

	want := "failed to expand template: people/index.nancy.html: boom"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying")
	err := WrapWithOperation(cause, "merge input roots")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause via Unwrap")
	}
}

func TestWrapWithOperation_NilError(t *testing.T) {
	t.Parallel()

	if got := WrapWithOperation(nil, "anything"); got != nil {
		t.Errorf("WrapWithOperation(nil) = %v, want nil", got)
	}
}

func TestErrorContext_BuildRequiresOperation(t *testing.T) {
	t.Parallel()

	if got := NewErrorContext().WithResource("x").Build(); got != nil {
		t.Errorf("Build() without operation = %v, want nil", got)
	}
	if got := NewErrorContext().WithResource("x").BuildError(); got != nil {
		t.Errorf("BuildError() without operation = %v, want nil", got)
	}
}

func TestActionableError_FormatSuggestions(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("load configuration").
		WithSuggestion("Check the file exists").
		WithSuggestion("Check the syntax").
		Build()

	if !err.HasSuggestions() {
		t.Fatal("HasSuggestions() = false, want true")
	}

	formatted := err.Format(false)
	if !strings.Contains(formatted, "• Check the file exists") {
		t.Errorf("Format missing first suggestion: %q", formatted)
	}
	if !strings.Contains(formatted, "• Check the syntax") {
		t.Errorf("Format missing second suggestion: %q", formatted)
	}
}

func TestActionableError_FormatVerboseChain(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	middle := fmt.Errorf("middle: %w", inner)
	err := NewErrorContext().
		WithOperation("expand template").
		Wrap(middle).
		Build()

	formatted := err.Format(true)
	if !strings.Contains(formatted, "Error chain:") {
		t.Errorf("verbose Format missing error chain: %q", formatted)
	}
	if !strings.Contains(formatted, "2. inner") {
		t.Errorf("verbose Format missing chain entry: %q", formatted)
	}

	if strings.Contains(err.Format(false), "Error chain:") {
		t.Error("non-verbose Format should not include the error chain")
	}
}
