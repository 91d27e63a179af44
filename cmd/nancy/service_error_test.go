// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"nancy-cli/internal/issue"
)

func TestNewServiceError_PanicsOnNilErr(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("newServiceError(nil, ...) should panic")
		}
	}()
	newServiceError(nil, 0, "")
}

func TestServiceError_ErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	underlying := errors.New("cannot find 'x' while expanding 'y'")
	svcErr := newServiceError(underlying, issue.ResolutionErrorId, "")

	if got := svcErr.Error(); got != underlying.Error() {
		t.Errorf("Error() = %q, want %q", got, underlying.Error())
	}
	if !errors.Is(svcErr, underlying) {
		t.Error("errors.Is should find underlying error via Unwrap")
	}
}

func TestRenderServiceError_NilServiceError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderServiceError(&buf, nil)

	if buf.Len() != 0 {
		t.Errorf("expected no output for nil ServiceError, got %q", buf.String())
	}
}

func TestRenderServiceError_StyledMessageOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	svcErr := newServiceError(errors.New("test"), 0, "styled output\n")
	renderServiceError(&buf, svcErr)

	if buf.String() != "styled output\n" {
		t.Errorf("output = %q, want %q", buf.String(), "styled output\n")
	}
}

func TestRenderServiceError_WithIssueID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	svcErr := newServiceError(errors.New("test"), issue.ResolutionErrorId, "")
	renderServiceError(&buf, svcErr)

	if !strings.Contains(buf.String(), "File not found") {
		t.Errorf("output missing catalog entry: %q", buf.String())
	}
}

func TestRenderServiceError_StyledMessageAndIssueID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	svcErr := newServiceError(errors.New("test"), issue.ParseErrorId, "Error: bad syntax\n")
	renderServiceError(&buf, svcErr)

	out := buf.String()
	styledIdx := strings.Index(out, "Error: bad syntax")
	catalogIdx := strings.Index(out, "Template syntax error")
	if styledIdx == -1 || catalogIdx == -1 {
		t.Fatalf("output missing styled message or catalog entry: %q", out)
	}
	if styledIdx > catalogIdx {
		t.Error("styled message should render before the catalog entry")
	}
}
