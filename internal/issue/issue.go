// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	// ConfigurationErrorId covers invalid inputs reported before a build
	// starts: missing roots, absolute build paths, bad output paths.
	ConfigurationErrorId Id = iota + 1
	// ResolutionErrorId covers leaf names found neither in the virtual
	// tree nor on the executable search path.
	ResolutionErrorId
	// ParseErrorId covers malformed macro syntax in template text.
	ParseErrorId
	// EvaluationErrorId covers unknown macros, failing subprocesses and
	// unreadable files during expansion.
	EvaluationErrorId
)

type MarkdownMsg string

type Issue struct {
	id    Id          // ID used to look up the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	configurationErrorIssue = &Issue{
		id: ConfigurationErrorId,
		mdMsg: `
# Invalid build configuration!

The build never started because its inputs are invalid.

## Requirements:
- Every input root must exist and be a directory
- The build path (--path) must be relative to the input tree
- The output directory must not be nested inside any input root

## Things you can try:
- Check each entry of the input path for typos
- Pass a single file as INPUT-PATH to expand just that file
- Move the output directory outside the input trees`,
	}

	resolutionErrorIssue = &Issue{
		id: ResolutionErrorId,
		mdMsg: `
# File not found during expansion!

A name passed to $include or $paste matched nothing.

## Where nancy searches:
1. The directory of the file being expanded
2. Each ancestor directory, up to the root of the input tree
3. The executable search path (PATH), as a shell would

A fragment that is currently being expanded is skipped, so a fragment can
include the same-named fragment from an ancestor directory.

## Things you can try:
- Check the spelling of the name inside the macro call
- Make sure the fragment carries the fragment marker (e.g. ` + "`logo.in.html`" + `)
  and sits in the directory of the template or one of its ancestors`,
	}

	parseErrorIssue = &Issue{
		id: ParseErrorId,
		mdMsg: `
# Template syntax error!

A macro call in a template could not be parsed.

## Macro syntax:
~~~
$name
$name{arg1,arg2,...}
~~~
- Braces must balance; an argument may contain nested macro calls
- A comma inside an argument must be escaped as ` + "`\\,`" + `
- A backslash before ` + "`$`" + ` suppresses the call and emits it literally

## Things you can try:
- Look for a ` + "`{`" + ` with no matching ` + "`}`" + ` in the reported file
- Escape literal dollar signs that precede an identifier`,
	}

	evaluationErrorIssue = &Issue{
		id: EvaluationErrorId,
		mdMsg: `
# Macro evaluation failed!

A macro call was parsed but could not be evaluated.

## Common causes:
- Unknown macro name (only include, paste, path and root exist)
- An executable fragment exited with a non-zero status
- The resolved file could not be read

## Things you can try:
- Run the executable fragment by hand with the same arguments
- Re-run with --verbose to see the expansion trace`,
	}

	issues = map[Id]*Issue{
		configurationErrorIssue.Id(): configurationErrorIssue,
		resolutionErrorIssue.Id():    resolutionErrorIssue,
		parseErrorIssue.Id():         parseErrorIssue,
		evaluationErrorIssue.Id():    evaluationErrorIssue,
	}
)

func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
