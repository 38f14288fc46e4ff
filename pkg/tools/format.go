package tools

import (
	"fmt"
	"strings"

	"github.com/tb0hdan/kali-mcp/pkg/runner"
	"github.com/tb0hdan/kali-mcp/pkg/types"
)

// Page holds the pagination parameters every operation accepts. Inputs embed it.
type Page struct {
	MaxLines int `json:"max_lines,omitempty" jsonschema:"maximum number of output lines to return (default 200)" validate:"min=0,max=100000"`
	Offset   int `json:"offset,omitempty" jsonschema:"line offset to start from, for reading past a truncated result" validate:"min=0"`
}

func (p Page) Paging() Page {
	return p
}

// Pageable is satisfied by every input that embeds Page.
type Pageable interface {
	Paging() Page
}

// Paginate returns the requested window of output, prefixed with a banner when
// lines were skipped or cut off.
func Paginate(output string, page Page) string {
	maxLines := page.MaxLines
	if maxLines <= 0 {
		maxLines = types.MaxDefaultLines
	}
	offset := page.Offset

	lines := strings.Split(output, "\n")
	totalLines := len(lines)

	truncated := false
	switch {
	case offset >= totalLines:
		return fmt.Sprintf("[Offset %d is past the end of output (%d lines).]", offset, totalLines)
	case offset > 0:
		end := totalLines
		if offset+maxLines < totalLines {
			end = offset + maxLines
			truncated = true
		}
		lines = lines[offset:end]
	case totalLines > maxLines:
		lines = lines[:maxLines]
		truncated = true
	}

	paginated := strings.Join(lines, "\n")
	if truncated || offset > 0 {
		return fmt.Sprintf("[Showing lines %d-%d of %d lines. Use offset parameter to view more.]\n\n", offset+1, offset+len(lines), totalLines) + paginated
	}
	return paginated
}

// FormatResult renders a finished process as the text returned to the caller.
// A non-zero exit status is reported in the text, it is not an error.
func FormatResult(title, subject string, result *runner.Result, page Page) string {
	var b strings.Builder

	b.WriteString(title)
	if subject != "" {
		b.WriteString(" for ")
		b.WriteString(subject)
	}
	b.WriteString(":\n")
	if !result.Success {
		fmt.Fprintf(&b, "[%s]\n", result.ExitStatus())
	}

	stdout := strings.TrimRight(result.Stdout, "\n")
	stderr := strings.TrimSpace(result.Stderr)
	if stdout == "" {
		b.WriteString("(no output)\n")
	} else {
		b.WriteString(Paginate(stdout, page))
		b.WriteString("\n")
	}
	if stderr != "" && (!result.Success || stdout == "") {
		b.WriteString("--- stderr ---\n")
		b.WriteString(stderr)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Outcome is the structured result of one operation, returned alongside the
// text content.
type Outcome struct {
	Operation   string `json:"operation" jsonschema:"operation name"`
	Tool        string `json:"tool" jsonschema:"tool identifier"`
	CommandLine string `json:"command_line" jsonschema:"command line that was run, secrets masked"`
	ExitCode    int    `json:"exit_code" jsonschema:"process exit code, -1 when killed by a signal"`
	Signal      string `json:"signal,omitempty" jsonschema:"terminating signal, if any"`
	Success     bool   `json:"success" jsonschema:"true when the exit code is zero"`
	DurationMs  int64  `json:"duration_ms" jsonschema:"wall-clock duration in milliseconds"`
	StdoutBytes int    `json:"stdout_bytes" jsonschema:"size of captured standard output"`
	StderrBytes int    `json:"stderr_bytes" jsonschema:"size of captured standard error"`
}

// NewOutcome summarises result for operation.
func NewOutcome(operation, toolID string, result *runner.Result) Outcome {
	return Outcome{
		Operation:   operation,
		Tool:        toolID,
		CommandLine: result.CommandLine,
		ExitCode:    result.ExitCode,
		Signal:      result.Signal,
		Success:     result.Success,
		DurationMs:  result.Duration.Milliseconds(),
		StdoutBytes: len(result.Stdout),
		StderrBytes: len(result.Stderr),
	}
}

func (o Outcome) auditFields() auditFields {
	fields := auditFields{toolID: o.Tool, commandLine: o.CommandLine}
	if o.CommandLine != "" {
		exitCode := o.ExitCode
		fields.exitCode = &exitCode
	}
	return fields
}
