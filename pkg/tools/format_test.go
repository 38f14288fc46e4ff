package tools

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tb0hdan/kali-mcp/pkg/runner"
)

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return strings.Join(lines, "\n")
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name   string
		output string
		page   Page
		want   string
	}{
		{
			name:   "short output unchanged",
			output: "a\nb",
			want:   "a\nb",
		},
		{
			name:   "truncated to max lines",
			output: numberedLines(5),
			page:   Page{MaxLines: 2},
			want:   "[Showing lines 1-2 of 5 lines. Use offset parameter to view more.]\n\nline 1\nline 2",
		},
		{
			name:   "offset window",
			output: numberedLines(5),
			page:   Page{MaxLines: 2, Offset: 2},
			want:   "[Showing lines 3-4 of 5 lines. Use offset parameter to view more.]\n\nline 3\nline 4",
		},
		{
			name:   "offset to the end",
			output: numberedLines(5),
			page:   Page{Offset: 3},
			want:   "[Showing lines 4-5 of 5 lines. Use offset parameter to view more.]\n\nline 4\nline 5",
		},
		{
			name:   "offset past the end",
			output: numberedLines(5),
			page:   Page{Offset: 5},
			want:   "[Offset 5 is past the end of output (5 lines).]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Paginate(tt.output, tt.page))
		})
	}
}

func TestPaginate_DefaultMaxLines(t *testing.T) {
	got := Paginate(numberedLines(250), Page{})

	assert.True(t, strings.HasPrefix(got, "[Showing lines 1-200 of 250 lines."), got[:60])
	assert.True(t, strings.HasSuffix(got, "line 200"))
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		result  runner.Result
		want    string
	}{
		{
			name:    "success",
			subject: "example.com",
			result:  runner.Result{Success: true, Stdout: "found\n", Stderr: "progress\n"},
			want:    "Scan Result for example.com:\nfound",
		},
		{
			name:   "no subject",
			result: runner.Result{Success: true, Stdout: "ok\n"},
			want:   "Scan Result:\nok",
		},
		{
			name:    "no output",
			subject: "example.com",
			result:  runner.Result{Success: true},
			want:    "Scan Result for example.com:\n(no output)",
		},
		{
			name:    "failure shows status and stderr",
			subject: "example.com",
			result:  runner.Result{ExitCode: 2, Stdout: "partial\n", Stderr: "usage error\n"},
			want:    "Scan Result for example.com:\n[exit status 2]\npartial\n--- stderr ---\nusage error",
		},
		{
			name:    "killed by signal",
			subject: "example.com",
			result:  runner.Result{ExitCode: -1, Signal: "killed", Stderr: "bye"},
			want:    "Scan Result for example.com:\n[signal killed]\n(no output)\n--- stderr ---\nbye",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatResult("Scan Result", tt.subject, &tt.result, Page{}))
		})
	}
}

func TestNewOutcome(t *testing.T) {
	outcome := NewOutcome("nmap_port_scan", "nmap", &runner.Result{
		CommandLine: "nmap -sS 10.0.0.1",
		ExitCode:    1,
		Stdout:      "abc",
		Stderr:      "de",
		Duration:    1500 * time.Millisecond,
	})

	assert.Equal(t, Outcome{
		Operation:   "nmap_port_scan",
		Tool:        "nmap",
		CommandLine: "nmap -sS 10.0.0.1",
		ExitCode:    1,
		DurationMs:  1500,
		StdoutBytes: 3,
		StderrBytes: 2,
	}, outcome)

	fields := outcome.auditFields()
	if assert.NotNil(t, fields.exitCode) {
		assert.Equal(t, 1, *fields.exitCode)
	}
	assert.Nil(t, Outcome{Tool: "nmap"}.auditFields().exitCode)
}
