package runner

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const redactedMarker = "***REDACTED***"

// Request describes one invocation. It is consumed by Execute and not retained.
type Request struct {
	Binary  string
	Args    []string
	Timeout time.Duration
	// Secrets are masked in Result.CommandLine and in log output. They are
	// still passed to the process unchanged.
	Secrets []string
}

// Result describes a process that has terminated and been reaped.
type Result struct {
	// CommandLine is the quoted argument vector for audit and logging.
	CommandLine string
	PID         int
	// ExitCode is -1 when the process was terminated by a signal.
	ExitCode int
	// Signal names the terminating signal on platforms that report one.
	Signal   string
	Stdout   string
	Stderr   string
	Success  bool
	Duration time.Duration
}

// ExitStatus renders the exit code or the terminating signal.
func (r *Result) ExitStatus() string {
	if r.Signal != "" {
		return "signal " + r.Signal
	}
	return "exit status " + strconv.Itoa(r.ExitCode)
}

// FormatCommandLine joins binary and args into a single string, quoting
// arguments the way a POSIX shell would need them. It is only ever used for
// display; processes are always started from the discrete vector.
func FormatCommandLine(binary string, args []string, secrets ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(binary))
	for _, arg := range args {
		parts = append(parts, quoteArg(redact(arg, secrets)))
	}
	return strings.Join(parts, " ")
}

// redact masks an argument that is a secret, or the password half of a
// samba-style user%password credential. Other arguments are left alone even
// when they happen to contain the secret text.
func redact(arg string, secrets []string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		if arg == secret {
			return redactedMarker
		}
		if user, ok := strings.CutSuffix(arg, "%"+secret); ok && !strings.Contains(user, "%") {
			return user + "%" + redactedMarker
		}
	}
	return arg
}

func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsFunc(arg, needsQuoting) {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

func needsQuoting(r rune) bool {
	if r <= ' ' || r == 0x7f {
		return true
	}
	return strings.ContainsRune("\"'\\$`;&|<>(){}*?[]!#~", r)
}

// decodeOutput converts captured bytes to text. A UTF-16 byte order mark
// switches the decoding; otherwise invalid UTF-8 sequences become U+FFFD.
func decodeOutput(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	return string(decoded)
}
