package toolerr

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindsMatchWithErrorsIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"unavailable", Unavailable("nmap"), ErrToolUnavailable},
		{"timeout", Timeout("sleep", time.Second), ErrExecutionTimeout},
		{"spawn", Spawn("nmap", os.ErrPermission), ErrSpawnFailure},
		{"canceled", Canceled("nmap", errors.New("context canceled")), ErrCanceled},
		{"unknown", Unknown("foo"), ErrUnknownTool},
		{"duplicate", Duplicate("nmap"), ErrDuplicateIdentifier},
		{"invalid", Invalidf("target is required"), ErrInvalidParameters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			wrapped := fmt.Errorf("handler: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)
		})
	}
}

func TestErrorMessagesAreDistinct(t *testing.T) {
	assert.Equal(t, "tool missing: nmap not found or not executable", Unavailable("nmap").Error())
	assert.Equal(t, "timed out: sleep did not finish within 1s and was killed", Timeout("sleep", time.Second).Error())
	assert.Equal(t, `unknown tool: "foo"`, Unknown("foo").Error())
	assert.Equal(t, `duplicate tool: "nmap" is already registered`, Duplicate("nmap").Error())
	assert.Equal(t, "bad input: target is required", Invalidf("target is required").Error())
}

func TestSpawnKeepsCause(t *testing.T) {
	err := Spawn("nmap", os.ErrPermission)

	assert.ErrorIs(t, err, os.ErrPermission)
	assert.True(t, strings.HasPrefix(err.Error(), "spawn failed: nmap: "))
}

func TestErrorIsSingleLine(t *testing.T) {
	err := Invalid(errors.New("first\nsecond"))

	assert.NotContains(t, err.Error(), "\n")
	assert.Equal(t, "bad input: first second", err.Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "", KindOf(nil))
	assert.Equal(t, "tool_unavailable", KindOf(Unavailable("x")))
	assert.Equal(t, "execution_timeout", KindOf(fmt.Errorf("wrap: %w", Timeout("x", time.Second))))
	assert.Equal(t, "invalid_parameters", KindOf(Invalidf("x")))
	assert.Equal(t, "spawn_failure", KindOf(Spawn("x", os.ErrNotExist)))
	assert.Equal(t, "unknown_tool", KindOf(Unknown("x")))
	assert.Equal(t, "duplicate_identifier", KindOf(Duplicate("x")))
	assert.Equal(t, "canceled", KindOf(Canceled("x", nil)))
	assert.Equal(t, "error", KindOf(errors.New("boom")))
}
