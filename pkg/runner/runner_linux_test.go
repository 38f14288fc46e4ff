//go:build linux

package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
)

// processRunning reports whether pid exists and is not a zombie.
func processRunning(t *testing.T, pid int) bool {
	t.Helper()

	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return false
	}
	// The state field follows the parenthesised command name.
	stat := string(data)
	idx := strings.LastIndex(stat, ")")
	if idx < 0 || idx+2 >= len(stat) {
		return false
	}
	state := stat[idx+2]
	return state != 'Z' && state != 'X'
}

func readPID(t *testing.T, path string) int {
	t.Helper()

	var pid int
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		if err != nil {
			return false
		}
		pid, err = strconv.Atoi(strings.TrimSpace(string(data)))
		return err == nil && pid > 0
	}, 2*time.Second, 10*time.Millisecond)
	return pid
}

func TestExecute_TimeoutLeavesNoProcess(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "pid")
	runner := New(zerolog.Nop())

	_, err := runner.Execute(context.Background(), Request{
		Binary:  "sh",
		Args:    []string{"-c", `echo $$ > "$1"; exec sleep 30`, "sh", pidFile},
		Timeout: 500 * time.Millisecond,
	})

	require.ErrorIs(t, err, toolerr.ErrExecutionTimeout)
	pid := readPID(t, pidFile)
	assert.False(t, processRunning(t, pid), "process %d still running after timeout", pid)
}

func TestExecute_TimeoutKillsDescendants(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "pid")
	runner := New(zerolog.Nop())

	_, err := runner.Execute(context.Background(), Request{
		Binary:  "sh",
		Args:    []string{"-c", `sleep 30 & echo $! > "$1"; wait`, "sh", pidFile},
		Timeout: 500 * time.Millisecond,
	})

	require.ErrorIs(t, err, toolerr.ErrExecutionTimeout)
	pid := readPID(t, pidFile)
	assert.Eventually(t, func() bool {
		return !processRunning(t, pid)
	}, 2*time.Second, 20*time.Millisecond, "descendant %d survived the timeout", pid)
}

func TestExecute_DetachedDescendantDoesNotBlock(t *testing.T) {
	runner := New(zerolog.Nop(), WithWaitDelay(200*time.Millisecond))

	start := time.Now()
	result, err := runner.Execute(context.Background(), Request{
		Binary:  "sh",
		Args:    []string{"-c", "echo started; sleep 30 &"},
		Timeout: 10 * time.Second,
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "started\n", result.Stdout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecute_FailedExitKillsDescendants(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "pid")
	runner := New(zerolog.Nop(), WithWaitDelay(200*time.Millisecond))

	start := time.Now()
	result, err := runner.Execute(context.Background(), Request{
		Binary:  "sh",
		Args:    []string{"-c", `sleep 30 & echo $! > "$1"; exit 1`, "sh", pidFile},
		Timeout: 10 * time.Second,
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 1, result.ExitCode)
	assert.Less(t, time.Since(start), 5*time.Second)
	pid := readPID(t, pidFile)
	assert.Eventually(t, func() bool {
		return !processRunning(t, pid)
	}, 2*time.Second, 20*time.Millisecond, "descendant %d survived a failed exit", pid)
}

func TestExecute_SuccessfulExitKillsDescendants(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "pid")
	runner := New(zerolog.Nop(), WithWaitDelay(200*time.Millisecond))

	result, err := runner.Execute(context.Background(), Request{
		Binary:  "sh",
		Args:    []string{"-c", `sleep 30 & echo $! > "$1"`, "sh", pidFile},
		Timeout: 10 * time.Second,
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	pid := readPID(t, pidFile)
	assert.Eventually(t, func() bool {
		return !processRunning(t, pid)
	}, 2*time.Second, 20*time.Millisecond, "descendant %d survived a clean exit", pid)
}

func TestExecute_SignalIsReported(t *testing.T) {
	runner := New(zerolog.Nop())

	result, err := runner.Execute(context.Background(), Request{
		Binary:  "sh",
		Args:    []string{"-c", "kill -TERM $$"},
		Timeout: 5 * time.Second,
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, -1, result.ExitCode)
	assert.Equal(t, "terminated", result.Signal)
	assert.Equal(t, "signal terminated", result.ExitStatus())
}
