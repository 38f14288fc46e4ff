package tools_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/tb0hdan/kali-mcp/pkg/registry"
	"github.com/tb0hdan/kali-mcp/pkg/server"
	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
	"github.com/tb0hdan/kali-mcp/pkg/tools"
	"github.com/tb0hdan/kali-mcp/pkg/tools/toolstest"
)

type echoInput struct {
	tools.Page
	Message string `json:"message" validate:"required,noflag,safearg"`
}

type shellInput struct {
	tools.Page
	Script string `json:"script" validate:"required"`
}

type sleepInput struct {
	tools.Page
	Seconds string `json:"seconds" validate:"required,numeric"`
}

func testRegistry(t testing.TB) *registry.Registry {
	t.Helper()

	reg := registry.New()
	for _, descriptor := range []registry.ToolDescriptor{
		{ID: "echo", Binary: "echo", Description: "print arguments", Category: registry.CategorySSLNetwork, DefaultTimeout: 5 * time.Second},
		{ID: "sh", Binary: "sh", Description: "shell", Category: registry.CategorySSLNetwork, DefaultTimeout: 5 * time.Second},
		{ID: "sleep", Binary: "sleep", Description: "delay", Category: registry.CategorySSLNetwork, DefaultTimeout: 5 * time.Second},
		{ID: "ghost", Binary: "nonexistent-binary-xyz", Description: "missing", Category: registry.CategorySSLNetwork, DefaultTimeout: 5 * time.Second},
	} {
		if err := reg.Register(descriptor); err != nil {
			t.Fatalf("failed to register %s: %v", descriptor.ID, err)
		}
	}
	reg.Seal()
	return reg
}

func testOperations() []tools.Tool {
	logger := zerolog.Nop()
	return []tools.Tool{
		tools.NewOperation(logger, tools.Operation[echoInput]{
			Name:  "echo_message",
			Tool:  "echo",
			Title: "Echo Result",
			Build: func(in echoInput) (tools.Command, error) {
				return tools.Command{Args: []string{in.Message}, Subject: in.Message}, nil
			},
		}),
		tools.NewOperation(logger, tools.Operation[shellInput]{
			Name:  "shell_script",
			Tool:  "sh",
			Title: "Shell Result",
			Build: func(in shellInput) (tools.Command, error) {
				if strings.Contains(in.Script, "forbidden") {
					return tools.Command{}, errors.New("script uses a forbidden word")
				}
				return tools.Command{Args: []string{"-c", in.Script}, Subject: "script"}, nil
			},
		}),
		tools.NewOperation(logger, tools.Operation[sleepInput]{
			Name:    "short_sleep",
			Tool:    "sleep",
			Title:   "Sleep Result",
			Timeout: 300 * time.Millisecond,
			Build: func(in sleepInput) (tools.Command, error) {
				return tools.Command{Args: []string{in.Seconds}}, nil
			},
		}),
		tools.NewOperation(logger, tools.Operation[echoInput]{
			Name:  "ghost_echo",
			Tool:  "ghost",
			Title: "Ghost Result",
			Build: func(in echoInput) (tools.Command, error) {
				return tools.Command{Args: []string{in.Message}}, nil
			},
		}),
	}
}

type OperationTestSuite struct {
	suite.Suite
	srv     *server.Server
	catalog *tools.Catalog
	ctx     context.Context
}

func (s *OperationTestSuite) SetupTest() {
	s.srv = toolstest.NewServerWithRegistry(testRegistry(s.T()))
	s.catalog = tools.NewCatalog(zerolog.Nop())
	s.Require().NoError(s.catalog.Install(s.srv, testOperations()...))
	s.ctx = context.Background()
}

func (s *OperationTestSuite) TestInvoke_Success() {
	text, err := s.catalog.Invoke(s.ctx, "echo_message", map[string]any{"message": "hello"})

	s.Require().NoError(err)
	s.Equal("Echo Result for hello:\nhello", text)
}

func (s *OperationTestSuite) TestInvoke_NonZeroExitIsReported() {
	text, err := s.catalog.Invoke(s.ctx, "shell_script", map[string]any{
		"script": "echo out; echo err >&2; exit 3",
	})

	s.Require().NoError(err)
	s.Equal("Shell Result for script:\n[exit status 3]\nout\n--- stderr ---\nerr", text)
}

func (s *OperationTestSuite) TestInvoke_EmptyStdoutShowsStderr() {
	text, err := s.catalog.Invoke(s.ctx, "shell_script", map[string]any{"script": "echo warning >&2"})

	s.Require().NoError(err)
	s.Equal("Shell Result for script:\n(no output)\n--- stderr ---\nwarning", text)
}

func (s *OperationTestSuite) TestInvoke_StderrHiddenOnSuccess() {
	text, err := s.catalog.Invoke(s.ctx, "shell_script", map[string]any{"script": "echo out; echo noise >&2"})

	s.Require().NoError(err)
	s.Equal("Shell Result for script:\nout", text)
}

func (s *OperationTestSuite) TestInvoke_Paginates() {
	text, err := s.catalog.Invoke(s.ctx, "shell_script", map[string]any{
		"script":    "seq 1 10",
		"max_lines": 3,
		"offset":    2,
	})

	s.Require().NoError(err)
	s.Contains(text, "[Showing lines 3-5 of 10 lines. Use offset parameter to view more.]")
	s.True(strings.HasSuffix(text, "3\n4\n5"), "unexpected page: %q", text)
}

func (s *OperationTestSuite) TestInvoke_ValidationFailure() {
	_, err := s.catalog.Invoke(s.ctx, "echo_message", map[string]any{"message": "--version"})

	s.ErrorIs(err, toolerr.ErrInvalidParameters)
	s.Equal("bad input: validation error: message must not start with '-'", err.Error())
}

func (s *OperationTestSuite) TestInvoke_MissingRequired() {
	_, err := s.catalog.Invoke(s.ctx, "echo_message", nil)

	s.ErrorIs(err, toolerr.ErrInvalidParameters)
	s.Contains(err.Error(), "message is required")
}

func (s *OperationTestSuite) TestInvoke_UnknownParameter() {
	_, err := s.catalog.Invoke(s.ctx, "echo_message", map[string]any{"message": "hi", "bogus": true})

	s.ErrorIs(err, toolerr.ErrInvalidParameters)
	s.Contains(err.Error(), "bogus")
}

func (s *OperationTestSuite) TestInvoke_WrongParameterType() {
	_, err := s.catalog.Invoke(s.ctx, "echo_message", map[string]any{"message": 42})

	s.ErrorIs(err, toolerr.ErrInvalidParameters)
}

func (s *OperationTestSuite) TestInvoke_BuildErrorIsInvalidInput() {
	_, err := s.catalog.Invoke(s.ctx, "shell_script", map[string]any{"script": "forbidden"})

	s.ErrorIs(err, toolerr.ErrInvalidParameters)
	s.Contains(err.Error(), "forbidden word")
}

func (s *OperationTestSuite) TestInvoke_OperationTimeout() {
	start := time.Now()
	_, err := s.catalog.Invoke(s.ctx, "short_sleep", map[string]any{"seconds": "5"})

	s.ErrorIs(err, toolerr.ErrExecutionTimeout)
	s.Less(time.Since(start), 3*time.Second)
}

func (s *OperationTestSuite) TestInvoke_ToolMissing() {
	_, err := s.catalog.Invoke(s.ctx, "ghost_echo", map[string]any{"message": "hi"})

	s.ErrorIs(err, toolerr.ErrToolUnavailable)
	s.True(strings.HasPrefix(err.Error(), "tool missing:"), err.Error())
}

func (s *OperationTestSuite) TestInvoke_Canceled() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.catalog.Invoke(ctx, "echo_message", map[string]any{"message": "hi"})

	s.ErrorIs(err, toolerr.ErrCanceled)
}

func (s *OperationTestSuite) TestInvoke_UnregisteredOperation() {
	op := tools.NewOperation(zerolog.Nop(), tools.Operation[echoInput]{
		Name:  "loose",
		Tool:  "echo",
		Build: func(echoInput) (tools.Command, error) { return tools.Command{}, nil },
	})

	_, err := op.Invoke(s.ctx, map[string]any{"message": "hi"})

	s.ErrorContains(err, "not registered")
}

func (s *OperationTestSuite) TestHandle_OverMCP() {
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.srv.Connect(s.ctx, serverTransport, nil)
	s.Require().NoError(err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.0"}, nil)
	session, err := client.Connect(s.ctx, clientTransport, nil)
	s.Require().NoError(err)
	defer session.Close()

	result, err := session.CallTool(s.ctx, &mcp.CallToolParams{
		Name:      "echo_message",
		Arguments: map[string]any{"message": "over the wire"},
	})
	s.Require().NoError(err)
	s.False(result.IsError)
	s.Require().Len(result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	s.Require().True(ok)
	s.Equal("Echo Result for over the wire:\nover the wire", text.Text)

	result, err = session.CallTool(s.ctx, &mcp.CallToolParams{
		Name:      "ghost_echo",
		Arguments: map[string]any{"message": "hi"},
	})
	s.Require().NoError(err)
	s.True(result.IsError)
}

func TestOperationTestSuite(t *testing.T) {
	suite.Run(t, new(OperationTestSuite))
}
