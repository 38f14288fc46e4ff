package sweep

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
	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
	"github.com/tb0hdan/kali-mcp/pkg/tools"
	"github.com/tb0hdan/kali-mcp/pkg/tools/toolstest"
)

// stepInput accepts the parameters of every step so one fake operation type
// can stand in for all of them.
type stepInput struct {
	tools.Page
	Domain string `json:"domain,omitempty"`
	URL    string `json:"url,omitempty"`
	Target string `json:"target,omitempty"`
	Port   int    `json:"port,omitempty"`
}

func fakeStep(name, toolID, script string) tools.Tool {
	return tools.NewOperation(zerolog.Nop(), tools.Operation[stepInput]{
		Name:  name,
		Tool:  toolID,
		Title: name,
		Build: func(in stepInput) (tools.Command, error) {
			if script == "" {
				return tools.Command{}, errors.New("refused")
			}
			return tools.Command{
				Args: []string{"-c", script, "sh", in.Domain + in.URL + in.Target},
			}, nil
		},
	})
}

func sweepRegistry(t testing.TB) *registry.Registry {
	t.Helper()

	reg := registry.New()
	for _, descriptor := range []registry.ToolDescriptor{
		{ID: "sh", Binary: "sh", DefaultTimeout: 5 * time.Second},
		{ID: "ghost", Binary: "nonexistent-binary-xyz", DefaultTimeout: 5 * time.Second},
	} {
		if err := reg.Register(descriptor); err != nil {
			t.Fatalf("failed to register %s: %v", descriptor.ID, err)
		}
	}
	reg.Seal()
	return reg
}

type SweepTestSuite struct {
	suite.Suite
	catalog *tools.Catalog
	tool    *Tool
	ctx     context.Context
}

func (s *SweepTestSuite) install(steps ...tools.Tool) {
	srv := toolstest.NewServerWithRegistry(sweepRegistry(s.T()))
	s.catalog = tools.NewCatalog(zerolog.Nop())
	s.Require().NoError(s.catalog.Install(srv, steps...))

	s.tool = New(zerolog.Nop(), s.catalog, 5).(*Tool)
	s.tool.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	s.Require().NoError(s.tool.Register(srv))
}

func (s *SweepTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.install(
		fakeStep("whois_lookup", "sh", `echo "registrar for $1"`),
		fakeStep("dig_dns_lookup", "sh", `echo "A record for $1"`),
		fakeStep("whatweb_analyze", "sh", `echo "fingerprint $1"`),
		fakeStep("wafw00f_detect", "sh", `echo "waf check $1"`),
		fakeStep("sslscan_scan", "sh", `echo "tls $1"`),
	)
}

func (s *SweepTestSuite) text(input Input) string {
	result, _, err := s.tool.SweepHandler(s.ctx, nil, input)
	s.Require().NoError(err)
	s.Require().Len(result.Content, 1)
	content, ok := result.Content[0].(*mcp.TextContent)
	s.Require().True(ok)
	return content.Text
}

func (s *SweepTestSuite) TestAllStepsSucceed() {
	text := s.text(Input{Target: "example.com", Page: tools.Page{MaxLines: 1000}})

	s.Contains(text, "RECON SWEEP REPORT")
	s.Contains(text, "Target: example.com")
	s.Contains(text, "Date: Fri, 02 Jan 2026 03:04:05 UTC")
	s.Contains(text, "Total steps: 5 | Successful: 5 | Failed: 0 | Skipped: 0")
	s.Contains(text, "registrar for example.com")
	s.Contains(text, "fingerprint http://example.com/")
	s.Contains(text, "tls example.com")
	s.Contains(text, "END OF REPORT")
}

func (s *SweepTestSuite) TestReportKeepsStepOrder() {
	text := s.text(Input{Target: "example.com", Page: tools.Page{MaxLines: 1000}})

	previous := -1
	for _, st := range steps {
		idx := strings.Index(text, strings.ToUpper(st.operation)+" RESULTS")
		s.Require().GreaterOrEqual(idx, 0, "missing section for %s", st.operation)
		s.Greater(idx, previous, "section for %s out of order", st.operation)
		previous = idx
	}
}

func (s *SweepTestSuite) TestSelectedSteps() {
	text := s.text(Input{Target: "example.com", Steps: []string{"sslscan_scan", "whois_lookup"}, HTTPS: true})

	s.Contains(text, "Total steps: 2 | Successful: 2")
	s.Contains(text, "WHOIS_LOOKUP RESULTS")
	s.Contains(text, "SSLSCAN_SCAN RESULTS")
	s.NotContains(text, "WHATWEB_ANALYZE")
}

func (s *SweepTestSuite) TestHTTPSAndIPv6Target() {
	text := s.text(Input{Target: "2001:db8::1", Steps: []string{"whatweb_analyze"}, HTTPS: true})

	s.Contains(text, "fingerprint https://[2001:db8::1]/")
}

func (s *SweepTestSuite) TestMissingStepsAreSkipped() {
	s.install(
		fakeStep("whois_lookup", "sh", `echo ok`),
		fakeStep("dig_dns_lookup", "ghost", `echo never`),
		fakeStep("whatweb_analyze", "sh", ""),
	)

	text := s.text(Input{Target: "example.com", Page: tools.Page{MaxLines: 1000}})

	s.Contains(text, "Total steps: 5 | Successful: 1 | Failed: 1 | Skipped: 3")
	s.Contains(text, "SKIPPED: tool missing: nonexistent-binary-xyz not found or not executable")
	s.Contains(text, "SKIPPED: operation is not installed on this server")
	s.Contains(text, "ERROR: bad input: refused")
}

func (s *SweepTestSuite) TestStepsRunConcurrently() {
	s.install(
		fakeStep("whois_lookup", "sh", `sleep 0.3`),
		fakeStep("dig_dns_lookup", "sh", `sleep 0.3`),
		fakeStep("whatweb_analyze", "sh", `sleep 0.3`),
		fakeStep("wafw00f_detect", "sh", `sleep 0.3`),
		fakeStep("sslscan_scan", "sh", `sleep 0.3`),
	)

	start := time.Now()
	text := s.text(Input{Target: "example.com"})

	s.Contains(text, "Successful: 5")
	s.Less(time.Since(start), 1200*time.Millisecond)
}

func (s *SweepTestSuite) TestPagination() {
	text := s.text(Input{Target: "example.com", Page: tools.Page{MaxLines: 5}})

	s.True(strings.HasPrefix(text, "[Showing lines 1-5 of "), text)
}

func (s *SweepTestSuite) TestValidation() {
	for name, input := range map[string]Input{
		"missing target": {},
		"flag target":    {Target: "-oN"},
		"unknown step":   {Target: "example.com", Steps: []string{"nmap_vuln_scan"}},
		"bad port":       {Target: "example.com", TLSPort: 99999},
	} {
		_, _, err := s.tool.SweepHandler(s.ctx, nil, input)
		s.ErrorIs(err, toolerr.ErrInvalidParameters, name)
	}
}

func (s *SweepTestSuite) TestCanceled() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, _, err := s.tool.SweepHandler(ctx, nil, Input{Target: "example.com"})

	s.ErrorIs(err, toolerr.ErrCanceled)
}

func TestSweepTestSuite(t *testing.T) {
	suite.Run(t, new(SweepTestSuite))
}

func TestSelectSteps(t *testing.T) {
	if got := selectSteps(nil); len(got) != len(steps) {
		t.Errorf("expected all %d steps, got %d", len(steps), len(got))
	}

	got := selectSteps([]string{"sslscan_scan", "dig_dns_lookup", "sslscan_scan"})
	if len(got) != 2 || got[0].operation != "dig_dns_lookup" || got[1].operation != "sslscan_scan" {
		t.Errorf("unexpected selection: %+v", got)
	}
}
