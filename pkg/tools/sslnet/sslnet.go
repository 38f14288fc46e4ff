// Package sslnet adapts the TLS scanners and general network utilities:
// sslscan, sslyze, netcat, curl and wget.
package sslnet

import (
	"net"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
	"github.com/tb0hdan/kali-mcp/pkg/tools"
)

const (
	defaultTLSPort       = 443
	defaultNetcatTimeout = 5
	defaultSpiderDepth   = 2
)

type SSLScanInput struct {
	tools.Page
	Target          string `json:"target" jsonschema:"host name or address" validate:"required,noflag,safearg,max=255"`
	Port            int    `json:"port,omitempty" jsonschema:"TLS port (default 443)" validate:"min=0,max=65535"`
	ShowCertificate bool   `json:"show_certificate,omitempty" jsonschema:"print the full server certificate"`
}

type SSLyzeInput struct {
	tools.Page
	Target string `json:"target" jsonschema:"host name or address" validate:"required,noflag,safearg,max=255"`
	Port   int    `json:"port,omitempty" jsonschema:"TLS port (default 443)" validate:"min=0,max=65535"`
	// ScanCommands are sslyze plugin names, passed as --<name>.
	ScanCommands []string `json:"scan_commands,omitempty" jsonschema:"sslyze scan commands such as certinfo or heartbleed; the regular set when empty" validate:"max=32,dive,oneof=regular certinfo compression reneg resum heartbleed openssl_ccs robot fallback early_data elliptic_curves http_headers sslv2 sslv3 tlsv1 tlsv1_1 tlsv1_2 tlsv1_3"`
}

type NetcatScanInput struct {
	tools.Page
	Target    string `json:"target" jsonschema:"host name or address" validate:"required,noflag,safearg,max=255"`
	PortRange string `json:"port_range" jsonschema:"port or range, e.g. 20-25" validate:"required,portlist"`
	Timeout   int    `json:"timeout,omitempty" jsonschema:"per-connection timeout in seconds (default 5)" validate:"min=0,max=60"`
}

type NetcatBannerInput struct {
	tools.Page
	Target  string `json:"target" jsonschema:"host name or address" validate:"required,noflag,safearg,max=255"`
	Port    int    `json:"port" jsonschema:"port to connect to" validate:"required,min=1,max=65535"`
	Timeout int    `json:"timeout,omitempty" jsonschema:"connection timeout in seconds (default 5)" validate:"min=0,max=60"`
}

type NetcatListenInput struct {
	tools.Page
	Port int `json:"port" jsonschema:"local port to listen on" validate:"required,min=1,max=65535"`
	// Verbose defaults to true.
	Verbose *bool `json:"verbose,omitempty" jsonschema:"verbose output (default true)"`
	// Duration bounds how long the listener stays up.
	Duration int `json:"duration,omitempty" jsonschema:"seconds to listen before stopping (default: the tool timeout of one hour)" validate:"min=0,max=3600"`
}

type CurlInput struct {
	tools.Page
	URL     string            `json:"url" jsonschema:"request URL" validate:"required,url,noflag,safearg"`
	Method  string            `json:"method,omitempty" jsonschema:"HTTP method (default GET)" validate:"omitempty,oneof=GET POST PUT PATCH DELETE HEAD OPTIONS"`
	Headers map[string]string `json:"headers,omitempty" jsonschema:"request headers" validate:"max=64,dive,keys,required,printascii,excludes=:,endkeys,safearg"`
	Data    string            `json:"data,omitempty" jsonschema:"request body, sent for POST, PUT and PATCH only" validate:"max=65536"`
	// FollowRedirects defaults to true.
	FollowRedirects *bool `json:"follow_redirects,omitempty" jsonschema:"follow redirects (default true)"`
}

type CurlCertInput struct {
	tools.Page
	URL string `json:"url" jsonschema:"https URL" validate:"required,url,noflag,safearg"`
}

type WgetDownloadInput struct {
	tools.Page
	URL       string `json:"url" jsonschema:"file URL" validate:"required,url,noflag,safearg"`
	OutputDir string `json:"output_dir,omitempty" jsonschema:"directory to save into" validate:"omitempty,noflag,safearg"`
	UserAgent string `json:"user_agent,omitempty" jsonschema:"User-Agent header" validate:"omitempty,safearg,max=512"`
}

type WgetSpiderInput struct {
	tools.Page
	URL      string `json:"url" jsonschema:"start URL" validate:"required,url,noflag,safearg"`
	MaxDepth int    `json:"max_depth,omitempty" jsonschema:"recursion depth (default 2)" validate:"min=0,max=10"`
}

func hostPort(host string, port int) string {
	if port == 0 {
		port = defaultTLSPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func buildSSLScan(in SSLScanInput) (tools.Command, error) {
	target := hostPort(in.Target, in.Port)
	args := []string{target}
	if in.ShowCertificate {
		args = append(args, "--show-certificate")
	}
	return tools.Command{Args: args, Subject: target}, nil
}

func buildSSLyze(in SSLyzeInput) (tools.Command, error) {
	target := hostPort(in.Target, in.Port)
	args := []string{target}
	if len(in.ScanCommands) == 0 {
		args = append(args, "--regular")
	}
	for _, command := range in.ScanCommands {
		args = append(args, "--"+command)
	}
	return tools.Command{Args: args, Subject: target}, nil
}

func timeoutSeconds(value int) string {
	if value == 0 {
		value = defaultNetcatTimeout
	}
	return strconv.Itoa(value)
}

func buildNetcatScan(in NetcatScanInput) (tools.Command, error) {
	return tools.Command{
		Args:    []string{"-z", "-v", "-w", timeoutSeconds(in.Timeout), in.Target, in.PortRange},
		Subject: in.Target,
	}, nil
}

func buildNetcatBanner(in NetcatBannerInput) (tools.Command, error) {
	port := strconv.Itoa(in.Port)
	return tools.Command{
		Args:    []string{"-v", "-w", timeoutSeconds(in.Timeout), in.Target, port},
		Subject: net.JoinHostPort(in.Target, port),
	}, nil
}

func buildNetcatListen(in NetcatListenInput) (tools.Command, error) {
	args := []string{"-l"}
	if in.Verbose == nil || *in.Verbose {
		args = append(args, "-v")
	}
	args = append(args, "-p", strconv.Itoa(in.Port))
	return tools.Command{
		Args:    args,
		Subject: "port " + strconv.Itoa(in.Port),
		Timeout: time.Duration(in.Duration) * time.Second,
	}, nil
}

var bodyMethods = map[string]bool{"POST": true, "PUT": true, "PATCH": true}

func buildCurl(in CurlInput) (tools.Command, error) {
	method := in.Method
	if method == "" {
		method = "GET"
	}
	if in.Data != "" && !bodyMethods[method] {
		return tools.Command{}, toolerr.Invalidf("data is only sent with POST, PUT or PATCH, not %s", method)
	}

	args := []string{"-i"}
	if in.FollowRedirects == nil || *in.FollowRedirects {
		args = append(args, "-L")
	}
	args = append(args, "-X", method)

	names := make([]string, 0, len(in.Headers))
	for name := range in.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		args = append(args, "-H", name+": "+in.Headers[name])
	}

	if in.Data != "" {
		args = append(args, "-d", in.Data)
	}
	args = append(args, in.URL)
	return tools.Command{Args: args, Subject: method + " " + in.URL}, nil
}

func buildCurlCert(in CurlCertInput) (tools.Command, error) {
	return tools.Command{Args: []string{"-I", "--cert-status", in.URL}, Subject: in.URL}, nil
}

func buildWgetDownload(in WgetDownloadInput) (tools.Command, error) {
	args := []string{"--no-check-certificate"}
	if in.OutputDir != "" {
		args = append(args, "-P", in.OutputDir)
	}
	if in.UserAgent != "" {
		args = append(args, "--user-agent", in.UserAgent)
	}
	args = append(args, in.URL)
	return tools.Command{Args: args, Subject: in.URL}, nil
}

func buildWgetSpider(in WgetSpiderInput) (tools.Command, error) {
	depth := in.MaxDepth
	if depth == 0 {
		depth = defaultSpiderDepth
	}
	return tools.Command{
		Args:    []string{"--spider", "--recursive", "--level=" + strconv.Itoa(depth), "--no-parent", in.URL},
		Subject: in.URL,
	}, nil
}

func Operations(logger zerolog.Logger) []tools.Tool {
	return []tools.Tool{
		tools.NewOperation(logger, tools.Operation[SSLScanInput]{
			Name:        "sslscan_scan",
			Tool:        "sslscan",
			Title:       "SSLScan Result",
			Description: "Enumerate supported TLS protocols and ciphers with sslscan.",
			Build:       buildSSLScan,
		}),
		tools.NewOperation(logger, tools.Operation[SSLyzeInput]{
			Name:        "sslyze_scan",
			Tool:        "sslyze",
			Title:       "SSLyze Result",
			Description: "Analyse a TLS server configuration with sslyze.",
			Build:       buildSSLyze,
		}),
		tools.NewOperation(logger, tools.Operation[NetcatScanInput]{
			Name:        "netcat_port_scan",
			Tool:        "netcat",
			Title:       "Netcat Port Scan Result",
			Description: "Check which TCP ports accept connections with nc -z.",
			Build:       buildNetcatScan,
		}),
		tools.NewOperation(logger, tools.Operation[NetcatBannerInput]{
			Name:        "netcat_banner_grab",
			Tool:        "netcat",
			Title:       "Netcat Banner Grab Result",
			Description: "Connect to a port and print the service banner.",
			Timeout:     time.Minute,
			Build:       buildNetcatBanner,
		}),
		tools.NewOperation(logger, tools.Operation[NetcatListenInput]{
			Name:        "netcat_listen",
			Tool:        "netcat",
			Title:       "Netcat Listener Result",
			Description: "Listen on a local port and return whatever was received when the connection closes or the duration elapses.",
			Timeout:     time.Hour,
			Build:       buildNetcatListen,
		}),
		tools.NewOperation(logger, tools.Operation[CurlInput]{
			Name:        "curl_request",
			Tool:        "curl",
			Title:       "cURL Response",
			Description: "Send an HTTP request with curl and return the response headers and body.",
			Build:       buildCurl,
		}),
		tools.NewOperation(logger, tools.Operation[CurlCertInput]{
			Name:        "curl_check_ssl_cert",
			Tool:        "curl",
			Title:       "cURL Certificate Check",
			Description: "Fetch response headers while checking the server certificate status.",
			Timeout:     time.Minute,
			Build:       buildCurlCert,
		}),
		tools.NewOperation(logger, tools.Operation[WgetDownloadInput]{
			Name:        "wget_download",
			Tool:        "wget",
			Title:       "Wget Download Result",
			Description: "Download a file with wget.",
			Build:       buildWgetDownload,
		}),
		tools.NewOperation(logger, tools.Operation[WgetSpiderInput]{
			Name:        "wget_spider",
			Tool:        "wget",
			Title:       "Wget Spider Result",
			Description: "Crawl a site without downloading it to discover links.",
			Build:       buildWgetSpider,
		}),
	}
}
