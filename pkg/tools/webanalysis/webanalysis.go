// Package webanalysis adapts the web application tools: whatweb, wafw00f,
// dirb, gobuster, feroxbuster, nikto, wfuzz and arachni.
package webanalysis

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
	"github.com/tb0hdan/kali-mcp/pkg/tools"
)

const (
	// DirbWordlist ships with dirb; the other tools use the Kali wordlists copy.
	DirbWordlist    = "/usr/share/dirb/wordlists/common.txt"
	DefaultWordlist = "/usr/share/wordlists/dirb/common.txt"

	fuzzMarker = "FUZZ"

	defaultGobusterThreads    = 10
	defaultFeroxbusterThreads = 50
)

type WhatwebInput struct {
	tools.Page
	URL        string `json:"url" jsonschema:"target URL" validate:"required,url,noflag,safearg"`
	Aggression int    `json:"aggression,omitempty" jsonschema:"aggression level 1 (stealthy) to 4 (heavy), default 1" validate:"min=0,max=4"`
}

type Wafw00fInput struct {
	tools.Page
	URL string `json:"url" jsonschema:"target URL" validate:"required,url,noflag,safearg"`
}

type DirbInput struct {
	tools.Page
	URL        string `json:"url" jsonschema:"base URL to scan" validate:"required,url,noflag,safearg"`
	Wordlist   string `json:"wordlist,omitempty" jsonschema:"wordlist path (default dirb common.txt)" validate:"omitempty,noflag,safearg"`
	Extensions string `json:"extensions,omitempty" jsonschema:"extensions to append, e.g. .php,.bak" validate:"omitempty,noflag,safearg,max=256"`
}

type GobusterDirInput struct {
	tools.Page
	URL        string `json:"url" jsonschema:"base URL to scan" validate:"required,url,noflag,safearg"`
	Wordlist   string `json:"wordlist,omitempty" jsonschema:"wordlist path" validate:"omitempty,noflag,safearg"`
	Extensions string `json:"extensions,omitempty" jsonschema:"file extensions to search for, e.g. php,txt" validate:"omitempty,noflag,safearg,max=256"`
	Threads    int    `json:"threads,omitempty" jsonschema:"concurrent threads (default 10)" validate:"min=0,max=200"`
}

type GobusterDNSInput struct {
	tools.Page
	Domain   string `json:"domain" jsonschema:"domain to brute-force subdomains of" validate:"required,fqdn"`
	Wordlist string `json:"wordlist,omitempty" jsonschema:"wordlist path" validate:"omitempty,noflag,safearg"`
	Threads  int    `json:"threads,omitempty" jsonschema:"concurrent threads (default 10)" validate:"min=0,max=200"`
}

type GobusterVhostInput struct {
	tools.Page
	URL      string `json:"url" jsonschema:"base URL to scan" validate:"required,url,noflag,safearg"`
	Wordlist string `json:"wordlist,omitempty" jsonschema:"wordlist path" validate:"omitempty,noflag,safearg"`
	Threads  int    `json:"threads,omitempty" jsonschema:"concurrent threads (default 10)" validate:"min=0,max=200"`
}

type FeroxbusterInput struct {
	tools.Page
	URL        string `json:"url" jsonschema:"base URL to scan" validate:"required,url,noflag,safearg"`
	Wordlist   string `json:"wordlist,omitempty" jsonschema:"wordlist path (feroxbuster default when empty)" validate:"omitempty,noflag,safearg"`
	Extensions string `json:"extensions,omitempty" jsonschema:"file extensions, e.g. php,txt" validate:"omitempty,noflag,safearg,max=256"`
	Threads    int    `json:"threads,omitempty" jsonschema:"concurrent threads (default 50)" validate:"min=0,max=500"`
}

type NiktoInput struct {
	tools.Page
	Host string `json:"host" jsonschema:"host name, address or URL to scan" validate:"required,noflag,safearg,max=2048"`
	Port int    `json:"port,omitempty" jsonschema:"port to scan (nikto default 80)" validate:"min=0,max=65535"`
	SSL  bool   `json:"ssl,omitempty" jsonschema:"force SSL mode"`
}

type WfuzzDirInput struct {
	tools.Page
	URL       string `json:"url" jsonschema:"URL to fuzz; FUZZ marks the injection point, /FUZZ is appended when absent" validate:"required,url,noflag,safearg"`
	Wordlist  string `json:"wordlist,omitempty" jsonschema:"wordlist path" validate:"omitempty,noflag,safearg"`
	HideCodes string `json:"hide_codes,omitempty" jsonschema:"HTTP status codes to hide, e.g. 404,403" validate:"omitempty,numlist"`
}

type WfuzzParamInput struct {
	tools.Page
	URL      string `json:"url" jsonschema:"URL containing the FUZZ marker, e.g. http://host/page?id=FUZZ" validate:"required,url,noflag,safearg"`
	Wordlist string `json:"wordlist,omitempty" jsonschema:"wordlist path" validate:"omitempty,noflag,safearg"`
	Method   string `json:"method,omitempty" jsonschema:"HTTP method (default GET)" validate:"omitempty,oneof=GET POST PUT DELETE PATCH HEAD OPTIONS"`
}

type ArachniInput struct {
	tools.Page
	URL          string `json:"url" jsonschema:"target URL" validate:"required,url,noflag,safearg"`
	ScopeInclude string `json:"scope_include,omitempty" jsonschema:"only follow paths matching this pattern" validate:"omitempty,noflag,safearg,max=512"`
	ScopeExclude string `json:"scope_exclude,omitempty" jsonschema:"skip paths matching this pattern" validate:"omitempty,noflag,safearg,max=512"`
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func threads(value, fallback int) string {
	if value == 0 {
		value = fallback
	}
	return strconv.Itoa(value)
}

func buildWhatweb(in WhatwebInput) (tools.Command, error) {
	aggression := in.Aggression
	if aggression == 0 {
		aggression = 1
	}
	return tools.Command{
		Args:    []string{"-a", strconv.Itoa(aggression), "--format", "brief", in.URL},
		Subject: in.URL,
	}, nil
}

func buildWafw00f(in Wafw00fInput) (tools.Command, error) {
	return tools.Command{Args: []string{in.URL}, Subject: in.URL}, nil
}

func buildDirb(in DirbInput) (tools.Command, error) {
	args := []string{in.URL, orDefault(in.Wordlist, DirbWordlist)}
	if in.Extensions != "" {
		args = append(args, "-X", in.Extensions)
	}
	return tools.Command{Args: args, Subject: in.URL}, nil
}

func buildGobusterDir(in GobusterDirInput) (tools.Command, error) {
	args := []string{
		"dir", "-u", in.URL,
		"-t", threads(in.Threads, defaultGobusterThreads),
		"-w", orDefault(in.Wordlist, DefaultWordlist),
	}
	if in.Extensions != "" {
		args = append(args, "-x", in.Extensions)
	}
	return tools.Command{Args: args, Subject: in.URL}, nil
}

func buildGobusterDNS(in GobusterDNSInput) (tools.Command, error) {
	return tools.Command{
		Args: []string{
			"dns", "-d", in.Domain,
			"-t", threads(in.Threads, defaultGobusterThreads),
			"-w", orDefault(in.Wordlist, DefaultWordlist),
		},
		Subject: in.Domain,
	}, nil
}

func buildGobusterVhost(in GobusterVhostInput) (tools.Command, error) {
	return tools.Command{
		Args: []string{
			"vhost", "-u", in.URL,
			"-t", threads(in.Threads, defaultGobusterThreads),
			"-w", orDefault(in.Wordlist, DefaultWordlist),
		},
		Subject: in.URL,
	}, nil
}

func buildFeroxbuster(in FeroxbusterInput) (tools.Command, error) {
	args := []string{"-u", in.URL, "-t", threads(in.Threads, defaultFeroxbusterThreads)}
	if in.Wordlist != "" {
		args = append(args, "-w", in.Wordlist)
	}
	if in.Extensions != "" {
		args = append(args, "-x", in.Extensions)
	}
	return tools.Command{Args: args, Subject: in.URL}, nil
}

func buildNikto(in NiktoInput) (tools.Command, error) {
	args := []string{"-h", in.Host}
	subject := in.Host
	if in.Port != 0 {
		args = append(args, "-p", strconv.Itoa(in.Port))
		subject += ":" + strconv.Itoa(in.Port)
	}
	if in.SSL {
		args = append(args, "-ssl")
	}
	return tools.Command{Args: args, Subject: subject}, nil
}

// fuzzTarget returns url with the FUZZ marker, appending /FUZZ when missing.
func fuzzTarget(url string) string {
	if strings.Contains(url, fuzzMarker) {
		return url
	}
	return strings.TrimRight(url, "/") + "/" + fuzzMarker
}

func buildWfuzzDirectories(in WfuzzDirInput) (tools.Command, error) {
	args := []string{"-c"}
	if in.HideCodes != "" {
		args = append(args, "--hc", in.HideCodes)
	}
	args = append(args, "-w", orDefault(in.Wordlist, DefaultWordlist), fuzzTarget(in.URL))
	return tools.Command{Args: args, Subject: in.URL}, nil
}

func buildWfuzzParameters(in WfuzzParamInput) (tools.Command, error) {
	if !strings.Contains(in.URL, fuzzMarker) {
		return tools.Command{}, toolerr.Invalidf("url must contain the %s marker", fuzzMarker)
	}
	return tools.Command{
		Args:    []string{"-c", "-X", orDefault(in.Method, "GET"), "-w", orDefault(in.Wordlist, DefaultWordlist), in.URL},
		Subject: in.URL,
	}, nil
}

func buildArachni(in ArachniInput) (tools.Command, error) {
	args := []string{in.URL}
	if in.ScopeInclude != "" {
		args = append(args, "--scope-include-pattern", in.ScopeInclude)
	}
	if in.ScopeExclude != "" {
		args = append(args, "--scope-exclude-pattern", in.ScopeExclude)
	}
	return tools.Command{Args: args, Subject: in.URL}, nil
}

func Operations(logger zerolog.Logger) []tools.Tool {
	return []tools.Tool{
		tools.NewOperation(logger, tools.Operation[WhatwebInput]{
			Name:        "whatweb_analyze",
			Tool:        "whatweb",
			Title:       "WhatWeb Analysis Result",
			Description: "Fingerprint the technology stack of a website with whatweb.",
			Build:       buildWhatweb,
		}),
		tools.NewOperation(logger, tools.Operation[Wafw00fInput]{
			Name:        "wafw00f_detect",
			Tool:        "wafw00f",
			Title:       "WAFW00F Detection Result",
			Description: "Detect a web application firewall in front of a website.",
			Build:       buildWafw00f,
		}),
		tools.NewOperation(logger, tools.Operation[DirbInput]{
			Name:        "dirb_scan",
			Tool:        "dirb",
			Title:       "DIRB Scan Result",
			Description: "Brute-force web content paths with dirb.",
			Build:       buildDirb,
		}),
		tools.NewOperation(logger, tools.Operation[GobusterDirInput]{
			Name:        "gobuster_dir_scan",
			Tool:        "gobuster",
			Title:       "Gobuster Directory Scan Result",
			Description: "Brute-force directories and files with gobuster dir.",
			Build:       buildGobusterDir,
		}),
		tools.NewOperation(logger, tools.Operation[GobusterDNSInput]{
			Name:        "gobuster_dns_scan",
			Tool:        "gobuster",
			Title:       "Gobuster DNS Scan Result",
			Description: "Brute-force subdomains with gobuster dns.",
			Build:       buildGobusterDNS,
		}),
		tools.NewOperation(logger, tools.Operation[GobusterVhostInput]{
			Name:        "gobuster_vhost_scan",
			Tool:        "gobuster",
			Title:       "Gobuster VHost Scan Result",
			Description: "Brute-force virtual host names with gobuster vhost.",
			Build:       buildGobusterVhost,
		}),
		tools.NewOperation(logger, tools.Operation[FeroxbusterInput]{
			Name:        "feroxbuster_scan",
			Tool:        "feroxbuster",
			Title:       "Feroxbuster Scan Result",
			Description: "Recursive content discovery with feroxbuster.",
			Build:       buildFeroxbuster,
		}),
		tools.NewOperation(logger, tools.Operation[NiktoInput]{
			Name:        "nikto_scan",
			Tool:        "nikto",
			Title:       "Nikto Scan Result",
			Description: "Scan a web server for dangerous files, outdated software and misconfigurations with nikto.",
			Build:       buildNikto,
		}),
		tools.NewOperation(logger, tools.Operation[WfuzzDirInput]{
			Name:        "wfuzz_fuzz_directories",
			Tool:        "wfuzz",
			Title:       "Wfuzz Directory Fuzzing Result",
			Description: "Fuzz URL paths with wfuzz.",
			Build:       buildWfuzzDirectories,
		}),
		tools.NewOperation(logger, tools.Operation[WfuzzParamInput]{
			Name:        "wfuzz_fuzz_parameters",
			Tool:        "wfuzz",
			Title:       "Wfuzz Parameter Fuzzing Result",
			Description: "Fuzz request parameters with wfuzz; the URL must carry the FUZZ marker.",
			Build:       buildWfuzzParameters,
		}),
		tools.NewOperation(logger, tools.Operation[ArachniInput]{
			Name:        "arachni_scan",
			Tool:        "arachni",
			Title:       "Arachni Scan Result",
			Description: "Run a full web application security scan with arachni.",
			Build:       buildArachni,
		}),
	}
}
