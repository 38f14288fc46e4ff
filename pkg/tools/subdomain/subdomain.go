// Package subdomain adapts the subdomain and email harvesting tools:
// theHarvester, sublist3r and amass.
package subdomain

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/tools"
)

const (
	defaultSources          = "all"
	defaultHarvesterLimit   = 500
	defaultSublist3rThreads = 40
)

type HarvestEmailsInput struct {
	tools.Page
	Domain  string `json:"domain" jsonschema:"domain to harvest" validate:"required,fqdn"`
	Sources string `json:"sources,omitempty" jsonschema:"comma separated data sources (default all)" validate:"omitempty,noflag,safearg,max=512"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of results per source (default 500)" validate:"min=0,max=10000"`
}

type HarvestSubdomainsInput struct {
	tools.Page
	Domain  string `json:"domain" jsonschema:"domain to harvest" validate:"required,fqdn"`
	Sources string `json:"sources,omitempty" jsonschema:"comma separated data sources (default all)" validate:"omitempty,noflag,safearg,max=512"`
}

type Sublist3rInput struct {
	tools.Page
	Domain     string `json:"domain" jsonschema:"domain to enumerate" validate:"required,fqdn"`
	Bruteforce bool   `json:"bruteforce,omitempty" jsonschema:"enable the subbrute brute-force module"`
	Threads    int    `json:"threads,omitempty" jsonschema:"brute-force threads (default 40)" validate:"min=0,max=200"`
}

type AmassEnumInput struct {
	tools.Page
	Domain  string `json:"domain" jsonschema:"domain to enumerate" validate:"required,fqdn"`
	Passive bool   `json:"passive,omitempty" jsonschema:"passive sources only"`
	Active  bool   `json:"active,omitempty" jsonschema:"enable active techniques such as zone transfers"`
}

type AmassIntelInput struct {
	tools.Page
	Domain string `json:"domain" jsonschema:"domain to gather intelligence on" validate:"required,fqdn"`
}

func sources(in string) string {
	if in == "" {
		return defaultSources
	}
	return in
}

func buildHarvestEmails(in HarvestEmailsInput) (tools.Command, error) {
	limit := in.Limit
	if limit == 0 {
		limit = defaultHarvesterLimit
	}
	return tools.Command{
		Args:    []string{"-d", in.Domain, "-b", sources(in.Sources), "-l", strconv.Itoa(limit)},
		Subject: in.Domain,
	}, nil
}

func buildHarvestSubdomains(in HarvestSubdomainsInput) (tools.Command, error) {
	return tools.Command{
		Args:    []string{"-d", in.Domain, "-b", sources(in.Sources), "-f", "subdomains"},
		Subject: in.Domain,
	}, nil
}

func buildSublist3r(in Sublist3rInput) (tools.Command, error) {
	threads := in.Threads
	if threads == 0 {
		threads = defaultSublist3rThreads
	}
	args := []string{"-d", in.Domain, "-t", strconv.Itoa(threads)}
	if in.Bruteforce {
		args = append(args, "-b")
	}
	return tools.Command{Args: args, Subject: in.Domain}, nil
}

func buildAmassEnum(in AmassEnumInput) (tools.Command, error) {
	args := []string{"enum"}
	switch {
	case in.Passive:
		args = append(args, "-passive")
	case in.Active:
		args = append(args, "-active")
	}
	args = append(args, "-d", in.Domain)
	return tools.Command{Args: args, Subject: in.Domain}, nil
}

func buildAmassIntel(in AmassIntelInput) (tools.Command, error) {
	return tools.Command{Args: []string{"intel", "-d", in.Domain}, Subject: in.Domain}, nil
}

func Operations(logger zerolog.Logger) []tools.Tool {
	return []tools.Tool{
		tools.NewOperation(logger, tools.Operation[HarvestEmailsInput]{
			Name:        "theharvester_emails",
			Tool:        "theharvester",
			Title:       "TheHarvester Email Result",
			Description: "Harvest email addresses, hosts and names for a domain from public sources.",
			Build:       buildHarvestEmails,
		}),
		tools.NewOperation(logger, tools.Operation[HarvestSubdomainsInput]{
			Name:        "theharvester_subdomains",
			Tool:        "theharvester",
			Title:       "TheHarvester Subdomain Result",
			Description: "Harvest subdomains of a domain from public sources.",
			Build:       buildHarvestSubdomains,
		}),
		tools.NewOperation(logger, tools.Operation[Sublist3rInput]{
			Name:        "sublist3r_enumerate",
			Tool:        "sublist3r",
			Title:       "Sublist3r Enumeration Result",
			Description: "Enumerate subdomains with sublist3r, optionally brute-forcing.",
			Build:       buildSublist3r,
		}),
		tools.NewOperation(logger, tools.Operation[AmassEnumInput]{
			Name:        "amass_enum_subdomains",
			Tool:        "amass",
			Title:       "Amass Subdomain Enumeration Result",
			Description: "Enumerate subdomains with amass in default, passive or active mode. Passive wins when both are set.",
			Build:       buildAmassEnum,
		}),
		tools.NewOperation(logger, tools.Operation[AmassIntelInput]{
			Name:        "amass_intel",
			Tool:        "amass",
			Title:       "Amass Intel Result",
			Description: "Collect root domains and ASNs related to a domain with amass intel.",
			Timeout:     30 * time.Minute,
			Build:       buildAmassIntel,
		}),
	}
}
