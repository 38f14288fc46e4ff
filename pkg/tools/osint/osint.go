// Package osint adapts the open source intelligence tools: the shodan CLI,
// recon-ng, metagoofil and maltego. Shodan and recon-ng use whatever API keys
// are already configured for the user running the server.
package osint

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/tools"
)

const (
	defaultShodanLimit    = 100
	defaultMetagoofilDir  = "/tmp/metagoofil"
	defaultMetagoofilHits = 100
	defaultEntityType     = "maltego.Domain"
	defaultExportFormat   = "csv"
	metagoofilReport      = "results.html"
)

var defaultFileTypes = []string{"pdf", "doc", "xls", "ppt", "odp", "ods", "docx", "xlsx", "pptx"}

type ShodanSearchInput struct {
	tools.Page
	Query string `json:"query" jsonschema:"Shodan search query, e.g. apache country:DE" validate:"required,noflag,safearg,max=1024"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum results (default 100)" validate:"min=0,max=1000"`
}

type ShodanHostInput struct {
	tools.Page
	IP string `json:"ip" jsonschema:"host IP address" validate:"required,ip"`
}

type ShodanCountInput struct {
	tools.Page
	Query string `json:"query" jsonschema:"Shodan search query" validate:"required,noflag,safearg,max=1024"`
}

// ReconNGModuleInput values end up in a ';' separated recon-ng command
// script, so none of them may contain a semicolon.
type ReconNGModuleInput struct {
	tools.Page
	Module  string            `json:"module" jsonschema:"module path, e.g. recon/domains-hosts/hackertarget" validate:"required,noflag,safearg,excludes=;,max=256"`
	Options map[string]string `json:"options,omitempty" jsonschema:"module options, e.g. SOURCE" validate:"max=32,dive,keys,ident,endkeys,required,safearg,excludes=;"`
}

type ReconNGListInput struct {
	tools.Page
}

type MetagoofilInput struct {
	tools.Page
	Domain      string   `json:"domain" jsonschema:"domain to search" validate:"required,fqdn"`
	FileTypes   []string `json:"file_types,omitempty" jsonschema:"document extensions (default pdf,doc,xls,ppt,odp,ods,docx,xlsx,pptx)" validate:"max=20,dive,alphanum,max=8"`
	Limit       int      `json:"limit,omitempty" jsonschema:"results per file type (default 100)" validate:"min=0,max=1000"`
	DownloadDir string   `json:"download_dir,omitempty" jsonschema:"where documents are saved (default /tmp/metagoofil)" validate:"omitempty,noflag,safearg"`
}

type MaltegoTransformInput struct {
	tools.Page
	Transform   string `json:"transform_name" jsonschema:"transform to run" validate:"required,noflag,safearg,max=256"`
	EntityValue string `json:"entity_value" jsonschema:"value of the input entity" validate:"required,noflag,safearg,max=1024"`
	EntityType  string `json:"entity_type,omitempty" jsonschema:"entity type (default maltego.Domain)" validate:"omitempty,noflag,safearg,max=256"`
}

type MaltegoExportInput struct {
	tools.Page
	GraphFile string `json:"graph_file" jsonschema:"graph file to export" validate:"required,noflag,safearg"`
	Format    string `json:"output_format,omitempty" jsonschema:"export format (default csv)" validate:"omitempty,oneof=csv graphml xlsx"`
}

func buildShodanSearch(in ShodanSearchInput) (tools.Command, error) {
	limit := in.Limit
	if limit == 0 {
		limit = defaultShodanLimit
	}
	return tools.Command{Args: []string{"search", "--limit", strconv.Itoa(limit), in.Query}, Subject: in.Query}, nil
}

func buildShodanHost(in ShodanHostInput) (tools.Command, error) {
	return tools.Command{Args: []string{"host", in.IP}, Subject: in.IP}, nil
}

func buildShodanCount(in ShodanCountInput) (tools.Command, error) {
	return tools.Command{Args: []string{"count", in.Query}, Subject: in.Query}, nil
}

func buildReconNGModule(in ReconNGModuleInput) (tools.Command, error) {
	commands := []string{"modules load " + in.Module}

	keys := make([]string, 0, len(in.Options))
	for key := range in.Options {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		commands = append(commands, "options set "+key+" "+in.Options[key])
	}

	commands = append(commands, "run")
	return tools.Command{Args: []string{"-x", strings.Join(commands, "; ")}, Subject: in.Module}, nil
}

func buildReconNGList(ReconNGListInput) (tools.Command, error) {
	return tools.Command{Args: []string{"-x", "modules search"}, Subject: "available modules"}, nil
}

func buildMetagoofil(in MetagoofilInput) (tools.Command, error) {
	fileTypes := in.FileTypes
	if len(fileTypes) == 0 {
		fileTypes = defaultFileTypes
	}
	limit := in.Limit
	if limit == 0 {
		limit = defaultMetagoofilHits
	}
	dir := in.DownloadDir
	if dir == "" {
		dir = defaultMetagoofilDir
	}
	return tools.Command{
		Args: []string{
			"-d", in.Domain, "-t", strings.Join(fileTypes, ","), "-l", strconv.Itoa(limit),
			"-o", dir, "-f", metagoofilReport,
		},
		Subject: in.Domain,
	}, nil
}

func buildMaltegoTransform(in MaltegoTransformInput) (tools.Command, error) {
	entityType := in.EntityType
	if entityType == "" {
		entityType = defaultEntityType
	}
	return tools.Command{
		Args:    []string{"--transform", in.Transform, "--entity", in.EntityValue, "--type", entityType},
		Subject: in.EntityValue,
	}, nil
}

func buildMaltegoExport(in MaltegoExportInput) (tools.Command, error) {
	format := in.Format
	if format == "" {
		format = defaultExportFormat
	}
	return tools.Command{Args: []string{"--export", in.GraphFile, "--format", format}, Subject: in.GraphFile}, nil
}

func Operations(logger zerolog.Logger) []tools.Tool {
	return []tools.Tool{
		tools.NewOperation(logger, tools.Operation[ShodanSearchInput]{
			Name:        "shodan_search",
			Tool:        "shodan",
			Title:       "Shodan Search Result",
			Description: "Search Shodan for Internet-connected hosts.",
			Build:       buildShodanSearch,
		}),
		tools.NewOperation(logger, tools.Operation[ShodanHostInput]{
			Name:        "shodan_host",
			Tool:        "shodan",
			Title:       "Shodan Host Information",
			Description: "Show what Shodan knows about one IP address.",
			Timeout:     time.Minute,
			Build:       buildShodanHost,
		}),
		tools.NewOperation(logger, tools.Operation[ShodanCountInput]{
			Name:        "shodan_count",
			Tool:        "shodan",
			Title:       "Shodan Result Count",
			Description: "Count Shodan results for a query without using query credits.",
			Timeout:     time.Minute,
			Build:       buildShodanCount,
		}),
		tools.NewOperation(logger, tools.Operation[ReconNGModuleInput]{
			Name:        "recon_ng_run_module",
			Tool:        "recon-ng",
			Title:       "Recon-ng Module Result",
			Description: "Load a recon-ng module, set its options and run it.",
			Build:       buildReconNGModule,
		}),
		tools.NewOperation(logger, tools.Operation[ReconNGListInput]{
			Name:        "recon_ng_list_modules",
			Tool:        "recon-ng",
			Title:       "Recon-ng Modules",
			Description: "List installed recon-ng modules.",
			Timeout:     time.Minute,
			Build:       buildReconNGList,
		}),
		tools.NewOperation(logger, tools.Operation[MetagoofilInput]{
			Name:        "metagoofil_extract",
			Tool:        "metagoofil",
			Title:       "Metagoofil Result",
			Description: "Find public documents for a domain and extract their metadata.",
			Build:       buildMetagoofil,
		}),
		tools.NewOperation(logger, tools.Operation[MaltegoTransformInput]{
			Name:        "maltego_transform",
			Tool:        "maltego",
			Title:       "Maltego Transform Result",
			Description: "Run a Maltego transform on a single entity.",
			Build:       buildMaltegoTransform,
		}),
		tools.NewOperation(logger, tools.Operation[MaltegoExportInput]{
			Name:        "maltego_export_graph",
			Tool:        "maltego",
			Title:       "Maltego Graph Export",
			Description: "Export a Maltego graph file.",
			Timeout:     2 * time.Minute,
			Build:       buildMaltegoExport,
		}),
	}
}
