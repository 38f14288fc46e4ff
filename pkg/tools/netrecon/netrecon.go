// Package netrecon adapts the network reconnaissance tools: whois, dig,
// dnsenum, dnsrecon, nmap, masscan, unicornscan, zmap and ike-scan.
package netrecon

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/tools"
)

const (
	defaultDNSWordlist      = "/usr/share/dnsenum/dns.txt"
	defaultDNSEnumThreads   = 5
	defaultMasscanRate      = 1000
	defaultZmapRate         = 10000
	defaultNmapScanType     = "-sS"
	defaultDigRecordType    = "A"
	defaultDNSReconScanType = "std"
)

type WhoisInput struct {
	tools.Page
	Domain string `json:"domain" jsonschema:"domain name or IP address to look up" validate:"required,noflag,safearg,max=253"`
}

type DigInput struct {
	tools.Page
	Domain     string `json:"domain" jsonschema:"name to resolve" validate:"required,noflag,safearg,max=253"`
	RecordType string `json:"record_type,omitempty" jsonschema:"DNS record type (default A)" validate:"omitempty,oneof=A AAAA MX NS TXT SOA CNAME PTR SRV CAA DS DNSKEY ANY"`
	DNSServer  string `json:"dns_server,omitempty" jsonschema:"resolver to query instead of the system default" validate:"omitempty,ip|hostname"`
}

type ReverseLookupInput struct {
	tools.Page
	IP string `json:"ip" jsonschema:"IPv4 or IPv6 address" validate:"required,ip"`
}

type DNSEnumInput struct {
	tools.Page
	Domain   string `json:"domain" jsonschema:"domain to enumerate" validate:"required,noflag,safearg,max=253"`
	Wordlist string `json:"wordlist,omitempty" jsonschema:"subdomain wordlist path" validate:"omitempty,noflag,safearg"`
	Threads  int    `json:"threads,omitempty" jsonschema:"number of threads (default 5)" validate:"min=0,max=100"`
}

type DNSReconInput struct {
	tools.Page
	Domain   string `json:"domain" jsonschema:"domain to investigate" validate:"required,noflag,safearg,max=253"`
	ScanType string `json:"scan_type,omitempty" jsonschema:"dnsrecon enumeration type (default std)" validate:"omitempty,oneof=std rvl brt srv axfr bing yand crt snoop tld zonewalk"`
	Wordlist string `json:"wordlist,omitempty" jsonschema:"dictionary for brute force" validate:"omitempty,noflag,safearg"`
}

type NmapPortScanInput struct {
	tools.Page
	Target   string `json:"target" jsonschema:"host, address range or CIDR to scan" validate:"required,noflag,safearg,max=255"`
	Ports    string `json:"ports,omitempty" jsonschema:"ports to scan, e.g. 22,80,443 or 1-1000" validate:"omitempty,portlist"`
	ScanType string `json:"scan_type,omitempty" jsonschema:"nmap scan technique flag (default -sS)" validate:"omitempty,oneof=-sS -sT -sU -sA -sW -sM -sN -sF -sX -sn"`
}

type NmapTargetInput struct {
	tools.Page
	Target string `json:"target" jsonschema:"host, address range or CIDR to scan" validate:"required,noflag,safearg,max=255"`
	Ports  string `json:"ports,omitempty" jsonschema:"ports to scan, e.g. 22,80,443 or 1-1000" validate:"omitempty,portlist"`
}

type NmapOSInput struct {
	tools.Page
	Target string `json:"target" jsonschema:"host, address range or CIDR to scan" validate:"required,noflag,safearg,max=255"`
}

type MasscanInput struct {
	tools.Page
	Target string `json:"target" jsonschema:"address, range or CIDR to scan" validate:"required,noflag,safearg,max=255"`
	Ports  string `json:"ports" jsonschema:"ports to scan, e.g. 80,443 or 0-65535" validate:"required,portlist"`
	Rate   int    `json:"rate,omitempty" jsonschema:"packets per second (default 1000)" validate:"min=0,max=10000000"`
}

type UnicornscanInput struct {
	tools.Page
	Target string `json:"target" jsonschema:"host or CIDR to scan" validate:"required,noflag,safearg,max=255"`
	Ports  string `json:"ports,omitempty" jsonschema:"ports to scan" validate:"omitempty,portlist"`
}

type ZmapInput struct {
	tools.Page
	Target string `json:"target" jsonschema:"CIDR or address to scan" validate:"required,noflag,safearg,max=255"`
	Port   int    `json:"port" jsonschema:"single TCP port to probe" validate:"required,min=1,max=65535"`
	Rate   int    `json:"rate,omitempty" jsonschema:"packets per second (default 10000)" validate:"min=0,max=10000000"`
}

type IkeScanInput struct {
	tools.Page
	Target string `json:"target" jsonschema:"VPN gateway host or address" validate:"required,noflag,safearg,max=255"`
}

func buildWhois(in WhoisInput) (tools.Command, error) {
	return tools.Command{Args: []string{in.Domain}, Subject: in.Domain}, nil
}

func buildDig(in DigInput) (tools.Command, error) {
	recordType := in.RecordType
	if recordType == "" {
		recordType = defaultDigRecordType
	}
	var args []string
	if in.DNSServer != "" {
		args = append(args, "@"+in.DNSServer)
	}
	args = append(args, in.Domain, recordType)
	return tools.Command{Args: args, Subject: in.Domain + " " + recordType}, nil
}

func buildReverseLookup(in ReverseLookupInput) (tools.Command, error) {
	return tools.Command{Args: []string{"-x", in.IP}, Subject: in.IP}, nil
}

func buildDNSEnum(in DNSEnumInput) (tools.Command, error) {
	wordlist := in.Wordlist
	if wordlist == "" {
		wordlist = defaultDNSWordlist
	}
	threads := in.Threads
	if threads == 0 {
		threads = defaultDNSEnumThreads
	}
	return tools.Command{
		Args:    []string{"-f", wordlist, "-t", strconv.Itoa(threads), in.Domain},
		Subject: in.Domain,
	}, nil
}

func buildDNSRecon(in DNSReconInput) (tools.Command, error) {
	scanType := in.ScanType
	if scanType == "" {
		scanType = defaultDNSReconScanType
	}
	args := []string{"-d", in.Domain, "-t", scanType}
	if in.Wordlist != "" {
		args = append(args, "-D", in.Wordlist)
	}
	return tools.Command{Args: args, Subject: in.Domain}, nil
}

func buildNmapPortScan(in NmapPortScanInput) (tools.Command, error) {
	scanType := in.ScanType
	if scanType == "" {
		scanType = defaultNmapScanType
	}
	args := []string{scanType}
	if in.Ports != "" {
		args = append(args, "-p", in.Ports)
	}
	args = append(args, in.Target)
	return tools.Command{Args: args, Subject: in.Target}, nil
}

func nmapWithPorts(flags ...string) func(NmapTargetInput) (tools.Command, error) {
	return func(in NmapTargetInput) (tools.Command, error) {
		args := append([]string{}, flags...)
		if in.Ports != "" {
			args = append(args, "-p", in.Ports)
		}
		args = append(args, in.Target)
		return tools.Command{Args: args, Subject: in.Target}, nil
	}
}

func buildNmapOS(in NmapOSInput) (tools.Command, error) {
	return tools.Command{Args: []string{"-O", in.Target}, Subject: in.Target}, nil
}

func buildMasscan(in MasscanInput) (tools.Command, error) {
	rate := in.Rate
	if rate == 0 {
		rate = defaultMasscanRate
	}
	return tools.Command{
		Args:    []string{in.Target, "-p", in.Ports, "--rate", strconv.Itoa(rate)},
		Subject: in.Target,
	}, nil
}

func unicornscan(mode string) func(UnicornscanInput) (tools.Command, error) {
	return func(in UnicornscanInput) (tools.Command, error) {
		args := []string{mode}
		if in.Ports != "" {
			args = append(args, "-p", in.Ports)
		}
		args = append(args, in.Target)
		return tools.Command{Args: args, Subject: in.Target}, nil
	}
}

func buildZmap(in ZmapInput) (tools.Command, error) {
	rate := in.Rate
	if rate == 0 {
		rate = defaultZmapRate
	}
	return tools.Command{
		Args:    []string{"-p", strconv.Itoa(in.Port), "-r", strconv.Itoa(rate), in.Target},
		Subject: in.Target + " port " + strconv.Itoa(in.Port),
	}, nil
}

func buildIkeScan(in IkeScanInput) (tools.Command, error) {
	return tools.Command{Args: []string{in.Target}, Subject: in.Target}, nil
}

// Operations returns the network reconnaissance MCP tools.
func Operations(logger zerolog.Logger) []tools.Tool {
	return []tools.Tool{
		tools.NewOperation(logger, tools.Operation[WhoisInput]{
			Name:        "whois_lookup",
			Tool:        "whois",
			Title:       "WHOIS Result",
			Description: "Look up domain registration information with whois.",
			Build:       buildWhois,
		}),
		tools.NewOperation(logger, tools.Operation[DigInput]{
			Name:        "dig_dns_lookup",
			Tool:        "dig",
			Title:       "DIG DNS Lookup Result",
			Description: "Resolve DNS records of a given type, optionally against a specific resolver.",
			Build:       buildDig,
		}),
		tools.NewOperation(logger, tools.Operation[ReverseLookupInput]{
			Name:        "dig_reverse_lookup",
			Tool:        "dig",
			Title:       "Reverse DNS Lookup Result",
			Description: "Perform a reverse (PTR) DNS lookup of an IP address.",
			Build:       buildReverseLookup,
		}),
		tools.NewOperation(logger, tools.Operation[DNSEnumInput]{
			Name:        "dnsenum_scan",
			Tool:        "dnsenum",
			Title:       "DNSEnum Result",
			Description: "Enumerate DNS records and brute-force subdomains with dnsenum.",
			Build:       buildDNSEnum,
		}),
		tools.NewOperation(logger, tools.Operation[DNSReconInput]{
			Name:        "dnsrecon_scan",
			Tool:        "dnsrecon",
			Title:       "DNSRecon Result",
			Description: "Run DNS reconnaissance (standard records, zone transfer, brute force and more) with dnsrecon.",
			Build:       buildDNSRecon,
		}),
		tools.NewOperation(logger, tools.Operation[NmapPortScanInput]{
			Name:        "nmap_port_scan",
			Tool:        "nmap",
			Title:       "NMAP Port Scan Result",
			Description: "Scan ports on a target with nmap using the chosen scan technique.",
			Build:       buildNmapPortScan,
		}),
		tools.NewOperation(logger, tools.Operation[NmapTargetInput]{
			Name:        "nmap_service_scan",
			Tool:        "nmap",
			Title:       "NMAP Service Scan Result",
			Description: "Detect service versions on open ports with nmap -sV.",
			Build:       nmapWithPorts("-sV"),
		}),
		tools.NewOperation(logger, tools.Operation[NmapOSInput]{
			Name:        "nmap_os_detection",
			Tool:        "nmap",
			Title:       "NMAP OS Detection Result",
			Description: "Fingerprint the operating system of a target with nmap -O.",
			Build:       buildNmapOS,
		}),
		tools.NewOperation(logger, tools.Operation[NmapTargetInput]{
			Name:        "nmap_vuln_scan",
			Tool:        "nmap",
			Title:       "NMAP Vulnerability Scan Result",
			Description: "Run the nmap NSE vuln script category against a target.",
			Timeout:     time.Hour,
			Build:       nmapWithPorts("--script", "vuln"),
		}),
		tools.NewOperation(logger, tools.Operation[MasscanInput]{
			Name:        "masscan_port_scan",
			Tool:        "masscan",
			Title:       "Masscan Result",
			Description: "High-speed asynchronous port scan with masscan.",
			Build:       buildMasscan,
		}),
		tools.NewOperation(logger, tools.Operation[UnicornscanInput]{
			Name:        "unicornscan_tcp_scan",
			Tool:        "unicornscan",
			Title:       "Unicornscan TCP Scan Result",
			Description: "TCP SYN scan with unicornscan.",
			Build:       unicornscan("-mT"),
		}),
		tools.NewOperation(logger, tools.Operation[UnicornscanInput]{
			Name:        "unicornscan_udp_scan",
			Tool:        "unicornscan",
			Title:       "Unicornscan UDP Scan Result",
			Description: "UDP scan with unicornscan.",
			Build:       unicornscan("-mU"),
		}),
		tools.NewOperation(logger, tools.Operation[ZmapInput]{
			Name:        "zmap_scan_port",
			Tool:        "zmap",
			Title:       "ZMap Result",
			Description: "Probe a single port across a network range with zmap.",
			Build:       buildZmap,
		}),
		tools.NewOperation(logger, tools.Operation[IkeScanInput]{
			Name:        "ike_scan",
			Tool:        "ike-scan",
			Title:       "IKE Scan Result",
			Description: "Discover and fingerprint IKE/IPsec VPN servers with ike-scan.",
			Build:       buildIkeScan,
		}),
	}
}
