package registry

import "time"

var catalog = []ToolDescriptor{
	// Network reconnaissance
	{ID: "whois", Binary: "whois", Description: "Lookup domain registration information", Category: CategoryNetworkRecon, DefaultTimeout: 5 * time.Minute},
	{ID: "dig", Binary: "dig", Description: "DNS lookup utility", Category: CategoryNetworkRecon, DefaultTimeout: 5 * time.Minute},
	{ID: "dnsenum", Binary: "dnsenum", Description: "DNS enumeration tool", Category: CategoryNetworkRecon, DefaultTimeout: 10 * time.Minute},
	{ID: "dnsrecon", Binary: "dnsrecon", Description: "DNS reconnaissance tool", Category: CategoryNetworkRecon, DefaultTimeout: 10 * time.Minute},
	{ID: "nmap", Binary: "nmap", Description: "Network discovery and security auditing tool", Category: CategoryNetworkRecon, DefaultTimeout: 30 * time.Minute},
	{ID: "masscan", Binary: "masscan", Description: "Mass IP port scanner", Category: CategoryNetworkRecon, DefaultTimeout: 30 * time.Minute},
	{ID: "unicornscan", Binary: "unicornscan", Description: "Asynchronous network stimulus delivery engine", Category: CategoryNetworkRecon, DefaultTimeout: 30 * time.Minute},
	{ID: "zmap", Binary: "zmap", Description: "Fast Internet-wide network scanner", Category: CategoryNetworkRecon, DefaultTimeout: time.Hour},
	{ID: "ike-scan", Binary: "ike-scan", Description: "IKE/IPsec VPN scanner", Category: CategoryNetworkRecon, DefaultTimeout: 10 * time.Minute},

	// Subdomain enumeration
	{ID: "theharvester", Binary: "theHarvester", Description: "Email, subdomain and people names harvester", Category: CategorySubdomainEnum, DefaultTimeout: 30 * time.Minute},
	{ID: "sublist3r", Binary: "sublist3r", Description: "Subdomain enumeration tool", Category: CategorySubdomainEnum, DefaultTimeout: 30 * time.Minute},
	{ID: "amass", Binary: "amass", Description: "Attack surface mapping and asset discovery", Category: CategorySubdomainEnum, DefaultTimeout: time.Hour},

	// Web analysis
	{ID: "whatweb", Binary: "whatweb", Description: "Web application fingerprinting tool", Category: CategoryWebAnalysis, DefaultTimeout: 5 * time.Minute},
	{ID: "wafw00f", Binary: "wafw00f", Description: "Web Application Firewall detection tool", Category: CategoryWebAnalysis, DefaultTimeout: 5 * time.Minute},
	{ID: "dirb", Binary: "dirb", Description: "Web content scanner", Category: CategoryWebAnalysis, DefaultTimeout: 30 * time.Minute},
	{ID: "gobuster", Binary: "gobuster", Description: "Directory/file, DNS and vhost busting tool", Category: CategoryWebAnalysis, DefaultTimeout: 30 * time.Minute},
	{ID: "feroxbuster", Binary: "feroxbuster", Description: "Fast, simple, recursive content discovery tool", Category: CategoryWebAnalysis, DefaultTimeout: 30 * time.Minute},
	{ID: "nikto", Binary: "nikto", Description: "Web server scanner", Category: CategoryWebAnalysis, DefaultTimeout: 30 * time.Minute},
	{ID: "wfuzz", Binary: "wfuzz", Description: "Web application fuzzer", Category: CategoryWebAnalysis, DefaultTimeout: 30 * time.Minute},
	{ID: "arachni", Binary: "arachni", Description: "Web application security scanner framework", Category: CategoryWebAnalysis, DefaultTimeout: time.Hour},

	// Service enumeration
	{ID: "enum4linux", Binary: "enum4linux", Description: "SMB enumeration tool", Category: CategoryEnumeration, DefaultTimeout: 10 * time.Minute},
	{ID: "enum4linux-ng", Binary: "enum4linux-ng", Description: "Next generation SMB enumeration tool", Category: CategoryEnumeration, DefaultTimeout: 10 * time.Minute},
	{ID: "smbmap", Binary: "smbmap", Description: "SMB share enumeration tool", Category: CategoryEnumeration, DefaultTimeout: 5 * time.Minute},
	{ID: "rpcclient", Binary: "rpcclient", Description: "RPC client for SMB enumeration", Category: CategoryEnumeration, DefaultTimeout: 5 * time.Minute},
	{ID: "snmpwalk", Binary: "snmpwalk", Description: "SNMP enumeration tool", Category: CategoryEnumeration, DefaultTimeout: 10 * time.Minute},
	{ID: "ldapsearch", Binary: "ldapsearch", Description: "LDAP search tool", Category: CategoryEnumeration, DefaultTimeout: 10 * time.Minute},

	// SSL/TLS and general network utilities
	{ID: "sslscan", Binary: "sslscan", Description: "SSL/TLS scanner", Category: CategorySSLNetwork, DefaultTimeout: 5 * time.Minute},
	{ID: "sslyze", Binary: "sslyze", Description: "Fast and powerful SSL/TLS scanner", Category: CategorySSLNetwork, DefaultTimeout: 5 * time.Minute},
	{ID: "netcat", Binary: "nc", Description: "Network utility for reading/writing network connections", Category: CategorySSLNetwork, DefaultTimeout: 5 * time.Minute},
	{ID: "curl", Binary: "curl", Description: "Command line tool for transferring data", Category: CategorySSLNetwork, DefaultTimeout: 5 * time.Minute},
	{ID: "wget", Binary: "wget", Description: "Network downloader", Category: CategorySSLNetwork, DefaultTimeout: 30 * time.Minute},

	// Wireless
	{ID: "airmon-ng", Binary: "airmon-ng", Description: "Wireless interface monitor mode enabler", Category: CategoryWireless, DefaultTimeout: time.Minute},
	{ID: "airodump-ng", Binary: "airodump-ng", Description: "Wireless packet capture tool", Category: CategoryWireless, DefaultTimeout: 5 * time.Minute},
	{ID: "wash", Binary: "wash", Description: "WPS scanner", Category: CategoryWireless, DefaultTimeout: 5 * time.Minute},
	{ID: "kismet", Binary: "kismet", Description: "Wireless network detector and IDS", Category: CategoryWireless, DefaultTimeout: time.Hour},
	{ID: "bettercap", Binary: "bettercap", Description: "Network attack and monitoring framework", Category: CategoryWireless, DefaultTimeout: time.Minute},

	// OSINT
	{ID: "shodan", Binary: "shodan", Description: "Shodan search engine for Internet-connected devices", Category: CategoryOSINT, DefaultTimeout: 5 * time.Minute},
	{ID: "recon-ng", Binary: "recon-ng", Description: "Full-featured reconnaissance framework", Category: CategoryOSINT, DefaultTimeout: 10 * time.Minute},
	{ID: "metagoofil", Binary: "metagoofil", Description: "Metadata extraction tool", Category: CategoryOSINT, DefaultTimeout: 30 * time.Minute},
	{ID: "maltego", Binary: "maltego", Description: "Link analysis and data mining application", Category: CategoryOSINT, DefaultTimeout: 5 * time.Minute},
}
