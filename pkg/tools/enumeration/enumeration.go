// Package enumeration adapts the SMB, RPC, SNMP and LDAP enumeration tools.
package enumeration

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/tb0hdan/kali-mcp/pkg/tools"
)

const (
	defaultCommunity   = "public"
	defaultSNMPVersion = "2c"
	defaultLDAPFilter  = "(objectClass=*)"
)

// SMBInput is shared by the enum4linux variants. Credentials are only used
// when both are given.
type SMBInput struct {
	tools.Page
	Target   string `json:"target" jsonschema:"host name or address of the SMB server" validate:"required,noflag,safearg,max=255"`
	Username string `json:"username,omitempty" jsonschema:"user name; requires password" validate:"required_with=Password,noflag,safearg,max=256"`
	Password string `json:"password,omitempty" jsonschema:"password; requires username" validate:"required_with=Username,safearg,max=256"`
}

type SmbmapSharesInput struct {
	tools.Page
	Host     string `json:"host" jsonschema:"host name or address of the SMB server" validate:"required,noflag,safearg,max=255"`
	Username string `json:"username,omitempty" jsonschema:"user name" validate:"omitempty,noflag,safearg,max=256"`
	Password string `json:"password,omitempty" jsonschema:"password or NTLM hash" validate:"omitempty,safearg,max=256"`
}

type SmbmapFilesInput struct {
	tools.Page
	Host     string `json:"host" jsonschema:"host name or address of the SMB server" validate:"required,noflag,safearg,max=255"`
	Share    string `json:"share" jsonschema:"share to list recursively" validate:"required,noflag,safearg,max=256"`
	Username string `json:"username,omitempty" jsonschema:"user name" validate:"omitempty,noflag,safearg,max=256"`
	Password string `json:"password,omitempty" jsonschema:"password or NTLM hash" validate:"omitempty,safearg,max=256"`
}

type RPCInput struct {
	tools.Page
	Target   string `json:"target" jsonschema:"host name or address of the server" validate:"required,noflag,safearg,max=255"`
	Username string `json:"username,omitempty" jsonschema:"user name; anonymous null session when empty" validate:"required_with=Password,noflag,safearg,max=256"`
	Password string `json:"password,omitempty" jsonschema:"password; requires username" validate:"required_with=Username,safearg,max=256"`
}

type SNMPWalkInput struct {
	tools.Page
	Target    string `json:"target" jsonschema:"SNMP agent host or address" validate:"required,noflag,safearg,max=255"`
	Community string `json:"community,omitempty" jsonschema:"community string (default public)" validate:"omitempty,noflag,safearg,max=256"`
	Version   string `json:"version,omitempty" jsonschema:"SNMP version: 1 or 2c (default 2c)" validate:"omitempty,oneof=1 2c"`
	OID       string `json:"oid,omitempty" jsonschema:"subtree to walk, e.g. 1.3.6.1.2.1.1" validate:"omitempty,noflag,safearg,max=256"`
}

type LDAPSearchInput struct {
	tools.Page
	Host     string `json:"host" jsonschema:"LDAP server host[:port]" validate:"required,noflag,safearg,max=255"`
	BaseDN   string `json:"base_dn" jsonschema:"search base, e.g. dc=example,dc=com" validate:"required,noflag,safearg,max=1024"`
	Filter   string `json:"filter,omitempty" jsonschema:"LDAP filter (default (objectClass=*))" validate:"omitempty,noflag,safearg,max=1024"`
	BindDN   string `json:"bind_dn,omitempty" jsonschema:"bind DN for simple authentication" validate:"omitempty,noflag,safearg,max=1024"`
	Password string `json:"password,omitempty" jsonschema:"bind password" validate:"omitempty,safearg,max=256"`
}

func secrets(values ...string) []string {
	var out []string
	for _, value := range values {
		if value != "" {
			out = append(out, value)
		}
	}
	return out
}

func enum4linux(allFlag string) func(SMBInput) (tools.Command, error) {
	return func(in SMBInput) (tools.Command, error) {
		args := []string{allFlag, in.Target}
		if in.Username != "" && in.Password != "" {
			args = append(args, "-u", in.Username, "-p", in.Password)
		}
		return tools.Command{Args: args, Subject: in.Target, Secrets: secrets(in.Password)}, nil
	}
}

func smbmapCredentials(args []string, username, password string) []string {
	if username != "" {
		args = append(args, "-u", username)
	}
	if password != "" {
		args = append(args, "-p", password)
	}
	return args
}

func buildSmbmapShares(in SmbmapSharesInput) (tools.Command, error) {
	return tools.Command{
		Args:    smbmapCredentials([]string{"-H", in.Host}, in.Username, in.Password),
		Subject: in.Host,
		Secrets: secrets(in.Password),
	}, nil
}

func buildSmbmapFiles(in SmbmapFilesInput) (tools.Command, error) {
	return tools.Command{
		Args:    smbmapCredentials([]string{"-H", in.Host, "-s", in.Share, "-R"}, in.Username, in.Password),
		Subject: in.Host + "/" + in.Share,
		Secrets: secrets(in.Password),
	}, nil
}

// rpcclient runs a single command. Without credentials it opens an anonymous
// null session: an empty user name plus -N.
func rpcclient(command string) func(RPCInput) (tools.Command, error) {
	return func(in RPCInput) (tools.Command, error) {
		var args []string
		if in.Username != "" && in.Password != "" {
			args = []string{"-U", in.Username + "%" + in.Password}
		} else {
			args = []string{"-U", "", "-N"}
		}
		args = append(args, "-c", command, in.Target)
		return tools.Command{Args: args, Subject: in.Target, Secrets: secrets(in.Password)}, nil
	}
}

func buildSNMPWalk(in SNMPWalkInput) (tools.Command, error) {
	community := in.Community
	var masked []string
	if community == "" {
		community = defaultCommunity
	} else if community != defaultCommunity {
		masked = []string{community}
	}
	version := in.Version
	if version == "" {
		version = defaultSNMPVersion
	}
	args := []string{"-v", version, "-c", community, in.Target}
	if in.OID != "" {
		args = append(args, in.OID)
	}
	return tools.Command{Args: args, Subject: in.Target, Secrets: masked}, nil
}

func buildLDAPSearch(in LDAPSearchInput) (tools.Command, error) {
	filter := in.Filter
	if filter == "" {
		filter = defaultLDAPFilter
	}
	args := []string{"-x", "-H", "ldap://" + in.Host, "-b", in.BaseDN, filter}
	if in.BindDN != "" {
		args = append(args, "-D", in.BindDN)
	}
	if in.Password != "" {
		args = append(args, "-w", in.Password)
	}
	return tools.Command{Args: args, Subject: in.Host, Secrets: secrets(in.Password)}, nil
}

func Operations(logger zerolog.Logger) []tools.Tool {
	return []tools.Tool{
		tools.NewOperation(logger, tools.Operation[SMBInput]{
			Name:        "enum4linux_scan",
			Tool:        "enum4linux",
			Title:       "Enum4linux SMB Enumeration Result",
			Description: "Enumerate users, shares, groups and policies of an SMB host with enum4linux -a.",
			Build:       enum4linux("-a"),
		}),
		tools.NewOperation(logger, tools.Operation[SMBInput]{
			Name:        "enum4linux_ng_scan",
			Tool:        "enum4linux-ng",
			Title:       "Enum4linux-ng SMB Enumeration Result",
			Description: "Enumerate an SMB host with enum4linux-ng -A.",
			Build:       enum4linux("-A"),
		}),
		tools.NewOperation(logger, tools.Operation[SmbmapSharesInput]{
			Name:        "smbmap_shares",
			Tool:        "smbmap",
			Title:       "SMBMap Shares Result",
			Description: "List SMB shares and their permissions with smbmap.",
			Build:       buildSmbmapShares,
		}),
		tools.NewOperation(logger, tools.Operation[SmbmapFilesInput]{
			Name:        "smbmap_list_files",
			Tool:        "smbmap",
			Title:       "SMBMap File Listing Result",
			Description: "Recursively list the files of one SMB share with smbmap.",
			Timeout:     10 * time.Minute,
			Build:       buildSmbmapFiles,
		}),
		tools.NewOperation(logger, tools.Operation[RPCInput]{
			Name:        "rpcclient_enum_users",
			Tool:        "rpcclient",
			Title:       "RPCClient User Enumeration Result",
			Description: "Enumerate domain users over MS-RPC, anonymously unless credentials are given.",
			Build:       rpcclient("enumdomusers"),
		}),
		tools.NewOperation(logger, tools.Operation[RPCInput]{
			Name:        "rpcclient_enum_groups",
			Tool:        "rpcclient",
			Title:       "RPCClient Group Enumeration Result",
			Description: "Enumerate domain groups over MS-RPC, anonymously unless credentials are given.",
			Build:       rpcclient("enumdomgroups"),
		}),
		tools.NewOperation(logger, tools.Operation[SNMPWalkInput]{
			Name:        "snmpwalk_walk",
			Tool:        "snmpwalk",
			Title:       "SNMPWalk Result",
			Description: "Walk the SNMP MIB tree of an agent.",
			Build:       buildSNMPWalk,
		}),
		tools.NewOperation(logger, tools.Operation[LDAPSearchInput]{
			Name:        "ldapsearch_search",
			Tool:        "ldapsearch",
			Title:       "LDAP Search Result",
			Description: "Query an LDAP directory with simple authentication or anonymously.",
			Build:       buildLDAPSearch,
		}),
	}
}
