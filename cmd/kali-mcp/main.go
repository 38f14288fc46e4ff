package main

import (
	_ "embed"
	"os"
	"strings"
	"time"
)

const (
	ServerName      = "kali-mcp"
	ServiceName     = "Kali Linux Security Tools MCP Server"
	ShutdownTimeout = 10 * time.Second
)

//go:embed VERSION
var Version string

func version() string {
	return strings.TrimSpace(Version)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
