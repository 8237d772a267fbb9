package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Settings string `name:"config" help:"Path to appsettings.json." type:"path"`
	Color    string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON     bool   `help:"JSON output to stdout; disables colors."`
	Plain    bool   `help:"TSV output to stdout; disables colors."`
	Verbose  bool   `help:"Enable debug logging and mirror the run log to stderr."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version VersionCmd `cmd:"" help:"Print version."`
	Config  ConfigCmd  `cmd:"" help:"Manage settings."`
	Check   CheckCmd   `cmd:"" default:"1" help:"Validate the fixture job ad and the not-found response."`
	Proxies ProxiesCmd `cmd:"" help:"Proxy utilities."`
}

func NewCLI() *CLI {
	return &CLI{}
}
