package cmd

import (
	"io"

	"github.com/jimezsa/jobadcheck/internal/config"
	"github.com/jimezsa/jobadcheck/internal/jobad"
	"github.com/jimezsa/jobadcheck/internal/ui"
	"github.com/rs/zerolog"
)

type Context struct {
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Settings   config.Settings
	ConfigPath string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode

	// Client overrides the network client, e.g. in tests.
	Client jobad.Doer
}
