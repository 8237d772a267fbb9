package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/jimezsa/jobadcheck/internal/config"
)

type ConfigCmd struct {
	Init InitConfigCmd `cmd:"" help:"Write a default appsettings.json."`
	Path PathConfigCmd `cmd:"" help:"Print the settings file path."`
}

type InitConfigCmd struct{}

type PathConfigCmd struct{}

func (c *InitConfigCmd) Run(ctx *Context) error {
	created, err := config.Init(ctx.ConfigPath)
	if err != nil {
		return err
	}
	if !created {
		ctx.UI.Infof("Settings already exist at %s", ctx.ConfigPath)
		return nil
	}
	ctx.UI.Infof("Created: %s", ctx.ConfigPath)
	return nil
}

func (c *PathConfigCmd) Run(ctx *Context) error {
	path, err := filepath.Abs(ctx.ConfigPath)
	if err != nil {
		path = ctx.ConfigPath
	}
	_, err = fmt.Fprintln(ctx.Out, path)
	return err
}
