package cli

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/prefs"
	urfave "github.com/urfave/cli/v2"
)

// settingsCommand prints all settings, one setting, or stores a new value.
func (a *App) settingsCommand() *urfave.Command {
	return &urfave.Command{
		Name:      config.CmdSettings,
		Usage:     config.UsageSettings,
		ArgsUsage: config.ArgsSettings,
		Action: func(c *urfave.Context) error {
			if err := argCount(c, 0, 2); err != nil {
				return err
			}
			p := a.env.prefs
			args := c.Args()

			switch args.Len() {
			case 0:
				return a.printSettings(p)
			case 1:
				v, err := p.Get(args.Get(0))
				if err != nil {
					return err
				}
				fmt.Fprintln(a.Out, v)
				return nil
			}

			if err := p.Set(args.Get(0), args.Get(1)); err != nil {
				return err
			}
			if err := prefs.Save(a.env.rt.PrefsPath(), p); err != nil {
				return err
			}
			slog.Info(config.MsgPrefsSaved,
				config.LogKeyComponent, config.CompCLI,
				config.LogKeyKey, args.Get(0),
			)
			return a.printSettings(p)
		},
	}
}

func (a *App) versionCommand() *urfave.Command {
	return &urfave.Command{
		Name:  config.CmdVersion,
		Usage: config.UsageVersion,
		Action: func(*urfave.Context) error {
			_, err := fmt.Fprintf(a.Out, config.MsgVersionOutput,
				config.AppName,
				config.Version,
				config.Commit,
				config.Date,
				runtime.GOOS,
				runtime.GOARCH,
			)
			return err
		},
	}
}
