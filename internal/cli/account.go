package cli

import (
	"github.com/tartampluch/birthdays/internal/api"
	"github.com/tartampluch/birthdays/internal/config"
	urfave "github.com/urfave/cli/v2"
)

func (a *App) loginCommand() *urfave.Command {
	return &urfave.Command{
		Name:  config.CmdLogin,
		Usage: config.UsageLogin,
		Flags: []urfave.Flag{
			&urfave.StringFlag{Name: config.FlagEmail, Usage: config.FlagDescEmail, EnvVars: []string{config.EnvEmail}, Required: true},
			&urfave.StringFlag{Name: config.FlagPassword, Usage: config.FlagDescPassword, EnvVars: []string{config.EnvPassword}, Required: true},
		},
		Action: func(c *urfave.Context) error {
			if err := a.env.auth.Login(c.Context, c.String(config.FlagEmail), c.String(config.FlagPassword)); err != nil {
				return err
			}
			a.say(config.TKeyMsgLoggedIn)
			return nil
		},
	}
}

func (a *App) registerCommand() *urfave.Command {
	return &urfave.Command{
		Name:  config.CmdRegister,
		Usage: config.UsageRegister,
		Flags: []urfave.Flag{
			&urfave.StringFlag{Name: config.FlagName, Usage: config.FlagDescAccountName, Required: true},
			&urfave.StringFlag{Name: config.FlagEmail, Usage: config.FlagDescEmail, EnvVars: []string{config.EnvEmail}, Required: true},
			&urfave.StringFlag{Name: config.FlagPassword, Usage: config.FlagDescPassword, EnvVars: []string{config.EnvPassword}, Required: true},
			&urfave.StringFlag{Name: config.FlagConfirm, Usage: config.FlagDescConfirm, Required: true},
		},
		Action: func(c *urfave.Context) error {
			err := a.env.auth.Register(c.Context, api.Registration{
				Name:                 c.String(config.FlagName),
				Email:                c.String(config.FlagEmail),
				Password:             c.String(config.FlagPassword),
				PasswordConfirmation: c.String(config.FlagConfirm),
			})
			if err != nil {
				return err
			}
			a.say(config.TKeyMsgRegistered)
			return nil
		},
	}
}

func (a *App) logoutCommand() *urfave.Command {
	return &urfave.Command{
		Name:  config.CmdLogout,
		Usage: config.UsageLogout,
		Action: func(c *urfave.Context) error {
			if err := a.env.auth.Logout(c.Context); err != nil {
				return err
			}
			a.say(config.TKeyMsgLoggedOut)
			return nil
		},
	}
}
