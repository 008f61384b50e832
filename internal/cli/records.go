package cli

import (
	"strings"

	"github.com/tartampluch/birthdays/internal/codec"
	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/model"
	urfave "github.com/urfave/cli/v2"
)

func (a *App) listCommand() *urfave.Command {
	return &urfave.Command{
		Name:  config.CmdList,
		Usage: config.UsageList,
		Action: func(c *urfave.Context) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			records, err := a.env.store.List(c.Context)
			if err != nil {
				return err
			}
			return a.printRecords(records)
		},
	}
}

func (a *App) showCommand() *urfave.Command {
	return &urfave.Command{
		Name:      config.CmdShow,
		Usage:     config.UsageShow,
		ArgsUsage: config.ArgsID,
		Action: func(c *urfave.Context) error {
			if err := argCount(c, 1, 1); err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			r, err := a.env.store.Get(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			return a.printRecord(r)
		},
	}
}

func (a *App) addCommand() *urfave.Command {
	return &urfave.Command{
		Name:  config.CmdAdd,
		Usage: config.UsageAdd,
		Flags: draftFlags(),
		Action: func(c *urfave.Context) error {
			if err := argCount(c, 0, 0); err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			var d model.Draft
			if err := applyDraftFlags(c, &d); err != nil {
				return err
			}
			r, err := a.env.store.Create(c.Context, d)
			if err != nil {
				return err
			}
			a.say(config.TKeyMsgSaved)
			return a.printRecord(r)
		},
	}
}

// editCommand prefills the draft from the server record so unspecified
// fields keep their current value.
func (a *App) editCommand() *urfave.Command {
	return &urfave.Command{
		Name:      config.CmdEdit,
		Usage:     config.UsageEdit,
		ArgsUsage: config.ArgsID,
		Flags:     draftFlags(),
		Action: func(c *urfave.Context) error {
			if err := argCount(c, 1, 1); err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			id := c.Args().First()
			current, err := a.env.store.Get(c.Context, id)
			if err != nil {
				return err
			}
			d := current.Draft()
			if err := applyDraftFlags(c, &d); err != nil {
				return err
			}
			r, err := a.env.store.Update(c.Context, id, d)
			if err != nil {
				return err
			}
			a.say(config.TKeyMsgUpdated)
			return a.printRecord(r)
		},
	}
}

func (a *App) deleteCommand() *urfave.Command {
	return &urfave.Command{
		Name:      config.CmdDelete,
		Usage:     config.UsageDelete,
		ArgsUsage: config.ArgsID,
		Action: func(c *urfave.Context) error {
			if err := argCount(c, 1, 1); err != nil {
				return err
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.env.store.Remove(c.Context, c.Args().First()); err != nil {
				return err
			}
			a.say(config.TKeyMsgDeleted)
			return nil
		},
	}
}

func draftFlags() []urfave.Flag {
	return []urfave.Flag{
		&urfave.StringFlag{Name: config.FlagName, Usage: config.FlagDescName},
		&urfave.StringFlag{Name: config.FlagDate, Usage: config.FlagDescDate},
		&urfave.StringFlag{Name: config.FlagRelationship, Usage: config.FlagDescRelationship},
		&urfave.StringFlag{Name: config.FlagPhone, Usage: config.FlagDescPhone},
		&urfave.StringFlag{Name: config.FlagEmail, Usage: config.FlagDescContactEmail},
		&urfave.StringFlag{Name: config.FlagNotes, Usage: config.FlagDescNotes},
		&urfave.StringFlag{Name: config.FlagReminder, Usage: config.FlagDescReminder},
		&urfave.StringFlag{Name: config.FlagPhoto, Usage: config.FlagDescPhoto},
	}
}

// applyDraftFlags copies the flags given on the command line into d.
// Malformed dates and times are reported as codec errors; missing required
// fields are left for Draft.Validate.
func applyDraftFlags(c *urfave.Context, d *model.Draft) error {
	text := map[string]*string{
		config.FlagName:         &d.Name,
		config.FlagRelationship: &d.Relationship,
		config.FlagPhone:        &d.Phone,
		config.FlagEmail:        &d.Email,
		config.FlagNotes:        &d.Notes,
		config.FlagPhoto:        &d.Photo,
	}
	for name, field := range text {
		if c.IsSet(name) {
			*field = c.String(name)
		}
	}

	if c.IsSet(config.FlagDate) {
		date, err := codec.DecodeDate(strings.TrimSpace(c.String(config.FlagDate)))
		if err != nil {
			return err
		}
		d.BirthdayDate = &date
	}

	if c.IsSet(config.FlagReminder) {
		value := strings.TrimSpace(c.String(config.FlagReminder))
		if value == "" || strings.EqualFold(value, config.ReminderOff) {
			d.ReminderEnabled = false
			d.ReminderTime = nil
			return nil
		}
		t, err := codec.DecodeTime(value)
		if err != nil {
			return err
		}
		d.ReminderEnabled = true
		d.ReminderTime = &t
	}
	return nil
}
