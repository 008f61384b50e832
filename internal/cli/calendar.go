package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/tartampluch/birthdays/internal/calendar"
	"github.com/tartampluch/birthdays/internal/codec"
	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/model"
	"github.com/tartampluch/birthdays/internal/server"
	urfave "github.com/urfave/cli/v2"
)

// index refreshes the collection and returns the index derived from it.
func (a *App) index(ctx context.Context) (*calendar.Index, error) {
	if err := a.requireSession(); err != nil {
		return nil, err
	}
	if _, err := a.env.store.List(ctx); err != nil {
		return nil, err
	}
	return a.env.store.Index(), nil
}

func (a *App) onCommand() *urfave.Command {
	return &urfave.Command{
		Name:      config.CmdOn,
		Usage:     config.UsageOn,
		ArgsUsage: config.ArgsDate,
		Action: func(c *urfave.Context) error {
			if err := argCount(c, 0, 1); err != nil {
				return err
			}
			day := model.DateOf(a.Clock.Now())
			if c.Args().Len() == 1 {
				d, err := codec.DecodeDate(strings.TrimSpace(c.Args().First()))
				if err != nil {
					return err
				}
				day = d
			}
			ix, err := a.index(c.Context)
			if err != nil {
				return err
			}
			return a.printRecords(ix.OnDate(day))
		},
	}
}

func (a *App) monthCommand() *urfave.Command {
	return &urfave.Command{
		Name:      config.CmdMonth,
		Usage:     config.UsageMonth,
		ArgsUsage: config.ArgsMonth,
		Action: func(c *urfave.Context) error {
			if err := argCount(c, 0, 1); err != nil {
				return err
			}
			month := int(a.Clock.Now().Month())
			if c.Args().Len() == 1 {
				arg := strings.TrimSpace(c.Args().First())
				m, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("%w: %q", codec.ErrParse, arg)
				}
				month = m
			}
			ix, err := a.index(c.Context)
			if err != nil {
				return err
			}
			records, err := ix.InMonth(month)
			if err != nil {
				return err
			}
			return a.printRecords(records)
		},
	}
}

func (a *App) upcomingCommand() *urfave.Command {
	return &urfave.Command{
		Name:  config.CmdUpcoming,
		Usage: config.UsageUpcoming,
		Flags: []urfave.Flag{
			&urfave.IntFlag{Name: config.FlagLimit, Usage: config.FlagDescLimit, Value: config.DefaultUpcomingLimit},
		},
		Action: func(c *urfave.Context) error {
			ix, err := a.index(c.Context)
			if err != nil {
				return err
			}
			return a.printUpcoming(ix.Upcoming(a.Clock.Now(), c.Int(config.FlagLimit)))
		},
	}
}

// exporter renders localized event titles with the CLI clock.
func (a *App) exporter() *calendar.Exporter {
	exp := calendar.NewExporter()
	exp.Clock = a.Clock
	exp.FormatSummary = a.env.tr.Summary
	return exp
}

func (a *App) exportCommand() *urfave.Command {
	return &urfave.Command{
		Name:  config.CmdExport,
		Usage: config.UsageExport,
		Flags: []urfave.Flag{
			&urfave.StringFlag{Name: config.FlagOutput, Aliases: []string{"o"}, Usage: config.FlagDescOutput, Value: config.StdoutPath},
		},
		Action: func(c *urfave.Context) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			records, err := a.env.store.List(c.Context)
			if err != nil {
				return err
			}
			data, err := a.exporter().Export(c.Context, records)
			if err != nil {
				return err
			}

			path := c.String(config.FlagOutput)
			if path == "" || path == config.StdoutPath {
				_, err := a.Out.Write(data)
				return err
			}
			if err := os.WriteFile(path, data, config.FilePermUserRW); err != nil {
				return err
			}
			a.sayf(config.TKeyMsgExported, map[string]any{"Count": len(records), "File": path})
			return nil
		},
	}
}

// importCommand creates one record per usable card. A rejected card is
// logged and skipped; the command fails only when nothing could be created.
func (a *App) importCommand() *urfave.Command {
	return &urfave.Command{
		Name:      config.CmdImport,
		Usage:     config.UsageImport,
		ArgsUsage: config.ArgsFile,
		Flags: []urfave.Flag{
			&urfave.BoolFlag{Name: config.FlagDryRun, Usage: config.FlagDescDryRun},
			&urfave.StringFlag{Name: config.FlagUser, Usage: config.FlagDescUser, EnvVars: []string{config.EnvUser}},
			&urfave.StringFlag{Name: config.FlagSourcePass, Usage: config.FlagDescSourcePass, EnvVars: []string{config.EnvSource}},
		},
		Action: func(c *urfave.Context) error {
			if err := argCount(c, 1, 1); err != nil {
				return err
			}
			src, err := a.openSource(c)
			if err != nil {
				return err
			}
			defer func() { _ = src.Close() }()

			drafts, total, err := calendar.ImportVCards(c.Context, src)
			if err != nil {
				return err
			}

			if c.Bool(config.FlagDryRun) {
				if err := a.printDrafts(drafts); err != nil {
					return err
				}
				a.sayf(config.TKeyMsgImported, map[string]any{"Count": len(drafts), "Total": total})
				return nil
			}

			if err := a.requireSession(); err != nil {
				return err
			}
			created := 0
			var firstErr error
			for _, d := range drafts {
				if _, err := a.env.store.Create(c.Context, d); err != nil {
					slog.Warn(config.MsgImportFailed,
						config.LogKeyComponent, config.CompCLI,
						config.LogKeyValue, d.Name,
						config.LogKeyError, err,
					)
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				created++
			}
			if created == 0 && firstErr != nil {
				return firstErr
			}
			a.sayf(config.TKeyMsgImported, map[string]any{"Count": created, "Total": total})
			return nil
		},
	}
}

// openSource opens the import argument, downloading it when it is a URL.
func (a *App) openSource(c *urfave.Context) (io.ReadCloser, error) {
	location := c.Args().First()
	if strings.HasPrefix(location, config.SchemeHTTP+"://") || strings.HasPrefix(location, config.SchemeHTTPS+"://") {
		return calendar.NewFetcher(a.env.rt.Timeout).Fetch(c.Context, location, c.String(config.FlagUser), c.String(config.FlagSourcePass))
	}
	return os.Open(location)
}

func (a *App) serveCommand() *urfave.Command {
	return &urfave.Command{
		Name:  config.CmdServe,
		Usage: config.UsageServe,
		Flags: []urfave.Flag{
			&urfave.StringFlag{Name: config.FlagPort, Usage: config.FlagDescPort, Value: config.DefaultFeedPort, EnvVars: []string{config.EnvPort}},
			&urfave.DurationFlag{Name: config.FlagRefresh, Usage: config.FlagDescRefresh, Value: config.DefaultFeedRefresh},
		},
		Action: func(c *urfave.Context) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(c.Context)
			defer cancel()

			port := c.String(config.FlagPort)
			srv := server.NewFeedServer(port)
			feed := &server.Feed{Source: a.env.store, Renderer: a.exporter(), Target: srv}
			go feed.Run(ctx, c.Duration(config.FlagRefresh))

			slog.Info(config.MsgServerListen,
				config.LogKeyComponent, config.CompCLI,
				config.LogKeyPort, port,
			)
			a.sayf(config.TKeyMsgServing, map[string]any{
				"URL": fmt.Sprintf(config.FormatFeedURL, config.LocalhostBindAddr, port, config.RouteFeed),
			})
			return srv.Start(ctx)
		},
	}
}
