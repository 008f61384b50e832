// Package cli is the command-line surface of the birthday tracker. It resolves
// the runtime configuration, wires the session, remote client, store and
// account service together and maps each command onto one core operation.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tartampluch/birthdays/internal/api"
	"github.com/tartampluch/birthdays/internal/auth"
	"github.com/tartampluch/birthdays/internal/calendar"
	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/locale"
	"github.com/tartampluch/birthdays/internal/prefs"
	"github.com/tartampluch/birthdays/internal/session"
	"github.com/tartampluch/birthdays/internal/store"
	urfave "github.com/urfave/cli/v2"
)

var errArgs = errors.New(config.ErrArgCount)

// App holds the process-level inputs of the CLI. The zero value writes to
// the standard streams and keeps the credential in the OS keyring.
type App struct {
	Out io.Writer
	Err io.Writer

	// SetupLogging is called once flags are resolved. The returned closer,
	// if any, is closed when the command ends.
	SetupLogging func(rt config.Runtime) io.Closer

	// Credentials overrides the store selected by --no-keyring.
	Credentials session.CredentialStore

	Clock calendar.Clock

	env *env
}

// env is the per-run dependency graph built in the Before hook.
type env struct {
	rt     config.Runtime
	tr     *locale.Translator
	prefs  *prefs.Preferences
	gate   *session.Gate
	store  *store.Store
	auth   *auth.Service
	closer io.Closer
}

// Run parses args (args[0] is the program name) and executes the selected
// command. A failure is reported on Err in the user's language and returned.
func (a *App) Run(ctx context.Context, args []string) error {
	a.defaults()
	err := a.Build().RunContext(ctx, args)
	if err != nil {
		fmt.Fprintln(a.Err, a.describe(err))
	}
	return err
}

// Build returns the urfave application. Run is the usual entry point.
func (a *App) Build() *urfave.App {
	a.defaults()
	return &urfave.App{
		Name:           config.BinaryName,
		Usage:          config.UsageApp,
		Version:        config.Version,
		HideVersion:    true,
		Writer:         a.Out,
		ErrWriter:      a.Err,
		Flags:          globalFlags(),
		Before:         a.before,
		After:          a.after,
		ExitErrHandler: func(*urfave.Context, error) {},
		Commands: []*urfave.Command{
			a.loginCommand(),
			a.registerCommand(),
			a.logoutCommand(),
			a.listCommand(),
			a.showCommand(),
			a.addCommand(),
			a.editCommand(),
			a.deleteCommand(),
			a.onCommand(),
			a.monthCommand(),
			a.upcomingCommand(),
			a.exportCommand(),
			a.importCommand(),
			a.serveCommand(),
			a.settingsCommand(),
			a.versionCommand(),
		},
	}
}

func (a *App) defaults() {
	if a.Out == nil {
		a.Out = os.Stdout
	}
	if a.Err == nil {
		a.Err = os.Stderr
	}
	if a.Clock == nil {
		a.Clock = calendar.RealClock{}
	}
}

func globalFlags() []urfave.Flag {
	return []urfave.Flag{
		&urfave.StringFlag{
			Name:    config.FlagAPIURL,
			Usage:   config.FlagDescAPIURL,
			Value:   config.DefaultAPIURL,
			EnvVars: []string{config.EnvAPIURL},
		},
		&urfave.DurationFlag{
			Name:    config.FlagTimeout,
			Usage:   config.FlagDescTimeout,
			Value:   config.HTTPTimeout,
			EnvVars: []string{config.EnvTimeout},
		},
		&urfave.StringFlag{
			Name:    config.FlagLanguage,
			Usage:   config.FlagDescLanguage,
			Value:   config.DefaultLanguage,
			EnvVars: []string{config.EnvLanguage},
		},
		&urfave.StringFlag{
			Name:    config.FlagDataDir,
			Usage:   config.FlagDescDataDir,
			EnvVars: []string{config.EnvDataDir},
		},
		&urfave.StringFlag{
			Name:    config.FlagLogDir,
			Usage:   config.FlagDescLogDir,
			EnvVars: []string{config.EnvLogDir},
		},
		&urfave.BoolFlag{
			Name:    config.FlagDebug,
			Usage:   config.FlagDescDebug,
			EnvVars: []string{config.EnvDebug},
		},
		&urfave.BoolFlag{
			Name:    config.FlagNoKeyring,
			Usage:   config.FlagDescNoKeyring,
			EnvVars: []string{config.EnvNoKeyring},
		},
	}
}

// before resolves the runtime configuration and builds the dependency graph.
// The language comes from --lang or its variable when given, otherwise from
// the saved preferences.
func (a *App) before(c *urfave.Context) error {
	rt := config.Runtime{
		APIBaseURL: c.String(config.FlagAPIURL),
		Timeout:    c.Duration(config.FlagTimeout),
		Language:   c.String(config.FlagLanguage),
		DataDir:    c.String(config.FlagDataDir),
		LogDir:     c.String(config.FlagLogDir),
		Debug:      c.Bool(config.FlagDebug),
		NoKeyring:  c.Bool(config.FlagNoKeyring),
	}
	rt.Normalize()

	e := &env{rt: rt}
	a.env = e
	if a.SetupLogging != nil {
		e.closer = a.SetupLogging(rt)
	}

	p, err := prefs.Load(rt.PrefsPath())
	if err != nil {
		slog.Warn(config.ErrLangPrefs,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyFile, rt.PrefsPath(),
			config.LogKeyError, err,
		)
		p = prefs.Default()
	}
	e.prefs = p
	if !c.IsSet(config.FlagLanguage) {
		e.rt.Language = p.Language
	}
	e.tr = locale.New(e.rt.Language)

	if err := rt.Validate(); err != nil {
		return err
	}

	creds := a.Credentials
	if creds == nil {
		if rt.NoKeyring {
			creds = session.NewFileStore(rt.CredentialPath())
		} else {
			creds = session.NewKeyringStore()
		}
	}
	e.gate = session.NewGate(creds)

	client := api.New(api.Options{
		BaseURL:    rt.APIBaseURL,
		Timeout:    rt.Timeout,
		UserAgent:  config.UserAgent,
		Authorizer: e.gate,
	})
	e.store = store.New(client)
	e.auth = auth.New(client, e.gate, e.store)
	return nil
}

func (a *App) after(*urfave.Context) error {
	if a.env != nil && a.env.closer != nil {
		return a.env.closer.Close()
	}
	return nil
}

// requireSession fails early when no credential is held, instead of letting
// the server answer 401.
func (a *App) requireSession() error {
	if !a.env.gate.Authenticated() {
		return session.ErrNoCredential
	}
	return nil
}

func (a *App) translator() *locale.Translator {
	if a.env != nil && a.env.tr != nil {
		return a.env.tr
	}
	return locale.New(config.DefaultLanguage)
}

// describe renders err for the user. The server's own explanation is
// appended when present; unclassified errors keep their technical text.
func (a *App) describe(err error) string {
	tr := a.translator()
	msg := tr.Describe(err)
	if sm := locale.ServerMessage(err); sm != "" {
		return msg + ": " + sm
	}
	if msg == tr.Msg(config.TKeyErrUnexpected) {
		return msg + ": " + err.Error()
	}
	return msg
}

func (a *App) say(key string) {
	fmt.Fprintln(a.Out, a.env.tr.Msg(key))
}

func (a *App) sayf(key string, data map[string]any) {
	fmt.Fprintln(a.Out, a.env.tr.Format(key, data))
}

func argCount(c *urfave.Context, lo, hi int) error {
	if n := c.Args().Len(); n < lo || n > hi {
		return fmt.Errorf("%w: %d", errArgs, n)
	}
	return nil
}
