package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tartampluch/birthdays/internal/cli"
	"github.com/tartampluch/birthdays/internal/config"
)

// main delegates to runMain so deferred calls run before os.Exit.
func main() {
	os.Exit(runMain(os.Args))
}

// runMain loads the optional .env file, installs signal handling and runs
// the CLI. Returns config.ExitCodeSuccess on success, config.ExitCodeError on failure.
func runMain(args []string) int {
	// A missing .env is the normal case.
	_ = godotenv.Load(config.EnvFileName)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := &cli.App{
		Out:          os.Stdout,
		Err:          os.Stderr,
		SetupLogging: setupLogging,
	}

	if err := app.Run(ctx, args); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Debug(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo(rt config.Runtime) {
	slog.Debug(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyBuilt, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
			slog.String(config.LogKeyURL, rt.APIBaseURL),
		),
	)
}

// setupLogging configures the default slog logger: JSON records appended to
// the log file in the log directory, mirrored to stderr in debug mode so
// command output on stdout stays clean.
func setupLogging(rt config.Runtime) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	if rt.Debug {
		writers = append(writers, os.Stderr)
	}

	if err := os.MkdirAll(rt.LogDir, config.DirPermUserRWX); err != nil {
		fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrCreateDir, rt.LogDir, err)
	} else {
		logPath := rt.LogPath()
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if rt.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: rt.Debug,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)
	logStartupInfo(rt)

	if logFile == nil {
		return nil
	}
	return logFile
}
